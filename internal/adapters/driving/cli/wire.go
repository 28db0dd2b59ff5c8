package cli

import (
	"context"
	"fmt"

	"github.com/scribe-kb/scribe/internal/adapters/driven/embedding/ollama"
	"github.com/scribe-kb/scribe/internal/adapters/driven/embedding/openai"
	"github.com/scribe-kb/scribe/internal/adapters/driven/extractor/plaintext"
	ollamallm "github.com/scribe-kb/scribe/internal/adapters/driven/llm/ollama"
	openaillm "github.com/scribe-kb/scribe/internal/adapters/driven/llm/openai"
	"github.com/scribe-kb/scribe/internal/adapters/driven/registry/sqlite"
	"github.com/scribe-kb/scribe/internal/adapters/driven/vectorindex/memory"
	"github.com/scribe-kb/scribe/internal/adapters/driven/vectorindex/pgvector"
	"github.com/scribe-kb/scribe/internal/adapters/driven/vectorindex/qdrant"
	"github.com/scribe-kb/scribe/internal/chunker"
	"github.com/scribe-kb/scribe/internal/config"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
	"github.com/scribe-kb/scribe/internal/core/services"
)

// wireServices builds the concrete adapters selected by the
// configuration and assembles the core services on top of them. The
// returned cleanup closes backend connections.
func wireServices(cfg config.Config) (func(), error) {
	ctx := context.Background()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return nil, err
	}

	index, err := buildIndex(ctx, cfg)
	if err != nil {
		return nil, err
	}

	registry, err := sqlite.New(cfg.DataDir)
	if err != nil {
		index.Close()
		return nil, err
	}

	llm, err := buildLLM(cfg)
	if err != nil {
		index.Close()
		registry.Close()
		return nil, err
	}

	ch, err := chunker.New(cfg.Chunking.Size, cfg.Chunking.Overlap)
	if err != nil {
		index.Close()
		registry.Close()
		return nil, err
	}

	ingestService = services.NewIngestService(
		plaintext.New(),
		ch,
		embedder,
		index,
		registry,
		services.IngestOptions{
			ReplaceOnConflict: cfg.Ingest.OnConflict == config.OnConflictReplace,
			Concurrency:       cfg.Ingest.Concurrency,
		},
	)

	retriever := services.NewRetriever(embedder, index, cfg.Retrieval.TopK, cfg.Retrieval.SimilarityThreshold)
	assembler := services.NewAssembler(cfg.Retrieval.MaxContextTokens)
	gate := services.NewGroundingGate(cfg.Retrieval.ConfidenceFloor)

	generateService = services.NewGenerateService(
		retriever,
		assembler,
		gate,
		llm,
		services.GenerateOptions{
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		},
	)

	libraryService = services.NewLibraryService(registry, index, embedder)

	return func() {
		index.Close()
		registry.Close()
	}, nil
}

func buildEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:            cfg.Embedding.APIKey,
			BaseURL:           cfg.Embedding.BaseURL,
			Model:             cfg.Embedding.Model,
			Timeout:           cfg.Embedding.Timeout,
			Dimensions:        cfg.Embedding.Dimensions,
			MaxBatchSize:      cfg.Embedding.MaxBatchSize,
			RequestsPerSecond: cfg.Embedding.RequestsPerSecond,
		})
	case "ollama":
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Timeout:    cfg.Embedding.Timeout,
			Dimensions: cfg.Embedding.Dimensions,
		}), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func buildIndex(ctx context.Context, cfg config.Config) (driven.VectorIndex, error) {
	switch cfg.Index.Backend {
	case config.IndexBackendQdrant:
		return qdrant.New(ctx, qdrant.Config{
			URL:        cfg.Index.QdrantURL,
			APIKey:     cfg.Index.QdrantAPIKey,
			Collection: cfg.Index.Collection,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case config.IndexBackendPgvector:
		return pgvector.New(ctx, pgvector.Config{
			DSN:        cfg.Index.PostgresDSN,
			Table:      cfg.Index.Collection,
			Dimensions: cfg.Embedding.Dimensions,
		})
	case config.IndexBackendMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

func buildLLM(cfg config.Config) (driven.LLMService, error) {
	switch cfg.Generation.Provider {
	case "openai":
		return openaillm.NewLLMService(openaillm.Config{
			APIKey:  cfg.Generation.APIKey,
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
			Timeout: cfg.Generation.Timeout,
		})
	case "ollama":
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: cfg.Generation.BaseURL,
			Model:   cfg.Generation.Model,
			Timeout: cfg.Generation.Timeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
}
