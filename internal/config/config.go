// Package config provides the explicit configuration value object passed
// into each component at construction. Nothing reads configuration from
// ambient state; components receive the parameters they need and are
// independently testable with different values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Conflict policies for re-uploading a filename that already exists.
const (
	OnConflictReject  = "reject"
	OnConflictReplace = "replace"
)

// Supported vector index backends.
const (
	IndexBackendQdrant   = "qdrant"
	IndexBackendPgvector = "pgvector"
	IndexBackendMemory   = "memory"
)

// EmbeddingConfig configures the embedding backend client.
type EmbeddingConfig struct {
	// Provider selects the adapter: "openai" or "ollama".
	Provider string `toml:"provider"`

	// BaseURL overrides the provider's default endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against the provider. Usually supplied via
	// the OPENAI_API_KEY environment variable rather than the file.
	APIKey string `toml:"api_key"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// Dimensions is the fixed embedding dimensionality.
	Dimensions int `toml:"dimensions"`

	// MaxBatchSize bounds how many texts go into one backend call.
	MaxBatchSize int `toml:"max_batch_size"`

	// RequestsPerSecond rate-limits calls to the backend. Zero disables
	// the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `toml:"timeout"`
}

// GenerationConfig configures the generation backend client.
type GenerationConfig struct {
	Provider string `toml:"provider"`
	BaseURL  string `toml:"base_url"`
	APIKey   string `toml:"api_key"`
	Model    string `toml:"model"`

	// Temperature is deliberately low by default for factual output.
	Temperature float64 `toml:"temperature"`

	// MaxTokens bounds the generated completion length.
	MaxTokens int `toml:"max_tokens"`

	Timeout time.Duration `toml:"timeout"`
}

// ChunkingConfig configures the token-window chunker.
type ChunkingConfig struct {
	// Size is the chunk window size in tokens.
	Size int `toml:"size"`

	// Overlap is how many tokens consecutive chunks share.
	Overlap int `toml:"overlap"`
}

// RetrievalConfig configures the query path.
type RetrievalConfig struct {
	// TopK is the number of chunks requested from the index.
	TopK int `toml:"top_k"`

	// SimilarityThreshold is the minimum score for a chunk to count
	// as evidence. The primary anti-hallucination gate.
	SimilarityThreshold float64 `toml:"similarity_threshold"`

	// ConfidenceFloor is the mean-score boundary below which a
	// low-confidence warning is attached.
	ConfidenceFloor float64 `toml:"confidence_floor"`

	// MaxContextTokens bounds the assembled prompt context.
	MaxContextTokens int `toml:"max_context_tokens"`
}

// IndexConfig configures the vector index backend.
type IndexConfig struct {
	// Backend selects the adapter: "qdrant", "pgvector" or "memory".
	Backend string `toml:"backend"`

	// Collection is the index collection (or table) name.
	Collection string `toml:"collection"`

	// QdrantURL is the Qdrant REST endpoint.
	QdrantURL string `toml:"qdrant_url"`

	// QdrantAPIKey authenticates against Qdrant when set.
	QdrantAPIKey string `toml:"qdrant_api_key"`

	// PostgresDSN is the connection string for the pgvector backend.
	PostgresDSN string `toml:"postgres_dsn"`
}

// IngestConfig configures the ingestion path.
type IngestConfig struct {
	// OnConflict decides what happens when a filename is re-uploaded:
	// "reject" (default) or "replace".
	OnConflict string `toml:"on_conflict"`

	// Concurrency bounds how many documents of one upload are
	// processed in parallel.
	Concurrency int `toml:"concurrency"`
}

// Config is the root configuration value object.
type Config struct {
	// DataDir is where local state (the document registry) lives.
	// Defaults to ~/.scribe.
	DataDir string `toml:"data_dir"`

	Embedding  EmbeddingConfig  `toml:"embedding"`
	Generation GenerationConfig `toml:"generation"`
	Chunking   ChunkingConfig   `toml:"chunking"`
	Retrieval  RetrievalConfig  `toml:"retrieval"`
	Index      IndexConfig      `toml:"index"`
	Ingest     IngestConfig     `toml:"ingest"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		Embedding: EmbeddingConfig{
			Provider:     "openai",
			Model:        "text-embedding-3-small",
			Dimensions:   1536,
			MaxBatchSize: 100,
			Timeout:      60 * time.Second,
		},
		Generation: GenerationConfig{
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			Temperature: 0.3,
			MaxTokens:   2000,
			Timeout:     120 * time.Second,
		},
		Chunking: ChunkingConfig{
			Size:    500,
			Overlap: 50,
		},
		Retrieval: RetrievalConfig{
			TopK:                5,
			SimilarityThreshold: 0.3,
			ConfidenceFloor:     0.4,
			MaxContextTokens:    4000,
		},
		Index: IndexConfig{
			Backend:    IndexBackendQdrant,
			Collection: "documents",
			QdrantURL:  "http://localhost:6333",
		},
		Ingest: IngestConfig{
			OnConflict:  OnConflictReject,
			Concurrency: 4,
		},
	}
}

// Load reads configuration from the TOML file at path, layered over
// defaults, then applies environment overrides. A missing file is not
// an error; defaults apply. If path is empty, ~/.scribe/config.toml
// is used.
func Load(path string) (Config, error) {
	cfg := Default()

	// Pick up a .env file when present. Missing files are fine.
	_ = godotenv.Load()

	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("config: resolving home directory: %w", err)
		}
		path = filepath.Join(home, ".scribe", "config.toml")
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Defaults apply.
	default:
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, fmt.Errorf("config: resolving home directory: %w", err)
		}
		cfg.DataDir = filepath.Join(home, ".scribe")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyEnv overlays environment variables onto the configuration.
func (c *Config) applyEnv() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		if c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
		if c.Generation.APIKey == "" {
			c.Generation.APIKey = v
		}
	}
	if v := os.Getenv("SCRIBE_QDRANT_URL"); v != "" {
		c.Index.QdrantURL = v
	}
	if v := os.Getenv("SCRIBE_QDRANT_API_KEY"); v != "" {
		c.Index.QdrantAPIKey = v
	}
	if v := os.Getenv("SCRIBE_POSTGRES_DSN"); v != "" {
		c.Index.PostgresDSN = v
	}
	if v := os.Getenv("SCRIBE_DATA_DIR"); v != "" {
		c.DataDir = v
	}
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("config: chunking.size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 || c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("config: chunking.overlap must satisfy 0 <= overlap < size, got %d", c.Chunking.Overlap)
	}
	if c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("config: embedding.dimensions must be positive, got %d", c.Embedding.Dimensions)
	}
	if c.Embedding.MaxBatchSize <= 0 {
		return fmt.Errorf("config: embedding.max_batch_size must be positive, got %d", c.Embedding.MaxBatchSize)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("config: retrieval.top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.SimilarityThreshold < -1 || c.Retrieval.SimilarityThreshold > 1 {
		return fmt.Errorf("config: retrieval.similarity_threshold must be within [-1,1], got %g", c.Retrieval.SimilarityThreshold)
	}
	if c.Retrieval.MaxContextTokens <= 0 {
		return fmt.Errorf("config: retrieval.max_context_tokens must be positive, got %d", c.Retrieval.MaxContextTokens)
	}
	switch c.Ingest.OnConflict {
	case OnConflictReject, OnConflictReplace:
	default:
		return fmt.Errorf("config: ingest.on_conflict must be %q or %q, got %q", OnConflictReject, OnConflictReplace, c.Ingest.OnConflict)
	}
	switch c.Index.Backend {
	case IndexBackendQdrant, IndexBackendPgvector, IndexBackendMemory:
	default:
		return fmt.Errorf("config: unknown index.backend %q", c.Index.Backend)
	}
	if c.Ingest.Concurrency <= 0 {
		return fmt.Errorf("config: ingest.concurrency must be positive, got %d", c.Ingest.Concurrency)
	}
	return nil
}
