package services

import (
	"context"
	"time"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
	"github.com/scribe-kb/scribe/internal/core/ports/driving"
	"github.com/scribe-kb/scribe/internal/logger"
)

// Ensure GenerateService implements the interface.
var _ driving.GenerateService = (*GenerateService)(nil)

// GenerateOptions configures the generation call.
type GenerateOptions struct {
	// Temperature for the generation backend. Kept low for factual output.
	Temperature float64

	// MaxTokens bounds the generated completion length.
	MaxTokens int
}

// GenerateService runs the query path: retrieve, assemble, gate, generate.
type GenerateService struct {
	retriever *Retriever
	assembler *Assembler
	gate      *GroundingGate
	llm       driven.LLMService
	opts      GenerateOptions
}

// NewGenerateService creates a new generation service.
func NewGenerateService(
	retriever *Retriever,
	assembler *Assembler,
	gate *GroundingGate,
	llm driven.LLMService,
	opts GenerateOptions,
) *GenerateService {
	return &GenerateService{
		retriever: retriever,
		assembler: assembler,
		gate:      gate,
		llm:       llm,
		opts:      opts,
	}
}

// Generate answers the request with content grounded exclusively in
// retrieved chunks. When the grounding gate refuses, the generation
// backend is never called and the result is a structured refusal.
func (s *GenerateService) Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerationResult, error) {
	if err := req.Validate(); err != nil {
		return domain.GenerationResult{}, err
	}

	genType := req.Type
	if genType == "" {
		genType = domain.GenerationTypeGeneral
	}

	logger.Section("Generation")
	logger.Debug("Query: %q, type: %s", req.Query, genType)

	evidence, searchDuration, err := s.retriever.Retrieve(ctx, req.Query, req.Filter, req.TopK)
	if err != nil {
		return domain.GenerationResult{}, err
	}

	contextBlock, sources := s.assembler.Assemble(evidence)

	// The gate judges what actually made it into the context, so the
	// reported confidence matches what the model saw.
	decision, warning, mean := s.gate.Decide(sources)

	metadata := domain.GenerationMetadata{
		Query:            req.Query,
		Type:             genType,
		SourcesUsed:      len(sources),
		AverageRelevance: mean,
		Model:            s.llm.ModelName(),
		GeneratedAt:      time.Now().UTC(),
	}

	if decision == domain.GroundingRefuse {
		logger.Info("Refusing: no evidence passed the similarity threshold")
		return domain.GenerationResult{
			Content:        refusalContent,
			Sources:        []domain.Source{},
			SearchDuration: searchDuration,
			Warning:        warning,
			Metadata:       metadata,
		}, nil
	}

	content, err := s.llm.Generate(ctx, systemPrompt(genType), userPrompt(req.Query, contextBlock), driven.GenerateOptions{
		MaxTokens:   s.opts.MaxTokens,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		return domain.GenerationResult{}, domain.NewStageError(domain.StageGenerate, err)
	}

	logger.Info("Generated %d characters from %d sources", len(content), len(sources))
	return domain.GenerationResult{
		Content:        content,
		Sources:        sources,
		SearchDuration: searchDuration,
		Warning:        warning,
		Metadata:       metadata,
	}, nil
}
