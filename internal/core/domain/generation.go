package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// GenerationType selects the system prompt used for generation.
type GenerationType string

const (
	GenerationTypeFAQ     GenerationType = "faq"
	GenerationTypeSummary GenerationType = "summary"
	GenerationTypeBlog    GenerationType = "blog"
	GenerationTypeReport  GenerationType = "report"
	GenerationTypeGeneral GenerationType = "general"
)

// Valid reports whether the generation type is one of the known kinds.
func (t GenerationType) Valid() bool {
	switch t {
	case GenerationTypeFAQ, GenerationTypeSummary, GenerationTypeBlog,
		GenerationTypeReport, GenerationTypeGeneral:
		return true
	}
	return false
}

// Query length bounds. Queries outside these bounds are rejected
// before any external call is made.
const (
	MinQueryLength = 10
	MaxQueryLength = 2000
)

// GenerateRequest describes one content generation request.
type GenerateRequest struct {
	// Query is the user's request, e.g. "Create a FAQ about the
	// remote work policy".
	Query string

	// Type selects the generation style. Empty means general.
	Type GenerationType

	// Filter optionally narrows the retrieval candidate pool.
	Filter Filter

	// TopK overrides the configured number of chunks to retrieve
	// when positive.
	TopK int
}

// Validate checks the request before any collaborator is called.
func (r GenerateRequest) Validate() error {
	query := strings.TrimSpace(r.Query)
	length := utf8.RuneCountInString(query)
	if length < MinQueryLength {
		return fmt.Errorf("%w: query must be at least %d characters", ErrInvalidInput, MinQueryLength)
	}
	if length > MaxQueryLength {
		return fmt.Errorf("%w: query must be at most %d characters", ErrInvalidInput, MaxQueryLength)
	}
	if r.Type != "" && !r.Type.Valid() {
		return fmt.Errorf("%w: unknown generation type %q", ErrInvalidInput, r.Type)
	}
	if r.TopK < 0 {
		return fmt.Errorf("%w: top_k must not be negative", ErrInvalidInput)
	}
	return nil
}

// Source attributes one context chunk in a generation result.
// Sources parallel the assembled context: one entry per included chunk.
type Source struct {
	// DocumentID identifies the owning document.
	DocumentID string

	// Filename is the document's original filename.
	Filename string

	// Score is the similarity score of the underlying chunk.
	Score float64

	// Excerpt is a short extract of the chunk text.
	Excerpt string

	// ChunkIndex is the chunk's position within its document.
	ChunkIndex int

	// Reason explains in plain language why the chunk was selected.
	Reason string
}

// GroundingDecision is a terminal outcome of the grounding gate.
type GroundingDecision int

const (
	// GroundingRefuse means no evidence survived thresholding; the
	// generation backend must not be called.
	GroundingRefuse GroundingDecision = iota

	// GroundingWarn means evidence exists but mean similarity is below
	// the confidence floor; generation proceeds with a warning attached.
	GroundingWarn

	// GroundingProceed means evidence is strong enough to generate
	// without a warning.
	GroundingProceed
)

// String returns the decision name for logging.
func (d GroundingDecision) String() string {
	switch d {
	case GroundingRefuse:
		return "refuse"
	case GroundingWarn:
		return "warn"
	case GroundingProceed:
		return "proceed"
	}
	return "unknown"
}

// GenerationMetadata describes how a result was produced.
type GenerationMetadata struct {
	Query            string
	Type             GenerationType
	SourcesUsed      int
	AverageRelevance float64
	Model            string
	GeneratedAt      time.Time
}

// GenerationResult is the response shape at the core boundary.
type GenerationResult struct {
	// Content is the generated text, or the refusal message when the
	// grounding gate refused.
	Content string

	// Sources lists the chunks the content is grounded on, in rank order.
	Sources []Source

	// SearchDuration is the elapsed vector index search time.
	SearchDuration time.Duration

	// Warning is non-empty when evidence was weak or absent.
	Warning string

	// Metadata describes the generation run.
	Metadata GenerationMetadata
}
