package driving

import (
	"context"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// GenerateService runs the query path: embed the query, search the
// index, assemble a bounded context, apply the grounding gate, and
// call the generation backend with only the surviving evidence.
type GenerateService interface {
	// Generate answers the request with content grounded exclusively
	// in retrieved chunks. When no evidence passes the similarity
	// threshold the result is a structured refusal and the generation
	// backend is never called.
	Generate(ctx context.Context, req domain.GenerateRequest) (domain.GenerationResult, error)
}
