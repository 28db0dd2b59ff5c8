package services

import (
	"fmt"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/logger"
)

// Grounding messages surfaced to the caller.
const (
	refusalContent = "I cannot generate this content because no relevant source documents " +
		"were found in the knowledge base. Please ensure relevant documents have been " +
		"uploaded, or try rephrasing your query."

	refusalWarning = "No relevant source documents found. Cannot generate grounded content."
)

// GroundingGate decides whether generation may proceed given the
// sources that made it into the assembled context.
type GroundingGate struct {
	confidenceFloor float64
}

// NewGroundingGate creates a gate with the given mean-score floor.
func NewGroundingGate(confidenceFloor float64) *GroundingGate {
	return &GroundingGate{confidenceFloor: confidenceFloor}
}

// Decide returns the grounding outcome, a warning for non-Proceed
// outcomes, and the mean similarity of the sources. With no sources the
// outcome is Refuse and the generation backend must not be called.
func (g *GroundingGate) Decide(sources []domain.Source) (domain.GroundingDecision, string, float64) {
	if len(sources) == 0 {
		logger.Debug("Grounding: no evidence, refusing")
		return domain.GroundingRefuse, refusalWarning, 0
	}

	var sum float64
	for _, s := range sources {
		sum += s.Score
	}
	mean := sum / float64(len(sources))

	if mean < g.confidenceFloor {
		logger.Debug("Grounding: weak evidence (mean %.2f < floor %.2f)", mean, g.confidenceFloor)
		warning := fmt.Sprintf(
			"Source documents have low relevance (avg: %.0f%%). Generated content may not fully address your query.",
			mean*100)
		return domain.GroundingWarn, warning, mean
	}

	logger.Debug("Grounding: proceeding (mean %.2f)", mean)
	return domain.GroundingProceed, "", mean
}
