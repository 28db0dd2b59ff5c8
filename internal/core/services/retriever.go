package services

import (
	"context"
	"time"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
	"github.com/scribe-kb/scribe/internal/logger"
)

// Retriever embeds a query and searches the vector index, keeping only
// chunks whose similarity clears the threshold.
type Retriever struct {
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	topK      int
	threshold float64
}

// NewRetriever creates a retriever. topK is the default result count;
// threshold is the minimum similarity for a chunk to count as evidence.
func NewRetriever(embedder driven.EmbeddingService, index driven.VectorIndex, topK int, threshold float64) *Retriever {
	return &Retriever{
		embedder:  embedder,
		index:     index,
		topK:      topK,
		threshold: threshold,
	}
}

// Retrieve returns the evidence chunks for a query, re-ranked after the
// threshold cut, along with the elapsed index search time.
func (r *Retriever) Retrieve(
	ctx context.Context, query string, filter domain.Filter, topK int,
) ([]domain.RetrievedChunk, time.Duration, error) {
	if topK <= 0 {
		topK = r.topK
	}

	embedding, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, 0, domain.NewStageError(domain.StageEmbed, err)
	}
	logger.Debug("Query embedding: %d dimensions", len(embedding))

	searchStart := time.Now()
	hits, err := r.index.Search(ctx, embedding, filter, topK)
	searchDuration := time.Since(searchStart)
	if err != nil {
		return nil, searchDuration, domain.NewStageError(domain.StageIndex, err)
	}
	logger.Debug("Index search: %d hits in %s", len(hits), searchDuration)

	// Drop sub-threshold hits and re-rank the survivors. The index
	// returns hits in descending score order, so ranks stay contiguous.
	evidence := make([]domain.RetrievedChunk, 0, len(hits))
	for _, hit := range hits {
		if hit.Score < r.threshold {
			continue
		}
		hit.Rank = len(evidence)
		evidence = append(evidence, hit)
	}

	logger.Debug("Evidence after threshold %.2f: %d chunks", r.threshold, len(evidence))
	return evidence, searchDuration, nil
}
