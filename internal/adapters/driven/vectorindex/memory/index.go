// Package memory provides an in-memory vector index used in tests and
// for small local corpora. It mirrors the behaviour of the durable
// backends: cosine scoring, pre-search filtering, idempotent upsert
// and delete, insertion-order tie-breaking.
package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is an in-memory implementation of the vector index port.
type Index struct {
	mu     sync.RWMutex
	chunks []domain.Chunk
	byID   map[string]int
}

// New creates an empty in-memory index.
func New() *Index {
	return &Index{byID: make(map[string]int)}
}

// Upsert stores chunks keyed by ID, replacing existing entries in place
// so insertion order for tie-breaking is preserved.
func (x *Index) Upsert(_ context.Context, chunks []domain.Chunk) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	for _, c := range chunks {
		if pos, ok := x.byID[c.ID]; ok {
			x.chunks[pos] = c
			continue
		}
		x.byID[c.ID] = len(x.chunks)
		x.chunks = append(x.chunks, c)
	}
	return nil
}

// Search scores filtered candidates by cosine similarity and returns
// the top limit in descending order.
func (x *Index) Search(_ context.Context, query []float32, filter domain.Filter, limit int) ([]domain.RetrievedChunk, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	if limit <= 0 {
		return nil, nil
	}

	var results []domain.RetrievedChunk
	for _, c := range x.chunks {
		if !filter.Matches(c.DocumentID, c.Filename) {
			continue
		}
		results = append(results, domain.RetrievedChunk{
			Chunk: c,
			Score: cosineSimilarity(query, c.Embedding),
		})
	}

	// Stable sort keeps insertion order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	for i := range results {
		results[i].Rank = i
	}
	return results, nil
}

// DeleteByDocument removes every chunk of the document. Unknown
// documents are a no-op.
func (x *Index) DeleteByDocument(_ context.Context, documentID string) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	kept := x.chunks[:0]
	for _, c := range x.chunks {
		if c.DocumentID != documentID {
			kept = append(kept, c)
		}
	}
	x.chunks = kept
	x.byID = make(map[string]int, len(x.chunks))
	for i, c := range x.chunks {
		x.byID[c.ID] = i
	}
	return nil
}

// Count reports distinct documents and total chunks.
func (x *Index) Count(_ context.Context) (int, int, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	docs := make(map[string]struct{})
	for _, c := range x.chunks {
		docs[c.DocumentID] = struct{}{}
	}
	return len(docs), len(x.chunks), nil
}

// Ping always succeeds for the in-memory index.
func (x *Index) Ping(_ context.Context) error {
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero vectors score zero.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
