package driven

import (
	"context"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// VectorIndex is the collection abstraction over a vector similarity
// search backend. It owns the durable copy of every chunk's vector and
// metadata. The similarity metric is cosine, fixed and identical
// between ingestion-time storage and query-time scoring.
type VectorIndex interface {
	// Upsert stores chunks with their vectors and metadata, keyed by
	// chunk ID. Idempotent: re-upserting a chunk ID replaces its
	// vector and metadata, so a retried partial ingestion converges.
	Upsert(ctx context.Context, chunks []domain.Chunk) error

	// Search returns up to limit chunks ordered descending by cosine
	// similarity to the query vector. The filter restricts the
	// candidate pool BEFORE the top-limit cutoff, never as a post-hoc
	// filter on unfiltered results. Ties break by insertion order.
	Search(ctx context.Context, query []float32, filter domain.Filter, limit int) ([]domain.RetrievedChunk, error)

	// DeleteByDocument removes every chunk of the given document.
	// Deleting a document that does not exist is not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Count reports the number of distinct documents and total chunks
	// for health reporting.
	Count(ctx context.Context) (documents int, chunks int, err error)

	// Ping validates the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
