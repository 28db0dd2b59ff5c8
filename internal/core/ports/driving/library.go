package driving

import (
	"context"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// LibraryService manages the document collection.
type LibraryService interface {
	// List returns all ingested documents, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document and all of its chunks. Idempotent:
	// deleting an unknown ID succeeds.
	Delete(ctx context.Context, documentID string) error

	// Health reports backend connectivity and corpus size.
	Health(ctx context.Context) (domain.HealthReport, error)
}
