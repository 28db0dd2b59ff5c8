package driven

import (
	"context"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// DocumentRegistry is the durable catalog of ingested documents. The
// vector index owns chunk vectors and payloads; the registry answers
// listing and existence questions without scanning the index.
type DocumentRegistry interface {
	// Save records a document. Saving an existing ID replaces it.
	Save(ctx context.Context, doc domain.Document) error

	// Get returns a document by ID, or domain.ErrNotFound.
	Get(ctx context.Context, id string) (domain.Document, error)

	// FindByFilename returns the document with the given filename,
	// or domain.ErrNotFound.
	FindByFilename(ctx context.Context, filename string) (domain.Document, error)

	// List returns all documents ordered by upload time, newest first.
	List(ctx context.Context) ([]domain.Document, error)

	// Delete removes a document record. Deleting an absent ID is not
	// an error.
	Delete(ctx context.Context, id string) error

	// Close releases resources.
	Close() error
}
