package services

import (
	"context"
	"fmt"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
	"github.com/scribe-kb/scribe/internal/core/ports/driving"
	"github.com/scribe-kb/scribe/internal/logger"
)

// Ensure LibraryService implements the interface.
var _ driving.LibraryService = (*LibraryService)(nil)

// LibraryService manages the document collection.
type LibraryService struct {
	registry driven.DocumentRegistry
	index    driven.VectorIndex
	embedder driven.EmbeddingService
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	registry driven.DocumentRegistry,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
) *LibraryService {
	return &LibraryService{
		registry: registry,
		index:    index,
		embedder: embedder,
	}
}

// List returns all ingested documents, newest first.
func (s *LibraryService) List(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	return docs, nil
}

// Delete removes a document and all of its chunks. Idempotent: deleting
// an unknown ID succeeds. The index is cleared first so a failure never
// leaves orphaned vectors behind a missing registry row.
func (s *LibraryService) Delete(ctx context.Context, documentID string) error {
	if documentID == "" {
		return fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	if err := s.index.DeleteByDocument(ctx, documentID); err != nil {
		return domain.NewStageError(domain.StageIndex, err)
	}
	if err := s.registry.Delete(ctx, documentID); err != nil {
		return fmt.Errorf("removing document record: %w", err)
	}

	logger.Debug("Deleted document %s", documentID)
	return nil
}

// Health reports backend connectivity and corpus size. An unreachable
// index is reported, not returned as an error.
func (s *LibraryService) Health(ctx context.Context) (domain.HealthReport, error) {
	report := domain.HealthReport{}

	if err := s.index.Ping(ctx); err != nil {
		logger.Warn("Index unreachable: %v", err)
		return report, nil
	}
	report.IndexReachable = true

	if s.embedder != nil {
		if err := s.embedder.Ping(ctx); err != nil {
			logger.Warn("Embedding backend unreachable: %v", err)
		} else {
			report.EmbedderConfigured = true
		}
	}

	docs, chunks, err := s.index.Count(ctx)
	if err != nil {
		return report, fmt.Errorf("counting corpus: %w", err)
	}
	report.TotalDocuments = docs
	report.TotalChunks = chunks

	return report, nil
}
