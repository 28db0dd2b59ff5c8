package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/scribe-kb/scribe/internal/chunker"
	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
	"github.com/scribe-kb/scribe/internal/core/ports/driving"
	"github.com/scribe-kb/scribe/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// IngestOptions configures ingestion behaviour.
type IngestOptions struct {
	// ReplaceOnConflict replaces an existing document when a filename is
	// re-uploaded. When false, the re-upload is rejected.
	ReplaceOnConflict bool

	// Concurrency bounds how many files are processed in parallel.
	Concurrency int
}

// IngestService runs the ingestion pipeline: extract, chunk, embed, index.
type IngestService struct {
	extractor driven.TextExtractor
	chunker   *chunker.Chunker
	embedder  driven.EmbeddingService
	index     driven.VectorIndex
	registry  driven.DocumentRegistry
	opts      IngestOptions
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	extractor driven.TextExtractor,
	ch *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	registry driven.DocumentRegistry,
	opts IngestOptions,
) *IngestService {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	return &IngestService{
		extractor: extractor,
		chunker:   ch,
		embedder:  embedder,
		index:     index,
		registry:  registry,
		opts:      opts,
	}
}

// Ingest processes the given files with bounded concurrency and returns
// a per-file report. One file failing does not abort its siblings.
func (s *IngestService) Ingest(ctx context.Context, files []domain.FileUpload) (domain.UploadReport, error) {
	if len(files) == 0 {
		return domain.UploadReport{}, fmt.Errorf("%w: no files to ingest", domain.ErrInvalidInput)
	}

	logger.Section("Ingestion")
	logger.Debug("Files: %d, concurrency: %d", len(files), s.opts.Concurrency)

	results := make([]domain.FileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Concurrency)

	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			doc, err := s.ingestOne(gctx, file)
			results[i] = domain.FileResult{
				Filename:   file.Filename,
				DocumentID: doc.ID,
				ChunkCount: doc.ChunkCount,
				Err:        err,
			}
			// Per-file failures go into the report, not the group error.
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return domain.UploadReport{}, err
	}

	report := domain.UploadReport{
		Total: len(files),
		Files: results,
	}
	for _, r := range results {
		if r.Err == nil {
			report.Succeeded++
		} else {
			report.Failed++
			logger.Warn("Ingest failed for %s: %v", r.Filename, r.Err)
		}
	}

	logger.Info("Ingested %d/%d files", report.Succeeded, report.Total)
	return report, nil
}

// ingestOne runs the full pipeline for a single file.
func (s *IngestService) ingestOne(ctx context.Context, file domain.FileUpload) (domain.Document, error) {
	if file.Filename == "" {
		return domain.Document{}, fmt.Errorf("%w: filename is empty", domain.ErrInvalidInput)
	}

	if err := s.resolveConflict(ctx, file.Filename); err != nil {
		return domain.Document{}, err
	}

	text, err := s.extractor.Extract(ctx, file.Filename, file.Content)
	if err != nil {
		return domain.Document{}, domain.NewStageError(domain.StageExtract, err)
	}

	texts := s.chunker.Chunk(text)
	if len(texts) == 0 {
		return domain.Document{}, fmt.Errorf("%s: %w", file.Filename, domain.ErrEmptyDocument)
	}
	logger.Debug("%s: %d chunks", file.Filename, len(texts))

	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return domain.Document{}, domain.NewStageError(domain.StageEmbed, err)
	}
	if len(embeddings) != len(texts) {
		return domain.Document{}, domain.NewStageError(domain.StageEmbed,
			fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddings)))
	}

	docID := uuid.New().String()
	uploadedAt := time.Now().UTC()

	chunks := make([]domain.Chunk, len(texts))
	for i, t := range texts {
		chunks[i] = domain.Chunk{
			ID:          uuid.New().String(),
			DocumentID:  docID,
			Filename:    file.Filename,
			Index:       i,
			TotalChunks: len(texts),
			Text:        t,
			Embedding:   embeddings[i],
			UploadedAt:  uploadedAt,
		}
	}

	if err := s.index.Upsert(ctx, chunks); err != nil {
		return domain.Document{}, domain.NewStageError(domain.StageIndex, err)
	}

	doc := domain.Document{
		ID:         docID,
		Filename:   file.Filename,
		ChunkCount: len(chunks),
		UploadedAt: uploadedAt,
	}
	if err := s.registry.Save(ctx, doc); err != nil {
		return domain.Document{}, fmt.Errorf("recording document: %w", err)
	}

	logger.Debug("%s: document %s indexed", file.Filename, docID)
	return doc, nil
}

// resolveConflict enforces the re-upload policy for a filename that is
// already in the registry.
func (s *IngestService) resolveConflict(ctx context.Context, filename string) error {
	existing, err := s.registry.FindByFilename(ctx, filename)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking for existing document: %w", err)
	}

	if !s.opts.ReplaceOnConflict {
		return fmt.Errorf("%s: %w: delete it first to re-upload", filename, domain.ErrAlreadyExists)
	}

	logger.Debug("Replacing existing document %s for %s", existing.ID, filename)
	if err := s.index.DeleteByDocument(ctx, existing.ID); err != nil {
		return domain.NewStageError(domain.StageIndex, err)
	}
	if err := s.registry.Delete(ctx, existing.ID); err != nil {
		return fmt.Errorf("removing replaced document: %w", err)
	}
	return nil
}
