package cli

import (
	"context"
	"errors"
	"time"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// mockIngestService echoes a report for the files it receives.
type mockIngestService struct {
	lastFiles []domain.FileUpload
	err       error
	report    *domain.UploadReport
}

func (m *mockIngestService) Ingest(_ context.Context, files []domain.FileUpload) (domain.UploadReport, error) {
	m.lastFiles = files
	if m.err != nil {
		return domain.UploadReport{}, m.err
	}
	if m.report != nil {
		return *m.report, nil
	}

	report := domain.UploadReport{Total: len(files), Succeeded: len(files)}
	for i, f := range files {
		report.Files = append(report.Files, domain.FileResult{
			Filename:   f.Filename,
			DocumentID: "doc-" + f.Filename,
			ChunkCount: i + 1,
		})
	}
	return report, nil
}

// mockGenerateService records the request and returns a canned result.
type mockGenerateService struct {
	lastReq domain.GenerateRequest
	result  domain.GenerationResult
	err     error
}

func (m *mockGenerateService) Generate(_ context.Context, req domain.GenerateRequest) (domain.GenerationResult, error) {
	m.lastReq = req
	if m.err != nil {
		return domain.GenerationResult{}, m.err
	}
	return m.result, nil
}

// mockLibraryService serves a fixed document list and health report.
type mockLibraryService struct {
	docs       []domain.Document
	deletedIDs []string
	deleteErr  error
	health     domain.HealthReport
	healthErr  error
}

func (m *mockLibraryService) List(_ context.Context) ([]domain.Document, error) {
	return m.docs, nil
}

func (m *mockLibraryService) Delete(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletedIDs = append(m.deletedIDs, documentID)
	return nil
}

func (m *mockLibraryService) Health(_ context.Context) (domain.HealthReport, error) {
	return m.health, m.healthErr
}

var errMock = errors.New("mock failure")

// sampleResult is a grounded generation result used across tests.
func sampleResult() domain.GenerationResult {
	return domain.GenerationResult{
		Content: "Q: What is the policy?\nA: Work from anywhere.",
		Sources: []domain.Source{
			{
				DocumentID: "doc-1",
				Filename:   "policy.txt",
				Score:      0.89,
				Excerpt:    "Employees may work remotely...",
				ChunkIndex: 0,
				Reason:     "Top match (89% similarity)",
			},
			{
				DocumentID: "doc-1",
				Filename:   "policy.txt",
				Score:      0.45,
				Excerpt:    "Equipment is provided...",
				ChunkIndex: 3,
				Reason:     "Rank 2 (45% similarity)",
			},
		},
		SearchDuration: 42 * time.Millisecond,
		Metadata: domain.GenerationMetadata{
			Query:            "What is the policy?",
			Type:             domain.GenerationTypeFAQ,
			SourcesUsed:      2,
			AverageRelevance: 0.67,
			Model:            "gpt-4o-mini",
			GeneratedAt:      time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	}
}

// setupTestServices swaps the package services for mocks and marks the
// root command as wired so PersistentPreRunE does not build real
// adapters. The returned cleanup restores the previous state.
func setupTestServices() func() {
	oldIngest := ingestService
	oldGenerate := generateService
	oldLibrary := libraryService
	oldWired := wired

	ingestService = &mockIngestService{}
	generateService = &mockGenerateService{result: sampleResult()}
	libraryService = &mockLibraryService{health: domain.HealthReport{
		IndexReachable:     true,
		EmbedderConfigured: true,
		TotalDocuments:     2,
		TotalChunks:        10,
	}}
	wired = true

	return func() {
		ingestService = oldIngest
		generateService = oldGenerate
		libraryService = oldLibrary
		wired = oldWired
	}
}
