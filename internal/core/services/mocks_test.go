package services

import (
	"context"
	"strings"
	"sync"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockExtractor implements driven.TextExtractor for testing.
type mockExtractor struct {
	err error
}

func (m *mockExtractor) Extract(_ context.Context, filename string, content []byte) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	if !m.Supports(filename) {
		return "", domain.ErrUnsupportedFormat
	}
	return string(content), nil
}

func (m *mockExtractor) Supports(filename string) bool {
	return strings.HasSuffix(filename, ".txt")
}

// mockEmbedder implements driven.EmbeddingService for testing.
type mockEmbedder struct {
	mu        sync.Mutex
	embedding []float32
	err       error
	pingErr   error
	calls     int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	vec := m.embedding
	if vec == nil {
		vec = []float32{1, 0, 0}
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = vec
	}
	return result, nil
}

func (m *mockEmbedder) Dimensions() int { return 3 }

func (m *mockEmbedder) ModelName() string { return "mock-embed" }

func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }

// mockIndex implements driven.VectorIndex for testing. Search returns
// the preset hits regardless of the query vector.
type mockIndex struct {
	mu        sync.Mutex
	hits      []domain.RetrievedChunk
	upserted  [][]domain.Chunk
	deleted   []string
	searchErr error
	upsertErr error
	deleteErr error
	pingErr   error
	docCount  int
	chunkCnt  int
}

var _ driven.VectorIndex = (*mockIndex)(nil)

func (m *mockIndex) Upsert(_ context.Context, chunks []domain.Chunk) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserted = append(m.upserted, chunks)
	return nil
}

func (m *mockIndex) Search(_ context.Context, _ []float32, filter domain.Filter, limit int) ([]domain.RetrievedChunk, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	var hits []domain.RetrievedChunk
	for _, h := range m.hits {
		if !filter.Matches(h.Chunk.DocumentID, h.Chunk.Filename) {
			continue
		}
		h.Rank = len(hits)
		hits = append(hits, h)
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

func (m *mockIndex) DeleteByDocument(_ context.Context, documentID string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, documentID)
	return nil
}

func (m *mockIndex) Count(_ context.Context) (int, int, error) {
	return m.docCount, m.chunkCnt, nil
}

func (m *mockIndex) Ping(_ context.Context) error { return m.pingErr }

func (m *mockIndex) Close() error { return nil }

// mockLLM implements driven.LLMService for testing and records what it
// was asked to generate.
type mockLLM struct {
	mu       sync.Mutex
	content  string
	err      error
	calls    int
	systems  []string
	users    []string
	lastOpts driven.GenerateOptions
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) Generate(_ context.Context, system, user string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.systems = append(m.systems, system)
	m.users = append(m.users, user)
	m.lastOpts = opts
	if m.err != nil {
		return "", m.err
	}
	return m.content, nil
}

func (m *mockLLM) ModelName() string { return "mock-llm" }

func (m *mockLLM) Ping(_ context.Context) error { return nil }

// hit builds a retrieved chunk for retrieval and generation tests.
func hit(docID, filename, text string, index int, score float64, rank int) domain.RetrievedChunk {
	return domain.RetrievedChunk{
		Chunk: domain.Chunk{
			ID:         docID + "-" + filename,
			DocumentID: docID,
			Filename:   filename,
			Index:      index,
			Text:       text,
		},
		Score: score,
		Rank:  rank,
	}
}
