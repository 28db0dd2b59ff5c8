package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	regmemory "github.com/scribe-kb/scribe/internal/adapters/driven/registry/memory"
	"github.com/scribe-kb/scribe/internal/core/domain"
)

func TestLibrary_List(t *testing.T) {
	reg := regmemory.New()
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, reg.Save(ctx, domain.Document{ID: "doc-1", Filename: "a.txt", UploadedAt: now.Add(-time.Hour)}))
	require.NoError(t, reg.Save(ctx, domain.Document{ID: "doc-2", Filename: "b.txt", UploadedAt: now}))

	svc := NewLibraryService(reg, &mockIndex{}, &mockEmbedder{})
	docs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "doc-2", docs[0].ID, "newest first")
}

func TestLibrary_Delete(t *testing.T) {
	reg := regmemory.New()
	index := &mockIndex{}
	ctx := context.Background()

	require.NoError(t, reg.Save(ctx, domain.Document{ID: "doc-1", Filename: "a.txt", UploadedAt: time.Now()}))

	svc := NewLibraryService(reg, index, &mockEmbedder{})
	require.NoError(t, svc.Delete(ctx, "doc-1"))

	assert.Equal(t, []string{"doc-1"}, index.deleted)
	_, err := reg.Get(ctx, "doc-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// Idempotent: deleting again succeeds.
	assert.NoError(t, svc.Delete(ctx, "doc-1"))
}

func TestLibrary_DeleteEmptyID(t *testing.T) {
	svc := NewLibraryService(regmemory.New(), &mockIndex{}, &mockEmbedder{})
	err := svc.Delete(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLibrary_DeleteIndexFailure(t *testing.T) {
	reg := regmemory.New()
	ctx := context.Background()
	require.NoError(t, reg.Save(ctx, domain.Document{ID: "doc-1", Filename: "a.txt", UploadedAt: time.Now()}))

	svc := NewLibraryService(reg, &mockIndex{deleteErr: errors.New("index down")}, &mockEmbedder{})
	err := svc.Delete(ctx, "doc-1")
	require.Error(t, err)

	// The registry row survives so the document remains listed.
	_, err = reg.Get(ctx, "doc-1")
	assert.NoError(t, err)
}

func TestLibrary_Health(t *testing.T) {
	index := &mockIndex{docCount: 3, chunkCnt: 42}
	svc := NewLibraryService(regmemory.New(), index, &mockEmbedder{})

	report, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, report.IndexReachable)
	assert.True(t, report.EmbedderConfigured)
	assert.Equal(t, 3, report.TotalDocuments)
	assert.Equal(t, 42, report.TotalChunks)
}

func TestLibrary_HealthIndexUnreachable(t *testing.T) {
	index := &mockIndex{pingErr: errors.New("connection refused")}
	svc := NewLibraryService(regmemory.New(), index, &mockEmbedder{})

	report, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.False(t, report.IndexReachable)
	assert.Zero(t, report.TotalDocuments)
}

func TestLibrary_HealthEmbedderUnreachable(t *testing.T) {
	svc := NewLibraryService(regmemory.New(), &mockIndex{}, &mockEmbedder{pingErr: errors.New("401")})

	report, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.True(t, report.IndexReachable)
	assert.False(t, report.EmbedderConfigured)
}
