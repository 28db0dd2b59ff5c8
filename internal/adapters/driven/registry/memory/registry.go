// Package memory provides an in-memory document registry for tests
// and ephemeral setups.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// Registry is a map-backed document catalog guarded by a mutex.
type Registry struct {
	mu   sync.RWMutex
	docs map[string]domain.Document
}

var _ driven.DocumentRegistry = (*Registry)(nil)

// New creates an empty registry.
func New() *Registry {
	return &Registry{docs: make(map[string]domain.Document)}
}

// Save records a document, replacing any existing entry with the same ID.
func (r *Registry) Save(_ context.Context, doc domain.Document) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

// Get returns a document by ID.
func (r *Registry) Get(_ context.Context, id string) (domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	doc, ok := r.docs[id]
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return doc, nil
}

// FindByFilename returns the most recently uploaded document with the
// given filename.
func (r *Registry) FindByFilename(_ context.Context, filename string) (domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found domain.Document
	var ok bool
	for _, doc := range r.docs {
		if doc.Filename != filename {
			continue
		}
		if !ok || doc.UploadedAt.After(found.UploadedAt) {
			found = doc
			ok = true
		}
	}
	if !ok {
		return domain.Document{}, domain.ErrNotFound
	}
	return found, nil
}

// List returns all documents, newest first.
func (r *Registry) List(_ context.Context) ([]domain.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	docs := make([]domain.Document, 0, len(r.docs))
	for _, doc := range r.docs {
		docs = append(docs, doc)
	}
	sort.Slice(docs, func(i, j int) bool {
		if !docs[i].UploadedAt.Equal(docs[j].UploadedAt) {
			return docs[i].UploadedAt.After(docs[j].UploadedAt)
		}
		return docs[i].ID < docs[j].ID
	})
	return docs, nil
}

// Delete removes a document. Deleting an absent ID is a no-op.
func (r *Registry) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

// Close is a no-op.
func (r *Registry) Close() error {
	return nil
}
