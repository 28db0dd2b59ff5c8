// Package sqlite provides a SQLite-backed document registry.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/scribe-kb/scribe/internal/adapters/driven/registry/sqlite/migrations"
	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// Registry is a SQLite-based document catalog.
type Registry struct {
	db   *sql.DB
	path string
}

var _ driven.DocumentRegistry = (*Registry)(nil)

// New creates a registry at the specified data directory.
// If dataDir is empty, defaults to ~/.scribe/data/registry.db.
func New(dataDir string) (*Registry, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".scribe", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "registry.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	r := &Registry{
		db:   db,
		path: dbPath,
	}

	if err := r.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return r, nil
}

// Close closes the database connection.
func (r *Registry) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Registry) Path() string {
	return r.path
}

// migrate runs all pending migrations.
func (r *Registry) migrate(fsys embed.FS) error {
	_, err := r.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := r.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := r.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := r.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Save records a document, replacing any existing row with the same ID.
func (r *Registry) Save(ctx context.Context, doc domain.Document) error {
	if doc.ID == "" {
		return domain.ErrInvalidInput
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, chunk_count, uploaded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			chunk_count = excluded.chunk_count,
			uploaded_at = excluded.uploaded_at
	`, doc.ID, doc.Filename, doc.ChunkCount, doc.UploadedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Get retrieves a document by ID.
func (r *Registry) Get(ctx context.Context, id string) (domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, chunk_count, uploaded_at
		FROM documents WHERE id = ?
	`, id)

	return scanDocument(row)
}

// FindByFilename retrieves the most recently uploaded document with the
// given filename.
func (r *Registry) FindByFilename(ctx context.Context, filename string) (domain.Document, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, filename, chunk_count, uploaded_at
		FROM documents WHERE filename = ?
		ORDER BY uploaded_at DESC LIMIT 1
	`, filename)

	return scanDocument(row)
}

// List returns all documents, newest first.
func (r *Registry) List(ctx context.Context) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, filename, chunk_count, uploaded_at
		FROM documents
		ORDER BY uploaded_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var uploadedAt sql.NullTime
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.ChunkCount, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		if uploadedAt.Valid {
			doc.UploadedAt = uploadedAt.Time
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, nil
}

// Delete removes a document record. Deleting an absent ID is a no-op.
func (r *Registry) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}
	return nil
}

// scanDocument scans a single document row.
func scanDocument(row *sql.Row) (domain.Document, error) {
	var doc domain.Document
	var uploadedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.ChunkCount, &uploadedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Document{}, domain.ErrNotFound
		}
		return domain.Document{}, fmt.Errorf("scanning document: %w", err)
	}

	if uploadedAt.Valid {
		doc.UploadedAt = uploadedAt.Time
	}

	return doc, nil
}
