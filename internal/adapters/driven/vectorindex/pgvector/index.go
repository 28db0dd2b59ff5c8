// Package pgvector provides a vector index adapter backed by PostgreSQL
// with the pgvector extension. Cosine similarity is computed as
// 1 - (embedding <=> query); the same operator class backs the HNSW
// index, so ingestion-time storage and query-time scoring never mix
// metrics.
package pgvector

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
	pgv "github.com/pgvector/pgvector-go"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Config holds configuration for the pgvector index.
type Config struct {
	// DSN is the PostgreSQL connection string.
	DSN string

	// Table is the chunks table name (default: scribe_chunks).
	Table string

	// Dimensions is the vector column size.
	Dimensions int
}

// Index stores chunks in a PostgreSQL table with a pgvector column.
type Index struct {
	db    *sql.DB
	table string
}

// New opens the database and ensures the schema exists.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("pgvector: DSN is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("pgvector: dimensions must be positive")
	}
	if cfg.Table == "" {
		cfg.Table = "scribe_chunks"
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("pgvector: opening database: %w", err)
	}

	x := &Index{db: db, table: cfg.Table}
	if err := x.ensureSchema(ctx, cfg.Dimensions); err != nil {
		db.Close()
		return nil, err
	}
	return x, nil
}

// ensureSchema creates the extension, table and indexes if absent.
func (x *Index) ensureSchema(ctx context.Context, dimensions int) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	statements := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			id UUID PRIMARY KEY,
			document_id TEXT NOT NULL,
			filename TEXT NOT NULL,
			chunk_index INT NOT NULL,
			total_chunks INT NOT NULL,
			content TEXT NOT NULL,
			embedding vector(%d) NOT NULL,
			uploaded_at TIMESTAMPTZ NOT NULL,
			seq BIGSERIAL
		)`, x.table, dimensions),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_document ON %s (document_id)`, x.table, x.table),
		fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_embedding ON %s USING hnsw (embedding vector_cosine_ops)`, x.table, x.table),
	}
	for _, stmt := range statements {
		if _, err := x.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("pgvector: ensuring schema: %w", err)
		}
	}
	return nil
}

// Upsert inserts chunks, replacing rows with the same chunk id.
func (x *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("pgvector: begin upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (id, document_id, filename, chunk_index, total_chunks, content, embedding, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			document_id = EXCLUDED.document_id,
			filename = EXCLUDED.filename,
			chunk_index = EXCLUDED.chunk_index,
			total_chunks = EXCLUDED.total_chunks,
			content = EXCLUDED.content,
			embedding = EXCLUDED.embedding,
			uploaded_at = EXCLUDED.uploaded_at`, x.table))
	if err != nil {
		return fmt.Errorf("pgvector: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		_, err := stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.Filename, c.Index, c.TotalChunks,
			c.Text, pgv.NewVector(c.Embedding), c.UploadedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("pgvector: upsert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("pgvector: commit upsert: %w", err)
	}
	return nil
}

// Search runs a filtered nearest-neighbour query. The WHERE clause
// restricts candidates before the LIMIT, and seq breaks score ties by
// insertion order.
func (x *Index) Search(ctx context.Context, query []float32, filter domain.Filter, limit int) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		return nil, nil
	}

	where := "TRUE"
	args := []any{pgv.NewVector(query), limit}
	next := 3

	if len(filter.DocumentIDs) > 0 {
		where += fmt.Sprintf(" AND document_id = ANY($%d)", next)
		ids := make([]string, len(filter.DocumentIDs))
		copy(ids, filter.DocumentIDs)
		args = append(args, pq.Array(ids))
		next++
	}
	if len(filter.Filenames) > 0 {
		where += fmt.Sprintf(" AND filename ILIKE ANY($%d)", next)
		patterns := make([]string, len(filter.Filenames))
		for i, sub := range filter.Filenames {
			patterns[i] = "%" + sub + "%"
		}
		args = append(args, pq.Array(patterns))
		next++
	}

	q := fmt.Sprintf(`
		SELECT id, document_id, filename, chunk_index, total_chunks, content, uploaded_at,
		       1 - (embedding <=> $1) AS similarity
		FROM %s
		WHERE %s
		ORDER BY embedding <=> $1, seq
		LIMIT $2`, x.table, where)

	rows, err := x.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("pgvector: search: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var c domain.Chunk
		var score float64
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Filename, &c.Index, &c.TotalChunks, &c.Text, &c.UploadedAt, &score); err != nil {
			return nil, fmt.Errorf("pgvector: scan result: %w", err)
		}
		results = append(results, domain.RetrievedChunk{Chunk: c, Score: score, Rank: len(results)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgvector: iterating results: %w", err)
	}
	return results, nil
}

// DeleteByDocument removes all chunks of a document. Deleting zero
// rows is success.
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	_, err := x.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE document_id = $1`, x.table), documentID)
	if err != nil {
		return fmt.Errorf("pgvector: delete document %s: %w", documentID, err)
	}
	return nil
}

// Count reports distinct documents and total chunks.
func (x *Index) Count(ctx context.Context) (int, int, error) {
	var docs, chunks int
	row := x.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(DISTINCT document_id), COUNT(*) FROM %s`, x.table))
	if err := row.Scan(&docs, &chunks); err != nil {
		return 0, 0, fmt.Errorf("pgvector: count: %w", err)
	}
	return docs, chunks, nil
}

// Ping checks database connectivity.
func (x *Index) Ping(ctx context.Context) error {
	if err := x.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pgvector: ping: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}
