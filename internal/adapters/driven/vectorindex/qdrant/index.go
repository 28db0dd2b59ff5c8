// Package qdrant provides a vector index adapter backed by the Qdrant
// REST API. The collection is created on first use with cosine
// distance; chunk payloads carry the metadata needed for filtered
// search and display, so the index is the durable owner of every
// chunk's vector and metadata.
package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultTimeout = 30 * time.Second
	scrollPageSize = 256
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// URL is the Qdrant REST endpoint (e.g. http://localhost:6333).
	URL string

	// APIKey is sent in the api-key header when set.
	APIKey string

	// Collection is the collection name.
	Collection string

	// Dimensions is the vector size the collection is created with.
	Dimensions int

	// Timeout is the per-request timeout (default: 30s).
	Timeout time.Duration
}

// Index talks to a Qdrant collection over REST.
type Index struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	collection string
}

// New creates the index adapter and ensures the collection exists with
// cosine distance and the payload indexes used for filtering.
func New(ctx context.Context, cfg Config) (*Index, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("qdrant: URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("qdrant: collection name is required")
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions must be positive")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	x := &Index{
		client:     &http.Client{Timeout: cfg.Timeout},
		baseURL:    cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
	}

	if err := x.ensureCollection(ctx, cfg.Dimensions); err != nil {
		return nil, err
	}
	return x, nil
}

// ensureCollection creates the collection and payload indexes if absent.
// Qdrant answers 200 for an existing collection with the same schema.
func (x *Index) ensureCollection(ctx context.Context, dimensions int) error {
	var exists struct {
		Result struct {
			Exists bool `json:"exists"`
		} `json:"result"`
	}
	if err := x.do(ctx, http.MethodGet, fmt.Sprintf("/collections/%s/exists", x.collection), nil, &exists); err != nil {
		return fmt.Errorf("qdrant: checking collection: %w", err)
	}
	if exists.Result.Exists {
		return nil
	}

	create := map[string]any{
		"vectors": map[string]any{
			"size":     dimensions,
			"distance": "Cosine",
		},
	}
	if err := x.do(ctx, http.MethodPut, "/collections/"+x.collection, create, nil); err != nil {
		return fmt.Errorf("qdrant: creating collection: %w", err)
	}

	// Payload indexes make the pre-search filter cheap.
	for field, schema := range map[string]string{
		"document_id": "keyword",
		"filename":    "text",
	} {
		body := map[string]any{"field_name": field, "field_schema": schema}
		if err := x.do(ctx, http.MethodPut, fmt.Sprintf("/collections/%s/index", x.collection), body, nil); err != nil {
			return fmt.Errorf("qdrant: creating %s payload index: %w", field, err)
		}
	}
	return nil
}

// point is the Qdrant point representation for upsert.
type point struct {
	ID      string         `json:"id"`
	Vector  []float32      `json:"vector"`
	Payload map[string]any `json:"payload"`
}

// Upsert stores chunks as points keyed by chunk ID. Re-upserting a
// point ID replaces its vector and payload, so retried ingestions
// converge.
func (x *Index) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	points := make([]point, len(chunks))
	for i, c := range chunks {
		points[i] = point{
			ID:     c.ID,
			Vector: c.Embedding,
			Payload: map[string]any{
				"document_id":  c.DocumentID,
				"filename":     c.Filename,
				"chunk_index":  c.Index,
				"total_chunks": c.TotalChunks,
				"text":         c.Text,
				"uploaded_at":  c.UploadedAt.UTC().Format(time.RFC3339),
			},
		}
	}
	body := map[string]any{"points": points}
	path := fmt.Sprintf("/collections/%s/points?wait=true", x.collection)
	if err := x.do(ctx, http.MethodPut, path, body, nil); err != nil {
		return fmt.Errorf("qdrant: upsert: %w", err)
	}
	return nil
}

// buildFilter translates the domain filter into a Qdrant filter.
// Returns nil for the zero filter.
func buildFilter(filter domain.Filter) map[string]any {
	if filter.IsZero() {
		return nil
	}
	var must []map[string]any
	if len(filter.DocumentIDs) > 0 {
		must = append(must, map[string]any{
			"key":   "document_id",
			"match": map[string]any{"any": filter.DocumentIDs},
		})
	}
	if len(filter.Filenames) > 0 {
		should := make([]map[string]any, 0, len(filter.Filenames))
		for _, sub := range filter.Filenames {
			should = append(should, map[string]any{
				"key":   "filename",
				"match": map[string]any{"text": sub},
			})
		}
		must = append(must, map[string]any{"should": should})
	}
	return map[string]any{"must": must}
}

// Search asks Qdrant for the nearest points under the filter. The
// filter narrows the candidate set server-side before the top-limit
// cutoff is applied.
func (x *Index) Search(ctx context.Context, query []float32, filter domain.Filter, limit int) ([]domain.RetrievedChunk, error) {
	if limit <= 0 {
		return nil, nil
	}
	req := map[string]any{
		"vector":       query,
		"limit":        limit,
		"with_payload": true,
	}
	if f := buildFilter(filter); f != nil {
		req["filter"] = f
	}

	var resp struct {
		Result []struct {
			ID      string         `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	path := fmt.Sprintf("/collections/%s/points/search", x.collection)
	if err := x.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, fmt.Errorf("qdrant: search: %w", err)
	}

	results := make([]domain.RetrievedChunk, 0, len(resp.Result))
	for i, r := range resp.Result {
		results = append(results, domain.RetrievedChunk{
			Chunk: chunkFromPayload(r.ID, r.Payload),
			Score: r.Score,
			Rank:  i,
		})
	}
	return results, nil
}

// chunkFromPayload rebuilds a chunk from a point payload.
func chunkFromPayload(id string, payload map[string]any) domain.Chunk {
	c := domain.Chunk{ID: id}
	if v, ok := payload["document_id"].(string); ok {
		c.DocumentID = v
	}
	if v, ok := payload["filename"].(string); ok {
		c.Filename = v
	}
	if v, ok := payload["chunk_index"].(float64); ok {
		c.Index = int(v)
	}
	if v, ok := payload["total_chunks"].(float64); ok {
		c.TotalChunks = int(v)
	}
	if v, ok := payload["text"].(string); ok {
		c.Text = v
	}
	if v, ok := payload["uploaded_at"].(string); ok {
		if ts, err := time.Parse(time.RFC3339, v); err == nil {
			c.UploadedAt = ts
		}
	}
	return c
}

// DeleteByDocument removes every point whose payload carries the
// document id. Qdrant treats deleting nothing as success, which is
// exactly the idempotency the ingestion path relies on.
func (x *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	body := map[string]any{
		"filter": map[string]any{
			"must": []map[string]any{
				{"key": "document_id", "match": map[string]any{"value": documentID}},
			},
		},
	}
	path := fmt.Sprintf("/collections/%s/points/delete?wait=true", x.collection)
	if err := x.do(ctx, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("qdrant: delete document %s: %w", documentID, err)
	}
	return nil
}

// Count scrolls the collection aggregating distinct document ids.
func (x *Index) Count(ctx context.Context) (int, int, error) {
	docs := make(map[string]struct{})
	chunks := 0

	var offset any
	for {
		req := map[string]any{
			"limit":        scrollPageSize,
			"with_payload": []string{"document_id"},
			"with_vector":  false,
		}
		if offset != nil {
			req["offset"] = offset
		}

		var resp struct {
			Result struct {
				Points []struct {
					Payload map[string]any `json:"payload"`
				} `json:"points"`
				NextPageOffset any `json:"next_page_offset"`
			} `json:"result"`
		}
		path := fmt.Sprintf("/collections/%s/points/scroll", x.collection)
		if err := x.do(ctx, http.MethodPost, path, req, &resp); err != nil {
			return 0, 0, fmt.Errorf("qdrant: scroll: %w", err)
		}

		chunks += len(resp.Result.Points)
		for _, p := range resp.Result.Points {
			if id, ok := p.Payload["document_id"].(string); ok {
				docs[id] = struct{}{}
			}
		}

		if resp.Result.NextPageOffset == nil {
			break
		}
		offset = resp.Result.NextPageOffset
	}
	return len(docs), chunks, nil
}

// Ping checks the collection is reachable.
func (x *Index) Ping(ctx context.Context) error {
	if err := x.do(ctx, http.MethodGet, "/collections/"+x.collection, nil, nil); err != nil {
		return fmt.Errorf("qdrant: ping: %w", err)
	}
	return nil
}

// Close releases resources.
func (x *Index) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}

// do performs one JSON request against the Qdrant API.
func (x *Index) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, x.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if x.apiKey != "" {
		req.Header.Set("api-key", x.apiKey)
	}

	resp, err := x.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, string(data))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
