package domain

import "time"

// Document represents an ingested document as recorded in the registry.
// A document is immutable once chunked: re-ingestion either replaces it
// wholesale or is rejected, depending on the configured conflict policy.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Filename is the original filename as uploaded.
	Filename string

	// ChunkCount is the number of chunks produced during ingestion.
	ChunkCount int

	// UploadedAt is when the document was ingested.
	UploadedAt time.Time
}

// Chunk is the atomic retrievable unit. Chunks are created only during
// ingestion and are never mutated; they are deleted only together with
// their document.
type Chunk struct {
	// ID is the unique identifier for the chunk.
	ID string

	// DocumentID links to the owning Document.
	DocumentID string

	// Filename is denormalised from the document for filtering and display.
	Filename string

	// Index is the zero-based position within the document.
	Index int

	// TotalChunks is the chunk count of the owning document.
	TotalChunks int

	// Text is the raw chunk content.
	Text string

	// Embedding is the dense vector representation.
	Embedding []float32

	// UploadedAt is inherited from the owning document.
	UploadedAt time.Time
}

// FileUpload is a single file submitted for ingestion.
// Content holds the raw bytes; text extraction happens at the
// extractor boundary.
type FileUpload struct {
	Filename string
	Content  []byte
}

// FileResult reports the outcome of ingesting one file.
// Failures are per-file: one file failing does not abort its siblings.
type FileResult struct {
	Filename   string
	DocumentID string
	ChunkCount int
	Err        error
}

// UploadReport aggregates the results of a multi-file upload.
type UploadReport struct {
	Total     int
	Succeeded int
	Failed    int
	Files     []FileResult
}

// HealthReport describes backend connectivity and corpus size.
type HealthReport struct {
	IndexReachable     bool
	EmbedderConfigured bool
	TotalDocuments     int
	TotalChunks        int
}
