package driving

import (
	"context"

	"github.com/scribe-kb/scribe/internal/core/domain"
)

// IngestService runs the ingestion path: extract, chunk, embed, index.
type IngestService interface {
	// Ingest processes the given files concurrently (bounded) and
	// returns a per-file report. One file failing does not abort its
	// siblings; the error return is reserved for total failures such
	// as an empty upload.
	Ingest(ctx context.Context, files []domain.FileUpload) (domain.UploadReport, error)
}
