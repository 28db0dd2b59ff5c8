package driven

import "context"

// TextExtractor turns an uploaded file into plain text. Parsing of
// binary formats is collaborator territory; the core only depends on
// this contract. Unsupported formats (legacy pre-2007 Word files
// among them) yield domain.ErrUnsupportedFormat.
type TextExtractor interface {
	// Extract returns the plain text content of the file.
	Extract(ctx context.Context, filename string, content []byte) (string, error)

	// Supports reports whether the extractor can handle the filename's
	// format without attempting extraction.
	Supports(filename string) bool
}
