// Package plaintext extracts text from plain-text document formats.
package plaintext

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/core/ports/driven"
)

// supportedExtensions maps lowercase file extensions this extractor
// handles. Markdown is treated as plain text; its markup survives into
// chunks, which keeps headings searchable.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
}

// Extractor reads .txt and .md files as-is.
type Extractor struct{}

var _ driven.TextExtractor = (*Extractor)(nil)

// New creates a plain-text extractor.
func New() *Extractor {
	return &Extractor{}
}

// Supports reports whether the filename has a plain-text extension.
func (e *Extractor) Supports(filename string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Extract returns the file content as a string. Non-UTF-8 bytes are
// replaced so downstream tokenization never sees invalid sequences.
func (e *Extractor) Extract(ctx context.Context, filename string, content []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if !e.Supports(filename) {
		ext := strings.ToLower(filepath.Ext(filename))
		if ext == "" {
			ext = "unknown"
		}
		return "", fmt.Errorf("%s files: %w", ext, domain.ErrUnsupportedFormat)
	}

	text := string(content)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
	}

	// Strip a UTF-8 BOM if present.
	text = strings.TrimPrefix(text, "\uFEFF")

	return text, nil
}
