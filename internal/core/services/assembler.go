package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/scribe-kb/scribe/internal/chunker"
	"github.com/scribe-kb/scribe/internal/core/domain"
	"github.com/scribe-kb/scribe/internal/logger"
)

// excerptLimit caps the source excerpt length in characters.
const excerptLimit = 500

// Assembler builds the prompt context from evidence chunks under a
// token budget.
type Assembler struct {
	maxTokens int
}

// NewAssembler creates an assembler with the given context token budget.
func NewAssembler(maxTokens int) *Assembler {
	return &Assembler{maxTokens: maxTokens}
}

// Assemble renders the evidence into a tagged context block and the
// parallel source attributions. Chunks are taken in rank order; a chunk
// that would push the context past the token budget is dropped along
// with everything ranked below it. The top-ranked chunk is always
// included so non-empty evidence never assembles to an empty context.
func (a *Assembler) Assemble(evidence []domain.RetrievedChunk) (string, []domain.Source) {
	if len(evidence) == 0 {
		return "", nil
	}

	var parts []string
	var sources []domain.Source
	total := 0

	for _, hit := range evidence {
		part := fmt.Sprintf("[Source %d: %s]\n%s\n", len(parts)+1, hit.Chunk.Filename, hit.Chunk.Text)
		tokens := chunker.TokenCount(part)
		if len(parts) > 0 && total+tokens > a.maxTokens {
			logger.Debug("Context budget reached: dropping rank %d and below", hit.Rank)
			break
		}
		total += tokens
		parts = append(parts, part)
		sources = append(sources, domain.Source{
			DocumentID: hit.Chunk.DocumentID,
			Filename:   hit.Chunk.Filename,
			Score:      hit.Score,
			Excerpt:    truncateExcerpt(hit.Chunk.Text),
			ChunkIndex: hit.Chunk.Index,
			Reason:     domain.RelevanceReason(hit.Score, hit.Rank),
		})
	}

	logger.Debug("Assembled context: %d of %d chunks, ~%d tokens", len(parts), len(evidence), total)
	return strings.Join(parts, "\n---\n"), sources
}

// truncateExcerpt shortens chunk text for display. The cut backs up to
// a rune boundary so a multi-byte character is never split.
func truncateExcerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	cut := excerptLimit - 3
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}
