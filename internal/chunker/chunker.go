// Package chunker splits extracted document text into overlapping,
// sentence-respecting token windows. Chunking is deterministic:
// identical input and configuration always produce the same sequence.
package chunker

import (
	"fmt"
	"strings"
)

// boundaryToleranceDivisor sets the sentence-boundary search window as a
// fraction of the chunk size.
const boundaryToleranceDivisor = 10

// Chunker produces overlapping token windows from text.
type Chunker struct {
	size      int
	overlap   int
	tolerance int
}

// New creates a chunker emitting windows of size tokens where consecutive
// windows share overlap tokens. Requires size > overlap >= 0.
func New(size, overlap int) (*Chunker, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunker: size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, fmt.Errorf("chunker: overlap must satisfy 0 <= overlap < size, got %d", overlap)
	}
	tolerance := size / boundaryToleranceDivisor
	if tolerance < 1 {
		tolerance = 1
	}
	return &Chunker{size: size, overlap: overlap, tolerance: tolerance}, nil
}

// TokenCount returns the number of tokens in text under the chunker's
// token model (whitespace-delimited fields).
func TokenCount(text string) int {
	return len(strings.Fields(text))
}

// Chunk splits text into token windows. A document shorter than the
// chunk size yields exactly one chunk; empty or whitespace-only text
// yields zero chunks, which callers must treat as an ingestion failure.
func (c *Chunker) Chunk(text string) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}
	if len(tokens) <= c.size {
		return []string{strings.Join(tokens, " ")}
	}

	var chunks []string
	start := 0
	for start < len(tokens) {
		end := start + c.size
		if end >= len(tokens) {
			end = len(tokens)
		} else {
			end = c.adjustToSentenceBoundary(tokens, start, end)
		}

		chunks = append(chunks, strings.Join(tokens[start:end], " "))
		if end == len(tokens) {
			break
		}
		// The next window begins overlap tokens before this one ended,
		// so consecutive chunks share exactly overlap tokens.
		start = end - c.overlap
	}
	return chunks
}

// adjustToSentenceBoundary moves the window end to the nearest token
// ending a sentence, within the tolerance. The hard token boundary is
// kept when no terminator is near enough or when shrinking would stall
// the window advance.
func (c *Chunker) adjustToSentenceBoundary(tokens []string, start, end int) int {
	for d := 0; d <= c.tolerance; d++ {
		if extended := end + d; extended < len(tokens) && endsSentence(tokens[extended-1]) {
			return extended
		}
		if shrunk := end - d; shrunk-start > c.overlap && endsSentence(tokens[shrunk-1]) {
			return shrunk
		}
	}
	return end
}

// endsSentence reports whether a token closes a sentence. Trailing
// quotes and brackets after the terminator are accepted.
func endsSentence(token string) bool {
	for i := len(token) - 1; i >= 0; i-- {
		switch token[i] {
		case '"', '\'', ')', ']', '}':
			continue
		case '.', '!', '?':
			return true
		default:
			return false
		}
	}
	return false
}
