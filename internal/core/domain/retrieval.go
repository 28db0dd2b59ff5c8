package domain

// Filter restricts the candidate pool for a similarity search.
// It is applied at the index boundary, before the top-k cutoff,
// so filtering never costs recall against unfiltered candidates.
// A zero Filter matches everything.
type Filter struct {
	// DocumentIDs restricts results to chunks of these documents.
	DocumentIDs []string

	// Filenames restricts results to chunks whose filename matches any
	// of these terms. Matching granularity is backend-defined: the
	// memory and pgvector indexes match case-insensitive substrings,
	// qdrant matches whole tokens of the filename, so a mid-word
	// fragment only matches on the former two.
	Filenames []string
}

// IsZero reports whether the filter imposes no restriction.
func (f Filter) IsZero() bool {
	return len(f.DocumentIDs) == 0 && len(f.Filenames) == 0
}

// Matches reports whether a chunk with the given document id and
// filename passes the filter.
func (f Filter) Matches(documentID, filename string) bool {
	if len(f.DocumentIDs) > 0 {
		found := false
		for _, id := range f.DocumentIDs {
			if id == documentID {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if len(f.Filenames) > 0 {
		found := false
		for _, sub := range f.Filenames {
			if sub != "" && containsFold(filename, sub) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// containsFold is a case-insensitive substring test without pulling
// strings into the hot path signature.
func containsFold(s, sub string) bool {
	if len(sub) > len(s) {
		return false
	}
	lower := func(b byte) byte {
		if 'A' <= b && b <= 'Z' {
			return b + 'a' - 'A'
		}
		return b
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := 0; j < len(sub); j++ {
			if lower(s[i+j]) != lower(sub[j]) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// RetrievedChunk is a transient, ranked search hit. It is recomputed
// per request and never persisted.
type RetrievedChunk struct {
	Chunk Chunk

	// Score is the cosine similarity between the query embedding and
	// the chunk embedding.
	Score float64

	// Rank is the zero-based position in the result set, descending
	// by score.
	Rank int
}
