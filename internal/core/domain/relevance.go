package domain

import "fmt"

// relevanceBand maps a minimum score to its human-readable description.
// Bands are ordered descending by Min so lookup is a scan to the first
// band at or below the score.
type relevanceBand struct {
	Min   float64
	Label string
}

var relevanceBands = []relevanceBand{
	{0.8, "very high semantic similarity (%.0f%%) - directly relevant to your query"},
	{0.6, "high semantic similarity (%.0f%%) - contains relevant information"},
	{0.4, "moderate semantic similarity (%.0f%%) - contains related context"},
	{0.0, "low semantic similarity (%.0f%%) - included but may be only tangentially related"},
}

// RelevanceReason derives the attribution reason string for a source.
// It is a pure function of score and rank; no model call is involved.
// The top-ranked result is called out explicitly.
func RelevanceReason(score float64, rank int) string {
	label := relevanceBands[len(relevanceBands)-1].Label
	for _, band := range relevanceBands {
		if score >= band.Min {
			label = band.Label
			break
		}
	}
	reason := fmt.Sprintf(label, score*100)
	if rank == 0 {
		reason = "Top match: " + reason
	}
	return reason
}
