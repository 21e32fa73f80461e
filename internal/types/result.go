package types

import "github.com/google/uuid"

// PageSnapshot holds the features a light scrape extracts from a single page.
// It is ephemeral: produced for scoring, kept only for diagnostics.
type PageSnapshot struct {
	URL           string `json:"url"`
	Host          string `json:"host"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"` // meta description, if any
	Text          string `json:"text,omitempty"`        // bounded extracted body text
	StatusCode    int    `json:"status_code"`
	ContentLength int    `json:"content_length"`
}

// ScoredCandidate pairs a snapshot with its officialness score.
type ScoredCandidate struct {
	Snapshot PageSnapshot `json:"snapshot"`
	Score    float64      `json:"score"`
}

// ResolutionResult is the outcome of resolving one event. An empty
// OfficialURL means no official site was found. Candidates holds the ordered
// light-scrape candidates that were considered, kept for diagnostics only.
type ResolutionResult struct {
	OfficialURL string            `json:"official_url,omitempty"`
	Candidates  []ScoredCandidate `json:"candidates,omitempty"`
	RunID       uuid.UUID         `json:"run_id"`
}

// Found reports whether an official URL was resolved.
func (r ResolutionResult) Found() bool {
	return r.OfficialURL != ""
}
