package db

import "github.com/Shourya125/dashboard/internal/domain/search/filter"

// TypoTolerance sets the minimum token lengths that allow one and two edits
// in fuzzy matching. Zero disables the corresponding level.
type TypoTolerance struct {
	OneTypo  int
	TwoTypos int
}

// TextQuery is the input for a full-text search.
type TextQuery struct {
	IndexName string
	// Text is free text; empty matches every document.
	Text    string
	Filters filter.Expression
	Offset  int
	Limit   int

	// SortBy orders by a SORTABLE field instead of relevance.
	SortBy   string
	SortDesc bool

	// WithScores requests per-hit relevance scores.
	WithScores bool
	Scorer     string
	Typos      TypoTolerance

	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
