package sortmode

import "strings"

// Mode is the ordering applied to merged search results.
type Mode string

// Sort mode constants.
const (
	// Relevance orders by engine score, highest first.
	Relevance Mode = "relevance"
	// Newest orders by timestamp, most recent first.
	Newest Mode = "newest"
	// Oldest orders by timestamp, earliest first.
	Oldest Mode = "oldest"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Relevance || m == Newest || m == Oldest
}

// IsChronological reports whether the mode orders by timestamp.
func (m Mode) IsChronological() bool {
	return m == Newest || m == Oldest
}

// Parse maps a client value onto a mode. Matching is case-insensitive;
// ok is false for values outside the supported set.
func Parse(s string) (Mode, bool) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.IsValid() {
		return Relevance, false
	}
	return m, true
}
