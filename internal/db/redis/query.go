package redis

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/search/filter"
)

// matchAll is the FT.SEARCH query matching every document in an index.
const matchAll = "*"

// buildQuery combines the numeric pre-filter with the free-text part.
func buildQuery(q *db.TextQuery) string {
	filterStr := buildFilter(q.Filters)
	text := buildTextQuery(q.Text, q.Typos)

	switch {
	case filterStr == "" && text == "":
		return matchAll
	case filterStr == "":
		return text
	case text == "":
		return filterStr
	default:
		return filterStr + " " + text
	}
}

// buildTextQuery tokenizes free text on anything that is not a letter, digit
// or combining mark, so no query syntax survives and Indic vowel signs stay
// inside their word. Long alphabetic tokens also match
// within the configured edit distance; the exact form stays in the union
// so exact matches keep ranking first.
func buildTextQuery(text string, typos db.TypoTolerance) string {
	tokens := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r)
	})
	if len(tokens) == 0 {
		return ""
	}

	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		tok = strings.ToLower(tok)
		parts = append(parts, fuzzyTerm(tok, typos))
	}
	return strings.Join(parts, " ")
}

func fuzzyTerm(tok string, typos db.TypoTolerance) string {
	if isNumeric(tok) {
		return tok
	}
	n := utf8.RuneCountInString(tok)
	switch {
	case typos.TwoTypos > 0 && n >= typos.TwoTypos:
		return "(" + tok + "|%%" + tok + "%%)"
	case typos.OneTypo > 0 && n >= typos.OneTypo:
		return "(" + tok + "|%" + tok + "%)"
	default:
		return tok
	}
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// --- Filter building ---

// buildFilter translates filter.Expression into an FT.SEARCH pre-filter query string.
func buildFilter(expr filter.Expression) string {
	if expr.IsEmpty() {
		return ""
	}

	parts := make([]string, 0, len(expr.Conditions()))
	for _, cond := range expr.Conditions() {
		if cond.Kind() == filter.KindTag {
			parts = append(parts, buildTagFilter(cond))
			continue
		}
		parts = append(parts, buildNumericFilter(cond))
	}
	return strings.Join(parts, " ")
}

func buildTagFilter(cond filter.Condition) string {
	values := make([]string, len(cond.Values()))
	for i, v := range cond.Values() {
		values[i] = escapeTag(v)
	}
	return fmt.Sprintf("@%s:{%s}", cond.Field(), strings.Join(values, "|"))
}

// escapeTag backslash-escapes every rune that tag syntax treats as punctuation.
func escapeTag(v string) string {
	var b strings.Builder
	b.Grow(len(v))
	for _, r := range v {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsMark(r) && r != '_' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func buildNumericFilter(cond filter.Condition) string {
	minBound := "-inf"
	maxBound := "+inf"

	if cond.From() != nil {
		minBound = strconv.FormatInt(*cond.From(), 10)
	}
	if cond.To() != nil {
		maxBound = strconv.FormatInt(*cond.To(), 10)
	}

	return fmt.Sprintf("@%s:[%s %s]", cond.Field(), minBound, maxBound)
}
