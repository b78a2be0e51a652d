package result

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Lookup resolves a dotted path in a decoded document. A literal key
// containing dots wins over nested traversal.
func Lookup(doc map[string]any, path string) (any, bool) {
	if v, ok := doc[path]; ok {
		return v, true
	}
	cur := doc
	parts := strings.Split(path, ".")
	for i, part := range parts {
		v, ok := cur[part]
		if !ok {
			return nil, false
		}
		if i == len(parts)-1 {
			return v, true
		}
		next, ok := v.(map[string]any)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// Timestamp coerces a date value to epoch milliseconds.
// Numbers are taken as epoch ms; strings are parsed with layouts in order,
// zone-less layouts in loc. Missing or unparsable values yield 0.
func Timestamp(v any, layouts []string, loc *time.Location) int64 {
	switch t := v.(type) {
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return n
		}
		if f, err := t.Float64(); err == nil {
			return floatMillis(f)
		}
	case float64:
		return floatMillis(t)
	case int64:
		return t
	case int:
		return int64(t)
	case string:
		return parseDate(t, layouts, loc)
	}
	return 0
}

// floatMillis truncates f; values outside the int64 range yield 0.
func floatMillis(f float64) int64 {
	if math.IsNaN(f) || math.Abs(f) >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

func parseDate(s string, layouts []string, loc *time.Location) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts.UnixMilli()
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	return 0
}
