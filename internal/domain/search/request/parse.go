package request

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Shourya125/dashboard/internal/domain/search/sortmode"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// DateLayout is the client date format for range bounds.
const DateLayout = "2006-01-02"

// ParseSort parses a federated sort mode. Empty input is relevance;
// unknown input falls back to relevance.
func ParseSort(raw string) Param[sortmode.Mode] {
	if strings.TrimSpace(raw) == "" {
		return Ok(sortmode.Relevance)
	}
	m, ok := sortmode.Parse(raw)
	if !ok {
		return FallbackTo(sortmode.Relevance, "unknown sort mode")
	}
	return Ok(m)
}

// ParseChronologicalSort parses a collection sort mode: "oldest" sorts
// ascending, everything else descending.
func ParseChronologicalSort(raw string) Param[sortmode.Mode] {
	if strings.TrimSpace(raw) == "" {
		return Ok(sortmode.Newest)
	}
	m, ok := sortmode.Parse(raw)
	switch {
	case !ok:
		return FallbackTo(sortmode.Newest, "unknown sort mode")
	case m == sortmode.Oldest:
		return Ok(sortmode.Oldest)
	default:
		return Ok(sortmode.Newest)
	}
}

// ParseSites parses a source selector. Empty input and "all" select every
// configured source; a comma-separated list selects those sources. Unknown
// names fall back to every source.
func ParseSites(raw string, reg *source.Registry) Param[[]source.Type] {
	all := reg.Types()
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "all") {
		return Ok(all)
	}

	want := make(map[source.Type]bool)
	for _, part := range strings.Split(raw, ",") {
		t := source.Type(strings.ToLower(strings.TrimSpace(part)))
		if t == "" {
			continue
		}
		if _, ok := reg.Lookup(t); !ok {
			return FallbackTo(all, "unknown source "+strconv.Quote(string(t)))
		}
		want[t] = true
	}
	if len(want) == 0 {
		return Ok(all)
	}

	selected := make([]source.Type, 0, len(want))
	for _, t := range all {
		if want[t] {
			selected = append(selected, t)
		}
	}
	return Ok(selected)
}

// ParseLimit applies the default when absent and falls back on
// non-positive or oversized values.
func ParseLimit(raw *int, def, maxLimit int) Param[int] {
	if raw == nil {
		return Ok(def)
	}
	switch {
	case *raw <= 0:
		return FallbackTo(def, "limit must be positive")
	case maxLimit > 0 && *raw > maxLimit:
		return FallbackTo(maxLimit, "limit exceeds maximum")
	default:
		return Ok(*raw)
	}
}

// ParseOffset defaults to 0 and falls back to 0 on negative values.
func ParseOffset(raw *int) Param[int] {
	if raw == nil {
		return Ok(0)
	}
	if *raw < 0 {
		return FallbackTo(0, "offset must not be negative")
	}
	return Ok(*raw)
}

// ParseDateBound parses a YYYY-MM-DD bound in loc. The start bound is the
// first millisecond of the day, the end bound the last. Empty input leaves
// the side open; malformed input falls back to open.
func ParseDateBound(raw string, endOfDay bool, loc *time.Location) Param[*int64] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ok[*int64](nil)
	}
	if loc == nil {
		loc = time.UTC
	}
	day, err := time.ParseInLocation(DateLayout, raw, loc)
	if err != nil {
		return FallbackTo[*int64](nil, "date must be YYYY-MM-DD")
	}
	ms := day.UnixMilli()
	if endOfDay {
		ms = day.AddDate(0, 0, 1).UnixMilli() - 1
	}
	return Ok(&ms)
}

// ParseDateRange parses both bounds of an inclusive date range.
func ParseDateRange(start, end string, loc *time.Location, dst *[]Fallback) DateRange {
	return DateRange{
		From: ParseDateBound(start, false, loc).Collect("startDate", start, dst),
		To:   ParseDateBound(end, true, loc).Collect("endDate", end, dst),
	}
}

// ParseTags parses a comma-separated flag list. Names src does not declare
// are dropped and reported; duplicates collapse.
func ParseTags(raw string, src source.Source) Param[[]string] {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Ok[[]string](nil)
	}

	var kept, unknown []string
	for _, part := range strings.Split(raw, ",") {
		name := strings.TrimSpace(part)
		switch {
		case name == "" || slices.Contains(kept, name):
		case src.HasFlag(name):
			kept = append(kept, name)
		default:
			unknown = append(unknown, strconv.Quote(name))
		}
	}
	if len(unknown) > 0 {
		return FallbackTo(kept, "unknown tag "+strings.Join(unknown, ", "))
	}
	return Ok(kept)
}
