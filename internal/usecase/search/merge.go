package search

import (
	"sort"

	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/search/sortmode"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// merge normalizes every hit, concatenates sources in the given order and
// applies one stable sort, so records with equal keys keep source order and
// then engine order.
func merge(sources []source.Source, pages map[source.Type]result.Page, mode sortmode.Mode) []result.Record {
	n := 0
	for _, src := range sources {
		n += len(pages[src.Type()].Hits)
	}

	records := make([]result.Record, 0, n)
	for _, src := range sources {
		for _, h := range pages[src.Type()].Hits {
			records = append(records, result.FromHit(src, h))
		}
	}

	sort.SliceStable(records, less(records, mode))
	return records
}

func less(records []result.Record, mode sortmode.Mode) func(i, j int) bool {
	switch mode {
	case sortmode.Newest:
		return func(i, j int) bool { return records[i].Timestamp() > records[j].Timestamp() }
	case sortmode.Oldest:
		return func(i, j int) bool { return records[i].Timestamp() < records[j].Timestamp() }
	default:
		return func(i, j int) bool { return records[i].Score() > records[j].Score() }
	}
}

// counts reports the estimated total of every configured source, 0 for
// sources without a page.
func counts(all []source.Source, pages map[source.Type]result.Page) map[source.Type]int {
	out := make(map[source.Type]int, len(all))
	for _, src := range all {
		out[src.Type()] = pages[src.Type()].EstimatedTotal
	}
	return out
}
