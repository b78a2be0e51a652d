package result

import "github.com/Shourya125/dashboard/internal/domain/source"

// Federated is the merged outcome of a federated search.
type Federated struct {
	Records []Record
	// Counts holds the engine's estimated total per configured source;
	// excluded and failed sources report 0.
	Counts map[source.Type]int
}

// Listing is one page of a single-source browse.
type Listing struct {
	Records   []Record
	TotalHits int
	Offset    int
	Limit     int
}

// HasMore reports whether another page follows.
func (l Listing) HasMore() bool {
	return l.Offset+l.Limit < l.TotalHits
}

// Summary holds the latest records of every configured source.
type Summary struct {
	BySource map[source.Type][]Record
	Total    int
}
