package dashboard

// Source names a document stream.
type Source string

// Source constants.
const (
	News    Source = "news"
	Archive Source = "archive"
	Gazette Source = "gazette"
)

// SourceConfig describes the index behind a source.
type SourceConfig struct {
	Index       string
	KeyPrefix   string
	DateField   string // dotted paths allowed
	SortField   string // numeric epoch-ms field; defaults to DateField
	RangeField  string // numeric epoch-ms field for date ranges; defaults to SortField
	DateLayouts []string
	Searchable  []SearchField
	Subfilters  []string
	Flags       []string // boolean fields selectable through BrowseQuery.Tags
	SentFlag    string   // boolean field counted by PendingAlerts
}

// SearchField is a full-text field with its ranking weight.
type SearchField struct {
	Path   string
	Weight float64
}

// Record is one normalized search hit.
type Record struct {
	ID        string
	Source    Source
	Score     float64
	Timestamp int64 // epoch ms, 0 when unknown
	Fields    map[string]any
}

// SearchQuery is a federated search over several sources.
// Zero values select every source, relevance order and the default limit.
type SearchQuery struct {
	Query     string
	Sources   []Source
	SortBy    string // relevance, newest, oldest
	Limit     int    // per source
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
}

// SearchResults is the merged outcome of a federated search.
type SearchResults struct {
	Records []Record
	Counts  map[Source]int
}

// BrowseQuery pages through a single source.
type BrowseQuery struct {
	Query      string
	Subfilters map[string]string
	StartDate  string
	EndDate    string
	SortBy     string // oldest, anything else newest
	Offset     int
	Limit      int
	Tags       []string // flags that must all be true
}

// Page is one page of a single source.
type Page struct {
	Records   []Record
	TotalHits int
	Offset    int
	Limit     int
	HasMore   bool
}

// Summary holds the newest records of every source.
type Summary struct {
	BySource map[Source][]Record
	Total    int
}
