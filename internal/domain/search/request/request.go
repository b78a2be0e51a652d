package request

import (
	"strconv"
	"strings"
	"time"

	"github.com/Shourya125/dashboard/internal/domain/search/filter"
	"github.com/Shourya125/dashboard/internal/domain/search/sortmode"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// MaxQueryLength is the maximum free-text query length; longer input is truncated.
const MaxQueryLength = 1024

// Limits bounds and defaults applied while parsing requests.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
	Location     *time.Location
}

// DateRange is an inclusive epoch-ms range. Nil bounds are open.
type DateRange struct {
	From *int64
	To   *int64
}

// IsOpen reports whether neither bound is set.
func (d DateRange) IsOpen() bool { return d.From == nil && d.To == nil }

// Filter restricts field to the range.
func (d DateRange) Filter(field string) filter.Expression {
	return filter.And(d.Condition(field))
}

// Condition is the range condition on field; the zero Condition when open.
func (d DateRange) Condition(field string) filter.Condition {
	if d.IsOpen() {
		return filter.Condition{}
	}
	c, err := filter.Between(field, d.From, d.To)
	if err != nil {
		return filter.Condition{}
	}
	return c
}

// flagConditions requires every named flag to be true.
func flagConditions(flags []string) []filter.Condition {
	conds := make([]filter.Condition, 0, len(flags))
	for _, name := range flags {
		c, err := filter.AnyOf(source.TagAttribute(name), "true")
		if err != nil {
			continue
		}
		conds = append(conds, c)
	}
	return conds
}

// SourceQuery is the query sent to a single source index.
type SourceQuery struct {
	Text    string
	Filters filter.Expression
	Sort    sortmode.Mode
	Offset  int
	Limit   int
}

// FederatedParams are the raw parameters of a federated search.
type FederatedParams struct {
	Query     string
	Site      string
	SortBy    string
	StartDate string
	EndDate   string
	Limit     *int
}

// Federated is a validated federated search over several sources.
type Federated struct {
	query   string
	sources []source.Type
	sort    sortmode.Mode
	limit   int
	dates   DateRange
}

// NewFederated normalizes federated search parameters. Malformed values are
// replaced by defaults and reported as fallbacks; it never fails.
func NewFederated(p FederatedParams, reg *source.Registry, lim Limits) (Federated, []Fallback) {
	var fallbacks []Fallback
	limitRaw := ""
	if p.Limit != nil {
		limitRaw = strconv.Itoa(*p.Limit)
	}
	f := Federated{
		query:   normalizeQuery(p.Query),
		sources: ParseSites(p.Site, reg).Collect("site", p.Site, &fallbacks),
		sort:    ParseSort(p.SortBy).Collect("sortBy", p.SortBy, &fallbacks),
		limit:   ParseLimit(p.Limit, lim.DefaultLimit, lim.MaxLimit).Collect("limit", limitRaw, &fallbacks),
		dates:   ParseDateRange(p.StartDate, p.EndDate, lim.Location, &fallbacks),
	}
	return f, fallbacks
}

// Query returns the free-text query; empty matches everything.
func (f Federated) Query() string { return f.query }

// Sources returns the selected sources in enumeration order.
func (f Federated) Sources() []source.Type { return f.sources }

// Sort returns the merge ordering.
func (f Federated) Sort() sortmode.Mode { return f.sort }

// Limit returns the per-source hit limit.
func (f Federated) Limit() int { return f.limit }

// Dates returns the optional date range.
func (f Federated) Dates() DateRange { return f.dates }

// ForSource builds the index query for src.
func (f Federated) ForSource(src source.Source) SourceQuery {
	return SourceQuery{
		Text:    f.query,
		Filters: f.dates.Filter(src.RangeAttribute()),
		Sort:    f.sort,
		Limit:   f.limit,
	}
}

// CollectionParams are the raw parameters of a single-collection browse.
type CollectionParams struct {
	Query      string
	StartDate  string
	EndDate    string
	SortBy     string
	Offset     *int
	Limit      *int
	Subfilters map[string]string
	// Tags is a comma-separated list of flags that must all be true.
	Tags string
}

// Collection is a validated paginated browse of one source.
type Collection struct {
	source source.Type
	query  string
	dates  DateRange
	sort   sortmode.Mode
	offset int
	limit  int
	tags   []string
}

// NewCollection normalizes browse parameters for src. Sub-filter values are
// appended to the free-text query in the order the source declares them.
func NewCollection(src source.Source, p CollectionParams, lim Limits) (Collection, []Fallback) {
	var fallbacks []Fallback

	terms := []string{p.Query}
	for _, name := range src.Subfilters() {
		terms = append(terms, p.Subfilters[name])
	}

	offsetRaw, limitRaw := "", ""
	if p.Offset != nil {
		offsetRaw = strconv.Itoa(*p.Offset)
	}
	if p.Limit != nil {
		limitRaw = strconv.Itoa(*p.Limit)
	}

	c := Collection{
		source: src.Type(),
		query:  normalizeQuery(strings.Join(terms, " ")),
		dates:  ParseDateRange(p.StartDate, p.EndDate, lim.Location, &fallbacks),
		sort:   ParseChronologicalSort(p.SortBy).Collect("sortBy", p.SortBy, &fallbacks),
		offset: ParseOffset(p.Offset).Collect("offset", offsetRaw, &fallbacks),
		limit:  ParseLimit(p.Limit, lim.DefaultLimit, lim.MaxLimit).Collect("limit", limitRaw, &fallbacks),
		tags:   ParseTags(p.Tags, src).Collect("tags", p.Tags, &fallbacks),
	}
	return c, fallbacks
}

// Source returns the browsed source.
func (c Collection) Source() source.Type { return c.source }

// Query returns the combined free-text query.
func (c Collection) Query() string { return c.query }

// Dates returns the date range.
func (c Collection) Dates() DateRange { return c.dates }

// Sort returns the chronological ordering.
func (c Collection) Sort() sortmode.Mode { return c.sort }

// Offset returns the pagination offset.
func (c Collection) Offset() int { return c.offset }

// Limit returns the page size.
func (c Collection) Limit() int { return c.limit }

// Tags returns the flags that must all be true.
func (c Collection) Tags() []string { return c.tags }

// ForSource builds the index query for src.
func (c Collection) ForSource(src source.Source) SourceQuery {
	conds := append([]filter.Condition{c.dates.Condition(src.RangeAttribute())}, flagConditions(c.tags)...)
	return SourceQuery{
		Text:    c.query,
		Filters: filter.And(conds...),
		Sort:    c.sort,
		Offset:  c.offset,
		Limit:   c.limit,
	}
}

// Pending builds a count-only query for documents of src whose sent flag is
// false. ok is false when src has no sent flag.
func Pending(src source.Source) (q SourceQuery, ok bool) {
	if src.SentFlag() == "" {
		return SourceQuery{}, false
	}
	c, err := filter.AnyOf(source.TagAttribute(src.SentFlag()), "false")
	if err != nil {
		return SourceQuery{}, false
	}
	return SourceQuery{Filters: filter.And(c), Sort: sortmode.Newest}, true
}

func normalizeQuery(q string) string {
	q = strings.Join(strings.Fields(q), " ")
	if len(q) > MaxQueryLength {
		q = strings.ToValidUTF8(q[:MaxQueryLength], "")
	}
	return q
}
