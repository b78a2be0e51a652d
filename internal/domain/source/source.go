package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Type identifies a document stream.
type Type string

// Source type constants.
const (
	// News is the legal-news article stream.
	News Type = "news"
	// Archive is the historical archive stream.
	Archive Type = "archive"
	// Gazette is the government gazette notification stream.
	Gazette Type = "gazette"
)

// Order is the enumeration order. Merged results are concatenated in this order
// before sorting, so equal-key records keep it.
var Order = []Type{News, Archive, Gazette}

// IsValid checks if the type is a known stream.
func (t Type) IsValid() bool {
	return t == News || t == Archive || t == Gazette
}

// SearchField is a full-text field with its ranking weight.
type SearchField struct {
	Path   string
	Weight float64
}

// Options configures a Source.
type Options struct {
	Index       string
	KeyPrefix   string
	DateField   string
	SortField   string
	RangeField  string
	DateLayouts []string
	Location    *time.Location
	Searchable  []SearchField
	Flags       []string
	SentFlag    string
	Subfilters  []string
}

// Source describes one configured document index.
type Source struct {
	sourceType  Type
	index       string
	keyPrefix   string
	dateField   string
	sortField   string
	rangeField  string
	dateLayouts []string
	location    *time.Location
	searchable  []SearchField
	flags       []string
	sentFlag    string
	subfilters  []string
}

// New validates and creates a Source.
func New(t Type, opts Options) (Source, error) {
	if !t.IsValid() {
		return Source{}, fmt.Errorf("invalid source type: %q", t)
	}
	if opts.Index == "" {
		return Source{}, fmt.Errorf("source %s: index is required", t)
	}
	if opts.KeyPrefix == "" {
		return Source{}, fmt.Errorf("source %s: key prefix is required", t)
	}
	if opts.DateField == "" {
		return Source{}, fmt.Errorf("source %s: date field is required", t)
	}
	loc := opts.Location
	if loc == nil {
		loc = time.UTC
	}
	sortField := opts.SortField
	if sortField == "" {
		sortField = opts.DateField
	}
	rangeField := opts.RangeField
	if rangeField == "" {
		rangeField = sortField
	}
	if opts.SentFlag != "" && slices.Contains(opts.Flags, opts.SentFlag) {
		return Source{}, fmt.Errorf("source %s: sent flag %q must not also be a tag flag", t, opts.SentFlag)
	}
	return Source{
		sourceType:  t,
		index:       opts.Index,
		keyPrefix:   opts.KeyPrefix,
		dateField:   opts.DateField,
		sortField:   sortField,
		rangeField:  rangeField,
		dateLayouts: opts.DateLayouts,
		location:    loc,
		searchable:  opts.Searchable,
		flags:       opts.Flags,
		sentFlag:    opts.SentFlag,
		subfilters:  opts.Subfilters,
	}, nil
}

// Type returns the stream identifier.
func (s Source) Type() Type { return s.sourceType }

// Index returns the search index name.
func (s Source) Index() string { return s.index }

// KeyPrefix returns the prefix of document keys in this source.
func (s Source) KeyPrefix() string { return s.keyPrefix }

// Key returns the storage key for a document id.
func (s Source) Key(id string) string { return s.keyPrefix + id }

// DateField returns the document field (dotted path) holding the record date.
func (s Source) DateField() string { return s.dateField }

// SortField returns the numeric index field used for SORTBY.
func (s Source) SortField() string { return s.sortField }

// SortAttribute returns the index attribute name of the sort field.
// Dotted document paths become underscore-separated aliases.
func (s Source) SortAttribute() string { return Attribute(s.sortField) }

// RangeField returns the numeric epoch-ms field that date ranges filter on.
// It holds the same instant as the date field; it defaults to the sort field.
func (s Source) RangeField() string { return s.rangeField }

// RangeAttribute returns the index attribute name of the range field.
func (s Source) RangeAttribute() string { return Attribute(s.rangeField) }

// Attribute maps a document path onto an FT index attribute alias.
func Attribute(path string) string { return strings.ReplaceAll(path, ".", "_") }

// DateLayouts returns the time layouts tried when the date field is a string.
func (s Source) DateLayouts() []string { return s.dateLayouts }

// Location returns the timezone used to interpret layout-parsed dates.
func (s Source) Location() *time.Location { return s.location }

// Searchable returns full-text fields in ranking priority order.
func (s Source) Searchable() []SearchField { return s.searchable }

// Flags returns the boolean fields selectable through the tags parameter.
func (s Source) Flags() []string { return s.flags }

// HasFlag reports whether name is one of the source's flags.
func (s Source) HasFlag(name string) bool { return slices.Contains(s.flags, name) }

// SentFlag returns the boolean field marking a document as dispatched;
// documents with it false are pending. Empty when the source has none.
func (s Source) SentFlag() string { return s.sentFlag }

// TagAttribute returns the TAG index attribute of a boolean flag field.
func TagAttribute(path string) string { return Attribute(path) + "_tag" }

// Subfilters returns the query parameters folded into the free-text query.
func (s Source) Subfilters() []string { return s.subfilters }

// Registry is the ordered set of configured sources.
type Registry struct {
	sources []Source
	byType  map[Type]int
}

// NewRegistry creates a registry. Sources are kept in Order regardless of argument order.
func NewRegistry(sources ...Source) (*Registry, error) {
	if len(sources) == 0 {
		return nil, errors.New("at least one source is required")
	}
	given := make(map[Type]Source, len(sources))
	for _, s := range sources {
		if _, dup := given[s.Type()]; dup {
			return nil, fmt.Errorf("duplicate source: %s", s.Type())
		}
		given[s.Type()] = s
	}

	r := &Registry{byType: make(map[Type]int, len(sources))}
	for _, t := range Order {
		s, ok := given[t]
		if !ok {
			continue
		}
		r.byType[t] = len(r.sources)
		r.sources = append(r.sources, s)
	}
	return r, nil
}

// All returns every configured source in enumeration order.
func (r *Registry) All() []Source { return r.sources }

// Lookup finds a configured source by type.
func (r *Registry) Lookup(t Type) (Source, bool) {
	i, ok := r.byType[t]
	if !ok {
		return Source{}, false
	}
	return r.sources[i], true
}

// Types returns the configured source types in enumeration order.
func (r *Registry) Types() []Type {
	out := make([]Type, len(r.sources))
	for i, s := range r.sources {
		out[i] = s.Type()
	}
	return out
}
