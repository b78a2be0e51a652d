package index

import (
	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// buildIndex creates the FT index definition for a source: JSON documents
// under the source key prefix, searchable fields as weighted TEXT in priority
// order, the sort field as NUMERIC SORTABLE, a distinct range field as
// NUMERIC, and boolean flags as TAG.
func buildIndex(src source.Source) (*db.IndexDefinition, error) {
	b := db.NewIndex(src.Index()).
		OnJSON().
		Prefix(src.KeyPrefix())

	for _, f := range src.Searchable() {
		b.Text(jsonPath(f.Path), source.Attribute(f.Path), f.Weight)
	}

	b.Numeric(jsonPath(src.SortField()), src.SortAttribute(), true)

	if src.RangeField() != src.SortField() {
		b.Numeric(jsonPath(src.RangeField()), src.RangeAttribute(), false)
	}

	flags := src.Flags()
	if src.SentFlag() != "" {
		flags = append(flags[:len(flags):len(flags)], src.SentFlag())
	}
	for _, name := range flags {
		b.Tag(jsonPath(name), source.TagAttribute(name))
	}

	return b.Build()
}

func jsonPath(field string) string {
	return "$." + field
}
