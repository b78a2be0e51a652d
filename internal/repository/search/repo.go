package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/search/sortmode"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// documentField is the field FT.SEARCH returns for the whole JSON document.
const documentField = "$"

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Options tunes relevance queries.
type Options struct {
	Typos  db.TypoTolerance
	Scorer string
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
	opts  Options
}

// New creates a search repository.
func New(s store, opts Options) *Repo {
	return &Repo{store: s, opts: opts}
}

// Search runs q against the index of src. Chronological modes sort on the
// source's sort attribute; relevance requests engine scores.
func (r *Repo) Search(ctx context.Context, src source.Source, q request.SourceQuery) (result.Page, error) {
	tq := &db.TextQuery{
		IndexName: src.Index(),
		Text:      q.Text,
		Filters:   q.Filters,
		Offset:    q.Offset,
		Limit:     q.Limit,
		Typos:     r.opts.Typos,
	}

	switch q.Sort {
	case sortmode.Newest:
		tq.SortBy = src.SortAttribute()
		tq.SortDesc = true
	case sortmode.Oldest:
		tq.SortBy = src.SortAttribute()
	default:
		tq.WithScores = true
		tq.Scorer = r.opts.Scorer
	}

	sr, err := r.store.Search(ctx, tq)
	if err != nil {
		return result.Page{}, fmt.Errorf("search %s: %w", src.Type(), err)
	}

	return toPage(sr, src.KeyPrefix()), nil
}

func toPage(sr *db.SearchResult, prefix string) result.Page {
	if sr == nil {
		return result.Page{}
	}

	hits := make([]result.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		hits = append(hits, result.Hit{
			ID:       strings.TrimPrefix(entry.Key, prefix),
			Score:    entry.Score,
			Document: entryDocument(entry),
		})
	}

	return result.Page{Hits: hits, EstimatedTotal: sr.Total}
}

// entryDocument decodes the JSON body of a hit. Hash-backed hits carry flat
// string fields instead and are passed through as-is.
func entryDocument(entry db.SearchEntry) map[string]any {
	if raw, ok := entry.Fields[documentField]; ok {
		if doc, err := result.DecodeDocument(raw); err == nil {
			return doc
		}
	}

	doc := make(map[string]any, len(entry.Fields))
	for k, v := range entry.Fields {
		if k == documentField {
			continue
		}
		doc[k] = v
	}
	return doc
}
