package search

import (
	"context"
	"testing"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

func (m *mockStore) Search(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, Options{Typos: db.TypoTolerance{OneTypo: 4, TwoTypos: 8}, Scorer: "BM25STD"})
	return repo, ms
}

func newsSource(t *testing.T) source.Source {
	t.Helper()
	s, err := source.New(source.News, source.Options{
		Index:     "idx:news",
		KeyPrefix: "news:",
		DateField: "published_at",
		SortField: "published_ts",
	})
	if err != nil {
		t.Fatalf("source.New: %v", err)
	}
	return s
}
