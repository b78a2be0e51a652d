package search

import (
	"context"

	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Repository defines the storage contract for per-source search.
type Repository interface {
	Search(ctx context.Context, src source.Source, q request.SourceQuery) (result.Page, error)
}
