package collection

import (
	"context"

	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Repository defines the search contract for a single source.
type Repository interface {
	Search(ctx context.Context, src source.Source, q request.SourceQuery) (result.Page, error)
}
