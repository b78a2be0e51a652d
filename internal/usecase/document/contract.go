package document

import (
	"context"

	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Repository reads single documents.
type Repository interface {
	Get(ctx context.Context, src source.Source, id string) (result.Hit, error)
}
