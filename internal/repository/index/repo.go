package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// Repo creates missing source indexes.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Ensure creates the index of src unless it already exists.
// Returns true if the index was created.
func (r *Repo) Ensure(ctx context.Context, src source.Source) (bool, error) {
	exists, err := r.store.IndexExists(ctx, src.Index())
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", src.Index(), err)
	}
	if exists {
		return false, nil
	}

	def, err := buildIndex(src)
	if err != nil {
		return false, fmt.Errorf("build index %s: %w", src.Index(), err)
	}

	if err := r.store.CreateIndex(ctx, def); err != nil {
		// Lost a race with another replica.
		if errors.Is(err, db.ErrIndexExists) {
			return false, nil
		}
		return false, fmt.Errorf("create index %s: %w", src.Index(), err)
	}
	return true, nil
}
