package document

import (
	"context"
	"errors"
	"fmt"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// store is the consumer interface for documents (ISP).
type store interface {
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
}

// Repo implements usecase/document.Repository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Get returns a stored document of src by id.
func (r *Repo) Get(ctx context.Context, src source.Source, id string) (result.Hit, error) {
	key := src.Key(id)
	data, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return result.Hit{}, domain.ErrDocumentNotFound
		}
		return result.Hit{}, fmt.Errorf("json.get %s: %w", key, err)
	}

	doc, err := result.DecodeDocument(string(data))
	if err != nil {
		return result.Hit{}, fmt.Errorf("decode document %s: %w", key, err)
	}

	return result.Hit{ID: id, Document: doc}, nil
}
