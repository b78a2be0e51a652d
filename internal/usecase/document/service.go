package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Shourya125/dashboard/internal/domain"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Service fetches documents by id.
type Service struct {
	repo Repository
}

// New creates a document service.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns document id of src. A missing document yields
// ErrDocumentNotFound; any other failure is a backend error.
func (s *Service) Get(ctx context.Context, src source.Source, id string) (result.Record, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return result.Record{}, fmt.Errorf("get %s document: %w", src.Type(), domain.ErrDocumentNotFound)
	}

	hit, err := s.repo.Get(ctx, src, id)
	switch {
	case errors.Is(err, domain.ErrDocumentNotFound):
		return result.Record{}, fmt.Errorf("get %s/%s: %w", src.Type(), id, err)
	case err != nil:
		return result.Record{}, fmt.Errorf("get %s/%s: %w: %w", src.Type(), id, domain.ErrBackendUnavailable, err)
	}

	return result.FromHit(src, hit), nil
}
