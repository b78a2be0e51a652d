package collection

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/Shourya125/dashboard/internal/domain"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
	"github.com/Shourya125/dashboard/internal/logger"
)

// Service pages through one source at a time.
type Service struct {
	repo     Repository
	registry *source.Registry
}

// New creates a collection service.
func New(repo Repository, registry *source.Registry) *Service {
	return &Service{repo: repo, registry: registry}
}

// Source resolves a configured source by type.
func (s *Service) Source(t source.Type) (source.Source, error) {
	src, ok := s.registry.Lookup(t)
	if !ok {
		return source.Source{}, fmt.Errorf("source %q: %w", t, domain.ErrUnknownSource)
	}
	return src, nil
}

// Browse returns one page of src in chronological order.
func (s *Service) Browse(ctx context.Context, src source.Source, req request.Collection) (result.Listing, error) {
	page, err := s.repo.Search(ctx, src, req.ForSource(src))
	if err != nil {
		logger.FromContext(ctx).Error("collection search failed",
			zap.String("source", string(src.Type())),
			zap.Error(err),
		)
		return result.Listing{}, fmt.Errorf("browse %s: %w: %w", src.Type(), domain.ErrBackendUnavailable, err)
	}

	records := make([]result.Record, 0, len(page.Hits))
	for _, h := range page.Hits {
		records = append(records, result.FromHit(src, h))
	}

	return result.Listing{
		Records:   records,
		TotalHits: page.EstimatedTotal,
		Offset:    req.Offset(),
		Limit:     req.Limit(),
	}, nil
}

// Pending counts documents of src not yet marked as sent.
func (s *Service) Pending(ctx context.Context, src source.Source) (int, error) {
	q, ok := request.Pending(src)
	if !ok {
		return 0, fmt.Errorf("source %q has no sent flag: %w", src.Type(), domain.ErrUnknownSource)
	}
	page, err := s.repo.Search(ctx, src, q)
	if err != nil {
		logger.FromContext(ctx).Error("pending count failed",
			zap.String("source", string(src.Type())),
			zap.Error(err),
		)
		return 0, fmt.Errorf("pending %s: %w: %w", src.Type(), domain.ErrBackendUnavailable, err)
	}
	return page.EstimatedTotal, nil
}
