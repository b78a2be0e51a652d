package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/Shourya125/dashboard/internal/domain"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
	"github.com/Shourya125/dashboard/internal/logger"
	"github.com/Shourya125/dashboard/internal/metrics"
)

const tracerName = "github.com/Shourya125/dashboard/internal/usecase/search"

type branch struct {
	page result.Page
	err  error
}

// fanOut queries every source concurrently and waits for all of them.
// A failed or timed-out source degrades to an empty page; only when every
// source fails does fanOut return ErrBackendUnavailable.
func (s *Service) fanOut(
	ctx context.Context, sources []source.Source,
	query func(source.Source) request.SourceQuery,
) (map[source.Type]result.Page, error) {
	branches := make([]branch, len(sources))

	var wg sync.WaitGroup
	for i, src := range sources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			page, err := s.searchSource(ctx, src, query(src))
			branches[i] = branch{page: page, err: err}
		}()
	}
	wg.Wait()

	log := logger.FromContext(ctx)
	pages := make(map[source.Type]result.Page, len(sources))
	var errs []error

	for i, src := range sources {
		b := branches[i]
		if b.err != nil {
			err := &domain.SourceError{Source: string(src.Type()), Err: b.err}
			log.Warn("source search failed",
				zap.String("source", string(src.Type())),
				zap.Error(err),
			)
			metrics.SourceFailuresTotal.WithLabelValues(string(src.Type())).Inc()
			errs = append(errs, err)
			pages[src.Type()] = result.Page{}
			continue
		}
		pages[src.Type()] = b.page
	}

	if len(sources) > 0 && len(errs) == len(sources) {
		return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, errors.Join(errs...))
	}

	return pages, nil
}

// searchSource runs one branch under the per-source timeout. A panic in the
// branch is reported as that source's error.
func (s *Service) searchSource(
	ctx context.Context, src source.Source, q request.SourceQuery,
) (page result.Page, err error) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, "search.source",
		trace.WithAttributes(
			attribute.String("search.source", string(src.Type())),
			attribute.String("search.index", src.Index()),
		),
	)
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.cfg.SourceTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}

		status := "ok"
		if err != nil {
			status = "error"
			if errors.Is(err, context.DeadlineExceeded) {
				status = "timeout"
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.SetAttributes(attribute.Int("search.hits", len(page.Hits)))
		metrics.SourceSearchDuration.
			WithLabelValues(string(src.Type()), status).
			Observe(time.Since(start).Seconds())
	}()

	return s.repo.Search(ctx, src, q)
}
