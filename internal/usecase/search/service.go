package search

import (
	"context"
	"time"

	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/search/sortmode"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Defaults applied when Config leaves a value unset.
const (
	DefaultSourceTimeout = 5 * time.Second
	DefaultSummarySize   = 3
)

// Config tunes the fan-out.
type Config struct {
	SourceTimeout time.Duration
	SummarySize   int
}

// Service runs federated searches across the configured sources.
type Service struct {
	repo     Repository
	registry *source.Registry
	cfg      Config
}

// New creates a search service.
func New(repo Repository, registry *source.Registry, cfg Config) *Service {
	if cfg.SourceTimeout <= 0 {
		cfg.SourceTimeout = DefaultSourceTimeout
	}
	if cfg.SummarySize <= 0 {
		cfg.SummarySize = DefaultSummarySize
	}
	return &Service{repo: repo, registry: registry, cfg: cfg}
}

// Search fans the request out to its selected sources and merges the hits
// into one ranked list. Counts cover every configured source.
func (s *Service) Search(ctx context.Context, req request.Federated) (result.Federated, error) {
	selected := s.selected(req.Sources())

	pages, err := s.fanOut(ctx, selected, req.ForSource)
	if err != nil {
		return result.Federated{}, err
	}

	return result.Federated{
		Records: merge(selected, pages, req.Sort()),
		Counts:  counts(s.registry.All(), pages),
	}, nil
}

// Summary returns the newest records of every configured source.
func (s *Service) Summary(ctx context.Context) (result.Summary, error) {
	all := s.registry.All()
	latest := request.SourceQuery{Sort: sortmode.Newest, Limit: s.cfg.SummarySize}

	pages, err := s.fanOut(ctx, all, func(source.Source) request.SourceQuery { return latest })
	if err != nil {
		return result.Summary{}, err
	}

	sum := result.Summary{BySource: make(map[source.Type][]result.Record, len(all))}
	for _, src := range all {
		hits := pages[src.Type()].Hits
		records := make([]result.Record, 0, len(hits))
		for _, h := range hits {
			records = append(records, result.FromHit(src, h))
		}
		sum.BySource[src.Type()] = records
		sum.Total += len(records)
	}
	return sum, nil
}

// selected resolves types to configured sources, keeping enumeration order.
func (s *Service) selected(types []source.Type) []source.Source {
	want := make(map[source.Type]bool, len(types))
	for _, t := range types {
		want[t] = true
	}
	out := make([]source.Source, 0, len(types))
	for _, src := range s.registry.All() {
		if want[src.Type()] {
			out = append(out, src)
		}
	}
	return out
}
