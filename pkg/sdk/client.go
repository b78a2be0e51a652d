package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Shourya125/dashboard/internal/db"
	dbRedis "github.com/Shourya125/dashboard/internal/db/redis"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
	documentrepo "github.com/Shourya125/dashboard/internal/repository/document"
	indexrepo "github.com/Shourya125/dashboard/internal/repository/index"
	searchrepo "github.com/Shourya125/dashboard/internal/repository/search"
	collectionuc "github.com/Shourya125/dashboard/internal/usecase/collection"
	documentuc "github.com/Shourya125/dashboard/internal/usecase/document"
	healthuc "github.com/Shourya125/dashboard/internal/usecase/health"
	searchuc "github.com/Shourya125/dashboard/internal/usecase/search"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type searchUseCase interface {
	Search(ctx context.Context, req request.Federated) (result.Federated, error)
	Summary(ctx context.Context) (result.Summary, error)
}

type collectionUseCase interface {
	Source(t source.Type) (source.Source, error)
	Browse(ctx context.Context, src source.Source, req request.Collection) (result.Listing, error)
	Pending(ctx context.Context, src source.Source) (int, error)
}

type documentUseCase interface {
	Get(ctx context.Context, src source.Source, id string) (result.Record, error)
}

// Client is the dashboard SDK entry point.
type Client struct {
	store     db.Store
	registry  *source.Registry
	limits    request.Limits
	searchSvc searchUseCase
	collSvc   collectionUseCase
	docSvc    documentUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and connects to the database.
// The provided context is used for the readiness check and index bootstrap.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) == 0 {
		return nil, errors.New("dashboard: database address required (use WithRedis)")
	}

	registry, err := buildRegistry(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("dashboard: create redis store: %w", err)
	}

	if err := store.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		store.Close()
		return nil, fmt.Errorf("dashboard: database not ready: %w", err)
	}

	if cfg.bootstrap {
		idx := indexrepo.New(store)
		for _, src := range registry.All() {
			if _, err := idx.Ensure(ctx, src); err != nil {
				store.Close()
				return nil, fmt.Errorf("dashboard: bootstrap %s index: %w", src.Type(), err)
			}
		}
	}

	return wireClient(store, registry, cfg, obs), nil
}

// buildRegistry validates the declared sources.
func buildRegistry(cfg *clientConfig) (*source.Registry, error) {
	if len(cfg.sources) == 0 {
		return nil, errors.New("dashboard: at least one source required (use WithSource)")
	}

	var srcs []source.Source
	for _, t := range source.Order {
		sc, ok := cfg.sources[Source(t)]
		if !ok {
			continue
		}
		searchable := make([]source.SearchField, len(sc.Searchable))
		for i, f := range sc.Searchable {
			searchable[i] = source.SearchField{Path: f.Path, Weight: f.Weight}
		}
		src, err := source.New(t, source.Options{
			Index:       sc.Index,
			KeyPrefix:   sc.KeyPrefix,
			DateField:   sc.DateField,
			SortField:   sc.SortField,
			RangeField:  sc.RangeField,
			DateLayouts: sc.DateLayouts,
			Location:    cfg.location,
			Searchable:  searchable,
			Subfilters:  sc.Subfilters,
			Flags:       sc.Flags,
			SentFlag:    sc.SentFlag,
		})
		if err != nil {
			return nil, fmt.Errorf("dashboard: %w", err)
		}
		srcs = append(srcs, src)
	}
	if len(srcs) != len(cfg.sources) {
		return nil, fmt.Errorf("dashboard: unknown source (valid: %s, %s, %s)", News, Archive, Gazette)
	}

	reg, err := source.NewRegistry(srcs...)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return reg, nil
}

func wireClient(store db.Store, registry *source.Registry, cfg *clientConfig, obs *observer) *Client {
	searchRepo := searchrepo.New(store, searchrepo.Options{
		Typos:  db.TypoTolerance{OneTypo: cfg.oneTypo, TwoTypos: cfg.twoTypos},
		Scorer: strings.ToUpper(cfg.scorer),
	})
	docRepo := documentrepo.New(store)

	return &Client{
		store:    store,
		registry: registry,
		limits: request.Limits{
			DefaultLimit: cfg.defaultLimit,
			MaxLimit:     cfg.maxLimit,
			Location:     cfg.location,
		},
		searchSvc: searchuc.New(searchRepo, registry, searchuc.Config{
			SourceTimeout: cfg.sourceTimeout,
			SummarySize:   cfg.summarySize,
		}),
		collSvc:   collectionuc.New(searchRepo, registry),
		docSvc:    documentuc.New(docRepo),
		healthSvc: healthuc.New(store, store, registry),
		obs:       obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Search runs a federated search. A source that fails or times out
// contributes no records and a zero count; the call fails only when every
// selected source fails.
func (c *Client) Search(ctx context.Context, q SearchQuery) (res SearchResults, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	req, fallbacks := request.NewFederated(request.FederatedParams{
		Query:     q.Query,
		Site:      joinSources(q.Sources),
		SortBy:    q.SortBy,
		StartDate: q.StartDate,
		EndDate:   q.EndDate,
		Limit:     optionalInt(q.Limit),
	}, c.registry, c.limits)
	c.obs.fallback("search", fallbacks)

	out, err := c.searchSvc.Search(ctx, req)
	if err != nil {
		return SearchResults{}, fmt.Errorf("search: %w", err)
	}

	counts := make(map[Source]int, len(out.Counts))
	for t, n := range out.Counts {
		counts[Source(t)] = n
	}
	return SearchResults{Records: recordsFromDomain(out.Records), Counts: counts}, nil
}

// Browse returns one chronological page of a single source.
func (c *Client) Browse(ctx context.Context, s Source, q BrowseQuery) (page Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe("browse", start, err) }()

	src, err := c.collSvc.Source(source.Type(s))
	if err != nil {
		return Page{}, fmt.Errorf("browse: %w", err)
	}

	req, fallbacks := request.NewCollection(src, request.CollectionParams{
		Query:      q.Query,
		StartDate:  q.StartDate,
		EndDate:    q.EndDate,
		SortBy:     q.SortBy,
		Offset:     optionalInt(q.Offset),
		Limit:      optionalInt(q.Limit),
		Subfilters: q.Subfilters,
		Tags:       strings.Join(q.Tags, ","),
	}, c.limits)
	c.obs.fallback("browse", fallbacks)

	l, err := c.collSvc.Browse(ctx, src, req)
	if err != nil {
		return Page{}, fmt.Errorf("browse: %w", err)
	}

	return Page{
		Records:   recordsFromDomain(l.Records),
		TotalHits: l.TotalHits,
		Offset:    l.Offset,
		Limit:     l.Limit,
		HasMore:   l.HasMore(),
	}, nil
}

// Get returns one document by id.
func (c *Client) Get(ctx context.Context, s Source, id string) (rec Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("get", start, err) }()

	src, err := c.collSvc.Source(source.Type(s))
	if err != nil {
		return Record{}, fmt.Errorf("get: %w", err)
	}

	r, err := c.docSvc.Get(ctx, src, id)
	if err != nil {
		return Record{}, fmt.Errorf("get: %w", err)
	}
	return recordFromDomain(r), nil
}

// Summary returns the newest records of every source.
func (c *Client) Summary(ctx context.Context) (sum Summary, err error) {
	start := time.Now()
	defer func() { c.obs.observe("summary", start, err) }()

	out, err := c.searchSvc.Summary(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("summary: %w", err)
	}

	sum = Summary{BySource: make(map[Source][]Record, len(out.BySource)), Total: out.Total}
	for t, records := range out.BySource {
		sum.BySource[Source(t)] = recordsFromDomain(records)
	}
	return sum, nil
}

// PendingAlerts counts gazette notifications whose sent flag is still false.
func (c *Client) PendingAlerts(ctx context.Context) (n int, err error) {
	start := time.Now()
	defer func() { c.obs.observe("pending", start, err) }()

	src, err := c.collSvc.Source(source.Gazette)
	if err != nil {
		return 0, fmt.Errorf("pending alerts: %w", err)
	}

	n, err = c.collSvc.Pending(ctx, src)
	if err != nil {
		return 0, fmt.Errorf("pending alerts: %w", err)
	}
	return n, nil
}

func recordFromDomain(r result.Record) Record {
	return Record{
		ID:        r.ID(),
		Source:    Source(r.Source()),
		Score:     r.Score(),
		Timestamp: r.Timestamp(),
		Fields:    r.Fields(),
	}
}

func recordsFromDomain(rs []result.Record) []Record {
	out := make([]Record, len(rs))
	for i, r := range rs {
		out[i] = recordFromDomain(r)
	}
	return out
}

func joinSources(ss []Source) string {
	parts := make([]string, len(ss))
	for i, s := range ss {
		parts[i] = string(s)
	}
	return strings.Join(parts, ",")
}

// optionalInt maps the zero value to "absent" so request defaults apply.
func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
