package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"

	dbRedis "github.com/Shourya125/dashboard/internal/db/redis"
	"github.com/Shourya125/dashboard/internal/domain"
	"github.com/Shourya125/dashboard/internal/domain/search/request"
	"github.com/Shourya125/dashboard/internal/domain/search/result"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// --- mocks ---

type mockSearch struct {
	gotReq  request.Federated
	out     result.Federated
	summary result.Summary
	err     error
}

func (m *mockSearch) Search(_ context.Context, req request.Federated) (result.Federated, error) {
	m.gotReq = req
	return m.out, m.err
}

func (m *mockSearch) Summary(_ context.Context) (result.Summary, error) {
	return m.summary, m.err
}

type mockCollections struct {
	registry *source.Registry
	gotReq   request.Collection
	out      result.Listing
	pending  int
	err      error
}

func (m *mockCollections) Source(t source.Type) (source.Source, error) {
	src, ok := m.registry.Lookup(t)
	if !ok {
		return source.Source{}, domain.ErrUnknownSource
	}
	return src, nil
}

func (m *mockCollections) Browse(_ context.Context, _ source.Source, req request.Collection) (result.Listing, error) {
	m.gotReq = req
	return m.out, m.err
}

func (m *mockCollections) Pending(_ context.Context, src source.Source) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if src.SentFlag() == "" {
		return 0, domain.ErrUnknownSource
	}
	return m.pending, nil
}

type mockDocuments struct {
	gotID string
	out   result.Record
	err   error
}

func (m *mockDocuments) Get(_ context.Context, _ source.Source, id string) (result.Record, error) {
	m.gotID = id
	return m.out, m.err
}

func testConfig() *clientConfig {
	cfg := defaultConfig()
	WithSource(News, SourceConfig{Index: "idx:news", KeyPrefix: "news:", DateField: "published_ts"}).apply(cfg)
	WithSource(Gazette, SourceConfig{
		Index:      "idx:gazette",
		KeyPrefix:  "gazette:",
		DateField:  "gazette_details.date",
		SortField:  "alerted_ts",
		RangeField: "date_ts",
		Flags:      []string{"legislative_value"},
		SentFlag:   "slack_sent",
	}).apply(cfg)
	return cfg
}

func testClient(t *testing.T, reg prometheus.Registerer) (*Client, *mockSearch, *mockCollections, *mockDocuments) {
	t.Helper()
	cfg := testConfig()
	registry, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	s := &mockSearch{}
	c := &mockCollections{registry: registry}
	d := &mockDocuments{}
	return &Client{
		registry:  registry,
		limits:    request.Limits{DefaultLimit: 20, MaxLimit: 100, Location: time.UTC},
		searchSvc: s,
		collSvc:   c,
		docSvc:    d,
		obs:       obs,
	}, s, c, d
}

func newsRecord(id string, ts int64) result.Record {
	return result.NewRecord(id, source.News, 1.5, ts,
		result.NewPayload(source.News, map[string]any{"title": "t-" + id}))
}

// --- construction ---

func TestNew_NoAddress(t *testing.T) {
	_, err := New(context.Background(), WithSource(News, SourceConfig{Index: "idx:news", KeyPrefix: "n:", DateField: "ts"}))
	if err == nil {
		t.Fatal("expected error when no address provided")
	}
}

func TestNew_NoSources(t *testing.T) {
	_, err := New(context.Background(), WithRedis("localhost:6379", ""))
	if err == nil {
		t.Fatal("expected error when no source declared")
	}
}

func TestBuildRegistry_Order(t *testing.T) {
	reg, err := buildRegistry(testConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	types := reg.Types()
	if len(types) != 2 || types[0] != source.News || types[1] != source.Gazette {
		t.Errorf("types = %v, want [news gazette]", types)
	}
}

func TestBuildRegistry_UnknownSource(t *testing.T) {
	cfg := testConfig()
	WithSource("weather", SourceConfig{Index: "idx:weather", KeyPrefix: "w:", DateField: "ts"}).apply(cfg)
	if _, err := buildRegistry(cfg); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestBuildRegistry_InvalidSource(t *testing.T) {
	cfg := defaultConfig()
	WithSource(News, SourceConfig{KeyPrefix: "news:", DateField: "ts"}).apply(cfg)
	if _, err := buildRegistry(cfg); err == nil {
		t.Fatal("expected error for source without index")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := defaultConfig()
	loc := time.FixedZone("IST", 5*3600+1800)
	opts := []Option{
		WithRedis("localhost:6379", "secret"),
		WithSourceTimeout(2 * time.Second),
		WithLimits(10, 50),
		WithSummarySize(5),
		WithLocation(loc),
		WithLocation(nil),
		WithTypoTolerance(5, 9),
		WithScorer("bm25std"),
		WithIndexBootstrap(),
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if len(cfg.addrs) != 1 || cfg.addrs[0] != "localhost:6379" || cfg.password != "secret" {
		t.Errorf("redis = %v/%q", cfg.addrs, cfg.password)
	}
	if cfg.sourceTimeout != 2*time.Second {
		t.Errorf("sourceTimeout = %v", cfg.sourceTimeout)
	}
	if cfg.defaultLimit != 10 || cfg.maxLimit != 50 {
		t.Errorf("limits = %d/%d", cfg.defaultLimit, cfg.maxLimit)
	}
	if cfg.summarySize != 5 {
		t.Errorf("summarySize = %d", cfg.summarySize)
	}
	if cfg.location != loc {
		t.Errorf("location = %v, want IST (nil must not override)", cfg.location)
	}
	if cfg.oneTypo != 5 || cfg.twoTypos != 9 {
		t.Errorf("typos = %d/%d", cfg.oneTypo, cfg.twoTypos)
	}
	if cfg.scorer != "bm25std" || !cfg.bootstrap {
		t.Errorf("scorer = %q, bootstrap = %v", cfg.scorer, cfg.bootstrap)
	}
}

// --- operations ---

func TestSearch(t *testing.T) {
	c, s, _, _ := testClient(t, nil)
	s.out = result.Federated{
		Records: []result.Record{newsRecord("n1", 200), newsRecord("n2", 100)},
		Counts:  map[source.Type]int{source.News: 2, source.Gazette: 0},
	}

	res, err := c.Search(context.Background(), SearchQuery{
		Query:   "  budget  ",
		Sources: []Source{Gazette, News},
		SortBy:  "newest",
		Limit:   5,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := s.gotReq.Query(); got != "budget" {
		t.Errorf("query = %q", got)
	}
	if got := s.gotReq.Sources(); len(got) != 2 || got[0] != source.News {
		t.Errorf("sources = %v, want enumeration order", got)
	}
	if s.gotReq.Limit() != 5 {
		t.Errorf("limit = %d", s.gotReq.Limit())
	}

	if len(res.Records) != 2 || res.Records[0].ID != "n1" || res.Records[0].Source != News {
		t.Fatalf("records = %+v", res.Records)
	}
	if res.Records[0].Timestamp != 200 || res.Records[0].Fields["title"] != "t-n1" || res.Records[0].Fields["id"] != "n1" {
		t.Errorf("record = %+v", res.Records[0])
	}
	if res.Counts[News] != 2 || res.Counts[Gazette] != 0 {
		t.Errorf("counts = %v", res.Counts)
	}
}

func TestSearch_DefaultLimit(t *testing.T) {
	c, s, _, _ := testClient(t, nil)
	if _, err := c.Search(context.Background(), SearchQuery{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.gotReq.Limit() != 20 {
		t.Errorf("limit = %d, want default 20", s.gotReq.Limit())
	}
	if len(s.gotReq.Sources()) != 2 {
		t.Errorf("sources = %v, want all", s.gotReq.Sources())
	}
}

func TestSearch_BackendUnavailable(t *testing.T) {
	c, s, _, _ := testClient(t, nil)
	s.err = domain.ErrBackendUnavailable

	_, err := c.Search(context.Background(), SearchQuery{Query: "x"})
	if !errors.Is(err, ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestBrowse(t *testing.T) {
	c, _, coll, _ := testClient(t, nil)
	coll.out = result.Listing{
		Records:   []result.Record{newsRecord("n1", 100)},
		TotalHits: 7,
		Offset:    5,
		Limit:     1,
	}

	page, err := c.Browse(context.Background(), News, BrowseQuery{
		Query:     "rain",
		StartDate: "2024-01-01",
		SortBy:    "oldest",
		Offset:    5,
		Limit:     1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if coll.gotReq.Offset() != 5 || coll.gotReq.Limit() != 1 {
		t.Errorf("paging = %d/%d", coll.gotReq.Offset(), coll.gotReq.Limit())
	}
	if from := coll.gotReq.Dates().From; from == nil || *from != 1704067200000 {
		t.Errorf("from = %v", from)
	}
	if page.TotalHits != 7 || !page.HasMore || len(page.Records) != 1 {
		t.Errorf("page = %+v", page)
	}
}

func TestBrowse_Tags(t *testing.T) {
	c, _, coll, _ := testClient(t, nil)

	if _, err := c.Browse(context.Background(), Gazette, BrowseQuery{
		StartDate: "2024-01-01",
		Tags:      []string{"legislative_value"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tags := coll.gotReq.Tags(); len(tags) != 1 || tags[0] != "legislative_value" {
		t.Errorf("tags = %v", tags)
	}

	gz, _ := c.registry.Lookup(source.Gazette)
	conds := coll.gotReq.ForSource(gz).Filters.Conditions()
	if len(conds) != 2 || conds[0].Field() != "date_ts" || conds[1].Field() != "legislative_value_tag" {
		t.Errorf("filters = %+v", conds)
	}
}

func TestPendingAlerts(t *testing.T) {
	c, _, coll, _ := testClient(t, nil)
	coll.pending = 3

	n, err := c.PendingAlerts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("count = %d, want 3", n)
	}

	coll.err = domain.ErrBackendUnavailable
	if _, err := c.PendingAlerts(context.Background()); !errors.Is(err, ErrBackendUnavailable) {
		t.Errorf("expected ErrBackendUnavailable, got %v", err)
	}
}

func TestBrowse_UnknownSource(t *testing.T) {
	c, _, _, _ := testClient(t, nil)
	_, err := c.Browse(context.Background(), Archive, BrowseQuery{})
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
}

func TestGet(t *testing.T) {
	c, _, _, docs := testClient(t, nil)
	docs.out = newsRecord("n9", 42)

	rec, err := c.Get(context.Background(), News, "n9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docs.gotID != "n9" || rec.ID != "n9" || rec.Timestamp != 42 {
		t.Errorf("record = %+v", rec)
	}
}

func TestGet_NotFound(t *testing.T) {
	c, _, _, docs := testClient(t, nil)
	docs.err = domain.ErrDocumentNotFound

	_, err := c.Get(context.Background(), News, "missing")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestSummary(t *testing.T) {
	c, s, _, _ := testClient(t, nil)
	s.summary = result.Summary{
		BySource: map[source.Type][]result.Record{
			source.News:    {newsRecord("n1", 2), newsRecord("n2", 1)},
			source.Gazette: {},
		},
		Total: 2,
	}

	sum, err := c.Summary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sum.Total != 2 || len(sum.BySource[News]) != 2 {
		t.Errorf("summary = %+v", sum)
	}
	if got, ok := sum.BySource[Gazette]; !ok || len(got) != 0 {
		t.Errorf("gazette = %v, want empty slice", got)
	}
}

// --- store-backed ---

func TestPingAndHealth(t *testing.T) {
	ctrl := gomock.NewController(t)
	rc := mock.NewClient(ctrl)

	rc.EXPECT().
		Do(gomock.Any(), mock.Match("PING")).
		Return(mock.Result(mock.RedisString("PONG"))).
		Times(2)
	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx:news")).
		Return(mock.Result(mock.RedisArray()))
	rc.EXPECT().
		Do(gomock.Any(), mock.Match("FT.INFO", "idx:gazette")).
		Return(mock.Result(mock.RedisError("Unknown index name")))

	cfg := testConfig()
	registry, err := buildRegistry(cfg)
	if err != nil {
		t.Fatalf("buildRegistry: %v", err)
	}
	c := wireClient(dbRedis.NewStoreForTest(rc), registry, cfg, nil)

	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
	if h.Checks["index:news"] != "ok" || h.Checks["index:gazette"] != "missing" {
		t.Errorf("checks = %v", h.Checks)
	}
}

// --- observer ---

func TestObserver_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, s, _, _ := testClient(t, reg)

	if _, err := c.Search(context.Background(), SearchQuery{SortBy: "sideways", Limit: -3}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.err = domain.ErrBackendUnavailable
	_, _ = c.Search(context.Background(), SearchQuery{})

	m := c.obs.metrics
	if got := testutil.ToFloat64(m.operations.WithLabelValues("search", "ok")); got != 1 {
		t.Errorf("ok = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.operations.WithLabelValues("search", "error")); got != 1 {
		t.Errorf("error = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("sortBy")); got != 1 {
		t.Errorf("sortBy fallbacks = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.fallbacks.WithLabelValues("limit")); got != 1 {
		t.Errorf("limit fallbacks = %v, want 1", got)
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.metrics.operations != second.metrics.operations {
		t.Error("expected the existing collector to be reused")
	}
}

func TestObserver_Nil(t *testing.T) {
	var o *observer
	o.observe("search", time.Now(), nil)
	o.fallback("search", []request.Fallback{{Name: "limit"}})
}
