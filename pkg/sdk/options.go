package dashboard

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	addrs    []string
	password string

	sources map[Source]SourceConfig

	sourceTimeout time.Duration
	defaultLimit  int
	maxLimit      int
	summarySize   int
	location      *time.Location

	oneTypo   int
	twoTypos  int
	scorer    string
	bootstrap bool

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

func defaultConfig() *clientConfig {
	return &clientConfig{
		sources:      make(map[Source]SourceConfig),
		defaultLimit: 20,
		maxLimit:     100,
		oneTypo:      4,
		twoTypos:     8,
		location:     time.UTC,
	}
}

// WithRedis configures the client to connect to a Redis instance with the
// Query Engine and JSON modules.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithSource declares a source and its index. Later calls for the same
// source replace earlier ones.
func WithSource(s Source, cfg SourceConfig) Option {
	return optionFunc(func(c *clientConfig) {
		c.sources[s] = cfg
	})
}

// WithSourceTimeout bounds each per-source query. Default: 5s.
func WithSourceTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.sourceTimeout = d
	})
}

// WithLimits sets the default and maximum per-source result counts.
// Defaults: 20 and 100.
func WithLimits(defaultLimit, maxLimit int) Option {
	return optionFunc(func(c *clientConfig) {
		c.defaultLimit = defaultLimit
		c.maxLimit = maxLimit
	})
}

// WithSummarySize sets how many records per source Summary returns. Default: 3.
func WithSummarySize(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.summarySize = n
	})
}

// WithLocation sets the timezone for date strings and date range bounds.
// Default: UTC.
func WithLocation(loc *time.Location) Option {
	return optionFunc(func(c *clientConfig) {
		if loc != nil {
			c.location = loc
		}
	})
}

// WithTypoTolerance sets the minimum token lengths for one and two edit
// fuzzy matching. Zero disables a level. Defaults: 4 and 8.
func WithTypoTolerance(oneTypo, twoTypos int) Option {
	return optionFunc(func(c *clientConfig) {
		c.oneTypo = oneTypo
		c.twoTypos = twoTypos
	})
}

// WithScorer selects the relevance scorer, e.g. "BM25STD".
func WithScorer(scorer string) Option {
	return optionFunc(func(c *clientConfig) {
		c.scorer = scorer
	})
}

// WithIndexBootstrap creates missing source indexes when the client starts.
func WithIndexBootstrap() Option {
	return optionFunc(func(c *clientConfig) {
		c.bootstrap = true
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
