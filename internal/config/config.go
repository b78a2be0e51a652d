package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"time"
	_ "time/tzdata" // timezones without system zoneinfo

	"gopkg.in/yaml.v3"

	"github.com/Shourya125/dashboard/internal/db"
	"github.com/Shourya125/dashboard/internal/domain/source"
)

// Config holds the dashboard API configuration.
type Config struct {
	HTTP     HTTPConfig              `yaml:"http"`
	Database DatabaseConfig          `yaml:"database"`
	Auth     AuthConfig              `yaml:"auth"`
	Search   SearchConfig            `yaml:"search"`
	Index    IndexConfig             `yaml:"index"`
	Sources  map[string]SourceConfig `yaml:"sources"`
	Logging  LoggingConfig           `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds search backend connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds query defaults and fan-out settings.
type SearchConfig struct {
	DefaultLimit    int        `yaml:"default_limit"`
	MaxLimit        int        `yaml:"max_limit"`
	SourceTimeoutMs int        `yaml:"source_timeout_ms"`
	SummarySize     int        `yaml:"summary_size"`
	Timezone        string     `yaml:"timezone"`
	Scorer          string     `yaml:"scorer"` // empty: engine default
	Typos           TypoConfig `yaml:"typos"`
}

// TypoConfig holds minimum token lengths for fuzzy matching.
// A negative value disables that level.
type TypoConfig struct {
	OneTypo  int `yaml:"one_typo"`
	TwoTypos int `yaml:"two_typos"`
}

// IndexConfig holds index bootstrap settings.
type IndexConfig struct {
	Bootstrap bool `yaml:"bootstrap"`
}

// SourceConfig describes one source index.
type SourceConfig struct {
	Index       string            `yaml:"index"`
	KeyPrefix   string            `yaml:"key_prefix"`
	DateField   string            `yaml:"date_field"`
	SortField   string            `yaml:"sort_field"`
	RangeField  string            `yaml:"range_field"`
	DateLayouts []string          `yaml:"date_layouts"`
	Searchable  []SearchableField `yaml:"searchable"`
	Subfilters  []string          `yaml:"subfilters"`
	Flags       []string          `yaml:"flags"`
	SentFlag    string            `yaml:"sent_flag"`
}

// SearchableField is a full-text field with its ranking weight.
type SearchableField struct {
	Path   string  `yaml:"path"`
	Weight float64 `yaml:"weight"`
}

var scorers = []string{
	"", "TFIDF", "TFIDF.DOCNORM", "BM25", "BM25STD", "BM25STD.NORM", "DISMAX", "DOCSCORE",
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes YAML config data, expanding ${VAR} references.
func Parse(data []byte) (Config, error) {
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Search.DefaultLimit <= 0 {
		c.Search.DefaultLimit = 20
	}
	if c.Search.MaxLimit <= 0 {
		c.Search.MaxLimit = 100
	}
	if c.Search.SourceTimeoutMs <= 0 {
		c.Search.SourceTimeoutMs = 5000
	}
	if c.Search.SummarySize <= 0 {
		c.Search.SummarySize = 3
	}
	if c.Search.Timezone == "" {
		c.Search.Timezone = "UTC"
	}
	if c.Search.Typos.OneTypo == 0 {
		c.Search.Typos.OneTypo = 4
	}
	if c.Search.Typos.TwoTypos == 0 {
		c.Search.Typos.TwoTypos = 8
	}
	c.Search.Scorer = strings.ToUpper(c.Search.Scorer)
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return errors.New("database.addrs is required")
	}
	if c.Search.DefaultLimit > c.Search.MaxLimit {
		return fmt.Errorf("search.default_limit (%d) exceeds search.max_limit (%d)",
			c.Search.DefaultLimit, c.Search.MaxLimit)
	}
	if _, err := time.LoadLocation(c.Search.Timezone); err != nil {
		return fmt.Errorf("search.timezone: %w", err)
	}
	if !slices.Contains(scorers, c.Search.Scorer) {
		return fmt.Errorf("search.scorer: unsupported scorer %q", c.Search.Scorer)
	}
	if len(c.Sources) == 0 {
		return errors.New("sources: at least one source is required")
	}
	for name, sc := range c.Sources {
		if !source.Type(name).IsValid() {
			return fmt.Errorf("sources.%s: unknown source type", name)
		}
		if err := sc.validate(); err != nil {
			return fmt.Errorf("sources.%s: %w", name, err)
		}
	}
	return nil
}

func (sc SourceConfig) validate() error {
	switch {
	case sc.Index == "":
		return errors.New("index is required")
	case !db.IsValidIdentifier(sc.Index):
		return fmt.Errorf("invalid index name %q", sc.Index)
	case sc.KeyPrefix == "":
		return errors.New("key_prefix is required")
	case sc.DateField == "":
		return errors.New("date_field is required")
	}
	for _, f := range sc.Searchable {
		if f.Path == "" {
			return errors.New("searchable field path is required")
		}
		if f.Weight < 0 {
			return fmt.Errorf("searchable field %q: weight must not be negative", f.Path)
		}
	}
	return nil
}

// Location returns the timezone used for date parsing.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Search.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SourceTimeout returns the per-source fan-out deadline.
func (c *Config) SourceTimeout() time.Duration {
	return time.Duration(c.Search.SourceTimeoutMs) * time.Millisecond
}

// TypoTolerance converts the typo thresholds for the search backend.
func (c *Config) TypoTolerance() db.TypoTolerance {
	return db.TypoTolerance{
		OneTypo:  max(c.Search.Typos.OneTypo, 0),
		TwoTypos: max(c.Search.Typos.TwoTypos, 0),
	}
}

// Registry builds the configured sources in enumeration order.
func (c *Config) Registry() (*source.Registry, error) {
	loc := c.Location()
	var srcs []source.Source
	for _, t := range source.Order {
		sc, ok := c.Sources[string(t)]
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
			Location:    loc,
			Searchable:  searchable,
			Subfilters:  sc.Subfilters,
			Flags:       sc.Flags,
			SentFlag:    sc.SentFlag,
		})
		if err != nil {
			return nil, fmt.Errorf("build source: %w", err)
		}
		srcs = append(srcs, src)
	}
	reg, err := source.NewRegistry(srcs...)
	if err != nil {
		return nil, fmt.Errorf("build source registry: %w", err)
	}
	return reg, nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
