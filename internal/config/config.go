// Package config loads and holds healthtrack configuration: remote source
// endpoints and their time bounds, the cache file location, logging, the
// HTTP API listen address, and output defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Default endpoint and timing values.
const (
	DefaultIndicatorBaseURL = "https://api.worldbank.org/v2"
	DefaultCountriesBaseURL = "https://restcountries.com/v3.1"

	// DefaultPerPage is large enough to return every country and year in one page.
	DefaultPerPage = 20000

	DefaultIndicatorTimeout = 10 * time.Second
	DefaultCountriesTimeout = 5 * time.Second

	DefaultServerAddr    = "127.0.0.1:8088"
	DefaultOutputFormat  = "table"
	DefaultLogLevel      = "info"
	defaultCacheFileName = "life_expectancy.csv"
	configFileName       = "config.yaml"
)

// Validation errors.
var (
	ErrEmptyBaseURL       = errors.New("base_url cannot be empty")
	ErrNonPositiveTimeout = errors.New("timeout must be greater than zero")
	ErrInvalidPerPage     = errors.New("per_page must be greater than zero")
	ErrNegativeRetries    = errors.New("retries cannot be negative")
	ErrInvalidFormat      = errors.New("output format must be one of table, json, ndjson")
)

// Config is the full healthtrack configuration.
type Config struct {
	Sources SourcesConfig `yaml:"sources" json:"sources"`
	Cache   CacheConfig   `yaml:"cache"   json:"cache"`
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	Server  ServerConfig  `yaml:"server"  json:"server"`
	Output  OutputConfig  `yaml:"output"  json:"output"`
}

// SourcesConfig groups the two remote sources.
type SourcesConfig struct {
	Indicator IndicatorSource `yaml:"indicator" json:"indicator"`
	Countries CountriesSource `yaml:"countries" json:"countries"`
}

// IndicatorSource configures the World Bank indicator endpoint.
type IndicatorSource struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	PerPage int           `yaml:"per_page" json:"per_page"`
	Timeout time.Duration `yaml:"timeout"  json:"timeout"`

	// Retries is the number of extra attempts made inside Timeout. Zero means
	// a single request.
	Retries int `yaml:"retries" json:"retries"`
}

// CountriesSource configures the country metadata endpoint.
type CountriesSource struct {
	BaseURL string        `yaml:"base_url" json:"base_url"`
	Timeout time.Duration `yaml:"timeout"  json:"timeout"`
}

// CacheConfig locates the flat cache file.
type CacheConfig struct {
	Path string `yaml:"path" json:"path"`
}

// LoggingConfig controls log level, format, and destination.
type LoggingConfig struct {
	Level  string `yaml:"level"            json:"level"`
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
	File   string `yaml:"file,omitempty"   json:"file,omitempty"`
}

// ServerConfig configures the read-only JSON API.
type ServerConfig struct {
	Addr string `yaml:"addr" json:"addr"`
}

// OutputConfig holds CLI output defaults.
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"`
}

// New returns a Config populated with defaults. The cache path is resolved
// under the config directory; if the home directory cannot be determined the
// cache falls back to the working directory.
func New() *Config {
	cachePath := defaultCacheFileName
	if dir, err := GetConfigDir(); err == nil {
		cachePath = filepath.Join(dir, "cache", defaultCacheFileName)
	}

	return &Config{
		Sources: SourcesConfig{
			Indicator: IndicatorSource{
				BaseURL: DefaultIndicatorBaseURL,
				PerPage: DefaultPerPage,
				Timeout: DefaultIndicatorTimeout,
			},
			Countries: CountriesSource{
				BaseURL: DefaultCountriesBaseURL,
				Timeout: DefaultCountriesTimeout,
			},
		},
		Cache:   CacheConfig{Path: cachePath},
		Logging: LoggingConfig{Level: DefaultLogLevel, Format: "console"},
		Server:  ServerConfig{Addr: DefaultServerAddr},
		Output:  OutputConfig{DefaultFormat: DefaultOutputFormat},
	}
}

// Load builds a Config from defaults, the YAML file at path (when it exists),
// and environment overrides, in that order. An empty path means the default
// location inside GetConfigDir.
func Load(path string) (*Config, error) {
	cfg := New()

	if path == "" {
		dir, err := GetConfigDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(dir, configFileName)
	}

	if _, err := os.Stat(path); err == nil {
		if mergeErr := ShallowMergeYAML(cfg, path); mergeErr != nil {
			return nil, mergeErr
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("checking config file %s: %w", path, err)
	}

	ApplyEnvOverrides(cfg, os.LookupEnv)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration in %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that every section holds usable values.
func (c *Config) Validate() error {
	ind := c.Sources.Indicator
	if strings.TrimSpace(ind.BaseURL) == "" {
		return fmt.Errorf("sources.indicator: %w", ErrEmptyBaseURL)
	}
	if ind.Timeout <= 0 {
		return fmt.Errorf("sources.indicator: %w", ErrNonPositiveTimeout)
	}
	if ind.PerPage <= 0 {
		return fmt.Errorf("sources.indicator: %w", ErrInvalidPerPage)
	}
	if ind.Retries < 0 {
		return fmt.Errorf("sources.indicator: %w", ErrNegativeRetries)
	}

	cs := c.Sources.Countries
	if strings.TrimSpace(cs.BaseURL) == "" {
		return fmt.Errorf("sources.countries: %w", ErrEmptyBaseURL)
	}
	if cs.Timeout <= 0 {
		return fmt.Errorf("sources.countries: %w", ErrNonPositiveTimeout)
	}

	switch c.Output.DefaultFormat {
	case "table", "json", "ndjson":
	default:
		return fmt.Errorf("output.default_format %q: %w", c.Output.DefaultFormat, ErrInvalidFormat)
	}
	return nil
}

// Save writes the configuration as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err = os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// DefaultConfigPath returns the location Load reads when given an empty path.
func DefaultConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}
