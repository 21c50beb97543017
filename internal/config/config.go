// Package config loads wikifreq settings from a YAML file with embedded
// defaults and environment overrides.
package config

import (
	"embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/colthorp/wikifreq/internal/core"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

type Config struct {
	APIURL      string `yaml:"api_url"`
	UserAgent   string `yaml:"user_agent"`
	CacheDir    string `yaml:"cache_dir"`
	CacheExpiry string `yaml:"cache_expiry"`
	TopN        int    `yaml:"top_n"`
	Parallel    int    `yaml:"parallel"`
	HTTPTimeout string `yaml:"http_timeout"`
	Retries     int    `yaml:"retries"`

	// StopWordsFile replaces the built-in English stop words with a
	// newline-separated list.
	StopWordsFile string `yaml:"stopwords_file"`
}

// ExpiryDuration returns the cache expiry window, defaulting to 7 days.
func (c *Config) ExpiryDuration() time.Duration {
	if c.CacheExpiry == "" {
		return core.CacheExpiry
	}
	d, err := core.ParseDays(c.CacheExpiry)
	if err != nil {
		return core.CacheExpiry
	}
	return d
}

// TimeoutDuration returns the HTTP client timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.HTTPTimeout)
	if err != nil || d <= 0 {
		return core.HTTPTimeout
	}
	return d
}

// ResolvedCacheDir returns the cache directory, defaulting to the XDG cache home.
func (c *Config) ResolvedCacheDir() string {
	if c.CacheDir == "" {
		return core.CacheRoot()
	}
	return c.CacheDir
}

// ResolvedUserAgent returns the User-Agent sent to the API.
func (c *Config) ResolvedUserAgent() string {
	if c.UserAgent == "" {
		return core.UserAgent
	}
	return c.UserAgent
}

// GetTopN returns the number of ranked entries to keep, defaulting to 100.
func (c *Config) GetTopN() int {
	if c.TopN <= 0 {
		return core.TopN
	}
	return c.TopN
}

// GetParallel returns the number of concurrent page fetches, at least 1.
func (c *Config) GetParallel() int {
	if c.Parallel < 1 {
		return 1
	}
	return c.Parallel
}

func DefaultConfigPath() string {
	return core.ConfigPath()
}

// Default returns the embedded defaults.
func Default() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (DefaultConfigPath when empty), layering it
// over the embedded defaults. A missing file is not an error. Environment
// variables override file values.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, &core.ConfigError{Path: path, Err: fmt.Errorf("reading config: %w", err)}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, &core.ConfigError{Path: path, Err: fmt.Errorf("parsing config: %w", err)}
		}
	}

	applyEnv(cfg)

	if err := validate(cfg); err != nil {
		return nil, &core.ConfigError{Path: path, Err: err}
	}

	return cfg, nil
}

// WriteDefaults writes the embedded defaults to path, creating parent directories.
func WriteDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return &core.ConfigError{Path: path, Err: err}
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &core.ConfigError{Path: path, Err: err}
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(core.APIURLEnvVar); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv(core.CacheDirEnvVar); v != "" {
		cfg.CacheDir = v
	}
}

func validate(cfg *Config) error {
	u, err := url.Parse(cfg.APIURL)
	if err != nil {
		return fmt.Errorf("api_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api_url scheme must be http or https, got %q", u.Scheme)
	}
	if cfg.CacheExpiry != "" {
		if _, err := core.ParseDays(cfg.CacheExpiry); err != nil {
			return fmt.Errorf("cache_expiry: %w", err)
		}
	}
	if cfg.HTTPTimeout != "" {
		if _, err := time.ParseDuration(cfg.HTTPTimeout); err != nil {
			return fmt.Errorf("http_timeout: %w", err)
		}
	}
	if cfg.StopWordsFile != "" {
		if _, err := os.Stat(cfg.StopWordsFile); err != nil {
			return fmt.Errorf("stopwords_file: %w", err)
		}
	}
	if cfg.Retries < 0 {
		return fmt.Errorf("retries must not be negative, got %d", cfg.Retries)
	}
	return nil
}
