// Package config handles loading and validating the application
// configuration from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Ebay     EbayConfig     `yaml:"ebay"`
	Kijiji   KijijiConfig   `yaml:"kijiji"`
	Search   SearchConfig   `yaml:"search"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig defines the Echo HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// DatabaseConfig defines PostgreSQL settings for the saved-search store.
// Leaving host empty disables the store; search itself never needs it.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	PoolSize int    `yaml:"pool_size"`
}

// Enabled reports whether a database is configured.
func (d *DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

// DSN returns a PostgreSQL connection string.
func (d *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		d.Host, d.Port, d.Name, d.User, d.Password, d.SSLMode,
	)
}

// EbayConfig defines the eBay Browse API connector settings. Missing
// credentials are not a startup error: the connector degrades to empty
// results until credentials appear in config.
type EbayConfig struct {
	ClientID     string          `yaml:"client_id"`
	ClientSecret string          `yaml:"client_secret"`
	Scope        string          `yaml:"scope"`
	TokenURL     string          `yaml:"token_url"`
	BrowseURL    string          `yaml:"browse_url"`
	Marketplace  string          `yaml:"marketplace"`
	Timeout      time.Duration   `yaml:"timeout"`
	RateLimit    RateLimitConfig `yaml:"rate_limit"`
}

// HasCredentials reports whether both client id and secret are set.
func (e *EbayConfig) HasCredentials() bool {
	return e.ClientID != "" && e.ClientSecret != ""
}

// RateLimitConfig defines eBay API rate limiting settings.
type RateLimitConfig struct {
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"`
}

// KijijiConfig defines the Kijiji scrape connector settings.
type KijijiConfig struct {
	BaseURL   string        `yaml:"base_url"`
	Region    string        `yaml:"region"`
	UserAgent string        `yaml:"user_agent"`
	Timeout   time.Duration `yaml:"timeout"`

	// UseFallbackScraper switches extraction from the JSON-LD structured
	// data block to the legacy anchor-heuristic scraper. Only one
	// strategy is ever active.
	UseFallbackScraper bool `yaml:"use_fallback_scraper"`
}

// SearchConfig defines unified search settings.
type SearchConfig struct {
	CacheTTL time.Duration `yaml:"cache_ttl"`
	MaxLimit int           `yaml:"max_limit"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json
}

// Load reads and parses a YAML config file, performing environment
// variable substitution and validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse parses raw YAML config bytes with env expansion, defaults, and
// validation.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Default returns the configuration with all defaults applied and no
// file loaded. Useful for tests and the zero-config dev setup.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *Config) {
	applyServerDefaults(&cfg.Server)
	applyDatabaseDefaults(&cfg.Database)
	applyEbayDefaults(&cfg.Ebay)
	applyKijijiDefaults(&cfg.Kijiji)
	applySearchDefaults(&cfg.Search)
	applyLoggingDefaults(&cfg.Logging)
}

func applyServerDefaults(s *ServerConfig) {
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	if s.Port == 0 {
		s.Port = 8080
	}
	if s.ReadTimeout == 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout == 0 {
		s.WriteTimeout = 30 * time.Second
	}
}

func applyDatabaseDefaults(d *DatabaseConfig) {
	if d.Port == 0 {
		d.Port = 5432
	}
	if d.SSLMode == "" {
		d.SSLMode = "disable"
	}
	if d.PoolSize == 0 {
		d.PoolSize = 10
	}
}

func applyEbayDefaults(e *EbayConfig) {
	if e.TokenURL == "" {
		e.TokenURL = "https://api.ebay.com/identity/v1/oauth2/token"
	}
	if e.BrowseURL == "" {
		e.BrowseURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	}
	if e.Scope == "" {
		e.Scope = "https://api.ebay.com/oauth/api_scope"
	}
	if e.Marketplace == "" {
		e.Marketplace = "EBAY_CA"
	}
	if e.Timeout == 0 {
		e.Timeout = 20 * time.Second
	}
	if e.RateLimit.PerSecond == 0 {
		e.RateLimit.PerSecond = 5.0
	}
	if e.RateLimit.Burst == 0 {
		e.RateLimit.Burst = 10
	}
	if e.RateLimit.DailyLimit == 0 {
		e.RateLimit.DailyLimit = 5000
	}
}

func applyKijijiDefaults(k *KijijiConfig) {
	if k.BaseURL == "" {
		k.BaseURL = "https://www.kijiji.ca"
	}
	if k.Region == "" {
		k.Region = "canada"
	}
	if k.UserAgent == "" {
		k.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	}
	if k.Timeout == 0 {
		k.Timeout = 15 * time.Second
	}
}

func applySearchDefaults(s *SearchConfig) {
	if s.CacheTTL == 0 {
		s.CacheTTL = 60 * time.Second
	}
	if s.MaxLimit == 0 {
		s.MaxLimit = 50
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

func validate(cfg *Config) error {
	var errs []error

	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", cfg.Server.Port))
	}

	if cfg.Database.Enabled() {
		if cfg.Database.Name == "" {
			errs = append(errs, fmt.Errorf("database.name is required when database.host is set"))
		}
		if cfg.Database.User == "" {
			errs = append(errs, fmt.Errorf("database.user is required when database.host is set"))
		}
	}

	if cfg.Search.MaxLimit < 1 {
		errs = append(errs, fmt.Errorf("search.max_limit must be positive"))
	}
	if cfg.Search.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("search.cache_ttl must not be negative"))
	}

	if cfg.Ebay.RateLimit.PerSecond < 0 {
		errs = append(errs, fmt.Errorf("ebay.rate_limit.per_second must not be negative"))
	}

	return errors.Join(errs...)
}
