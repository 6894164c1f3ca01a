package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Folio
type Config struct {
	Environment       string        `toml:"environment"`
	ReferenceCurrency string        `toml:"reference_currency"` // currency portfolio totals are expressed in
	WorldUSWeight     float64       `toml:"world_us_weight"`    // share of world funds attributed to the US (0..1)
	Server            ServerConfig  `toml:"server"`
	Storage           StorageConfig `toml:"storage"`
	Clients           ClientsConfig `toml:"clients"`
	Logging           LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// StorageConfig holds storage paths.
type StorageConfig struct {
	Path string `toml:"path"` // BadgerHold data directory
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	Rates  RatesClientConfig  `toml:"rates"`
	Quotes QuotesClientConfig `toml:"quotes"`
}

// RatesClientConfig configures the exchange-rate provider.
type RatesClientConfig struct {
	BaseURL         string   `toml:"base_url"`
	Symbols         []string `toml:"symbols"`          // currency codes to fetch
	RefreshInterval string   `toml:"refresh_interval"` // duration string, default "24h"
	Timeout         string   `toml:"timeout"`
}

// GetRefreshInterval parses and returns the refresh interval
func (c *RatesClientConfig) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil || d <= 0 {
		return 24 * time.Hour
	}
	return d
}

// GetTimeout parses and returns the timeout duration
func (c *RatesClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// QuotesClientConfig configures the price/quote provider.
type QuotesClientConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"`
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *QuotesClientConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:       "development",
		ReferenceCurrency: "EUR",
		WorldUSWeight:     0.60,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Storage: StorageConfig{
			Path: "data/folio",
		},
		Clients: ClientsConfig{
			Rates: RatesClientConfig{
				BaseURL:         "https://api.frankfurter.app",
				Symbols:         []string{"USD", "GBP", "CHF"},
				RefreshInterval: "24h",
				Timeout:         "30s",
			},
			Quotes: QuotesClientConfig{
				BaseURL:   "https://eodhd.com/api",
				RateLimit: 10,
				Timeout:   "30s",
			},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Outputs:    []string{"console"},
			FilePath:   "./logs/folio.log",
			MaxSizeMB:  100,
			MaxBackups: 3,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Later files override earlier ones; missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	validateReferenceCurrency(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("FOLIO_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("FOLIO_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("FOLIO_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("FOLIO_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("FOLIO_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if rc := os.Getenv("FOLIO_REFERENCE_CURRENCY"); rc != "" {
		config.ReferenceCurrency = strings.ToUpper(rc)
	}

	if w := os.Getenv("FOLIO_WORLD_US_WEIGHT"); w != "" {
		if f, err := strconv.ParseFloat(w, 64); err == nil && f >= 0 && f <= 1 {
			config.WorldUSWeight = f
		}
	}

	if key := os.Getenv("FOLIO_QUOTES_API_KEY"); key != "" {
		config.Clients.Quotes.APIKey = key
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// validateReferenceCurrency normalizes the reference currency, falling back
// to EUR for anything that isn't a 3-letter code.
func validateReferenceCurrency(config *Config) {
	rc := strings.ToUpper(strings.TrimSpace(config.ReferenceCurrency))
	if len(rc) != 3 {
		rc = "EUR"
	}
	config.ReferenceCurrency = rc
}
