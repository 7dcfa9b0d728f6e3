package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Query   QueryConfig
	Logging LogConfig
}

// ServerConfig holds the span service connection settings.
type ServerConfig struct {
	BaseURL string `envconfig:"SPANS_BASE_URL" default:"http://localhost:6006"`
	APIKey  string `envconfig:"SPANS_API_KEY"`
	// RateLimit caps outgoing requests per second; 0 means unlimited.
	RateLimit float64 `envconfig:"SPANS_RATE_LIMIT" default:"0"`
}

// QueryConfig holds per-query defaults.
type QueryConfig struct {
	// TimeoutSeconds bounds one request; 0 disables the timeout.
	TimeoutSeconds float64 `envconfig:"SPANS_TIMEOUT" default:"5"`
	Limit          int     `envconfig:"SPANS_LIMIT" default:"1000"`
	Project        string  `envconfig:"SPANS_PROJECT"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
	Output      string `envconfig:"LOG_OUTPUT" default:"stdout"`
}

// Timeout returns the request timeout, zero when disabled.
func (q QueryConfig) Timeout() time.Duration {
	return time.Duration(q.TimeoutSeconds * float64(time.Second))
}

// Validate reports settings no query could run with.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid SPANS_BASE_URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid SPANS_BASE_URL %q: scheme and host required", c.Server.BaseURL)
	}
	if c.Server.RateLimit < 0 {
		return errors.New("SPANS_RATE_LIMIT must not be negative")
	}
	if c.Query.TimeoutSeconds < 0 {
		return errors.New("SPANS_TIMEOUT must not be negative")
	}
	if c.Query.Limit <= 0 {
		return errors.New("SPANS_LIMIT must be positive")
	}
	return nil
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:6006",
		},
		Query: QueryConfig{
			TimeoutSeconds: 5,
			Limit:          1000,
		},
		Logging: LogConfig{
			Level:  "info",
			Output: "stdout",
		},
	}
}
