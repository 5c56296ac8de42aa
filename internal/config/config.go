// Package config handles application configuration from environment variables
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Transport selects how the MCP server is exposed.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Config holds all application configuration
type Config struct {
	// PayFlow API
	APIKey     string        `env:"PAYFLOW_API_KEY"`
	BaseURL    string        `env:"PAYFLOW_BASE_URL" envDefault:"https://api.payflow.dev"`
	Timeout    time.Duration `env:"PAYFLOW_TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"PAYFLOW_MAX_RETRIES" envDefault:"3"`
	CacheTTL   time.Duration `env:"PAYFLOW_CACHE_TTL" envDefault:"60s"`

	// Server
	Transport string `env:"PAYMCP_TRANSPORT" envDefault:"stdio"`
	HTTPAddr  string `env:"PAYMCP_HTTP_ADDR" envDefault:":8080"`
	LogLevel  string `env:"PAYMCP_LOG_LEVEL" envDefault:"info"`
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate ensures the configuration is usable
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("PAYFLOW_API_KEY is required")
	}
	if c.Transport != TransportStdio && c.Transport != TransportHTTP {
		return fmt.Errorf("PAYMCP_TRANSPORT must be %q or %q, got %q", TransportStdio, TransportHTTP, c.Transport)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("PAYFLOW_TIMEOUT must be positive, got %s", c.Timeout)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("PAYFLOW_MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	return nil
}
