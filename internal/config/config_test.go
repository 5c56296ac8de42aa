package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("PAYFLOW_API_KEY", "app_test_key")
	t.Setenv("PAYFLOW_TIMEOUT", "5s")
	t.Setenv("PAYFLOW_MAX_RETRIES", "2")
	t.Setenv("PAYMCP_TRANSPORT", "http")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.APIKey != "app_test_key" {
		t.Errorf("Expected APIKey 'app_test_key', got '%s'", cfg.APIKey)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("Expected Timeout 5s, got %s", cfg.Timeout)
	}
	if cfg.MaxRetries != 2 {
		t.Errorf("Expected MaxRetries 2, got %d", cfg.MaxRetries)
	}
	if cfg.Transport != TransportHTTP {
		t.Errorf("Expected Transport http, got '%s'", cfg.Transport)
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PAYFLOW_API_KEY", "app_test_key")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.BaseURL != "https://api.payflow.dev" {
		t.Errorf("Expected default base URL, got '%s'", cfg.BaseURL)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("Expected default Timeout 30s, got %s", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("Expected default MaxRetries 3, got %d", cfg.MaxRetries)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("Expected default CacheTTL 60s, got %s", cfg.CacheTTL)
	}
	if cfg.Transport != TransportStdio {
		t.Errorf("Expected default Transport stdio, got '%s'", cfg.Transport)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Errorf("Expected default HTTPAddr :8080, got '%s'", cfg.HTTPAddr)
	}
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Setenv("PAYFLOW_API_KEY", "")

	_, err := Load()
	if err == nil {
		t.Error("Expected error when PAYFLOW_API_KEY is missing")
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		APIKey:     "key",
		Timeout:    time.Second,
		MaxRetries: 3,
		Transport:  TransportStdio,
	}

	if err := base.Validate(); err != nil {
		t.Errorf("Valid config should not error: %v", err)
	}

	cfg := base
	cfg.Transport = "websocket"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for unknown transport")
	}

	cfg = base
	cfg.Timeout = 0
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for zero timeout")
	}

	cfg = base
	cfg.MaxRetries = -1
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for negative retries")
	}
}
