// cmd/paymcp/main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/paymcp/internal/config"
	"github.com/briangreenhill/paymcp/internal/httpserver"
	"github.com/briangreenhill/paymcp/internal/tools"
	"github.com/briangreenhill/paymcp/payflow"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Logger writes to stderr: on the stdio transport stdout carries the protocol.
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Fatalf("invalid log level %q: %v", cfg.LogLevel, err)
	}
	logger := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	client, err := payflow.New(cfg.APIKey,
		payflow.WithBaseURL(cfg.BaseURL),
		payflow.WithTimeout(cfg.Timeout),
		payflow.WithMaxRetries(cfg.MaxRetries),
		payflow.WithCacheTTL(cfg.CacheTTL),
		payflow.WithLogger(logger),
	)
	if err != nil {
		log.Fatalf("client error: %v", err)
	}

	s := server.NewMCPServer("payflow", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(false),
		server.WithRecovery(),
	)
	tools.New(client, logger).Register(s)

	switch cfg.Transport {
	case config.TransportHTTP:
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("serving MCP over HTTP")
		if err := http.ListenAndServe(cfg.HTTPAddr, httpserver.Handler(s, logger)); err != nil {
			log.Fatalf("http server error: %v", err)
		}
	default:
		logger.Info().Msg("serving MCP over stdio")
		if err := server.ServeStdio(s); err != nil {
			log.Fatalf("stdio server error: %v", err)
		}
	}
}
