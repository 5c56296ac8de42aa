// Package httpserver exposes the MCP server over a streamable HTTP endpoint
// with request logging and a health check.
package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Handler wraps mcps in a chi router with logging middleware. The MCP
// endpoint lives at /mcp, a liveness probe at /healthz.
func Handler(mcps *server.MCPServer, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(logger))
	r.Use(hlog.AccessHandler(func(req *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(req).Info().
			Str("method", req.Method).
			Stringer("url", req.URL).
			Int("status", status).
			Dur("duration", duration).
			Msg("request")
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	streamable := server.NewStreamableHTTPServer(mcps, server.WithEndpointPath("/mcp"))
	r.Handle("/mcp", streamable)

	return r
}
