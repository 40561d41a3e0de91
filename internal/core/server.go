// Package core provides the HTTP chassis for the Vibe Finder API. It builds
// a chi router usable both as a standalone HTTP server and behind the AWS
// Lambda adapter, and applies the cross-cutting middleware (recovery,
// timeouts, request ids, logging, CORS, metrics, rate limiting and
// compression) before requests reach the handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"vibefinder/internal/config"
)

// MetricsCollector records API telemetry. Endpoint is the matched route
// pattern, not the raw path.
type MetricsCollector interface {
	RecordRequest(method, endpoint, status string, duration time.Duration)
}

// RouteRegistrar mounts a handler group onto the /v1 router.
type RouteRegistrar func(r chi.Router)

// Server holds the dependencies of the HTTP layer.
type Server struct {
	Config    *config.Config
	Logger    *slog.Logger
	Validator *Validator
	Metrics   MetricsCollector

	// HealthProbes are run by GET /health.
	HealthProbes []HealthProbe

	// V1RouteRegistrars are populated by the entry point so core does not
	// import the handler packages.
	V1RouteRegistrars []RouteRegistrar

	onShutdown []func()
	router     *chi.Mux
}

// NewServer validates the critical dependencies and prepares an empty
// router. The caller mounts routes with MountRoutes.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:    cfg,
		Logger:    logger,
		Validator: NewValidator(logger),
		router:    chi.NewRouter(),
	}, nil
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// OnShutdown registers fn to run during Shutdown, in reverse registration
// order. Used for connection pools.
func (s *Server) OnShutdown(fn func()) {
	s.onShutdown = append(s.onShutdown, fn)
}

// Shutdown releases the resources registered with OnShutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	s.Logger.InfoContext(ctx, "server shutdown initiated")

	for i := len(s.onShutdown) - 1; i >= 0; i-- {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("shutdown interrupted: %w", err)
		}
		s.onShutdown[i]()
	}

	s.Logger.InfoContext(ctx, "server shutdown complete")
	return nil
}
