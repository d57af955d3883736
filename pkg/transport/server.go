package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rhuss/lokal/pkg/auth"
	"github.com/rhuss/lokal/pkg/observability"
)

// ServerConfig holds configuration for the HTTP server.
type ServerConfig struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Authenticator   auth.Authenticator // nil disables authentication
	MetricsPath     string             // "" disables the metrics endpoint
	Logger          *slog.Logger
}

// Server wraps an http.Server and manages the full lifecycle including
// startup and graceful shutdown.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

// NewServer builds the route table around the handler and applies the
// default middleware chain (recovery, request ID, logging). Completion
// routes additionally get metrics instrumentation and authentication.
func NewServer(h *Handler, cfg ServerConfig) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 30 * time.Second
	}

	apiRoute := func(pattern string, fn http.HandlerFunc) http.Handler {
		return observability.Middleware(pattern, auth.Middleware(cfg.Authenticator, fn))
	}

	mux := http.NewServeMux()
	mux.Handle("POST /v1/completions", apiRoute("/v1/completions", h.HandleCompletion))
	mux.Handle("POST /v1/completions/batch", apiRoute("/v1/completions/batch", h.HandleBatch))
	mux.Handle("GET /v1/completions/{id}", apiRoute("/v1/completions/{id}", h.HandleGet))
	mux.HandleFunc("GET /healthz", h.HandleHealth)
	if cfg.MetricsPath != "" {
		mux.Handle("GET "+cfg.MetricsPath, promhttp.Handler())
	}

	chain := Recovery(RequestID(Logging(logger)(mux)))

	return &Server{
		httpServer: &http.Server{
			Addr:         cfg.Addr,
			Handler:      chain,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		shutdownTimeout: cfg.ShutdownTimeout,
		logger:          logger,
	}
}

// Handler returns the server's root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run starts the server and blocks until the context is cancelled, then
// shuts down gracefully within the configured timeout.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}
