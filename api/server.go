// Package api provides the HTTP REST + SSE API for Nexus.
//
// Endpoints:
//
//	POST /api/chat            - synchronous chat (JSON request/response)
//	POST /api/chat/stream     - streaming chat (Server-Sent Events)
//	GET  /api/agents          - list agent personas
//	GET  /api/progress/{ns}   - read a progress namespace
//	PUT  /api/progress/{ns}   - replace a progress namespace
//	GET  /health              - liveness probe
//	GET  /ready               - readiness probe
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (recovery, request ID, logging)
//   - health.go: health check endpoints
//   - chat.go: chat endpoints over the orchestrator
//   - agents.go: agent listing
//   - progress.go: progress namespace endpoints
//   - response.go: JSON response helpers
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/chat"
	"github.com/nexus-sapiens/nexus/internal/credential"
	"github.com/nexus-sapiens/nexus/internal/progress"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = "127.0.0.1:3500"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout prevents Slowloris-style header trickling.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is long because SSE responses stream for the
	// whole turn.
	WriteTimeout = 10 * time.Minute

	// IdleTimeout is the keep-alive idle limit.
	IdleTimeout = 120 * time.Second
)

// Config holds the server's dependencies.
type Config struct {
	Orchestrator *chat.Orchestrator
	Registry     *agent.Registry
	Progress     *progress.Store
	Credentials  *credential.Manager
	Logger       *slog.Logger
}

func (c Config) validate() error {
	if c.Orchestrator == nil {
		return errors.New("orchestrator is required")
	}
	if c.Registry == nil {
		return errors.New("agent registry is required")
	}
	if c.Progress == nil {
		return errors.New("progress store is required")
	}
	if c.Credentials == nil {
		return errors.New("credential manager is required")
	}
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Server is the HTTP server for the Nexus REST API.
type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger

	health   *HealthHandler
	chat     *ChatHandler
	agents   *AgentsHandler
	progress *ProgressHandler
}

// NewServer creates an HTTP server with all routes registered.
func NewServer(cfg Config) (*Server, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	s := &Server{
		mux:      mux,
		logger:   cfg.Logger,
		health:   NewHealthHandler(cfg.Credentials, cfg.Logger),
		chat:     NewChatHandler(cfg.Orchestrator, cfg.Logger),
		agents:   NewAgentsHandler(cfg.Registry),
		progress: NewProgressHandler(cfg.Progress, cfg.Logger),
	}

	s.health.RegisterRoutes(mux)
	s.chat.RegisterRoutes(mux)
	s.agents.RegisterRoutes(mux)
	s.progress.RegisterRoutes(mux)
	return s, nil
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → request ID → logging → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux,
		recoveryMiddleware(s.logger),
		requestIDMiddleware,
		loggingMiddleware(s.logger),
	)
}

// Run starts the HTTP server and blocks until the context is
// cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
