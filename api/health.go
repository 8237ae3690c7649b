package api

import (
	"log/slog"
	"net/http"

	"github.com/nexus-sapiens/nexus/internal/credential"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	creds  *credential.Manager
	logger *slog.Logger
}

// NewHealthHandler creates a health handler. Readiness requires a
// configured provider credential.
func NewHealthHandler(creds *credential.Manager, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{creds: creds, logger: logger}
}

// RegisterRoutes registers health routes on the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", h.liveness)
	mux.HandleFunc("GET /ready", h.readiness)
}

// liveness returns 200 OK if the process is alive.
func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// readiness returns 200 OK when chat requests can be served, which
// needs a provider credential.
func (h *HealthHandler) readiness(w http.ResponseWriter, _ *http.Request) {
	if _, ok := h.creds.Get(); !ok {
		h.logger.Warn("readiness check failed: no API key configured")
		http.Error(w, "provider credential not configured", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
