package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nexus-sapiens/nexus/internal/progress"
)

// ProgressHandler serves the persisted progress namespaces.
type ProgressHandler struct {
	store  *progress.Store
	logger *slog.Logger
}

// NewProgressHandler creates a progress handler.
func NewProgressHandler(store *progress.Store, logger *slog.Logger) *ProgressHandler {
	return &ProgressHandler{store: store, logger: logger}
}

// RegisterRoutes registers progress routes on the given mux.
func (h *ProgressHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/progress/{namespace}", h.get)
	mux.HandleFunc("PUT /api/progress/{namespace}", h.put)
}

func (h *ProgressHandler) get(w http.ResponseWriter, r *http.Request) {
	ns := r.PathValue("namespace")
	m, err := h.store.Load(ns)
	if err != nil {
		h.writeStoreError(w, ns, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// put replaces the whole namespace map, mirroring Store.Save.
func (h *ProgressHandler) put(w http.ResponseWriter, r *http.Request) {
	ns := r.PathValue("namespace")

	var m map[string]bool
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_REQUEST",
			fmt.Sprintf("body must be a JSON object of booleans: %v", err))
		return
	}
	if m == nil {
		m = map[string]bool{}
	}

	if err := h.store.Save(ns, m); err != nil {
		h.writeStoreError(w, ns, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *ProgressHandler) writeStoreError(w http.ResponseWriter, ns string, err error) {
	if errors.Is(err, progress.ErrInvalidNamespace) {
		writeError(w, http.StatusBadRequest, "INVALID_NAMESPACE",
			fmt.Sprintf("invalid namespace %q", ns))
		return
	}
	h.logger.Error("progress store failed", "namespace", ns, "error", err)
	writeError(w, http.StatusInternalServerError, "STORE_ERROR", "progress store failed")
}
