package api

import (
	"net/http"

	"github.com/nexus-sapiens/nexus/internal/agent"
)

// AgentsHandler lists the available agent personas.
type AgentsHandler struct {
	registry *agent.Registry
}

// NewAgentsHandler creates an agents handler.
func NewAgentsHandler(registry *agent.Registry) *AgentsHandler {
	return &AgentsHandler{registry: registry}
}

// RegisterRoutes registers agent routes on the given mux.
func (h *AgentsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/agents", h.list)
}

// AgentInfo is one agent in the listing.
type AgentInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Default     bool   `json:"default,omitempty"`
}

func (h *AgentsHandler) list(w http.ResponseWriter, _ *http.Request) {
	def := h.registry.DefaultAgent().ID
	agents := h.registry.List()
	out := make([]AgentInfo, 0, len(agents))
	for _, a := range agents {
		out = append(out, AgentInfo{
			ID:          a.ID,
			Name:        a.Name,
			Description: a.Description,
			Default:     a.ID == def,
		})
	}
	writeJSON(w, http.StatusOK, out)
}
