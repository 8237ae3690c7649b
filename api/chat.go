package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/chat"
)

// ChatHandler exposes the chat orchestrator over HTTP.
//
// Endpoints:
//   - POST /api/chat        - synchronous chat (JSON request/response)
//   - POST /api/chat/stream - streaming chat (Server-Sent Events)
//
// The server shares one orchestrator, so the API mirrors the app's
// single-conversation model: one turn in flight at a time, and naming
// a different agent switches the whole conversation to it.
type ChatHandler struct {
	orch   *chat.Orchestrator
	logger *slog.Logger
}

// NewChatHandler creates a chat handler over the orchestrator.
func NewChatHandler(orch *chat.Orchestrator, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{orch: orch, logger: logger}
}

// RegisterRoutes registers chat routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/chat", h.handleChat)
	mux.HandleFunc("POST /api/chat/stream", h.handleStream)
}

// ChatRequest is the request body for both chat endpoints.
type ChatRequest struct {
	// Agent selects the persona. Empty keeps the current one.
	Agent   string `json:"agent,omitempty"`
	Message string `json:"message"`
}

// ChatResponse is the response body for POST /api/chat.
type ChatResponse struct {
	Agent    string `json:"agent"`
	Response string `json:"response"`
}

// SSEEvent is a Server-Sent Event payload.
type SSEEvent struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// SSEChunkData is the data for "chunk" events.
type SSEChunkData struct {
	Text string `json:"text"`
}

// SSEDoneData is the data for "done" events.
type SSEDoneData struct {
	Response string `json:"response"`
	Agent    string `json:"agent"`
}

// SSEErrorData is the data for "error" events.
type SSEErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// prepare decodes and validates the request and applies any agent
// switch. Returns a non-nil *ErrorResponse with a status when the
// request cannot start a turn.
func (h *ChatHandler) prepare(r *http.Request) (ChatRequest, int, *ErrorResponse) {
	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, http.StatusBadRequest, &ErrorResponse{
			Error: "INVALID_REQUEST", Message: fmt.Sprintf("invalid request body: %v", err),
		}
	}
	if req.Message == "" {
		return req, http.StatusBadRequest, &ErrorResponse{
			Error: "MISSING_MESSAGE", Message: "message is required",
		}
	}

	if req.Agent != "" && req.Agent != h.orch.CurrentAgent().ID {
		if _, err := h.orch.SwitchAgent(req.Agent); err != nil {
			if errors.Is(err, agent.ErrNotFound) {
				return req, http.StatusNotFound, &ErrorResponse{
					Error: "UNKNOWN_AGENT", Message: fmt.Sprintf("unknown agent %q", req.Agent),
				}
			}
			return req, http.StatusInternalServerError, &ErrorResponse{
				Error: "AGENT_SWITCH_FAILED", Message: err.Error(),
			}
		}
	}
	return req, 0, nil
}

func submitStatus(err error) (int, string) {
	switch {
	case errors.Is(err, chat.ErrEmptyMessage):
		return http.StatusBadRequest, "EMPTY_MESSAGE"
	case errors.Is(err, chat.ErrBusy):
		return http.StatusConflict, "BUSY"
	default:
		return http.StatusInternalServerError, "SUBMIT_FAILED"
	}
}

// handleChat runs one full turn and returns the finalized response.
func (h *ChatHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	req, status, errResp := h.prepare(r)
	if errResp != nil {
		writeJSON(w, status, errResp)
		return
	}

	events, err := h.orch.Submit(r.Context(), req.Message)
	if err != nil {
		status, code := submitStatus(err)
		writeError(w, status, code, err.Error())
		return
	}

	var final chat.Message
	for ev := range events {
		if ev.Kind == chat.EventDone {
			final = ev.Message
		}
	}

	writeJSON(w, http.StatusOK, ChatResponse{
		Agent:    h.orch.CurrentAgent().ID,
		Response: final.Text,
	})
}

// handleStream handles the SSE streaming endpoint.
//
// Request body: {"agent": "...", "message": "..."}
//
// Event types:
//   - chunk: partial text {"text": "..."}
//   - done:  final response {"response": "...", "agent": "..."}
//   - error: request could not start {"code": "...", "message": "..."}
func (h *ChatHandler) handleStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.logger.Error("streaming not supported")
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	req, _, errResp := h.prepare(r)
	if errResp != nil {
		h.writeSSEError(w, flusher, errResp.Error, errResp.Message)
		return
	}

	events, err := h.orch.Submit(r.Context(), req.Message)
	if err != nil {
		_, code := submitStatus(err)
		h.writeSSEError(w, flusher, code, err.Error())
		return
	}

	agentID := h.orch.CurrentAgent().ID
	h.logger.Info("SSE stream started", "agent", agentID)

	// On early return (client disconnect) the turn goroutine may
	// still be sending; drain until it closes the channel so it can
	// wind down and release the orchestrator.
	defer func() {
		for range events {
		}
	}()

	ctx := r.Context()
	var final chat.Message
	for ev := range events {
		select {
		case <-ctx.Done():
			// Client disconnected; the orchestrator's turn context
			// is derived from this one and winds down on its own.
			h.logger.Info("client disconnected", "agent", agentID)
			return
		default:
		}

		switch ev.Kind {
		case chat.EventChunk:
			h.writeSSEChunk(w, flusher, ev.Chunk)
		case chat.EventDone:
			final = ev.Message
		}
	}

	h.writeSSEDone(w, flusher, final.Text, agentID)
	h.logger.Info("SSE stream completed", "agent", agentID, "response_len", len(final.Text))
}

// writeSSEChunk writes a chunk event to the SSE stream.
func (h *ChatHandler) writeSSEChunk(w http.ResponseWriter, flusher http.Flusher, text string) {
	data, _ := json.Marshal(SSEChunkData{Text: text})
	fmt.Fprintf(w, "event: chunk\ndata: %s\n\n", data)
	flusher.Flush()
}

// writeSSEDone writes a done event to the SSE stream.
func (h *ChatHandler) writeSSEDone(w http.ResponseWriter, flusher http.Flusher, response, agentID string) {
	data, _ := json.Marshal(SSEDoneData{Response: response, Agent: agentID})
	fmt.Fprintf(w, "event: done\ndata: %s\n\n", data)
	flusher.Flush()
}

// writeSSEError writes an error event to the SSE stream.
func (h *ChatHandler) writeSSEError(w http.ResponseWriter, flusher http.Flusher, code, message string) {
	data, _ := json.Marshal(SSEErrorData{Code: code, Message: message})
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", data)
	flusher.Flush()
}
