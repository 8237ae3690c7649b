package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/chat"
	"github.com/nexus-sapiens/nexus/internal/credential"
	"github.com/nexus-sapiens/nexus/internal/log"
	"github.com/nexus-sapiens/nexus/internal/progress"
	"github.com/nexus-sapiens/nexus/internal/provider"
	"github.com/nexus-sapiens/nexus/internal/session"
)

type echoConversation struct {
	reply string
}

func (c *echoConversation) Send(ctx context.Context, _ string, onChunk provider.ChunkFunc) (string, error) {
	if onChunk != nil {
		// Two chunks to exercise SSE ordering.
		half := len(c.reply) / 2
		for _, part := range []string{c.reply[:half], c.reply[half:]} {
			if part == "" {
				continue
			}
			if err := onChunk(ctx, provider.Chunk{Text: part}); err != nil {
				return "", err
			}
		}
	}
	return c.reply, nil
}

type echoClient struct {
	reply string
}

func (c *echoClient) StartConversation(_ context.Context, _ provider.ConversationParams) (provider.Conversation, error) {
	return &echoConversation{reply: c.reply}, nil
}

// floodConversation streams far more chunks than any consumer buffer
// holds, checking only onChunk errors for cancellation, like a real
// stream that keeps delivering buffered data.
type floodConversation struct{}

func (floodConversation) Send(ctx context.Context, _ string, onChunk provider.ChunkFunc) (string, error) {
	for i := 0; i < 300; i++ {
		if onChunk != nil {
			if err := onChunk(ctx, provider.Chunk{Text: "x"}); err != nil {
				return "", err
			}
		}
	}
	return strings.Repeat("x", 300), nil
}

type floodClient struct{}

func (floodClient) StartConversation(_ context.Context, _ provider.ConversationParams) (provider.Conversation, error) {
	return floodConversation{}, nil
}

func newTestServer(t *testing.T, apiKey, reply string) *httptest.Server {
	t.Helper()
	return newTestServerWith(t, apiKey, &echoClient{reply: reply})
}

func newTestServerWith(t *testing.T, apiKey string, client provider.Client) *httptest.Server {
	t.Helper()

	creds := credential.New(apiKey, log.NewNop())
	store, err := session.New(client, creds, log.NewNop())
	require.NoError(t, err)

	orch, err := chat.New(chat.Config{
		Sessions: store,
		Registry: agent.Default(),
		Logger:   log.NewNop(),
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	prog, err := progress.New(t.TempDir(), log.NewNop())
	require.NoError(t, err)

	srv, err := NewServer(Config{
		Orchestrator: orch,
		Registry:     agent.Default(),
		Progress:     prog,
		Credentials:  creds,
		Logger:       log.NewNop(),
	})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestReadyWithoutCredential(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "", "hola")

	resp, err := http.Get(ts.URL + "/ready")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestListAgents(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	resp, err := http.Get(ts.URL + "/api/agents")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var agents []AgentInfo
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&agents))
	require.NotEmpty(t, agents)

	defaults := 0
	for _, a := range agents {
		assert.NotEmpty(t, a.ID)
		assert.NotEmpty(t, a.Name)
		if a.Default {
			defaults++
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestRequestIDAssigned(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestChatSync(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "Claro, te ayudo.")

	body := strings.NewReader(`{"agent":"mentor","message":"hola"}`)
	resp, err := http.Post(ts.URL+"/api/chat", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out ChatResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "mentor", out.Agent)
	assert.Equal(t, "Claro, te ayudo.", out.Response)
}

func TestChatValidation(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"missing message", `{"agent":"mentor"}`, http.StatusBadRequest, "MISSING_MESSAGE"},
		{"bad json", `{`, http.StatusBadRequest, "INVALID_REQUEST"},
		{"unknown agent", `{"agent":"nadie","message":"hola"}`, http.StatusNotFound, "UNKNOWN_AGENT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(ts.URL+"/api/chat", "application/json", strings.NewReader(tt.body))
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.status, resp.StatusCode)

			var e ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&e))
			assert.Equal(t, tt.code, e.Error)
		})
	}
}

func TestChatStreamSSE(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "Hola, ¿qué necesitas?")

	body := strings.NewReader(`{"message":"saluda"}`)
	resp, err := http.Post(ts.URL+"/api/chat/stream", "application/json", body)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	raw := new(strings.Builder)
	_, err = io.Copy(raw, resp.Body)
	require.NoError(t, err)
	events := raw.String()

	assert.Contains(t, events, "event: chunk")
	assert.Contains(t, events, "event: done")
	assert.Contains(t, events, "Hola, ¿qué necesitas?")

	// Chunks precede done.
	assert.Less(t, strings.Index(events, "event: chunk"), strings.Index(events, "event: done"))
}

func TestChatStreamValidationError(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	resp, err := http.Post(ts.URL+"/api/chat/stream", "application/json", strings.NewReader(`{}`))
	require.NoError(t, err)
	defer resp.Body.Close()

	raw := new(strings.Builder)
	_, err = io.Copy(raw, resp.Body)
	require.NoError(t, err)
	assert.Contains(t, raw.String(), "event: error")
	assert.Contains(t, raw.String(), "MISSING_MESSAGE")
}

func TestProgressRoundTrip(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	// Empty namespace reads as an empty object.
	resp, err := http.Get(ts.URL + "/api/progress/challenges")
	require.NoError(t, err)
	var m map[string]bool
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	resp.Body.Close()
	assert.Empty(t, m)

	// PUT replaces the namespace.
	req, err := http.NewRequest(http.MethodPut, ts.URL+"/api/progress/challenges",
		strings.NewReader(`{"reto-1":true,"reto-2":false}`))
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/api/progress/challenges")
	require.NoError(t, err)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	resp.Body.Close()
	assert.Equal(t, map[string]bool{"reto-1": true, "reto-2": false}, m)
}

func TestProgressInvalidNamespace(t *testing.T) {
	t.Parallel()

	ts := newTestServer(t, "key", "hola")

	resp, err := http.Get(ts.URL + "/api/progress/MAYUS")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStreamClientDisconnectReleasesOrchestrator(t *testing.T) {
	t.Parallel()

	ts := newTestServerWith(t, "key", floodClient{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		ts.URL+"/api/chat/stream", strings.NewReader(`{"message":"hola"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	// Read the first bytes of the stream, then drop the connection
	// with most of the reply still in flight.
	buf := make([]byte, 64)
	_, err = resp.Body.Read(buf)
	require.NoError(t, err)
	cancel()
	resp.Body.Close()

	// The abandoned turn must wind down and free the orchestrator:
	// a fresh chat request eventually succeeds instead of 409.
	require.Eventually(t, func() bool {
		r, postErr := http.Post(ts.URL+"/api/chat", "application/json",
			strings.NewReader(`{"message":"otra"}`))
		if postErr != nil {
			return false
		}
		defer r.Body.Close()
		_, _ = io.Copy(io.Discard, r.Body)
		return r.StatusCode == http.StatusOK
	}, 10*time.Second, 50*time.Millisecond)
}
