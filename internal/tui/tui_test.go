package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/chat"
	"github.com/nexus-sapiens/nexus/internal/credential"
	"github.com/nexus-sapiens/nexus/internal/log"
	"github.com/nexus-sapiens/nexus/internal/provider"
	"github.com/nexus-sapiens/nexus/internal/session"
)

type staticConversation struct {
	reply string
}

func (c *staticConversation) Send(ctx context.Context, _ string, onChunk provider.ChunkFunc) (string, error) {
	if onChunk != nil {
		if err := onChunk(ctx, provider.Chunk{Text: c.reply}); err != nil {
			return "", err
		}
	}
	return c.reply, nil
}

type staticClient struct {
	reply string
}

func (c *staticClient) StartConversation(_ context.Context, _ provider.ConversationParams) (provider.Conversation, error) {
	return &staticConversation{reply: c.reply}, nil
}

func newModel(t *testing.T, reply string) *Model {
	t.Helper()

	store, err := session.New(&staticClient{reply: reply}, credential.New("key", log.NewNop()), log.NewNop())
	require.NoError(t, err)

	orch, err := chat.New(chat.Config{
		Sessions: store,
		Registry: agent.Default(),
		Logger:   log.NewNop(),
		Timeout:  5 * time.Second,
	})
	require.NoError(t, err)

	m, err := New(context.Background(), orch)
	require.NoError(t, err)
	t.Cleanup(func() { m.cleanup() })
	return m
}

func TestNewRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), nil)
	require.Error(t, err)

	_, err = New(nil, nil) //nolint:staticcheck // nil ctx is the case under test
	require.Error(t, err)
}

func TestInitialViewShowsGreeting(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	content := m.viewport.View()
	assert.Contains(t, content, m.orch.CurrentAgent().Greeting())
}

// runTurn drives a full submit → done cycle through Update, the way
// the Bubble Tea runtime would. The batch from handleSubmit is opaque,
// so the turn is started directly.
func runTurn(t *testing.T, m *Model, query string) {
	t.Helper()

	m.input.SetValue(query)
	_, _ = m.handleSubmit() // records history, moves to StateThinking

	deadline := time.Now().Add(5 * time.Second)
	msg := m.startTurn(query)()
	for {
		require.True(t, time.Now().Before(deadline), "turn did not complete")

		_, next := m.Update(msg)
		if _, closed := msg.(turnClosedMsg); closed {
			return
		}
		require.NotNil(t, next, "update stopped before the turn closed")
		msg = next()
	}
}

func TestSubmitRendersResponse(t *testing.T) {
	t.Parallel()

	m := newModel(t, "Claro, empecemos.")
	runTurn(t, m, "ayúdame a estudiar")

	assert.Equal(t, StateInput, m.state)
	content := m.viewport.View()
	assert.Contains(t, content, "ayúdame a estudiar")
	assert.Contains(t, content, "Claro, empecemos.")
}

func TestSlashAgentSwitches(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	_, _ = m.handleSlashCommand("/agente forge")

	assert.Equal(t, "forge", m.orch.CurrentAgent().ID)
	assert.Contains(t, m.viewport.View(), "Forge")
}

func TestSlashAgentUnknownShowsNotice(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	before := m.orch.CurrentAgent().ID
	_, _ = m.handleSlashCommand("/agente nadie")

	assert.Equal(t, before, m.orch.CurrentAgent().ID)
	assert.NotEmpty(t, m.notices)
}

func TestSlashVoiceToggles(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	assert.False(t, m.orch.SpeechEnabled())

	_, _ = m.handleSlashCommand("/voz")
	assert.True(t, m.orch.SpeechEnabled())

	_, _ = m.handleSlashCommand("/voz")
	assert.False(t, m.orch.SpeechEnabled())
}

func TestSlashHelpListsCommands(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	_, _ = m.handleSlashCommand("/ayuda")
	require.NotEmpty(t, m.notices)
	assert.Contains(t, m.notices[0], "/agentes")
}

func TestNavigateHistory(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	m.history = []string{"uno", "dos"}
	m.historyIdx = len(m.history)

	_, _ = m.navigateHistory(-1)
	assert.Equal(t, "dos", m.input.Value())

	_, _ = m.navigateHistory(-1)
	assert.Equal(t, "uno", m.input.Value())

	// Below the first entry stays at the first.
	_, _ = m.navigateHistory(-1)
	assert.Equal(t, "uno", m.input.Value())

	_, _ = m.navigateHistory(1)
	_, _ = m.navigateHistory(1)
	assert.Empty(t, m.input.Value())
}

func TestMarkdownRendererDegradesGracefully(t *testing.T) {
	t.Parallel()

	var nilRenderer *markdownRenderer
	assert.Equal(t, "**texto**", nilRenderer.Render("**texto**"))

	r := newMarkdownRenderer(80)
	if r == nil {
		t.Skip("glamour unavailable in this environment")
	}
	out := r.Render("# Título")
	assert.Contains(t, strings.ToLower(out), "título")
}

func TestWindowResizeRebuildsViewport(t *testing.T) {
	t.Parallel()

	m := newModel(t, "hola")
	_, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)
	assert.Equal(t, 40, m.height)
}
