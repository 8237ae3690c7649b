package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/chat"
	"github.com/nexus-sapiens/nexus/internal/i18n"
)

// View implements tea.Model.
// Uses AltScreen with viewport for scrollable message history.
func (m *Model) View() tea.View {
	m.viewBuf.Reset()

	// Viewport (scrollable message area)
	_, _ = m.viewBuf.WriteString(m.viewport.View())
	_, _ = m.viewBuf.WriteString("\n")

	// Separator line above input
	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	// Input prompt - always shown; users can type while the agent
	// is thinking/streaming.
	_, _ = m.viewBuf.WriteString(m.styles.Prompt.Render("> "))
	_, _ = m.viewBuf.WriteString(m.input.View())
	_, _ = m.viewBuf.WriteString("\n")

	// Separator line below input
	_, _ = m.viewBuf.WriteString(m.renderSeparator())
	_, _ = m.viewBuf.WriteString("\n")

	// Help bar (keyboard shortcuts)
	_, _ = m.viewBuf.WriteString(m.renderStatusBar())

	v := tea.NewView(m.viewBuf.String())
	v.AltScreen = true
	return v
}

// rebuildViewportContent reconstructs the viewport content from the
// orchestrator's transcript and local state. Called when messages,
// streaming output, or state changes.
func (m *Model) rebuildViewportContent() {
	var b strings.Builder

	_, _ = b.WriteString(m.styles.RenderBanner())
	_, _ = b.WriteString("\n")
	_, _ = b.WriteString(m.styles.RenderWelcomeTips())
	_, _ = b.WriteString("\n")

	agents := map[string]agent.Agent{}
	for _, a := range m.orch.Agents() {
		agents[a.ID] = a
	}

	for _, msg := range m.orch.Messages() {
		switch msg.Role {
		case chat.RoleUser:
			_, _ = b.WriteString(m.styles.User.Render("Tú> "))
			_, _ = b.WriteString(msg.Text)
		case chat.RoleAgent:
			_, _ = b.WriteString(m.styles.AgentLabel(agents[msg.AgentID]))
			if msg.Pending {
				// Raw partial text; markdown waits for the
				// finalized message.
				_, _ = b.WriteString(msg.Text)
			} else {
				_, _ = b.WriteString(m.markdown.Render(msg.Text))
			}
		}
		_, _ = b.WriteString("\n\n")
	}

	for _, notice := range m.notices {
		_, _ = b.WriteString(m.styles.System.Render(notice))
		_, _ = b.WriteString("\n\n")
	}

	// Thinking indicator (no chunk yet)
	if m.state == StateThinking {
		_, _ = b.WriteString(m.spin.View())
		_, _ = b.WriteString(" ")
		_, _ = b.WriteString(m.styles.System.Render(i18n.T("chat.thinking")))
		_, _ = b.WriteString("\n\n")
	}

	m.viewport.SetContent(b.String())
}

// renderSeparator returns a horizontal line separator.
func (m *Model) renderSeparator() string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Separator.Render(strings.Repeat("─", width))
}

// renderStatusBar returns state-appropriate keyboard shortcut help,
// prefixed with the active agent.
func (m *Model) renderStatusBar() string {
	var bindings []key.Binding
	switch m.state {
	case StateInput:
		bindings = []key.Binding{
			m.keys.Submit, m.keys.NewLine, m.keys.History,
			m.keys.Cancel, m.keys.Quit, m.keys.ScrollUp,
		}
	case StateThinking, StateStreaming:
		bindings = []key.Binding{
			m.keys.EscCancel, m.keys.Cancel,
			m.keys.ScrollUp, m.keys.ScrollDown,
		}
	}

	label := m.styles.StatusBar.Render("[" + m.orch.CurrentAgent().Name + "] ")
	return label + m.help.ShortHelpView(bindings)
}
