package tui

import (
	"errors"

	"charm.land/bubbles/v2/spinner"
	tea "charm.land/bubbletea/v2"

	"github.com/nexus-sapiens/nexus/internal/chat"
	"github.com/nexus-sapiens/nexus/internal/i18n"
)

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo // Bubble Tea Update requires type switch on all message types
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		// Viewport height: total - input - separators - help
		inputHeight := m.input.Height() + promptLines
		fixedHeight := separatorLines + inputHeight + helpLines
		vpHeight := max(msg.Height-fixedHeight, minViewport)

		m.viewport.SetWidth(msg.Width)
		m.viewport.SetHeight(vpHeight)
		m.input.SetWidth(msg.Width - 4) // Room for "> " prompt
		m.help.SetWidth(msg.Width)
		m.markdown.UpdateWidth(msg.Width)

		m.rebuildViewportContent()
		return m, nil

	case tea.MouseWheelMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		if m.state == StateThinking {
			m.rebuildViewportContent()
		}
		return m, cmd

	case turnStartedMsg:
		m.turnEvents = msg.events
		m.state = StateThinking
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForTurn(msg.events)

	case submitRejectedMsg:
		switch {
		case errors.Is(msg.err, chat.ErrEmptyMessage):
			// Nothing to do; input stays as typed.
		case errors.Is(msg.err, chat.ErrBusy):
			// Should not happen (submits are gated on state), but
			// surface it rather than swallowing.
			m.systemNotice(i18n.T("chat.error.busy"))
		default:
			m.systemNotice(msg.err.Error())
		}
		m.state = StateInput
		return m, m.input.Focus()

	case turnChunkMsg:
		// The transcript already holds the accumulated text; the
		// chunk only tells us to re-render.
		m.state = StateStreaming
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForTurn(m.turnEvents)

	case turnDoneMsg:
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, listenForTurn(m.turnEvents)

	case turnClosedMsg:
		m.state = StateInput
		m.turnEvents = nil
		m.rebuildViewportContent()
		m.viewport.GotoBottom()
		return m, m.input.Focus()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// systemNotice appends a transient system line to the viewport. The
// orchestrator's transcript stays untouched.
func (m *Model) systemNotice(text string) {
	m.notices = append(m.notices, text)
	m.rebuildViewportContent()
	m.viewport.GotoBottom()
}
