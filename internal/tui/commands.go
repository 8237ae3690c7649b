package tui

import (
	tea "charm.land/bubbletea/v2"

	"github.com/nexus-sapiens/nexus/internal/chat"
)

// Turn message types for Bubble Tea.
type turnStartedMsg struct {
	events <-chan chat.Event
}

type turnChunkMsg struct {
	text string
}

type turnDoneMsg struct {
	message chat.Message
}

// turnClosedMsg signals the event channel closed. The transcript is
// already final at this point (cancelled turns keep their partial
// text without an EventDone).
type turnClosedMsg struct{}

type submitRejectedMsg struct {
	err error
}

// startTurn submits the query to the orchestrator. The orchestrator
// owns the goroutine, the timeout, and error fallback; the TUI only
// receives events.
func (m *Model) startTurn(query string) tea.Cmd {
	return func() tea.Msg {
		events, err := m.orch.Submit(m.ctx, query)
		if err != nil {
			return submitRejectedMsg{err: err}
		}
		return turnStartedMsg{events: events}
	}
}

// listenForTurn waits for the next turn event.
func listenForTurn(events <-chan chat.Event) tea.Cmd {
	return func() tea.Msg {
		if events == nil {
			return nil
		}

		ev, ok := <-events
		if !ok {
			return turnClosedMsg{}
		}
		switch ev.Kind {
		case chat.EventChunk:
			return turnChunkMsg{text: ev.Chunk}
		case chat.EventDone:
			return turnDoneMsg{message: ev.Message}
		default:
			return turnClosedMsg{}
		}
	}
}
