package tui

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/nexus-sapiens/nexus/internal/i18n"
)

// Slash command constants (Spanish-first, English aliases kept).
const (
	cmdHelp   = "/ayuda"
	cmdHelpEn = "/help"
	cmdAgents = "/agentes"
	cmdAgent  = "/agente" // /agente <id>
	cmdNew    = "/nueva"
	cmdVoice  = "/voz"
	cmdClear  = "/limpiar"
	cmdExit   = "/salir"
	cmdExitEn = "/exit"
	cmdQuitEn = "/quit"
)

// keyMap holds key bindings for help bar display.
type keyMap struct {
	Submit     key.Binding
	NewLine    key.Binding
	History    key.Binding
	Cancel     key.Binding
	Quit       key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	EscCancel  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "enviar")),
		NewLine:    key.NewBinding(key.WithKeys("shift+enter"), key.WithHelp("s+enter", "nueva línea")),
		History:    key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "historial")),
		Cancel:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "cancelar")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "salir")),
		ScrollUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "subir")),
		ScrollDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "bajar")),
		EscCancel:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancelar")),
	}
}

//nolint:gocyclo // Keyboard handler requires branching for all key combinations
func (m *Model) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	k := msg.Key()

	if k.Mod&tea.ModCtrl != 0 {
		switch k.Code {
		case 'c':
			return m.handleCtrlC()
		case 'd':
			return m, m.cleanup()
		}
	}

	switch k.Code {
	case tea.KeyEnter:
		if m.state == StateInput {
			// Enter without Shift = submit
			// Shift+Enter = newline (pass through to textarea)
			if k.Mod&tea.ModShift == 0 {
				return m.handleSubmit()
			}
		}

	case tea.KeyUp:
		// Up at first line navigates history, otherwise pass to textarea
		if m.state == StateInput && m.input.Line() == 0 {
			return m.navigateHistory(-1)
		}

	case tea.KeyDown:
		// Down at last line navigates history, otherwise pass to textarea
		if m.state == StateInput && m.input.Line() == m.input.LineCount()-1 {
			return m.navigateHistory(1)
		}

	case tea.KeyEscape:
		if m.state == StateStreaming || m.state == StateThinking {
			// The orchestrator finalizes the partial text; the
			// event channel closing brings us back to StateInput.
			m.orch.Cancel()
			return m, nil
		}

	case tea.KeyPgUp:
		m.viewport.PageUp()
		return m, nil

	case tea.KeyPgDown:
		m.viewport.PageDown()
		return m, nil
	}

	// Pass keys to textarea for typing - ALWAYS allow typing even during
	// streaming so users can prepare the next message.
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleCtrlC() (tea.Model, tea.Cmd) {
	now := time.Now()

	// Double Ctrl+C within 1 second = quit
	if now.Sub(m.lastCtrlC) < time.Second {
		return m, m.cleanup()
	}
	m.lastCtrlC = now

	switch m.state {
	case StateInput:
		m.input.Reset()
		return m, nil

	case StateThinking, StateStreaming:
		m.orch.Cancel()
		m.systemNotice(i18n.T("chat.cancelled"))
		return m, nil
	}

	return m, nil
}

func (m *Model) handleSubmit() (tea.Model, tea.Cmd) {
	query := strings.TrimSpace(m.input.Value())
	if query == "" {
		return m, nil
	}

	if strings.HasPrefix(query, "/") {
		return m.handleSlashCommand(query)
	}

	// Add to history (enforce maxHistory cap)
	m.history = append(m.history, query)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}
	m.historyIdx = len(m.history)

	m.input.Reset()
	m.state = StateThinking
	m.rebuildViewportContent()

	return m, tea.Batch(
		m.spin.Tick,
		m.startTurn(query),
	)
}

//nolint:gocyclo // One case per slash command
func (m *Model) handleSlashCommand(raw string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(raw)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case cmdHelp, cmdHelpEn:
		m.systemNotice(helpText())

	case cmdAgents:
		var b strings.Builder
		b.WriteString("Agentes disponibles:\n")
		for _, a := range m.orch.Agents() {
			marker := "  "
			if a.ID == m.orch.CurrentAgent().ID {
				marker = "▸ "
			}
			fmt.Fprintf(&b, "%s%s — %s\n", marker, a.ID, a.Description)
		}
		m.systemNotice(strings.TrimRight(b.String(), "\n"))

	case cmdAgent:
		if len(args) != 1 {
			m.systemNotice("Uso: /agente <id>")
			break
		}
		next, err := m.orch.SwitchAgent(args[0])
		if err != nil {
			m.systemNotice(i18n.Sprintf("error.agent", args[0]))
			break
		}
		m.notices = nil
		m.systemNotice("Ahora hablas con " + next.Name)

	case cmdNew:
		m.orch.NewConversation()
		m.notices = nil
		m.rebuildViewportContent()

	case cmdVoice:
		on := !m.orch.SpeechEnabled()
		m.orch.SetSpeech(on)
		if on {
			m.systemNotice(i18n.T("speech.enabled"))
		} else {
			m.systemNotice(i18n.T("speech.disabled"))
		}

	case cmdClear:
		m.notices = nil
		m.rebuildViewportContent()

	case cmdExit, cmdExitEn, cmdQuitEn:
		return m, m.cleanup()

	default:
		m.systemNotice("Comando desconocido: " + cmd)
	}

	m.input.Reset()
	return m, nil
}

func helpText() string {
	return strings.Join([]string{
		"Comandos: /ayuda, /agentes, /agente <id>, /nueva, /voz, /limpiar, /salir",
		"Atajos:",
		"  Enter: enviar mensaje",
		"  Shift+Enter: nueva línea",
		"  Esc / Ctrl+C: cancelar respuesta",
		"  Ctrl+D: salir",
		"  ↑/↓: historial   PgUp/PgDn: desplazar",
	}, "\n")
}

func (m *Model) navigateHistory(delta int) (tea.Model, tea.Cmd) {
	if len(m.history) == 0 {
		return m, nil
	}

	m.historyIdx += delta

	if m.historyIdx < 0 {
		m.historyIdx = 0
	}
	if m.historyIdx > len(m.history) {
		m.historyIdx = len(m.history)
	}

	if m.historyIdx == len(m.history) {
		m.input.SetValue("")
	} else {
		m.input.SetValue(m.history[m.historyIdx])
		m.input.CursorEnd()
	}

	return m, nil
}

// cleanup cancels any active turn and returns the quit command.
func (m *Model) cleanup() tea.Cmd {
	if m.ctxCancel != nil {
		m.ctxCancel()
		m.ctxCancel = nil
	}
	m.orch.Cancel()
	m.turnEvents = nil
	return tea.Quit
}
