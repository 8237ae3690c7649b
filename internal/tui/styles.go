package tui

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/nexus-sapiens/nexus/internal/agent"
)

// Nexus violet for branding.
const nexusViolet = "#7C4DFF"

// NEXUS ASCII art banner.
var nexusArt = []string{
	" ███╗   ██╗███████╗██╗  ██╗██╗   ██╗███████╗",
	" ████╗  ██║██╔════╝╚██╗██╔╝██║   ██║██╔════╝",
	" ██╔██╗ ██║█████╗   ╚███╔╝ ██║   ██║███████╗",
	" ██║╚██╗██║██╔══╝   ██╔██╗ ██║   ██║╚════██║",
	" ██║ ╚████║███████╗██╔╝ ██╗╚██████╔╝███████║",
	" ╚═╝  ╚═══╝╚══════╝╚═╝  ╚═╝ ╚═════╝ ╚══════╝",
}

// Styles contains all lipgloss styles for the TUI.
type Styles struct {
	Banner    lipgloss.Style
	User      lipgloss.Style
	System    lipgloss.Style
	Error     lipgloss.Style
	Prompt    lipgloss.Style
	Separator lipgloss.Style
	StatusBar lipgloss.Style

	// Agents maps each persona accent to its label style.
	Agents map[agent.Accent]lipgloss.Style
}

// DefaultStyles returns the default style configuration.
func DefaultStyles() Styles {
	return Styles{
		Banner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(nexusViolet)),
		User:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		System:    lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("240")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		Prompt:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86")),
		Separator: lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		StatusBar: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Agents: map[agent.Accent]lipgloss.Style{
			agent.AccentCyan:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
			agent.AccentViolet: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("135")),
			agent.AccentAmber:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
			agent.AccentGreen:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			agent.AccentRose:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		},
	}
}

// AgentLabel returns the styled "Name> " prefix for an agent.
func (s Styles) AgentLabel(a agent.Agent) string {
	style, ok := s.Agents[a.Accent]
	if !ok {
		style = s.User
	}
	return style.Render(a.Name + "> ")
}

// RenderBanner returns the NEXUS ASCII art banner as a styled string.
func (s Styles) RenderBanner() string {
	var b strings.Builder
	for _, line := range nexusArt {
		_, _ = b.WriteString(s.Banner.Render(line))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}

// welcomeTips contains getting started tips displayed under the banner.
var welcomeTips = []string{
	"Para empezar:",
	"  • Escribe tu mensaje y pulsa Enter",
	"  • /agentes muestra los mentores disponibles",
	"  • /agente <id> cambia de mentor",
	"  • /voz activa la lectura en voz alta",
	"  • Ctrl+C cancela, Ctrl+D sale",
}

// RenderWelcomeTips returns the styled welcome tips.
func (s Styles) RenderWelcomeTips() string {
	var b strings.Builder
	for _, tip := range welcomeTips {
		_, _ = b.WriteString(s.System.Render(tip))
		_, _ = b.WriteString("\n")
	}
	return b.String()
}
