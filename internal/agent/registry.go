// Package agent defines the persona registry.
//
// Agents are immutable after registry construction: they are loaded
// from static configuration at startup, never mutated and never
// removed. Runtime conversation state lives elsewhere (internal/session
// holds the provider handles, internal/chat holds the message log).
package agent

import (
	"errors"
	"fmt"

	"github.com/nexus-sapiens/nexus/internal/i18n"
)

// ErrNotFound indicates the requested agent id is not registered.
var ErrNotFound = errors.New("agent not found")

// Accent is the enumerated color tag used by presentation layers.
type Accent string

// Accent tags. Presentation layers map these to concrete styles.
const (
	AccentCyan   Accent = "cyan"
	AccentViolet Accent = "violet"
	AccentAmber  Accent = "amber"
	AccentGreen  Accent = "green"
	AccentRose   Accent = "rose"
)

// Agent is a configured chat persona.
type Agent struct {
	// ID is unique and stable; it keys session handles and progress.
	ID string

	// Name is the display name.
	Name string

	// Description is a one-line summary shown in listings.
	Description string

	// SystemPrompt is the instruction text sent to the provider when a
	// conversation is created for this agent.
	SystemPrompt string

	// Accent is the persona's visual accent tag.
	Accent Accent

	// greetingKey is the i18n key for the seed message.
	greetingKey string
}

// Greeting returns the localized greeting used to seed a fresh message
// log for this agent.
func (a Agent) Greeting() string {
	return i18n.T(a.greetingKey)
}

// Registry is an ordered, immutable collection of agents.
type Registry struct {
	order []Agent
	byID  map[string]Agent
	defID string
}

// NewRegistry builds a registry from the given agents, preserving
// order. The first agent is the default. Duplicate ids are rejected.
func NewRegistry(agents []Agent) (*Registry, error) {
	if len(agents) == 0 {
		return nil, errors.New("registry requires at least one agent")
	}

	byID := make(map[string]Agent, len(agents))
	for _, a := range agents {
		if a.ID == "" {
			return nil, errors.New("agent id cannot be empty")
		}
		if _, dup := byID[a.ID]; dup {
			return nil, fmt.Errorf("duplicate agent id %q", a.ID)
		}
		byID[a.ID] = a
	}

	return &Registry{
		order: agents,
		byID:  byID,
		defID: agents[0].ID,
	}, nil
}

// Default returns the default registry with the built-in personas.
func Default() *Registry {
	r, err := NewRegistry(builtinAgents())
	if err != nil {
		// builtinAgents is static; failing here is a programming error.
		panic(fmt.Sprintf("BUG: invalid builtin agents: %v", err))
	}
	return r
}

// List returns the agents in registration order. The returned slice is
// a copy; mutating it does not affect the registry.
func (r *Registry) List() []Agent {
	out := make([]Agent, len(r.order))
	copy(out, r.order)
	return out
}

// Get returns the agent with the given id.
func (r *Registry) Get(id string) (Agent, error) {
	a, ok := r.byID[id]
	if !ok {
		return Agent{}, fmt.Errorf("%w: %q", ErrNotFound, id)
	}
	return a, nil
}

// DefaultAgent returns the registry's default agent.
func (r *Registry) DefaultAgent() Agent {
	return r.byID[r.defID]
}

// builtinAgents returns the static persona definitions.
func builtinAgents() []Agent {
	return []Agent{
		{
			ID:          "stratego",
			Name:        "Stratego",
			Description: "Planning mentor: breaks goals into concrete next steps",
			SystemPrompt: "Eres Stratego, un mentor de planificación. Ayudas a convertir " +
				"objetivos vagos en planes concretos con pasos pequeños y medibles. " +
				"Respondes con claridad y sin rodeos.",
			Accent:      AccentCyan,
			greetingKey: "agent.stratego.greeting",
		},
		{
			ID:          "mentor",
			Name:        "Mentora",
			Description: "Study guide: explains concepts and tracks understanding",
			SystemPrompt: "Eres una mentora de estudio paciente. Explicas conceptos con " +
				"ejemplos sencillos, compruebas la comprensión con preguntas cortas y " +
				"adaptas el nivel al estudiante.",
			Accent:      AccentViolet,
			greetingKey: "agent.mentor.greeting",
		},
		{
			ID:          "forge",
			Name:        "Forge",
			Description: "Technical coach: debugging and engineering practice",
			SystemPrompt: "Eres Forge, un coach técnico. Ante un problema de ingeniería " +
				"pides el contexto mínimo necesario, propones hipótesis y guías la " +
				"depuración paso a paso.",
			Accent:      AccentAmber,
			greetingKey: "agent.forge.greeting",
		},
		{
			ID:          "sabio",
			Name:        "Sabio",
			Description: "Socratic tutor: answers with questions that teach",
			SystemPrompt: "Eres Sabio, un tutor socrático. Prefieres guiar con preguntas " +
				"antes que dar la respuesta directa, salvo que el estudiante la pida " +
				"explícitamente.",
			Accent:      AccentGreen,
			greetingKey: "agent.sabio.greeting",
		},
		{
			ID:          "chispa",
			Name:        "Chispa",
			Description: "Creative companion: brainstorming and lateral thinking",
			SystemPrompt: "Eres Chispa, una compañera creativa. Generas ideas " +
				"inesperadas, combinas conceptos lejanos y animas a explorar sin miedo " +
				"al error.",
			Accent:      AccentRose,
			greetingKey: "agent.chispa.greeting",
		},
	}
}
