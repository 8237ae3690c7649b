package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/i18n"
	"github.com/nexus-sapiens/nexus/internal/provider"
	"github.com/nexus-sapiens/nexus/internal/session"
)

// defaultTurnTimeout caps how long one exchange may take.
const defaultTurnTimeout = 5 * time.Minute

// eventBuffer sizes the per-turn event channel so the provider stream
// is not blocked by a slow consumer.
const eventBuffer = 100

var (
	// ErrEmptyMessage reports a submission that is empty after
	// trimming whitespace.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrBusy reports a submission while a turn is in flight.
	ErrBusy = errors.New("a turn is already in flight")
)

// State is the orchestrator's turn lifecycle state.
type State int

const (
	StateIdle State = iota
	StateSending
	StateCancelling
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSending:
		return "sending"
	case StateCancelling:
		return "cancelling"
	default:
		return "unknown"
	}
}

// EventKind discriminates turn events.
type EventKind int

const (
	// EventChunk carries one streamed text delta.
	EventChunk EventKind = iota
	// EventDone carries the finalized agent message. Always the
	// last event of a turn.
	EventDone
)

// Event is one item on the per-turn event channel.
type Event struct {
	Kind    EventKind
	Chunk   string
	Message Message
}

// Speaker voices finalized agent responses. Implementations must be
// safe for concurrent use.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// Config contains required dependencies for the orchestrator.
type Config struct {
	Sessions *session.Store
	Registry *agent.Registry
	Logger   *slog.Logger

	// Speaker is optional; nil disables speech regardless of the
	// speech toggle.
	Speaker Speaker

	// Timeout bounds one turn. Zero means the default.
	Timeout time.Duration
}

func (c Config) validate() error {
	if c.Sessions == nil {
		return errors.New("session store is required")
	}
	if c.Registry == nil {
		return errors.New("agent registry is required")
	}
	if c.Logger == nil {
		return errors.New("logger is required")
	}
	return nil
}

// Orchestrator runs one conversation: it owns the transcript, the
// active agent, and the single in-flight turn. One Orchestrator per
// conversation surface (TUI session, API request scope).
type Orchestrator struct {
	sessions *session.Store
	registry *agent.Registry
	logger   *slog.Logger
	speaker  Speaker
	timeout  time.Duration

	log *Log

	mu         sync.Mutex
	state      State
	current    agent.Agent
	speechOn   bool
	cancelTurn context.CancelFunc
}

// New creates an orchestrator starting with the registry's default
// agent and a transcript seeded with its greeting.
func New(cfg Config) (*Orchestrator, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTurnTimeout
	}

	o := &Orchestrator{
		sessions: cfg.Sessions,
		registry: cfg.Registry,
		logger:   cfg.Logger,
		speaker:  cfg.Speaker,
		timeout:  timeout,
		log:      NewLog(),
		current:  cfg.Registry.DefaultAgent(),
	}
	o.log.Reset(o.current.ID, o.current.Greeting())
	return o, nil
}

// State returns the current lifecycle state.
func (o *Orchestrator) State() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Agents lists the selectable agents in registry order.
func (o *Orchestrator) Agents() []agent.Agent {
	return o.registry.List()
}

// CurrentAgent returns the active agent.
func (o *Orchestrator) CurrentAgent() agent.Agent {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.current
}

// Messages returns a copy of the transcript.
func (o *Orchestrator) Messages() []Message {
	return o.log.Messages()
}

// SetSpeech toggles voicing of finalized responses.
func (o *Orchestrator) SetSpeech(on bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.speechOn = on
}

// SpeechEnabled reports the speech toggle.
func (o *Orchestrator) SpeechEnabled() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.speechOn
}

// Submit starts one turn. It appends the user message and a pending
// agent message, then streams the response in a background goroutine.
// The returned channel delivers chunk events followed by exactly one
// EventDone, then closes.
//
// Whitespace-only input returns ErrEmptyMessage; a submission while a
// turn is in flight returns ErrBusy. Neither touches the transcript.
func (o *Orchestrator) Submit(ctx context.Context, text string) (<-chan Event, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return nil, ErrBusy
	}
	o.state = StateSending
	current := o.current
	speechOn := o.speechOn

	turnCtx, cancel := context.WithTimeout(ctx, o.timeout)
	o.cancelTurn = cancel

	// Appended under o.mu so a concurrent SwitchAgent cannot reset
	// the log between entering Sending and seeding the turn; its
	// Cancel would then orphan these two messages in the fresh log.
	o.log.AppendUser(text)
	pending := o.log.AppendPendingAgent(current.ID)
	o.mu.Unlock()

	events := make(chan Event, eventBuffer)
	go o.runTurn(turnCtx, cancel, current, speechOn, text, pending.ID, events)
	return events, nil
}

func (o *Orchestrator) runTurn(ctx context.Context, cancel context.CancelFunc, current agent.Agent, speechOn bool, text string, pendingID int64, events chan<- Event) {
	defer cancel()
	defer close(events)
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("panic during turn", "panic", r, "agent", current.ID)
			o.finish(ctx, pendingID, i18n.T("chat.error.fallback"), events)
		}
	}()

	conv, err := o.sessions.GetOrCreate(ctx, current)
	if err != nil {
		o.logger.Error("starting conversation failed", "agent", current.ID, "error", err)
		o.finish(ctx, pendingID, i18n.T("chat.error.fallback"), events)
		return
	}

	var accumulated strings.Builder
	full, err := conv.Send(ctx, text, func(_ context.Context, chunk provider.Chunk) error {
		accumulated.WriteString(chunk.Text)
		if err := o.log.SetPendingText(pendingID, accumulated.String()); err != nil {
			return err
		}
		// A consumer that stopped reading must not wedge the turn:
		// once the buffer is full, only cancellation can unblock.
		select {
		case events <- Event{Kind: EventChunk, Chunk: chunk.Text}:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	switch {
	case err == nil:
		msg := o.finish(ctx, pendingID, full, events)
		if speechOn && o.speaker != nil && msg.Text != "" {
			go o.speak(msg.Text)
		}

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		// Keep whatever streamed before the interruption.
		o.logger.Info("turn interrupted", "agent", current.ID, "reason", ctx.Err())
		o.finish(ctx, pendingID, accumulated.String(), events)

	default:
		// The raw provider error stays in the log; the
		// transcript gets a localized generic message.
		o.logger.Error("turn failed", "agent", current.ID, "error", err)
		o.finish(ctx, pendingID, i18n.T("chat.error.fallback"), events)
	}
}

// finish finalizes the pending message, emits EventDone, and returns
// the orchestrator to idle. The done event is dropped when ctx is
// already cancelled and the buffer is full; the goroutine must still
// reach StateIdle with no consumer on the other end.
func (o *Orchestrator) finish(ctx context.Context, pendingID int64, text string, events chan<- Event) Message {
	msg, err := o.log.Finalize(pendingID, text)
	if err != nil {
		// The transcript was reset mid-turn (agent switch). The
		// pending message is gone; nothing to show.
		o.logger.Debug("finalize skipped", "id", pendingID, "error", err)
	} else {
		// Buffered send first: a cancelled turn with a live
		// consumer must still deliver the done event carrying the
		// partial text. Only a full buffer falls through to the
		// cancellation guard.
		select {
		case events <- Event{Kind: EventDone, Message: msg}:
		default:
			select {
			case events <- Event{Kind: EventDone, Message: msg}:
			case <-ctx.Done():
				o.logger.Debug("done event dropped", "id", pendingID, "reason", ctx.Err())
			}
		}
	}

	o.mu.Lock()
	o.state = StateIdle
	o.cancelTurn = nil
	o.mu.Unlock()
	return msg
}

func (o *Orchestrator) speak(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := o.speaker.Speak(ctx, text); err != nil {
		o.logger.Warn("speech failed", "error", err)
	}
}

// Cancel interrupts the in-flight turn, if any. Text streamed so far
// stays in the transcript.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != StateSending || o.cancelTurn == nil {
		return
	}
	o.state = StateCancelling
	o.cancelTurn()
}

// SwitchAgent cancels any in-flight turn, makes the named agent
// active, and resets the transcript to its greeting. The provider
// session of the previous agent stays cached for when the user
// switches back.
func (o *Orchestrator) SwitchAgent(id string) (agent.Agent, error) {
	next, err := o.registry.Get(id)
	if err != nil {
		return agent.Agent{}, err
	}

	o.Cancel()

	o.mu.Lock()
	o.current = next
	o.mu.Unlock()

	o.log.Reset(next.ID, next.Greeting())
	return next, nil
}

// NewConversation cancels any in-flight turn, drops the active
// agent's provider session, and resets the transcript.
func (o *Orchestrator) NewConversation() {
	o.Cancel()

	o.mu.Lock()
	current := o.current
	o.mu.Unlock()

	o.sessions.Invalidate(current.ID)
	o.log.Reset(current.ID, current.Greeting())
}
