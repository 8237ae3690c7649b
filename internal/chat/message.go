// Package chat implements the conversation transcript and the turn
// orchestrator that drives streaming exchanges with an agent.
package chat

import (
	"errors"
	"sync"
	"time"
)

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

var (
	// ErrMessageNotFound reports an ID absent from the transcript.
	ErrMessageNotFound = errors.New("message not found")
	// ErrAlreadyFinalized reports a second finalize (or a text
	// update) on a message that is no longer pending.
	ErrAlreadyFinalized = errors.New("message already finalized")
)

// Message is one entry in the conversation transcript. Agent messages
// are appended pending, updated as chunks arrive, then finalized
// exactly once.
type Message struct {
	ID        int64     `json:"id"`
	Role      Role      `json:"role"`
	AgentID   string    `json:"agent_id,omitempty"`
	Text      string    `json:"text"`
	Pending   bool      `json:"pending,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Log is the in-memory transcript for one conversation. IDs are
// monotonic for the lifetime of the Log, including across Reset, so a
// stale ID from before a reset can never address a new message.
type Log struct {
	mu       sync.Mutex
	nextID   int64
	messages []Message
}

// NewLog returns an empty transcript.
func NewLog() *Log {
	return &Log{}
}

func (l *Log) append(role Role, agentID, text string, pending bool) Message {
	l.nextID++
	msg := Message{
		ID:        l.nextID,
		Role:      role,
		AgentID:   agentID,
		Text:      text,
		Pending:   pending,
		CreatedAt: time.Now(),
	}
	l.messages = append(l.messages, msg)
	return msg
}

// Reset clears the transcript and seeds it with the agent's greeting.
// Message IDs keep counting from where they were.
func (l *Log) Reset(agentID, greeting string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.messages = l.messages[:0]
	return l.append(RoleAgent, agentID, greeting, false)
}

// AppendUser adds a finalized user message.
func (l *Log) AppendUser(text string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.append(RoleUser, "", text, false)
}

// AppendPendingAgent adds an empty agent message awaiting chunks.
func (l *Log) AppendPendingAgent(agentID string) Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.append(RoleAgent, agentID, "", true)
}

func (l *Log) locate(id int64) (int, error) {
	for i := range l.messages {
		if l.messages[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrMessageNotFound
}

// SetPendingText replaces the text of a pending agent message.
func (l *Log) SetPendingText(id int64, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := l.locate(id)
	if err != nil {
		return err
	}
	if !l.messages[i].Pending {
		return ErrAlreadyFinalized
	}
	l.messages[i].Text = text
	return nil
}

// Finalize sets the message's final text and clears its pending flag.
// A message can be finalized exactly once.
func (l *Log) Finalize(id int64, text string) (Message, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i, err := l.locate(id)
	if err != nil {
		return Message{}, err
	}
	if !l.messages[i].Pending {
		return Message{}, ErrAlreadyFinalized
	}
	l.messages[i].Text = text
	l.messages[i].Pending = false
	return l.messages[i], nil
}

// Messages returns a copy of the transcript.
func (l *Log) Messages() []Message {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// Len reports the number of transcript messages.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// History converts finalized messages into provider turns, skipping
// the pending message if any. Used to rebuild provider context after
// a session was invalidated mid-conversation.
func (l *Log) History() []Turn {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Turn, 0, len(l.messages))
	for _, m := range l.messages {
		if m.Pending {
			continue
		}
		out = append(out, Turn{Role: m.Role, Text: m.Text})
	}
	return out
}

// Turn is a finalized transcript entry in provider-neutral form.
type Turn struct {
	Role Role
	Text string
}
