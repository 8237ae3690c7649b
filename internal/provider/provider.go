// Package provider defines the generative-text provider contract and
// its Gemini implementation.
//
// The contract treats streaming and non-streaming transports uniformly:
// a non-streaming reply is delivered as a single chunk equal to the
// full text. Provider errors are opaque to callers; nothing above this
// package parses error contents beyond logging.
package provider

import (
	"context"
	"errors"
)

// ErrCredentialMissing indicates no API credential is available.
// Returned before any network I/O is attempted.
var ErrCredentialMissing = errors.New("credential missing")

// Role identifies the author of a prior conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior exchange used to seed a conversation.
type Turn struct {
	Role Role
	Text string
}

// Chunk is an incremental piece of a streamed reply.
type Chunk struct {
	Text string
}

// ChunkFunc receives streamed chunks in arrival order. Returning an
// error aborts the stream.
type ChunkFunc func(ctx context.Context, chunk Chunk) error

// ConversationParams configures a new provider-side conversation.
type ConversationParams struct {
	// SystemPrompt is the persona instruction text.
	SystemPrompt string

	// History seeds the conversation with prior turns. Usually empty:
	// the handle itself accumulates context across Send calls.
	History []Turn
}

// Conversation is an opaque handle to provider-side conversation
// context. It is reused across turns so history is not re-sent on
// every call.
type Conversation interface {
	// Send submits text and returns the full reply. If onChunk is
	// non-nil the reply is streamed through it before returning; if
	// nil, a single request/response round trip is used.
	Send(ctx context.Context, text string, onChunk ChunkFunc) (string, error)
}

// Client creates conversations.
type Client interface {
	StartConversation(ctx context.Context, p ConversationParams) (Conversation, error)
}
