// Package session caches provider conversation handles per agent so
// repeated turns with the same agent reuse provider-side context.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nexus-sapiens/nexus/internal/agent"
	"github.com/nexus-sapiens/nexus/internal/credential"
	"github.com/nexus-sapiens/nexus/internal/provider"
)

// Store holds at most one live Conversation per agent ID. A credential
// change drops every cached handle, since the provider client they
// were created through is bound to the old key.
type Store struct {
	client provider.Client
	logger *slog.Logger

	mu       sync.Mutex
	sessions map[string]provider.Conversation
}

// New creates a Store and subscribes it to credential changes.
func New(client provider.Client, creds *credential.Manager, logger *slog.Logger) (*Store, error) {
	if client == nil {
		return nil, errors.New("provider client is required")
	}
	if creds == nil {
		return nil, errors.New("credential manager is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	s := &Store{
		client:   client,
		logger:   logger,
		sessions: make(map[string]provider.Conversation),
	}
	creds.OnChange(s.InvalidateAll)
	return s, nil
}

// GetOrCreate returns the cached conversation for the agent, starting
// a new one on first use (or after invalidation). Returns
// provider.ErrCredentialMissing when no API key is configured.
func (s *Store) GetOrCreate(ctx context.Context, a agent.Agent) (provider.Conversation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if conv, ok := s.sessions[a.ID]; ok {
		return conv, nil
	}

	conv, err := s.client.StartConversation(ctx, provider.ConversationParams{
		SystemPrompt: a.SystemPrompt,
	})
	if err != nil {
		return nil, err
	}

	s.sessions[a.ID] = conv
	s.logger.Debug("conversation started", "agent", a.ID)
	return conv, nil
}

// Invalidate drops the cached conversation for one agent. No-op when
// none exists.
func (s *Store) Invalidate(agentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[agentID]; ok {
		delete(s.sessions, agentID)
		s.logger.Debug("conversation invalidated", "agent", agentID)
	}
}

// InvalidateAll drops every cached conversation. Idempotent.
func (s *Store) InvalidateAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) == 0 {
		return
	}
	n := len(s.sessions)
	s.sessions = make(map[string]provider.Conversation)
	s.logger.Debug("all conversations invalidated", "count", n)
}

// Len reports how many conversations are cached.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
