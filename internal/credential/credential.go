// Package credential manages the provider API credential.
//
// The manager is a thin holder: it never validates the key against the
// provider and never persists it. Interested components (the session
// store) subscribe to change notifications and react by dropping state
// bound to the old credential.
package credential

import (
	"log/slog"
	"sync"
)

// Manager holds the current API credential and notifies subscribers
// when it is replaced or cleared.
//
// Manager is safe for concurrent use.
type Manager struct {
	mu        sync.RWMutex
	value     string
	listeners []func()

	logger *slog.Logger
}

// New creates a Manager seeded with the given credential, which may be
// empty. Seeding does not fire change notifications.
func New(seed string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{value: seed, logger: logger}
}

// Get returns the current credential and whether one is set.
func (m *Manager) Get() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.value != ""
}

// Set replaces the credential and notifies subscribers.
// Setting the same value again still notifies: the caller signalled a
// replacement and dependent session state must be rebuilt either way.
func (m *Manager) Set(value string) {
	m.mu.Lock()
	m.value = value
	listeners := make([]func(), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	m.logger.Debug("credential replaced", "set", value != "")
	for _, fn := range listeners {
		fn()
	}
}

// Clear removes the credential and notifies subscribers.
func (m *Manager) Clear() {
	m.Set("")
}

// OnChange registers fn to run whenever the credential is replaced or
// cleared. Callbacks run synchronously on the calling goroutine of Set,
// so they must not block.
func (m *Manager) OnChange(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}
