package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// DefaultID identifies the session used by clients that predate per-session
// identifiers.
const DefaultID = "default"

// ErrNotFound is returned when a requested session does not exist.
var ErrNotFound = errors.New("session not found")

// Manager owns all live sessions. Sessions exist only in memory; they are
// not persisted across process restarts.
type Manager struct {
	onCommit CommitFunc

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a Manager holding a single default session. onCommit,
// which may be nil, is attached to every session the manager creates.
func NewManager(onCommit CommitFunc) *Manager {
	m := &Manager{
		onCommit: onCommit,
		sessions: make(map[string]*Session),
	}
	m.sessions[DefaultID] = New(DefaultID, onCommit)
	return m
}

// Create registers a new session with a generated identifier.
func (m *Manager) Create() *Session {
	s := New(uuid.New().String(), m.onCommit)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s

	return s
}

// Get returns the session with the given identifier. The empty identifier
// resolves to the default session.
func (m *Manager) Get(id string) (*Session, error) {
	if id == "" {
		id = DefaultID
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Default returns the default session.
func (m *Manager) Default() *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[DefaultID]
}

// Remove drops a session. The default session cannot be removed.
func (m *Manager) Remove(id string) error {
	if id == DefaultID {
		return errors.New("cannot remove the default session")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
