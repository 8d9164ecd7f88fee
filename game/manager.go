package game

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/lazharichir/carta/events"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the sessions being played
type Manager struct {
	eventStore events.EventStore
	sessions   map[string]*Session
	order      []string
	opts       []SessionOption
	mutex      sync.RWMutex
}

// NewManager creates a manager recording every session into eventStore. opts
// are applied to each session it creates.
func NewManager(eventStore events.EventStore, opts ...SessionOption) *Manager {
	return &Manager{
		eventStore: eventStore,
		sessions:   make(map[string]*Session),
		opts:       opts,
	}
}

// Create starts a new session, filling unset rules with defaults
func (m *Manager) Create(rules Rules) (*Session, error) {
	session, err := NewSession(m.eventStore, rules.WithDefaults(), m.opts...)
	if err != nil {
		return nil, err
	}

	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.ID] = session
	m.order = append(m.order, session.ID)
	return session, nil
}

// Get returns the session with the given ID
func (m *Manager) Get(id string) (*Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return session, nil
}

// List returns all sessions, oldest first
func (m *Manager) List() []*Session {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sessions := make([]*Session, 0, len(m.order))
	for _, id := range m.order {
		sessions = append(sessions, m.sessions[id])
	}
	return sessions
}

// Remove forgets a session. Its events stay in the store.
func (m *Manager) Remove(id string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	delete(m.sessions, id)
	m.order = slices.DeleteFunc(m.order, func(other string) bool { return other == id })
	return nil
}

// EventStore returns the store sessions record into
func (m *Manager) EventStore() events.EventStore {
	return m.eventStore
}
