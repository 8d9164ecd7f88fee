package events

import (
	"errors"
	"sync"
)

var ErrNoGameID = errors.New("event has no game ID")

// EventStore is the interface for storing and retrieving events.
type EventStore interface {
	Append(event Event) error
	LoadEvents(gameID string) ([]Event, error)
}

// InMemoryEventStore is an in-memory implementation of the EventStore interface.
type InMemoryEventStore struct {
	events map[string][]Event
	mutex  sync.RWMutex
}

// NewInMemoryEventStore creates a new in-memory event store.
func NewInMemoryEventStore() *InMemoryEventStore {
	return &InMemoryEventStore{
		events: make(map[string][]Event),
	}
}

// Append adds a new event to the store.
func (s *InMemoryEventStore) Append(event Event) error {
	gameID := GetGameID(event)
	if gameID == "" {
		return ErrNoGameID
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.events[gameID] = append(s.events[gameID], event)
	return nil
}

// LoadEvents retrieves all events for the given game, oldest first.
func (s *InMemoryEventStore) LoadEvents(gameID string) ([]Event, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := s.events[gameID]
	result := make([]Event, len(events))
	copy(result, events)
	return result, nil
}

// GameIDs lists the games that have at least one event
func (s *InMemoryEventStore) GameIDs() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	ids := make([]string, 0, len(s.events))
	for id := range s.events {
		ids = append(ids, id)
	}
	return ids
}
