package events

import "sync"

// EventHandler is called with every event appended to a PublishingEventStore
type EventHandler func(event Event)

// PublishingEventStore wraps a store and notifies handlers after each
// successful append.
type PublishingEventStore struct {
	EventStore
	handlers []EventHandler
	mutex    sync.RWMutex
}

// NewPublishingEventStore wraps store
func NewPublishingEventStore(store EventStore) *PublishingEventStore {
	return &PublishingEventStore{EventStore: store}
}

// AddEventHandler registers a callback for appended events
func (p *PublishingEventStore) AddEventHandler(handler EventHandler) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.handlers = append(p.handlers, handler)
}

// Append stores the event, then notifies all handlers
func (p *PublishingEventStore) Append(event Event) error {
	if err := p.EventStore.Append(event); err != nil {
		return err
	}

	p.mutex.RLock()
	handlers := p.handlers
	p.mutex.RUnlock()

	for _, handler := range handlers {
		handler(event)
	}
	return nil
}
