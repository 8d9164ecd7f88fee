package events

import (
	"encoding/json"

	"github.com/lazharichir/carta/events"
	"github.com/lazharichir/carta/server/connection"
	"k8s.io/klog/v2"
)

// EventEnvelope wraps an event with its name for client consumption
type EventEnvelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Dispatcher handles routing events to clients
type Dispatcher struct {
	connMgr *connection.Manager
}

// NewDispatcher creates a new event dispatcher
func NewDispatcher(connMgr *connection.Manager) *Dispatcher {
	return &Dispatcher{
		connMgr: connMgr,
	}
}

// Envelope marshals an event with its name
func Envelope(name string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(EventEnvelope{Name: name, Payload: data})
}

// HandleEvent sends a session event to every client following its game
func (d *Dispatcher) HandleEvent(event events.Event) {
	gameID := events.GetGameID(event)
	if gameID == "" {
		return
	}

	data, err := Envelope(event.EventName(), event)
	if err != nil {
		klog.Errorf("Failed to marshal %s event: %v", event.EventName(), err)
		return
	}

	sent := d.connMgr.SendToGame(gameID, data)
	klog.V(1).Infof("Dispatched %s for game %s to %d clients", event.EventName(), gameID, sent)
}
