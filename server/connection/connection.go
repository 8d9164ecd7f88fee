package connection

import (
	"slices"
	"sync"

	"github.com/gorilla/websocket"
)

// Client represents a connected player
type Client struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	GameIDs []string // Games the client follows
}

// Manager handles all client connections
type Manager struct {
	clients map[string]*Client
	mutex   sync.RWMutex
}

// NewManager creates a new connection manager
func NewManager() *Manager {
	return &Manager{
		clients: make(map[string]*Client),
	}
}

// Register adds a client
func (m *Manager) Register(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.clients[client.ID] = client
}

// Unregister removes a client and closes its Send channel
func (m *Manager) Unregister(client *Client) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if _, ok := m.clients[client.ID]; ok {
		delete(m.clients, client.ID)
		close(client.Send)
	}
}

// Len returns the number of connected clients
func (m *Manager) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.clients)
}

// SendToClient sends a message to a specific client
func (m *Manager) SendToClient(clientID string, message []byte) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	return trySend(client, message)
}

// SendToGame sends a message to every client following a game
func (m *Manager) SendToGame(gameID string, message []byte) int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	sent := 0
	for _, client := range m.clients {
		if slices.Contains(client.GameIDs, gameID) && trySend(client, message) {
			sent++
		}
	}
	return sent
}

// Follow subscribes a client to a game's events
func (m *Manager) Follow(clientID string, gameID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	client, ok := m.clients[clientID]
	if !ok {
		return false
	}
	if !slices.Contains(client.GameIDs, gameID) {
		client.GameIDs = append(client.GameIDs, gameID)
	}
	return true
}

// IsFollowing checks if a client follows a game
func (m *Manager) IsFollowing(clientID string, gameID string) bool {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	client, ok := m.clients[clientID]
	return ok && slices.Contains(client.GameIDs, gameID)
}

// trySend drops the message rather than block on a slow client
func trySend(client *Client, message []byte) bool {
	select {
	case client.Send <- message:
		return true
	default:
		return false
	}
}
