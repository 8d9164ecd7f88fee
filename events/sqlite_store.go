package events

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id    TEXT NOT NULL,
	name       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_game_id ON events(game_id);
`

// RawEvent is an event read back from storage whose type was not registered
type RawEvent struct {
	GameID  string
	Name    string
	Payload json.RawMessage
}

func (e RawEvent) EventName() string { return e.Name }

// SQLiteEventStore persists events as JSON rows in a SQLite database.
type SQLiteEventStore struct {
	db    *sql.DB
	types map[string]reflect.Type
}

// NewSQLiteEventStore opens (or creates) the database at path. The given
// prototypes register the concrete types LoadEvents decodes rows into.
func NewSQLiteEventStore(path string, prototypes ...Event) (*SQLiteEventStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// SQLite allows a single writer
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to the database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("error creating schema: %w", err)
	}

	s := &SQLiteEventStore{db: db, types: make(map[string]reflect.Type)}
	for _, p := range prototypes {
		s.Register(p)
	}
	return s, nil
}

// Register makes LoadEvents decode events named like prototype into its type
func (s *SQLiteEventStore) Register(prototype Event) {
	t := reflect.TypeOf(prototype)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	s.types[prototype.EventName()] = t
}

// Append adds a new event to the store.
func (s *SQLiteEventStore) Append(event Event) error {
	gameID := GetGameID(event)
	if gameID == "" {
		return ErrNoGameID
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal %s event: %w", event.EventName(), err)
	}

	_, err = s.db.Exec(
		`INSERT INTO events (game_id, name, payload, created_at) VALUES (?, ?, ?, ?)`,
		gameID, event.EventName(), string(payload), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert %s event: %w", event.EventName(), err)
	}
	return nil
}

// LoadEvents retrieves all events for the given game, oldest first.
func (s *SQLiteEventStore) LoadEvents(gameID string) ([]Event, error) {
	rows, err := s.db.Query(`SELECT name, payload FROM events WHERE game_id = ? ORDER BY id`, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	result := []Event{}
	for rows.Next() {
		var name, payload string
		if err := rows.Scan(&name, &payload); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		event, err := s.decode(gameID, name, []byte(payload))
		if err != nil {
			return nil, err
		}
		result = append(result, event)
	}
	return result, rows.Err()
}

func (s *SQLiteEventStore) decode(gameID, name string, payload []byte) (Event, error) {
	t, ok := s.types[name]
	if !ok {
		return RawEvent{GameID: gameID, Name: name, Payload: payload}, nil
	}

	ptr := reflect.New(t)
	if err := json.Unmarshal(payload, ptr.Interface()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s event: %w", name, err)
	}
	event, ok := ptr.Elem().Interface().(Event)
	if !ok {
		return nil, fmt.Errorf("registered type for %s is not an event", name)
	}
	return event, nil
}

// Close closes the database
func (s *SQLiteEventStore) Close() error {
	return s.db.Close()
}
