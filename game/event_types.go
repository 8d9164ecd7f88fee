package game

import (
	"github.com/lazharichir/carta/carta"
	"github.com/lazharichir/carta/events"
)

// GameStarted represents the event when a board has been dealt.
type GameStarted struct {
	GameID   string
	Rows     int
	Columns  int
	Goal     string
	Start    string
	Location carta.Position
	MaxMoves int
}

func (e GameStarted) EventName() string { return "game-started" }

// PlayerMoved represents the event when the player steps onto a new card.
type PlayerMoved struct {
	GameID    string
	Move      int
	Direction string
	From      carta.Position
	To        carta.Position
	Card      string
}

func (e PlayerMoved) EventName() string { return "player-moved" }

// MoveRejected represents the event when an input could not be played.
type MoveRejected struct {
	GameID string
	Token  string
	Reason string
}

func (e MoveRejected) EventName() string { return "move-rejected" }

// GameEnded represents the event when a session is over.
type GameEnded struct {
	GameID   string
	Reason   EndReason
	Moves    int
	Location carta.Position
}

func (e GameEnded) EventName() string { return "game-ended" }

// EventTypes returns a zero value of every session event, for stores that
// decode events by name.
func EventTypes() []events.Event {
	return []events.Event{GameStarted{}, PlayerMoved{}, MoveRejected{}, GameEnded{}}
}
