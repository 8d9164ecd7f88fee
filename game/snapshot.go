package game

import (
	"slices"
	"time"

	"github.com/lazharichir/carta/carta"
)

// Snapshot is a read-only view of a session for transports
type Snapshot struct {
	ID                string         `json:"id"`
	Phase             Phase          `json:"phase"`
	EndReason         EndReason      `json:"endReason,omitempty"`
	Rows              [][]string     `json:"rows"`
	Location          carta.Position `json:"location"`
	Current           string         `json:"current"`
	Moves             int            `json:"moves"`
	MaxMoves          int            `json:"maxMoves"`
	AllowedDirections []string       `json:"allowedDirections"`
	CreatedAt         time.Time      `json:"createdAt"`
}

// Snapshot returns the session as players see it: face-down cards hidden
func (s *Session) Snapshot() Snapshot {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	grid := s.board.Grid()
	rows := make([][]string, len(grid))
	for i, row := range grid {
		rows[i] = make([]string, len(row))
		for j, cell := range row {
			rows[i][j] = cell.String()
		}
	}

	dirs := make([]string, 0, len(s.board.AllowedDirections()))
	for d := range s.board.AllowedDirections() {
		dirs = append(dirs, d.String())
	}
	slices.Sort(dirs)

	return Snapshot{
		ID:                s.ID,
		Phase:             s.phase,
		EndReason:         s.endReason,
		Rows:              rows,
		Location:          s.board.Location(),
		Current:           s.board.CurrentCard().String(),
		Moves:             s.moves,
		MaxMoves:          s.rules.MaxMoves,
		AllowedDirections: dirs,
		CreatedAt:         s.CreatedAt,
	}
}
