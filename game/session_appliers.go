package game

import (
	"fmt"

	"github.com/lazharichir/carta/carta"
)

// Event handler implementations

func (s *Session) applyPlayerMoved(event PlayerMoved, direction carta.Direction) error {
	if err := s.board.Move(direction); err != nil {
		return fmt.Errorf("failed to apply %s event: %w", event.EventName(), err)
	}
	s.moves = event.Move
	return nil
}

func (s *Session) applyGameEnded(event GameEnded) {
	s.phase = PhaseEnded
	s.endReason = event.Reason
}
