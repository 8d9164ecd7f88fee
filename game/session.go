package game

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lazharichir/carta/cards"
	"github.com/lazharichir/carta/carta"
	"github.com/lazharichir/carta/events"
	"github.com/sanity-io/litter"
	"k8s.io/klog/v2"
)

var ErrSessionEnded = errors.New("session has ended")

// Phase represents whether a session still accepts moves
type Phase string

const (
	PhasePlaying Phase = "playing"
	PhaseEnded   Phase = "ended"
)

// EndReason records why a session ended
type EndReason string

const (
	EndQuit           EndReason = "quit"
	EndMovesExhausted EndReason = "moves-exhausted"
)

// SessionOption configures NewSession
type SessionOption func(*sessionConfig)

type sessionConfig struct {
	rng cards.Source
	id  string
}

// WithRand sets the random source for deck and board shuffles
func WithRand(rng cards.Source) SessionOption {
	return func(c *sessionConfig) { c.rng = rng }
}

// WithID overrides the generated session ID
func WithID(id string) SessionOption {
	return func(c *sessionConfig) { c.id = id }
}

// Session is one game of Carta: a board, a move budget and the events
// recorded while playing it. Its methods are safe for concurrent use.
type Session struct {
	ID        string
	CreatedAt time.Time

	rules      Rules
	board      *carta.Board
	eventStore events.EventStore
	phase      Phase
	endReason  EndReason
	moves      int
	mutex      sync.Mutex
}

// TurnResult describes the outcome of one accepted input
type TurnResult struct {
	Quit      bool           `json:"quit"`
	Location  carta.Position `json:"location"`
	Card      string         `json:"card"`
	MovesLeft int            `json:"movesLeft"`
	Ended     bool           `json:"ended"`
}

// NewSession builds a deck and board from rules and records the start of the
// game in eventStore.
func NewSession(eventStore events.EventStore, rules Rules, opts ...SessionOption) (*Session, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	cfg := sessionConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.rng == nil {
		cfg.rng = cards.NewSource()
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	deckOpts := []cards.DeckOption{cards.WithAcesHigh(rules.AcesHigh), cards.WithRand(cfg.rng)}
	if rules.IncludeJokers {
		deckOpts = append(deckOpts, cards.WithJokers())
	}
	deck := cards.NewPlayingCardDeck(deckOpts...)

	// Validate has already resolved these.
	goal, _ := rules.Goal.Card()
	start, _ := rules.Start.Card()
	dirs, _ := rules.directions()

	board, err := carta.NewBoard(deck, carta.CreateGrid(rules.Rows, rules.Columns), goal, start,
		carta.WithAllowedDirections(dirs),
		carta.WithRand(cfg.rng),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build board: %w", err)
	}

	s := &Session{
		ID:         cfg.id,
		CreatedAt:  time.Now(),
		rules:      rules,
		board:      board,
		eventStore: eventStore,
		phase:      PhasePlaying,
	}

	started := GameStarted{
		GameID:   s.ID,
		Rows:     rules.Rows,
		Columns:  rules.Columns,
		Goal:     board.GoalCard().Reveal(),
		Start:    board.StartingCard().Reveal(),
		Location: board.Location(),
		MaxMoves: rules.MaxMoves,
	}
	if err := s.record(started); err != nil {
		return nil, err
	}

	klog.Infof("Session %s created: %dx%d board, %d moves", s.ID, rules.Rows, rules.Columns, rules.MaxMoves)
	return s, nil
}

// Submit plays one input token. Invalid directions and illegal moves leave
// the session unchanged and return carta.ErrInvalidDirection or
// carta.ErrIllegalMove; the caller may simply ask again.
func (s *Session) Submit(token string) (TurnResult, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.phase == PhaseEnded {
		return TurnResult{}, ErrSessionEnded
	}

	input, err := carta.ParseInput(token)
	if err != nil {
		return TurnResult{}, s.reject(token, err)
	}

	if input.Quit {
		if err := s.end(EndQuit); err != nil {
			return TurnResult{}, err
		}
		result := s.result()
		result.Quit = true
		return result, nil
	}

	from := s.board.Location()
	to, err := s.board.Target(input.Direction)
	if err != nil {
		return TurnResult{}, s.reject(token, err)
	}

	moved := PlayerMoved{
		GameID:    s.ID,
		Move:      s.moves + 1,
		Direction: input.Direction.String(),
		From:      from,
		To:        to,
	}
	if card, ok := s.board.Grid()[to.Row][to.Col].Card(); ok {
		moved.Card = card.Reveal()
	}
	if err := s.record(moved); err != nil {
		return TurnResult{}, err
	}
	if err := s.applyPlayerMoved(moved, input.Direction); err != nil {
		return TurnResult{}, err
	}
	klog.V(1).Infof("Session %s: move %d %s %s -> %s (%s)", s.ID, moved.Move, moved.Direction, from, to, moved.Card)

	if s.moves >= s.rules.MaxMoves {
		if err := s.end(EndMovesExhausted); err != nil {
			return TurnResult{}, err
		}
	}
	return s.result(), nil
}

func (s *Session) reject(token string, cause error) error {
	rejected := MoveRejected{GameID: s.ID, Token: token, Reason: cause.Error()}
	if err := s.record(rejected); err != nil {
		return err
	}
	klog.V(1).Infof("Session %s: rejected %q: %v", s.ID, token, cause)
	return cause
}

func (s *Session) end(reason EndReason) error {
	ended := GameEnded{
		GameID:   s.ID,
		Reason:   reason,
		Moves:    s.moves,
		Location: s.board.Location(),
	}
	if err := s.record(ended); err != nil {
		return err
	}
	s.applyGameEnded(ended)
	klog.Infof("Session %s ended after %d moves: %s", s.ID, s.moves, reason)
	return nil
}

// record appends an event to the store
func (s *Session) record(event events.Event) error {
	if err := s.eventStore.Append(event); err != nil {
		return fmt.Errorf("failed to append %s event: %w", event.EventName(), err)
	}
	if klog.V(2).Enabled() {
		klog.Infof("Session %s event:\n%s", s.ID, litter.Sdump(event))
	}
	return nil
}

func (s *Session) result() TurnResult {
	return TurnResult{
		Location:  s.board.Location(),
		Card:      s.board.CurrentCard().String(),
		MovesLeft: s.rules.MaxMoves - s.moves,
		Ended:     s.phase == PhaseEnded,
	}
}

// Ended reports whether the session accepts no more moves
func (s *Session) Ended() bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.phase == PhaseEnded
}

// EndReason returns why the session ended, or "" while it is being played
func (s *Session) EndReason() EndReason {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.endReason
}

// Moves returns the number of successful moves so far
func (s *Session) Moves() int {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.moves
}

// Rules returns the rules the session was created with
func (s *Session) Rules() Rules {
	return s.rules
}

// Location returns the player's position
func (s *Session) Location() carta.Position {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.board.Location()
}

// Render draws the board followed by the status line
func (s *Session) Render() string {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.board.Render() + "\n" + s.board.Status()
}

// Events returns the events recorded for this session
func (s *Session) Events() ([]events.Event, error) {
	return s.eventStore.LoadEvents(s.ID)
}
