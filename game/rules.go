package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lazharichir/carta/cards"
	"github.com/lazharichir/carta/carta"
)

var ErrInvalidRules = errors.New("invalid rules")

// CardSpec names a card of one of the four standard suits
type CardSpec struct {
	Suit string `json:"suit"`
	Rank int    `json:"rank"`
}

// Card returns the named playing card, comparable with cards of a default deck
func (c CardSpec) Card() (cards.PlayingCard, error) {
	for _, suit := range cards.StandardSuits() {
		if strings.EqualFold(suit.Name, c.Suit) {
			return cards.NewPlayingCard(suit, c.Rank, nil), nil
		}
	}
	return cards.PlayingCard{}, fmt.Errorf("%w: unknown suit %q", ErrInvalidRules, c.Suit)
}

// Rules configures a session
type Rules struct {
	Rows              int      `json:"rows"`
	Columns           int      `json:"columns"`
	AcesHigh          bool     `json:"acesHigh"`
	IncludeJokers     bool     `json:"includeJokers"`
	AllowedDirections []string `json:"allowedDirections"`
	MaxMoves          int      `json:"maxMoves"`
	Goal              CardSpec `json:"goal"`
	Start             CardSpec `json:"start"`
}

// DefaultRules returns a 4x6 board over an aces-low deck, a budget of ten
// moves, the 2 of Hearts as goal and the 2 of Clubs as starting card.
func DefaultRules() Rules {
	return Rules{
		Rows:              4,
		Columns:           6,
		AcesHigh:          false,
		IncludeJokers:     false,
		AllowedDirections: []string{"N", "S", "E", "W"},
		MaxMoves:          10,
		Goal:              CardSpec{Suit: "Hearts", Rank: 2},
		Start:             CardSpec{Suit: "Clubs", Rank: 2},
	}
}

// WithDefaults fills zero-valued fields from DefaultRules. Boolean fields are
// kept as given.
func (r Rules) WithDefaults() Rules {
	d := DefaultRules()
	if r.Rows == 0 {
		r.Rows = d.Rows
	}
	if r.Columns == 0 {
		r.Columns = d.Columns
	}
	if len(r.AllowedDirections) == 0 {
		r.AllowedDirections = d.AllowedDirections
	}
	if r.MaxMoves == 0 {
		r.MaxMoves = d.MaxMoves
	}
	if r.Goal == (CardSpec{}) {
		r.Goal = d.Goal
	}
	if r.Start == (CardSpec{}) {
		r.Start = d.Start
	}
	return r
}

// Validate checks the rules before any deck or board is built
func (r Rules) Validate() error {
	if r.Rows <= 0 || r.Columns <= 0 {
		return fmt.Errorf("%w: board must have positive dimensions, got %dx%d", ErrInvalidRules, r.Rows, r.Columns)
	}
	if r.MaxMoves <= 0 {
		return fmt.Errorf("%w: max moves must be positive, got %d", ErrInvalidRules, r.MaxMoves)
	}
	if _, err := r.directions(); err != nil {
		return err
	}
	if _, err := r.Goal.Card(); err != nil {
		return err
	}
	if _, err := r.Start.Card(); err != nil {
		return err
	}
	return nil
}

func (r Rules) directions() (carta.DirectionSet, error) {
	set, err := carta.ParseDirectionSet(r.AllowedDirections)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRules, err)
	}
	return set, nil
}
