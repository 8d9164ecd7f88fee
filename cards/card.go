package cards

import (
	"cmp"
	"fmt"
	"strconv"
)

// HiddenToken is how a face-down card renders
const HiddenToken = "XX"

// Face is the face-up/face-down state shared by every kind of card
type Face struct {
	FaceUp bool `json:"faceUp"`
}

// Flip turns the card over
func (f *Face) Flip() {
	f.FaceUp = !f.FaceUp
}

func (f Face) IsFaceUp() bool {
	return f.FaceUp
}

// PlayingCard represents a card of a suit and a numeric rank. Cards are
// ordered by (Rank, Suit.Rank).
type PlayingCard struct {
	Face
	Suit        Suit   `json:"suit"`
	Rank        int    `json:"rank"`
	DisplayChar string `json:"displayChar,omitempty"`
}

// NewPlayingCard creates a face-down card. courtMapping substitutes a display
// string for ranks such as J, Q, K, A; it may be nil.
func NewPlayingCard(suit Suit, rank int, courtMapping map[int]string) PlayingCard {
	return PlayingCard{
		Suit:        suit,
		Rank:        rank,
		DisplayChar: courtMapping[rank],
	}
}

// Equal checks if two cards share rank and suit rank
func (c PlayingCard) Equal(other PlayingCard) bool {
	return c.Rank == other.Rank && c.Suit.Rank == other.Suit.Rank
}

// Less reports whether c sorts before other
func (c PlayingCard) Less(other PlayingCard) bool {
	return c.Compare(other) < 0
}

func (c PlayingCard) Compare(other PlayingCard) int {
	if n := cmp.Compare(c.Rank, other.Rank); n != 0 {
		return n
	}
	return c.Suit.Compare(other.Suit)
}

// String renders the card as seen on the table
func (c PlayingCard) String() string {
	if !c.FaceUp {
		return HiddenToken
	}
	return c.Reveal()
}

// Reveal renders the card regardless of which way it faces
func (c PlayingCard) Reveal() string {
	value := c.DisplayChar
	if value == "" {
		value = strconv.Itoa(c.Rank)
	}

	switch {
	case c.Suit.Name == "" && c.Suit.Color != NoColor:
		return fmt.Sprintf("%s %s", c.Suit.Color, value)
	case c.Suit.Glyph() != "":
		return value + c.Suit.Glyph()
	case c.Suit.Name != "":
		return fmt.Sprintf("%s of %s", value, c.Suit.Name)
	default:
		return value
	}
}

// IsJoker checks if the card was built as a joker
func (c PlayingCard) IsJoker() bool {
	return c.Suit.Name == "" && c.Rank == JokerRank
}
