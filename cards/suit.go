package cards

import (
	"cmp"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Color represents the color of a suit
type Color int

const (
	NoColor Color = iota
	Red
	Black
)

func (c Color) String() string {
	switch c {
	case Red:
		return "Red"
	case Black:
		return "Black"
	}
	return ""
}

var suitGlyphs = map[string]string{
	"Clubs":    "♣",
	"Diamonds": "♦",
	"Hearts":   "♥",
	"Spades":   "♠",
	"Wands":    "⚚",
	"Coins":    "⍟",
	"Cups":     "∪",
	"Swords":   "⚔",
}

// Suit represents a card suit. Suits are ordered by Rank only, the name plays
// no part in comparisons.
type Suit struct {
	Name  string `json:"name,omitempty"`
	Rank  int    `json:"rank"`
	Color Color  `json:"color,omitempty"`
}

// NewSuit creates a suit. The name is capitalized and, when color is NoColor,
// the color is inferred for the four standard suits.
func NewSuit(name string, rank int, color Color) Suit {
	name = capitalize(name)
	if color == NoColor {
		switch name {
		case "Diamonds", "Hearts":
			color = Red
		case "Clubs", "Spades":
			color = Black
		}
	}
	return Suit{Name: name, Rank: rank, Color: color}
}

// Glyph returns the display symbol of the suit, or "" for unknown names
func (s Suit) Glyph() string {
	return suitGlyphs[s.Name]
}

// Equal checks if two suits have the same rank
func (s Suit) Equal(other Suit) bool {
	return s.Rank == other.Rank
}

// Less reports whether s ranks below other
func (s Suit) Less(other Suit) bool {
	return s.Rank < other.Rank
}

func (s Suit) Compare(other Suit) int {
	return cmp.Compare(s.Rank, other.Rank)
}

func (s Suit) String() string {
	return fmt.Sprintf("%s (%d), %s %s", s.Name, s.Rank, s.Color, s.Glyph())
}

// The four standard suits, ranked 1 to 4. Cards built from them compare equal
// to the cards of a default deck.
var (
	Clubs    = NewSuit("Clubs", 1, NoColor)
	Diamonds = NewSuit("Diamonds", 2, NoColor)
	Hearts   = NewSuit("Hearts", 3, NoColor)
	Spades   = NewSuit("Spades", 4, NoColor)
)

// StandardSuits returns Clubs, Diamonds, Hearts and Spades in rank order
func StandardSuits() []Suit {
	return []Suit{Clubs, Diamonds, Hearts, Spades}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[size:])
}
