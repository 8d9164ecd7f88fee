package carta

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidDirection = errors.New("invalid direction")
	ErrIllegalMove      = errors.New("illegal move")
)

// Direction is one of the eight compass points
type Direction int

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

var directionNames = map[Direction]string{
	North:     "N",
	NorthEast: "NE",
	East:      "E",
	SouthEast: "SE",
	South:     "S",
	SouthWest: "SW",
	West:      "W",
	NorthWest: "NW",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// IsDiagonal reports whether d is NE, SE, SW or NW. Diagonal moves are not
// implemented.
func (d Direction) IsDiagonal() bool {
	switch d {
	case NorthEast, SouthEast, SouthWest, NorthWest:
		return true
	}
	return false
}

// offset returns the unit step for the cardinal directions
func (d Direction) offset() (dRow, dCol int, ok bool) {
	switch d {
	case North:
		return -1, 0, true
	case South:
		return 1, 0, true
	case East:
		return 0, 1, true
	case West:
		return 0, -1, true
	}
	return 0, 0, false
}

// ParseDirection parses a compass name such as "n" or "SW", ignoring case
func ParseDirection(token string) (Direction, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	for d, name := range directionNames {
		if name == token {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDirection, token)
}

// Input is one parsed player command: either a direction or a request to quit
type Input struct {
	Direction Direction
	Quit      bool
}

// ParseInput parses a direction or one of the quit words Q, QUIT and EXIT
func ParseInput(token string) (Input, error) {
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "Q", "QUIT", "EXIT":
		return Input{Quit: true}, nil
	}
	d, err := ParseDirection(token)
	if err != nil {
		return Input{}, err
	}
	return Input{Direction: d}, nil
}

// DirectionSet is the set of directions a board accepts
type DirectionSet map[Direction]bool

// Cardinal returns N, S, E and W
func Cardinal() DirectionSet {
	return NewDirectionSet(North, South, East, West)
}

func NewDirectionSet(dirs ...Direction) DirectionSet {
	set := make(DirectionSet, len(dirs))
	for _, d := range dirs {
		set[d] = true
	}
	return set
}

// ParseDirectionSet parses a list of compass names
func ParseDirectionSet(tokens []string) (DirectionSet, error) {
	set := make(DirectionSet, len(tokens))
	for _, tok := range tokens {
		d, err := ParseDirection(tok)
		if err != nil {
			return nil, err
		}
		set[d] = true
	}
	return set, nil
}

func (s DirectionSet) Contains(d Direction) bool {
	return s[d]
}
