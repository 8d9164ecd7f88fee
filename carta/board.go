package carta

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lazharichir/carta/cards"
)

// cellWidth is the fixed width each rendered card is centered in
const cellWidth = 5

// Position is a (row, column) coordinate on the grid
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
}

// Board is a Carta memory maze: a grid of face-down cards the player crosses
// one step at a time, starting on the face-up starting card.
type Board struct {
	grid              Grid
	goalCard          cards.PlayingCard
	startingCard      cards.PlayingCard
	location          Position
	allowedDirections DirectionSet
	rng               cards.Source
}

// BoardOption configures NewBoard
type BoardOption func(*Board)

// WithAllowedDirections restricts the directions Move accepts
func WithAllowedDirections(dirs DirectionSet) BoardOption {
	return func(b *Board) { b.allowedDirections = dirs }
}

// WithRand sets the random source used to mix the goal card into the grid
func WithRand(rng cards.Source) BoardOption {
	return func(b *Board) { b.rng = rng }
}

// NewBoard builds a board on an empty grid, drawing its cards from deck. The
// deck is consumed and should not be used afterwards.
func NewBoard(deck *cards.Deck, grid Grid, goalCard, startingCard cards.PlayingCard, opts ...BoardOption) (*Board, error) {
	if err := IsValidGrid(grid); err != nil {
		return nil, err
	}

	b := &Board{
		grid:              grid,
		goalCard:          goalCard,
		startingCard:      startingCard,
		location:          Position{Row: -1, Col: -1},
		allowedDirections: Cardinal(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.rng == nil {
		b.rng = cards.NewSource()
	}

	if err := b.build(deck); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Board) build(deck *cards.Deck) error {
	slots := b.grid.emptySlots()
	if slots < 2 {
		return fmt.Errorf("%w: need room for the goal and starting cards, have %d cells", ErrInvalidGrid, slots)
	}

	if err := deck.Remove(b.startingCard); err != nil {
		return fmt.Errorf("failed to remove starting card: %w", err)
	}
	if err := deck.Remove(b.goalCard); err != nil {
		return fmt.Errorf("failed to remove goal card: %w", err)
	}
	deck.Shuffle()

	gridCards, err := deck.Deal(slots - 2)
	if err != nil {
		return fmt.Errorf("failed to deal grid cards: %w", err)
	}
	b.goalCard.FaceUp = false
	gridCards = append(gridCards, b.goalCard)
	cards.Shuffle(gridCards, b.rng)

	// The starting card is not part of the shuffle: it lands in whichever
	// placeholder the row-major walk reaches last.
	b.startingCard.FaceUp = true
	for i, row := range b.grid {
		for j, cell := range row {
			if !cell.IsEmpty() {
				continue
			}
			if len(gridCards) > 0 {
				last := len(gridCards) - 1
				b.grid[i][j] = OccupiedCell(gridCards[last])
				gridCards = gridCards[:last]
				continue
			}
			b.grid[i][j] = OccupiedCell(b.startingCard)
			b.location = Position{Row: i, Col: j}
		}
	}
	return nil
}

// Target returns the position a move in direction d would reach, without
// moving the player.
func (b *Board) Target(d Direction) (Position, error) {
	if d.IsDiagonal() {
		return b.location, fmt.Errorf("%w: %s is not supported", ErrInvalidDirection, d)
	}
	if !b.allowedDirections.Contains(d) {
		return b.location, fmt.Errorf("%w: %s is not allowed", ErrInvalidDirection, d)
	}

	dRow, dCol, ok := d.offset()
	if !ok {
		return b.location, fmt.Errorf("%w: %s", ErrInvalidDirection, d)
	}
	target := Position{Row: b.location.Row + dRow, Col: b.location.Col + dCol}

	if !b.grid.contains(target) {
		return b.location, fmt.Errorf("%w: %s from %s leaves the board", ErrIllegalMove, d, b.location)
	}
	if b.grid[target.Row][target.Col].IsEmpty() {
		return b.location, fmt.Errorf("%w: no card at %s", ErrIllegalMove, target)
	}
	return target, nil
}

// Move steps the player one cell in direction d and turns that cell's card
// face up. On error the board is unchanged.
func (b *Board) Move(d Direction) error {
	target, err := b.Target(d)
	if err != nil {
		return err
	}
	b.location = target
	b.grid[target.Row][target.Col].card.FaceUp = true
	return nil
}

// Apply parses token and performs the move. quit is true when the token asks
// to end the session, in which case the board is untouched.
func (b *Board) Apply(token string) (quit bool, err error) {
	input, err := ParseInput(token)
	if err != nil {
		return false, err
	}
	if input.Quit {
		return true, nil
	}
	return false, b.Move(input.Direction)
}

// Location returns the player's position
func (b *Board) Location() Position {
	return b.location
}

// Grid returns the board's cells. Callers must not modify it.
func (b *Board) Grid() Grid {
	return b.grid
}

func (b *Board) GoalCard() cards.PlayingCard {
	return b.goalCard
}

func (b *Board) StartingCard() cards.PlayingCard {
	return b.startingCard
}

// AllowedDirections returns the directions Move accepts
func (b *Board) AllowedDirections() DirectionSet {
	return b.allowedDirections
}

// CurrentCard returns the card the player stands on
func (b *Board) CurrentCard() cards.PlayingCard {
	card, _ := b.grid[b.location.Row][b.location.Col].Card()
	return card
}

// Render draws the grid, one line per row, each card centered in a fixed
// width field.
func (b *Board) Render() string {
	lines := make([]string, len(b.grid))
	for i, row := range b.grid {
		var sb strings.Builder
		for _, cell := range row {
			sb.WriteString(center(cell.String(), cellWidth))
		}
		lines[i] = sb.String()
	}
	return strings.Join(lines, "\n")
}

// Status returns the line telling the player where they stand
func (b *Board) Status() string {
	return fmt.Sprintf("You are at: %s", b.CurrentCard())
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	// Odd padding goes left when the width is odd
	pad := width - n
	left := pad/2 + (pad & width & 1)
	right := pad - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
