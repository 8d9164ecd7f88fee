package carta

import (
	"errors"
	"fmt"

	"github.com/lazharichir/carta/cards"
)

var ErrInvalidGrid = errors.New("invalid grid")

// CellState tells whether a cell still awaits a card
type CellState int

const (
	CellEmpty CellState = iota
	CellOccupied
)

// Cell is one square of the board: either an empty placeholder or a cell
// holding exactly one card.
type Cell struct {
	state CellState
	card  cards.PlayingCard
}

// EmptyCell returns a placeholder cell
func EmptyCell() Cell {
	return Cell{state: CellEmpty}
}

// OccupiedCell returns a cell holding card
func OccupiedCell(card cards.PlayingCard) Cell {
	return Cell{state: CellOccupied, card: card}
}

func (c Cell) State() CellState {
	return c.state
}

func (c Cell) IsEmpty() bool {
	return c.state == CellEmpty
}

// Card returns the card in the cell; ok is false for a placeholder
func (c Cell) Card() (card cards.PlayingCard, ok bool) {
	if c.state != CellOccupied {
		return cards.PlayingCard{}, false
	}
	return c.card, true
}

func (c Cell) String() string {
	if c.state != CellOccupied {
		return "."
	}
	return c.card.String()
}

// Grid is a rectangular matrix of cells, indexed [row][column]
type Grid [][]Cell

// CreateGrid returns a rows x columns grid of placeholders
func CreateGrid(rows, columns int) Grid {
	grid := make(Grid, rows)
	for i := range grid {
		row := make([]Cell, columns)
		for j := range row {
			row[j] = EmptyCell()
		}
		grid[i] = row
	}
	return grid
}

// IsValidGrid checks that the grid is rectangular and holds only
// placeholders, the state a grid must be in before a board is built on it.
func IsValidGrid(grid Grid) error {
	if len(grid) == 0 {
		return fmt.Errorf("%w: no rows", ErrInvalidGrid)
	}

	width := len(grid[0])
	for i, row := range grid {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidGrid, i, len(row), width)
		}
		for j, cell := range row {
			if !cell.IsEmpty() {
				return fmt.Errorf("%w: cell (%d,%d) is not a placeholder", ErrInvalidGrid, i, j)
			}
		}
	}
	return nil
}

// Rows returns the number of rows
func (g Grid) Rows() int {
	return len(g)
}

// Columns returns the width of the grid
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

func (g Grid) contains(p Position) bool {
	return p.Row >= 0 && p.Row < len(g) && p.Col >= 0 && p.Col < len(g[p.Row])
}

// emptySlots counts placeholders
func (g Grid) emptySlots() int {
	n := 0
	for _, row := range g {
		for _, cell := range row {
			if cell.IsEmpty() {
				n++
			}
		}
	}
	return n
}
