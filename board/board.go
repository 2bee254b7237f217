package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// Size is the number of columns and rows on the board.
const Size = 8

// Cells is the total number of squares on the board.
const Cells = Size * Size

// ErrInvalidSquare indicates a square name that does not denote a board cell.
var ErrInvalidSquare = errors.New("board: invalid square")

// Position is a cell coordinate on the board. The zero value is the top-left cell.
type Position struct {
	Col, Row int
}

// At is shorthand for Position{Col: col, Row: row}.
func At(col, row int) Position {
	return Position{Col: col, Row: row}
}

// InBounds reports whether p lies on the board.
func (p Position) InBounds() bool {
	return p.Col >= 0 && p.Col < Size && p.Row >= 0 && p.Row < Size
}

// Offset returns p translated by (dc, dr). The result may be off the board.
func (p Position) Offset(dc, dr int) Position {
	return Position{Col: p.Col + dc, Row: p.Row + dr}
}

// Less orders positions column-major: by Col, then by Row.
func (p Position) Less(q Position) bool {
	if p.Col != q.Col {
		return p.Col < q.Col
	}
	return p.Row < q.Row
}

// Compare returns -1, 0 or +1 following Less; usable with slices.SortFunc.
func Compare(p, q Position) int {
	switch {
	case p.Less(q):
		return -1
	case q.Less(p):
		return 1
	default:
		return 0
	}
}

// Index maps p to a row-major index: Row*Size + Col.
// Only meaningful for in-bounds positions.
func (p Position) Index() int {
	return p.Row*Size + p.Col
}

// FromIndex converts a row-major index back to a Position.
func FromIndex(idx int) Position {
	return Position{Col: idx % Size, Row: idx / Size}
}

// Square returns the chess square for p. Row 0 is rank 8, column 0 is file a.
// Off-board positions map to chess.NoSquare.
func (p Position) Square() chess.Square {
	if !p.InBounds() {
		return chess.NoSquare
	}
	return chess.Square((Size-1-p.Row)*Size + p.Col)
}

// String returns the algebraic name of p ("a8" for the top-left cell),
// or "(col,row)" when p is off the board.
func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Col, p.Row)
	}
	return p.Square().String()
}

// squareNames indexes every on-board Position by its algebraic name.
var squareNames = func() map[string]Position {
	m := make(map[string]Position, Cells)
	for i := 0; i < Cells; i++ {
		p := FromIndex(i)
		m[p.String()] = p
	}
	return m
}()

// ParseSquare converts an algebraic name such as "c3" into a Position.
// Case and surrounding whitespace are ignored.
func ParseSquare(name string) (Position, error) {
	p, ok := squareNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Position{}, fmt.Errorf("%w: %q", ErrInvalidSquare, name)
	}
	return p, nil
}

// All returns every board position in row-major order.
func All() []Position {
	out := make([]Position, Cells)
	for i := range out {
		out[i] = FromIndex(i)
	}
	return out
}
