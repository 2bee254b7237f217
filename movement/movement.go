// Package movement generates legal destinations for the five piece kinds on an
// empty 8×8 board.
//
// What:
//
//   - Knight: single jump through a fixed table of eight (±2,±1)/(±1,±2) offsets.
//   - King:   single step to any of the eight neighbors.
//   - Rook, Bishop, Queen: unobstructed slides along 4 orthogonal, 4 diagonal,
//     or all 8 directions until the board edge.
//
// Every Rule is pure: MovesFrom never includes its input, never returns an
// off-board position, and always returns the same order for the same input.
// The order is the offset/direction table order below, which fixes the order
// in which a search discovers neighbors.
package movement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/piecepath/board"
)

// ErrUnknownPiece indicates a PieceKind outside the closed set, or an unparsable name.
var ErrUnknownPiece = errors.New("movement: unknown piece kind")

// PieceKind selects a movement rule.
type PieceKind int

const (
	// Knight jumps in an L shape.
	Knight PieceKind = iota
	// King steps one cell in any direction.
	King
	// Rook slides orthogonally.
	Rook
	// Bishop slides diagonally.
	Bishop
	// Queen slides orthogonally and diagonally.
	Queen
)

// Kinds lists every PieceKind in key order (key 1 is Knight).
var Kinds = []PieceKind{Knight, King, Rook, Bishop, Queen}

var kindNames = [...]string{"knight", "king", "rook", "bishop", "queen"}

// Valid reports whether k is one of the five defined kinds.
func (k PieceKind) Valid() bool {
	return k >= Knight && k <= Queen
}

// Jumps reports whether k moves by a single jump rather than a step or slide.
func (k PieceKind) Jumps() bool {
	return k == Knight
}

func (k PieceKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("PieceKind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind accepts a kind name ("knight") case-insensitively.
func ParseKind(name string) (PieceKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range kindNames {
		if s == n {
			return PieceKind(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPiece, name)
}

// FromKey maps the selection keys 1..5 to Knight..Queen.
func FromKey(key int) (PieceKind, error) {
	k := PieceKind(key - 1)
	if !k.Valid() {
		return 0, fmt.Errorf("%w: key %d", ErrUnknownPiece, key)
	}
	return k, nil
}

// Rule produces the legal destinations of one piece kind.
type Rule interface {
	// Kind identifies the piece this rule moves.
	Kind() PieceKind
	// MovesFrom returns every on-board destination reachable in one move from p.
	MovesFrom(p board.Position) []board.Position
}

// Offset tables; the order is observable through search edge logs.
var (
	knightOffsets = [][2]int{
		{2, 1}, {2, -1}, {-2, 1}, {-2, -1},
		{1, 2}, {1, -2}, {-1, 2}, {-1, -2},
	}
	kingOffsets = [][2]int{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
	orthogonal = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allDirs    = append(append([][2]int{}, orthogonal...), diagonal...)
)

// offsetRule moves exactly once along each offset: the knight jump and the king step.
type offsetRule struct {
	kind    PieceKind
	offsets [][2]int
}

func (r offsetRule) Kind() PieceKind { return r.kind }

func (r offsetRule) MovesFrom(p board.Position) []board.Position {
	out := make([]board.Position, 0, len(r.offsets))
	for _, d := range r.offsets {
		if n := p.Offset(d[0], d[1]); n.InBounds() {
			out = append(out, n)
		}
	}
	return out
}

// slideRule repeats each direction until leaving the board. Nothing blocks.
type slideRule struct {
	kind PieceKind
	dirs [][2]int
}

func (r slideRule) Kind() PieceKind { return r.kind }

func (r slideRule) MovesFrom(p board.Position) []board.Position {
	out := make([]board.Position, 0, len(r.dirs)*(board.Size-1))
	for _, d := range r.dirs {
		for n := p.Offset(d[0], d[1]); n.InBounds(); n = n.Offset(d[0], d[1]) {
			out = append(out, n)
		}
	}
	return out
}

// ForKind returns the Rule for k, or ErrUnknownPiece.
func ForKind(k PieceKind) (Rule, error) {
	switch k {
	case Knight:
		return offsetRule{kind: Knight, offsets: knightOffsets}, nil
	case King:
		return offsetRule{kind: King, offsets: kingOffsets}, nil
	case Rook:
		return slideRule{kind: Rook, dirs: orthogonal}, nil
	case Bishop:
		return slideRule{kind: Bishop, dirs: diagonal}, nil
	case Queen:
		return slideRule{kind: Queen, dirs: allDirs}, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownPiece, int(k))
	}
}

// MustForKind is ForKind for kinds known to be valid; it panics otherwise.
func MustForKind(k PieceKind) Rule {
	r, err := ForKind(k)
	if err != nil {
		panic(err)
	}
	return r
}
