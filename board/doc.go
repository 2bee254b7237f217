// Package board defines the 8×8 board geometry shared by every other package:
// the Position value type, bounds checks, a dense index for array-backed sets,
// and algebraic square names ("a8", "h1").
//
// What:
//
//   - Position{Col, Row} with Col, Row in [0, Size). Row 0 is the top edge of
//     the board as a renderer draws it, which is rank 8 in chess notation.
//   - Positions are comparable values, so they work directly as map keys.
//     Less gives the column-major total order (Col first, then Row).
//   - Index / FromIndex map a Position to and from the row-major range [0, Cells).
//
// Complexity:
//
//   - Every function in this package is O(1).
//
// Errors:
//
//   - ErrInvalidSquare: ParseSquare received a name outside a1..h8.
package board
