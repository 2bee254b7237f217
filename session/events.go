package session

import (
	"fmt"

	"github.com/katalvlaran/piecepath/board"
)

// EventKind enumerates the discrete inputs a session understands.
type EventKind int

const (
	// Click selects a board cell.
	Click EventKind = iota
	// SelectPiece chooses a piece by key 1..5.
	SelectPiece
	// BeginSearch starts the search.
	BeginSearch
	// Reset returns everything to the initial state.
	Reset
)

func (k EventKind) String() string {
	switch k {
	case Click:
		return "click"
	case SelectPiece:
		return "select-piece"
	case BeginSearch:
		return "begin-search"
	case Reset:
		return "reset"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one input from the input source. Pos is used by Click, Key by SelectPiece.
type Event struct {
	Kind EventKind
	Pos  board.Position
	Key  int
}

// ClickAt builds a Click event for (col, row).
func ClickAt(col, row int) Event {
	return Event{Kind: Click, Pos: board.At(col, row)}
}

// KeyEvent maps a keyboard key to an event: '1'..'5' select a piece,
// space begins the search and 'r' resets.
func KeyEvent(key rune) (Event, bool) {
	switch {
	case key >= '1' && key <= '5':
		return Event{Kind: SelectPiece, Key: int(key - '0')}, true
	case key == ' ':
		return Event{Kind: BeginSearch}, true
	case key == 'r' || key == 'R':
		return Event{Kind: Reset}, true
	}
	return Event{}, false
}
