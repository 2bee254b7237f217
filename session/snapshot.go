package session

import (
	"slices"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/movement"
	"github.com/katalvlaran/piecepath/playback"
	"github.com/katalvlaran/piecepath/search"
)

// Snapshot is everything a renderer reads for one frame. It shares no
// storage with the session.
type Snapshot struct {
	Phase     Phase
	Piece     movement.PieceKind
	Selection Selection

	SearchPhase search.Phase
	Visited     []board.Position
	Edges       []search.Edge
	Current     board.Position
	HasCurrent  bool
	Steps       int

	Path          search.Path
	PlaybackPhase playback.Phase
	Rendered      playback.Point
	HasRendered   bool
}

// Snapshot copies the queryable state of the session.
func (s *Session) Snapshot() Snapshot {
	cur, hasCur := s.engine.Current()
	pt, hasPt := s.player.Rendered()
	return Snapshot{
		Phase:         s.phase,
		Piece:         s.piece,
		Selection:     s.sel,
		SearchPhase:   s.engine.Phase(),
		Visited:       s.engine.Visited(),
		Edges:         s.engine.Edges(),
		Current:       cur,
		HasCurrent:    hasCur,
		Steps:         s.steps,
		Path:          s.path.Clone(),
		PlaybackPhase: s.player.Phase(),
		Rendered:      pt,
		HasRendered:   hasPt,
	}
}

// OnPath reports whether p is a waypoint of the snapshot's path.
func (snap Snapshot) OnPath(p board.Position) bool {
	return slices.Contains(snap.Path, p)
}
