package search

import (
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/piecepath/board"
)

// Sentinel errors for search operations.
var (
	// ErrInvalidSelection is returned when a start or goal is off the board,
	// collides with the other endpoint, or is set outside the Idle phase.
	ErrInvalidSelection = errors.New("search: invalid selection")

	// ErrPreconditionNotMet is returned when Start or Step is called in a
	// phase or selection state that does not allow it.
	ErrPreconditionNotMet = errors.New("search: precondition not met")

	// ErrNoPath is returned by BuildPath outside the GoalFound phase.
	ErrNoPath = errors.New("search: no path")

	// ErrRuleNil is returned when a nil movement rule is supplied.
	ErrRuleNil = errors.New("search: movement rule is nil")
)

// Phase is the lifecycle state of an Engine.
type Phase int

const (
	// Idle accepts selection changes; no traversal state exists.
	Idle Phase = iota
	// Running has a traversal in progress.
	Running
	// Exhausted means the frontier emptied without reaching the goal.
	Exhausted
	// GoalFound means the goal was popped; BuildPath may be called.
	GoalFound
)

var phaseNames = [...]string{"idle", "running", "exhausted", "goal-found"}

func (p Phase) String() string {
	if p < Idle || p > GoalFound {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Terminal reports whether no further Step can change the engine.
func (p Phase) Terminal() bool {
	return p == Exhausted || p == GoalFound
}

// Edge is one discovery: To was first reached from From.
type Edge struct {
	From, To board.Position
}

func (e Edge) String() string {
	return e.From.String() + "-" + e.To.String()
}

// Path is an ordered route from start to goal inclusive.
type Path []board.Position

// Moves is the number of edges along the path.
func (p Path) Moves() int {
	if len(p) == 0 {
		return 0
	}
	return len(p) - 1
}

// Clone returns an independent copy.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	return append(Path(nil), p...)
}

func (p Path) String() string {
	parts := make([]string, len(p))
	for i, pos := range p {
		parts[i] = pos.String()
	}
	return strings.Join(parts, " ")
}

// Option configures an Engine via functional arguments.
type Option func(*Options)

// Options holds callbacks observing a traversal. Nil callbacks are ignored
// by the With* helpers, so every field is always callable.
type Options struct {
	// OnEnqueue is called when a position is first discovered, with its depth.
	OnEnqueue func(p board.Position, depth int)

	// OnDequeue is called when Step pops a position, before the goal check.
	OnDequeue func(p board.Position, depth int)

	// OnPhase is called on every phase change, including the return to Idle on Reset.
	OnPhase func(from, to Phase)
}

// DefaultOptions returns Options with no-op hooks.
func DefaultOptions() Options {
	return Options{
		OnEnqueue: func(board.Position, int) {},
		OnDequeue: func(board.Position, int) {},
		OnPhase:   func(Phase, Phase) {},
	}
}

// WithOnEnqueue registers a discovery callback.
func WithOnEnqueue(fn func(p board.Position, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnEnqueue = fn
		}
	}
}

// WithOnDequeue registers a pop callback.
func WithOnDequeue(fn func(p board.Position, depth int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnDequeue = fn
		}
	}
}

// WithOnPhase registers a phase-transition callback.
func WithOnPhase(fn func(from, to Phase)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnPhase = fn
		}
	}
}
