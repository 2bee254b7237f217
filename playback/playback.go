// Package playback animates a piece along a reconstructed search path.
//
// The Controller walks the path segment by segment. Progress within a segment
// grows at a fixed rate in segments per second, independent of how often
// Advance is called. The rendered position is the linear interpolation
// between the segment's endpoints in top-left pixel coordinates, lifted by an
// arc of sin(progress·π)·height. Jumping pieces use the taller arc.
//
// Phases run Idle → Animating → Done; Stop returns to Idle from anywhere.
package playback

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/movement"
	"github.com/katalvlaran/piecepath/search"
)

// Sentinel errors for playback.
var (
	// ErrEmptyPath is returned by Begin when the path has no waypoints.
	ErrEmptyPath = errors.New("playback: path is empty")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("playback: invalid option supplied")
)

// Phase is the lifecycle state of a Controller.
type Phase int

const (
	// Idle has no path loaded.
	Idle Phase = iota
	// Animating is moving along the path.
	Animating
	// Done rests on the final waypoint.
	Done
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Point is a continuous position in pixels; Y grows downwards.
type Point struct {
	X, Y float32
}

// Option configures a Controller.
type Option func(*Options)

// Options holds the animation parameters.
type Options struct {
	// Rate is the number of path segments covered per second.
	Rate float32
	// CellSize is the edge length of one board cell in pixels.
	CellSize float32
	// JumpArc is the arc height in pixels for jumping pieces.
	JumpArc float32
	// SlideArc is the arc height in pixels for every other piece.
	SlideArc float32

	err error
}

// DefaultOptions returns 3 segments/s on 80px cells with 20px and 8px arcs.
func DefaultOptions() Options {
	return Options{
		Rate:     3,
		CellSize: 80,
		JumpArc:  20,
		SlideArc: 8,
	}
}

// WithRate sets the segments-per-second rate; it must be positive.
func WithRate(segmentsPerSecond float32) Option {
	return func(o *Options) {
		if !positiveFinite(segmentsPerSecond) {
			o.err = fmt.Errorf("%w: rate must be positive and finite (%v)", ErrOptionViolation, segmentsPerSecond)
			return
		}
		o.Rate = segmentsPerSecond
	}
}

// WithCellSize sets the cell edge in pixels; it must be positive.
func WithCellSize(px float32) Option {
	return func(o *Options) {
		if !positiveFinite(px) {
			o.err = fmt.Errorf("%w: cell size must be positive and finite (%v)", ErrOptionViolation, px)
			return
		}
		o.CellSize = px
	}
}

// WithArcHeights sets the jump and slide arc heights; neither may be negative.
func WithArcHeights(jump, slide float32) Option {
	return func(o *Options) {
		if !nonNegativeFinite(jump) || !nonNegativeFinite(slide) {
			o.err = fmt.Errorf("%w: arc heights must be finite and not negative (%v, %v)", ErrOptionViolation, jump, slide)
			return
		}
		o.JumpArc, o.SlideArc = jump, slide
	}
}

// maxElapsed caps the accumulated animation time.
const maxElapsed = time.Duration(1<<63 - 1)

func positiveFinite(v float32) bool { return v > 0 && !math32.IsInf(v, 1) }

func nonNegativeFinite(v float32) bool { return v >= 0 && !math32.IsInf(v, 1) }

// Controller replays a path. It never mutates the path it is given.
type Controller struct {
	opts  Options
	piece movement.PieceKind

	phase    Phase
	path     search.Path
	segment  int
	progress float32
	elapsed  time.Duration

	rendered    Point
	hasRendered bool
}

// NewController returns an Idle controller for piece.
func NewController(piece movement.PieceKind, opts ...Option) (*Controller, error) {
	if !piece.Valid() {
		return nil, fmt.Errorf("%w: %v", movement.ErrUnknownPiece, piece)
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return &Controller{opts: o, piece: piece}, nil
}

// Origin returns the top-left pixel of cell p.
func (c *Controller) Origin(p board.Position) Point {
	return Point{X: float32(p.Col) * c.opts.CellSize, Y: float32(p.Row) * c.opts.CellSize}
}

// arc returns the arc height for the current piece.
func (c *Controller) arc() float32 {
	if c.piece.Jumps() {
		return c.opts.JumpArc
	}
	return c.opts.SlideArc
}

// SetPiece changes the piece, and therefore the arc, in any phase.
func (c *Controller) SetPiece(k movement.PieceKind) {
	if k.Valid() {
		c.piece = k
	}
}

// Place shows the piece resting on p. Ignored while Animating.
func (c *Controller) Place(p board.Position) {
	if c.phase == Animating {
		return
	}
	c.rendered, c.hasRendered = c.Origin(p), true
}

// Begin starts animating along path from its first waypoint. A single-waypoint
// path has no segments and goes straight to Done. Any previous animation is
// discarded.
func (c *Controller) Begin(path search.Path) error {
	if len(path) == 0 {
		return ErrEmptyPath
	}
	c.path = path.Clone()
	c.segment, c.progress, c.elapsed = 0, 0, 0
	c.rendered, c.hasRendered = c.Origin(path[0]), true
	c.phase = Animating
	if len(path) == 1 {
		c.phase = Done
	}
	return nil
}

// Advance moves the animation forward by dt. Progress that overflows a segment
// carries into the next one. Reaching the last waypoint snaps the rendered
// position onto it and enters Done. No-op unless Animating.
//
// Elapsed time is kept as an integer Duration and the position along the path
// is derived from it on every call, so tick sequences with the same total land
// on the same point.
func (c *Controller) Advance(dt time.Duration) Phase {
	if c.phase != Animating || dt <= 0 {
		return c.phase
	}
	if dt > maxElapsed-c.elapsed {
		c.elapsed = maxElapsed
	} else {
		c.elapsed += dt
	}
	pos := float64(c.elapsed) * float64(c.opts.Rate) / float64(time.Second)
	if pos >= float64(len(c.path)-1) {
		c.segment = len(c.path) - 1
		c.progress = 0
		c.rendered = c.Origin(c.path[len(c.path)-1])
		c.phase = Done
		return c.phase
	}
	c.segment = int(pos)
	c.progress = float32(pos - float64(c.segment))
	c.rendered, _ = c.At(c.segment, c.progress)
	return c.phase
}

// At is the interpolation law: the rendered point at progress t in [0,1]
// along segment i of the loaded path, for the current piece.
// Reports false when the loaded path has no segment i.
func (c *Controller) At(i int, t float32) (Point, bool) {
	if i < 0 || i >= len(c.path)-1 {
		return Point{}, false
	}
	s, e := c.Origin(c.path[i]), c.Origin(c.path[i+1])
	lift := math32.Sin(t*math32.Pi) * c.arc()
	return Point{
		X: s.X + (e.X-s.X)*t,
		Y: s.Y + (e.Y-s.Y)*t - lift,
	}, true
}

// Stop cancels any animation and returns to Idle with nothing rendered.
func (c *Controller) Stop() {
	c.phase = Idle
	c.path = nil
	c.segment, c.progress, c.elapsed = 0, 0, 0
	c.rendered, c.hasRendered = Point{}, false
}

// Phase returns the lifecycle phase.
func (c *Controller) Phase() Phase { return c.phase }

// Piece returns the piece whose arc is in use.
func (c *Controller) Piece() movement.PieceKind { return c.piece }

// Segment returns the index of the segment being animated.
func (c *Controller) Segment() int { return c.segment }

// Progress returns the fraction of the current segment covered, in [0,1).
func (c *Controller) Progress() float32 { return c.progress }

// Rendered returns where the piece should be drawn, if anywhere.
func (c *Controller) Rendered() (Point, bool) { return c.rendered, c.hasRendered }

// Path returns a copy of the loaded path.
func (c *Controller) Path() search.Path { return c.path.Clone() }
