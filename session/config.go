package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"github.com/hashicorp/go-multierror"

	"github.com/katalvlaran/piecepath/movement"
	"github.com/katalvlaran/piecepath/playback"
)

// ErrInvalidConfig marks every violation reported by Config.Validate.
var ErrInvalidConfig = errors.New("session: invalid configuration")

// Config holds the tunables of a session.
type Config struct {
	// StepInterval is the minimum simulated time between two search steps.
	// Zero steps on every tick.
	StepInterval time.Duration
	// PlaybackRate is the animation speed in path segments per second.
	PlaybackRate float32
	// CellSize is the board cell edge in pixels.
	CellSize float32
	// JumpArc and SlideArc are the animation arc heights in pixels.
	JumpArc  float32
	SlideArc float32
	// Piece is the piece selected when the session starts.
	Piece movement.PieceKind
}

// DefaultConfig returns a 60ms step interval, 3 segments/s playback on 80px
// cells, 20px/8px arcs and the knight.
func DefaultConfig() Config {
	return Config{
		StepInterval: 60 * time.Millisecond,
		PlaybackRate: 3,
		CellSize:     80,
		JumpArc:      20,
		SlideArc:     8,
		Piece:        movement.Knight,
	}
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var result *multierror.Error
	if c.StepInterval < 0 {
		result = multierror.Append(result, fmt.Errorf("%w: step interval cannot be negative (%v)", ErrInvalidConfig, c.StepInterval))
	}
	if !(c.PlaybackRate > 0) || math32.IsInf(c.PlaybackRate, 1) {
		result = multierror.Append(result, fmt.Errorf("%w: playback rate must be positive and finite (%v)", ErrInvalidConfig, c.PlaybackRate))
	}
	if !(c.CellSize > 0) || math32.IsInf(c.CellSize, 1) {
		result = multierror.Append(result, fmt.Errorf("%w: cell size must be positive and finite (%v)", ErrInvalidConfig, c.CellSize))
	}
	if !(c.JumpArc >= 0) || !(c.SlideArc >= 0) || math32.IsInf(c.JumpArc, 1) || math32.IsInf(c.SlideArc, 1) {
		result = multierror.Append(result, fmt.Errorf("%w: arc heights must be finite and not negative (%v, %v)", ErrInvalidConfig, c.JumpArc, c.SlideArc))
	}
	if !c.Piece.Valid() {
		result = multierror.Append(result, fmt.Errorf("%w: %v", ErrInvalidConfig, c.Piece))
	}
	return result.ErrorOrNil()
}

// playbackOptions translates the config into playback options.
func (c Config) playbackOptions() []playback.Option {
	return []playback.Option{
		playback.WithRate(c.PlaybackRate),
		playback.WithCellSize(c.CellSize),
		playback.WithArcHeights(c.JumpArc, c.SlideArc),
	}
}
