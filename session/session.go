// Package session ties the search engine and the playback controller into one
// interactive timeline and maps input events onto legal commands.
//
// A Session moves through Selecting → Searching → Animating → Done. Exactly
// one of search stepping and playback advancing is active at a time, both
// driven by Tick. Illegal commands are no-ops: every command returns whether
// it was honored, and nothing returns an error once the session is built.
//
// Out-of-range clicks are ignored here rather than filtered by the caller.
package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/movement"
	"github.com/katalvlaran/piecepath/playback"
	"github.com/katalvlaran/piecepath/search"
)

// Phase is the session-level state.
type Phase int

const (
	// Selecting accepts start/goal clicks and piece changes.
	Selecting Phase = iota
	// Searching steps the engine on each paced tick.
	Searching
	// Animating advances playback along the found path.
	Animating
	// Done holds the final result until the next click or reset.
	Done
)

func (p Phase) String() string {
	switch p {
	case Selecting:
		return "selecting"
	case Searching:
		return "searching"
	case Animating:
		return "animating"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Selection is the start/goal pair chosen on the board.
type Selection struct {
	Start, Goal       board.Position
	HasStart, HasGoal bool
}

// Option configures a Session.
type Option func(*options)

type options struct {
	cfg        Config
	log        zerolog.Logger
	searchOpts []search.Option
}

// WithConfig replaces DefaultConfig.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the structured logger; the default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithSearchOptions forwards hooks to the underlying search engine.
func WithSearchOptions(opts ...search.Option) Option {
	return func(o *options) { o.searchOpts = append(o.searchOpts, opts...) }
}

// Session owns the selection and the two state machines of one board.
// It is not safe for concurrent use.
type Session struct {
	cfg Config
	log zerolog.Logger

	phase  Phase
	sel    Selection
	piece  movement.PieceKind
	engine *search.Engine
	player *playback.Controller
	path   search.Path

	sinceStep time.Duration
	steps     int
}

// New builds a Session in the Selecting phase.
// Returns an error wrapping ErrInvalidConfig for a bad Config.
func New(opts ...Option) (*Session, error) {
	o := options{cfg: DefaultConfig(), log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{cfg: o.cfg, log: o.log, piece: o.cfg.Piece}

	rule, err := movement.ForKind(o.cfg.Piece)
	if err != nil {
		return nil, err
	}
	// The phase hook is chained: log first, then whatever the caller registered.
	user := search.DefaultOptions()
	for _, opt := range o.searchOpts {
		opt(&user)
	}
	searchOpts := append(o.searchOpts[:len(o.searchOpts):len(o.searchOpts)],
		search.WithOnPhase(func(from, to search.Phase) {
			s.log.Debug().Stringer("from", from).Stringer("to", to).Msg("search phase")
			user.OnPhase(from, to)
		}))
	if s.engine, err = search.NewEngine(rule, searchOpts...); err != nil {
		return nil, err
	}
	if s.player, err = playback.NewController(o.cfg.Piece, o.cfg.playbackOptions()...); err != nil {
		return nil, err
	}
	return s, nil
}

// Handle dispatches one input event and reports whether it was honored.
func (s *Session) Handle(ev Event) bool {
	switch ev.Kind {
	case Click:
		return s.Click(ev.Pos)
	case SelectPiece:
		k, err := movement.FromKey(ev.Key)
		if err != nil {
			s.log.Debug().Err(err).Msg("piece key ignored")
			return false
		}
		return s.SelectPiece(k)
	case BeginSearch:
		return s.BeginSearch()
	case Reset:
		s.Reset()
		return true
	default:
		s.log.Debug().Stringer("kind", ev.Kind).Msg("unknown event ignored")
		return false
	}
}

// Click applies the board-click rules:
//   - while Animating or Done, any click resets;
//   - while Searching, clicks are ignored;
//   - the first click sets the start, the next click on another cell sets the goal;
//   - with both set, a click on any third cell resets.
func (s *Session) Click(p board.Position) bool {
	if !p.InBounds() {
		s.log.Debug().Int("col", p.Col).Int("row", p.Row).Msg("click off board ignored")
		return false
	}
	switch {
	case s.phase == Animating || s.phase == Done:
		s.Reset()
		return true
	case s.phase == Searching:
		s.log.Debug().Stringer("pos", p).Msg("click during search ignored")
		return false
	case !s.sel.HasStart:
		if !s.accept(s.engine.SetStart(p), "start") {
			return false
		}
		s.sel.Start, s.sel.HasStart = p, true
		s.player.Place(p)
		s.log.Debug().Stringer("pos", p).Msg("start selected")
		return true
	case !s.sel.HasGoal:
		if !s.accept(s.engine.SetGoal(p), "goal") {
			return false
		}
		s.sel.Goal, s.sel.HasGoal = p, true
		s.log.Debug().Stringer("pos", p).Msg("goal selected")
		return true
	case p != s.sel.Start && p != s.sel.Goal:
		s.Reset()
		return true
	}
	return false
}

// accept logs a rejected engine command and reports whether err was nil.
func (s *Session) accept(err error, what string) bool {
	if err == nil {
		return true
	}
	if !errors.Is(err, search.ErrInvalidSelection) && !errors.Is(err, search.ErrPreconditionNotMet) {
		s.log.Warn().Err(err).Str("command", what).Msg("unexpected engine error")
		return false
	}
	s.log.Debug().Err(err).Str("command", what).Msg("command rejected")
	return false
}

// SelectPiece switches the active piece in any phase. A search in flight is
// not restarted: it keeps its explored edges and continues with the new rule.
func (s *Session) SelectPiece(k movement.PieceKind) bool {
	rule, err := movement.ForKind(k)
	if err != nil {
		s.log.Debug().Err(err).Msg("piece ignored")
		return false
	}
	if err := s.engine.SetRule(rule); err != nil {
		return s.accept(err, "piece")
	}
	s.player.SetPiece(k)
	s.piece = k
	s.log.Debug().Stringer("piece", k).Stringer("phase", s.phase).Msg("piece selected")
	return true
}

// BeginSearch starts the search when both endpoints are set and nothing has run yet.
func (s *Session) BeginSearch() bool {
	if s.phase != Selecting {
		s.log.Debug().Stringer("phase", s.phase).Msg("begin search ignored")
		return false
	}
	if !s.accept(s.engine.Start(), "begin") {
		return false
	}
	s.phase = Searching
	s.sinceStep, s.steps = 0, 0
	s.log.Info().
		Stringer("piece", s.piece).
		Stringer("start", s.sel.Start).
		Stringer("goal", s.sel.Goal).
		Msg("search started")
	return true
}

// Reset returns selection, engine and playback to their initial state.
// The selected piece is kept.
func (s *Session) Reset() {
	s.engine.Reset()
	s.player.Stop()
	s.sel = Selection{}
	s.path = nil
	s.phase = Selecting
	s.sinceStep, s.steps = 0, 0
	s.log.Debug().Msg("session reset")
}

// Tick advances simulated time by dt. While Searching, at most one search step
// runs per tick, and only once StepInterval has elapsed since the previous one.
// While Animating, playback advances by dt. Other phases ignore ticks, and
// a negative dt is ignored everywhere.
func (s *Session) Tick(dt time.Duration) Phase {
	switch s.phase {
	case Searching:
		if dt < 0 {
			return s.phase
		}
		s.sinceStep += dt
		if s.sinceStep < s.cfg.StepInterval {
			return s.phase
		}
		s.sinceStep = 0
		s.step()
	case Animating:
		if s.player.Advance(dt) == playback.Done {
			s.phase = Done
			s.log.Info().Stringer("at", s.path[len(s.path)-1]).Msg("playback finished")
		}
	}
	return s.phase
}

// step performs one engine step and handles terminal transitions.
func (s *Session) step() {
	phase, err := s.engine.Step()
	if err != nil {
		s.log.Warn().Err(err).Msg("search step failed")
		return
	}
	s.steps++
	switch phase {
	case search.GoalFound:
		path, err := search.BuildPath(s.engine)
		if err != nil {
			// BuildPath cannot fail right after GoalFound.
			panic(err)
		}
		s.path = path
		s.log.Info().
			Int("steps", s.steps).
			Int("moves", path.Moves()).
			Stringer("path", path).
			Msg("goal found")
		if err := s.player.Begin(path); err != nil {
			panic(err)
		}
		s.phase = Animating
		if s.player.Phase() == playback.Done {
			s.phase = Done
		}
	case search.Exhausted:
		s.phase = Done
		s.log.Info().Int("steps", s.steps).Int("visited", len(s.engine.Visited())).Msg("goal unreachable")
	}
}

// Phase returns the session phase.
func (s *Session) Phase() Phase { return s.phase }

// Piece returns the active piece.
func (s *Session) Piece() movement.PieceKind { return s.piece }

// Selection returns the current start/goal selection.
func (s *Session) Selection() Selection { return s.sel }

// Path returns the found path, or nil if none exists yet.
func (s *Session) Path() search.Path { return s.path.Clone() }

// Steps returns the number of search steps taken since the search began.
func (s *Session) Steps() int { return s.steps }

// Config returns the configuration in use.
func (s *Session) Config() Config { return s.cfg }
