package session_test

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/movement"
	"github.com/katalvlaran/piecepath/playback"
	"github.com/katalvlaran/piecepath/search"
	"github.com/katalvlaran/piecepath/session"
)

const frame = 20 * time.Millisecond

func at(col, row int) board.Position { return board.At(col, row) }

func newSession(t *testing.T, opts ...session.Option) *session.Session {
	t.Helper()
	s, err := session.New(opts...)
	require.NoError(t, err)
	return s
}

// tickUntil ticks s with dt until its phase leaves from, failing after limit ticks.
func tickUntil(t *testing.T, s *session.Session, from session.Phase, dt time.Duration, limit int) int {
	t.Helper()
	n := 0
	for s.Phase() == from {
		require.Less(t, n, limit, "still %v after %d ticks", from, n)
		s.Tick(dt)
		n++
	}
	return n
}

// selectAndSearch clicks start and goal, then begins the search.
func selectAndSearch(t *testing.T, s *session.Session, start, goal board.Position) {
	t.Helper()
	require.True(t, s.Click(start))
	require.True(t, s.Click(goal))
	require.True(t, s.BeginSearch())
	require.Equal(t, session.Searching, s.Phase())
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, session.DefaultConfig().Validate())

	cfg := session.Config{
		StepInterval: -time.Millisecond,
		PlaybackRate: 0,
		CellSize:     80,
		JumpArc:      -1,
		Piece:        movement.PieceKind(7),
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, session.ErrInvalidConfig))
	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 4)

	_, err = session.New(session.WithConfig(cfg))
	assert.ErrorIs(t, err, session.ErrInvalidConfig)
}

// TestFullRun_Knight walks the whole timeline for the one-jump knight case.
func TestFullRun_Knight(t *testing.T) {
	s := newSession(t)
	selectAndSearch(t, s, at(0, 0), at(1, 2))

	// 60ms interval at 20ms frames: a step every third tick, three steps in total.
	ticks := tickUntil(t, s, session.Searching, frame, 100)
	assert.Equal(t, 9, ticks)
	assert.Equal(t, 3, s.Steps())
	require.Equal(t, session.Animating, s.Phase())
	if diff := cmp.Diff(search.Path{at(0, 0), at(1, 2)}, s.Path()); diff != "" {
		t.Errorf("path mismatch (-want +got):\n%s", diff)
	}

	snap := s.Snapshot()
	assert.Equal(t, search.GoalFound, snap.SearchPhase)
	assert.Equal(t, playback.Animating, snap.PlaybackPhase)
	assert.Equal(t, playback.Point{X: 0, Y: 0}, snap.Rendered)
	assert.Len(t, snap.Edges, 7)
	assert.True(t, snap.OnPath(at(1, 2)))
	assert.False(t, snap.OnPath(at(2, 1)))

	tickUntil(t, s, session.Animating, frame, 100)
	require.Equal(t, session.Done, s.Phase())
	snap = s.Snapshot()
	assert.Equal(t, playback.Done, snap.PlaybackPhase)
	assert.Equal(t, playback.Point{X: 80, Y: 160}, snap.Rendered)

	// Done ignores ticks; a click resets.
	assert.Equal(t, session.Done, s.Tick(time.Second))
	assert.True(t, s.Click(at(4, 4)))
	assert.Equal(t, session.Selecting, s.Phase())
	assert.Equal(t, session.Selection{}, s.Selection())
	assert.Nil(t, s.Path())
}

// TestTick_Pacing verifies at most one step per tick and the minimum interval.
func TestTick_Pacing(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.StepInterval = 100 * time.Millisecond
	s := newSession(t, session.WithConfig(cfg))
	selectAndSearch(t, s, at(0, 0), at(7, 7))

	s.Tick(99 * time.Millisecond)
	assert.Equal(t, 0, s.Steps())
	s.Tick(time.Millisecond)
	assert.Equal(t, 1, s.Steps())
	s.Tick(10 * time.Second)
	assert.Equal(t, 2, s.Steps(), "a long tick still takes one step")

	cfg.StepInterval = 0
	fast := newSession(t, session.WithConfig(cfg))
	selectAndSearch(t, fast, at(0, 0), at(1, 2))
	fast.Tick(0)
	fast.Tick(0)
	assert.Equal(t, 2, fast.Steps())
}

// TestClickRules covers every branch of the click legality table.
func TestClickRules(t *testing.T) {
	s := newSession(t)

	assert.False(t, s.Click(at(8, 3)), "off-board click")
	assert.False(t, s.Click(at(-1, 0)), "off-board click")

	require.True(t, s.Click(at(2, 2)))
	snap := s.Snapshot()
	assert.True(t, snap.HasRendered, "start click places the piece")
	assert.Equal(t, playback.Point{X: 160, Y: 160}, snap.Rendered)

	assert.False(t, s.Click(at(2, 2)), "goal cannot equal start")
	assert.Equal(t, session.Selection{Start: at(2, 2), HasStart: true}, s.Selection())

	require.True(t, s.Click(at(5, 6)))
	assert.Equal(t, session.Selection{Start: at(2, 2), Goal: at(5, 6), HasStart: true, HasGoal: true}, s.Selection())

	assert.False(t, s.Click(at(2, 2)), "re-clicking start is ignored")
	assert.False(t, s.Click(at(5, 6)), "re-clicking goal is ignored")
	assert.True(t, s.Click(at(0, 0)), "third cell resets")
	assert.Equal(t, session.Selection{}, s.Selection())
	assert.False(t, s.Snapshot().HasRendered)

	selectAndSearch(t, s, at(0, 0), at(7, 7))
	assert.False(t, s.Click(at(3, 3)), "clicks are ignored while searching")
	assert.Equal(t, session.Searching, s.Phase())

	tickUntil(t, s, session.Searching, frame, 10000)
	require.Equal(t, session.Animating, s.Phase())
	assert.True(t, s.Click(at(3, 3)), "click while animating resets")
	assert.Equal(t, session.Selecting, s.Phase())
	assert.Equal(t, search.Idle, s.Snapshot().SearchPhase)
	assert.Equal(t, playback.Idle, s.Snapshot().PlaybackPhase)
}

func TestBeginSearch_Preconditions(t *testing.T) {
	s := newSession(t)
	assert.False(t, s.BeginSearch())
	require.True(t, s.Click(at(0, 0)))
	assert.False(t, s.BeginSearch())
	assert.Equal(t, session.Selecting, s.Phase())

	require.True(t, s.Click(at(3, 3)))
	require.True(t, s.BeginSearch())
	assert.False(t, s.BeginSearch(), "already searching")

	tickUntil(t, s, session.Searching, frame, 10000)
	assert.False(t, s.BeginSearch(), "path already found")
}

// TestSelectPiece_MidSearch pins that a piece switch neither resets nor restarts the search.
func TestSelectPiece_MidSearch(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.StepInterval = 0
	s := newSession(t, session.WithConfig(cfg))
	selectAndSearch(t, s, at(0, 0), at(7, 7))
	s.Tick(frame)
	before := s.Snapshot().Edges
	require.Len(t, before, 2)

	require.True(t, s.SelectPiece(movement.King))
	assert.Equal(t, session.Searching, s.Phase())
	assert.Equal(t, movement.King, s.Piece())
	assert.Equal(t, before, s.Snapshot().Edges)

	s.Tick(frame) // pops c7 and expands it with king moves
	after := s.Snapshot().Edges
	assert.Equal(t, before, after[:2])
	assert.Len(t, after, 2+7)

	tickUntil(t, s, session.Searching, frame, 1000)
	assert.Equal(t, session.Animating, s.Phase())

	assert.False(t, s.SelectPiece(movement.PieceKind(42)))
	require.True(t, s.SelectPiece(movement.Queen), "piece changes are allowed while animating")
	assert.Equal(t, movement.Queen, s.Snapshot().Piece)
}

// TestReset_Unconditional resets from the middle of a search and keeps the piece.
func TestReset_Unconditional(t *testing.T) {
	s := newSession(t)
	require.True(t, s.SelectPiece(movement.Rook))
	selectAndSearch(t, s, at(0, 0), at(3, 3))
	s.Tick(time.Second)
	require.Equal(t, 1, s.Steps())

	s.Reset()
	snap := s.Snapshot()
	assert.Equal(t, session.Selecting, snap.Phase)
	assert.Equal(t, search.Idle, snap.SearchPhase)
	assert.Empty(t, snap.Visited)
	assert.Empty(t, snap.Edges)
	assert.False(t, snap.HasCurrent)
	assert.Equal(t, 0, snap.Steps)
	assert.Equal(t, movement.Rook, snap.Piece)
	assert.Equal(t, session.Selecting, s.Tick(time.Second))
}

// TestExhausted_Bishop covers the unreachable case on opposite colours.
func TestExhausted_Bishop(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.Piece = movement.Bishop
	cfg.StepInterval = 0
	s := newSession(t, session.WithConfig(cfg))
	selectAndSearch(t, s, at(0, 0), at(0, 1))

	tickUntil(t, s, session.Searching, frame, 1000)
	assert.Equal(t, session.Done, s.Phase())
	assert.Nil(t, s.Path())
	snap := s.Snapshot()
	assert.Equal(t, search.Exhausted, snap.SearchPhase)
	assert.Equal(t, playback.Idle, snap.PlaybackPhase)
	assert.Len(t, snap.Visited, board.Cells/2)

	assert.True(t, s.Click(at(0, 1)))
	assert.Equal(t, session.Selecting, s.Phase())
}

// TestHandle_Events drives the session purely through input events.
func TestHandle_Events(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.StepInterval = 0
	s := newSession(t, session.WithConfig(cfg))

	key := func(r rune) session.Event {
		ev, ok := session.KeyEvent(r)
		require.True(t, ok, "key %q", r)
		return ev
	}
	_, ok := session.KeyEvent('x')
	assert.False(t, ok)

	assert.True(t, s.Handle(key('2')))
	assert.Equal(t, movement.King, s.Piece())
	assert.False(t, s.Handle(session.Event{Kind: session.SelectPiece, Key: 9}))
	assert.False(t, s.Handle(session.Event{Kind: session.EventKind(99)}))
	assert.False(t, s.Handle(key(' ')), "no selection yet")

	assert.True(t, s.Handle(session.ClickAt(0, 0)))
	assert.True(t, s.Handle(session.ClickAt(7, 7)))
	assert.True(t, s.Handle(key(' ')))
	tickUntil(t, s, session.Searching, frame, 1000)
	tickUntil(t, s, session.Animating, frame, 1000)
	assert.Equal(t, 7, s.Path().Moves())

	assert.True(t, s.Handle(key('R')))
	assert.Equal(t, session.Selecting, s.Phase())
	assert.Equal(t, "select-piece", session.SelectPiece.String())
}

// TestDeterminism runs two identical sessions and compares their exploration logs.
func TestDeterminism(t *testing.T) {
	run := func() session.Snapshot {
		s := newSession(t)
		require.True(t, s.SelectPiece(movement.Queen))
		selectAndSearch(t, s, at(1, 6), at(6, 1))
		tickUntil(t, s, session.Searching, frame, 10000)
		return s.Snapshot()
	}
	a, b := run(), run()
	if diff := cmp.Diff(a.Edges, b.Edges); diff != "" {
		t.Errorf("edge logs differ (-a +b):\n%s", diff)
	}
	assert.Equal(t, a.Path, b.Path)
}

// TestLogging checks the structured log lines of a search.
func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	cfg := session.DefaultConfig()
	cfg.StepInterval = 0

	var phases []search.Phase
	s := newSession(t,
		session.WithConfig(cfg),
		session.WithLogger(logger),
		session.WithSearchOptions(search.WithOnPhase(func(_, to search.Phase) { phases = append(phases, to) })),
	)
	selectAndSearch(t, s, at(0, 0), at(1, 2))
	tickUntil(t, s, session.Searching, frame, 100)
	tickUntil(t, s, session.Animating, frame, 100)

	out := buf.String()
	assert.Contains(t, out, `"message":"search started"`)
	assert.Contains(t, out, `"piece":"knight"`)
	assert.Contains(t, out, `"message":"goal found"`)
	assert.Contains(t, out, `"path":"a8 b6"`)
	assert.Contains(t, out, `"message":"playback finished"`)
	assert.NotContains(t, out, "search phase", "debug lines are filtered at info level")
	assert.Equal(t, []search.Phase{search.Running, search.GoalFound}, phases)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "searching", session.Searching.String())
	assert.Equal(t, "Phase(8)", session.Phase(8).String())
}

func TestLogging_DebugKeepsCallerHook(t *testing.T) {
	var buf bytes.Buffer
	calls := 0
	s := newSession(t,
		session.WithLogger(zerolog.New(&buf)),
		session.WithSearchOptions(search.WithOnPhase(func(_, _ search.Phase) { calls++ })),
	)
	require.True(t, s.Click(at(0, 0)))
	assert.Contains(t, buf.String(), `"message":"start selected"`)
	require.True(t, s.Click(at(1, 2)))
	require.True(t, s.BeginSearch())
	s.Reset()

	assert.Equal(t, 2, calls)
	assert.Contains(t, buf.String(), `"message":"search phase"`)
	assert.Contains(t, buf.String(), `"to":"running"`)
	assert.Contains(t, buf.String(), `"message":"session reset"`)
}

// TestTick_NegativeIgnored keeps a negative dt from pushing back the next step.
func TestTick_NegativeIgnored(t *testing.T) {
	s := newSession(t)
	selectAndSearch(t, s, at(0, 0), at(7, 7))
	assert.Equal(t, session.Searching, s.Tick(-time.Hour))
	s.Tick(60 * time.Millisecond)
	assert.Equal(t, 1, s.Steps())
}

// TestPlayback_ExactDuration ends on the goal when the ticks add up to exactly
// the animation length at the default rate.
func TestPlayback_ExactDuration(t *testing.T) {
	cfg := session.DefaultConfig()
	cfg.StepInterval = 0
	s := newSession(t, session.WithConfig(cfg))
	selectAndSearch(t, s, at(0, 0), at(3, 6))
	tickUntil(t, s, session.Searching, 10*time.Millisecond, 1000)
	require.Equal(t, session.Animating, s.Phase())
	require.Equal(t, 3, s.Path().Moves())

	// 3 segments at 3/s
	for i := 0; i < 99; i++ {
		require.Equal(t, session.Animating, s.Tick(10*time.Millisecond), "tick %d", i)
	}
	assert.Equal(t, session.Done, s.Tick(10*time.Millisecond))
	snap := s.Snapshot()
	assert.Equal(t, playback.Point{X: 240, Y: 480}, snap.Rendered)
}

func TestConfig_RejectsNonFinite(t *testing.T) {
	nan, inf := float32(math.NaN()), float32(math.Inf(1))
	for name, mutate := range map[string]func(*session.Config){
		"nan rate":  func(c *session.Config) { c.PlaybackRate = nan },
		"inf rate":  func(c *session.Config) { c.PlaybackRate = inf },
		"nan cell":  func(c *session.Config) { c.CellSize = nan },
		"inf arc":   func(c *session.Config) { c.JumpArc = inf },
		"nan slide": func(c *session.Config) { c.SlideArc = nan },
	} {
		t.Run(name, func(t *testing.T) {
			cfg := session.DefaultConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), session.ErrInvalidConfig)
		})
	}
}
