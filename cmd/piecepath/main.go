// Command piecepath runs one breadth-first piece search headlessly and prints
// the explored board, the shortest path and, optionally, a DOT trace.
//
//	piecepath -piece knight -from a8 -to h1 -dot trace.dot
//
// Every flag falls back to a PIECEPATH_* environment variable, and a .env file
// in the working directory is loaded first when present.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/movement"
	"github.com/katalvlaran/piecepath/session"
	"github.com/katalvlaran/piecepath/trace"
)

// maxTicks bounds the simulated clock so a misconfiguration cannot spin forever.
const maxTicks = 1_000_000

type params struct {
	piece    string
	from, to string
	step     time.Duration
	frame    time.Duration
	rate     float64
	dotPath  string
	logLevel string
}

func main() {
	_ = godotenv.Load()
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "piecepath:", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	p, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	lvl, err := zerolog.ParseLevel(p.logLevel)
	if err != nil {
		return errors.Wrapf(err, "log level %q", p.logLevel)
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: stderr, NoColor: true}).
		Level(lvl).With().Timestamp().Logger()

	kind, err := movement.ParseKind(p.piece)
	if err != nil {
		return errors.Wrap(err, "piece")
	}
	start, err := board.ParseSquare(p.from)
	if err != nil {
		return errors.Wrap(err, "start square")
	}
	goal, err := board.ParseSquare(p.to)
	if err != nil {
		return errors.Wrap(err, "goal square")
	}

	cfg := session.DefaultConfig()
	cfg.Piece = kind
	cfg.StepInterval = p.step
	cfg.PlaybackRate = float32(p.rate)
	s, err := session.New(session.WithConfig(cfg), session.WithLogger(logger))
	if err != nil {
		return errors.Wrap(err, "session")
	}

	if !s.Click(start) || !s.Click(goal) || !s.BeginSearch() {
		return errors.Errorf("cannot search from %v to %v", start, goal)
	}
	ticks := 0
	for s.Phase() != session.Done {
		if ticks == maxTicks {
			return errors.Errorf("no result after %d ticks", ticks)
		}
		s.Tick(p.frame)
		ticks++
	}

	snap := s.Snapshot()
	writeBoard(stdout, snap)
	if snap.Path == nil {
		fmt.Fprintf(stdout, "%s cannot reach %v from %v (%d steps, %d squares visited)\n",
			snap.Piece, goal, start, snap.Steps, len(snap.Visited))
	} else {
		fmt.Fprintf(stdout, "%s: %d moves: %v (%d steps)\n", snap.Piece, snap.Path.Moves(), snap.Path, snap.Steps)
	}
	logger.Debug().Int("ticks", ticks).Dur("simulated", time.Duration(ticks)*p.frame).Msg("run finished")

	if p.dotPath == "" {
		return nil
	}
	if err := writeDOTFile(p.dotPath, snap); err != nil {
		return err
	}
	logger.Info().Str("file", p.dotPath).Msg("trace written")
	return nil
}

// createFile opens the DOT output; replaced in tests.
var createFile = func(name string) (io.WriteCloser, error) { return os.Create(name) }

// writeDOTFile writes the trace of snap to name. A failed Close is reported,
// since it may be the write that flushed the data.
func writeDOTFile(name string, snap session.Snapshot) error {
	f, err := createFile(name)
	if err != nil {
		return errors.Wrap(err, "dot output")
	}
	if err := trace.WriteDOT(f, snap); err != nil {
		f.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "close dot output")
	}
	return nil
}

func parseFlags(args []string, stderr io.Writer) (params, error) {
	var p params
	fs := flag.NewFlagSet("piecepath", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&p.piece, "piece", getEnv("PIECEPATH_PIECE", "knight"), "piece: knight, king, rook, bishop or queen")
	fs.StringVar(&p.from, "from", getEnv("PIECEPATH_FROM", "a8"), "start square")
	fs.StringVar(&p.to, "to", getEnv("PIECEPATH_TO", "h1"), "goal square")
	fs.StringVar(&p.dotPath, "dot", getEnv("PIECEPATH_DOT", ""), "write the exploration trace as DOT to this file")
	fs.StringVar(&p.logLevel, "log-level", getEnv("LOG_LEVEL", "warn"), "zerolog level")
	fs.Float64Var(&p.rate, "rate", 3, "playback speed in segments per second")
	fs.DurationVar(&p.step, "step", 60*time.Millisecond, "minimum simulated time between search steps")
	fs.DurationVar(&p.frame, "frame", 16*time.Millisecond, "simulated tick length")
	for flagName, env := range map[string]string{
		"rate":  "PIECEPATH_RATE",
		"step":  "PIECEPATH_STEP_INTERVAL",
		"frame": "PIECEPATH_FRAME",
	} {
		if v := os.Getenv(env); v != "" {
			if err := fs.Set(flagName, v); err != nil {
				return p, errors.Wrapf(err, "%s", env)
			}
		}
	}
	if err := fs.Parse(args); err != nil {
		return p, err
	}
	if fs.NArg() > 0 {
		return p, errors.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if p.frame <= 0 {
		return p, errors.Errorf("frame must be positive, got %v", p.frame)
	}
	return p, nil
}

// writeBoard prints the board top rank first: S start, G goal, * path,
// o visited, . untouched.
func writeBoard(w io.Writer, snap session.Snapshot) {
	visited := make(map[board.Position]bool, len(snap.Visited))
	for _, p := range snap.Visited {
		visited[p] = true
	}
	var sb strings.Builder
	for row := 0; row < board.Size; row++ {
		fmt.Fprintf(&sb, "%d ", board.Size-row)
		for col := 0; col < board.Size; col++ {
			p := board.At(col, row)
			c := '.'
			switch {
			case snap.Selection.HasStart && p == snap.Selection.Start:
				c = 'S'
			case snap.Selection.HasGoal && p == snap.Selection.Goal:
				c = 'G'
			case snap.OnPath(p):
				c = '*'
			case visited[p]:
				c = 'o'
			}
			sb.WriteRune(c)
			if col < board.Size-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("  a b c d e f g h\n")
	io.WriteString(w, sb.String())
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
