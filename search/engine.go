package search

import (
	"context"
	"fmt"
	"slices"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/movement"
)

// queueItem pairs a frontier position with its BFS depth.
type queueItem struct {
	pos   board.Position
	depth int
}

// Engine is a breadth-first search that advances one pop per Step.
// It is not safe for concurrent use; a session drives it from one timeline.
type Engine struct {
	rule movement.Rule
	opts Options

	start, goal       board.Position
	hasStart, hasGoal bool

	phase      Phase
	frontier   []queueItem
	visited    map[board.Position]bool
	parent     map[board.Position]board.Position
	depth      map[board.Position]int
	edges      []Edge
	current    board.Position
	hasCurrent bool
}

// NewEngine returns an Idle engine expanding neighbors with rule.
// Returns ErrRuleNil if rule is nil.
func NewEngine(rule movement.Rule, opts ...Option) (*Engine, error) {
	if rule == nil {
		return nil, ErrRuleNil
	}
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{rule: rule, opts: o}
	e.clearTraversal()
	return e, nil
}

// clearTraversal drops every piece of traversal state but keeps the selection.
func (e *Engine) clearTraversal() {
	e.frontier = make([]queueItem, 0, board.Cells)
	e.visited = make(map[board.Position]bool, board.Cells)
	e.parent = make(map[board.Position]board.Position, board.Cells)
	e.depth = make(map[board.Position]int, board.Cells)
	e.edges = make([]Edge, 0, board.Cells)
	e.current, e.hasCurrent = board.Position{}, false
}

func (e *Engine) setPhase(to Phase) {
	from := e.phase
	e.phase = to
	e.opts.OnPhase(from, to)
}

// SetRule swaps the movement rule. Allowed in every phase: explored edges
// are kept and subsequent Steps expand with the new rule.
func (e *Engine) SetRule(rule movement.Rule) error {
	if rule == nil {
		return ErrRuleNil
	}
	e.rule = rule
	return nil
}

// SetStart selects the start position. Only legal while Idle, on the board,
// and different from the goal.
func (e *Engine) SetStart(p board.Position) error {
	if err := e.checkSelection(p, e.goal, e.hasGoal); err != nil {
		return err
	}
	e.start, e.hasStart = p, true
	return nil
}

// SetGoal selects the goal position under the same rules as SetStart.
func (e *Engine) SetGoal(p board.Position) error {
	if err := e.checkSelection(p, e.start, e.hasStart); err != nil {
		return err
	}
	e.goal, e.hasGoal = p, true
	return nil
}

func (e *Engine) checkSelection(p, other board.Position, hasOther bool) error {
	switch {
	case e.phase != Idle:
		return fmt.Errorf("%w: engine is %s", ErrInvalidSelection, e.phase)
	case !p.InBounds():
		return fmt.Errorf("%w: %v is off the board", ErrInvalidSelection, p)
	case hasOther && p == other:
		return fmt.Errorf("%w: start and goal must differ (%v)", ErrInvalidSelection, p)
	}
	return nil
}

// Start seeds the frontier with the start position and enters Running.
// Requires Idle with both start and goal selected.
func (e *Engine) Start() error {
	if e.phase != Idle {
		return fmt.Errorf("%w: start requires idle engine, have %s", ErrPreconditionNotMet, e.phase)
	}
	if !e.hasStart || !e.hasGoal {
		return fmt.Errorf("%w: start and goal must both be selected", ErrPreconditionNotMet)
	}
	e.clearTraversal()
	e.enqueue(e.start, 0)
	e.setPhase(Running)
	return nil
}

// enqueue marks p visited at depth d, calls OnEnqueue and appends it to the frontier.
// Parent links and edges are recorded by the caller.
func (e *Engine) enqueue(p board.Position, d int) {
	e.visited[p] = true
	e.depth[p] = d
	e.opts.OnEnqueue(p, d)
	e.frontier = append(e.frontier, queueItem{pos: p, depth: d})
}

// Step pops the head of the frontier. Popping the goal enters GoalFound;
// an empty frontier enters Exhausted; otherwise every undiscovered neighbor
// is enqueued in rule order. Returns the phase after the step, or
// ErrPreconditionNotMet (state untouched) unless Running.
func (e *Engine) Step() (Phase, error) {
	if e.phase != Running {
		return e.phase, fmt.Errorf("%w: step requires running engine, have %s", ErrPreconditionNotMet, e.phase)
	}
	if len(e.frontier) == 0 {
		e.setPhase(Exhausted)
		return e.phase, nil
	}

	item := e.frontier[0]
	e.frontier = e.frontier[1:]
	e.current, e.hasCurrent = item.pos, true
	e.opts.OnDequeue(item.pos, item.depth)

	if item.pos == e.goal {
		e.setPhase(GoalFound)
		return e.phase, nil
	}

	for _, nbr := range e.rule.MovesFrom(item.pos) {
		if e.visited[nbr] {
			continue
		}
		e.parent[nbr] = item.pos
		e.edges = append(e.edges, Edge{From: item.pos, To: nbr})
		e.enqueue(nbr, item.depth+1)
	}
	return e.phase, nil
}

// Reset discards the traversal and the selection and returns to Idle.
// It always succeeds.
func (e *Engine) Reset() {
	e.clearTraversal()
	e.start, e.hasStart = board.Position{}, false
	e.goal, e.hasGoal = board.Position{}, false
	if e.phase != Idle {
		e.setPhase(Idle)
	}
}

// Run starts the engine if it is Idle and steps it to a terminal phase,
// checking ctx between steps.
func Run(ctx context.Context, e *Engine) (Phase, error) {
	if e.Phase() == Idle {
		if err := e.Start(); err != nil {
			return e.Phase(), err
		}
	}
	for !e.Phase().Terminal() {
		select {
		case <-ctx.Done():
			return e.Phase(), ctx.Err()
		default:
		}
		if _, err := e.Step(); err != nil {
			return e.Phase(), err
		}
	}
	return e.Phase(), nil
}

// Phase returns the current lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Rule returns the active movement rule.
func (e *Engine) Rule() movement.Rule { return e.rule }

// StartPos returns the selected start, if any.
func (e *Engine) StartPos() (board.Position, bool) { return e.start, e.hasStart }

// GoalPos returns the selected goal, if any.
func (e *Engine) GoalPos() (board.Position, bool) { return e.goal, e.hasGoal }

// Current returns the position popped by the latest Step, if any.
func (e *Engine) Current() (board.Position, bool) { return e.current, e.hasCurrent }

// IsVisited reports whether p has been discovered.
func (e *Engine) IsVisited(p board.Position) bool { return e.visited[p] }

// Visited returns the discovered positions in column-major order.
func (e *Engine) Visited() []board.Position {
	out := make([]board.Position, 0, len(e.visited))
	for p := range e.visited {
		out = append(out, p)
	}
	slices.SortFunc(out, board.Compare)
	return out
}

// Parent returns the position p was discovered from. The start has none.
func (e *Engine) Parent(p board.Position) (board.Position, bool) {
	q, ok := e.parent[p]
	return q, ok
}

// Depth returns the BFS layer at which p was discovered.
func (e *Engine) Depth(p board.Position) (int, bool) {
	d, ok := e.depth[p]
	return d, ok
}

// Edges returns a copy of the explored-edge log in discovery order.
func (e *Engine) Edges() []Edge {
	return slices.Clone(e.edges)
}

// Frontier returns the queued, not yet popped positions in pop order.
func (e *Engine) Frontier() []board.Position {
	out := make([]board.Position, len(e.frontier))
	for i, it := range e.frontier {
		out[i] = it.pos
	}
	return out
}
