// Package trace exports the exploration state of a session as a Graphviz DOT
// digraph: visited squares become nodes, discovered edges become arcs, and the
// found path is highlighted.
package trace

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/search"
	"github.com/katalvlaran/piecepath/session"
)

// GraphName is the name of the emitted digraph.
const GraphName = "piecepath"

// ErrExport wraps every failure raised while assembling the DOT graph.
var ErrExport = errors.New("trace: export failed")

var (
	pathNodeAttrs = map[string]string{"style": "filled", "fillcolor": "gold"}
	pathEdgeAttrs = map[string]string{"color": "green", "penwidth": "2"}
)

// DOT renders snap as a DOT digraph.
func DOT(snap session.Snapshot) (string, error) {
	g := gographviz.NewGraph()
	if err := g.SetName(GraphName); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	if err := g.SetDir(true); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}
	label := strconv.Quote(fmt.Sprintf("%s %s", snap.Piece, snap.SearchPhase))
	if err := g.AddAttr(GraphName, "label", label); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExport, err)
	}

	onPath := make(map[board.Position]bool, len(snap.Path))
	for _, p := range snap.Path {
		onPath[p] = true
	}
	pathEdges := make(map[search.Edge]bool, snap.Path.Moves())
	for i := 1; i < len(snap.Path); i++ {
		pathEdges[search.Edge{From: snap.Path[i-1], To: snap.Path[i]}] = true
	}

	added := make(map[board.Position]bool)
	addNode := func(p board.Position) error {
		if added[p] {
			return nil
		}
		added[p] = true
		attrs := map[string]string{}
		if onPath[p] {
			for k, v := range pathNodeAttrs {
				attrs[k] = v
			}
		}
		sel := snap.Selection
		if (sel.HasStart && p == sel.Start) || (sel.HasGoal && p == sel.Goal) {
			attrs["shape"] = "doublecircle"
		}
		if err := g.AddNode(GraphName, nodeID(p), attrs); err != nil {
			return fmt.Errorf("%w: node %v: %v", ErrExport, p, err)
		}
		return nil
	}

	if snap.Selection.HasStart {
		if err := addNode(snap.Selection.Start); err != nil {
			return "", err
		}
	}
	if snap.Selection.HasGoal {
		if err := addNode(snap.Selection.Goal); err != nil {
			return "", err
		}
	}
	for _, p := range snap.Visited {
		if err := addNode(p); err != nil {
			return "", err
		}
	}
	for _, e := range snap.Edges {
		if err := addNode(e.From); err != nil {
			return "", err
		}
		if err := addNode(e.To); err != nil {
			return "", err
		}
		var attrs map[string]string
		if pathEdges[e] {
			attrs = pathEdgeAttrs
		}
		if err := g.AddEdge(nodeID(e.From), nodeID(e.To), true, attrs); err != nil {
			return "", fmt.Errorf("%w: edge %v: %v", ErrExport, e, err)
		}
	}
	return g.String(), nil
}

// WriteDOT writes the DOT rendering of snap to w.
func WriteDOT(w io.Writer, snap session.Snapshot) error {
	s, err := DOT(snap)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, s)
	return err
}

// nodeID names a square by its algebraic notation.
func nodeID(p board.Position) string { return p.String() }
