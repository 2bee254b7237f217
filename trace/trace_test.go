package trace_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/awalterschulze/gographviz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/piecepath/board"
	"github.com/katalvlaran/piecepath/session"
	"github.com/katalvlaran/piecepath/trace"
)

// foundSnapshot runs a knight from a8 to b6 until the path is found.
func foundSnapshot(t *testing.T) session.Snapshot {
	t.Helper()
	s, err := session.New()
	require.NoError(t, err)
	require.True(t, s.Click(board.At(0, 0)))
	require.True(t, s.Click(board.At(1, 2)))
	require.True(t, s.BeginSearch())
	for i := 0; s.Phase() == session.Searching; i++ {
		require.Less(t, i, 100)
		s.Tick(time.Second)
	}
	return s.Snapshot()
}

func parse(t *testing.T, dot string) *gographviz.Graph {
	t.Helper()
	g, err := gographviz.Read([]byte(dot))
	require.NoError(t, err, dot)
	return g
}

func TestDOT_FoundPath(t *testing.T) {
	snap := foundSnapshot(t)
	out, err := trace.DOT(snap)
	require.NoError(t, err)

	g := parse(t, out)
	assert.Equal(t, trace.GraphName, g.Name)
	assert.True(t, g.Directed)

	got := map[[2]string]*gographviz.Edge{}
	for _, e := range g.Edges.Edges {
		got[[2]string{e.Src, e.Dst}] = e
	}
	require.Len(t, got, len(snap.Edges))
	for _, e := range snap.Edges {
		assert.Contains(t, got, [2]string{e.From.String(), e.To.String()})
	}

	pathEdge := got[[2]string{"a8", "b6"}]
	require.NotNil(t, pathEdge)
	assert.Equal(t, "green", pathEdge.Attrs["color"])
	assert.Empty(t, got[[2]string{"a8", "c7"}].Attrs["color"])

	b6 := g.Nodes.Lookup["b6"]
	require.NotNil(t, b6)
	assert.Equal(t, "gold", b6.Attrs["fillcolor"])
	assert.Equal(t, "doublecircle", b6.Attrs["shape"])
	assert.Empty(t, g.Nodes.Lookup["e6"].Attrs["fillcolor"])
	for _, p := range snap.Visited {
		assert.Contains(t, g.Nodes.Lookup, p.String())
	}
}

func TestDOT_SelectionOnly(t *testing.T) {
	s, err := session.New()
	require.NoError(t, err)
	require.True(t, s.Click(board.At(4, 4)))

	out, err := trace.DOT(s.Snapshot())
	require.NoError(t, err)
	g := parse(t, out)
	assert.Len(t, g.Nodes.Nodes, 1)
	assert.Empty(t, g.Edges.Edges)
	require.Contains(t, g.Nodes.Lookup, "e4")
}

func TestDOT_Empty(t *testing.T) {
	out, err := trace.DOT(session.Snapshot{})
	require.NoError(t, err)
	g := parse(t, out)
	assert.Empty(t, g.Nodes.Nodes)
}

func TestWriteDOT(t *testing.T) {
	snap := foundSnapshot(t)
	var buf bytes.Buffer
	require.NoError(t, trace.WriteDOT(&buf, snap))
	want, err := trace.DOT(snap)
	require.NoError(t, err)
	assert.Equal(t, want, buf.String())
	assert.Contains(t, buf.String(), "digraph piecepath")
}
