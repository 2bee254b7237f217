// Package piecepath is a step-wise breadth-first search of chess-piece movement
// on an 8x8 board, paced for visualisation and followed by an animated replay
// of the shortest path.
//
// The module is organised in small packages, lowest first:
//
//	board/     cell coordinates, bounds, ordering and algebraic square names
//	movement/  the five piece kinds and their move-generation rules
//	search/    the incremental BFS engine, its edge log and path reconstruction
//	playback/  the timed, arced animation along a found path
//	session/   the Selecting → Searching → Animating → Done timeline and input events
//	trace/     Graphviz DOT export of the explored graph
//
// and a headless command in cmd/piecepath.
//
// Quick example (knight from a8 to b6):
//
//	s, _ := session.New()
//	s.Click(board.At(0, 0))
//	s.Click(board.At(1, 2))
//	s.BeginSearch()
//	for s.Phase() != session.Done {
//		s.Tick(16 * time.Millisecond)
//	}
//	fmt.Println(s.Path()) // a8 b6
package piecepath
