// Package search provides an incrementally stepped breadth-first search over
// the board under a movement.Rule, plus reconstruction of the shortest path
// from the parent links it records.
//
// What
//
//   - Engine owns the whole search state: FIFO frontier, visited set,
//     parent links, per-position depth, the ordered log of explored edges,
//     and the position popped most recently.
//   - Step performs exactly one frontier pop. Pacing is the caller's business:
//     a tick source calls Step as often as it likes, and Step never sleeps.
//   - Phases run Idle → Running → {Exhausted | GoalFound}. Reset returns to
//     Idle from anywhere and also forgets the start and goal.
//   - BuildPath walks parent links from the goal back to the start once the
//     engine reaches GoalFound.
//   - Hooks (WithOnEnqueue, WithOnDequeue, WithOnPhase) observe the traversal.
//
// Determinism
//
//	Neighbors are expanded in the order the Rule returns them, so the explored
//	edge log is identical for identical (rule, start, goal) inputs. The path
//	length never depends on that order: every position is enqueued once, at
//	its true distance from the start.
//
// Rule switching
//
//	SetRule may be called in any phase. A traversal already in flight keeps
//	the edges it explored so far and expands later pops with the new rule.
//
// Complexity
//
//	Step is O(b) for branching factor b (at most 27 on an 8×8 board).
//	A full search is O(V + E) with V = 64.
package search
