package search

import (
	"fmt"
	"slices"

	"github.com/katalvlaran/piecepath/board"
)

// BuildPath reconstructs the start→goal route from the engine's parent links.
// It only reads the engine, so repeated calls return equal paths.
// Returns ErrNoPath unless the engine is in GoalFound.
func BuildPath(e *Engine) (Path, error) {
	if e.phase != GoalFound {
		return nil, fmt.Errorf("%w: engine is %s", ErrNoPath, e.phase)
	}
	// build reversed path; a chain longer than the board means corrupted links
	path := make(Path, 0, board.Size)
	for cur := e.goal; ; {
		path = append(path, cur)
		if cur == e.start {
			break
		}
		prev, ok := e.parent[cur]
		if !ok || len(path) > board.Cells {
			return nil, fmt.Errorf("%w: broken parent chain at %v", ErrNoPath, cur)
		}
		cur = prev
	}
	slices.Reverse(path)

	return path, nil
}
