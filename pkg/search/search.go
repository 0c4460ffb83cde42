// Package search contains the game-tree search: alpha-beta with quiescence, a
// transposition table and iterative deepening.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// ErrHalted indicates a search was stopped mid-flight by its Handle, before completing the
// requested depth. Callers should fall back to the last completed PV, if any.
var ErrHalted = errors.New("search halted")

// Context carries state threaded through a single Root.Search call: the alpha-beta window
// inherited from the caller (for aspiration-style searches), the transposition table, and
// the evaluator used at quiescence leaves. The window is used as given: a full-width search
// needs Alpha = -board.Infinity and Beta = board.Infinity, and the zero value is a
// zero-width window at 0.
type Context struct {
	Alpha, Beta board.Score
	TT           TranspositionTable
	Eval         eval.Evaluator
}

// drawContempt adjusts a drawn position's static eval with an asymmetric contempt: a side
// that is otherwise winning is penalized for steering into a draw, a side that is losing is
// rewarded less generously for escaping into one.
func drawContempt(eval board.Score) board.Score {
	switch {
	case eval > 0:
		return eval - 50
	case eval < 0:
		return eval + 10
	default:
		return 0
	}
}

// Root performs a fixed-depth search from the current position of g and returns the node
// count, score (from g's side to move), and principal variation.
type Root interface {
	Search(ctx context.Context, sctx *Context, g *board.Game, depth int) (uint64, board.Score, []board.Move, error)
}

// PV is the principal variation found at some search depth.
type PV struct {
	Depth int
	Moves []board.Move
	Score board.Score
	Nodes uint64
	Time  time.Duration
	Hash  float64 // transposition table occupancy, [0;1]
}

// BestMove returns the first move of the PV, if any.
func (p PV) BestMove() (board.Move, bool) {
	if len(p.Moves) == 0 {
		return board.Move{}, false
	}
	return p.Moves[0], true
}

func (p PV) String() string {
	return fmt.Sprintf("depth=%v score=%v nodes=%v time=%v pv=%v", p.Depth, p.Score, p.Nodes, p.Time, p.Moves)
}
