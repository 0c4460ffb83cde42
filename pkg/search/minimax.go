package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// Minimax implements naive negamax search with no pruning, no move ordering and no
// transposition table. It is useful for cross-checking AlphaBeta for correctness at low
// depth, since the two must always agree on score.
//
// function negamax(node, depth) is
//
//	if depth = 0 or node is terminal then
//	    return the heuristic value of node
//	value := −∞
//	for each child of node do
//	    value := max(value, −negamax(child, depth − 1))
//	return value
//
// See: https://en.wikipedia.org/wiki/Negamax.
type Minimax struct{}

func (m Minimax) Search(ctx context.Context, sctx *Context, g *board.Game, depth int) (uint64, board.Score, []board.Move, error) {
	pos := g.Position().Clone()
	run := &runMinimax{eval: sctx.Eval}
	score, pv, err := run.search(ctx, pos, depth)
	if err != nil {
		return run.nodes, 0, nil, err
	}
	return run.nodes, score, pv, nil
}

type runMinimax struct {
	eval  eval.Evaluator
	nodes uint64
}

func (m *runMinimax) search(ctx context.Context, pos *board.Position, depth int) (board.Score, []board.Move, error) {
	select {
	case <-ctx.Done():
		return 0, nil, ErrHalted
	default:
	}

	m.nodes++

	if pos.IsDraw() {
		return drawContempt(m.eval.Evaluate(ctx, pos)), nil, nil
	}
	if depth == 0 {
		return m.eval.Evaluate(ctx, pos), nil, nil
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.IsChecked(pos.Turn()) {
			return -board.Mate, nil, nil
		}
		return 0, nil, nil
	}

	best := -board.Infinity
	var pv []board.Move

	for _, move := range moves {
		u := pos.Make(move)
		score, rem, err := m.search(ctx, pos, depth-1)
		pos.Unmake(move, u)
		if err != nil {
			return 0, nil, err
		}

		score = -board.IncrementMateDistance(score)
		if score > best {
			best = score
			pv = append([]board.Move{move}, rem...)
		}
	}

	return best, pv, nil
}
