package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// AlphaBeta implements negamax search with alpha-beta pruning, a transposition table and
// quiescence search at the horizon. Pseudo-code:
//
//	function negamax(node, depth, α, β) is
//	    if depth = 0 or node is terminal then
//	        return quiescence(node, α, β)
//	    value := −∞
//	    for each child of node do
//	        value := max(value, −negamax(child, depth − 1, −β, −α))
//	        α := max(α, value)
//	        if α ≥ β then
//	            break (* β cutoff *)
//	    return value
//
// See: https://en.wikipedia.org/wiki/Negamax.
type AlphaBeta struct {
	Ordering *Ordering
}

func NewAlphaBeta() AlphaBeta {
	return AlphaBeta{Ordering: NewOrdering(NewKillerTable(), NewHistoryTable())}
}

func (p AlphaBeta) Search(ctx context.Context, sctx *Context, g *board.Game, depth int) (uint64, board.Score, []board.Move, error) {
	pos := g.Position().Clone()

	run := &runAlphaBeta{
		sctx: sctx,
		ord:  p.Ordering,
		qs:   newQuiescence(sctx, p.Ordering),
	}

	score, pv, err := run.search(ctx, pos, depth, 0, sctx.Alpha, sctx.Beta)
	if err != nil {
		return run.nodes, 0, nil, err
	}
	return run.nodes, score, pv, nil
}

type runAlphaBeta struct {
	sctx  *Context
	ord   *Ordering
	qs    *quiescence
	nodes uint64
}

func (r *runAlphaBeta) search(ctx context.Context, pos *board.Position, depth, ply int, alpha, beta board.Score) (board.Score, []board.Move, error) {
	select {
	case <-ctx.Done():
		return 0, nil, ErrHalted
	default:
	}

	if ply > 0 && pos.IsDraw() {
		return drawContempt(r.sctx.Eval.Evaluate(ctx, pos)), nil, nil
	}

	var hash board.Move
	if bound, d, score, move, ok := r.sctx.TT.Read(pos.Hash()); ok {
		hash = move
		if d >= depth {
			switch bound {
			case ExactBound:
				return score, []board.Move{move}, nil
			case LowerBound:
				if score > alpha {
					alpha = score
				}
			case UpperBound:
				if score < beta {
					beta = score
				}
			}
			if alpha >= beta {
				return score, []board.Move{move}, nil
			}
		}
	}

	if depth == 0 {
		nodes, score, err := r.qs.search(ctx, pos, alpha, beta)
		r.nodes += nodes
		if err != nil {
			return 0, nil, err
		}
		r.sctx.TT.Write(pos.Hash(), ExactBound, 0, score, board.Move{})
		return score, nil, nil
	}

	r.nodes++

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.IsChecked(pos.Turn()) {
			return -board.Mate, nil, nil
		}
		return 0, nil, nil
	}

	priority := r.ord.Priority(pos, ply, hash)
	board.SortByPriority(moves, priority)

	bound := UpperBound
	var best board.Move
	var pv []board.Move

	for i, m := range moves {
		u := pos.Make(m)

		reduced := depth - 1
		if isLMRCandidate(depth, i, m) && !pos.IsChecked(pos.Turn()) {
			reduced = depth - 1 - lmrReduction(depth, i)
		}

		score, rem, err := r.search(ctx, pos, reduced, ply+1, -beta, -alpha)
		if err == nil && reduced < depth-1 && -board.IncrementMateDistance(score) > alpha {
			// Reduced search suggests this quiet move beats alpha; verify at full depth.
			score, rem, err = r.search(ctx, pos, depth-1, ply+1, -beta, -alpha)
		}
		pos.Unmake(m, u)
		if err != nil {
			return 0, nil, err
		}
		score = -board.IncrementMateDistance(score)

		if score > alpha {
			alpha = score
			best = m
			pv = append([]board.Move{m}, rem...)
			bound = ExactBound
		}
		if alpha >= beta {
			r.ord.RecordCutoff(ply, depth, m)
			bound = LowerBound
			best = m
			break
		}
	}

	r.sctx.TT.Write(pos.Hash(), bound, depth, alpha, best)
	return alpha, pv, nil
}

// Late move reductions: quiet moves explored after the first few, at sufficient remaining
// depth, are searched shallower first on the assumption that move ordering already put the
// likely best moves first. A reduced move that beats alpha is re-searched at full depth.
const (
	lmrMinDepth      = 3
	lmrFullSearchCap = 4
)

func isLMRCandidate(depth, moveIndex int, m board.Move) bool {
	return depth >= lmrMinDepth && moveIndex >= lmrFullSearchCap && m.IsQuiet()
}

func lmrReduction(depth, moveIndex int) int {
	r := 1
	if depth >= 6 && moveIndex >= lmrFullSearchCap*2 {
		r = 2
	}
	return r
}
