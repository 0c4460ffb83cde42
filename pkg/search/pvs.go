package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// PVS implements principal variation search: the first move at each node is searched with a
// full window, and every subsequent sibling with a cheap null window that only confirms it is
// worse than the current best; a fail-high triggers a full-window re-search. On well-ordered
// trees this does less work than plain alpha-beta for the same result. Pseudo-code:
//
//	function pvs(node, depth, α, β) is
//	    if depth = 0 or node is terminal then
//	        return quiescence(node, α, β)
//	    for each child of node do
//	        if child is first child then
//	            score := −pvs(child, depth − 1, −β, −α)
//	        else
//	            score := −pvs(child, depth − 1, −α − 1, −α) (* null window *)
//	            if α < score < β then
//	                score := −pvs(child, depth − 1, −β, −score) (* re-search *)
//	        α := max(α, score)
//	        if α ≥ β then
//	            break (* beta cutoff *)
//	    return α
//
// See: https://en.wikipedia.org/wiki/Principal_variation_search.
type PVS struct {
	Ordering *Ordering
}

func NewPVS() PVS {
	return PVS{Ordering: NewOrdering(NewKillerTable(), NewHistoryTable())}
}

func (p PVS) Search(ctx context.Context, sctx *Context, g *board.Game, depth int) (uint64, board.Score, []board.Move, error) {
	pos := g.Position().Clone()
	run := &runPVS{sctx: sctx, ord: p.Ordering, qs: newQuiescence(sctx, p.Ordering)}

	score, pv, err := run.search(ctx, pos, depth, 0, sctx.Alpha, sctx.Beta)
	if err != nil {
		return run.nodes, 0, nil, err
	}
	return run.nodes, score, pv, nil
}

type runPVS struct {
	sctx  *Context
	ord   *Ordering
	qs    *quiescence
	nodes uint64
}

func (r *runPVS) search(ctx context.Context, pos *board.Position, depth, ply int, alpha, beta board.Score) (board.Score, []board.Move, error) {
	select {
	case <-ctx.Done():
		return 0, nil, ErrHalted
	default:
	}

	if ply > 0 && pos.IsDraw() {
		return drawContempt(r.sctx.Eval.Evaluate(ctx, pos)), nil, nil
	}
	if depth == 0 {
		nodes, score, err := r.qs.search(ctx, pos, alpha, beta)
		r.nodes += nodes
		return score, nil, err
	}

	r.nodes++

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if pos.IsChecked(pos.Turn()) {
			return -board.Mate, nil, nil
		}
		return 0, nil, nil
	}

	board.SortByPriority(moves, r.ord.Priority(pos, ply, board.NullMove))

	var pv []board.Move
	for i, move := range moves {
		u := pos.Make(move)

		var score board.Score
		var rem []board.Move
		var err error

		if i == 0 {
			score, rem, err = r.search(ctx, pos, depth-1, ply+1, -beta, -alpha)
			score = -board.IncrementMateDistance(score)
		} else {
			reduced := depth - 1
			if isLMRCandidate(depth, i, move) {
				reduced = depth - 1 - lmrReduction(depth, i)
			}

			score, _, err = r.search(ctx, pos, reduced, ply+1, -alpha-1, -alpha)
			score = -board.IncrementMateDistance(score)
			if err == nil && reduced < depth-1 && score > alpha {
				// Reduced null-window search beat alpha; confirm at full depth.
				score, _, err = r.search(ctx, pos, depth-1, ply+1, -alpha-1, -alpha)
				score = -board.IncrementMateDistance(score)
			}
			if err == nil && alpha < score && score < beta {
				score, rem, err = r.search(ctx, pos, depth-1, ply+1, -beta, -score)
				score = -board.IncrementMateDistance(score)
			}
		}
		pos.Unmake(move, u)
		if err != nil {
			return 0, nil, err
		}

		if score > alpha {
			alpha = score
			pv = append([]board.Move{move}, rem...)
		}
		if alpha >= beta {
			r.ord.RecordCutoff(ply, depth, move)
			break
		}
	}

	return alpha, pv, nil
}
