package search

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// quiescence resolves tactical sequences at the horizon: standing pat against alpha/beta,
// then trying captures and promotions until the position is "quiet", avoiding the classic
// horizon effect where a search stops mid-exchange on a losing capture.
type quiescence struct {
	sctx    *Context
	explore Exploration
}

func newQuiescence(sctx *Context, ordering *Ordering) *quiescence {
	return &quiescence{sctx: sctx, explore: NoisyExploration(ordering)}
}

func (q *quiescence) search(ctx context.Context, pos *board.Position, alpha, beta board.Score) (uint64, board.Score, error) {
	select {
	case <-ctx.Done():
		return 0, 0, ErrHalted
	default:
	}

	var nodes uint64 = 1

	standPat := q.sctx.Eval.Evaluate(ctx, pos)
	if standPat >= beta {
		return nodes, beta, nil
	}
	if standPat > alpha {
		alpha = standPat
	}

	moves := q.explore(pos, pos.LegalMoves())
	for _, m := range moves {
		u := pos.Make(m)
		n, score, err := q.search(ctx, pos, -beta, -alpha)
		pos.Unmake(m, u)
		nodes += n
		if err != nil {
			return nodes, 0, err
		}
		score = -board.IncrementMateDistance(score)

		if score >= beta {
			return nodes, beta, nil
		}
		if score > alpha {
			alpha = score
		}
	}

	return nodes, alpha, nil
}
