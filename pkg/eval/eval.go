// Package eval contains static position evaluation.
package eval

import (
	"context"

	"github.com/herohde/morlock/pkg/board"
)

// Evaluator is a static position evaluator. Evaluate returns the score of pos from the
// perspective of the side to move: positive favors the mover, per the negamax convention
// search is built around.
type Evaluator interface {
	Evaluate(ctx context.Context, pos *board.Position) board.Score
}

// NominalValue is the absolute material value of a piece type, in centipawns.
func NominalValue(p board.Piece) board.Score {
	switch p {
	case board.Pawn:
		return 100
	case board.Knight:
		return 320
	case board.Bishop:
		return 330
	case board.Rook:
		return 500
	case board.Queen:
		return 900
	case board.King:
		return 20000
	default:
		return 0
	}
}

// pinPenalty is subtracted, in the eye of the pinned side, for each pin FindPins reports
// against that side's knights, bishops, rooks and queens. Pins against the king are not
// counted. A crude but cheap substitute for full SEE-aware mobility.
const pinPenalty board.Score = 12

// Material is a material-and-piece-square-table evaluator with a pin penalty and a simple
// endgame/middlegame switch for the king's table. It is the default evaluator wired into search when no other
// Evaluator is configured.
type Material struct{}

func (Material) Evaluate(ctx context.Context, pos *board.Position) board.Score {
	turn := pos.Turn()
	return evaluateSide(pos, turn) - evaluateSide(pos, turn.Opponent())
}

func evaluateSide(pos *board.Position, c board.Color) board.Score {
	endgame := isEndgame(pos)

	var score board.Score
	for p := board.Pawn; p <= board.King; p++ {
		bb := pos.Piece(c, p)
		count := bb.PopCount()
		score += board.Score(count) * NominalValue(p)

		for b := bb; b != 0; {
			sq, rest := b.PopFirst()
			b = rest
			score += pieceSquareValue(c, p, sq, endgame)
		}
	}

	for _, piece := range []board.Piece{board.Knight, board.Bishop, board.Rook, board.Queen} {
		for _, pin := range FindPins(pos, c, piece) {
			_ = pin
			score -= pinPenalty
		}
	}

	return score
}

// isEndgame switches the king's piece-square table to its endgame variant once either no
// queens remain on the board or at most two minor pieces (knights and bishops of both sides
// together) remain. Rooks and pawns are not considered.
func isEndgame(pos *board.Position) bool {
	queens := pos.Piece(board.White, board.Queen).PopCount() + pos.Piece(board.Black, board.Queen).PopCount()
	minors := pos.Piece(board.White, board.Knight).PopCount() + pos.Piece(board.White, board.Bishop).PopCount() +
		pos.Piece(board.Black, board.Knight).PopCount() + pos.Piece(board.Black, board.Bishop).PopCount()
	return queens == 0 || minors <= 2
}
