package eval

import "github.com/herohde/morlock/pkg/board"

// Pin represents a pinned piece: Pinned cannot move off the Attacker-Target line without
// exposing Target to Attacker.
type Pin struct {
	Attacker, Pinned, Target board.Square
}

// FindPins returns all pins against side's pieces of the given type.
func FindPins(pos *board.Position, side board.Color, piece board.Piece) []Pin {
	var ret []Pin

	all := pos.All()
	own := pos.Occupancy(side)

	for bb := pos.Piece(side, piece); bb != 0; {
		target, rest := bb.PopFirst()
		bb = rest

		ret = findPinsAlongRay(target, all, own, board.RookAttackboard,
			pos.Piece(side.Opponent(), board.Queen)|pos.Piece(side.Opponent(), board.Rook), ret)
		ret = findPinsAlongRay(target, all, own, board.BishopAttackboard,
			pos.Piece(side.Opponent(), board.Queen)|pos.Piece(side.Opponent(), board.Bishop), ret)
	}

	return ret
}

func findPinsAlongRay(target board.Square, all, own board.Bitboard,
	attackboard func(occ board.Bitboard, sq board.Square) board.Bitboard, attackers board.Bitboard, ret []Pin) []Pin {

	rays := attackboard(all, target)
	for candidates := rays & own; candidates != 0; {
		pinned, rest := candidates.PopFirst()
		candidates = rest

		behind := attackboard(all&^board.BitMask(pinned), target) &^ rays
		if hit := behind & attackers; hit != 0 {
			ret = append(ret, Pin{Attacker: hit.FirstSquare(), Pinned: pinned, Target: target})
		}
	}
	return ret
}
