package eval

import (
	"sort"

	"github.com/herohde/morlock/pkg/board"
)

// Attacker names a piece of the given color attacking some square.
type Attacker struct {
	Square board.Square
	Piece  board.Piece
}

// FindAttackers returns every piece of side that directly attacks sq.
func FindAttackers(pos *board.Position, side board.Color, sq board.Square) []Attacker {
	var ret []Attacker

	all := pos.All()
	for _, piece := range []board.Piece{board.King, board.Queen, board.Rook, board.Bishop, board.Knight} {
		bb := board.Attackboard(all, sq, piece) & pos.Piece(side, piece)
		for bb != 0 {
			from, rest := bb.PopFirst()
			bb = rest
			ret = append(ret, Attacker{Square: from, Piece: piece})
		}
	}

	bb := board.PawnAttackboard(side.Opponent(), board.BitMask(sq)) & pos.Piece(side, board.Pawn)
	for bb != 0 {
		from, rest := bb.PopFirst()
		bb = rest
		ret = append(ret, Attacker{Square: from, Piece: board.Pawn})
	}

	return ret
}

// SortByNominalValue orders attackers by ascending material value -- the classic MVV-LVA
// "least valuable attacker first" ordering used to approximate a static exchange.
func SortByNominalValue(attackers []Attacker) []Attacker {
	sort.SliceStable(attackers, func(i, j int) bool {
		return NominalValue(attackers[i].Piece) < NominalValue(attackers[j].Piece)
	})
	return attackers
}
