package search_test

import (
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestOrderingMVVLVA(t *testing.T) {
	pos := board.NewPosition()
	pos.SetStart()

	nb := board.Move{Piece: board.Bishop}
	nq := board.Move{Piece: board.Queen}
	cqb := board.Move{Piece: board.Queen, IsCapture: true, Capture: board.Bishop}
	crb := board.Move{Piece: board.Rook, IsCapture: true, Capture: board.Bishop}
	ckb := board.Move{Piece: board.Knight, IsCapture: true, Capture: board.Bishop}
	pq := board.Move{Piece: board.Pawn, Promotion: board.Queen}

	ord := search.NewOrdering(nil, nil)
	priority := ord.Priority(pos, 0, board.NullMove)

	// Captures rank above promotions, and among captures the least-valuable attacker ranks
	// highest; promotions in turn rank above quiet moves.
	assert.Greater(t, priority(ckb), priority(crb))
	assert.Greater(t, priority(crb), priority(cqb))
	assert.Greater(t, priority(cqb), priority(pq))
	assert.Greater(t, priority(pq), priority(nb))
	assert.Equal(t, priority(nb), priority(nq))
}

func TestOrderingHashMoveFirst(t *testing.T) {
	pos := board.NewPosition()
	pos.SetStart()

	hash := board.Move{From: board.E2, To: board.E4}
	cap := board.Move{Piece: board.Queen, IsCapture: true, Capture: board.Queen, From: board.A1, To: board.A8}

	ord := search.NewOrdering(nil, nil)
	priority := ord.Priority(pos, 0, hash)

	assert.Greater(t, priority(hash), priority(cap))
}

func TestKillerTable(t *testing.T) {
	k := search.NewKillerTable()
	m := board.Move{From: board.D2, To: board.D4}

	assert.False(t, k.IsKiller(3, m))
	k.Add(3, m)
	assert.True(t, k.IsKiller(3, m))
	assert.False(t, k.IsKiller(4, m))
}

func TestHistoryTable(t *testing.T) {
	h := search.NewHistoryTable()
	m := board.Move{From: board.G1, To: board.F3}

	assert.Equal(t, 0, h.Score(m))
	h.Add(m, 4)
	assert.Equal(t, 16, h.Score(m))
	h.Add(m, 4)
	assert.Equal(t, 32, h.Score(m))
}
