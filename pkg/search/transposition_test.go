package search_test

import (
	"context"
	"math/rand"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
)

func TestTranspositionTable(t *testing.T) {
	ctx := context.Background()

	// Size rounds down to the nearest power of two.

	tt := search.NewTranspositionTable(ctx, 0x1000)
	assert.Equal(t, uint64(0x1000), tt.Size())
	tt2 := search.NewTranspositionTable(ctx, 0x1f00)
	assert.Equal(t, uint64(0x1000), tt2.Size())

	// Read/write round trip.

	a := board.ZobristHash(rand.Uint64())

	_, _, _, _, ok := tt.Read(a)
	assert.False(t, ok)

	m := board.Move{From: board.G4, To: board.G8, Promotion: board.Queen}
	s := board.Score(200)
	_ = tt.Write(a, search.ExactBound, 5, s, m)

	bound, depth, score, move, ok := tt.Read(a)
	assert.True(t, ok)
	assert.Equal(t, search.ExactBound, bound)
	assert.Equal(t, 5, depth)
	assert.Equal(t, s, score)
	assert.Equal(t, m, move)

	_, _, _, _, ok = tt.Read(a ^ 0xff0000)
	assert.False(t, ok)

	// Depth-preferred replacement: shallower writes to the same slot are rejected.

	norepl := tt.Write(a, search.ExactBound, 2, board.Score(5), m)
	assert.False(t, norepl)

	repl := tt.Write(a, search.ExactBound, 6, board.Score(5), m)
	assert.True(t, repl)
}

func TestNoTranspositionTable(t *testing.T) {
	var tt search.NoTranspositionTable

	_, _, _, _, ok := tt.Read(board.ZobristHash(1))
	assert.False(t, ok)
	assert.False(t, tt.Write(board.ZobristHash(1), search.ExactBound, 4, 0, board.Move{}))
	assert.Equal(t, uint64(0), tt.Size())
}
