package search_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gameFromFEN(t *testing.T, record string) *board.Game {
	t.Helper()
	pos, err := fen.Decode(record)
	require.NoError(t, err)
	return board.NewGameFromPosition(pos)
}

func TestAlphaBetaCorrectness(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		fen      string
		depth    int
		expected board.Score
	}{
		{fen.Initial, 3, 0},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 0},

		// Two rooks force mate in one.
		{"k7/7R/6R1/8/8/8/8/7K w - - 0 1", 1, 1000},
		{"k7/7R/6R1/8/8/8/8/7K w - - 0 1", 2, board.Mate - 1},
	}

	for _, tt := range tests {
		g := gameFromFEN(t, tt.fen)
		ab := search.NewAlphaBeta()
		sctx := &search.Context{Alpha: -board.Infinity, Beta: board.Infinity, TT: search.NoTranspositionTable{}, Eval: eval.Material{}}

		n, score, pv, err := ab.Search(ctx, sctx, g, tt.depth)
		require.NoError(t, err)
		assert.Lessf(t, n, uint64(200000), "too many nodes: %v", tt.fen)

		if board.IsMateScore(tt.expected) {
			assert.True(t, board.IsMateScore(score), "expected mate score for %v, got %v", tt.fen, score)
		} else {
			assert.InDeltaf(t, int(tt.expected), int(score), 150, "failed: %v", tt.fen)
		}
		_ = pv
	}
}

func TestAlphaBetaAgreesWithMinimaxAtLowDepth(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping minimax comparison")
	}

	ctx := context.Background()
	positions := []string{
		fen.Initial,
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}

	for _, f := range positions {
		g := gameFromFEN(t, f)
		ab := search.NewAlphaBeta()
		sctx := &search.Context{Alpha: -board.Infinity, Beta: board.Infinity, TT: search.NoTranspositionTable{}, Eval: eval.Material{}}
		_, abScore, _, err := ab.Search(ctx, sctx, g, 2)
		require.NoError(t, err)

		var mm search.Minimax
		mctx := &search.Context{Eval: eval.Material{}}
		_, mmScore, _, err := mm.Search(ctx, mctx, g, 2)
		require.NoError(t, err)

		assert.Equal(t, mmScore, abScore, "alpha-beta and minimax disagree on %v", f)
	}
}
