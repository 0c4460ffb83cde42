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

func TestPVSCorrectness(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		fen      string
		depth    int
		expected board.Score
	}{
		{fen.Initial, 3, 0},
		{"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1", 2, 0},
	}

	for _, tt := range tests {
		g := gameFromFEN(t, tt.fen)
		pvs := search.NewPVS()
		sctx := &search.Context{Alpha: -board.Infinity, Beta: board.Infinity, TT: search.NoTranspositionTable{}, Eval: eval.Material{}}

		n, score, _, err := pvs.Search(ctx, sctx, g, tt.depth)
		require.NoError(t, err)
		assert.Lessf(t, n, uint64(200000), "too many nodes: %v", tt.fen)
		assert.InDeltaf(t, int(tt.expected), int(score), 150, "failed: %v", tt.fen)
	}
}

func TestPVSAgreesWithAlphaBeta(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping pvs/alpha-beta comparison")
	}

	ctx := context.Background()
	positions := []string{
		fen.Initial,
		"r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
	}

	for _, f := range positions {
		g := gameFromFEN(t, f)

		pvs := search.NewPVS()
		pctx := &search.Context{Alpha: -board.Infinity, Beta: board.Infinity, TT: search.NoTranspositionTable{}, Eval: eval.Material{}}
		_, pvsScore, _, err := pvs.Search(ctx, pctx, g, 3)
		require.NoError(t, err)

		ab := search.NewAlphaBeta()
		actx := &search.Context{Alpha: -board.Infinity, Beta: board.Infinity, TT: search.NoTranspositionTable{}, Eval: eval.Material{}}
		_, abScore, _, err := ab.Search(ctx, actx, g, 3)
		require.NoError(t, err)

		assert.Equal(t, abScore, pvsScore, "pvs and alpha-beta disagree on %v", f)
	}
}
