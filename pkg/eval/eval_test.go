package eval_test

import (
	"context"
	"testing"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaterialSymmetric(t *testing.T) {
	pos := board.NewPosition()
	pos.SetStart()

	score := eval.Material{}.Evaluate(context.Background(), pos)
	assert.Equal(t, board.Score(0), score)
}

func TestMaterialFavorsExtraQueen(t *testing.T) {
	p, err := fen.Decode("4k3/8/8/8/8/8/8/Q3K3 w - - 0 1")
	require.NoError(t, err)

	score := eval.Material{}.Evaluate(context.Background(), p)
	assert.Greater(t, int(score), 0)
}

func TestRandomizeIsBoundedAndDeterministic(t *testing.T) {
	pos := board.NewPosition()
	pos.SetStart()

	a := eval.NewRandomize(eval.Material{}, 20, 42).Evaluate(context.Background(), pos)
	b := eval.NewRandomize(eval.Material{}, 20, 42).Evaluate(context.Background(), pos)

	assert.Equal(t, a, b) // same seed, first draw -- deterministic.
	assert.LessOrEqual(t, int(a), 10)
	assert.GreaterOrEqual(t, int(a), -10)
}

func TestNoLimitDisablesNoise(t *testing.T) {
	pos := board.NewPosition()
	pos.SetStart()

	r := eval.NewRandomize(eval.Material{}, 0, 42)
	assert.Equal(t, board.Score(0), r.Evaluate(context.Background(), pos))
}
