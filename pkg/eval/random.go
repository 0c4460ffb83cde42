package eval

import (
	"context"
	"math/rand"

	"github.com/herohde/morlock/pkg/board"
)

// Randomize wraps an Evaluator and adds a small amount of deterministic noise in the range
// [-limit/2; limit/2] centipawns, breaking ties between otherwise-equal moves so the engine
// doesn't play the exact same game twice against itself. limit <= 0 disables the noise.
type Randomize struct {
	inner Evaluator
	rand  *rand.Rand
	limit int
}

func NewRandomize(inner Evaluator, limit int, seed int64) Randomize {
	return Randomize{
		inner: inner,
		limit: limit,
		rand:  rand.New(rand.NewSource(seed)),
	}
}

func (n Randomize) Evaluate(ctx context.Context, pos *board.Position) board.Score {
	base := n.inner.Evaluate(ctx, pos)
	if n.limit <= 0 {
		return base
	}
	noise := board.Score(n.rand.Intn(n.limit) - n.limit/2)
	return base + noise
}
