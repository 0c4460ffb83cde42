package searchctl

import (
	"context"
	"fmt"
	"strings"

	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/stdlib/pkg/lang"
)

// Options hold dynamic search options the caller may change between searches.
type Options struct {
	// DepthLimit, if set, limits the search to the given ply depth. Unset means no limit.
	DepthLimit lang.Optional[uint]
	// TimeControl, if set, limits the search to the given time parameters.
	TimeControl lang.Optional[TimeControl]
}

func (o Options) String() string {
	var ret []string
	if v, ok := o.DepthLimit.V(); ok {
		ret = append(ret, fmt.Sprintf("depth=%v", v))
	}
	if v, ok := o.TimeControl.V(); ok {
		ret = append(ret, fmt.Sprintf("time=%v", v))
	}
	return fmt.Sprintf("[%v]", strings.Join(ret, ", "))
}

// Launcher manages iterative-deepening searches. It is the entry point the engine uses to
// start a new search and to receive progressively deeper PVs as they complete.
type Launcher interface {
	// Launch starts a new search from g's current position. It expects exclusive ownership
	// of g for the duration of the search and returns a channel of PVs, one per completed
	// iteration, closed when the search is exhausted or halted.
	Launch(ctx context.Context, g *board.Game, tt search.TranspositionTable, evaluator eval.Evaluator, opt Options) (Handle, <-chan search.PV)
}

// Handle lets the caller stop a running search and retrieve the best PV found so far. The
// caller is expected to spin off a search and Halt it when no longer needed; Halt is safe to
// call multiple times and before the search has produced its first PV.
type Handle interface {
	// Halt stops the search, if running, and returns the best PV found. Idempotent.
	Halt() search.PV
}
