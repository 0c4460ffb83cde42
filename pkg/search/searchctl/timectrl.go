// Package searchctl contains the iterative-deepening search harness: time control, depth
// limits and the Launcher/Handle abstraction the engine uses to start and stop searches.
package searchctl

import (
	"context"
	"fmt"
	"time"

	"github.com/herohde/morlock/pkg/board"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

// TimeControl represents time control information.
type TimeControl struct {
	White, Black       time.Duration
	WhiteInc, BlackInc time.Duration // per-move increment, 0 if none
	Moves              int           // 0 == rest of game
}

// Limits returns a soft and hard limit for making a move with the given color. After the
// soft limit, no new iteration should be started; the hard limit forcibly halts a running one.
func (t TimeControl) Limits(c board.Color) (time.Duration, time.Duration) {
	remainder, inc := t.White, t.WhiteInc
	if c == board.Black {
		remainder, inc = t.Black, t.BlackInc
	}

	// Assume 40 moves to end the game, if nothing else is known. Let B = T/80 be the soft
	// timeout and the hard timeout be 3B. The increment is added back in full, since it
	// replenishes the clock regardless of how this move's time is spent.

	moves := time.Duration(40)
	if t.Moves > 0 {
		moves = time.Duration(t.Moves) + 1
	}

	soft := remainder/(2*moves) + inc
	hard := 3 * soft
	return soft, hard
}

func (t TimeControl) String() string {
	if t.Moves == 0 {
		return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds())
	}
	return fmt.Sprintf("%.1f(+%.1f)<>%.1f(+%.1f)[moves=%v]", t.White.Seconds(), t.WhiteInc.Seconds(), t.Black.Seconds(), t.BlackInc.Seconds(), t.Moves)
}

// EnforceTimeControl installs the hard-limit halt timer, if a time control is set, and
// returns the soft limit to compare against elapsed iteration time.
func EnforceTimeControl(ctx context.Context, h Handle, tc lang.Optional[TimeControl], turn board.Color) (time.Duration, bool) {
	c, ok := tc.V()
	if !ok {
		return 0, false
	}

	soft, hard := c.Limits(turn)
	timer := time.AfterFunc(hard, func() {
		h.Halt()
	})
	go func() {
		<-ctx.Done()
		timer.Stop()
	}()

	logw.Debugf(ctx, "Time control limits for %v: [%v; %v]", c, soft, hard)
	return soft, true
}
