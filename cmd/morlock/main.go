// morlock is a simple UCI chess engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/engine/console"
	"github.com/herohde/morlock/pkg/engine/uci"
	"github.com/herohde/morlock/pkg/search"
	"github.com/herohde/morlock/pkg/search/searchctl"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	noise = flag.Int("noise", 0, "Evaluation noise in centipawns (zero if deterministic)")
	hash  = flag.Uint("hash", 0, "Transposition table size in MB (zero disables it)")
	depth = flag.Uint("depth", 0, "Default search depth limit (zero for no limit)")
	pvs   = flag.Bool("pvs", false, "Use principal variation search instead of plain alpha-beta")
	bench = flag.Bool("bench", false, "Run a fixed-depth benchmark search and exit")
)

func init() {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, `usage: morlock [options]

morlock is a simple UCI chess engine.
Options:
`)
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	ctx := context.Background()

	var root search.Root = search.NewAlphaBeta()
	if *pvs {
		root = search.NewPVS()
	}

	e := engine.New(ctx, "morlock", "herohde", root,
		engine.WithOptions(engine.Options{Depth: *depth, Hash: *hash, Noise: uint(*noise)}))

	if *bench {
		runBench(ctx, e)
		return
	}

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		// Use UCI protocol.

		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	case console.ProtocolName:
		driver, out := console.NewDriver(ctx, e, search.NewAlphaBeta(), in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}

// runBench searches the current (starting) position to a fixed depth and logs nodes/time,
// a local convenience for comparing engine changes, not a UCI contract.
func runBench(ctx context.Context, e *engine.Engine) {
	const benchDepth = 6

	start := time.Now()
	out, err := e.Analyze(ctx, searchctl.Options{DepthLimit: lang.Some(uint(benchDepth))})
	if err != nil {
		logw.Exitf(ctx, "Bench failed: %v", err)
	}

	var last search.PV
	for pv := range out {
		last = pv
		if pv.Depth >= benchDepth {
			_, _ = e.Halt(ctx)
		}
	}

	elapsed := time.Since(start)
	logw.Infof(ctx, "bench: depth=%v nodes=%v time=%v nps=%.0f pv=%v",
		last.Depth, last.Nodes, elapsed, float64(last.Nodes)/elapsed.Seconds(), last.Moves)
}
