// livechess-uci bridges a DGT EBoard, fed over websockets via LiveChess, to morlock's engine.
// It relays the board's physical moves into the engine's game state; it performs no search of
// its own, leaving that to the normal UCI "go" path against whichever GUI talks to stdin.
package main

import (
	"context"
	"flag"
	"strings"

	"github.com/herohde/livechess-go/pkg/livechess"
	"github.com/herohde/morlock/pkg/board/fen"
	"github.com/herohde/morlock/pkg/engine"
	"github.com/herohde/morlock/pkg/engine/uci"
	"github.com/herohde/morlock/pkg/search"
	"github.com/seekerror/logw"
)

var (
	serial = flag.String("serial", "auto", "Board selection by serial number (default: auto)")
	flip   = flag.Bool("flip", false, "Flip board")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	id := livechess.EBoardSerial(*serial)
	if id == "auto" {
		auto, err := livechess.AutoDetect(ctx, livechess.DefaultClient)
		if err != nil {
			logw.Exitf(ctx, "Watch failed to autodetect board: %v", err)
		}
		id = auto
	}

	client, events, err := livechess.NewFeed(ctx, id)
	if err != nil {
		logw.Exitf(ctx, "Feed for %v failed: %v", id, err)
	}
	if *flip {
		if err := client.Flip(ctx, true); err != nil {
			logw.Exitf(ctx, "Flip board %v failed: %v", id, err)
		}
	}
	if err := client.Setup(ctx, fen.Initial); err != nil {
		logw.Exitf(ctx, "Setup board %v failed: %v", id, err)
	}

	e := engine.New(ctx, "livechess-uci", "herohde", search.NewAlphaBeta())

	relay := newRelay(ctx, e, events)
	go relay.process(ctx)

	in := engine.ReadStdinLines(ctx)
	switch <-in {
	case uci.ProtocolName:
		driver, out := uci.NewDriver(ctx, e, in)
		go engine.WriteStdoutLines(ctx, out)

		<-driver.Closed()

	default:
		flag.Usage()
		logw.Exitf(ctx, "Protocol not supported")
	}
}

// relay translates physical board events reported by the EBoard feed into moves applied
// directly to the engine's game, bypassing its own search entirely.
type relay struct {
	e      *engine.Engine
	events <-chan livechess.EBoardEventResponse
}

func newRelay(ctx context.Context, e *engine.Engine, events <-chan livechess.EBoardEventResponse) *relay {
	return &relay{e: e, events: events}
}

func (r *relay) process(ctx context.Context) {
	for {
		select {
		case event, ok := <-r.events:
			if !ok {
				return
			}
			if len(event.San) == 0 {
				continue
			}
			if m, ok := r.matchMove(event.Board); ok {
				if err := r.e.Move(ctx, m); err != nil {
					logw.Errorf(ctx, "Board reported illegal move %v: %v", m, err)
				}
			}

		case <-ctx.Done():
			return
		}
	}
}

// matchMove finds the legal move from the current position whose resulting FEN board field
// matches the one reported by the EBoard, since the feed reports full board state, not moves.
func (r *relay) matchMove(reportedBoard string) (string, bool) {
	pos := r.e.Game().Position().Clone()

	for _, m := range pos.LegalMoves() {
		u := pos.Make(m)
		next := strings.Split(fen.Encode(pos), " ")[0]
		pos.Unmake(m, u)

		if next == reportedBoard {
			return m.String(), true
		}
	}
	return "", false
}
