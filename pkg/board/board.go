// Package board contains the chess board representation: bitboards, move generation, Zobrist
// hashing and FEN decoding.
package board

import "fmt"

type ply struct {
	move Move
	undo Undo
}

// Game wraps a Position with a move history, enabling takeback, and adjudicates game-ending
// conditions (checkmate, stalemate, the fifty-move rule, threefold repetition). It is the
// unit of play the engine operates on; search instead forks a bare *Position via Clone and
// walks it directly with Make/Unmake for speed.
type Game struct {
	pos     *Position
	history []ply
	result  Result
}

// NewGame returns a new game starting from the standard initial position.
func NewGame() *Game {
	pos := NewPosition()
	pos.SetStart()
	return &Game{pos: pos}
}

// NewGameFromPosition returns a new game starting from the given position, with no history.
func NewGameFromPosition(pos *Position) *Game {
	return &Game{pos: pos}
}

// Position returns the current position. Callers must not mutate it directly.
func (g *Game) Position() *Position {
	return g.pos
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	return g.pos.Turn()
}

// Result returns the current adjudicated result. Reason is NotOver if the game is ongoing.
func (g *Game) Result() Result {
	return g.result
}

// Move applies a legal move to the game and re-adjudicates the result. Returns false if m is
// not among the current legal moves, in which case the game is unchanged.
func (g *Game) Move(m Move) bool {
	if g.result.IsOver() {
		return false
	}

	var match *Move
	for _, lm := range g.pos.LegalMoves() {
		if lm.Equals(m) {
			match = &lm
			break
		}
	}
	if match == nil {
		return false
	}

	u := g.pos.Make(*match)
	g.history = append(g.history, ply{move: *match, undo: u})
	g.adjudicate()
	return true
}

// TakeBack reverses the last move played, if any. Returns false if there is no move to undo.
func (g *Game) TakeBack() bool {
	if len(g.history) == 0 {
		return false
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.pos.Unmake(last.move, last.undo)
	g.result = Result{}
	return true
}

// LastMove returns the most recently played move, if any.
func (g *Game) LastMove() (Move, bool) {
	if len(g.history) == 0 {
		return Move{}, false
	}
	return g.history[len(g.history)-1].move, true
}

// MoveCount returns the number of plies played so far.
func (g *Game) MoveCount() int {
	return len(g.history)
}

func (g *Game) adjudicate() {
	turn := g.pos.Turn()
	if len(g.pos.LegalMoves()) == 0 {
		if g.pos.IsChecked(turn) {
			g.result = Result{Outcome: Loss(turn), Reason: Checkmate}
		} else {
			g.result = Result{Outcome: Draw, Reason: Stalemate}
		}
		return
	}
	if g.pos.HalfMoveClock() >= 100 {
		g.result = Result{Outcome: Draw, Reason: FiftyMoveRule}
		return
	}
	if g.pos.isRepeated(3) {
		g.result = Result{Outcome: Draw, Reason: ThreefoldRepetition}
		return
	}
	if g.pos.HasInsufficientMaterial() {
		g.result = Result{Outcome: Draw, Reason: InsufficientMaterial}
		return
	}
	g.result = Result{}
}

func (g *Game) String() string {
	return fmt.Sprintf("game{pos=%v, plies=%v, result=%v}", g.pos, len(g.history), g.result)
}
