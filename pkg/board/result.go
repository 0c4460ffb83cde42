package board

import "fmt"

// Outcome represents who, if anyone, has won a finished game.
type Outcome uint8

const (
	Undecided Outcome = iota
	WhiteWins
	BlackWins
	Draw
)

// Loss returns the outcome of the given color losing.
func Loss(c Color) Outcome {
	if c == White {
		return BlackWins
	}
	return WhiteWins
}

func (o Outcome) String() string {
	switch o {
	case WhiteWins:
		return "1-0"
	case BlackWins:
		return "0-1"
	case Draw:
		return "1/2-1/2"
	default:
		return "*"
	}
}

// Reason records why a game ended.
type Reason uint8

const (
	NotOver Reason = iota
	Checkmate
	Stalemate
	FiftyMoveRule
	ThreefoldRepetition
	InsufficientMaterial
)

func (r Reason) String() string {
	switch r {
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case FiftyMoveRule:
		return "fifty-move rule"
	case ThreefoldRepetition:
		return "threefold repetition"
	case InsufficientMaterial:
		return "insufficient material"
	default:
		return "in progress"
	}
}

// Result is the terminal status of a position: an Outcome together with the Reason it holds.
type Result struct {
	Outcome Outcome
	Reason  Reason
}

func (r Result) IsOver() bool {
	return r.Reason != NotOver
}

func (r Result) String() string {
	return fmt.Sprintf("%v (%v)", r.Outcome, r.Reason)
}
