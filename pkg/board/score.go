package board

import "fmt"

// Score is a signed move or position score in centi-pawns, from the perspective of the side
// to move (negamax convention): positive favors the mover. Mate and Infinity sit far outside
// any attainable material score so mate-distance scores (Mate-ply) never collide with real
// evaluations.
type Score int32

const (
	// Mate is the score of delivering checkmate on the current move. A found mate is
	// reported as Mate-ply so shorter mates sort strictly above longer ones.
	Mate Score = 1000000

	// Infinity bounds alpha-beta search windows; it is never itself a returned score.
	Infinity Score = Mate + 10000

	MinScore = -Infinity
	MaxScore = Infinity
)

// IsMateScore returns true iff the score reflects a forced mate (for or against the mover).
func IsMateScore(s Score) bool {
	if s < 0 {
		s = -s
	}
	return s > Mate-1000
}

// IncrementMateDistance ages a mate score by one ply as it propagates up the search tree,
// so a mate found deeper in the tree always scores lower than the same mate found shallower.
// Non-mate scores pass through unchanged.
func IncrementMateDistance(s Score) Score {
	switch {
	case s > Mate-1000:
		return s - 1
	case s < -(Mate - 1000):
		return s + 1
	default:
		return s
	}
}

// MateDistance returns the number of plies to a forced mate and true, if s is a mate score.
// A negative distance means the mover is the one getting mated.
func (s Score) MateDistance() (int, bool) {
	if !IsMateScore(s) {
		return 0, false
	}
	if s > 0 {
		return int(Mate - s), true
	}
	return -int(Mate + s), true
}

func (s Score) String() string {
	if IsMateScore(s) {
		plies := Mate - s
		if s < 0 {
			plies = Mate + s
		}
		sign := "+"
		if s < 0 {
			sign = "-"
		}
		return fmt.Sprintf("mate%v%v", sign, (int(plies)+1)/2)
	}
	return fmt.Sprintf("%.2f", float64(s)/100)
}
