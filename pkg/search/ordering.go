package search

import (
	"github.com/herohde/morlock/pkg/board"
	"github.com/herohde/morlock/pkg/eval"
)

// Ordering assigns move priorities for alpha-beta search: the transposition-table move first,
// then captures by MVV-LVA, then promotions, then killer moves, then the rest by history
// heuristic. Higher priority moves are tried first, which is what makes alpha-beta pruning
// effective in practice.
type Ordering struct {
	killers *KillerTable
	history *HistoryTable
}

func NewOrdering(killers *KillerTable, history *HistoryTable) *Ordering {
	return &Ordering{killers: killers, history: history}
}

// Bucket bases, ordered captures > promotions > killers > history, scaled down from the
// textbook 100,000/90,000/80,000 point values to fit board.MovePriority's int16 range while
// keeping enough headroom between buckets for the MVV-LVA term and history scores to vary
// within their bucket without crossing into the next one.
const (
	priorityCapture   = board.MovePriority(20000)
	priorityPromotion = board.MovePriority(15000)
	priorityKiller    = board.MovePriority(10000)
)

// Priority returns a board.MovePriorityFn ranking moves for the given ply. hash, if not the
// zero move, is tried first -- typically the best move from a previous, shallower search of
// the same position found via the transposition table.
func (o *Ordering) Priority(pos *board.Position, ply int, hash board.Move) board.MovePriorityFn {
	fn := func(m board.Move) board.MovePriority {
		switch {
		case m.IsCapture:
			// MVV-LVA: prefer capturing the most valuable victim with the least valuable attacker.
			mvvlva := 10*eval.NominalValue(captureVictim(m)) - eval.NominalValue(m.Piece)/10
			return priorityCapture + board.MovePriority(mvvlva)
		case m.IsPromotion():
			return priorityPromotion + board.MovePriority(eval.NominalValue(m.Promotion))
		case o.killers != nil && o.killers.IsKiller(ply, m):
			return priorityKiller
		case o.history != nil:
			return board.MovePriority(o.history.Score(m))
		default:
			return 0
		}
	}
	if hash.IsNull() {
		return fn
	}
	return board.First(hash, fn)
}

func captureVictim(m board.Move) board.Piece {
	if m.IsEnPassant {
		return board.Pawn
	}
	return m.Capture
}

// RecordCutoff updates the killer and history tables after a quiet move causes a beta cutoff,
// so later siblings and deeper plies try it earlier.
func (o *Ordering) RecordCutoff(ply, depth int, m board.Move) {
	if !m.IsQuiet() {
		return
	}
	if o.killers != nil {
		o.killers.Add(ply, m)
	}
	if o.history != nil {
		o.history.Add(m, depth)
	}
}

const maxKillerPlies = 64

// KillerTable remembers up to two quiet moves per ply that recently caused a beta cutoff.
// Trying them early in sibling nodes at the same ply is cheap and often cuts again, since
// killer moves tend to be good replies regardless of the exact position.
type KillerTable struct {
	killers [maxKillerPlies][2]board.Move
}

func NewKillerTable() *KillerTable {
	return &KillerTable{}
}

func (k *KillerTable) IsKiller(ply int, m board.Move) bool {
	if ply < 0 || ply >= maxKillerPlies {
		return false
	}
	return k.killers[ply][0].Equals(m) || k.killers[ply][1].Equals(m)
}

func (k *KillerTable) Add(ply int, m board.Move) {
	if ply < 0 || ply >= maxKillerPlies {
		return
	}
	if k.killers[ply][0].Equals(m) {
		return
	}
	k.killers[ply][1] = k.killers[ply][0]
	k.killers[ply][0] = m
}

// historyMax keeps history scores below the killer bucket, so a long-running search can never
// let a history score outrank a killer move or a promotion.
const historyMax = 8000

// HistoryTable scores quiet moves by how often, weighted by depth, they have caused a beta
// cutoff anywhere in the tree, independent of the current position. Used as a fallback move
// order for quiet moves that aren't killers.
type HistoryTable struct {
	scores map[board.Move]int
}

func NewHistoryTable() *HistoryTable {
	return &HistoryTable{scores: make(map[board.Move]int)}
}

func (h *HistoryTable) Add(m board.Move, depth int) {
	h.scores[m] += depth * depth
	if h.scores[m] > historyMax {
		for k := range h.scores {
			h.scores[k] /= 2
		}
	}
}

func (h *HistoryTable) Score(m board.Move) int {
	return h.scores[m]
}

// Exploration selects and orders the moves to consider at a node: legal moves in priority
// order for the main search, noisy-only moves for quiescence.
type Exploration func(pos *board.Position, moves []board.Move) []board.Move

// FullExploration orders every legal move by o's priority function.
func FullExploration(o *Ordering, ply int) Exploration {
	return func(pos *board.Position, moves []board.Move) []board.Move {
		board.SortByPriority(moves, o.Priority(pos, ply, board.NullMove))
		return moves
	}
}

// NoisyExploration keeps only captures and promotions, ordered by MVV-LVA. Used by
// quiescence search, which only ever looks at forcing moves.
func NoisyExploration(o *Ordering) Exploration {
	return func(pos *board.Position, moves []board.Move) []board.Move {
		var noisy []board.Move
		for _, m := range moves {
			if m.IsCapture || m.IsPromotion() {
				noisy = append(noisy, m)
			}
		}
		board.SortByPriority(noisy, o.Priority(pos, 0, board.NullMove))
		return noisy
	}
}
