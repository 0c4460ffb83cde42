package search

import (
	"context"
	"fmt"
	"math/bits"
	"sync/atomic"
	"unsafe"

	"github.com/herohde/morlock/pkg/board"
	"github.com/seekerror/logw"
)

// Bound records whether a stored score is exact or was produced by a cutoff, and if so,
// which side of the window it bounds.
type Bound uint8

const (
	ExactBound Bound = iota
	// LowerBound means the true score is >= the stored score (a beta cutoff occurred).
	LowerBound
	// UpperBound means the true score is <= the stored score (no move raised alpha).
	UpperBound
)

func (b Bound) String() string {
	switch b {
	case ExactBound:
		return "exact"
	case LowerBound:
		return "lower"
	case UpperBound:
		return "upper"
	default:
		return "?"
	}
}

// TranspositionTable caches search results keyed by position hash, so transpositions --
// different move orders reaching the same position -- are scored once. Implementations must
// be safe for concurrent readers and writers.
type TranspositionTable interface {
	Read(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool)
	Write(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool

	Size() uint64
	Used() float64
}

type TranspositionTableFactory func(ctx context.Context, size uint64) TranspositionTable

type metadata struct {
	bound     Bound
	from, to  board.Square
	promotion board.Piece
	depth     uint16
}

type node struct {
	hash  board.ZobristHash
	score board.Score
	md    metadata
}

// table is a direct-mapped, depth-preferred, lock-free transposition table: each slot holds
// at most one entry, replaced only when the incoming entry searched at least as deep as the
// resident one. Power-of-two sized so hash-to-slot is a mask, not a modulo.
type table struct {
	table []*node
	mask  uint64
	used  uint64
}

// NewTranspositionTable allocates a table sized to the nearest power of two not exceeding
// size bytes, at 32 bytes/entry.
func NewTranspositionTable(ctx context.Context, size uint64) TranspositionTable {
	n := uint64(1) << (63 - 5 - bits.LeadingZeros64(size|1))
	if n == 0 {
		n = 1
	}

	logw.Infof(ctx, "Allocating %vMB transposition table with %v entries", size>>20, n)

	return &table{
		table: make([]*node, n),
		mask:  n - 1,
	}
}

func (t *table) Size() uint64 {
	return uint64(len(t.table)) << 5
}

func (t *table) Used() float64 {
	return float64(t.used) / float64(len(t.table))
}

func (t *table) Read(hash board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	key := uint64(hash) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	ptr := (*node)(atomic.LoadPointer(addr))
	if ptr != nil && hash == ptr.hash {
		move := board.Move{From: ptr.md.from, To: ptr.md.to, Promotion: ptr.md.promotion}
		return ptr.md.bound, int(ptr.md.depth), ptr.score, move, true
	}
	return 0, 0, 0, board.Move{}, false
}

func (t *table) Write(hash board.ZobristHash, bound Bound, depth int, score board.Score, move board.Move) bool {
	key := uint64(hash) & t.mask
	addr := (*unsafe.Pointer)(unsafe.Pointer(&t.table[key]))

	fresh := &node{
		hash:  hash,
		score: score,
		md: metadata{
			bound:     bound,
			from:      move.From,
			to:        move.To,
			promotion: move.Promotion,
			depth:     uint16(depth),
		},
	}

	for {
		ptr := (*node)(atomic.LoadPointer(addr))
		if ptr != nil && ptr.md.depth > fresh.md.depth {
			return false // keep: existing entry searched deeper
		}
		if atomic.CompareAndSwapPointer(addr, unsafe.Pointer(ptr), unsafe.Pointer(fresh)) {
			if ptr == nil {
				t.used++
			}
			return true
		}
	}
}

func (t *table) String() string {
	return fmt.Sprintf("TT[%v @ %v%%]", t.Size(), int(100*t.Used()))
}

// NoTranspositionTable is a no-op TranspositionTable, useful for perft and for comparing
// search behavior with and without caching.
type NoTranspositionTable struct{}

func (NoTranspositionTable) Read(board.ZobristHash) (Bound, int, board.Score, board.Move, bool) {
	return 0, 0, 0, board.Move{}, false
}

func (NoTranspositionTable) Write(board.ZobristHash, Bound, int, board.Score, board.Move) bool {
	return false
}

func (NoTranspositionTable) Size() uint64 { return 0 }
func (NoTranspositionTable) Used() float64 { return 0 }
