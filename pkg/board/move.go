package board

import "fmt"

// Move represents a not-necessarily-legal move plus the contextual metadata needed to make
// and later unmake it. When Promotion is set, Piece still names the pawn being promoted;
// Promotion names the piece it becomes.
type Move struct {
	Piece Piece // the moving piece type
	Color Color // the moving side

	From, To Square

	Capture   Piece // captured piece type, NoPiece if none
	Promotion Piece // promoted-to piece, NoPiece if not a promotion

	IsCapture        bool
	IsDoublePawnPush bool
	IsEnPassant      bool
	IsCastle         bool
}

// IsPromotion returns true iff the move promotes a pawn.
func (m Move) IsPromotion() bool {
	return m.Promotion != NoPiece
}

// IsQuiet returns true iff the move is neither a capture nor a promotion, i.e. it is not
// "noisy" and thus not considered by quiescence search.
func (m Move) IsQuiet() bool {
	return !m.IsCapture && !m.IsPromotion()
}

// EnPassantCaptureSquare returns the square of the pawn captured en passant. Only valid
// when IsEnPassant is true.
func (m Move) EnPassantCaptureSquare() Square {
	if m.Color == White {
		return m.To - 8
	}
	return m.To + 8
}

// EnPassantTarget returns the square behind a double pawn push, i.e. the new en passant
// target square. Only valid when IsDoublePawnPush is true.
func (m Move) EnPassantTarget() Square {
	if m.Color == White {
		return m.From + 8
	}
	return m.From - 8
}

// CastlingRookSquares returns the rook's from/to squares for a castling move. Only valid
// when IsCastle is true.
func (m Move) CastlingRookSquares() (from, to Square) {
	switch m.To {
	case G1:
		return H1, F1
	case C1:
		return A1, D1
	case G8:
		return H8, F8
	case C8:
		return A8, D8
	default:
		panic(fmt.Sprintf("invalid castle target: %v", m.To))
	}
}

// ParseMove parses a move in pure algebraic coordinate notation, e.g. "a2a4" or "a7a8q".
// The parsed move carries no contextual flags (capture, castle, en passant, etc); those
// are filled in by the move generator; Game.Move applies a parsed move by matching it
// against the generated legal moves.
func ParseMove(str string) (Move, error) {
	runes := []rune(str)

	if len(runes) < 4 || len(runes) > 5 {
		return Move{}, fmt.Errorf("invalid move: '%v'", str)
	}

	from, err := ParseSquareStr(string(runes[0:2]))
	if err != nil {
		return Move{}, fmt.Errorf("invalid from square in '%v': %w", str, err)
	}
	to, err := ParseSquareStr(string(runes[2:4]))
	if err != nil {
		return Move{}, fmt.Errorf("invalid to square in '%v': %w", str, err)
	}

	m := Move{From: from, To: to}
	if len(runes) == 5 {
		promo, ok := ParsePiece(runes[4])
		if !ok || promo == Pawn || promo == King {
			return Move{}, fmt.Errorf("invalid promotion in '%v'", str)
		}
		m.Promotion = promo
	}
	return m, nil
}

// IsNull returns true iff the move is the null move ("0000" on the wire).
func (m Move) IsNull() bool {
	return m.From == m.To
}

// Equals compares two moves by from/to/promotion, ignoring other metadata. Suitable for
// matching a wire move (which carries no context) against a generated legal move.
func (m Move) Equals(o Move) bool {
	return m.From == o.From && m.To == o.To && m.Promotion == o.Promotion
}

func (m Move) String() string {
	if m.IsNull() {
		return "0000"
	}
	if m.IsPromotion() {
		return fmt.Sprintf("%v%v%v", m.From, m.To, m.Promotion)
	}
	return fmt.Sprintf("%v%v", m.From, m.To)
}

// NullMove is the UCI null move "0000".
var NullMove = Move{}
