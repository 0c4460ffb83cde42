// Package fen reads and writes chess positions in Forsyth-Edwards Notation.
package fen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/herohde/morlock/pkg/board"
)

// Initial is the FEN for the standard starting position.
const Initial = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses a FEN record into a fully-initialized position. It validates every field and
// returns a descriptive error for the first violation found: wrong field count, malformed
// piece placement, wrong rank/file totals, missing or duplicated kings, kings adjacent to
// each other, pawns on the back ranks, an invalid active color, invalid castling letters,
// an en passant square inconsistent with the active color, or a negative/non-numeric
// halfmove or fullmove counter.
func Decode(record string) (*board.Position, error) {
	parts := strings.Fields(strings.TrimSpace(record))
	if len(parts) != 6 {
		return nil, fmt.Errorf("fen: expected 6 fields, got %v: %q", len(parts), record)
	}

	pos := board.NewPosition()

	if err := decodePlacement(pos, parts[0]); err != nil {
		return nil, fmt.Errorf("fen: %w: %q", err, record)
	}

	turn, ok := parseColor(parts[1])
	if !ok {
		return nil, fmt.Errorf("fen: invalid active color %q: %q", parts[1], record)
	}
	pos.SetTurn(turn)

	castling, ok := parseCastling(parts[2])
	if !ok {
		return nil, fmt.Errorf("fen: invalid castling availability %q: %q", parts[2], record)
	}
	pos.SetCastling(castling)

	ep, err := parseEnPassant(parts[3], turn)
	if err != nil {
		return nil, fmt.Errorf("fen: %w: %q", err, record)
	}
	pos.SetEnPassant(ep)

	halfmove, err := strconv.Atoi(parts[4])
	if err != nil || halfmove < 0 {
		return nil, fmt.Errorf("fen: invalid halfmove clock %q: %q", parts[4], record)
	}
	pos.SetHalfMoveClock(halfmove)

	fullmove, err := strconv.Atoi(parts[5])
	if err != nil || fullmove < 1 {
		return nil, fmt.Errorf("fen: invalid fullmove number %q: %q", parts[5], record)
	}
	pos.SetFullMoveNumber(fullmove)

	if err := validate(pos); err != nil {
		return nil, fmt.Errorf("fen: %w: %q", err, record)
	}

	pos.SyncHash()
	return pos, nil
}

func decodePlacement(pos *board.Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return fmt.Errorf("expected 8 ranks, got %v", len(ranks))
	}

	// Ranks are listed from 8 down to 1.
	for i, rankStr := range ranks {
		r := board.Rank8 - board.Rank(i)

		f := board.ZeroFile
		lastWasDigit := false
		for _, ch := range rankStr {
			switch {
			case ch >= '1' && ch <= '8':
				if lastWasDigit {
					return fmt.Errorf("consecutive digits in rank %v", r)
				}
				f += board.File(ch - '0')
				lastWasDigit = true

			default:
				piece, ok := board.ParsePiece(ch)
				if !ok {
					return fmt.Errorf("invalid piece character %q", ch)
				}
				if f >= board.NumFiles {
					return fmt.Errorf("too many squares in rank %v", r)
				}
				color := board.Black
				if ch >= 'A' && ch <= 'Z' {
					color = board.White
				}
				pos.SetPiece(color, piece, board.NewSquare(f, r))
				f++
				lastWasDigit = false
			}
		}
		if f != board.NumFiles {
			return fmt.Errorf("rank %v does not sum to 8 squares", r)
		}
	}
	return nil
}

func validate(pos *board.Position) error {
	if pos.Piece(board.White, board.King).PopCount() != 1 {
		return fmt.Errorf("white must have exactly one king")
	}
	if pos.Piece(board.Black, board.King).PopCount() != 1 {
		return fmt.Errorf("black must have exactly one king")
	}

	wk := pos.KingSquare(board.White)
	if board.KingAttackboard(wk)&pos.Piece(board.Black, board.King) != 0 {
		return fmt.Errorf("kings cannot be adjacent")
	}

	backRanks := board.BitRank(board.Rank1) | board.BitRank(board.Rank8)
	if (pos.Piece(board.White, board.Pawn)|pos.Piece(board.Black, board.Pawn))&backRanks != 0 {
		return fmt.Errorf("pawns cannot be on the first or eighth rank")
	}

	if pos.IsChecked(pos.Turn().Opponent()) {
		return fmt.Errorf("side not to move is already in check")
	}

	return nil
}

func parseEnPassant(field string, turn board.Color) (board.Square, error) {
	if field == "-" {
		return board.NoneSquare, nil
	}
	sq, err := board.ParseSquareStr(field)
	if err != nil {
		return board.NoneSquare, fmt.Errorf("invalid en passant square %q", field)
	}

	var want board.Rank
	if turn == board.White {
		want = board.Rank6
	} else {
		want = board.Rank3
	}
	if sq.Rank() != want {
		return board.NoneSquare, fmt.Errorf("en passant square %q inconsistent with active color", field)
	}
	return sq, nil
}

// Encode renders a position as a FEN record.
func Encode(pos *board.Position) string {
	var sb strings.Builder
	for i := 0; i < 8; i++ {
		r := board.Rank8 - board.Rank(i)

		blanks := 0
		for f := board.ZeroFile; f < board.NumFiles; f++ {
			piece, color := pos.PieceAt(board.NewSquare(f, r))
			if piece == board.NoPiece {
				blanks++
				continue
			}
			if blanks > 0 {
				sb.WriteString(strconv.Itoa(blanks))
				blanks = 0
			}
			sb.WriteRune(printPiece(color, piece))
		}
		if blanks > 0 {
			sb.WriteString(strconv.Itoa(blanks))
		}
		if i < 7 {
			sb.WriteString("/")
		}
	}

	ep := "-"
	if sq, ok := pos.EnPassant(); ok {
		ep = sq.String()
	}

	return fmt.Sprintf("%v %v %v %v %v %v", sb.String(), pos.Turn(), castlingString(pos.Castling()), ep,
		pos.HalfMoveClock(), pos.FullMoveNumber())
}

func castlingString(c board.Castling) string {
	s := c.String()
	if s == "-" {
		return "-"
	}
	return s
}

func parseColor(str string) (board.Color, bool) {
	switch str {
	case "w":
		return board.White, true
	case "b":
		return board.Black, true
	default:
		return 0, false
	}
}

func parseCastling(str string) (board.Castling, bool) {
	if str == "-" {
		return board.ZeroCastling, true
	}

	var ret board.Castling
	seen := map[rune]bool{}
	for _, r := range str {
		if seen[r] {
			return 0, false
		}
		seen[r] = true

		switch r {
		case 'K':
			ret |= board.WhiteKingSideCastle
		case 'Q':
			ret |= board.WhiteQueenSideCastle
		case 'k':
			ret |= board.BlackKingSideCastle
		case 'q':
			ret |= board.BlackQueenSideCastle
		default:
			return 0, false
		}
	}
	return ret, true
}

func printPiece(c board.Color, p board.Piece) rune {
	r := []rune(p.String())[0]
	if c == board.White {
		return []rune(strings.ToUpper(string(r)))[0]
	}
	return r
}
