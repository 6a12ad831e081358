package chess

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the standard starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN builds a board from a FEN record. The halfmove clock and move
// number fields are optional and default to 0 and 1.
func ParseFEN(fen string) (*Board, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, fmt.Errorf("fen %q: want at least 4 fields, got %d", fen, len(fields))
	}

	b := &Board{EnPassant: NoSquare, FullmoveNo: 1}
	b.KingSquare[White] = NoSquare
	b.KingSquare[Black] = NoSquare

	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return nil, fmt.Errorf("fen %q: want 8 ranks, got %d", fen, len(ranks))
	}
	for i, row := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(row); j++ {
			ch := row[j]
			if ch >= '1' && ch <= '8' {
				file += int(ch - '0')
				continue
			}
			p := PieceFromChar(ch)
			if p == NoPiece || file > 7 {
				return nil, fmt.Errorf("fen %q: bad rank %q", fen, row)
			}
			b.putPiece(p, SquareOf(file, rank))
			file++
		}
		if file != 8 {
			return nil, fmt.Errorf("fen %q: rank %q covers %d files", fen, row, file)
		}
	}

	switch fields[1] {
	case "w":
		b.SideToMove = White
	case "b":
		b.SideToMove = Black
	default:
		return nil, fmt.Errorf("fen %q: bad side to move %q", fen, fields[1])
	}

	if fields[2] != "-" {
		for j := 0; j < len(fields[2]); j++ {
			switch fields[2][j] {
			case 'K':
				b.Rights |= WhiteOO
			case 'Q':
				b.Rights |= WhiteOOO
			case 'k':
				b.Rights |= BlackOO
			case 'q':
				b.Rights |= BlackOOO
			default:
				return nil, fmt.Errorf("fen %q: bad castling field %q", fen, fields[2])
			}
		}
	}

	if fields[3] != "-" {
		sq, err := ParseSquare(fields[3])
		if err != nil {
			return nil, fmt.Errorf("fen %q: %w", fen, err)
		}
		b.EnPassant = sq
	}

	if len(fields) > 4 {
		n, err := strconv.Atoi(fields[4])
		if err != nil {
			return nil, fmt.Errorf("fen %q: bad halfmove clock %q", fen, fields[4])
		}
		b.HalfmoveClock = n
	}
	if len(fields) > 5 {
		n, err := strconv.Atoi(fields[5])
		if err != nil {
			return nil, fmt.Errorf("fen %q: bad move number %q", fen, fields[5])
		}
		b.FullmoveNo = n
	}

	if b.Pieces[White][King].Count() != 1 || b.Pieces[Black][King].Count() != 1 {
		return nil, fmt.Errorf("fen %q: each side needs exactly one king", fen)
	}

	b.Hash = b.ComputeHash()
	b.updateCheckers()
	return b, nil
}

// FEN serializes the position, always emitting all six fields.
func (b *Board) FEN() string {
	var sb strings.Builder

	for rank := 7; rank >= 0; rank-- {
		empty := 0
		for file := 0; file < 8; file++ {
			p := b.PieceAt(SquareOf(file, rank))
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if rank > 0 {
			sb.WriteByte('/')
		}
	}

	side := "w"
	if b.SideToMove == Black {
		side = "b"
	}
	fmt.Fprintf(&sb, " %s %s %s %d %d",
		side, b.Rights, b.EnPassant, b.HalfmoveClock, b.FullmoveNo)
	return sb.String()
}
