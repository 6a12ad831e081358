package chess

import (
	"fmt"
	"strings"
)

// CastlingRights is a four-bit set: white kingside, white queenside, black
// kingside, black queenside.
type CastlingRights uint8

const (
	WhiteOO CastlingRights = 1 << iota
	WhiteOOO
	BlackOO
	BlackOOO
	NoRights  CastlingRights = 0
	AllRights CastlingRights = WhiteOO | WhiteOOO | BlackOO | BlackOOO
)

func (cr CastlingRights) String() string {
	if cr == NoRights {
		return "-"
	}
	var sb strings.Builder
	for i, ch := range "KQkq" {
		if cr&(1<<i) != 0 {
			sb.WriteRune(ch)
		}
	}
	return sb.String()
}

// Board is a full position. The piece bitboards are the source of truth;
// Colors, Occupancy and KingSquare are caches kept in sync by the mutators.
type Board struct {
	Pieces    [2][6]Bitboard
	Colors    [2]Bitboard
	Occupancy Bitboard

	SideToMove    Color
	Rights        CastlingRights
	EnPassant     Square
	HalfmoveClock int
	FullmoveNo    int

	Hash       uint64
	KingSquare [2]Square
	Checkers   Bitboard
}

// NewBoard returns the standard starting position.
func NewBoard() *Board {
	b, _ := ParseFEN(StartFEN)
	return b
}

// Copy returns an independent copy, used to give each search thread its own
// board.
func (b *Board) Copy() *Board {
	c := *b
	return &c
}

// PieceAt returns the piece on sq, NoPiece for an empty square.
func (b *Board) PieceAt(sq Square) Piece {
	bb := BB(sq)
	if b.Occupancy&bb == 0 {
		return NoPiece
	}
	c := White
	if b.Colors[Black]&bb != 0 {
		c = Black
	}
	for pt := Pawn; pt <= King; pt++ {
		if b.Pieces[c][pt]&bb != 0 {
			return MakePiece(pt, c)
		}
	}
	return NoPiece
}

func (b *Board) IsEmpty(sq Square) bool { return b.Occupancy&BB(sq) == 0 }

// InCheck reports whether the side to move is in check.
func (b *Board) InCheck() bool { return b.Checkers != 0 }

func (b *Board) putPiece(p Piece, sq Square) {
	c, pt := p.Color(), p.Type()
	bb := BB(sq)
	b.Pieces[c][pt] |= bb
	b.Colors[c] |= bb
	b.Occupancy |= bb
	if pt == King {
		b.KingSquare[c] = sq
	}
}

func (b *Board) dropPiece(c Color, pt PieceType, sq Square) {
	bb := BB(sq)
	b.Pieces[c][pt] &^= bb
	b.Colors[c] &^= bb
	b.Occupancy &^= bb
}

func (b *Board) shiftPiece(c Color, pt PieceType, from, to Square) {
	bb := BB(from) | BB(to)
	b.Pieces[c][pt] ^= bb
	b.Colors[c] ^= bb
	b.Occupancy ^= bb
	if pt == King {
		b.KingSquare[c] = to
	}
}

// Pinned returns the side-to-move pieces that are absolutely pinned to their
// king, found by scanning enemy sliders that x-ray the king square.
func (b *Board) Pinned() Bitboard {
	us := b.SideToMove
	them := us.Opposite()
	ksq := b.KingSquare[us]

	var pinned Bitboard
	snipers := (RookAttacks(ksq, 0) & b.lineSliders(them)) |
		(BishopAttacks(ksq, 0) & b.diagSliders(them))
	for snipers != 0 {
		sq := snipers.Pop()
		blockers := Between(sq, ksq) & b.Occupancy
		if blockers != 0 && blockers&(blockers-1) == 0 && blockers&b.Colors[us] != 0 {
			pinned |= blockers
		}
	}
	return pinned
}

// NullUndo holds the state a null move clobbers.
type NullUndo struct {
	EnPassant Square
	Hash      uint64
	Checkers  Bitboard
}

// MakeNull passes the turn without moving, for null-move pruning. Never call
// it while in check.
func (b *Board) MakeNull() NullUndo {
	u := NullUndo{EnPassant: b.EnPassant, Hash: b.Hash, Checkers: b.Checkers}
	if b.EnPassant != NoSquare {
		b.Hash ^= zobristEP[b.EnPassant.File()]
		b.EnPassant = NoSquare
	}
	b.SideToMove = b.SideToMove.Opposite()
	b.Hash ^= zobristSide
	b.updateCheckers()
	return u
}

// UnmakeNull reverses MakeNull.
func (b *Board) UnmakeNull(u NullUndo) {
	b.SideToMove = b.SideToMove.Opposite()
	b.EnPassant = u.EnPassant
	b.Hash = u.Hash
	b.Checkers = u.Checkers
}

// HasNonPawnMaterial reports whether the side to move owns any piece besides
// pawns and the king. Null-move pruning is unsound without it.
func (b *Board) HasNonPawnMaterial() bool {
	us := b.SideToMove
	return b.Colors[us]&^(b.Pieces[us][Pawn]|b.Pieces[us][King]) != 0
}

// Mirror returns the color-flipped position: every piece moves to its
// vertically mirrored square with the opposite color, castling rights and
// the en passant square swap accordingly, and the same side keeps the move.
// The evaluation of a mirrored position is the exact negation of the
// original.
func (b *Board) Mirror() *Board {
	m := &Board{
		SideToMove:    b.SideToMove,
		HalfmoveClock: b.HalfmoveClock,
		FullmoveNo:    b.FullmoveNo,
		EnPassant:     NoSquare,
	}
	for pt := Pawn; pt <= King; pt++ {
		for bb := b.Pieces[White][pt]; bb != 0; {
			m.putPiece(MakePiece(pt, Black), bb.Pop().Flip())
		}
		for bb := b.Pieces[Black][pt]; bb != 0; {
			m.putPiece(MakePiece(pt, White), bb.Pop().Flip())
		}
	}
	if b.Rights&WhiteOO != 0 {
		m.Rights |= BlackOO
	}
	if b.Rights&WhiteOOO != 0 {
		m.Rights |= BlackOOO
	}
	if b.Rights&BlackOO != 0 {
		m.Rights |= WhiteOO
	}
	if b.Rights&BlackOOO != 0 {
		m.Rights |= WhiteOOO
	}
	if b.EnPassant != NoSquare {
		m.EnPassant = b.EnPassant.Flip()
	}
	m.Hash = m.ComputeHash()
	m.updateCheckers()
	return m
}

// String draws the board with game state below it, for the debug command.
func (b *Board) String() string {
	var sb strings.Builder
	for rank := 7; rank >= 0; rank-- {
		fmt.Fprintf(&sb, "%d  ", rank+1)
		for file := 0; file < 8; file++ {
			sb.WriteString(b.PieceAt(SquareOf(file, rank)).String())
			sb.WriteByte(' ')
		}
		sb.WriteByte('\n')
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "fen: %s\n", b.FEN())
	fmt.Fprintf(&sb, "key: %016X\n", b.Hash)
	return sb.String()
}
