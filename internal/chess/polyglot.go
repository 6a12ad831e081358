package chess

// Polyglot-style book hashing: the same feature set and XOR composition as
// the Polyglot format, over this engine's own fixed key stream. Books must
// be built with matching keys; .bin files hashed with the official Polyglot
// constants will not probe.
var (
	polyPieces [12][64]uint64
	polyCastle [4]uint64
	polyEP     [8]uint64
	polySide   uint64
)

func init() {
	rng := xorshift{s: 0x37B4A4B3F0D1C0D0}
	for kind := 0; kind < 12; kind++ {
		for sq := 0; sq < 64; sq++ {
			polyPieces[kind][sq] = rng.next()
		}
	}
	for i := range polyCastle {
		polyCastle[i] = rng.next()
	}
	for i := range polyEP {
		polyEP[i] = rng.next()
	}
	polySide = rng.next()
}

// PolyglotHash computes the book key for the position. Piece kinds follow
// the Polyglot order (black pawn = 0 ... white king = 11), the en passant
// file is keyed only when a capture is actually possible, and the side key
// is applied for white to move.
func (b *Board) PolyglotHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := b.Pieces[c][pt]; bb != 0; {
				h ^= polyPieces[polyKind(c, pt)][bb.Pop()]
			}
		}
	}

	for i, right := range [4]CastlingRights{WhiteOO, WhiteOOO, BlackOO, BlackOOO} {
		if b.Rights&right != 0 {
			h ^= polyCastle[i]
		}
	}

	if b.EnPassant != NoSquare && b.epCapturable() {
		h ^= polyEP[b.EnPassant.File()]
	}

	if b.SideToMove == White {
		h ^= polySide
	}
	return h
}

// polyKind maps to Polyglot piece numbering: bp=0, bn=1, ..., wq=10, wk=11.
func polyKind(c Color, pt PieceType) int {
	if c == White {
		return int(pt) + 6
	}
	return int(pt)
}

// epCapturable reports whether a pawn of the side to move stands ready to
// take en passant.
func (b *Board) epCapturable() bool {
	us := b.SideToMove
	return pawnAttacks[us.Opposite()][b.EnPassant]&b.Pieces[us][Pawn] != 0
}
