package chess

// Precomputed attack and geometry tables. All of them are filled once at
// package init and read-only afterwards, so they are safe to share across
// search threads.
var (
	knightAttacks [64]Bitboard
	kingAttacks   [64]Bitboard
	pawnAttacks   [2][64]Bitboard

	// betweenBB[a][b] holds the squares strictly between a and b when they
	// share a rank, file or diagonal; lineBB[a][b] the full line through
	// both, endpoints included.
	betweenBB [64][64]Bitboard
	lineBB    [64][64]Bitboard
)

func init() {
	initStepAttacks()
	initGeometry()
	initSliderTables()
}

func initStepAttacks() {
	for sq := A1; sq <= H8; sq++ {
		b := BB(sq)

		n := (b << 17) & notFileA
		n |= (b << 15) & notFileH
		n |= (b << 10) & notFileAB
		n |= (b << 6) & notFileGH
		n |= (b >> 6) & notFileAB
		n |= (b >> 10) & notFileGH
		n |= (b >> 15) & notFileA
		n |= (b >> 17) & notFileH
		knightAttacks[sq] = n

		kingAttacks[sq] = b.North() | b.South() | b.East() | b.West() |
			b.NorthEast() | b.NorthWest() | b.SouthEast() | b.SouthWest()

		pawnAttacks[White][sq] = b.NorthEast() | b.NorthWest()
		pawnAttacks[Black][sq] = b.SouthEast() | b.SouthWest()
	}
}

func initGeometry() {
	for a := A1; a <= H8; a++ {
		for b := A1; b <= H8; b++ {
			df := signOf(b.File() - a.File())
			dr := signOf(b.Rank() - a.Rank())
			if a == b || (df != 0 && dr != 0 && absOf(b.File()-a.File()) != absOf(b.Rank()-a.Rank())) {
				continue
			}

			for f, r := a.File()+df, a.Rank()+dr; f != b.File() || r != b.Rank(); f, r = f+df, r+dr {
				betweenBB[a][b] |= BB(SquareOf(f, r))
			}

			for f, r := a.File(), a.Rank(); f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f-df, r-dr {
				lineBB[a][b] |= BB(SquareOf(f, r))
			}
			for f, r := a.File()+df, a.Rank()+dr; f >= 0 && f <= 7 && r >= 0 && r <= 7; f, r = f+df, r+dr {
				lineBB[a][b] |= BB(SquareOf(f, r))
			}
		}
	}
}

func signOf(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

func absOf(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func KnightAttacks(sq Square) Bitboard      { return knightAttacks[sq] }
func KingAttacks(sq Square) Bitboard        { return kingAttacks[sq] }
func PawnAttacks(c Color, sq Square) Bitboard { return pawnAttacks[c][sq] }

func QueenAttacks(sq Square, occ Bitboard) Bitboard {
	return BishopAttacks(sq, occ) | RookAttacks(sq, occ)
}

// Between returns the squares strictly between two aligned squares,
// empty if they do not share a line.
func Between(a, b Square) Bitboard { return betweenBB[a][b] }

// Line returns the full rank, file or diagonal through two squares.
func Line(a, b Square) Bitboard { return lineBB[a][b] }

// Aligned reports whether c lies on the line through a and b.
func Aligned(a, b, c Square) bool { return lineBB[a][b]&BB(c) != 0 }

// AttackersTo returns every piece of either color attacking sq under the
// given occupancy.
func (b *Board) AttackersTo(sq Square, occ Bitboard) Bitboard {
	return (pawnAttacks[Black][sq] & b.Pieces[White][Pawn]) |
		(pawnAttacks[White][sq] & b.Pieces[Black][Pawn]) |
		(knightAttacks[sq] & (b.Pieces[White][Knight] | b.Pieces[Black][Knight])) |
		(kingAttacks[sq] & (b.Pieces[White][King] | b.Pieces[Black][King])) |
		(BishopAttacks(sq, occ) & (b.diagSliders(White) | b.diagSliders(Black))) |
		(RookAttacks(sq, occ) & (b.lineSliders(White) | b.lineSliders(Black)))
}

// Attackers returns the pieces of color c attacking sq under occ.
func (b *Board) Attackers(sq Square, c Color, occ Bitboard) Bitboard {
	return (pawnAttacks[c.Opposite()][sq] & b.Pieces[c][Pawn]) |
		(knightAttacks[sq] & b.Pieces[c][Knight]) |
		(kingAttacks[sq] & b.Pieces[c][King]) |
		(BishopAttacks(sq, occ) & b.diagSliders(c)) |
		(RookAttacks(sq, occ) & b.lineSliders(c))
}

func (b *Board) diagSliders(c Color) Bitboard {
	return b.Pieces[c][Bishop] | b.Pieces[c][Queen]
}

func (b *Board) lineSliders(c Color) Bitboard {
	return b.Pieces[c][Rook] | b.Pieces[c][Queen]
}

// IsAttacked reports whether sq is attacked by the given color.
func (b *Board) IsAttacked(sq Square, by Color) bool {
	return b.Attackers(sq, by, b.Occupancy) != 0
}

func (b *Board) updateCheckers() {
	us := b.SideToMove
	b.Checkers = b.Attackers(b.KingSquare[us], us.Opposite(), b.Occupancy)
}
