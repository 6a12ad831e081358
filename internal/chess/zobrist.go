package chess

// Zobrist keys. Generated from a fixed-seed xorshift64* stream so hashes are
// identical across runs and platforms.
var (
	zobristPiece    [2][6][64]uint64
	zobristEP       [8]uint64 // per file
	zobristCastling [16]uint64
	zobristSide     uint64
)

type xorshift struct{ s uint64 }

func (x *xorshift) next() uint64 {
	x.s ^= x.s >> 12
	x.s ^= x.s << 25
	x.s ^= x.s >> 27
	return x.s * 0x2545F4914F6CDD1D
}

func init() {
	rng := xorshift{s: 0x98F107A2BEEF1234}
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for sq := A1; sq <= H8; sq++ {
				zobristPiece[c][pt][sq] = rng.next()
			}
		}
	}
	for f := range zobristEP {
		zobristEP[f] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSide = rng.next()
}

// ComputeHash derives the position hash from scratch. MakeMove and
// UnmakeMove maintain the same value incrementally; this is the reference.
func (b *Board) ComputeHash() uint64 {
	var h uint64
	for c := White; c <= Black; c++ {
		for pt := Pawn; pt <= King; pt++ {
			for bb := b.Pieces[c][pt]; bb != 0; {
				h ^= zobristPiece[c][pt][bb.Pop()]
			}
		}
	}
	if b.SideToMove == Black {
		h ^= zobristSide
	}
	h ^= zobristCastling[b.Rights]
	if b.EnPassant != NoSquare {
		h ^= zobristEP[b.EnPassant.File()]
	}
	return h
}
