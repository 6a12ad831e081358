package chess

import "testing"

// Known node counts for positions that exercise castling, promotions,
// checks, pins and en passant.
var perftCases = []struct {
	name   string
	fen    string
	counts []uint64 // counts[i] = perft(i+1)
}{
	{
		name:   "startpos",
		fen:    StartFEN,
		counts: []uint64{20, 400, 8902, 197281, 4865609},
	},
	{
		name:   "kiwipete",
		fen:    "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		counts: []uint64{48, 2039, 97862},
	},
	{
		name:   "endgame pins",
		fen:    "8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		counts: []uint64{14, 191, 2812, 43238},
	},
}

func TestPerft(t *testing.T) {
	for _, tc := range perftCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := ParseFEN(tc.fen)
			if err != nil {
				t.Fatalf("ParseFEN: %v", err)
			}
			for i, want := range tc.counts {
				if got := b.Perft(i + 1); got != want {
					t.Errorf("perft(%d) = %d, want %d", i+1, got, want)
				}
			}
		})
	}
}

// The en passant capture d3 would expose the black king on a4 to the rook
// on h4; it must not be generated.
func TestEnPassantHorizontalPin(t *testing.T) {
	b, err := ParseFEN("8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	var ml MoveList
	b.GenerateLegalMoves(&ml)
	for _, m := range ml.Slice() {
		if m.IsEnPassant() {
			t.Errorf("generated illegal en passant %v", m)
		}
	}

	if got := b.Perft(1); got != 6 {
		t.Errorf("perft(1) = %d, want 6", got)
	}
	if got := b.Perft(2); got != 94 {
		t.Errorf("perft(2) = %d, want 94", got)
	}
}
