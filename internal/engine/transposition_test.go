package engine

import (
	"testing"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

func TestTableProbeStore(t *testing.T) {
	tt := NewTable(1)

	hash := uint64(0xDEADBEEFCAFEF00D)
	move := chess.NewMove(chess.E2, chess.E4)
	tt.Store(hash, 5, 42, BoundExact, move)

	e, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("probe missed after store")
	}
	if e.Move != move || e.Score != 42 || e.Depth != 5 || e.Bound != BoundExact {
		t.Errorf("entry mismatch: %+v", e)
	}

	// A different hash mapping to the same slot must not match.
	if _, ok := tt.Probe(hash ^ 0xFFFF000000000000); ok {
		t.Error("probe hit on wrong key")
	}
}

func TestTableReplacement(t *testing.T) {
	tt := NewTable(1)
	hash := uint64(0x12345678)

	tt.Store(hash, 6, 10, BoundExact, chess.NoMove)
	tt.Store(hash, 2, 99, BoundLower, chess.NoMove)

	e, ok := tt.Probe(hash)
	if !ok {
		t.Fatal("probe missed")
	}
	if e.Depth != 6 || e.Score != 10 {
		t.Errorf("shallow same-age entry replaced deeper one: %+v", e)
	}

	// After aging, the shallow entry wins the slot.
	tt.NextSearch()
	tt.Store(hash, 2, 99, BoundLower, chess.NoMove)
	e, _ = tt.Probe(hash)
	if e.Depth != 2 || e.Score != 99 {
		t.Errorf("stale entry survived aging: %+v", e)
	}
}

func TestMateScoreAdjustment(t *testing.T) {
	// A mate at ply 7 stored from ply 3 must read back as a mate at ply 7
	// again when probed at ply 3.
	score := MateScore - 7
	stored := scoreToTT(score, 3)
	if got := scoreFromTT(stored, 3); got != score {
		t.Errorf("round trip %d -> %d -> %d", score, stored, got)
	}

	score = -(MateScore - 7)
	stored = scoreToTT(score, 3)
	if got := scoreFromTT(stored, 3); got != score {
		t.Errorf("round trip %d -> %d -> %d", score, stored, got)
	}

	if scoreToTT(150, 10) != 150 || scoreFromTT(-150, 10) != -150 {
		t.Error("plain scores must not be adjusted")
	}
}

func TestSEE(t *testing.T) {
	cases := []struct {
		fen  string
		move string
		want int
	}{
		// Rook takes an undefended pawn.
		{"k7/8/8/3p4/8/8/3R4/K7 w - - 0 1", "d2d5", 100},
		// Rook takes a pawn defended by a pawn.
		{"k7/8/2p5/3p4/8/8/3R4/K7 w - - 0 1", "d2d5", -400},
		// Pawn trades for a defended pawn.
		{"k7/8/3p4/2p5/3P4/8/8/K7 w - - 0 1", "d4c5", 0},
		// Queen grabs a rook-defended knight.
		{"k2r4/8/3n4/8/8/8/3Q4/K7 w - - 0 1", "d2d6", 320 - 900},
		// Quiet move.
		{"k7/8/8/8/8/8/3R4/K7 w - - 0 1", "d2d5", 0},
	}

	for _, tc := range cases {
		b, err := chess.ParseFEN(tc.fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", tc.fen, err)
		}
		m, err := chess.ParseMove(tc.move, b)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", tc.move, err)
		}
		if got := SEE(b, m); got != tc.want {
			t.Errorf("%s %s: SEE %d, want %d", tc.fen, tc.move, got, tc.want)
		}
	}
}
