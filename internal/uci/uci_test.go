package uci

import (
	"bytes"
	"strings"
	"testing"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
	"github.com/georgemunyoro/rusty-redtail/internal/engine"
)

func runSession(t *testing.T, input string) string {
	t.Helper()

	var out bytes.Buffer
	s := New(engine.NewEngine(16), strings.NewReader(input), &out)
	if err := s.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func TestUCIHandshake(t *testing.T) {
	out := runSession(t, "uci\nisready\nquit\n")

	for _, want := range []string{"id name redtail", "id author", "uciok", "readyok"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestSearchFromStartposReturnsLegalMove(t *testing.T) {
	out := runSession(t, "position startpos\ngo depth 4\nquit\n")

	move := bestmoveFrom(t, out)

	b := chess.NewBoard()
	parsed, err := chess.ParseMove(move, b)
	if err != nil {
		t.Fatalf("bestmove %q did not parse: %v", move, err)
	}
	var legal chess.MoveList
	b.GenerateLegalMoves(&legal)
	if !legal.Contains(parsed) {
		t.Errorf("bestmove %s is not legal from the starting position", move)
	}

	if !strings.Contains(out, "info depth") {
		t.Errorf("expected info lines before bestmove:\n%s", out)
	}
}

func TestSearchAfterMoves(t *testing.T) {
	out := runSession(t, "position startpos moves e2e4 e7e5\ngo depth 3\nquit\n")

	move := bestmoveFrom(t, out)

	b := chess.NewBoard()
	for _, ms := range []string{"e2e4", "e7e5"} {
		m, err := chess.ParseMove(ms, b)
		if err != nil {
			t.Fatalf("ParseMove(%s): %v", ms, err)
		}
		b.MakeMove(m)
	}
	parsed, err := chess.ParseMove(move, b)
	if err != nil {
		t.Fatalf("bestmove %q did not parse: %v", move, err)
	}
	var legal chess.MoveList
	b.GenerateLegalMoves(&legal)
	if !legal.Contains(parsed) {
		t.Errorf("bestmove %s is not legal after e2e4 e7e5", move)
	}
}

func TestPositionFEN(t *testing.T) {
	fen := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	out := runSession(t, "position fen "+fen+"\nd\nquit\n")

	if !strings.Contains(out, fen) {
		t.Errorf("d output missing the fen:\n%s", out)
	}
}

func TestMateIsReported(t *testing.T) {
	out := runSession(t, "position fen 7k/8/5QK1/8/8/8/8/8 w - - 0 1\ngo depth 4\nquit\n")

	if !strings.Contains(out, "score mate 1") {
		t.Errorf("expected a mate score:\n%s", out)
	}

	move := bestmoveFrom(t, out)
	b, err := chess.ParseFEN("7k/8/5QK1/8/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}
	parsed, err := chess.ParseMove(move, b)
	if err != nil {
		t.Fatalf("bestmove %q did not parse: %v", move, err)
	}
	b.MakeMove(parsed)
	if !b.IsCheckmate() {
		t.Errorf("bestmove %s does not mate", move)
	}
}

func TestSetOptionHash(t *testing.T) {
	// Resizing must not disturb a following search.
	out := runSession(t, "setoption name Hash value 8\nposition startpos\ngo depth 3\nquit\n")
	bestmoveFrom(t, out)
}

func TestIllegalPositionMoveRejected(t *testing.T) {
	out := runSession(t, "position startpos moves e2e4\nposition startpos moves e2e5\nd\nquit\n")
	if !strings.Contains(out, "illegal move e2e5") && !strings.Contains(out, "invalid move e2e5") {
		t.Errorf("expected a diagnostic for e2e5:\n%s", out)
	}

	// The rejected command must leave the previous position in place.
	b := chess.NewBoard()
	m, err := chess.ParseMove("e2e4", b)
	if err != nil {
		t.Fatal(err)
	}
	b.MakeMove(m)
	if !strings.Contains(out, b.FEN()) {
		t.Errorf("board changed after a rejected position command:\n%s", out)
	}
}

func bestmoveFrom(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		if rest, ok := strings.CutPrefix(line, "bestmove "); ok {
			return strings.Fields(rest)[0]
		}
	}
	t.Fatalf("no bestmove in output:\n%s", out)
	return ""
}
