package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// minimaxRef is a plain full-width minimax with the same leaf, draw and mate
// conventions as the searcher. It anchors the correctness of alpha-beta.
func minimaxRef(b *chess.Board, depth, ply int, history *[]uint64) int {
	if ply > 0 && isDrawRef(b, *history) {
		return 0
	}
	if depth <= 0 {
		return Evaluate(b)
	}

	var moves chess.MoveList
	b.GenerateLegalMoves(&moves)
	if moves.Len() == 0 {
		if b.InCheck() {
			return -MateScore + ply
		}
		return 0
	}

	best := -Infinity
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		u := b.MakeMove(m)
		*history = append(*history, b.Hash)
		score := -minimaxRef(b, depth-1, ply+1, history)
		*history = (*history)[:len(*history)-1]
		b.UnmakeMove(m, u)
		if score > best {
			best = score
		}
	}
	return best
}

func isDrawRef(b *chess.Board, history []uint64) bool {
	if b.HalfmoveClock >= 100 || b.InsufficientMaterial() {
		return true
	}
	count := 0
	for _, h := range history {
		if h == b.Hash {
			count++
			if count >= 2 {
				return true
			}
		}
	}
	return false
}

func TestAlphaBetaMatchesMinimax(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"rnbqkb1r/pp1p1ppp/2p5/4P3/2B5/8/PPP1NnPP/RNBQK2R w KQkq - 0 6",
	}

	for _, fen := range fens {
		b, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		var history []uint64
		want := minimaxRef(b.Copy(), 3, 0, &history)

		var stop atomic.Bool
		s := newSearcher(b.Copy(), NewTable(1), NewSharedHistory(), &stop)
		s.pruning = false
		s.quiesce = false
		got := s.negamax(3, 0, -Infinity, Infinity, chess.NoMove)

		if got != want {
			t.Errorf("%s: alpha-beta %d, minimax %d", fen, got, want)
		}
	}
}

func TestEvaluateMirrorSymmetry(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"4k3/8/8/8/8/8/4P3/4K3 w - - 0 1",
		"8/5pk1/6p1/8/8/1P6/1KP5/8 b - - 0 1",
		"r1bq1rk1/pp2ppbp/2np1np1/8/3NP3/2N1BP2/PPPQ2PP/R3KB1R w KQ - 0 9",
	}

	for _, fen := range fens {
		b, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		score := Evaluate(b)
		mirrored := Evaluate(b.Mirror())
		if score != -mirrored {
			t.Errorf("%s: eval %d, mirrored %d, want negation", fen, score, mirrored)
		}
	}
}

func TestSearchFindsMate(t *testing.T) {
	fens := []string{
		"6k1/8/6K1/8/8/8/8/Q7 w - - 0 1",
		"7k/8/5QK1/8/8/8/8/8 w - - 0 1",
	}

	for _, fen := range fens {
		b, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatalf("ParseFEN(%q): %v", fen, err)
		}

		eng := NewEngine(16)
		move, score := eng.Search(b, nil, Limits{Depth: 4})

		if score != MateScore-1 {
			t.Errorf("%s: score %d, want mate in one", fen, score)
		}
		b.MakeMove(move)
		if !b.IsCheckmate() {
			t.Errorf("%s: %s does not deliver mate", fen, move)
		}
	}
}

func TestSearchStartposIsLegal(t *testing.T) {
	b := chess.NewBoard()
	eng := NewEngine(16)

	infos := 0
	eng.OnInfo = func(info SearchInfo) {
		infos++
		if info.Depth < 1 || len(info.PV) == 0 {
			t.Errorf("bad info: depth %d, pv %v", info.Depth, info.PV)
		}
	}

	move, _ := eng.Search(b, nil, Limits{Depth: 5})

	var moves chess.MoveList
	b.GenerateLegalMoves(&moves)
	if !moves.Contains(move) {
		t.Fatalf("best move %s is not legal", move)
	}
	if infos == 0 {
		t.Error("no search info reported")
	}
}

func TestSearchRespectsNodeLimit(t *testing.T) {
	b := chess.NewBoard()
	eng := NewEngine(16)

	start := time.Now()
	move, _ := eng.Search(b, nil, Limits{Nodes: 20000, Depth: 64})
	if move == chess.NoMove {
		t.Fatal("no move under node limit")
	}
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Errorf("node-limited search took %v", elapsed)
	}
}

func TestSearchAvoidsRepetitionWhenWinning(t *testing.T) {
	// Up a queen, the engine must not score the position as a draw.
	b, err := chess.ParseFEN("6k1/5ppp/8/8/8/8/5PPP/Q5K1 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	eng := NewEngine(16)
	_, score := eng.Search(b, nil, Limits{Depth: 4})
	if score < 300 {
		t.Errorf("score %d, want clear advantage", score)
	}
}

func TestLazySMPAgreesOnMate(t *testing.T) {
	b, err := chess.ParseFEN("6k1/8/6K1/8/8/8/8/Q7 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	eng := NewEngine(16)
	eng.SetThreads(4)
	move, score := eng.Search(b, nil, Limits{Depth: 5})

	// More than one move mates here, so check the property, not the move.
	b.MakeMove(move)
	if !b.IsCheckmate() {
		t.Errorf("best move %s does not deliver mate", move)
	}
	if score < MateScore-100 {
		t.Errorf("score %d, want mate score", score)
	}
}

func TestPawnCacheMatchesDirectEvaluation(t *testing.T) {
	fens := []string{
		chess.StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - - 0 1",
		"8/5pk1/6p1/8/8/1P6/1KP5/8 b - - 0 1",
	}

	pt := NewPawnTable(1)
	for _, fen := range fens {
		b, err := chess.ParseFEN(fen)
		if err != nil {
			t.Fatal(err)
		}
		want := Evaluate(b)
		// Twice, so the second pass hits the cached entry.
		for i := 0; i < 2; i++ {
			if got := evaluate(b, pt); got != want {
				t.Errorf("%s: cached evaluation %d, want %d", fen, got, want)
			}
		}
	}
}

func TestIsPassedPawn(t *testing.T) {
	cases := []struct {
		fen  string
		sq   chess.Square
		c    chess.Color
		want bool
	}{
		{"4k3/8/8/8/8/2P5/8/4K3 w - - 0 1", chess.C3, chess.White, true},
		{"4k3/8/8/3p4/8/2P5/8/4K3 w - - 0 1", chess.C3, chess.White, false},
		{"4k3/8/8/3p4/8/2P5/8/4K3 w - - 0 1", chess.D5, chess.Black, false},
		{"4k3/8/8/7p/8/8/8/4K3 b - - 0 1", chess.H5, chess.Black, true},
	}
	for _, tc := range cases {
		b, err := chess.ParseFEN(tc.fen)
		if err != nil {
			t.Fatal(err)
		}
		if got := isPassedPawn(b, tc.sq, tc.c); got != tc.want {
			t.Errorf("isPassedPawn(%s, %v, %v) = %v, want %v", tc.fen, tc.sq, tc.c, got, tc.want)
		}
	}
}
