package engine

import (
	"testing"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

func TestHistoryRewardAndPenalty(t *testing.T) {
	o := NewOrderer()
	m := chess.NewMove(chess.G1, chess.F3)

	o.UpdateHistory(m, 4, true)
	if got := o.HistoryScore(m); got != 16 {
		t.Errorf("history after reward = %d, want 16", got)
	}

	o.UpdateHistory(m, 6, false)
	if got := o.HistoryScore(m); got != 16-36 {
		t.Errorf("history after penalty = %d, want %d", got, 16-36)
	}

	// The penalty saturates instead of underflowing.
	for i := 0; i < 10000; i++ {
		o.UpdateHistory(m, 10, false)
	}
	if got := o.HistoryScore(m); got != -400000 {
		t.Errorf("history floor = %d, want -400000", got)
	}
}

func TestClearFadesOrderingState(t *testing.T) {
	o := NewOrderer()
	m := chess.NewMove(chess.B1, chess.C3)

	o.UpdateKillers(m, 3)
	o.UpdateHistory(m, 10, true)

	o.Clear()

	if o.killers[3][0] != chess.NoMove {
		t.Errorf("killer survived Clear: %v", o.killers[3][0])
	}
	if got := o.HistoryScore(m); got != 50 {
		t.Errorf("history after Clear = %d, want 50", got)
	}
}

func TestPickMoveSelectsHighestScore(t *testing.T) {
	b := chess.NewBoard()
	var moves chess.MoveList
	b.GenerateLegalMoves(&moves)

	scores := make([]int, moves.Len())
	wantIdx := moves.Len() - 1
	want := moves.Get(wantIdx)
	scores[wantIdx] = 100

	PickMove(&moves, scores, 0)
	if moves.Get(0) != want {
		t.Errorf("picked %v, want %v", moves.Get(0), want)
	}
	if scores[0] != 100 {
		t.Errorf("score not swapped with the move: %d", scores[0])
	}
}
