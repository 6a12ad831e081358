package tablebase

import (
	"testing"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
	"github.com/georgemunyoro/rusty-redtail/internal/storage"
)

// fakeProber counts lookups and answers every position with a fixed result.
type fakeProber struct {
	result ProbeResult
	calls  int
}

func (f *fakeProber) Probe(*chess.Board) ProbeResult {
	f.calls++
	return f.result
}

func (f *fakeProber) ProbeRoot(*chess.Board) RootResult { return RootResult{} }
func (f *fakeProber) MaxPieces() int                    { return 7 }
func (f *fakeProber) Available() bool                   { return true }

func TestNoopProber(t *testing.T) {
	prober := NoopProber{}

	if prober.Available() {
		t.Error("noop prober reports available")
	}
	if prober.MaxPieces() != 0 {
		t.Errorf("MaxPieces = %d, want 0", prober.MaxPieces())
	}

	b := chess.NewBoard()
	if prober.Probe(b).Found || prober.ProbeRoot(b).Found {
		t.Error("noop prober found something")
	}
}

func TestCountPieces(t *testing.T) {
	if n := CountPieces(chess.NewBoard()); n != 32 {
		t.Errorf("starting position has %d pieces, want 32", n)
	}
}

func TestWDLToScore(t *testing.T) {
	if WDLToScore(WDLWin, 4) <= WDLToScore(WDLCursedWin, 4) {
		t.Error("clean win should outrank cursed win")
	}
	if WDLToScore(WDLDraw, 0) != 0 {
		t.Error("draw should score zero")
	}
	if WDLToScore(WDLLoss, 4) >= WDLToScore(WDLBlessedLoss, 4) {
		t.Error("blessed loss should outrank loss")
	}
	if WDLToScore(WDLWin, 2) <= WDLToScore(WDLWin, 10) {
		t.Error("nearer win should score higher")
	}
}

func TestCachedProber(t *testing.T) {
	inner := &fakeProber{result: ProbeResult{Found: true, WDL: WDLWin, DTZ: 5}}
	cp := NewCachedProber(inner, 16)

	b, err := chess.ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	first := cp.Probe(b)
	second := cp.Probe(b)

	if first != second {
		t.Errorf("cache changed the result: %+v vs %+v", first, second)
	}
	if inner.calls != 1 {
		t.Errorf("inner probed %d times, want 1", inner.calls)
	}
	if cp.HitRate() != 50 {
		t.Errorf("hit rate %.1f, want 50", cp.HitRate())
	}

	cp.Clear()
	cp.Probe(b)
	if inner.calls != 2 {
		t.Errorf("inner probed %d times after clear, want 2", inner.calls)
	}
}

func TestPersistentProber(t *testing.T) {
	st, err := storage.OpenAt(t.TempDir())
	if err != nil {
		t.Fatalf("OpenAt: %v", err)
	}
	defer st.Close()

	inner := &fakeProber{result: ProbeResult{Found: true, WDL: WDLCursedWin, DTZ: 30}}
	pp := NewPersistentProber(inner, st)

	b, err := chess.ParseFEN("4k3/8/8/8/8/8/4P3/4K3 w - - 0 1")
	if err != nil {
		t.Fatal(err)
	}

	first := pp.Probe(b)
	if !first.Found || first.WDL != WDLCursedWin {
		t.Fatalf("probe result %+v", first)
	}

	// The second lookup must come from the store.
	second := pp.Probe(b)
	if second != first {
		t.Errorf("persistent result changed: %+v vs %+v", second, first)
	}
	if inner.calls != 1 {
		t.Errorf("inner probed %d times, want 1", inner.calls)
	}

	// Misses are not persisted.
	miss := &fakeProber{}
	pm := NewPersistentProber(miss, st)
	empty, _ := chess.ParseFEN("8/8/4k3/8/8/3K4/8/8 w - - 0 1")
	pm.Probe(empty)
	pm.Probe(empty)
	if miss.calls != 2 {
		t.Errorf("miss cached: inner probed %d times, want 2", miss.calls)
	}
}
