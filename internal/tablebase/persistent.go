package tablebase

import (
	"github.com/georgemunyoro/rusty-redtail/internal/chess"
	"github.com/georgemunyoro/rusty-redtail/internal/storage"
)

// PersistentProber backs a prober with the on-disk store, so verdicts
// survive across sessions. Tablebase results never go stale: once a
// position is known won or drawn, it stays that way.
type PersistentProber struct {
	inner Prober
	store *storage.Store
}

func NewPersistentProber(inner Prober, store *storage.Store) *PersistentProber {
	return &PersistentProber{inner: inner, store: store}
}

func (pp *PersistentProber) Probe(b *chess.Board) ProbeResult {
	if rec, found, err := pp.store.LoadProbe(b.Hash); err == nil && found {
		return ProbeResult{Found: true, WDL: WDL(rec.WDL), DTZ: rec.DTZ}
	}

	result := pp.inner.Probe(b)
	if result.Found {
		// Best effort: a failed write just means probing again next time.
		_ = pp.store.SaveProbe(b.Hash, storage.ProbeRecord{
			WDL: int(result.WDL),
			DTZ: result.DTZ,
		})
	}
	return result
}

func (pp *PersistentProber) ProbeRoot(b *chess.Board) RootResult {
	return pp.inner.ProbeRoot(b)
}

func (pp *PersistentProber) MaxPieces() int { return pp.inner.MaxPieces() }

func (pp *PersistentProber) Available() bool { return pp.inner.Available() }
