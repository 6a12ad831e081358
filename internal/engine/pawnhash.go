package engine

import "github.com/georgemunyoro/rusty-redtail/internal/chess"

// pawnEntry caches the pawn structure terms for one pawn configuration.
// Only terms that depend purely on pawn placement are stored here.
type pawnEntry struct {
	key uint64
	mg  int16
	eg  int16
}

// PawnTable caches pawn structure evaluation across positions that share the
// same pawn configuration. Each searcher owns one, so probes need no locking.
type PawnTable struct {
	entries []pawnEntry
	mask    uint64
}

// NewPawnTable allocates a pawn table of the given size in MB, rounded down
// to a power of two entries.
func NewPawnTable(sizeMB int) *PawnTable {
	const entrySize = 12
	numEntries := sizeMB * 1024 * 1024 / entrySize

	size := 1
	for size*2 <= numEntries {
		size *= 2
	}

	return &PawnTable{
		entries: make([]pawnEntry, size),
		mask:    uint64(size - 1),
	}
}

func (pt *PawnTable) probe(key uint64) (mg, eg int, ok bool) {
	e := &pt.entries[key&pt.mask]
	if e.key != key {
		return 0, 0, false
	}
	return int(e.mg), int(e.eg), true
}

func (pt *PawnTable) store(key uint64, mg, eg int) {
	e := &pt.entries[key&pt.mask]
	e.key = key
	e.mg = int16(mg)
	e.eg = int16(eg)
}

// pawnKey hashes the two pawn bitboards. The mixing keeps configurations
// that differ only by color from colliding.
func pawnKey(b *chess.Board) uint64 {
	white := uint64(b.Pieces[chess.White][chess.Pawn])
	black := uint64(b.Pieces[chess.Black][chess.Pawn])
	return mix64(mix64(white) + black)
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
