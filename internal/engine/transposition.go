package engine

import (
	"sync"
	"sync/atomic"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// Bound classifies a stored score.
type Bound uint8

const (
	BoundExact Bound = iota
	BoundLower       // score failed high
	BoundUpper       // score failed low
)

// Entry is one transposition table slot. The full 64-bit key is kept so a
// probe can rule out index collisions outright.
type Entry struct {
	Key   uint64
	Move  chess.Move
	Score int16
	Depth int8
	Bound Bound
	Age   uint8
}

const tableShards = 256

// Table is the shared transposition table. Slots are guarded by sharded
// RWMutexes so lazy-SMP workers can probe and store concurrently.
type Table struct {
	entries []Entry
	locks   [tableShards]sync.RWMutex
	mask    uint64
	age     atomic.Uint32
}

// NewTable allocates a table of roughly sizeMB megabytes, rounded down to a
// power-of-two entry count.
func NewTable(sizeMB int) *Table {
	const entrySize = 16
	n := uint64(sizeMB) * 1024 * 1024 / entrySize
	for n&(n-1) != 0 {
		n &= n - 1
	}
	if n == 0 {
		n = 1
	}
	return &Table{
		entries: make([]Entry, n),
		mask:    n - 1,
	}
}

// Probe returns the entry for hash if one is stored and its key matches.
func (t *Table) Probe(hash uint64) (Entry, bool) {
	idx := hash & t.mask
	lk := &t.locks[idx&(tableShards-1)]
	lk.RLock()
	e := t.entries[idx]
	lk.RUnlock()

	if e.Key == hash && e.Depth > 0 {
		return e, true
	}
	return Entry{}, false
}

// Store writes an entry, replacing the incumbent when it is from an earlier
// search or shallower.
func (t *Table) Store(hash uint64, depth, score int, bound Bound, move chess.Move) {
	idx := hash & t.mask
	lk := &t.locks[idx&(tableShards-1)]
	age := uint8(t.age.Load())

	lk.Lock()
	e := &t.entries[idx]
	if e.Age != age || depth >= int(e.Depth) {
		*e = Entry{
			Key:   hash,
			Move:  move,
			Score: int16(score),
			Depth: int8(depth),
			Bound: bound,
			Age:   age,
		}
	}
	lk.Unlock()
}

// NextSearch bumps the generation so the replacement policy favors fresh
// entries.
func (t *Table) NextSearch() { t.age.Add(1) }

// Clear empties the table.
func (t *Table) Clear() {
	for i := range t.entries {
		t.entries[i] = Entry{}
	}
	t.age.Store(0)
}

// Hashfull estimates table saturation in permille by sampling a prefix, the
// figure UCI "info hashfull" reports.
func (t *Table) Hashfull() int {
	sample := 1000
	if len(t.entries) < sample {
		sample = len(t.entries)
	}
	age := uint8(t.age.Load())
	used := 0
	for i := 0; i < sample; i++ {
		if t.entries[i].Depth > 0 && t.entries[i].Age == age {
			used++
		}
	}
	return used * 1000 / sample
}

// Mate scores are stored relative to the probing node so they stay correct
// at any ply; scoreToTT and scoreFromTT shift them on the way in and out.
func scoreToTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}

func scoreFromTT(score, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}
