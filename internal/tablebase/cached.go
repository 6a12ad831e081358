package tablebase

import (
	"sync"

	"github.com/georgemunyoro/rusty-redtail/internal/chess"
)

// CachedProber keeps probe results in memory keyed by position hash, cutting
// repeat API calls during a search.
type CachedProber struct {
	inner   Prober
	mu      sync.RWMutex
	cache   map[uint64]ProbeResult
	maxSize int
	hits    uint64
	misses  uint64
}

func NewCachedProber(inner Prober, cacheSize int) *CachedProber {
	return &CachedProber{
		inner:   inner,
		cache:   make(map[uint64]ProbeResult, cacheSize),
		maxSize: cacheSize,
	}
}

func (cp *CachedProber) Probe(b *chess.Board) ProbeResult {
	cp.mu.RLock()
	result, ok := cp.cache[b.Hash]
	cp.mu.RUnlock()
	if ok {
		cp.mu.Lock()
		cp.hits++
		cp.mu.Unlock()
		return result
	}

	result = cp.inner.Probe(b)

	cp.mu.Lock()
	cp.misses++
	if len(cp.cache) >= cp.maxSize {
		// Blunt eviction: drop half the map rather than track recency.
		i := 0
		for k := range cp.cache {
			if i >= cp.maxSize/2 {
				break
			}
			delete(cp.cache, k)
			i++
		}
	}
	cp.cache[b.Hash] = result
	cp.mu.Unlock()

	return result
}

// ProbeRoot is not cached; it needs the move list, not just the verdict.
func (cp *CachedProber) ProbeRoot(b *chess.Board) RootResult {
	return cp.inner.ProbeRoot(b)
}

func (cp *CachedProber) MaxPieces() int { return cp.inner.MaxPieces() }

func (cp *CachedProber) Available() bool { return cp.inner.Available() }

// HitRate returns the cache hit rate as a percentage.
func (cp *CachedProber) HitRate() float64 {
	cp.mu.RLock()
	defer cp.mu.RUnlock()
	total := cp.hits + cp.misses
	if total == 0 {
		return 0
	}
	return float64(cp.hits) / float64(total) * 100
}

func (cp *CachedProber) Clear() {
	cp.mu.Lock()
	defer cp.mu.Unlock()
	cp.cache = make(map[uint64]ProbeResult, cp.maxSize)
	cp.hits = 0
	cp.misses = 0
}
