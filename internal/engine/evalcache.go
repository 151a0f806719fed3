package engine

import (
	"github.com/hailam/pawnplay/internal/board"
)

// evalEntry stores one cached static evaluation.
type evalEntry struct {
	Key   uint64
	Score int32
}

// CachedEvaluator memoizes another Evaluator in a fixed-size hash table.
// The key is the Zobrist hash with the perspective color in the side-to-move
// slot, so scores for both perspectives live side by side.
type CachedEvaluator struct {
	inner   Evaluator
	entries []evalEntry
	mask    uint64

	hits, probes uint64
}

// NewCachedEvaluator wraps inner with a cache of the given size in MB.
func NewCachedEvaluator(inner Evaluator, sizeMB int) *CachedEvaluator {
	// Each entry is 16 bytes after padding, round to power of 2
	entrySize := 16
	numEntries := (max(sizeMB, 1) * 1024 * 1024) / entrySize

	size := 1
	for size*2 <= numEntries {
		size *= 2
	}

	return &CachedEvaluator{
		inner:   inner,
		entries: make([]evalEntry, size),
		mask:    uint64(size - 1),
	}
}

// Evaluate implements Evaluator.
func (ce *CachedEvaluator) Evaluate(pos *board.Position, perspective board.Color) int {
	key := board.Hash(pos, perspective)
	ce.probes++
	entry := &ce.entries[key&ce.mask]
	if entry.Key == key && key != 0 {
		ce.hits++
		return int(entry.Score)
	}

	score := ce.inner.Evaluate(pos, perspective)
	entry.Key = key
	entry.Score = int32(score)
	return score
}

// HitRate returns the cache hit rate as a percentage.
func (ce *CachedEvaluator) HitRate() float64 {
	if ce.probes == 0 {
		return 0
	}
	return float64(ce.hits) / float64(ce.probes) * 100
}

// Clear clears the cache.
func (ce *CachedEvaluator) Clear() {
	clear(ce.entries)
	ce.hits = 0
	ce.probes = 0
}
