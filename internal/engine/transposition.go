package engine

import (
	"github.com/hailam/pawnplay/internal/board"
)

// TTFlag indicates the type of bound stored in the transposition table.
type TTFlag uint8

const (
	TTExact      TTFlag = iota // Exact score
	TTLowerBound               // Failed high (beta cutoff)
	TTUpperBound               // Failed low
)

func (f TTFlag) String() string {
	switch f {
	case TTExact:
		return "exact"
	case TTLowerBound:
		return "lower"
	case TTUpperBound:
		return "upper"
	}
	return "?"
}

// TTEntry represents an entry in the transposition table.
type TTEntry struct {
	Key      uint64     // Zobrist hash the entry was stored under
	BestMove board.Move // Best move found
	Score    int32      // Score (bounded by flag)
	Depth    int8       // Search depth
	Flag     TTFlag     // Type of bound
}

// TranspositionTable caches search results by Zobrist hash. The engine owns
// one table and is its only user; implementations need no locking.
type TranspositionTable interface {
	// TryGet returns the entry for hash if it was searched at least minDepth
	// plies deep.
	TryGet(hash uint64, minDepth int) (TTEntry, bool)
	// Store records a result, replacing whatever was there.
	Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move)
	// Clear forgets every entry.
	Clear()
}

// HashTable is a fixed-size transposition table indexed by the low bits of
// the hash. Last write wins, including between different positions that
// share a slot.
type HashTable struct {
	entries []TTEntry
	size    uint64
	mask    uint64

	hits   uint64
	probes uint64
}

// NewHashTable creates a transposition table with the given size in MB.
func NewHashTable(sizeMB int) *HashTable {
	entrySize := uint64(16)
	numEntries := (uint64(max(sizeMB, 1)) * 1024 * 1024) / entrySize

	// Round down to power of 2 for fast modulo
	numEntries = roundDownToPowerOf2(numEntries)

	return &HashTable{
		entries: make([]TTEntry, numEntries),
		size:    numEntries,
		mask:    numEntries - 1,
	}
}

// roundDownToPowerOf2 rounds n down to the nearest power of 2.
func roundDownToPowerOf2(n uint64) uint64 {
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// TryGet implements TranspositionTable. Slots with depth 0 are empty; the
// search never stores leaf results.
func (tt *HashTable) TryGet(hash uint64, minDepth int) (TTEntry, bool) {
	tt.probes++

	entry := tt.entries[hash&tt.mask]
	if entry.Key == hash && entry.Depth > 0 && int(entry.Depth) >= minDepth {
		tt.hits++
		return entry, true
	}
	return TTEntry{}, false
}

// Store implements TranspositionTable.
func (tt *HashTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	tt.entries[hash&tt.mask] = TTEntry{
		Key:      hash,
		BestMove: bestMove,
		Score:    int32(score),
		Depth:    int8(depth),
		Flag:     flag,
	}
}

// Clear clears the transposition table.
func (tt *HashTable) Clear() {
	clear(tt.entries)
	tt.hits = 0
	tt.probes = 0
}

// HashFull returns the permille (parts per thousand) of the table that is used.
func (tt *HashTable) HashFull() int {
	// Sample first 1000 entries
	used := 0
	sampleSize := 1000
	if uint64(sampleSize) > tt.size {
		sampleSize = int(tt.size)
	}
	for i := 0; i < sampleSize; i++ {
		if tt.entries[i].Depth > 0 {
			used++
		}
	}
	return (used * 1000) / sampleSize
}

// HitRate returns the cache hit rate as a percentage.
func (tt *HashTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

// Size returns the number of entries in the table.
func (tt *HashTable) Size() uint64 {
	return tt.size
}

// MapTable is an unbounded transposition table backed by a map.
type MapTable map[uint64]TTEntry

// NewMapTable returns an empty MapTable.
func NewMapTable() MapTable {
	return make(MapTable)
}

// TryGet implements TranspositionTable.
func (m MapTable) TryGet(hash uint64, minDepth int) (TTEntry, bool) {
	e, ok := m[hash]
	if !ok || int(e.Depth) < minDepth {
		return TTEntry{}, false
	}
	return e, true
}

// Store implements TranspositionTable.
func (m MapTable) Store(hash uint64, depth int, score int, flag TTFlag, bestMove board.Move) {
	m[hash] = TTEntry{Key: hash, BestMove: bestMove, Score: int32(score), Depth: int8(depth), Flag: flag}
}

// Clear implements TranspositionTable.
func (m MapTable) Clear() {
	clear(m)
}

// NoTable disables transposition caching.
type NoTable struct{}

// TryGet implements TranspositionTable.
func (NoTable) TryGet(uint64, int) (TTEntry, bool) {
	return TTEntry{}, false
}

// Store implements TranspositionTable.
func (NoTable) Store(uint64, int, int, TTFlag, board.Move) {}

// Clear implements TranspositionTable.
func (NoTable) Clear() {}

// AdjustScoreFromTT converts a stored win score back to distance from the
// root. Win scores are stored relative to the node they were found at.
func AdjustScoreFromTT(score int, ply int) int {
	if score > WinScore-MaxPly {
		return score - ply
	}
	if score < -WinScore+MaxPly {
		return score + ply
	}
	return score
}

// AdjustScoreToTT adjusts a score for storage in the transposition table.
func AdjustScoreToTT(score int, ply int) int {
	if score > WinScore-MaxPly {
		return score + ply
	}
	if score < -WinScore+MaxPly {
		return score - ply
	}
	return score
}
