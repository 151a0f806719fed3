package engine

import (
	"testing"

	"github.com/hailam/pawnplay/internal/board"
)

func TestTranspositionTables(t *testing.T) {
	tables := map[string]TranspositionTable{
		"hash": NewHashTable(1),
		"map":  NewMapTable(),
	}

	pos := board.NewStandardPosition()
	hash := board.Hash(pos, board.White)
	move := board.NewDoublePush(board.E2, board.E4, board.White)
	other := board.NewQuiet(board.D2, board.D3, board.White)

	for name, tt := range tables {
		t.Run(name, func(t *testing.T) {
			if _, ok := tt.TryGet(hash, 1); ok {
				t.Fatal("hit on empty table")
			}

			tt.Store(hash, 4, 35, TTLowerBound, move)

			e, ok := tt.TryGet(hash, 4)
			if !ok {
				t.Fatal("miss at stored depth")
			}
			if e.Score != 35 || e.Flag != TTLowerBound || e.BestMove != move || e.Depth != 4 {
				t.Errorf("entry = %+v", e)
			}
			if _, ok := tt.TryGet(hash, 2); !ok {
				t.Error("miss at shallower request")
			}
			if _, ok := tt.TryGet(hash, 5); ok {
				t.Error("hit at deeper request")
			}
			if _, ok := tt.TryGet(hash^1, 1); ok {
				t.Error("hit for a different hash")
			}

			// Last write wins, even when shallower.
			tt.Store(hash, 2, -10, TTExact, other)
			e, ok = tt.TryGet(hash, 1)
			if !ok || e.Depth != 2 || e.Score != -10 || e.BestMove != other {
				t.Errorf("after overwrite entry = %+v, %v", e, ok)
			}

			tt.Clear()
			if _, ok := tt.TryGet(hash, 1); ok {
				t.Error("hit after Clear")
			}
		})
	}
}

func TestNoTable(t *testing.T) {
	var tt NoTable
	tt.Store(42, 3, 1, TTExact, board.NoMove)
	if _, ok := tt.TryGet(42, 0); ok {
		t.Error("NoTable returned an entry")
	}
}

func TestHashTableStats(t *testing.T) {
	tt := NewHashTable(1)
	if tt.Size() != 1<<16 {
		t.Errorf("1MB table has %d entries, want %d", tt.Size(), 1<<16)
	}
	for i := uint64(0); i < 100; i++ {
		tt.Store(i*0x9E3779B97F4A7C15, 1, 0, TTExact, board.NoMove)
	}
	tt.TryGet(0x9E3779B97F4A7C15, 1)
	tt.TryGet(12345, 1)
	if tt.HitRate() != 50 {
		t.Errorf("hit rate = %v, want 50", tt.HitRate())
	}
	if tt.HashFull() == 0 {
		t.Error("HashFull = 0 after stores")
	}
}

func TestAdjustScoreTT(t *testing.T) {
	for _, score := range []int{0, 250, -250, WinScore - 5, -WinScore + 7} {
		for _, ply := range []int{0, 3, 10} {
			stored := AdjustScoreToTT(score, ply)
			if got := AdjustScoreFromTT(stored, ply); got != score {
				t.Errorf("round trip of %d at ply %d = %d", score, ply, got)
			}
		}
	}
	// A win found 2 plies below a node at ply 3 is a win 5 plies from the
	// root; probed at ply 1 it is a win 3 plies from the root.
	stored := AdjustScoreToTT(WinScore-5, 3)
	if got := AdjustScoreFromTT(stored, 1); got != WinScore-3 {
		t.Errorf("win transposed to ply 1 = %d, want %d", got, WinScore-3)
	}
}
