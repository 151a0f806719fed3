package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hailam/pawnplay/internal/board"
)

func mustSetup(t *testing.T, desc string) *board.Position {
	t.Helper()
	pos, err := board.NewPositionFromSetup(desc)
	if err != nil {
		t.Fatalf("setup %q: %v", desc, err)
	}
	return pos
}

func play(t *testing.T, pos *board.Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := board.ParseMove(s, pos)
		if err != nil {
			t.Fatalf("move %s: %v", s, err)
		}
		pos.ExecuteMove(m)
	}
}

func TestSearchBasic(t *testing.T) {
	pos := board.NewStandardPosition()
	eng := NewEngine(16)

	res, err := eng.Search(context.Background(), pos, board.White, Limits{Depth: 4, MoveTime: 5 * time.Second})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !pos.GenerateAllMoves(board.White).Contains(res.Move) {
		t.Errorf("Search returned illegal move %s", res.Move)
	}
	if res.Depth != 4 {
		t.Errorf("completed depth = %d, want 4", res.Depth)
	}
	t.Logf("Best move: %s (score %s, %d nodes)", res.Move, ScoreToString(res.Score), res.Nodes)
}

func TestSearchLeavesPositionUntouched(t *testing.T) {
	pos := board.NewStandardPosition()
	play(t, pos, "e2e4", "d7d5")
	before := pos.Copy()

	if _, err := NewEngine(1).Search(context.Background(), pos, board.White, Limits{Depth: 3}); err != nil {
		t.Fatal(err)
	}
	if !pos.Equal(before) {
		t.Errorf("search modified the position:\n%s", pos)
	}
}

// TestTranspositionSoundness checks that caching never changes the score of a
// fixed-depth search.
func TestTranspositionSoundness(t *testing.T) {
	tests := []struct {
		setup    string
		maxDepth int
	}{
		// From the start, transpositions up to ply 3 cannot differ in en
		// passant rights, which the hash does not see.
		{board.StandardSetup, 4},
		{"wa2 wb2 wc4 wd4 wf2 wg3 bb7 bc5 be6 bf7 bg5 bh6", 3},
		{"wb5 wc4 we4 wh2 ba7 bc6 bd5 bg7", 3},
	}

	for _, tc := range tests {
		for _, side := range []board.Color{board.White, board.Black} {
			for depth := 1; depth <= tc.maxDepth; depth++ {
				pos := mustSetup(t, tc.setup)

				_, plain := NewSearcher(NoTable{}, NewClassical()).Search(pos, depth, -Infinity, Infinity, side)
				_, mapped := NewSearcher(NewMapTable(), NewClassical()).Search(pos, depth, -Infinity, Infinity, side)
				_, hashed := NewSearcher(NewHashTable(1), NewClassical()).Search(pos, depth, -Infinity, Infinity, side)

				if plain != mapped || plain != hashed {
					t.Errorf("%q %s depth %d: score without table %d, map table %d, hash table %d",
						tc.setup, side, depth, plain, mapped, hashed)
				}
			}
		}
	}
}

// TestAspirationMatchesFullWindow checks that a narrow window that keeps
// failing still lands on the full-window score.
func TestAspirationMatchesFullWindow(t *testing.T) {
	pos := mustSetup(t, "wa2 wb2 wc4 wd4 wf2 wg3 bb7 bc5 be6 bf7 bg5 bh6")

	var researched int
	narrow := NewEngine(1, WithTable(NoTable{}), WithEvaluator(NewClassical()), WithAspirationWindow(1))
	narrow.OnInfo = func(info SearchInfo) {
		if info.Researched {
			researched++
		}
	}
	wide := NewEngine(1, WithTable(NoTable{}), WithEvaluator(NewClassical()), WithAspirationWindow(Infinity))

	limits := Limits{Depth: 4, MoveTime: time.Minute}
	a, err := narrow.Search(context.Background(), pos, board.White, limits)
	if err != nil {
		t.Fatal(err)
	}
	b, err := wide.Search(context.Background(), pos, board.White, limits)
	if err != nil {
		t.Fatal(err)
	}
	if a.Score != b.Score {
		t.Errorf("narrow window score %d, full window score %d", a.Score, b.Score)
	}
	t.Logf("re-searched %d of %d depths", researched, a.Depth)
}

func TestSearchFindsPromotion(t *testing.T) {
	pos := mustSetup(t, "wa6 wh2 bh7")

	res, err := NewEngine(1).Search(context.Background(), pos, board.White, Limits{Depth: 6, MoveTime: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move.String() != "a6a7" {
		t.Errorf("move = %s, want a6a7", res.Move)
	}
	if res.Score != WinScore-3 {
		t.Errorf("score = %d (%s), want win in 3 plies", res.Score, ScoreToString(res.Score))
	}
}

func TestSearchPrefersFasterWin(t *testing.T) {
	// Both pawns win, the one on b7 wins a move sooner.
	pos := mustSetup(t, "wb7 wg6 ba4")

	res, err := NewEngine(1).Search(context.Background(), pos, board.White, Limits{Depth: 5, MoveTime: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move.String() != "b7b8" {
		t.Errorf("move = %s, want b7b8", res.Move)
	}
	if res.Score != WinScore-1 {
		t.Errorf("score = %d, want %d", res.Score, WinScore-1)
	}
}

func TestSearchCapturesLastPawn(t *testing.T) {
	pos := mustSetup(t, "we4 wa2 bd5")

	res, err := NewEngine(1).Search(context.Background(), pos, board.White, Limits{Depth: 3, MoveTime: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move.String() != "e4d5" {
		t.Errorf("move = %s, want e4d5", res.Move)
	}
	if res.Score != WinScore-1 {
		t.Errorf("score = %d, want %d", res.Score, WinScore-1)
	}
}

func TestSearchBlackPerspective(t *testing.T) {
	pos := mustSetup(t, "wa2 bh3")

	res, err := NewEngine(1).Search(context.Background(), pos, board.Black, Limits{Depth: 3, MoveTime: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move.String() != "h3h2" {
		t.Errorf("move = %s, want h3h2", res.Move)
	}
	if !IsDecisive(res.Score) || res.Score < 0 {
		t.Errorf("score = %d, want a win for black", res.Score)
	}
}

func TestSearchNoMove(t *testing.T) {
	tests := []struct {
		name  string
		setup string
	}{
		{"blocked", "we4 be5"},
		{"annihilated", "be5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustSetup(t, tc.setup)
			_, err := NewEngine(1).Search(context.Background(), pos, board.White, Limits{Depth: 3})
			if !errors.Is(err, ErrNoMove) {
				t.Errorf("err = %v, want ErrNoMove", err)
			}
		})
	}
}

func TestSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewEngine(1).Search(ctx, board.NewStandardPosition(), board.White, Limits{Depth: 3})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestSearchRespectsTime(t *testing.T) {
	pos := board.NewStandardPosition()
	eng := NewEngine(16)

	start := time.Now()
	res, err := eng.Search(context.Background(), pos, board.White, Limits{MoveTime: 50 * time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Errorf("search took %v with a 50ms budget", elapsed)
	}
	if !pos.GenerateAllMoves(board.White).Contains(res.Move) {
		t.Errorf("illegal move %s", res.Move)
	}
	t.Logf("reached depth %d in %v", res.Depth, res.Time)
}

func TestSearchContextDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	res, err := NewEngine(16).Search(ctx, board.NewStandardPosition(), board.Black, Limits{})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move == board.NoMove || res.Move.Color() != board.Black {
		t.Errorf("move = %s, want a black move", res.Move)
	}
}

// TestIterativeDeepening checks that depths are reported in order and that
// a deeper search never turns a found forced win into something worse.
func TestIterativeDeepening(t *testing.T) {
	pos := mustSetup(t, "wa2 wb2 wc4 wd4 wf2 wg3 bb7 bc5 be6 bf7 bg5 bh6")

	var depths []int
	eng := NewEngine(16)
	eng.OnInfo = func(info SearchInfo) {
		depths = append(depths, info.Depth)
	}

	res, err := eng.Search(context.Background(), pos, board.White, Limits{Depth: 5, MoveTime: time.Minute})
	if err != nil {
		t.Fatal(err)
	}
	for i, d := range depths {
		if d != i+1 {
			t.Fatalf("reported depths %v, want 1..n", depths)
		}
	}
	if res.Depth != len(depths) {
		t.Errorf("result depth %d, reported %d depths", res.Depth, len(depths))
	}

	win := mustSetup(t, "wa6 wh2 bh7")
	prev := 0
	for depth := 3; depth <= 6; depth++ {
		res, err := NewEngine(1).Search(context.Background(), win, board.White, Limits{Depth: depth, MoveTime: time.Minute})
		if err != nil {
			t.Fatal(err)
		}
		if res.Score < prev {
			t.Errorf("depth %d score %d dropped below %d", depth, res.Score, prev)
		}
		prev = res.Score
	}
}

func TestEngineTableLifecycle(t *testing.T) {
	tt := NewMapTable()
	eng := NewEngine(1, WithTable(tt))
	pos := board.NewStandardPosition()

	if _, err := eng.Search(context.Background(), pos, board.White, Limits{Depth: 3}); err != nil {
		t.Fatal(err)
	}
	if len(tt) == 0 {
		t.Fatal("search stored nothing")
	}

	pos.ExecuteMove(board.NewDoublePush(board.E2, board.E4, board.White))
	if _, err := eng.Search(context.Background(), pos, board.Black, Limits{Depth: 1}); err != nil {
		t.Fatal(err)
	}
	for _, e := range tt {
		if e.Depth > 1 {
			t.Fatalf("entries from the white search survived a color change: %+v", e)
		}
	}

	eng.Clear()
	if len(tt) != 0 {
		t.Errorf("Clear left %d entries", len(tt))
	}
}

func TestScoreToString(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{0, "0.00"},
		{150, "1.50"},
		{-35, "-0.35"},
		{WinScore - 3, "Win in 3"},
		{-WinScore + 4, "Loss in 4"},
	}
	for _, tc := range tests {
		if got := ScoreToString(tc.score); got != tc.want {
			t.Errorf("ScoreToString(%d) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

// TestSearchAfterEnPassantGame reuses one engine across two games whose
// positions share a pawn layout but differ in the en passant right.
func TestSearchAfterEnPassantGame(t *testing.T) {
	eng := NewEngine(1)

	first := mustSetup(t, "we5 bd7")
	play(t, first, "d7d5")
	res, err := eng.Search(context.Background(), first, board.White, Limits{Depth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if res.Move.String() != "e5d6" {
		t.Fatalf("first game move = %s, want e5d6", res.Move)
	}

	second := mustSetup(t, "we5 bd5")
	res, err = eng.Search(context.Background(), second, board.White, Limits{Depth: 4})
	if err != nil {
		t.Fatal(err)
	}
	if !second.GenerateAllMoves(board.White).Contains(res.Move) {
		t.Fatalf("illegal move %s", res.Move)
	}
	if res.Move.String() != "e5e6" {
		t.Errorf("second game move = %s, want e5e6", res.Move)
	}
	if res.Score == WinScore-1 {
		t.Errorf("score %s claims the en passant win", ScoreToString(res.Score))
	}
}

func TestSearchInfoStats(t *testing.T) {
	eng := NewEngine(1)
	var last SearchInfo
	eng.OnInfo = func(info SearchInfo) { last = info }

	if _, err := eng.Search(context.Background(), board.NewStandardPosition(), board.White, Limits{Depth: 4, MoveTime: time.Minute}); err != nil {
		t.Fatal(err)
	}
	if last.Depth != 4 {
		t.Fatalf("last reported depth %d, want 4", last.Depth)
	}
	if last.HashFull < 0 || last.HashFull > 1000 {
		t.Errorf("hashfull = %d", last.HashFull)
	}
	if last.TTHitRate <= 0 || last.TTHitRate > 100 {
		t.Errorf("tt hit rate = %.1f", last.TTHitRate)
	}
	if last.EvalHitRate <= 0 || last.EvalHitRate > 100 {
		t.Errorf("eval hit rate = %.1f", last.EvalHitRate)
	}
}
