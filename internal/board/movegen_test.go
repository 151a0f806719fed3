package board

import (
	"errors"
	"testing"
)

func mustSetup(t *testing.T, desc string) *Position {
	t.Helper()
	pos, err := NewPositionFromSetup(desc)
	if err != nil {
		t.Fatalf("setup %q: %v", desc, err)
	}
	return pos
}

func play(t *testing.T, pos *Position, moves ...string) {
	t.Helper()
	for _, s := range moves {
		m, err := ParseMove(s, pos)
		if err != nil {
			t.Fatalf("move %s: %v", s, err)
		}
		pos.ExecuteMove(m)
	}
}

func movesOf(pos *Position, sq Square) []string {
	var ml MoveList
	pos.GenerateMoves(sq, &ml)
	var out []string
	for _, m := range ml.Slice() {
		out = append(out, m.String())
	}
	return out
}

func TestStartingMoveCount(t *testing.T) {
	pos := NewStandardPosition()
	if n := pos.GenerateAllMoves(White).Len(); n != 16 {
		t.Errorf("white has %d moves, want 16", n)
	}
	if n := pos.GenerateAllMoves(Black).Len(); n != 16 {
		t.Errorf("black has %d moves, want 16", n)
	}
	if n := pos.GenerateCaptures(White).Len(); n != 0 {
		t.Errorf("white has %d captures, want 0", n)
	}
}

func TestPawnMoves(t *testing.T) {
	tests := []struct {
		name  string
		setup string
		last  []string // moves played after setup
		from  Square
		want  []string
	}{
		{"white start", "we2", nil, E2, []string{"e2e3", "e2e4"}},
		{"black start", "bd7", nil, D7, []string{"d7d6", "d7d5"}},
		{"double push blocked on target", "we2 be4", nil, E2, []string{"e2e3"}},
		{"blocked in front", "we2 be3", nil, E2, nil},
		{"not on start rank", "we3", nil, E3, []string{"e3e4"}},
		{"captures both sides", "wd4 bc5 be5 bd5", nil, D4, []string{"d4c5", "d4e5"}},
		{"no capture of own pawn", "wd4 wc5 bd7", nil, D4, []string{"d4d5"}},
		{"a-file edge", "wa4 bb5", nil, A4, []string{"a4a5", "a4b5"}},
		{"h-file edge", "bh5 wg4", nil, H5, []string{"h5h4", "h5g4"}},
		{"promotion rank", "wc8 ba7", nil, C8, nil},
		{"black on first rank", "bc1 wa2", nil, C1, nil},
		{"empty square", "wa2", nil, E4, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pos := mustSetup(t, tc.setup)
			play(t, pos, tc.last...)
			got := movesOf(pos, tc.from)
			if len(got) != len(tc.want) {
				t.Fatalf("moves from %s = %v, want %v", tc.from, got, tc.want)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Errorf("moves from %s = %v, want %v", tc.from, got, tc.want)
					break
				}
			}
		})
	}
}

func TestEnPassant(t *testing.T) {
	pos := NewStandardPosition()
	play(t, pos, "e2e4", "a7a6", "e4e5", "d7d5")

	m, err := ParseMove("e5d6", pos)
	if err != nil {
		t.Fatalf("en passant not offered: %v (moves: %v)", err, movesOf(pos, E5))
	}
	if !m.IsEnPassant() || !m.IsCapture() {
		t.Fatalf("e5d6 parsed as kind %d, want en passant", m.Kind())
	}
	if m.Captured() != D5 {
		t.Errorf("captured square = %s, want d5", m.Captured())
	}

	blackBefore := pos.PawnCount(Black)
	pos.ExecuteMove(m)
	if pos.PieceAt(D5) != Empty {
		t.Errorf("passed pawn on d5 still present")
	}
	if pos.PieceAt(D6) != WhitePawn {
		t.Errorf("d6 = %s, want white pawn", pos.PieceAt(D6))
	}
	if pos.PieceAt(E5) != Empty {
		t.Errorf("e5 not vacated")
	}
	if pos.PawnCount(Black) != blackBefore-1 {
		t.Errorf("black pawns = %d, want %d", pos.PawnCount(Black), blackBefore-1)
	}
	if err := pos.Validate(); err != nil {
		t.Error(err)
	}
}

func TestEnPassantOnlyImmediately(t *testing.T) {
	pos := NewStandardPosition()
	play(t, pos, "e2e4", "a7a6", "e4e5", "d7d5", "h2h3", "a6a5")

	if _, err := ParseMove("e5d6", pos); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("en passant allowed a move late, err = %v", err)
	}
}

func TestEnPassantNeedsDoublePush(t *testing.T) {
	pos := mustSetup(t, "we5 bd6 ba7")
	play(t, pos, "d6d5")

	for _, s := range movesOf(pos, E5) {
		if s == "e5d6" {
			t.Errorf("en passant offered after a single push")
		}
	}
}

func TestEnPassantUnmake(t *testing.T) {
	pos := mustSetup(t, "wb4 wc2 wf2 bc4 ba7 bh7")
	play(t, pos, "c2c3", "a7a6")
	play(t, pos, "f2f4")

	m, err := ParseMove("c4b3", pos)
	if err == nil {
		t.Fatalf("c4b3 should not be en passant after f2f4, got %s", m)
	}

	pos = mustSetup(t, "wb2 wf2 bc4 ba7 bh7")
	play(t, pos, "b2b4")
	before := pos.Copy()
	m, err = ParseMove("c4b3", pos)
	if err != nil {
		t.Fatalf("c4b3: %v", err)
	}
	undo := pos.MakeMove(m)
	if pos.PieceAt(B4) != Empty || pos.PieceAt(B3) != BlackPawn {
		t.Fatalf("en passant not applied:\n%s", pos)
	}
	pos.UnmakeMove(m, undo)
	if !pos.Equal(before) {
		t.Errorf("unmake did not restore position:\n%s\nwant:\n%s", pos, before)
	}
}

func TestParseMove(t *testing.T) {
	pos := NewStandardPosition()

	tests := []struct {
		in      string
		wantErr bool
	}{
		{"e2e4", false},
		{"e2e3", false},
		{"e2e5", true},
		{"e3e4", true},
		{"e2d3", true},
		{"e2", true},
		{"e2e4q", true},
		{"z2e4", true},
		{"e9e4", true},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			m, err := ParseMove(tc.in, pos)
			if tc.wantErr {
				if !errors.Is(err, ErrIllegalMove) {
					t.Errorf("ParseMove(%q) = %v, %v; want ErrIllegalMove", tc.in, m, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMove(%q): %v", tc.in, err)
			}
			if m.String() != tc.in {
				t.Errorf("ParseMove(%q).String() = %q", tc.in, m.String())
			}
		})
	}
}

func TestHasLegalMoves(t *testing.T) {
	tests := []struct {
		setup string
		last  []string
		side  Color
		want  bool
	}{
		{"we4 be5", nil, White, false},
		{"we4 be5", nil, Black, false},
		{"we4 be5 bd5", nil, White, true},
		{"we4 be5 bf5", nil, White, true},
		{"we4 be5 wa2", nil, White, true},
		{"wd5 wa4 ba5 bd6 be7", []string{"e7e5"}, White, true},
		{"wd5 wa4 ba5 bd6 be7", nil, White, false},
	}

	for _, tc := range tests {
		pos := mustSetup(t, tc.setup)
		play(t, pos, tc.last...)
		if got := pos.HasLegalMoves(tc.side); got != tc.want {
			t.Errorf("%q (+%v) HasLegalMoves(%s) = %v, want %v", tc.setup, tc.last, tc.side, got, tc.want)
		}
		if got := pos.GenerateAllMoves(tc.side).Len() > 0; got != tc.want {
			t.Errorf("%q (+%v) generated moves for %s = %v, want %v", tc.setup, tc.last, tc.side, got, tc.want)
		}
	}
}

func TestMobility(t *testing.T) {
	pos := mustSetup(t, "wd4 we4 bd5 bf5")
	// e4 pushes to e5 and takes on d5 and f5, d4 is blocked.
	if got := pos.Mobility(White); got != 3 {
		t.Errorf("white mobility = %d, want 3", got)
	}
	// d5 takes e4, f5 pushes and takes e4.
	if got := pos.Mobility(Black); got != 3 {
		t.Errorf("black mobility = %d, want 3", got)
	}
}
