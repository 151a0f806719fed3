package engine

import (
	"sort"

	"github.com/hailam/pawnplay/internal/board"
)

// Move ordering priorities
const (
	CaptureBonus = 1000 // any capture outranks every quiet move
	AdvanceBonus = 10   // per rank gained toward promotion
)

// ScoreMove returns the ordering score of a move. It depends only on the
// move itself, which carries the moving side.
func ScoreMove(m board.Move) int {
	score := m.Advance() * AdvanceBonus
	if m.IsCapture() {
		score += CaptureBonus
	}
	return score
}

// OrderMoves sorts moves in place, best first. Moves with equal scores keep
// their generation order.
func OrderMoves(moves []board.Move) {
	sort.SliceStable(moves, func(i, j int) bool {
		return ScoreMove(moves[i]) > ScoreMove(moves[j])
	})
}

// putFirst moves m to the front of moves, keeping the order of the rest. It
// does nothing when m is not in the list.
func putFirst(moves []board.Move, m board.Move) {
	if m == board.NoMove {
		return
	}
	for i, x := range moves {
		if x == m {
			copy(moves[1:i+1], moves[:i])
			moves[0] = m
			return
		}
	}
}
