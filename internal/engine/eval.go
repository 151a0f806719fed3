// Package engine implements the pawn game search engine.
package engine

import (
	"github.com/hailam/pawnplay/internal/board"
)

// Evaluator scores a position statically. Positive scores favor the
// perspective color. Decided positions score ±WinScore, which dominates any
// other value an evaluator may return.
type Evaluator interface {
	Evaluate(pos *board.Position, perspective board.Color) int
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(pos *board.Position, perspective board.Color) int

// Evaluate calls f.
func (f EvaluatorFunc) Evaluate(pos *board.Position, perspective board.Color) int {
	return f(pos, perspective)
}

// Weights tunes the terms of the Classical evaluator. A zero weight switches
// its term off.
type Weights struct {
	Material    int // per pawn
	Advancement int // per rank a pawn has left behind
	Mobility    int // per available push or capture
	Center      int // per pawn on d4, e4, d5 or e5
	CenterReach int // per central square attacked
	Protection  int // per pawn defended by a friendly pawn

	PassedBase      int // passed pawn
	PassedClearPath int // passed pawn with nothing in front on its file
	PassedProximity int // per rank closer to promotion
}

// DefaultWeights is the full evaluation.
var DefaultWeights = Weights{
	Material:        100,
	Advancement:     10,
	Mobility:        10,
	Center:          25,
	CenterReach:     10,
	Protection:      15,
	PassedBase:      150,
	PassedClearPath: 300,
	PassedProximity: 50,
}

// MaterialWeights counts pawns and nothing else.
var MaterialWeights = Weights{Material: 100}

// Classical is the hand-written pawn evaluation.
type Classical struct {
	W Weights
}

// NewClassical returns a Classical evaluator using DefaultWeights.
func NewClassical() *Classical {
	return &Classical{W: DefaultWeights}
}

// Evaluate implements Evaluator.
func (e *Classical) Evaluate(pos *board.Position, perspective board.Color) int {
	score := e.evaluateWhite(pos)
	if perspective == board.Black {
		return -score
	}
	return score
}

// evaluateWhite scores the position from White's point of view.
func (e *Classical) evaluateWhite(pos *board.Position) int {
	if pos.Decided() {
		if pos.Winner(board.White) == board.White {
			return WinScore
		}
		return -WinScore
	}
	return e.side(pos, board.White) - e.side(pos, board.Black)
}

// side sums every term for color c.
func (e *Classical) side(pos *board.Position, c board.Color) int {
	w := &e.W
	own := pos.Occupied[c]
	enemy := pos.Occupied[c.Other()]

	score := pos.PawnCount(c) * w.Material

	if w.Advancement != 0 {
		for _, sq := range pos.Pawns(c) {
			score += int(sq.RelativeRank(c)-board.Rank1) * w.Advancement
		}
	}

	if w.Mobility != 0 {
		score += pos.Mobility(c) * w.Mobility
	}

	attacks := board.PawnAttacks(own, c)
	score += (own & board.Center).PopCount() * w.Center
	score += (attacks & board.Center).PopCount() * w.CenterReach
	score += (own & attacks).PopCount() * w.Protection

	if w.PassedBase != 0 || w.PassedClearPath != 0 || w.PassedProximity != 0 {
		for _, sq := range pos.Pawns(c) {
			span := board.FrontSpan(sq, c)
			if span&enemy != 0 {
				continue
			}
			if span&board.FileMask[sq.File()]&own == 0 {
				score += w.PassedClearPath
			} else {
				score += w.PassedBase
			}
			distance := int(board.Rank8 - sq.RelativeRank(c))
			score += (7 - distance) * w.PassedProximity
		}
	}

	return score
}

// MaterialOnly evaluates pawn count difference and decided positions.
var MaterialOnly Evaluator = &Classical{W: MaterialWeights}
