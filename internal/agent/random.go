package agent

import (
	"context"
	"math/rand/v2"

	"github.com/hailam/pawnplay/internal/board"
)

// Random plays a uniformly random legal move.
type Random struct {
	color board.Color
	rng   *rand.Rand
}

// NewRandom creates a random agent. Equal seeds give equal games.
func NewRandom(color board.Color, seed uint64) *Random {
	return &Random{color: color, rng: rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))}
}

func (r *Random) Color() board.Color { return r.color }
func (r *Random) Kind() Kind         { return RandomChoice }

// GetMove implements Agent.
func (r *Random) GetMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	if err := ctx.Err(); err != nil {
		return board.NoMove, err
	}
	moves := pos.GenerateAllMoves(r.color)
	if moves.Len() == 0 {
		return board.NoMove, ErrNoLegalMove
	}
	return moves.Get(r.rng.IntN(moves.Len())), nil
}
