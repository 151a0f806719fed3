package agent

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pawnplay/internal/board"
	"github.com/hailam/pawnplay/internal/engine"
)

var _ NewGamer = (*Search)(nil)

// Search picks moves with the iterative deepening engine.
type Search struct {
	color  board.Color
	engine *engine.Engine
	limits engine.Limits
	moves  int
}

// NewSearch creates a search agent that thinks up to depth plies and
// moveTime per move.
func NewSearch(color board.Color, eng *engine.Engine, depth int, moveTime time.Duration) *Search {
	return &Search{
		color:  color,
		engine: eng,
		limits: engine.Limits{Depth: depth, MoveTime: moveTime},
	}
}

func (s *Search) Color() board.Color { return s.color }
func (s *Search) Kind() Kind         { return SearchBased }

// GetMove implements Agent.
func (s *Search) GetMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	limits := s.limits
	limits.Moves = s.moves
	if deadline, ok := ctx.Deadline(); ok {
		limits.Remaining = time.Until(deadline)
	}

	res, err := s.engine.Search(ctx, pos, s.color, limits)
	if errors.Is(err, engine.ErrNoMove) {
		return board.NoMove, errors.Join(ErrNoLegalMove, err)
	}
	if err != nil {
		return board.NoMove, err
	}
	s.moves++

	log.Info().
		Str("color", s.color.String()).
		Str("move", res.Move.String()).
		Int("depth", res.Depth).
		Str("score", engine.ScoreToString(res.Score)).
		Uint64("nodes", res.Nodes).
		Dur("elapsed", res.Time).
		Msg("engine-move")
	return res.Move, nil
}

// NewGame forgets what the engine learned in a previous game. It implements
// NewGamer.
func (s *Search) NewGame() {
	s.moves = 0
	s.engine.Clear()
}
