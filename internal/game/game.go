// Package game runs a match between two agents.
package game

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pawnplay/internal/agent"
	"github.com/hailam/pawnplay/internal/board"
)

// Termination tells how a game ended.
type Termination uint8

const (
	// ByRule covers annihilation, promotion and a blocked side to move.
	ByRule Termination = iota
	// ByTime means the loser's clock ran out.
	ByTime
	// ByForfeit means the loser played an illegal move.
	ByForfeit
)

func (t Termination) String() string {
	switch t {
	case ByRule:
		return "rule"
	case ByTime:
		return "time"
	case ByForfeit:
		return "forfeit"
	}
	return fmt.Sprintf("Termination(%d)", uint8(t))
}

// Result describes a finished game.
type Result struct {
	Winner      board.Color
	Termination Termination
	Reason      board.Reason // set when Termination is ByRule
	Moves       []board.Move
	Duration    time.Duration
}

func (r Result) String() string {
	switch r.Termination {
	case ByTime:
		return fmt.Sprintf("%s wins on time", r.Winner)
	case ByForfeit:
		return fmt.Sprintf("%s wins by forfeit", r.Winner)
	}
	switch r.Reason {
	case board.Annihilation:
		return fmt.Sprintf("%s wins by capturing every pawn", r.Winner)
	case board.Promotion:
		return fmt.Sprintf("%s wins by promotion", r.Winner)
	case board.NoMoves:
		return fmt.Sprintf("%s wins, %s cannot move", r.Winner, r.Winner.Other())
	}
	return fmt.Sprintf("%s wins", r.Winner)
}

// Options configures a game.
type Options struct {
	Position  *board.Position // starting position; standard when nil
	ToMove    board.Color     // side to move first
	TotalTime time.Duration   // per-side clock, zero for untimed
}

// Ply is one played move, reported through Game.OnMove.
type Ply struct {
	Number int
	Move   board.Move
	Spent  time.Duration
	Left   time.Duration // clock after the move, zero when untimed
}

// Game alternates two agents on one position.
type Game struct {
	pos     *board.Position
	players [2]agent.Agent
	toMove  board.Color
	clocks  [2]time.Duration
	timed   bool
	history []board.Move

	// OnMove is called after each move is played.
	OnMove func(Ply)
}

// New creates a game between white and black.
func New(white, black agent.Agent, opts Options) (*Game, error) {
	if white == nil || black == nil {
		return nil, errors.New("game needs two agents")
	}
	if white.Color() != board.White || black.Color() != board.Black {
		return nil, fmt.Errorf("agents play %s and %s, want white and black", white.Color(), black.Color())
	}

	pos := opts.Position
	if pos == nil {
		pos = board.NewStandardPosition()
	} else {
		pos = pos.Copy()
	}
	if err := pos.Validate(); err != nil {
		return nil, fmt.Errorf("starting position: %w", err)
	}

	g := &Game{
		pos:     pos,
		players: [2]agent.Agent{white, black},
		toMove:  opts.ToMove,
		timed:   opts.TotalTime > 0,
	}
	g.clocks[board.White] = opts.TotalTime
	g.clocks[board.Black] = opts.TotalTime
	return g, nil
}

// Position returns a copy of the current position.
func (g *Game) Position() *board.Position {
	return g.pos.Copy()
}

// ToMove returns the side to move.
func (g *Game) ToMove() board.Color {
	return g.toMove
}

// History returns the moves played so far.
func (g *Game) History() []board.Move {
	return append([]board.Move(nil), g.history...)
}

// Clock returns the time left for c. It is zero in untimed games.
func (g *Game) Clock(c board.Color) time.Duration {
	return g.clocks[c]
}

// Run plays until the game is decided. Agent failures other than running out
// of time end the game with an error; ctx cancellation does too.
func (g *Game) Run(ctx context.Context) (Result, error) {
	start := time.Now()
	finish := func(r Result) (Result, error) {
		r.Moves = g.History()
		r.Duration = time.Since(start)
		log.Info().
			Str("winner", r.Winner.String()).
			Str("termination", r.Termination.String()).
			Str("reason", r.Reason.String()).
			Int("plies", len(r.Moves)).
			Dur("duration", r.Duration).
			Msg("game-over")
		return r, nil
	}

	for {
		side := g.toMove
		if o := g.pos.Outcome(side); o.Over() {
			return finish(Result{Winner: o.Winner, Termination: ByRule, Reason: o.Reason})
		}

		m, spent, err := g.ask(ctx, side)
		if g.timed {
			g.clocks[side] -= spent
		}
		if err != nil {
			if ctx.Err() != nil {
				return Result{}, ctx.Err()
			}
			if g.timed && errors.Is(err, context.DeadlineExceeded) {
				g.clocks[side] = 0
				return finish(Result{Winner: side.Other(), Termination: ByTime})
			}
			return Result{}, fmt.Errorf("%s agent: %w", side, err)
		}
		if g.timed && g.clocks[side] <= 0 {
			g.clocks[side] = 0
			return finish(Result{Winner: side.Other(), Termination: ByTime})
		}
		if !g.pos.GenerateAllMoves(side).Contains(m) {
			log.Warn().Str("color", side.String()).Str("move", m.String()).Msg("illegal-move")
			return finish(Result{Winner: side.Other(), Termination: ByForfeit})
		}

		g.pos.ExecuteMove(m)
		g.history = append(g.history, m)
		g.toMove = side.Other()

		log.Debug().
			Int("ply", len(g.history)).
			Str("color", side.String()).
			Str("move", m.String()).
			Dur("spent", spent).
			Msg("move-played")
		if g.OnMove != nil {
			g.OnMove(Ply{Number: len(g.history), Move: m, Spent: spent, Left: g.clocks[side]})
		}
	}
}

// ask gets a move from side's agent, bounding it by the side's clock.
func (g *Game) ask(ctx context.Context, side board.Color) (board.Move, time.Duration, error) {
	moveCtx := ctx
	if g.timed {
		var cancel context.CancelFunc
		moveCtx, cancel = context.WithTimeout(ctx, g.clocks[side])
		defer cancel()
	}

	start := time.Now()
	m, err := g.players[side].GetMove(moveCtx, g.pos.Copy())
	return m, time.Since(start), err
}
