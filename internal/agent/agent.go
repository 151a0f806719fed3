// Package agent provides the players of a game: a human at a terminal, a
// random mover and the search engine.
package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/hailam/pawnplay/internal/board"
	"github.com/hailam/pawnplay/internal/engine"
)

// Kind identifies one of the available agent implementations.
type Kind uint8

const (
	HumanInput Kind = iota
	RandomChoice
	SearchBased
)

func (k Kind) String() string {
	switch k {
	case HumanInput:
		return "human"
	case RandomChoice:
		return "random"
	case SearchBased:
		return "search"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ParseKind parses the name printed by Kind.String.
func ParseKind(s string) (Kind, error) {
	for k := HumanInput; k <= SearchBased; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown agent kind %q", s)
}

// Defaults for search-based agents.
const (
	DefaultDepth    = 12
	DefaultMoveTime = 5 * time.Second
)

var (
	// ErrInputClosed is returned by a human agent whose input has ended.
	ErrInputClosed = errors.New("input closed")
	// ErrNoLegalMove is returned when the agent's side cannot move.
	ErrNoLegalMove = errors.New("no legal move")
)

// Agent chooses moves for one color.
type Agent interface {
	Color() board.Color
	Kind() Kind
	// GetMove returns a legal move for the agent's color in pos. pos must not
	// be modified. A ctx deadline bounds how long the agent may think.
	GetMove(ctx context.Context, pos *board.Position) (board.Move, error)
}

// NewGamer is implemented by agents that keep state between moves of one
// game and must drop it before the next.
type NewGamer interface {
	NewGame()
}

// Config carries what the different kinds need. Fields a kind does not use
// are ignored.
type Config struct {
	In    io.Reader   // human input, used when Lines is nil
	Lines *LineSource // human input shared between agents
	Out   io.Writer   // human prompts

	Seed uint64 // random agent

	Engine   *engine.Engine // search agent; a fresh engine is built if nil
	HashMB   int
	Depth    int
	MoveTime time.Duration
}

// New builds an agent of the given kind.
func New(kind Kind, color board.Color, cfg Config) (Agent, error) {
	switch kind {
	case HumanInput:
		lines := cfg.Lines
		if lines == nil {
			if cfg.In == nil {
				return nil, errors.New("human agent needs an input")
			}
			lines = NewLineSource(cfg.In)
		}
		out := cfg.Out
		if out == nil {
			out = io.Discard
		}
		return NewHuman(color, lines, out), nil
	case RandomChoice:
		return NewRandom(color, cfg.Seed), nil
	case SearchBased:
		eng := cfg.Engine
		if eng == nil {
			eng = engine.NewEngine(max(cfg.HashMB, 1))
		}
		depth, moveTime := cfg.Depth, cfg.MoveTime
		if depth <= 0 {
			depth = DefaultDepth
		}
		if moveTime <= 0 {
			moveTime = DefaultMoveTime
		}
		return NewSearch(color, eng, depth, moveTime), nil
	}
	return nil, fmt.Errorf("unknown agent kind %v", kind)
}
