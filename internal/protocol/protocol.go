// Package protocol implements the line protocol spoken with a match arbiter.
//
// The arbiter sends one command per line:
//
//	Setup Wa2 Wb2 ... Bh7   reset the board to the listed pawns
//	Time <minutes>          total thinking time for the game
//	White | Black           our color
//	Begin                   start the game; White moves at once
//	e2e4                    the opponent's move, answered with ours
//	exit                    end the session
//
// Setup and Time are acknowledged with "OK", and so is the connection
// itself. "d" and "perft <depth>" are accepted for debugging.
package protocol

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pawnplay/internal/agent"
	"github.com/hailam/pawnplay/internal/board"
)

// AgentFactory builds the agent that plays for a color.
type AgentFactory func(board.Color) (agent.Agent, error)

// Handler runs one arbiter session.
type Handler struct {
	in       io.Reader
	out      io.Writer
	newAgent AgentFactory

	position *board.Position
	toMove   board.Color
	color    board.Color
	player   agent.Agent
	clock    time.Duration // zero when the arbiter set no time
}

// New creates a handler reading commands from in and writing replies to out.
func New(in io.Reader, out io.Writer, newAgent AgentFactory) *Handler {
	return &Handler{
		in:       in,
		out:      out,
		newAgent: newAgent,
		position: board.NewStandardPosition(),
	}
}

// Run processes commands until "exit", end of input or ctx cancellation.
func (h *Handler) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(h.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()

	h.reply("OK")

	for {
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				select {
				case err := <-errc:
					return err
				default:
					return ctx.Err()
				}
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]
		log.Debug().Str("cmd", line).Msg("arbiter-command")

		var err error
		switch cmd {
		case "setup":
			err = h.handleSetup(args)
		case "time":
			err = h.handleTime(args)
		case "white":
			err = h.assign(board.White)
		case "black":
			err = h.assign(board.Black)
		case "begin":
			err = h.handleBegin(ctx)
		case "exit", "quit":
			return nil
		// Debug commands
		case "d":
			fmt.Fprintln(h.out, h.position.String())
		case "perft":
			err = h.handlePerft(args)
		default:
			if isMove(line) {
				err = h.handleMove(ctx, strings.ToLower(line))
			} else {
				log.Warn().Str("cmd", line).Msg("unknown-command")
			}
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Error().Err(err).Str("cmd", line).Msg("command-failed")
		}
	}
}

func (h *Handler) reply(s string) {
	fmt.Fprintln(h.out, s)
}

// handleSetup resets the board. Tokens are case-insensitive.
func (h *Handler) handleSetup(args []string) error {
	tokens := make([]string, len(args))
	for i, a := range args {
		tokens[i] = strings.ToLower(a)
	}
	pos, err := board.ParseSetup(tokens)
	if err != nil {
		return err
	}
	h.position = pos
	h.toMove = board.White
	if ng, ok := h.player.(agent.NewGamer); ok {
		ng.NewGame()
	}
	h.reply("OK")
	return nil
}

func (h *Handler) handleTime(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("time: missing minutes")
	}
	minutes, err := strconv.ParseFloat(args[0], 64)
	if err != nil || minutes < 0 {
		return fmt.Errorf("time: bad minutes %q", args[0])
	}
	h.clock = time.Duration(minutes * float64(time.Minute))
	h.reply("OK")
	return nil
}

// assign sets our color and builds the agent that plays it.
func (h *Handler) assign(c board.Color) error {
	if h.player != nil && h.color == c {
		return nil
	}
	a, err := h.newAgent(c)
	if err != nil {
		return fmt.Errorf("agent for %s: %w", c, err)
	}
	h.color, h.player = c, a
	return nil
}

// handleBegin starts the game. Without an earlier color command we play
// White.
func (h *Handler) handleBegin(ctx context.Context) error {
	if h.player == nil {
		if err := h.assign(board.White); err != nil {
			return err
		}
	}
	if h.color == h.toMove {
		return h.play(ctx)
	}
	return nil
}

// handleMove applies the opponent's move and answers with ours.
func (h *Handler) handleMove(ctx context.Context, s string) error {
	if h.player == nil {
		if err := h.assign(board.Black); err != nil {
			return err
		}
	}

	m, err := board.ParseMove(s, h.position)
	if err != nil {
		return err
	}
	if m.Color() == h.color {
		return fmt.Errorf("%s moves our pawn: %w", s, board.ErrIllegalMove)
	}
	h.position.ExecuteMove(m)
	h.toMove = h.color

	return h.play(ctx)
}

// play picks and sends our move unless the game is already over.
func (h *Handler) play(ctx context.Context) error {
	if o := h.position.Outcome(h.color); o.Over() {
		log.Info().Str("winner", o.Winner.String()).Str("reason", o.Reason.String()).Msg("game-over")
		return nil
	}

	moveCtx := ctx
	if h.clock > 0 {
		var cancel context.CancelFunc
		moveCtx, cancel = context.WithTimeout(ctx, h.clock)
		defer cancel()
	}

	start := time.Now()
	m, err := h.player.GetMove(moveCtx, h.position.Copy())
	if h.clock > 0 {
		h.clock = max(h.clock-time.Since(start), time.Millisecond)
	}
	if err != nil {
		return err
	}

	h.reply(m.String())
	h.position.ExecuteMove(m)
	h.toMove = h.color.Other()
	return nil
}

// handlePerft counts leaf positions for the side to move.
func (h *Handler) handlePerft(args []string) error {
	depth := 4
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("perft: %w", err)
		}
		depth = d
	}
	if depth < 1 {
		return fmt.Errorf("perft: depth %d must be at least 1", depth)
	}

	start := time.Now()
	nodes := h.position.Perft(depth, h.toMove)
	elapsed := time.Since(start)

	fmt.Fprintf(h.out, "Nodes: %d\n", nodes)
	fmt.Fprintf(h.out, "Time: %v\n", elapsed)
	if elapsed > 0 {
		fmt.Fprintf(h.out, "NPS: %.0f\n", float64(nodes)/elapsed.Seconds())
	}
	return nil
}

// isMove reports whether s looks like coordinate notation.
func isMove(s string) bool {
	if len(s) != 4 {
		return false
	}
	s = strings.ToLower(s)
	return s[0] >= 'a' && s[0] <= 'h' && s[1] >= '1' && s[1] <= '8' &&
		s[2] >= 'a' && s[2] <= 'h' && s[3] >= '1' && s[3] <= '8'
}
