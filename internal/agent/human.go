package agent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/hailam/pawnplay/internal/board"
)

// LineSource reads lines in the background so a pending read does not keep
// a caller from honoring its context. Humans sharing a terminal share one
// source.
type LineSource struct {
	r     io.Reader
	once  sync.Once
	lines chan string
	err   error
}

// NewLineSource wraps r. Reading starts with the first call to Next.
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{r: r}
}

func (ls *LineSource) start() {
	ls.lines = make(chan string)
	go func() {
		defer close(ls.lines)
		scanner := bufio.NewScanner(ls.r)
		for scanner.Scan() {
			ls.lines <- scanner.Text()
		}
		ls.err = scanner.Err()
	}()
}

// Next returns the next line, or ErrInputClosed once the input has ended.
func (ls *LineSource) Next(ctx context.Context) (string, error) {
	ls.once.Do(ls.start)
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-ls.lines:
		if !ok {
			if ls.err != nil {
				return "", fmt.Errorf("%w: %w", ErrInputClosed, ls.err)
			}
			return "", ErrInputClosed
		}
		return l, nil
	}
}

// Human reads moves in coordinate notation, one per line, and asks again
// until it gets a legal one.
type Human struct {
	color board.Color
	in    *LineSource
	out   io.Writer
}

// NewHuman creates a human agent reading from in and prompting on out.
func NewHuman(color board.Color, in *LineSource, out io.Writer) *Human {
	return &Human{color: color, in: in, out: out}
}

func (h *Human) Color() board.Color { return h.color }
func (h *Human) Kind() Kind         { return HumanInput }

// GetMove implements Agent.
func (h *Human) GetMove(ctx context.Context, pos *board.Position) (board.Move, error) {
	for {
		fmt.Fprintf(h.out, "%s to move: ", h.color)

		line, err := h.in.Next(ctx)
		if err != nil {
			return board.NoMove, err
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			continue
		}

		m, err := board.ParseMove(line, pos)
		if err == nil && m.Color() != h.color {
			err = fmt.Errorf("%s is not your pawn: %w", m.From(), board.ErrIllegalMove)
		}
		if err != nil {
			if !errors.Is(err, board.ErrIllegalMove) {
				return board.NoMove, err
			}
			fmt.Fprintf(h.out, "Invalid move: %v\n", err)
			continue
		}
		return m, nil
	}
}
