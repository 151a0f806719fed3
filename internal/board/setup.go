package board

import (
	"errors"
	"fmt"
	"strings"
)

// StandardSetup places eight pawns per side on their starting ranks.
const StandardSetup = "wa2 wb2 wc2 wd2 we2 wf2 wg2 wh2 ba7 bb7 bc7 bd7 be7 bf7 bg7 bh7"

// ErrMalformedSetup is returned for setup tokens that cannot be placed.
var ErrMalformedSetup = errors.New("malformed setup token")

// ParseSetupToken parses one placement token of the form <w|b><a-h><1-8>.
func ParseSetupToken(tok string) (Square, Color, error) {
	if len(tok) != 3 {
		return NoSquare, White, fmt.Errorf("%q: want 3 characters: %w", tok, ErrMalformedSetup)
	}
	c, ok := ParseColor(tok[0])
	if !ok {
		return NoSquare, White, fmt.Errorf("%q: unknown color %q: %w", tok, tok[0], ErrMalformedSetup)
	}
	sq, err := ParseSquare(tok[1:])
	if err != nil {
		return NoSquare, White, fmt.Errorf("%q: %w: %w", tok, ErrMalformedSetup, err)
	}
	return sq, c, nil
}

// ParseSetup builds a position from placement tokens. The whole setup is
// rejected if any token is malformed or names an occupied square.
func ParseSetup(tokens []string) (*Position, error) {
	pos := NewPosition()
	for _, tok := range tokens {
		sq, c, err := ParseSetupToken(tok)
		if err != nil {
			return nil, err
		}
		if err := pos.Place(sq, c); err != nil {
			return nil, fmt.Errorf("%q: %w: %w", tok, ErrMalformedSetup, err)
		}
	}
	return pos, nil
}

// NewPositionFromSetup parses a whitespace-separated setup descriptor.
func NewPositionFromSetup(desc string) (*Position, error) {
	return ParseSetup(strings.Fields(desc))
}

// Setup renders the position as a setup descriptor, white pawns first, each
// color in square order. The last move is not part of the descriptor.
func (p *Position) Setup() string {
	var toks []string
	for c := White; c <= Black; c++ {
		letter := "w"
		if c == Black {
			letter = "b"
		}
		bb := p.Occupied[c]
		for bb != 0 {
			toks = append(toks, letter+bb.PopLSB().String())
		}
	}
	return strings.Join(toks, " ")
}
