package board

import (
	"errors"
	"fmt"
)

// Move encodes a pawn move in 16 bits:
// bits 0-5:   from square (0-63)
// bits 6-11:  to square (0-63)
// bit  12:    color of the moving pawn
// bits 13-14: kind (0=quiet, 1=double push, 2=capture, 3=en passant)
type Move uint16

// Move kinds
const (
	KindQuiet      uint16 = 0 << 13
	KindDoublePush uint16 = 1 << 13
	KindCapture    uint16 = 2 << 13
	KindEnPassant  uint16 = 3 << 13
)

// NoMove represents an invalid or null move.
const NoMove Move = 0

// ErrIllegalMove is returned when notation does not name a legal move.
var ErrIllegalMove = errors.New("illegal move")

func newMove(from, to Square, c Color, kind uint16) Move {
	return Move(from) | Move(to)<<6 | Move(c)<<12 | Move(kind)
}

// NewQuiet creates a single push.
func NewQuiet(from, to Square, c Color) Move {
	return newMove(from, to, c, KindQuiet)
}

// NewDoublePush creates a two-square advance from the start rank.
func NewDoublePush(from, to Square, c Color) Move {
	return newMove(from, to, c, KindDoublePush)
}

// NewCapture creates a diagonal capture of the pawn standing on to.
func NewCapture(from, to Square, c Color) Move {
	return newMove(from, to, c, KindCapture)
}

// NewEnPassant creates an en passant capture.
func NewEnPassant(from, to Square, c Color) Move {
	return newMove(from, to, c, KindEnPassant)
}

// From returns the origin square.
func (m Move) From() Square {
	return Square(m & 0x3F)
}

// To returns the destination square.
func (m Move) To() Square {
	return Square((m >> 6) & 0x3F)
}

// Color returns the color of the moving pawn.
func (m Move) Color() Color {
	return Color((m >> 12) & 1)
}

// Kind returns the move kind.
func (m Move) Kind() uint16 {
	return uint16(m) & 0x6000
}

// IsCapture returns true if this move removes an opposing pawn.
func (m Move) IsCapture() bool {
	return m.Kind() >= KindCapture
}

// IsEnPassant returns true if this is an en passant capture.
func (m Move) IsEnPassant() bool {
	return m.Kind() == KindEnPassant
}

// IsDoublePush returns true if the pawn advanced two squares.
func (m Move) IsDoublePush() bool {
	return m.Kind() == KindDoublePush
}

// Captured returns the square of the captured pawn, or NoSquare for a quiet
// move. For en passant this is the passed pawn beside the origin, not the
// target square.
func (m Move) Captured() Square {
	switch m.Kind() {
	case KindCapture:
		return m.To()
	case KindEnPassant:
		return Square(uint8(m.From())&^7 | uint8(m.To())&7)
	}
	return NoSquare
}

// Advance returns the number of ranks the move gains toward promotion.
func (m Move) Advance() int {
	d := int(m.To().Rank()) - int(m.From().Rank())
	if d < 0 {
		return -d
	}
	return d
}

// String returns the coordinate form of the move (e.g., "e2e4").
func (m Move) String() string {
	if m == NoMove {
		return "0000"
	}
	return m.From().String() + m.To().String()
}

// ParseMove parses coordinate notation and resolves it against the legal
// moves of the pawn on the origin square. Anything that is not one of those
// moves is rejected with ErrIllegalMove.
func ParseMove(s string, pos *Position) (Move, error) {
	if len(s) != 4 {
		return NoMove, fmt.Errorf("invalid move string %q: %w", s, ErrIllegalMove)
	}

	from, err := ParseSquare(s[0:2])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}
	to, err := ParseSquare(s[2:4])
	if err != nil {
		return NoMove, fmt.Errorf("%w: %w", ErrIllegalMove, err)
	}

	if pos.PieceAt(from).IsEmpty() {
		return NoMove, fmt.Errorf("no pawn at %s: %w", from, ErrIllegalMove)
	}

	var ml MoveList
	pos.GenerateMoves(from, &ml)
	for _, m := range ml.Slice() {
		if m.To() == to {
			return m, nil
		}
	}
	return NoMove, fmt.Errorf("%s: %w", s, ErrIllegalMove)
}

// MoveList is a fixed-size list of moves to avoid allocations.
type MoveList struct {
	moves [256]Move
	count int
}

// NewMoveList creates an empty move list.
func NewMoveList() *MoveList {
	return &MoveList{}
}

// Add adds a move to the list.
func (ml *MoveList) Add(m Move) {
	ml.moves[ml.count] = m
	ml.count++
}

// Len returns the number of moves in the list.
func (ml *MoveList) Len() int {
	return ml.count
}

// Get returns the move at index i.
func (ml *MoveList) Get(i int) Move {
	return ml.moves[i]
}

// Clear clears the list.
func (ml *MoveList) Clear() {
	ml.count = 0
}

// Contains returns true if the list contains the move.
func (ml *MoveList) Contains(m Move) bool {
	for i := 0; i < ml.count; i++ {
		if ml.moves[i] == m {
			return true
		}
	}
	return false
}

// Slice returns the moves as a slice backed by the list.
func (ml *MoveList) Slice() []Move {
	return ml.moves[:ml.count]
}

// UndoInfo stores what MakeMove destroyed so UnmakeMove can restore it.
type UndoInfo struct {
	LastMove Move
	// Captured is the square the removed pawn stood on, NoSquare if none.
	Captured Square
	// CapturedIndex is the removed pawn's slot in its color's list.
	CapturedIndex int
}
