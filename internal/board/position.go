package board

import (
	"fmt"
	"strings"
)

// Position is the state of a pawn-only game: a dense grid for O(1) lookups,
// one ordered list of squares per color for iteration, occupancy bitboards,
// and the last move played (needed for en passant).
type Position struct {
	grid  [64]Piece
	pawns [2][]Square
	// slot of the pawn on a square within its color's list
	index [64]uint8

	// Occupancy bitboards, kept in step with grid
	Occupied    [2]Bitboard
	AllOccupied Bitboard

	// LastMove is NoMove after setup.
	LastMove Move
}

// NewPosition creates an empty board.
func NewPosition() *Position {
	return &Position{
		pawns: [2][]Square{make([]Square, 0, 16), make([]Square, 0, 16)},
	}
}

// NewStandardPosition returns the standard sixteen-pawn starting position.
func NewStandardPosition() *Position {
	pos, err := NewPositionFromSetup(StandardSetup)
	if err != nil {
		panic(err)
	}
	return pos
}

// Copy creates a deep copy of the position. The copy shares no mutable
// state with p.
func (p *Position) Copy() *Position {
	newPos := *p
	for c := range newPos.pawns {
		newPos.pawns[c] = append(make([]Square, 0, cap(p.pawns[c])), p.pawns[c]...)
	}
	return &newPos
}

// PieceAt returns the content of a square.
func (p *Position) PieceAt(sq Square) Piece {
	return p.grid[sq]
}

// IsEmpty returns true if the square is empty.
func (p *Position) IsEmpty(sq Square) bool {
	return p.grid[sq] == Empty
}

// Pawns returns the squares of the color's pawns in list order. The slice
// belongs to the position and must not be modified.
func (p *Position) Pawns(c Color) []Square {
	return p.pawns[c]
}

// PawnCount returns how many pawns the color has left.
func (p *Position) PawnCount(c Color) int {
	return len(p.pawns[c])
}

// Place puts a pawn of color c on an empty square.
func (p *Position) Place(sq Square, c Color) error {
	if !sq.IsValid() {
		return fmt.Errorf("invalid square %d", sq)
	}
	if !p.IsEmpty(sq) {
		return fmt.Errorf("square %s is already occupied", sq)
	}
	p.insertPiece(c, sq, len(p.pawns[c]))
	return nil
}

// insertPiece adds a pawn to the grid and to its list at slot i, moving the
// pawn currently at slot i (if any) to the end of the list.
func (p *Position) insertPiece(c Color, sq Square, i int) {
	list := p.pawns[c]
	if i == len(list) {
		list = append(list, sq)
	} else {
		moved := list[i]
		list = append(list, moved)
		p.index[moved] = uint8(len(list) - 1)
		list[i] = sq
	}
	p.pawns[c] = list
	p.index[sq] = uint8(i)
	p.grid[sq] = PieceOf(c)

	bb := SquareBB(sq)
	p.Occupied[c] |= bb
	p.AllOccupied |= bb
}

// removePiece removes the pawn on sq and returns the slot it held. The last
// pawn of the list takes that slot.
func (p *Position) removePiece(sq Square) int {
	c := p.grid[sq].Color()
	list := p.pawns[c]
	i := int(p.index[sq])
	last := len(list) - 1
	if i != last {
		list[i] = list[last]
		p.index[list[i]] = uint8(i)
	}
	p.pawns[c] = list[:last]
	p.grid[sq] = Empty

	bb := SquareBB(sq)
	p.Occupied[c] &^= bb
	p.AllOccupied &^= bb
	return i
}

// movePiece moves a pawn without touching list order.
func (p *Position) movePiece(from, to Square) {
	piece := p.grid[from]
	c := piece.Color()
	i := p.index[from]
	p.pawns[c][i] = to
	p.index[to] = i
	p.grid[to] = piece
	p.grid[from] = Empty

	moveBB := SquareBB(from) | SquareBB(to)
	p.Occupied[c] ^= moveBB
	p.AllOccupied ^= moveBB
}

// MakeMove applies a legal move in place and returns what is needed to take
// it back.
func (p *Position) MakeMove(m Move) UndoInfo {
	undo := UndoInfo{LastMove: p.LastMove, Captured: m.Captured()}
	if undo.Captured != NoSquare {
		undo.CapturedIndex = p.removePiece(undo.Captured)
	}
	p.movePiece(m.From(), m.To())
	p.LastMove = m
	return undo
}

// UnmakeMove reverses MakeMove. The position, including list order, is
// restored exactly.
func (p *Position) UnmakeMove(m Move, undo UndoInfo) {
	p.movePiece(m.To(), m.From())
	if undo.Captured != NoSquare {
		p.insertPiece(m.Color().Other(), undo.Captured, undo.CapturedIndex)
	}
	p.LastMove = undo.LastMove
}

// ExecuteMove advances the game by one move.
func (p *Position) ExecuteMove(m Move) {
	p.MakeMove(m)
}

// Equal reports whether two positions have the same placement, list order
// and last move.
func (p *Position) Equal(o *Position) bool {
	if p.grid != o.grid || p.LastMove != o.LastMove {
		return false
	}
	for c := range p.pawns {
		if len(p.pawns[c]) != len(o.pawns[c]) {
			return false
		}
		for i, sq := range p.pawns[c] {
			if o.pawns[c][i] != sq {
				return false
			}
		}
	}
	return true
}

// String returns a visual representation of the position.
func (p *Position) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for r := Rank8; r >= Rank1; r-- {
		fmt.Fprintf(&sb, "%d  ", r)
		for f := FileA; f <= FileH; f++ {
			sb.WriteString(p.PieceAt(NewSquare(f, r)).String())
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Last move: %s\n", p.LastMove)
	return sb.String()
}

// Validate checks that the grid, the pawn lists and the bitboards agree.
func (p *Position) Validate() error {
	var occ [2]Bitboard
	for c := White; c <= Black; c++ {
		for i, sq := range p.pawns[c] {
			if !sq.IsValid() {
				return fmt.Errorf("%s list holds invalid square %d", c, sq)
			}
			if p.grid[sq] != PieceOf(c) {
				return fmt.Errorf("%s list holds %s but grid has %s", c, sq, p.grid[sq])
			}
			if int(p.index[sq]) != i {
				return fmt.Errorf("%s pawn on %s indexed at %d, listed at %d", c, sq, p.index[sq], i)
			}
			occ[c] |= SquareBB(sq)
		}
	}
	for sq := A1; sq <= H8; sq++ {
		if p.grid[sq] == Empty {
			continue
		}
		if !occ[p.grid[sq].Color()].IsSet(sq) {
			return fmt.Errorf("grid pawn on %s missing from list", sq)
		}
	}
	if occ != p.Occupied || occ[White]|occ[Black] != p.AllOccupied {
		return fmt.Errorf("occupancy bitboards out of date")
	}
	return nil
}
