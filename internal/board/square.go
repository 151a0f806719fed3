// Package board implements the pawn-only board: squares, pawns, positions,
// move generation and hashing.
package board

import "fmt"

// File is a board column, 0 (a) through 7 (h).
type File uint8

// Rank is a board row, 1 through 8.
type Rank uint8

const (
	FileA File = iota
	FileB
	FileC
	FileD
	FileE
	FileF
	FileG
	FileH
)

const (
	Rank1 Rank = iota + 1
	Rank2
	Rank3
	Rank4
	Rank5
	Rank6
	Rank7
	Rank8
)

// IsValid reports whether the file is on the board.
func (f File) IsValid() bool {
	return f <= FileH
}

// IsValid reports whether the rank is on the board.
func (r Rank) IsValid() bool {
	return r >= Rank1 && r <= Rank8
}

func (f File) String() string {
	if !f.IsValid() {
		return "?"
	}
	return string(rune('a' + f))
}

func (r Rank) String() string {
	if !r.IsValid() {
		return "?"
	}
	return string(rune('0' + r))
}

// Square represents a square on the board (0-63).
// Uses Little-Endian Rank-File Mapping: A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// NewSquare builds a square from a file and rank. Out-of-range arguments are
// a programming error and panic.
func NewSquare(f File, r Rank) Square {
	if !f.IsValid() || !r.IsValid() {
		panic(fmt.Sprintf("board: square out of range (file %d, rank %d)", f, r))
	}
	return Square(uint8(r-1)*8 + uint8(f))
}

// SquareOf builds a square from raw coordinates (file 0-7, rank 1-8).
// It returns false when the coordinates fall off the board.
func SquareOf(file, rank int) (Square, bool) {
	if file < 0 || file > 7 || rank < 1 || rank > 8 {
		return NoSquare, false
	}
	return Square((rank-1)*8 + file), true
}

// File returns the file of the square.
func (sq Square) File() File {
	return File(sq & 7)
}

// Rank returns the rank of the square (1-8).
func (sq Square) Rank() Rank {
	return Rank(sq>>3) + 1
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return sq.File().String() + sq.Rank().String()
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	sq, ok := SquareOf(int(s[0])-'a', int(s[1])-'0')
	if !ok {
		return NoSquare, fmt.Errorf("invalid square: %q", s)
	}
	return sq, nil
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// RelativeRank returns how far the square is from the color's back rank:
// 1 on its own first rank, 8 on the promotion rank.
func (sq Square) RelativeRank(c Color) Rank {
	if c == White {
		return sq.Rank()
	}
	return 9 - sq.Rank()
}
