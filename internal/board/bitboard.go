package board

import (
	"math/bits"
	"strings"
)

// Bitboard represents a 64-bit board where each bit corresponds to a square.
// Bit 0 = A1, Bit 7 = H1, Bit 56 = A8, Bit 63 = H8 (Little-Endian Rank-File Mapping).
type Bitboard uint64

// FileMask holds one mask per file, indexed by File.
var FileMask = [8]Bitboard{
	0x0101010101010101,
	0x0202020202020202,
	0x0404040404040404,
	0x0808080808080808,
	0x1010101010101010,
	0x2020202020202020,
	0x4040404040404040,
	0x8080808080808080,
}

// RankMask holds one mask per rank, indexed by Rank-1.
var RankMask = [8]Bitboard{
	0x00000000000000FF,
	0x000000000000FF00,
	0x0000000000FF0000,
	0x00000000FF000000,
	0x000000FF00000000,
	0x0000FF0000000000,
	0x00FF000000000000,
	0xFF00000000000000,
}

const (
	NotFileA Bitboard = ^Bitboard(0x0101010101010101)
	NotFileH Bitboard = ^Bitboard(0x8080808080808080)

	// Center is d4, e4, d5 and e5.
	Center Bitboard = 0x0000001818000000
)

// RankBB returns the mask for a rank.
func RankBB(r Rank) Bitboard {
	return RankMask[r-1]
}

// SquareBB returns a bitboard with only the given square set.
func SquareBB(sq Square) Bitboard {
	return 1 << sq
}

// IsSet returns true if the bit at the given square is set.
func (b Bitboard) IsSet(sq Square) bool {
	return b&(1<<sq) != 0
}

// PopCount returns the number of set bits (population count).
func (b Bitboard) PopCount() int {
	return bits.OnesCount64(uint64(b))
}

// LSB returns the least significant bit (lowest square index).
func (b Bitboard) LSB() Square {
	if b == 0 {
		return NoSquare
	}
	return Square(bits.TrailingZeros64(uint64(b)))
}

// PopLSB removes and returns the least significant bit.
func (b *Bitboard) PopLSB() Square {
	sq := b.LSB()
	*b &= *b - 1
	return sq
}

// North shifts the bitboard one rank up (toward rank 8).
func (b Bitboard) North() Bitboard {
	return b << 8
}

// South shifts the bitboard one rank down (toward rank 1).
func (b Bitboard) South() Bitboard {
	return b >> 8
}

// East shifts the bitboard one file right (toward file h).
func (b Bitboard) East() Bitboard {
	return (b << 1) & NotFileA
}

// West shifts the bitboard one file left (toward file a).
func (b Bitboard) West() Bitboard {
	return (b >> 1) & NotFileH
}

// Forward shifts the bitboard one rank toward the color's promotion rank.
func (b Bitboard) Forward(c Color) Bitboard {
	if c == White {
		return b.North()
	}
	return b.South()
}

// PawnAttacks returns every square the given pawns attack diagonally.
func PawnAttacks(pawns Bitboard, c Color) Bitboard {
	f := pawns.Forward(c)
	return f.East() | f.West()
}

// FrontSpan returns the squares strictly ahead of sq on its own and adjacent
// files, from the point of view of color c.
func FrontSpan(sq Square, c Color) Bitboard {
	files := FileMask[sq.File()]
	files |= (files.East() | files.West())
	var ahead Bitboard
	if c == White {
		if sq.Rank() == Rank8 {
			return 0
		}
		ahead = ^Bitboard(0) << (uint(sq.Rank()) * 8)
	} else {
		ahead = ^Bitboard(0) >> (uint(9-sq.Rank()) * 8)
	}
	return files & ahead
}

// String returns a visual representation of the bitboard.
func (b Bitboard) String() string {
	var sb strings.Builder
	for r := Rank8; r >= Rank1; r-- {
		for f := FileA; f <= FileH; f++ {
			if b.IsSet(NewSquare(f, r)) {
				sb.WriteString("1 ")
			} else {
				sb.WriteString(". ")
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
