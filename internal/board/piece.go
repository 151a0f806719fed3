package board

// Color represents the color of a pawn or player.
type Color uint8

const (
	White Color = iota
	Black
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Forward returns the rank direction the color's pawns move in.
func (c Color) Forward() int {
	if c == White {
		return 1
	}
	return -1
}

// StartRank is the rank a color's pawns may double push from.
func (c Color) StartRank() Rank {
	if c == White {
		return Rank2
	}
	return Rank7
}

// PromotionRank is the far rank that wins the game for the color.
func (c Color) PromotionRank() Rank {
	if c == White {
		return Rank8
	}
	return Rank1
}

// ParseColor parses a color letter ('w' or 'b').
func ParseColor(b byte) (Color, bool) {
	switch b {
	case 'w':
		return White, true
	case 'b':
		return Black, true
	}
	return White, false
}

// Piece is the content of a square: empty or a pawn of either color.
type Piece uint8

const (
	Empty Piece = iota
	WhitePawn
	BlackPawn
)

// PieceOf returns the pawn of the given color.
func PieceOf(c Color) Piece {
	return Piece(c) + WhitePawn
}

// Color returns the Color of the piece. Calling it on Empty is meaningless.
func (p Piece) Color() Color {
	return Color(p - WhitePawn)
}

// IsEmpty reports whether the square content is Empty.
func (p Piece) IsEmpty() bool {
	return p == Empty
}

// String returns the board character for the piece.
func (p Piece) String() string {
	switch p {
	case WhitePawn:
		return "P"
	case BlackPawn:
		return "p"
	default:
		return "."
	}
}
