package board

// Zobrist keys for position hashing, indexed [rank-1][file][Piece].
// Generated once from a fixed seed so hashes are reproducible across runs.
var (
	zobristSquare [8][8][3]uint64
	zobristWhite  uint64 // XOR when white to move
	zobristBlack  uint64 // XOR when black to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

func newPRNG(seed uint64) *prng {
	return &prng{state: seed}
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := newPRNG(0x98F107A2BEEF1234)

	for r := range zobristSquare {
		for f := range zobristSquare[r] {
			for pc := range zobristSquare[r][f] {
				zobristSquare[r][f][pc] = rng.next()
			}
		}
	}
	zobristWhite = rng.next()
	zobristBlack = rng.next()
}

// ZobristSquare returns the key for a piece (or Empty) on a square.
func ZobristSquare(sq Square, pc Piece) uint64 {
	return zobristSquare[sq.Rank()-1][sq.File()][pc]
}

// ZobristSideToMove returns the key for the side to move.
func ZobristSideToMove(c Color) uint64 {
	if c == White {
		return zobristWhite
	}
	return zobristBlack
}

// Hash fingerprints the placement of pos with sideToMove to play. Only
// occupied squares contribute, so the cost is proportional to the number of
// pawns.
func Hash(pos *Position, sideToMove Color) uint64 {
	h := ZobristSideToMove(sideToMove)
	for c := White; c <= Black; c++ {
		pc := PieceOf(c)
		for _, sq := range pos.pawns[c] {
			h ^= ZobristSquare(sq, pc)
		}
	}
	return h
}
