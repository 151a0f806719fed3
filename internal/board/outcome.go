package board

// Reason tells why a game ended.
type Reason uint8

const (
	NotOver Reason = iota
	Annihilation
	Promotion
	NoMoves
)

func (r Reason) String() string {
	switch r {
	case Annihilation:
		return "annihilation"
	case Promotion:
		return "promotion"
	case NoMoves:
		return "no legal moves"
	default:
		return "not over"
	}
}

// Outcome describes whether a position ends the game and who won.
type Outcome struct {
	Reason Reason
	Winner Color
}

// Over reports whether the game has ended.
func (o Outcome) Over() bool {
	return o.Reason != NotOver
}

// decided checks the end conditions that do not depend on the side to move.
func (p *Position) decided() Outcome {
	switch {
	case len(p.pawns[Black]) == 0:
		return Outcome{Annihilation, White}
	case len(p.pawns[White]) == 0:
		return Outcome{Annihilation, Black}
	case p.Occupied[White]&RankBB(Rank8) != 0:
		return Outcome{Promotion, White}
	case p.Occupied[Black]&RankBB(Rank1) != 0:
		return Outcome{Promotion, Black}
	}
	return Outcome{}
}

// Decided reports whether a side has been wiped out or has promoted.
func (p *Position) Decided() bool {
	return p.decided().Over()
}

// Outcome returns the game state with toMove to play. A side without a legal
// move loses, whether or not it is its turn. When both sides are stuck the
// side to move loses.
func (p *Position) Outcome(toMove Color) Outcome {
	if o := p.decided(); o.Over() {
		return o
	}
	if !p.HasLegalMoves(toMove) {
		return Outcome{NoMoves, toMove.Other()}
	}
	if !p.HasLegalMoves(toMove.Other()) {
		return Outcome{NoMoves, toMove}
	}
	return Outcome{}
}

// IsGameOver reports whether the game has ended with toMove to play.
func (p *Position) IsGameOver(toMove Color) bool {
	return p.Outcome(toMove).Over()
}

// Winner returns the winning color. Asking before the game is over is a
// programming error and panics.
func (p *Position) Winner(toMove Color) Color {
	o := p.Outcome(toMove)
	if !o.Over() {
		panic("board: winner requested before game over")
	}
	return o.Winner
}
