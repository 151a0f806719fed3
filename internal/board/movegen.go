package board

// GenerateMoves appends the legal moves of the pawn on from to ml. An empty
// square or a pawn with nowhere to go adds nothing. Pawn moves never expose
// anything to attack, so every generated move is legal.
func (p *Position) GenerateMoves(from Square, ml *MoveList) {
	p.generatePawnMoves(from, ml, false)
}

// GenerateAllMoves returns every legal move for color c, pawn by pawn in list
// order.
func (p *Position) GenerateAllMoves(c Color) *MoveList {
	ml := NewMoveList()
	for _, sq := range p.pawns[c] {
		p.generatePawnMoves(sq, ml, false)
	}
	return ml
}

// GenerateCaptures returns only the capturing moves for color c, including
// en passant.
func (p *Position) GenerateCaptures(c Color) *MoveList {
	ml := NewMoveList()
	for _, sq := range p.pawns[c] {
		p.generatePawnMoves(sq, ml, true)
	}
	return ml
}

func (p *Position) generatePawnMoves(from Square, ml *MoveList, capturesOnly bool) {
	piece := p.grid[from]
	if piece == Empty {
		return
	}
	us := piece.Color()
	file := int(from.File())
	rank := int(from.Rank()) + us.Forward()

	if !capturesOnly {
		if to, ok := SquareOf(file, rank); ok && p.IsEmpty(to) {
			ml.Add(NewQuiet(from, to, us))
			if from.Rank() == us.StartRank() {
				if to2, ok := SquareOf(file, rank+us.Forward()); ok && p.IsEmpty(to2) {
					ml.Add(NewDoublePush(from, to2, us))
				}
			}
		}
	}

	for _, df := range [2]int{-1, 1} {
		to, ok := SquareOf(file+df, rank)
		if !ok {
			continue
		}
		target := p.grid[to]
		switch {
		case target != Empty && target.Color() != us:
			ml.Add(NewCapture(from, to, us))
		case target == Empty && p.canTakeEnPassant(us, from, to):
			ml.Add(NewEnPassant(from, to, us))
		}
	}
}

// canTakeEnPassant reports whether the pawn on from may move diagonally to
// the empty square to by taking the pawn that just double pushed past it.
func (p *Position) canTakeEnPassant(us Color, from, to Square) bool {
	last := p.LastMove
	if !last.IsDoublePush() || last.Color() == us {
		return false
	}
	land := last.To()
	return land.Rank() == from.Rank() && land.File() == to.File()
}

// HasLegalMoves reports whether color c has at least one legal move.
func (p *Position) HasLegalMoves(c Color) bool {
	own := p.Occupied[c]
	if own.Forward(c)&^p.AllOccupied != 0 {
		return true
	}
	if PawnAttacks(own, c)&p.Occupied[c.Other()] != 0 {
		return true
	}
	return p.enPassantAttackers(c) != 0
}

// enPassantAttackers returns the pawns of color c that can capture en passant.
func (p *Position) enPassantAttackers(c Color) Bitboard {
	last := p.LastMove
	if !last.IsDoublePush() || last.Color() == c {
		return 0
	}
	land := SquareBB(last.To())
	return (land.East() | land.West()) & p.Occupied[c]
}

// Mobility counts single pushes and diagonal captures available to color c,
// one per pawn and direction. Double pushes and en passant are not counted.
func (p *Position) Mobility(c Color) int {
	own := p.Occupied[c]
	enemy := p.Occupied[c.Other()]
	ahead := own.Forward(c)
	n := (ahead &^ p.AllOccupied).PopCount()
	n += (ahead.East() & enemy).PopCount()
	n += (ahead.West() & enemy).PopCount()
	return n
}

// Perft counts leaf nodes of the move tree to the given depth, with color c
// to move. It stops descending at decided positions.
func (p *Position) Perft(depth int, c Color) uint64 {
	if depth == 0 {
		return 1
	}
	if p.Decided() {
		return 0
	}
	ml := p.GenerateAllMoves(c)
	if depth == 1 {
		return uint64(ml.Len())
	}

	var nodes uint64
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		undo := p.MakeMove(m)
		nodes += p.Perft(depth-1, c.Other())
		p.UnmakeMove(m, undo)
	}
	return nodes
}
