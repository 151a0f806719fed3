package engine

import (
	"github.com/hailam/pawnplay/internal/board"
)

// Search constants
const (
	Infinity = 1000000
	WinScore = Infinity - 1000 // decided game at the root; one less per ply
	MaxPly   = 128
)

// Searcher runs depth-limited alpha-beta in max/min form. Scores are always
// from the root color's point of view: the root side maximizes and its
// opponent minimizes.
type Searcher struct {
	tt   TranspositionTable
	eval Evaluator

	pos       *board.Position
	rootColor board.Color

	nodes  uint64
	qnodes uint64
}

// NewSearcher creates a searcher over the given table and evaluator.
func NewSearcher(tt TranspositionTable, eval Evaluator) *Searcher {
	return &Searcher{tt: tt, eval: eval}
}

// Reset clears node counters for a new move decision.
func (s *Searcher) Reset() {
	s.nodes = 0
	s.qnodes = 0
}

// Nodes returns the number of nodes searched since the last Reset,
// quiescence nodes included.
func (s *Searcher) Nodes() uint64 {
	return s.nodes + s.qnodes
}

// Search searches pos to the given depth with rootColor to move and returns
// the best move and its score. pos itself is not modified: the search makes
// and unmakes moves on its own copy.
func (s *Searcher) Search(pos *board.Position, depth, alpha, beta int, rootColor board.Color) (board.Move, int) {
	s.pos = pos.Copy()
	s.rootColor = rootColor
	score, move := s.alphaBeta(depth, 0, alpha, beta, rootColor)
	return move, score
}

// terminalScore scores a finished game, preferring quicker wins and slower
// losses.
func (s *Searcher) terminalScore(winner board.Color, ply int) int {
	if winner == s.rootColor {
		return WinScore - ply
	}
	return -WinScore + ply
}

func (s *Searcher) alphaBeta(depth, ply, alpha, beta int, side board.Color) (int, board.Move) {
	s.nodes++
	pos := s.pos

	if o := pos.Outcome(side); o.Over() {
		return s.terminalScore(o.Winner, ply), board.NoMove
	}

	if depth <= 0 || ply >= MaxPly {
		return s.quiescence(ply, alpha, beta, side), board.NoMove
	}

	// The hash leaves out the en passant right, so an entry may carry a move
	// that is not legal here. The root never cuts off on the table and only
	// uses its move for ordering.
	hash := board.Hash(pos, side)
	ttMove := board.NoMove
	if entry, ok := s.tt.TryGet(hash, depth); ok {
		ttMove = entry.BestMove
		if ply > 0 {
			score := AdjustScoreFromTT(int(entry.Score), ply)
			switch entry.Flag {
			case TTExact:
				return score, entry.BestMove
			case TTLowerBound:
				alpha = max(alpha, score)
			case TTUpperBound:
				beta = min(beta, score)
			}
			if alpha >= beta {
				return score, entry.BestMove
			}
		}
	}
	alphaOrig, betaOrig := alpha, beta

	moves := pos.GenerateAllMoves(side).Slice()
	if len(moves) == 0 {
		return s.terminalScore(side.Other(), ply), board.NoMove
	}
	OrderMoves(moves)
	putFirst(moves, ttMove)

	maximizing := side == s.rootColor
	best := Infinity
	if maximizing {
		best = -Infinity
	}
	bestMove := moves[0]

	for _, m := range moves {
		undo := pos.MakeMove(m)
		score, _ := s.alphaBeta(depth-1, ply+1, alpha, beta, side.Other())
		pos.UnmakeMove(m, undo)

		if maximizing {
			if score > best {
				best, bestMove = score, m
			}
			alpha = max(alpha, best)
		} else {
			if score < best {
				best, bestMove = score, m
			}
			beta = min(beta, best)
		}
		if alpha >= beta {
			break
		}
	}

	flag := TTExact
	if best <= alphaOrig {
		flag = TTUpperBound
	} else if best >= betaOrig {
		flag = TTLowerBound
	}
	s.tt.Store(hash, depth, AdjustScoreToTT(best, ply), flag, bestMove)

	return best, bestMove
}

// quiescence resolves pending captures so leaves are not scored in the
// middle of an exchange. Either side may decline to capture (stand pat).
func (s *Searcher) quiescence(ply, alpha, beta int, side board.Color) int {
	s.qnodes++
	pos := s.pos

	if o := pos.Outcome(side); o.Over() {
		return s.terminalScore(o.Winner, ply)
	}

	standPat := s.eval.Evaluate(pos, s.rootColor)
	if ply >= MaxPly {
		return standPat
	}

	maximizing := side == s.rootColor
	if maximizing {
		if standPat >= beta {
			return standPat
		}
		alpha = max(alpha, standPat)
	} else {
		if standPat <= alpha {
			return standPat
		}
		beta = min(beta, standPat)
	}

	captures := pos.GenerateCaptures(side).Slice()
	OrderMoves(captures)

	best := standPat
	for _, m := range captures {
		undo := pos.MakeMove(m)
		score := s.quiescence(ply+1, alpha, beta, side.Other())
		pos.UnmakeMove(m, undo)

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}
		if alpha >= beta {
			break
		}
	}
	return best
}
