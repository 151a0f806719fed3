package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hailam/pawnplay/internal/board"
)

// ErrNoMove is returned when a search finds nothing to play.
var ErrNoMove = errors.New("no move found")

const (
	// DefaultMaxDepth bounds iterative deepening when Limits.Depth is zero.
	DefaultMaxDepth = 64
	// DefaultAspirationWindow is the half-width of the first window tried at
	// each depth after the first.
	DefaultAspirationWindow = 50
	// DefaultHashMB sizes the transposition table built by NewEngine.
	DefaultHashMB = 16
)

// SearchInfo describes one completed depth.
type SearchInfo struct {
	Depth      int
	Score      int
	Move       board.Move
	Nodes      uint64
	Time       time.Duration
	Researched bool // aspiration window failed and the depth was searched again

	HashFull    int     // permille of the table in use, 0 if the table does not tell
	TTHitRate   float64 // percent of table probes that hit
	EvalHitRate float64 // percent of evaluations served from the cache
}

// tableStats is implemented by tables that track their fill and hit rate.
type tableStats interface {
	HashFull() int
	HitRate() float64
}

// stats reads the table and evaluator counters into info.
func (e *Engine) stats(info *SearchInfo) {
	if ts, ok := e.tt.(tableStats); ok {
		info.HashFull = ts.HashFull()
		info.TTHitRate = ts.HitRate()
	}
	if ce, ok := e.eval.(*CachedEvaluator); ok {
		info.EvalHitRate = ce.HitRate()
	}
}

// Result is the outcome of a move decision.
type Result struct {
	Move  board.Move
	Score int
	Depth int
	Nodes uint64
	Time  time.Duration
}

// Engine picks moves by iterative deepening. It owns its transposition table,
// which survives between searches for the same color and is cleared when the
// color changes or Clear is called.
type Engine struct {
	searcher *Searcher
	tt       TranspositionTable
	eval     Evaluator
	window   int

	lastColor board.Color
	used      bool

	// Callbacks
	OnInfo func(SearchInfo)
}

// Option configures an Engine.
type Option func(*Engine)

// WithTable replaces the default transposition table.
func WithTable(tt TranspositionTable) Option {
	return func(e *Engine) { e.tt = tt }
}

// WithEvaluator replaces the default evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// WithAspirationWindow sets the half-width of aspiration windows.
func WithAspirationWindow(w int) Option {
	return func(e *Engine) { e.window = w }
}

// NewEngine creates an engine with a transposition table of the given size in
// MB and the cached classical evaluator.
func NewEngine(ttSizeMB int, opts ...Option) *Engine {
	e := &Engine{window: DefaultAspirationWindow}
	for _, opt := range opts {
		opt(e)
	}
	if e.tt == nil {
		e.tt = NewHashTable(ttSizeMB)
	}
	if e.eval == nil {
		e.eval = NewCachedEvaluator(NewClassical(), 1)
	}
	e.searcher = NewSearcher(e.tt, e.eval)
	return e
}

// Search picks a move for color in pos. Depth 1 always completes so a legal
// move is returned whenever one exists. Deeper iterations run while the time
// budget and ctx allow, and an iteration that finishes past the budget is
// thrown away. Timeouts are not errors; ErrNoMove is returned only when no
// iteration produced a move.
func (e *Engine) Search(ctx context.Context, pos *board.Position, color board.Color, limits Limits) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	if e.used && color != e.lastColor {
		e.tt.Clear()
	}
	e.used, e.lastColor = true, color

	tm := NewTimeManager()
	tm.Init(ctx, limits)
	e.searcher.Reset()

	maxDepth := limits.Depth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	var best Result
	for depth := 1; depth <= maxDepth; depth++ {
		if depth > 1 && (!tm.CanStartIteration() || ctx.Err() != nil) {
			break
		}

		alpha, beta := -Infinity, Infinity
		if depth > 1 {
			alpha, beta = best.Score-e.window, best.Score+e.window
		}
		move, score := e.searcher.Search(pos, depth, alpha, beta, color)
		researched := false
		if score <= alpha || score >= beta {
			move, score = e.searcher.Search(pos, depth, -Infinity, Infinity, color)
			researched = true
		}

		if depth > 1 && tm.ShouldStop() {
			log.Debug().Int("depth", depth).Dur("budget", tm.Budget()).Msg("iteration-discarded")
			break
		}
		if move == board.NoMove {
			break
		}

		best = Result{Move: move, Score: score, Depth: depth, Nodes: e.searcher.Nodes(), Time: tm.Elapsed()}
		info := SearchInfo{
			Depth:      depth,
			Score:      score,
			Move:       move,
			Nodes:      best.Nodes,
			Time:       best.Time,
			Researched: researched,
		}
		e.stats(&info)
		log.Debug().
			Int("depth", depth).
			Int("score", score).
			Str("move", move.String()).
			Uint64("nodes", best.Nodes).
			Bool("researched", researched).
			Int("hashfull", info.HashFull).
			Float64("tt-hits", info.TTHitRate).
			Float64("eval-hits", info.EvalHitRate).
			Dur("elapsed", best.Time).
			Msg("deepening-iteratively")

		if e.OnInfo != nil {
			e.OnInfo(info)
		}

		// A forced result will not change with more depth.
		if IsDecisive(score) {
			break
		}
	}

	if best.Move == board.NoMove {
		return Result{}, fmt.Errorf("%s to move (%s): %w", color, pos.Outcome(color).Reason, ErrNoMove)
	}
	return best, nil
}

// Clear forgets everything learned in previous searches.
func (e *Engine) Clear() {
	e.tt.Clear()
	if c, ok := e.eval.(*CachedEvaluator); ok {
		c.Clear()
	}
	e.used = false
}

// Evaluate returns the static evaluation of a position for perspective.
func (e *Engine) Evaluate(pos *board.Position, perspective board.Color) int {
	return e.eval.Evaluate(pos, perspective)
}

// IsDecisive reports whether a score announces a forced win or loss.
func IsDecisive(score int) bool {
	return score > WinScore-MaxPly || score < -WinScore+MaxPly
}

// ScoreToString converts a score to a human-readable string.
func ScoreToString(score int) string {
	if score > WinScore-MaxPly {
		return fmt.Sprintf("Win in %d", WinScore-score)
	}
	if score < -WinScore+MaxPly {
		return fmt.Sprintf("Loss in %d", WinScore+score)
	}

	sign := ""
	if score < 0 {
		sign = "-"
		score = -score
	}
	return fmt.Sprintf("%s%d.%02d", sign, score/100, score%100)
}
