package engine

import (
	"context"
	"time"
)

// Limits constrains one move decision.
type Limits struct {
	Depth     int           // maximum depth (0 = DefaultMaxDepth)
	MoveTime  time.Duration // budget for this move (0 = derive from Remaining)
	Remaining time.Duration // time left on our clock (0 = no clock)
	Moves     int           // moves we have already played this game
}

// TimeManager handles time allocation for searches.
type TimeManager struct {
	budget    time.Duration
	startTime time.Time
}

// NewTimeManager creates a new time manager.
func NewTimeManager() *TimeManager {
	return &TimeManager{}
}

// Init starts the clock for a new search. A context deadline caps the budget
// the same way a nearly empty game clock does.
func (tm *TimeManager) Init(ctx context.Context, limits Limits) {
	tm.startTime = time.Now()
	tm.budget = time.Hour

	if limits.MoveTime > 0 {
		tm.budget = limits.MoveTime
	}

	if limits.Remaining > 0 {
		// Pawn games are short: assume between 8 and 30 moves remain.
		mtg := min(max(30-limits.Moves, 8), 30)
		tm.budget = min(tm.budget, limits.Remaining/time.Duration(mtg))
		// Safety margin: never use more than 95% of remaining time
		tm.budget = min(tm.budget, limits.Remaining*95/100)
	}

	if deadline, ok := ctx.Deadline(); ok {
		tm.budget = min(tm.budget, time.Until(deadline)*95/100)
	}

	if tm.budget < 10*time.Millisecond {
		tm.budget = 10 * time.Millisecond
	}
}

// Elapsed returns the time elapsed since search started.
func (tm *TimeManager) Elapsed() time.Duration {
	return time.Since(tm.startTime)
}

// Budget returns the time allotted to this search.
func (tm *TimeManager) Budget() time.Duration {
	return tm.budget
}

// CanStartIteration reports whether another depth is worth starting. Each
// depth costs several times the previous one, so past half the budget the
// next one would almost certainly overrun.
func (tm *TimeManager) CanStartIteration() bool {
	return tm.Elapsed() < tm.budget/2
}

// ShouldStop returns true once the budget is used up.
func (tm *TimeManager) ShouldStop() bool {
	return tm.Elapsed() >= tm.budget
}
