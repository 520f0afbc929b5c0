package clock

import "time"

// Budget tracks a microsecond wall-clock allowance against a Stopwatch.
// The RPC tick loop measures tickTimer against one Budget per tick; the
// poll and execute phases both check the same Budget so either phase can
// exhaust it.
type Budget struct {
	limit time.Duration
	sw    *Stopwatch
}

// NewBudget returns a Budget of limit, measured against clock, started
// immediately (mirroring the tick loop starting tickTimer at the top of
// Tick).
func NewBudget(clock Source, limit time.Duration) *Budget {
	b := &Budget{limit: limit, sw: NewStopwatch(clock)}
	b.sw.Start()
	return b
}

// Exhausted reports whether the elapsed time against this budget has
// reached or passed its limit.
func (b *Budget) Exhausted() bool {
	return b.sw.Elapsed() >= b.limit
}

// Remaining returns the unused portion of the budget, zero if exhausted.
func (b *Budget) Remaining() time.Duration {
	left := b.limit - b.sw.Elapsed()
	if left < 0 {
		return 0
	}
	return left
}

// Elapsed returns how much of the budget has been consumed so far.
func (b *Budget) Elapsed() time.Duration {
	return b.sw.Elapsed()
}
