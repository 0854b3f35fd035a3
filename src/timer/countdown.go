// Package timer provides the per-level countdown.
package timer

import (
	"math"
	"time"
)

// Countdown is advanced explicitly, from frame deltas or elapsed wall time.
// It fires once; after firing or Stop it no longer moves.
type Countdown struct {
	limit     time.Duration
	remaining time.Duration
	fired     bool
	stopped   bool
}

// New returns a countdown of limit; limit <= 0 gives a disabled countdown
// that never fires.
func New(limit time.Duration) *Countdown {
	c := &Countdown{limit: limit}
	c.Reset()
	return c
}

func (c *Countdown) Enabled() bool { return c.limit > 0 }

func (c *Countdown) Limit() time.Duration { return c.limit }

func (c *Countdown) Remaining() time.Duration { return c.remaining }

// Seconds is the display value: whole seconds rounded up.
func (c *Countdown) Seconds() int {
	return int(math.Ceil(c.remaining.Seconds()))
}

func (c *Countdown) Expired() bool { return c.fired }

// Tick advances by dt and reports true exactly once, when time runs out.
func (c *Countdown) Tick(dt time.Duration) bool {
	if !c.Enabled() || c.fired || c.stopped || dt <= 0 {
		return false
	}
	c.remaining -= dt
	if c.remaining > 0 {
		return false
	}
	c.remaining = 0
	c.fired = true
	return true
}

// Stop freezes the countdown, e.g. once the level ended.
func (c *Countdown) Stop() { c.stopped = true }

func (c *Countdown) Stopped() bool { return c.stopped }

func (c *Countdown) Reset() {
	c.remaining = max(c.limit, 0)
	c.fired = false
	c.stopped = false
}
