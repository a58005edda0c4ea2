package clock

import (
	"sync/atomic"
	"time"
)

// Ticks counts iterations of the reference busy-wait loop. Every delay in the
// firmware is expressed in ticks so the ratios between them stay fixed no matter
// how fast the target runs.
type Ticks int64

// Millisecond is the nominal millisecond of the timed-input loop (one call of the
// 200-iteration inner loop).
const Millisecond Ticks = 200

// DefaultTicksPerMillisecond matches a 16 MHz part spending ~10 cycles per loop
// iteration.
const DefaultTicksPerMillisecond = 1600

// Clock is the busy-wait capability every component delays through.
type Clock interface {
	// Delay blocks for t ticks. It always runs to completion.
	Delay(t Ticks)
	// Now returns the ticks elapsed since the clock started.
	Now() Ticks
}

// RealTime maps ticks onto wall-clock time at a calibrated rate.
// Short delays are accumulated and paid off in one sleep so that the
// average rate stays accurate even when a single delay is far below the
// scheduler's sleep granularity.
type RealTime struct {
	perMs   int64
	start   time.Time
	elapsed atomic.Int64
	slack   time.Duration
}

// NewRealTime returns a wall-clock backed clock running at ticksPerMs.
func NewRealTime(ticksPerMs int) *RealTime {
	if ticksPerMs <= 0 {
		ticksPerMs = DefaultTicksPerMillisecond
	}
	return &RealTime{
		perMs: int64(ticksPerMs),
		start: time.Now(),
		slack: time.Millisecond,
	}
}

func (c *RealTime) Delay(t Ticks) {
	if t <= 0 {
		return
	}
	total := c.elapsed.Add(int64(t))
	target := c.start.Add(c.Duration(Ticks(total)))
	if ahead := time.Until(target); ahead >= c.slack {
		time.Sleep(ahead)
	}
}

func (c *RealTime) Now() Ticks { return Ticks(c.elapsed.Load()) }

// Duration converts ticks to wall time at this clock's rate.
func (c *RealTime) Duration(t Ticks) time.Duration {
	return time.Duration(int64(t) * int64(time.Millisecond) / c.perMs)
}

// TicksPerMillisecond reports the calibration.
func (c *RealTime) TicksPerMillisecond() int { return int(c.perMs) }
