package sched

import "time"

// FixedStep converts variable frame ticks into a whole number of fixed-rate
// ticks. The physics tick (chunk traversal, trigger checks) runs on one.
type FixedStep struct {
	interval time.Duration
	maxSteps int
	acc      time.Duration
	steps    uint64
}

// NewFixedStep creates an accumulator firing every interval. maxSteps bounds
// how many fixed ticks a single frame may run; leftover time beyond that is
// dropped so a long stall does not trigger a catch-up spiral.
func NewFixedStep(interval time.Duration, maxSteps int) *FixedStep {
	if interval <= 0 {
		panic("sched: fixed step interval must be positive")
	}
	if maxSteps <= 0 {
		maxSteps = 1
	}
	return &FixedStep{interval: interval, maxSteps: maxSteps}
}

// Advance adds dt to the accumulator and calls fn once per whole interval.
// It returns the number of fixed ticks run.
func (f *FixedStep) Advance(dt time.Duration, fn func()) int {
	f.acc += dt
	n := 0
	for f.acc >= f.interval && n < f.maxSteps {
		f.acc -= f.interval
		f.steps++
		n++
		fn()
	}
	if n == f.maxSteps && f.acc >= f.interval {
		f.acc %= f.interval
	}
	return n
}

// Interval returns the fixed tick length.
func (f *FixedStep) Interval() time.Duration {
	return f.interval
}

// Steps returns the total number of fixed ticks run.
func (f *FixedStep) Steps() uint64 {
	return f.steps
}

// Alpha returns how far the accumulator is into the next tick, in [0, 1).
func (f *FixedStep) Alpha() float64 {
	return float64(f.acc) / float64(f.interval)
}
