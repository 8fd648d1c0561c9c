package ecs

import (
	"fmt"
	"time"

	"github.com/phanxgames/hollowreach/sched"
)

// Countdown is the round timer. It runs as a task on the scheduler and
// decrements in whole seconds of unpaused game time.
type Countdown struct {
	remaining time.Duration
	acc       time.Duration
	stopped   bool
}

var _ sched.Task = (*Countdown)(nil)

// NewCountdown creates a countdown starting at d, truncated to whole seconds.
func NewCountdown(d time.Duration) *Countdown {
	return &Countdown{remaining: d.Truncate(time.Second)}
}

// Step implements sched.Task.
func (c *Countdown) Step(dt time.Duration, paused bool) bool {
	if c.stopped {
		return true
	}
	if paused || c.remaining <= 0 {
		return false
	}
	c.acc += dt
	for c.acc >= time.Second && c.remaining > 0 {
		c.acc -= time.Second
		c.remaining -= time.Second
	}
	return false
}

// Add extends the countdown by the given whole seconds.
func (c *Countdown) Add(seconds int) {
	c.remaining += time.Duration(seconds) * time.Second
}

// Remaining returns the time left.
func (c *Countdown) Remaining() time.Duration { return c.remaining }

// Expired reports whether the countdown has reached zero.
func (c *Countdown) Expired() bool { return c.remaining <= 0 }

// Stop removes the countdown from its runner on the next tick.
func (c *Countdown) Stop() { c.stopped = true }

// String formats the remaining time as mm:ss.
func (c *Countdown) String() string {
	total := int(c.remaining / time.Second)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
