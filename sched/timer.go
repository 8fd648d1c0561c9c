package sched

import (
	"errors"
	"time"
)

var (
	// ErrNilCallback is returned when a RunAfter is constructed without a callback.
	ErrNilCallback = errors.New("sched: nil callback")
	// ErrNoRunner is returned when a timer is constructed without a Runner to drive it.
	ErrNoRunner = errors.New("sched: nil runner")
)

// RunAfter invokes a callback once after a duration of unpaused game time,
// unless it is stopped first. Instances are terminal: once finished they are
// discarded, never restarted.
type RunAfter struct {
	target  time.Duration
	elapsed time.Duration
	fn      func()

	stopped  bool
	finished bool
}

// NewRunAfter creates a delayed callback and starts driving it on r
// immediately. A zero or negative d fires on the first step.
func NewRunAfter(r *Runner, d time.Duration, fn func()) (*RunAfter, error) {
	if r == nil {
		return nil, ErrNoRunner
	}
	if fn == nil {
		return nil, ErrNilCallback
	}
	t := &RunAfter{target: d, fn: fn}
	r.Go(t)
	return t, nil
}

// After is shorthand for NewRunAfter(r, d, fn).
func (r *Runner) After(d time.Duration, fn func()) (*RunAfter, error) {
	return NewRunAfter(r, d, fn)
}

// MustAfter is like After but panics on a nil callback. Intended for call
// sites that pass a method value and can never hand over nil.
func (r *Runner) MustAfter(d time.Duration, fn func()) *RunAfter {
	t, err := NewRunAfter(r, d, fn)
	if err != nil {
		panic(err)
	}
	return t
}

// Step implements Task.
func (t *RunAfter) Step(dt time.Duration, paused bool) bool {
	if t.finished {
		return true
	}
	if t.stopped {
		t.finished = true
		return true
	}
	if !paused {
		t.elapsed += dt
	}
	if t.elapsed < t.target {
		return false
	}
	// Stop may have been called earlier on this tick by another task's
	// callback; the flag is read again right before invoking.
	if !t.stopped {
		t.fn()
	}
	t.finished = true
	return true
}

// Stop cancels the callback. If the callback has not run yet it never will.
// Stop is idempotent and a no-op after the callback has already run.
func (t *RunAfter) Stop() {
	if t.finished {
		return
	}
	t.stopped = true
}

// Stopped reports whether Stop was called before the callback ran.
func (t *RunAfter) Stopped() bool {
	return t.stopped
}

// Finished reports whether the drive loop has terminated, by expiry (after
// invoking the callback) or by observing cancellation.
func (t *RunAfter) Finished() bool {
	return t.finished
}

// Elapsed returns the unpaused time accumulated so far.
func (t *RunAfter) Elapsed() time.Duration {
	return t.elapsed
}

// Remaining returns the unpaused time left before the callback fires.
func (t *RunAfter) Remaining() time.Duration {
	if t.elapsed >= t.target {
		return 0
	}
	return t.target - t.elapsed
}

// Sleep is an elapsed-time gate: it accumulates unpaused time exactly like
// RunAfter but has no callback. Callers poll Finished.
type Sleep struct {
	target   time.Duration
	elapsed  time.Duration
	finished bool
}

// NewSleep creates a gate for d and starts driving it on r.
func NewSleep(r *Runner, d time.Duration) (*Sleep, error) {
	if r == nil {
		return nil, ErrNoRunner
	}
	s := &Sleep{target: d}
	r.Go(s)
	return s, nil
}

// Sleep is shorthand for NewSleep on r. It cannot fail.
func (r *Runner) Sleep(d time.Duration) *Sleep {
	s := &Sleep{target: d}
	r.Go(s)
	return s
}

// Step implements Task.
func (s *Sleep) Step(dt time.Duration, paused bool) bool {
	if s.finished {
		return true
	}
	if !paused {
		s.elapsed += dt
	}
	if s.elapsed >= s.target {
		s.finished = true
	}
	return s.finished
}

// Finished reports whether at least the gate's duration of unpaused time has
// passed.
func (s *Sleep) Finished() bool {
	return s.finished
}

// Elapsed returns the unpaused time accumulated so far.
func (s *Sleep) Elapsed() time.Duration {
	return s.elapsed
}
