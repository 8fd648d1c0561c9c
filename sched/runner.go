// Package sched provides the cooperative deferred-execution primitives every
// timed effect in the game is built on: a delayed callback with cancellation
// ([RunAfter]) and a plain elapsed-time gate ([Sleep]).
//
// There are no goroutines. A [Runner] is advanced once per frame tick by the
// simulation loop and steps each registered [Task]; a task "suspends" by
// returning false and is resumed on the next frame tick. Time only advances
// while the [PauseSource] reports false.
//
//	runner := sched.NewRunner(pause)
//	iframes, _ := runner.After(time.Second, func() { player.Invincible = false })
//	...
//	runner.Advance(dt) // once per frame
package sched

import "time"

// Task is a unit of cooperative work driven by a Runner. Step is called once
// per frame tick with the frame's elapsed time and the pause flag sampled for
// this step. It returns true once the task has terminated; the Runner drops
// it and never steps it again.
type Task interface {
	Step(dt time.Duration, paused bool) (done bool)
}

// TaskFunc adapts a plain function to the Task interface.
type TaskFunc func(dt time.Duration, paused bool) bool

// Step calls f.
func (f TaskFunc) Step(dt time.Duration, paused bool) bool { return f(dt, paused) }

// PauseSource reports the process-wide pause flag. It is owned by game-state
// management (menus, cutscenes), never by the scheduler.
type PauseSource interface {
	Paused() bool
}

// Pause is the default PauseSource: a single boolean flag.
// No atomic: the simulation is single-threaded.
type Pause struct {
	paused bool
}

// Paused reports whether game time is currently frozen.
func (p *Pause) Paused() bool { return p.paused }

// Set sets the pause flag.
func (p *Pause) Set(paused bool) { p.paused = paused }

// Toggle flips the pause flag and returns the new value.
func (p *Pause) Toggle() bool {
	p.paused = !p.paused
	return p.paused
}

// Runner multiplexes any number of tasks onto the single frame tick.
// It is not safe for concurrent use.
type Runner struct {
	pause PauseSource
	tasks []Task
	ticks uint64
}

// NewRunner creates a Runner that samples pause before stepping each task.
// A nil pause source is treated as never paused.
func NewRunner(pause PauseSource) *Runner {
	return &Runner{pause: pause, tasks: make([]Task, 0, 32)}
}

// Go registers t. The task takes its first step on the next call to Advance
// that starts after registration, so a task created by a callback during
// Advance waits for the following frame.
func (r *Runner) Go(t Task) {
	if t == nil {
		panic("sched: cannot run nil task")
	}
	r.tasks = append(r.tasks, t)
}

// Advance performs one frame tick: every task registered before this call is
// stepped exactly once with dt. Terminated tasks are discarded.
func (r *Runner) Advance(dt time.Duration) {
	r.ticks++
	n := len(r.tasks)
	for i := 0; i < n; i++ {
		// r.tasks may be reallocated by a callback registering new work, so
		// it is re-read on every iteration.
		t := r.tasks[i]
		if t == nil {
			continue
		}
		if t.Step(dt, r.paused()) {
			r.tasks[i] = nil
		}
	}

	live := r.tasks[:0]
	for _, t := range r.tasks {
		if t != nil {
			live = append(live, t)
		}
	}
	// Clear the tail so dropped tasks can be collected.
	for i := len(live); i < len(r.tasks); i++ {
		r.tasks[i] = nil
	}
	r.tasks = live
}

// Len returns the number of tasks still running.
func (r *Runner) Len() int {
	return len(r.tasks)
}

// Ticks returns how many frame ticks the runner has performed.
func (r *Runner) Ticks() uint64 {
	return r.ticks
}

// Paused reports the pause flag the runner is currently observing.
func (r *Runner) Paused() bool {
	return r.paused()
}

func (r *Runner) paused() bool {
	return r.pause != nil && r.pause.Paused()
}

// FrameDuration converts a tick rate into the duration of one tick. The
// result is truncated to the nanosecond; use a FrameClock when whole seconds
// must land on exact frame counts.
func FrameDuration(tps int) time.Duration {
	if tps <= 0 {
		return 0
	}
	return time.Second / time.Duration(tps)
}

// Seconds converts a duration expressed in (possibly fractional) seconds, the
// unit gameplay data is authored in, into a time.Duration.
func Seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// FrameClock hands out frame durations for a fixed tick rate. The truncation
// remainder of time.Second/tps is spread across the frames, so any tps
// consecutive frames add up to exactly one second.
type FrameClock struct {
	tps   int64
	frame int64
}

// NewFrameClock returns a clock for tps frames per second. A non-positive
// tps yields zero-length frames.
func NewFrameClock(tps int) *FrameClock {
	return &FrameClock{tps: int64(max(tps, 0))}
}

// Next returns the duration of the next frame.
func (c *FrameClock) Next() time.Duration {
	if c.tps == 0 {
		return 0
	}
	n := c.frame
	c.frame = (c.frame + 1) % c.tps
	return time.Duration((n+1)*int64(time.Second)/c.tps - n*int64(time.Second)/c.tps)
}
