package sched

import (
	"testing"
	"time"
)

func TestTaskRegisteredDuringAdvanceWaitsForNextFrame(t *testing.T) {
	r := NewRunner(nil)
	var chained *RunAfter
	fired := 0

	r.MustAfter(0, func() {
		chained = r.MustAfter(0, func() { fired++ })
	})

	r.Advance(frame)
	if chained == nil {
		t.Fatal("outer callback did not run")
	}
	if fired != 0 || chained.Finished() {
		t.Fatal("chained timer stepped on the frame it was created")
	}
	if r.Len() != 1 {
		t.Fatalf("Len = %d, want 1", r.Len())
	}

	r.Advance(frame)
	if fired != 1 {
		t.Errorf("fired = %d, want 1", fired)
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
}

func TestRunnerStepsEveryTaskOncePerFrame(t *testing.T) {
	r := NewRunner(nil)
	counts := make([]int, 5)
	for i := range counts {
		i := i
		r.Go(TaskFunc(func(time.Duration, bool) bool {
			counts[i]++
			return counts[i] == i+1
		}))
	}
	for f := 0; f < 5; f++ {
		r.Advance(frame)
	}
	for i, c := range counts {
		if c != i+1 {
			t.Errorf("task %d stepped %d times, want %d", i, c, i+1)
		}
	}
	if r.Len() != 0 {
		t.Errorf("Len = %d, want 0", r.Len())
	}
	if r.Ticks() != 5 {
		t.Errorf("Ticks = %d, want 5", r.Ticks())
	}
}

func TestRunnerPassesPauseFlag(t *testing.T) {
	p := &Pause{}
	r := NewRunner(p)
	var seen []bool
	r.Go(TaskFunc(func(_ time.Duration, paused bool) bool {
		seen = append(seen, paused)
		return len(seen) == 2
	}))
	r.Advance(frame)
	p.Set(true)
	if !r.Paused() {
		t.Fatal("runner should observe pause")
	}
	r.Advance(frame)
	if len(seen) != 2 || seen[0] || !seen[1] {
		t.Errorf("seen = %v, want [false true]", seen)
	}
}

func TestRunnerGoNilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewRunner(nil).Go(nil)
}

func TestFrameDurationAndSeconds(t *testing.T) {
	if got := FrameDuration(50); got != 20*time.Millisecond {
		t.Errorf("FrameDuration(50) = %v", got)
	}
	if got := FrameDuration(0); got != 0 {
		t.Errorf("FrameDuration(0) = %v", got)
	}
	if got := Seconds(1.5); got != 1500*time.Millisecond {
		t.Errorf("Seconds(1.5) = %v", got)
	}
}

func TestFrameClockLandsWholeSeconds(t *testing.T) {
	r := NewRunner(nil)
	c := NewFrameClock(60)
	firedAt := 0
	frame := 0
	r.MustAfter(time.Second, func() { firedAt = frame })
	for frame = 1; frame <= 120; frame++ {
		r.Advance(c.Next())
	}
	if firedAt != 60 {
		t.Errorf("one-second timer fired on frame %d, want 60", firedAt)
	}

	// A truncated frame length alone would need an extra frame.
	if FrameDuration(60)*60 >= time.Second {
		t.Fatal("FrameDuration(60) is expected to truncate")
	}
	var total time.Duration
	for range 60 {
		total += c.Next()
	}
	if total != time.Second {
		t.Errorf("60 frames = %v, want 1s", total)
	}
	if got := NewFrameClock(0).Next(); got != 0 {
		t.Errorf("zero-rate clock frame = %v", got)
	}
}

func TestFixedStep(t *testing.T) {
	f := NewFixedStep(20*time.Millisecond, 4)
	ticks := 0
	inc := func() { ticks++ }

	if n := f.Advance(10*time.Millisecond, inc); n != 0 {
		t.Fatalf("ran %d ticks for half an interval", n)
	}
	if n := f.Advance(15*time.Millisecond, inc); n != 1 {
		t.Fatalf("ran %d ticks, want 1", n)
	}
	if a := f.Alpha(); a < 0.24 || a > 0.26 {
		t.Errorf("Alpha = %v, want 0.25", a)
	}

	// A stall is clamped to maxSteps and the backlog is dropped.
	if n := f.Advance(time.Second, inc); n != 4 {
		t.Fatalf("ran %d ticks, want 4", n)
	}
	if f.Alpha() >= 1 {
		t.Errorf("backlog not dropped, Alpha = %v", f.Alpha())
	}
	if ticks != 5 || f.Steps() != 5 {
		t.Errorf("ticks=%d steps=%d, want 5", ticks, f.Steps())
	}
}

func TestFixedStepRejectsZeroInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	NewFixedStep(0, 1)
}
