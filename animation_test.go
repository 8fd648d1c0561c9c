package hollowreach

import (
	"math"
	"testing"
	"time"

	"github.com/phanxgames/hollowreach/chunk"
	"github.com/phanxgames/hollowreach/sched"
	"github.com/tanema/gween/ease"
)

func TestTweenValueReachesTarget(t *testing.T) {
	v := 10.0
	g := TweenValue(&v, 100, 1.0, ease.Linear)

	// Run for full duration using exact halves to avoid float32 accumulation drift.
	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	if math.Abs(v-100) > 0.5 {
		t.Errorf("v = %f, want ~100", v)
	}
}

func TestTweenBoundsReachesTarget(t *testing.T) {
	node := NewNode("bounds", chunk.Rect{X: 0, Y: 0, W: 1, H: 1}, ColorWhite)

	g := TweenBounds(node, [4]float64{10, 20, 4, 2}, 0.5, ease.Linear)
	g.Update(0.25)
	g.Update(0.25)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	want := chunk.Rect{X: 10, Y: 20, W: 4, H: 2}
	got := node.Bounds
	if math.Abs(got.X-want.X) > 0.01 || math.Abs(got.Y-want.Y) > 0.01 ||
		math.Abs(got.W-want.W) > 0.01 || math.Abs(got.H-want.H) > 0.01 {
		t.Errorf("Bounds = %v, want ~%v", got, want)
	}
}

func TestTweenColorAllComponents(t *testing.T) {
	node := NewContainer("color")
	node.Color = Color{R: 1, G: 0, B: 0, A: 1}
	target := Color{R: 0, G: 1, B: 0.5, A: 0.5}

	g := TweenColor(node, target, 1.0, ease.Linear)

	g.Update(0.5)
	g.Update(0.5)

	if !g.Done {
		t.Fatal("expected Done after full duration")
	}
	c := node.Color
	if math.Abs(c.R) > 0.01 || math.Abs(c.G-1) > 0.01 || math.Abs(c.B-0.5) > 0.01 || math.Abs(c.A-0.5) > 0.01 {
		t.Errorf("Color = %+v, want ~%+v", c, target)
	}
}

func TestTweenGroupDoneFlagTransition(t *testing.T) {
	v := 0.0
	g := TweenValue(&v, 50, 0.5, ease.Linear)

	if g.Done {
		t.Fatal("should not be Done at start")
	}

	// Partway through, not done.
	g.Update(0.25)
	if g.Done {
		t.Fatal("should not be Done partway through")
	}

	g.Update(0.25)
	if !g.Done {
		t.Fatal("should be Done after full duration")
	}

	// Update after done is a no-op.
	g.Update(0.1)
	if !g.Done {
		t.Fatal("should remain Done")
	}
}

func TestTweenGroupDisposedMidAnimation(t *testing.T) {
	node := NewContainer("mid-dispose")

	g := TweenColor(node, ColorWhite, 1.0, ease.Linear)
	g.Update(0.1)
	g.Update(0.1)
	if g.Done {
		t.Fatal("should not be Done yet")
	}

	node.Dispose()
	saved := node.Color

	g.Update(0.1)
	if !g.Done {
		t.Fatal("expected Done after node disposed mid-animation")
	}
	if node.Color != saved {
		t.Error("node fields should not change after disposal")
	}
}

func TestTweenGroupStop(t *testing.T) {
	v := 0.0
	g := TweenValue(&v, 10, 1.0, ease.Linear)
	g.Update(0.5)
	g.Stop()
	saved := v
	g.Update(0.5)
	if v != saved || !g.Done {
		t.Errorf("stopped tween kept running: v = %f", v)
	}
}

func TestTweenGroupRunsOnRunner(t *testing.T) {
	pause := &sched.Pause{}
	r := sched.NewRunner(pause)
	v := 0.0
	r.Go(TweenValue(&v, 1, 0.5, ease.Linear))

	pause.Set(true)
	r.Advance(time.Second)
	if v != 0 {
		t.Fatalf("tween advanced while paused: %f", v)
	}
	pause.Set(false)
	r.Advance(250 * time.Millisecond)
	if math.Abs(v-0.5) > 0.01 {
		t.Errorf("v = %f after half the duration, want ~0.5", v)
	}
	r.Advance(250 * time.Millisecond)
	r.Advance(time.Millisecond)
	if r.Len() != 0 {
		t.Errorf("finished tween still on runner, Len = %d", r.Len())
	}
}

func TestTweenEasingFunctionsProduceDifferentCurves(t *testing.T) {
	var lin, cubic float64
	gL := TweenValue(&lin, 100, 1.0, ease.Linear)
	gC := TweenValue(&cubic, 100, 1.0, ease.OutCubic)

	gL.Update(0.5)
	gC.Update(0.5)

	// OutCubic should be ahead of linear at midpoint.
	if math.Abs(lin-cubic) < 1.0 {
		t.Errorf("easing curves should produce different values at midpoint: linear=%f cubic=%f", lin, cubic)
	}
}
