package adaptive

import (
	"testing"

	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

func driftWindow(n int, tx float64) []transform.Transform {
	w := make([]transform.Transform, n)
	for i := range w {
		w[i] = transform.Transform{A: 1, D: 1, TX: tx}
	}
	return w
}

func TestStepDoesNothingBelowMinWindow(t *testing.T) {
	c := NewController(DefaultConfig(), params.Default())
	_, changed := c.Step(driftWindow(4, 1.5))
	if changed {
		t.Fatalf("Step() changed = true with a 4-entry window, want false")
	}
}

func TestStepColdStartAdoptsImmediately(t *testing.T) {
	cfg := DefaultConfig()
	c := NewController(cfg, params.Default())
	next, changed := c.Step(driftWindow(10, 1.5)) // classifies PanZoom
	if !changed {
		t.Fatalf("Step() changed = false, want true on a cold-start label change")
	}
	want := cfg.Targets[c.PreviousLabel()]
	if next != want {
		t.Fatalf("cold start should adopt the target immediately: got %+v, want %+v", next, want)
	}
}

func TestStepNoChangeWhenLabelSame(t *testing.T) {
	c := NewController(DefaultConfig(), params.Default())
	window := driftWindow(10, 0) // identity -> Static, same as cold-start label
	_, changed := c.Step(window)
	if changed {
		t.Fatalf("Step() changed = true classifying Static from Static cold start, want false")
	}
}

func TestStepInterpolatesOnSubsequentChange(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TransitionRate = 0.5
	c := NewController(cfg, params.Default())

	// First transition: cold start from Static, adopts target immediately.
	first, _ := c.Step(driftWindow(10, 1.5)) // PanZoom

	// Second transition: from PanZoom to FastMotion should interpolate,
	// not jump straight to the FastMotion target.
	second, changed := c.Step(driftWindow(10, 6.5)) // FastMotion
	if !changed {
		t.Fatalf("Step() changed = false, want true")
	}
	if second.SmoothingRadius == first.SmoothingRadius {
		t.Fatalf("expected SmoothingRadius to move from %d toward the FastMotion target", first.SmoothingRadius)
	}
}
