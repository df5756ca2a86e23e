package classifier

import (
	"testing"

	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

func identityWindow(n int) []transform.Transform {
	w := make([]transform.Transform, n)
	for i := range w {
		w[i] = transform.Identity()
	}
	return w
}

func TestClassifyStaticForIdenticalTransforms(t *testing.T) {
	p := params.Default()
	label, _ := Classify(identityWindow(10), p)
	if label != Static {
		t.Fatalf("Classify() = %v, want Static", label)
	}
}

func TestClassifyFastMotionPreemptsSlowMotion(t *testing.T) {
	p := params.Default()
	// mean_mag in the shared [slow_t, fast_t) band.
	window := make([]transform.Transform, 10)
	for i := range window {
		window[i] = transform.Transform{A: 1, D: 1, TX: (p.SlowThreshold + p.FastThreshold) / 2, TY: 0}
	}
	label, _ := Classify(window, p)
	if label != FastMotion {
		t.Fatalf("Classify() = %v, want FastMotion (band preemption)", label)
	}
}

func TestClassifyCameraShakeOnOscillatingMagnitude(t *testing.T) {
	p := params.Default()
	window := make([]transform.Transform, 20)
	for i := range window {
		tx := 2.0
		if i%2 == 0 {
			tx = 18.0
		}
		window[i] = transform.Transform{A: 1, D: 1, TX: tx, TY: 0}
	}
	label, stats := Classify(window, p)
	if label != CameraShake {
		t.Fatalf("Classify() = %v (stats=%+v), want CameraShake", label, stats)
	}
}

func TestClassifyPanZoomForConsistentDrift(t *testing.T) {
	p := params.Default()
	window := make([]transform.Transform, 10)
	for i := range window {
		window[i] = transform.Transform{A: 1, D: 1, TX: 1.5, TY: 0}
	}
	label, _ := Classify(window, p)
	if label != PanZoom {
		t.Fatalf("Classify() = %v, want PanZoom", label)
	}
}

func TestComputeShortWindowIsZeroValue(t *testing.T) {
	got := Compute([]transform.Transform{transform.Identity()})
	if got != (Stats{}) {
		t.Fatalf("Compute() on a 1-entry window = %+v, want zero value", got)
	}
}
