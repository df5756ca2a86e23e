package stabilizer

import (
	"path/filepath"
	"testing"

	"github.com/ausocean/utils/logging"

	"github.com/azumag/obs-stabilizer-sub000/adaptive"
	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
)

func testLogger(t *testing.T) logging.Logger {
	t.Helper()
	return NewLogger(filepath.Join(t.TempDir(), "stabilizer.log"), logging.Info)
}

func newTestFacade(t *testing.T, featureCount int) *Facade {
	f := NewFacade(fakeDeps(featureCount), adaptive.DefaultConfig(), testLogger(t))
	if err := f.Initialize(64, 64, params.Default()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return f
}

func TestFacadeInitializeThenGetCurrentParams(t *testing.T) {
	p := params.Default()
	p.FeatureCount = 0 // clamps to documented minimum 50.
	f := NewFacade(fakeDeps(10), adaptive.DefaultConfig(), testLogger(t))
	if err := f.Initialize(64, 64, p); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	got := f.GetCurrentParams()
	if got.FeatureCount != 50 {
		t.Fatalf("FeatureCount after clamp = %d, want 50", got.FeatureCount)
	}
}

func TestFacadeProcessFrameBeforeInitializeIsPassthrough(t *testing.T) {
	f := NewFacade(fakeDeps(10), adaptive.DefaultConfig(), testLogger(t))
	in := bgraView(64, 64, 128)
	out, err := f.ProcessFrame(in)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if string(out) != string(in.Planes[0].Data) {
		t.Fatalf("uninitialized facade must pass the frame through unchanged")
	}
}

func TestFacadeResetReturnsToInitializing(t *testing.T) {
	f := newTestFacade(t, 10)
	in := bgraView(64, 64, 128)
	f.ProcessFrame(in)
	f.Reset()
	if f.GetMetrics().Status != Initializing {
		t.Fatalf("status after Reset = %v, want Initializing", f.GetMetrics().Status)
	}
}

func TestFacadeUpdateParametersIsObservedNextFrame(t *testing.T) {
	f := newTestFacade(t, 10)
	p := f.GetCurrentParams()
	p.MaxCorrection = 50
	f.UpdateParameters(p)
	if _, err := f.ProcessFrame(bgraView(64, 64, 128)); err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if f.GetCurrentParams().MaxCorrection != 50 {
		t.Fatalf("MaxCorrection = %v, want 50", f.GetCurrentParams().MaxCorrection)
	}
}
