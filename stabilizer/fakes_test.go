package stabilizer

import (
	"github.com/azumag/obs-stabilizer-sub000/estimate"
	"github.com/azumag/obs-stabilizer-sub000/feature"
	"github.com/azumag/obs-stabilizer-sub000/flow"
	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

// fakeDetector always returns a fixed point count unless told to
// simulate "no features found".
type fakeDetector struct {
	count  int
	failAt int // call index (1-based) that returns zero features; 0 disables.
	calls  int
}

func (d *fakeDetector) Detect(gray []byte, width, height, stride int, cfg feature.Config) (feature.Set, error) {
	d.calls++
	if d.failAt != 0 && d.calls == d.failAt {
		return nil, nil
	}
	pts := make(feature.Set, d.count)
	for i := range pts {
		pts[i] = feature.Point{X: float32(i), Y: float32(i)}
	}
	return pts, nil
}

// fakeTracker tracks every point successfully unless forced to fail.
type fakeTracker struct {
	forceFail bool
}

func (tr *fakeTracker) Track(prevGray, currGray []byte, width, height, prevStride, currStride int, prevPts feature.Set, cfg flow.Config) (flow.Result, error) {
	if tr.forceFail || len(prevPts) < flow.MinFeaturesForTracking {
		return flow.Result{Prev: nil, Curr: nil, InputSize: len(prevPts)}, nil
	}
	curr := make(feature.Set, len(prevPts))
	copy(curr, prevPts)
	return flow.Result{Prev: prevPts, Curr: curr, InputSize: len(prevPts)}, nil
}

// fakeEstimator always returns identity.
type fakeEstimator struct{}

func (e *fakeEstimator) Estimate(prev, curr feature.Set, cfg estimate.Config) transform.Transform {
	return transform.Identity()
}

// fakeWarper is a no-op copy.
type fakeWarper struct{}

func (w *fakeWarper) Warp(src []byte, width, height, stride int, channels int, t transform.Transform, dst []byte, dstStride int) error {
	copy(dst, src)
	return nil
}

// fakeCompositor passes the frame through unchanged.
type fakeCompositor struct{}

func (c *fakeCompositor) Composite(mode params.EdgeMode, frame []byte, width, height, stride, channels int) ([]byte, error) {
	return frame, nil
}

func fakeDeps(featureCount int) Deps {
	return Deps{
		Detector:   &fakeDetector{count: featureCount},
		Tracker:    &fakeTracker{},
		Estimator:  &fakeEstimator{},
		Warper:     &fakeWarper{},
		Compositor: &fakeCompositor{},
	}
}
