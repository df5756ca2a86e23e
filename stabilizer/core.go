/*
NAME
  core.go

DESCRIPTION
  core.go implements the stabilizer core: the per-frame state machine and
  orchestration of feature detection, optical-flow tracking, transform
  estimation, smoothing, warping and edge compositing.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package stabilizer implements the real-time video stabilization core:
// its per-frame state machine (core.go) and the mutex-guarded façade
// (facade.go) that is its sole thread-safety boundary.
package stabilizer

import (
	"time"

	"github.com/pkg/errors"

	"github.com/azumag/obs-stabilizer-sub000/compositor"
	"github.com/azumag/obs-stabilizer-sub000/estimate"
	"github.com/azumag/obs-stabilizer-sub000/feature"
	"github.com/azumag/obs-stabilizer-sub000/flow"
	"github.com/azumag/obs-stabilizer-sub000/frameview"
	"github.com/azumag/obs-stabilizer-sub000/smoother"
	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
	"github.com/azumag/obs-stabilizer-sub000/transform"
	"github.com/azumag/obs-stabilizer-sub000/warp"
)

// consecutiveFailureLimit is the design constant (spec.md §4.D/§4.G) at
// which the core forces a full re-detect and resyncs prev_gray.
const consecutiveFailureLimit = 5

// A frame slower than slowFrameThreshold is recorded as the last error;
// the core does not log it, and it never degrades the pipeline.
const slowFrameThreshold = 10 * time.Millisecond

// classifierWindow is the default motion-classification window (W).
const classifierWindow = 30

// Status is the core's lifecycle state (spec.md §4.G).
type Status int

const (
	Inactive Status = iota
	Initializing
	Active
	Degraded
	ErrorRecovery
	Failed
)

func (s Status) String() string {
	switch s {
	case Inactive:
		return "Inactive"
	case Initializing:
		return "Initializing"
	case Active:
		return "Active"
	case Degraded:
		return "Degraded"
	case ErrorRecovery:
		return "ErrorRecovery"
	case Failed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Metrics is the PerformanceMetrics snapshot of spec.md §3.
type Metrics struct {
	FrameCount          int64
	AvgProcessingTime   time.Duration
	FeatureCount        int
	LastSuccessRate     float64
	TransformStability  float64
	Status              Status
	ErrorCount          int64
}

// Errors returned by initialize/process_frame (spec.md §7's categories,
// surfaced where the caller needs to distinguish Initialization faults
// from the input-unchanged-on-failure frame path).
var (
	ErrInvalidDimensions = errors.New("stabilizer: width/height outside [32,16384]")
	ErrInvalidFrame      = errors.New("stabilizer: frame failed validation")
)

// emaAlpha is the smoothing factor for the processing-time EMA.
const emaAlpha = 0.1

// Core is the orchestrator of spec.md §4.G. It is not internally
// thread-safe; Facade is the sole concurrency boundary.
type Core struct {
	width, height int

	detector   feature.Detector
	tracker    flow.Tracker
	estimator  estimate.Estimator
	warper     warp.Warper
	compositor compositor.Compositor

	params params.Params

	prevGray    frameview.GrayPlane
	prevPoints  feature.Set
	history     *smoother.History
	transforms  []transform.Transform // recent raw transforms, for classifier window.

	firstFrame                  bool
	consecutiveTrackingFailures int

	status    Status
	metrics   Metrics
	lastError string
}

// Deps bundles the pluggable algorithm implementations Core orchestrates.
// Tests supply fakes; production wiring supplies the gocv-backed types.
type Deps struct {
	Detector   feature.Detector
	Tracker    flow.Tracker
	Estimator  estimate.Estimator
	Warper     warp.Warper
	Compositor compositor.Compositor
}

// NewCore returns an Inactive Core. Call Initialize before ProcessFrame.
func NewCore(deps Deps) *Core {
	return &Core{
		detector:   deps.Detector,
		tracker:    deps.Tracker,
		estimator:  deps.Estimator,
		warper:     deps.Warper,
		compositor: deps.Compositor,
		status:     Inactive,
	}
}

// Initialize transitions Inactive/any → Initializing, validating w/h and
// admitting p (clamped) as the active params.
func (c *Core) Initialize(w, h int, p params.Params) error {
	if w < 32 || w > frameview.MaxDimension || h < 32 || h > frameview.MaxDimension {
		c.lastError = ErrInvalidDimensions.Error()
		return ErrInvalidDimensions
	}
	p.Validate()

	c.width, c.height = w, h
	c.params = p
	c.prevGray = frameview.GrayPlane{}
	c.prevPoints = nil
	c.history = smoother.NewHistory(p.SmoothingRadius)
	c.transforms = nil
	c.firstFrame = true
	c.consecutiveTrackingFailures = 0
	c.status = Initializing
	c.metrics = Metrics{Status: Initializing}
	c.lastError = ""
	return nil
}

// UpdateParameters clamps and admits p as the new active params,
// resizing the transform history if smoothing_radius changed.
func (c *Core) UpdateParameters(p params.Params) {
	p.Validate()
	if c.history != nil && p.SmoothingRadius != c.params.SmoothingRadius {
		c.history.Resize(p.SmoothingRadius)
	}
	c.params = p
}

// Params returns a copy of the active params.
func (c *Core) Params() params.Params { return c.params }

// Metrics returns a snapshot of the current metrics.
func (c *Core) Metrics() Metrics { return c.metrics }

// LastError returns the last recorded human-readable fault, or "".
func (c *Core) LastError() string { return c.lastError }

// Reset clears all per-stream state and returns to Initializing.
func (c *Core) Reset() {
	c.prevGray = frameview.GrayPlane{}
	c.prevPoints = nil
	if c.history != nil {
		c.history.Reset()
	}
	c.transforms = nil
	c.firstFrame = true
	c.consecutiveTrackingFailures = 0
	c.status = Initializing
	c.metrics.Status = Initializing
	c.lastError = ""
}

// ProcessFrame runs the spec.md §4.G per-frame algorithm against in,
// returning the (possibly warped and composited) output bytes for in's
// single packed-color plane (channels inferred from in.Format), or in's
// bytes unchanged on any of the documented non-advancing paths.
func (c *Core) ProcessFrame(in *frameview.View) ([]byte, error) {
	start := time.Now()

	if c.status == Inactive {
		return planeBytes(in), nil
	}

	if err := in.Validate(); err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
		return planeBytes(in), ErrInvalidFrame
	}

	if !c.params.Enabled {
		return planeBytes(in), nil
	}

	channels, err := packedChannels(in.Format)
	if err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
		return planeBytes(in), nil
	}

	var gray frameview.GrayPlane
	if err := in.ToGray(&gray); err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
		return planeBytes(in), nil
	}

	var out []byte
	if c.firstFrame {
		out, err = c.processFirstFrame(in, gray)
	} else {
		out, err = c.processSubsequentFrame(in, gray, channels)
	}
	c.recordTiming(start)
	return out, err
}

func (c *Core) processFirstFrame(in *frameview.View, gray frameview.GrayPlane) ([]byte, error) {
	cfg := feature.Config{
		TargetCount: c.params.FeatureCount,
		Quality:     c.params.QualityLevel,
		MinDistance: c.params.MinDistance,
		BlockSize:   c.params.BlockSize,
		UseHarris:   c.params.UseHarris,
		HarrisK:     c.params.HarrisK,
	}
	pts, err := c.detector.Detect(gray.Data, gray.Width, gray.Height, gray.Stride(), cfg)
	if err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
	}
	if len(pts) == 0 {
		c.metrics.FrameCount++
		c.metrics.Status = Initializing
		c.status = Initializing
		return planeBytes(in), nil
	}

	c.prevGray = gray
	c.prevPoints = pts
	c.history.Push(transform.Identity())
	c.transforms = append(c.transforms, transform.Identity())
	c.firstFrame = false
	c.status = Active
	c.metrics.FrameCount++
	c.metrics.FeatureCount = len(pts)
	c.metrics.Status = Active
	return planeBytes(in), nil
}

func (c *Core) processSubsequentFrame(in *frameview.View, gray frameview.GrayPlane, channels int) ([]byte, error) {
	flowCfg := flow.Config{
		WindowSize:    c.params.FlowWindowSize,
		PyramidLevels: c.params.PyramidLevels,
		MaxIters:      30,
		Epsilon:       0.01,
	}
	result, err := c.tracker.Track(c.prevGray.Data, gray.Data, gray.Width, gray.Height, c.prevGray.Stride(), gray.Stride(), c.prevPoints, flowCfg)
	if err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
	}

	if err != nil || result.Failed() || result.SuccessRate() < c.params.FeatureRefreshThreshold {
		c.consecutiveTrackingFailures++
		if c.consecutiveTrackingFailures >= consecutiveFailureLimit {
			return c.forceRedetect(in, gray)
		}
		c.status = Degraded
		c.metrics.FrameCount++
		c.metrics.Status = Degraded
		return planeBytes(in), nil
	}
	c.consecutiveTrackingFailures = 0

	estCfg := estimate.Config{
		RansacThresholdMin: c.params.RansacThresholdMin,
		RansacThresholdMax: c.params.RansacThresholdMax,
		MaxCorrection:      c.params.MaxCorrection,
	}
	t := c.estimator.Estimate(result.Prev, result.Curr, estCfg)

	c.history.Push(t)
	c.transforms = append(c.transforms, t)
	if len(c.transforms) > classifierWindow {
		c.transforms = c.transforms[len(c.transforms)-classifierWindow:]
	}

	smoothed := c.history.Mean()

	c.prevGray = gray
	c.prevPoints = result.Curr

	out, err := c.warpAndComposite(in, channels, smoothed)
	if err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
		c.status = Failed
		c.metrics.Status = Failed
		return planeBytes(in), nil
	}

	c.status = Active
	c.metrics.FrameCount++
	c.metrics.FeatureCount = len(result.Curr)
	c.metrics.LastSuccessRate = result.SuccessRate()
	c.metrics.TransformStability = transformStability(c.transforms)
	c.metrics.Status = Active
	return out, nil
}

func (c *Core) forceRedetect(in *frameview.View, gray frameview.GrayPlane) ([]byte, error) {
	cfg := feature.Config{
		TargetCount: c.params.FeatureCount,
		Quality:     c.params.QualityLevel,
		MinDistance: c.params.MinDistance,
		BlockSize:   c.params.BlockSize,
		UseHarris:   c.params.UseHarris,
		HarrisK:     c.params.HarrisK,
	}
	pts, err := c.detector.Detect(gray.Data, gray.Width, gray.Height, gray.Stride(), cfg)
	if err != nil {
		c.lastError = err.Error()
		c.metrics.ErrorCount++
	}

	// The two must move together: prev_gray always resyncs to current,
	// whether or not re-detect found anything.
	c.prevGray = gray
	c.prevPoints = pts
	c.consecutiveTrackingFailures = 0
	c.metrics.FrameCount++

	if len(pts) == 0 {
		c.status = Initializing
		c.firstFrame = true
		c.metrics.Status = Initializing
		return planeBytes(in), nil
	}

	c.status = ErrorRecovery
	c.metrics.FeatureCount = len(pts)
	c.metrics.Status = ErrorRecovery
	return planeBytes(in), nil
}

func (c *Core) warpAndComposite(in *frameview.View, channels int, t transform.Transform) ([]byte, error) {
	src := in.Planes[0].Data
	stride := in.Planes[0].Stride
	dst := make([]byte, len(src))

	if err := c.warper.Warp(src, c.width, c.height, stride, channels, t, dst, stride); err != nil {
		return nil, errors.Wrap(err, "warp")
	}

	out, err := c.compositor.Composite(c.params.EdgeMode, dst, c.width, c.height, stride, channels)
	if err != nil {
		return nil, errors.Wrap(err, "composite")
	}
	return out, nil
}

func (c *Core) recordTiming(start time.Time) {
	elapsed := time.Since(start)
	if c.metrics.FrameCount <= 1 {
		c.metrics.AvgProcessingTime = elapsed
	} else {
		c.metrics.AvgProcessingTime = time.Duration(emaAlpha*float64(elapsed) + (1-emaAlpha)*float64(c.metrics.AvgProcessingTime))
	}
	if elapsed > slowFrameThreshold {
		c.lastError = "slow frame: " + elapsed.String()
	}
}

// planeBytes returns in's single packed-color plane unchanged.
func planeBytes(in *frameview.View) []byte {
	return in.Planes[0].Data
}

func packedChannels(f frameview.Format) (int, error) {
	switch f {
	case frameview.BGRA, frameview.BGRX:
		return 4, nil
	case frameview.BGR3:
		return 3, nil
	case frameview.Y800, frameview.I420, frameview.NV12:
		return 1, nil
	default:
		return 0, errors.Errorf("stabilizer: unsupported format %v", f)
	}
}

// transformStability is the SPEC_FULL §8 addition: the inverted,
// clamped-to-[0,1] population variance of recent translations. A
// perfectly steady stream (zero variance) reports stability 1.
func transformStability(recent []transform.Transform) float64 {
	if len(recent) == 0 {
		return 1
	}
	var meanX, meanY float64
	for _, t := range recent {
		meanX += t.TX
		meanY += t.TY
	}
	n := float64(len(recent))
	meanX /= n
	meanY /= n

	var variance float64
	for _, t := range recent {
		dx, dy := t.TX-meanX, t.TY-meanY
		variance += dx*dx + dy*dy
	}
	variance /= n

	stability := 1 / (1 + variance)
	if stability < 0 {
		return 0
	}
	if stability > 1 {
		return 1
	}
	return stability
}
