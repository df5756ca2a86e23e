/*
NAME
  adaptive.go

DESCRIPTION
  adaptive.go implements the adaptive parameter controller of spec.md
  §4.I: on a motion-label change it either adopts the label's target
  Params immediately (cold start from Static) or glides toward them by
  per-field linear interpolation at a fixed transition rate.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package adaptive owns the label-to-target Params mapping and the
// per-frame interpolation logic spec.md §4.I's adaptive controller
// applies as the motion classification changes.
package adaptive

import (
	"math"

	"github.com/azumag/obs-stabilizer-sub000/classifier"
	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

const minWindowForClassification = 5

// Config maps each MotionLabel to its target Params and carries the
// transition rate the controller glides at.
type Config struct {
	Targets        map[classifier.Label]params.Params
	TransitionRate float64 // (0,1]
}

// DefaultConfig returns a Config where every label targets the
// documented default Params except FastMotion (tighter smoothing, more
// aggressive correction), CameraShake (largest smoothing radius,
// Harris corners for stability under oscillation) and PanZoom (smoothing
// radius 20, correction 95), matching spec.md §4.I's
// static/slow/fast/shake/pan intent.
func DefaultConfig() Config {
	base := params.Default()

	slow := base
	slow.SmoothingRadius = 30

	fast := base
	fast.SmoothingRadius = 15
	fast.MaxCorrection = 90

	shake := base
	shake.SmoothingRadius = 45
	shake.UseHarris = true

	pan := base
	pan.SmoothingRadius = 20
	pan.MaxCorrection = 95

	for _, p := range []*params.Params{&base, &slow, &fast, &shake, &pan} {
		p.Validate()
	}

	return Config{
		Targets: map[classifier.Label]params.Params{
			classifier.Static:      base,
			classifier.SlowMotion:  slow,
			classifier.FastMotion:  fast,
			classifier.CameraShake: shake,
			classifier.PanZoom:     pan,
		},
		TransitionRate: 0.2,
	}
}

// Controller tracks the previous classification and params across
// frames so it can decide whether a transition occurred and interpolate
// toward the new target.
type Controller struct {
	cfg            Config
	previousLabel  classifier.Label
	previousParams params.Params
}

// NewController returns a Controller seeded at the Static label with
// current as its starting params.
func NewController(cfg Config, current params.Params) *Controller {
	return &Controller{cfg: cfg, previousLabel: classifier.Static, previousParams: current}
}

// Step runs one frame of spec.md §4.I's logic. window is the transform
// history to classify over; it returns (newParams, changed) — changed
// is false when the label did not change (or the window is too short),
// in which case newParams is a copy of the controller's current params.
func (c *Controller) Step(window []transform.Transform) (params.Params, bool) {
	if len(window) < minWindowForClassification {
		return c.previousParams, false
	}

	label, _ := classifier.Classify(window, c.previousParams)
	if label == c.previousLabel {
		return c.previousParams, false
	}

	target := c.cfg.Targets[label]

	var next params.Params
	if c.previousLabel == classifier.Static {
		next = target
	} else {
		next = lerp(c.previousParams, target, c.cfg.TransitionRate)
	}
	next.Validate()

	c.previousLabel = label
	c.previousParams = next
	return next, true
}

// PreviousLabel returns the most recently classified label.
func (c *Controller) PreviousLabel() classifier.Label { return c.previousLabel }

// lerp interpolates every numeric field of prev toward target at rate r,
// rounding integer fields; bool/categorical fields take target's value,
// per spec.md §4.I step 3.
func lerp(prev, target params.Params, r float64) params.Params {
	next := prev

	next.SmoothingRadius = lerpInt(prev.SmoothingRadius, target.SmoothingRadius, r)
	next.MaxCorrection = lerpFloat(prev.MaxCorrection, target.MaxCorrection, r)
	next.FeatureCount = lerpInt(prev.FeatureCount, target.FeatureCount, r)
	next.QualityLevel = lerpFloat(prev.QualityLevel, target.QualityLevel, r)
	next.MinDistance = lerpFloat(prev.MinDistance, target.MinDistance, r)
	next.BlockSize = lerpInt(prev.BlockSize, target.BlockSize, r)
	next.HarrisK = lerpFloat(prev.HarrisK, target.HarrisK, r)
	next.FlowWindowSize = lerpInt(prev.FlowWindowSize, target.FlowWindowSize, r)
	next.PyramidLevels = lerpInt(prev.PyramidLevels, target.PyramidLevels, r)
	next.FeatureRefreshThreshold = lerpFloat(prev.FeatureRefreshThreshold, target.FeatureRefreshThreshold, r)
	next.RansacThresholdMin = lerpFloat(prev.RansacThresholdMin, target.RansacThresholdMin, r)
	next.RansacThresholdMax = lerpFloat(prev.RansacThresholdMax, target.RansacThresholdMax, r)
	next.StaticThreshold = lerpFloat(prev.StaticThreshold, target.StaticThreshold, r)
	next.SlowThreshold = lerpFloat(prev.SlowThreshold, target.SlowThreshold, r)
	next.FastThreshold = lerpFloat(prev.FastThreshold, target.FastThreshold, r)
	next.VarianceThreshold = lerpFloat(prev.VarianceThreshold, target.VarianceThreshold, r)
	next.HighFrequencyThreshold = lerpFloat(prev.HighFrequencyThreshold, target.HighFrequencyThreshold, r)
	next.ConsistencyThreshold = lerpFloat(prev.ConsistencyThreshold, target.ConsistencyThreshold, r)
	next.Sensitivity = lerpFloat(prev.Sensitivity, target.Sensitivity, r)

	// Categorical/bool fields take the target's value outright.
	next.Enabled = target.Enabled
	next.UseHarris = target.UseHarris
	next.EdgeMode = target.EdgeMode

	return next
}

func lerpFloat(prev, target, r float64) float64 {
	return prev + (target-prev)*r
}

func lerpInt(prev, target int, r float64) int {
	return int(math.Round(float64(prev) + (float64(target)-float64(prev))*r))
}
