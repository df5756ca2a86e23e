/*
NAME
  estimate.go

DESCRIPTION
  estimate.go defines the Estimator interface for the transform-estimation
  stage (spec.md §4.E). The estimator and warp stages are documented as
  able to remain concrete (Design Notes §9); this package still exposes a
  thin interface so the stabilizer core can be exercised in tests against
  a fake estimator without requiring OpenCV, the same way the Detector and
  Tracker capability sets are abstracted.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package estimate provides RANSAC partial-affine estimation of a
// correspondence set, with the mandatory post-estimate clamp of spec.md
// §4.E.
package estimate

import (
	"github.com/azumag/obs-stabilizer-sub000/feature"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

// Config holds the tuning the estimator needs.
type Config struct {
	RansacThresholdMin float64
	RansacThresholdMax float64
	MaxCorrection      float64 // percent, see transform.Transform.Clamp
}

// Estimator fits a partial-affine (similarity) transform mapping prev to
// curr. On failure it returns the identity transform, never an error that
// should halt the pipeline: spec.md §4.E treats estimation failure as
// non-fatal.
type Estimator interface {
	Estimate(prev, curr feature.Set, cfg Config) transform.Transform
}

// Clamp applies the mandatory post-estimate clamp of spec.md §4.E. It is
// exported separately from Estimator.Estimate so both the RANSAC
// implementation and tests/fakes share exactly one clamp policy.
func Clamp(t transform.Transform, cfg Config) transform.Transform {
	return t.Clamp(cfg.MaxCorrection)
}
