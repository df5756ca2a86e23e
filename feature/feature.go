/*
NAME
  feature.go

DESCRIPTION
  feature.go defines the Detector capability interface and the Point/Set
  types shared by the feature-tracking pipeline. This file carries no
  OpenCV dependency so it, and anything built only against it, compiles
  without the withcv build tag.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package feature provides corner detection on a grayscale plane: the
// Detector capability interface (spec.md §4.C, Design Notes §9) and an
// implementation backed by GoCV's Shi-Tomasi/Harris corner response.
package feature

import (
	"math"
)

// Point is a single-precision 2-D coordinate. It is not required to lie
// within frame bounds: the tracker may emit out-of-bounds tracked
// positions, which the estimator is responsible for filtering.
type Point struct {
	X, Y float32
}

// IsFinite reports whether p's coordinates are both finite.
func (p Point) IsFinite() bool {
	return !math.IsNaN(float64(p.X)) && !math.IsInf(float64(p.X), 0) &&
		!math.IsNaN(float64(p.Y)) && !math.IsInf(float64(p.Y), 0)
}

// Set is an ordered sequence of Points, the FeatureSet of spec.md §3.
type Set []Point

// Config holds the tuning the detector needs; it is the subset of
// params.Params relevant to corner detection, passed by value so this
// package does not need to import the params package.
type Config struct {
	TargetCount  int
	Quality      float64
	MinDistance  float64
	BlockSize    int
	UseHarris    bool
	HarrisK      float64
}

// Detector is the capability set {detect} of Design Notes §9: given a
// grayscale plane, return up to Config.TargetCount points. A Detector must
// never panic; any internal fault is converted to a nil/empty result, the
// caller treating the frame as unstabilizable for now.
type Detector interface {
	Detect(gray []byte, width, height, stride int, cfg Config) (Set, error)
}
