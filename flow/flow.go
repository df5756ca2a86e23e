/*
NAME
  flow.go

DESCRIPTION
  flow.go defines the Tracker capability interface used by the optical-flow
  stage of the pipeline (spec.md §4.D, Design Notes §9 "{track}" capability
  set). This file carries no OpenCV dependency.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package flow provides pyramidal Lucas-Kanade optical flow tracking of a
// point set between two grayscale frames.
package flow

import "github.com/azumag/obs-stabilizer-sub000/feature"

// MinFeaturesForTracking is the design constant below which the tracker
// signals failure (spec.md §4.D): surviving < 6 means "give up this frame".
const MinFeaturesForTracking = 6

// Config holds the tuning the tracker needs.
type Config struct {
	WindowSize    int
	PyramidLevels int
	MaxIters      int
	Epsilon       float64
}

// Result is the outcome of one Track call.
type Result struct {
	// Prev and Curr are parallel, equal-length, compacted to the indices
	// that survived tracking (status == true), preserving correspondence.
	Prev, Curr feature.Set

	// InputSize is the length of the point set Track was called with,
	// before compaction; this is the denominator for SuccessRate, per
	// spec.md §4.D ("never the post-compaction size").
	InputSize int
}

// SuccessRate is surviving/InputSize, computed against the pre-compaction
// input size. Using the post-compaction size would always yield 100% and
// is explicitly called out in spec.md §4.D as a correctness bug to avoid.
func (r Result) SuccessRate() float64 {
	if r.InputSize == 0 {
		return 0
	}
	return float64(len(r.Curr)) / float64(r.InputSize)
}

// Failed reports whether the result falls below MinFeaturesForTracking.
func (r Result) Failed() bool {
	return len(r.Curr) < MinFeaturesForTracking
}

// Tracker is the capability set {track}: pyramidal LK tracking of a point
// set between two grayscale frames of identical dimensions.
type Tracker interface {
	Track(prevGray, currGray []byte, width, height, prevStride, currStride int, prevPts feature.Set, cfg Config) (Result, error)
}
