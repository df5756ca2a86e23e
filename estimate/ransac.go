//go:build withcv
// +build withcv

/*
NAME
  ransac.go

DESCRIPTION
  ransac.go implements Estimator using GoCV's RANSAC partial-affine fit
  (estimateAffinePartial2D).

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package estimate

import (
	"math"

	"gocv.io/x/gocv"

	"github.com/azumag/obs-stabilizer-sub000/feature"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

// maxRansacIters and ransacConfidence are the fixed RANSAC tuning values
// not otherwise exposed by Config; they match the defaults
// cv::estimateAffinePartial2D itself documents.
const (
	maxRansacIters   = 2000
	ransacConfidence = 0.99
	refineIters      = 10
)

// RANSACEstimator is the default Estimator, backed by OpenCV's
// estimateAffinePartial2D. The zero value is ready to use.
type RANSACEstimator struct{}

// NewRANSACEstimator returns a ready-to-use RANSACEstimator.
func NewRANSACEstimator() *RANSACEstimator { return &RANSACEstimator{} }

func (e *RANSACEstimator) Estimate(prev, curr feature.Set, cfg Config) (result transform.Transform) {
	result = transform.Identity()
	defer func() {
		recover() // any internal OpenCV fault falls back to identity.
		result = Clamp(result, cfg)
	}()

	if len(prev) < 3 || len(prev) != len(curr) {
		return transform.Identity()
	}

	fromVec := gocv.NewPoint2fVectorFromPoints(toPoint2f(prev))
	defer fromVec.Close()
	toVec := gocv.NewPoint2fVectorFromPoints(toPoint2f(curr))
	defer toVec.Close()

	threshold := cfg.RansacThresholdMin
	if cfg.RansacThresholdMax > cfg.RansacThresholdMin {
		threshold = (cfg.RansacThresholdMin + cfg.RansacThresholdMax) / 2
	}

	m := gocv.EstimateAffinePartial2DWithParams(
		fromVec, toVec,
		gocv.RANSAC,
		threshold,
		maxRansacIters,
		ransacConfidence,
		refineIters,
	)
	defer m.Close()

	if m.Empty() || m.Rows() != 2 || m.Cols() != 3 {
		return transform.Identity()
	}

	t := transform.Transform{
		A: m.GetDoubleAt(0, 0), B: m.GetDoubleAt(0, 1), TX: m.GetDoubleAt(0, 2),
		C: m.GetDoubleAt(1, 0), D: m.GetDoubleAt(1, 1), TY: m.GetDoubleAt(1, 2),
	}
	if !t.IsFinite() || math.IsNaN(t.Scale()) {
		return transform.Identity()
	}
	return t
}

func toPoint2f(pts feature.Set) []gocv.Point2f {
	out := make([]gocv.Point2f, len(pts))
	for i, p := range pts {
		out[i] = gocv.Point2f{X: p.X, Y: p.Y}
	}
	return out
}
