//go:build withcv
// +build withcv

/*
NAME
  shitomasi.go

DESCRIPTION
  shitomasi.go implements Detector using GoCV's Shi-Tomasi corner response
  (goodFeaturesToTrack) with an optional Harris fallback, matching the
  "{detect}" capability set of Design Notes §9 so an alternative vectorized
  implementation can be substituted without touching the stabilizer core.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package feature

import (
	"fmt"
	"sort"

	"gocv.io/x/gocv"
)

// ShiTomasiDetector is the default Detector, backed by OpenCV's
// goodFeaturesToTrack (Shi-Tomasi) with an optional Harris response path.
// The zero value is ready to use.
type ShiTomasiDetector struct{}

// NewShiTomasiDetector returns a ready-to-use ShiTomasiDetector.
func NewShiTomasiDetector() *ShiTomasiDetector { return &ShiTomasiDetector{} }

// Detect implements Detector. Per spec.md §4.C, a non-nil error is never
// surfaced to the caller as a hard failure: any internal OpenCV fault is
// converted to an empty result tagged with the "DETECT" error category, and
// the core proceeds as if no features were found.
func (d *ShiTomasiDetector) Detect(gray []byte, width, height, stride int, cfg Config) (set Set, err error) {
	defer func() {
		if r := recover(); r != nil {
			set, err = nil, fmt.Errorf("feature: DETECT: recovered panic: %v", r)
		}
	}()

	img, closeImg, convErr := matFromGray(gray, width, height, stride)
	if convErr != nil {
		return nil, fmt.Errorf("feature: DETECT: %w", convErr)
	}
	defer closeImg()

	corners := gocv.NewMat()
	defer corners.Close()

	if cfg.UseHarris {
		return detectHarris(img, cfg)
	}

	// Mask is the whole image: no ROI, per spec.md §4.C implementation
	// notes.
	gocv.GoodFeaturesToTrack(img, &corners, cfg.TargetCount, cfg.Quality, cfg.MinDistance)

	out := make(Set, 0, cfg.TargetCount)
	for i := 0; i < corners.Rows(); i++ {
		v := corners.GetVecfAt(i, 0)
		p := Point{X: v[0], Y: v[1]}
		if p.IsFinite() {
			out = append(out, p)
		}
	}
	return out, nil
}

// detectHarris computes a Harris corner response map and performs manual
// quality thresholding plus a greedy min-distance suppression pass, since
// GoCV's goodFeaturesToTrack binding does not expose useHarrisDetector/k.
func detectHarris(img gocv.Mat, cfg Config) (Set, error) {
	resp := gocv.NewMat()
	defer resp.Close()

	blockSize := cfg.BlockSize
	if blockSize < 2 {
		blockSize = 3
	}
	gocv.CornerHarris(img, &resp, blockSize, 3, cfg.HarrisK)

	_, maxVal, _, _ := gocv.MinMaxLoc(resp)
	if maxVal <= 0 {
		return nil, nil
	}
	threshold := cfg.Quality * float64(maxVal)

	type candidate struct {
		p     Point
		score float64
	}
	var candidates []candidate
	rows, cols := resp.Rows(), resp.Cols()
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			v := float64(resp.GetFloatAt(y, x))
			if v > threshold {
				candidates = append(candidates, candidate{Point{X: float32(x), Y: float32(y)}, v})
			}
		}
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].score > candidates[j].score })

	minDistSq := cfg.MinDistance * cfg.MinDistance
	out := make(Set, 0, cfg.TargetCount)
	for _, c := range candidates {
		if len(out) >= cfg.TargetCount {
			break
		}
		tooClose := false
		for _, kept := range out {
			dx := float64(kept.X - c.p.X)
			dy := float64(kept.Y - c.p.Y)
			if dx*dx+dy*dy < minDistSq {
				tooClose = true
				break
			}
		}
		if !tooClose {
			out = append(out, c.p)
		}
	}
	return out, nil
}

// matFromGray wraps a tightly packed 8-bit grayscale buffer as a gocv.Mat
// without copying, returning a closer that releases the Mat's C-side
// handle (but not the underlying Go slice, which the caller still owns).
func matFromGray(gray []byte, width, height, stride int) (gocv.Mat, func(), error) {
	if stride != width {
		// Re-pack into a contiguous buffer; NewMatFromBytes requires a
		// tightly packed row layout.
		packed := make([]byte, width*height)
		for y := 0; y < height; y++ {
			copy(packed[y*width:(y+1)*width], gray[y*stride:y*stride+width])
		}
		gray = packed
	}
	m, err := gocv.NewMatFromBytes(height, width, gocv.MatTypeCV8UC1, gray)
	if err != nil {
		return gocv.Mat{}, func() {}, err
	}
	return m, func() { m.Close() }, nil
}
