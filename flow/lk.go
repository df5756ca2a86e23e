//go:build withcv
// +build withcv

/*
NAME
  lk.go

DESCRIPTION
  lk.go implements Tracker using GoCV's pyramidal Lucas-Kanade optical flow
  binding (calcOpticalFlowPyrLK).

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package flow

import (
	"fmt"
	"math"

	"gocv.io/x/gocv"

	"github.com/azumag/obs-stabilizer-sub000/feature"
)

// LKTracker is the default Tracker, backed by OpenCV's pyramidal
// Lucas-Kanade implementation. The zero value is ready to use.
//
// NB: GoCV's CalcOpticalFlowPyrLK binding does not expose window size,
// pyramid level count or the iteration/epsilon termination criteria that
// cv::calcOpticalFlowPyrLK accepts in C++ — those are fixed at OpenCV's
// own compiled-in defaults on this binding. Config.WindowSize,
// PyramidLevels, MaxIters and Epsilon are accepted but do not reach the
// underlying call, and they are not recorded on Result.
type LKTracker struct{}

// NewLKTracker returns a ready-to-use LKTracker.
func NewLKTracker() *LKTracker { return &LKTracker{} }

func (t *LKTracker) Track(prevGray, currGray []byte, width, height, prevStride, currStride int, prevPts feature.Set, cfg Config) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res, err = Result{InputSize: len(prevPts)}, fmt.Errorf("flow: TRACK: recovered panic: %v", r)
		}
	}()

	res.InputSize = len(prevPts)
	if len(prevPts) == 0 {
		return res, nil
	}

	prevImg, closePrev, e := matFromGray(prevGray, width, height, prevStride)
	if e != nil {
		return res, fmt.Errorf("flow: TRACK: %w", e)
	}
	defer closePrev()

	currImg, closeCurr, e := matFromGray(currGray, width, height, currStride)
	if e != nil {
		return res, fmt.Errorf("flow: TRACK: %w", e)
	}
	defer closeCurr()

	prevMat, e := pointsToMat(prevPts)
	if e != nil {
		return res, fmt.Errorf("flow: TRACK: %w", e)
	}
	defer prevMat.Close()

	currMat := gocv.NewMat()
	defer currMat.Close()
	status := gocv.NewMat()
	defer status.Close()
	errMat := gocv.NewMat()
	defer errMat.Close()

	gocv.CalcOpticalFlowPyrLK(prevImg, currImg, prevMat, currMat, &status, &errMat)

	prevOut := make(feature.Set, 0, len(prevPts))
	currOut := make(feature.Set, 0, len(prevPts))
	for i := 0; i < status.Rows(); i++ {
		if status.GetUCharAt(i, 0) == 0 {
			continue
		}
		v := currMat.GetVecfAt(i, 0)
		p := feature.Point{X: v[0], Y: v[1]}
		if !p.IsFinite() {
			continue
		}
		prevOut = append(prevOut, prevPts[i])
		currOut = append(currOut, p)
	}
	res.Prev, res.Curr = prevOut, currOut
	return res, nil
}

// pointsToMat packs pts into an Nx1 2-channel float32 Mat, the layout
// calcOpticalFlowPyrLK expects for its point-set arguments.
func pointsToMat(pts feature.Set) (gocv.Mat, error) {
	data := make([]float32, len(pts)*2)
	for i, p := range pts {
		data[i*2] = p.X
		data[i*2+1] = p.Y
	}
	return gocv.NewMatFromBytes(len(pts), 1, gocv.MatTypeCV32FC2, float32SliceToBytes(data))
}

func float32SliceToBytes(data []float32) []byte {
	buf := make([]byte, len(data)*4)
	for i, v := range data {
		bits := math.Float32bits(v)
		buf[i*4] = byte(bits)
		buf[i*4+1] = byte(bits >> 8)
		buf[i*4+2] = byte(bits >> 16)
		buf[i*4+3] = byte(bits >> 24)
	}
	return buf
}

func matFromGray(gray []byte, width, height, stride int) (gocv.Mat, func(), error) {
	if stride != width {
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
