//go:build withcv
// +build withcv

/*
NAME
  warp_cv.go

DESCRIPTION
  warp_cv.go implements Warper using GoCV's warpAffine, bilinear
  interpolation with a constant zero border.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package warp

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/azumag/obs-stabilizer-sub000/transform"
)

// CVWarper is the default Warper, backed by OpenCV's warpAffine. The zero
// value is ready to use.
type CVWarper struct{}

// NewCVWarper returns a ready-to-use CVWarper.
func NewCVWarper() *CVWarper { return &CVWarper{} }

func (w *CVWarper) Warp(src []byte, width, height, stride int, channels int, t transform.Transform, dst []byte, dstStride int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("warp: recovered panic: %v", r)
		}
	}()

	matType, err := matTypeFor(channels)
	if err != nil {
		return err
	}

	packedSrc := src
	if stride != width*channels {
		packedSrc = repack(src, width, height, stride, channels)
	}

	srcMat, err := gocv.NewMatFromBytes(height, width, matType, packedSrc)
	if err != nil {
		return fmt.Errorf("warp: %w", err)
	}
	defer srcMat.Close()

	rot, err := gocv.NewMatFromBytes(2, 3, gocv.MatTypeCV64F, transformToBytes(t))
	if err != nil {
		return fmt.Errorf("warp: %w", err)
	}
	defer rot.Close()

	dstMat := gocv.NewMat()
	defer dstMat.Close()

	gocv.WarpAffineWithParams(srcMat, &dstMat, rot, image.Pt(width, height),
		gocv.InterpolationLinear, gocv.BorderConstant, color.RGBA{0, 0, 0, 0})

	packedDst := dstMat.ToBytes()
	if dstStride == width*channels {
		copy(dst, packedDst)
		return nil
	}
	for y := 0; y < height; y++ {
		copy(dst[y*dstStride:y*dstStride+width*channels], packedDst[y*width*channels:(y+1)*width*channels])
	}
	return nil
}

func matTypeFor(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	default:
		return 0, fmt.Errorf("warp: unsupported channel count %d", channels)
	}
}

func repack(src []byte, width, height, stride, channels int) []byte {
	rowBytes := width * channels
	out := make([]byte, rowBytes*height)
	for y := 0; y < height; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], src[y*stride:y*stride+rowBytes])
	}
	return out
}

// transformToBytes packs t into row-major float64 bytes for the 2x3
// rotation matrix warpAffine expects.
func transformToBytes(t transform.Transform) []byte {
	vals := [6]float64{t.A, t.B, t.TX, t.C, t.D, t.TY}
	buf := make([]byte, 6*8)
	for i, v := range vals {
		put64(buf[i*8:], v)
	}
	return buf
}

func put64(b []byte, v float64) {
	bits := math.Float64bits(v)
	for i := 0; i < 8; i++ {
		b[i] = byte(bits >> (8 * uint(i)))
	}
}
