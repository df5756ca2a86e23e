/*
NAME
  frameview.go

DESCRIPTION
  frameview.go provides View, a borrowed read/write view over a planar
  video frame, and the validation and grayscale-conversion logic the
  stabilizer core uses before running any tracking stage on it. The core
  never allocates frames; it only ever borrows the caller's planes.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package frameview provides the borrowed planar-frame view the stabilizer
// core consumes and writes back into in place.
package frameview

import (
	"errors"
	"fmt"
)

// Format identifies the pixel layout of a frame. Values are stable wire
// constants consumed by the host's frame bridge collaborator (spec.md §6).
type Format int

// Supported format codes.
const (
	I420 Format = 1
	NV12 Format = 2
	BGRA Format = 7
	BGRX Format = 8
	BGR3 Format = 14
	Y800 Format = 9
)

func (f Format) String() string {
	switch f {
	case I420:
		return "I420"
	case NV12:
		return "NV12"
	case BGRA:
		return "BGRA"
	case BGRX:
		return "BGRX"
	case BGR3:
		return "BGR3"
	case Y800:
		return "Y800"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// MaxDimension is the largest width or height accepted in either axis.
const MaxDimension = 16384

// MinDimension is the smallest width or height the stabilizer core will
// initialize or process at, per spec.md §8.
const MinDimension = 32

// numPlanes is the number of plane slots a View carries, per spec.md §6
// ("per-plane pointer+stride array of 8 planes").
const numPlanes = 8

// Plane is one borrowed plane of pixel data.
type Plane struct {
	// Data is the borrowed pixel buffer; nil for unused plane slots.
	Data []byte
	// Stride is the number of bytes between the start of consecutive rows.
	Stride int
}

// View is a read/write, borrowed view over a planar video frame.
type View struct {
	Width, Height int
	Format        Format
	Planes        [numPlanes]Plane

	// TimestampNanos is the frame's presentation timestamp in nanoseconds,
	// opaque to the stabilizer core; it is only ever copied through.
	TimestampNanos int64
}

var (
	ErrZeroDimensions      = errors.New("frameview: zero width or height")
	ErrDimensionTooLarge   = errors.New("frameview: dimension exceeds maximum")
	ErrDimensionTooSmall   = errors.New("frameview: dimension below minimum")
	ErrUnsupportedFormat   = errors.New("frameview: unsupported format")
	ErrNilPlane            = errors.New("frameview: required plane has nil data")
	ErrStrideTooSmall      = errors.New("frameview: stride smaller than width")
	ErrDimensionOverflow   = errors.New("frameview: width*height*4 overflows")
)

// planeCount reports how many plane slots f actually uses.
func planeCount(f Format) (int, error) {
	switch f {
	case I420:
		return 3, nil
	case NV12:
		return 2, nil
	case BGRA, BGRX:
		return 1, nil
	case BGR3:
		return 1, nil
	case Y800:
		return 1, nil
	default:
		return 0, ErrUnsupportedFormat
	}
}

// bytesPerPixel returns the bytes-per-pixel of the primary plane for
// formats where that is meaningful (single-plane packed formats).
func bytesPerPixel(f Format) int {
	switch f {
	case BGRA, BGRX:
		return 4
	case BGR3:
		return 3
	case Y800:
		return 1
	default:
		return 1
	}
}

// Validate rejects: a null data pointer on any plane the format requires,
// zero dimensions, dimensions outside [MinDimension, MaxDimension],
// integer-overflow-inducing width*height*4, unsupported formats, and
// strides smaller than width, per spec.md §4.B.
func (v *View) Validate() error {
	if v.Width == 0 || v.Height == 0 {
		return ErrZeroDimensions
	}
	if v.Width > MaxDimension || v.Height > MaxDimension {
		return ErrDimensionTooLarge
	}
	if v.Width < MinDimension || v.Height < MinDimension {
		return ErrDimensionTooSmall
	}

	// Guard against width*height*4 overflowing a 64-bit integer;
	// this mirrors the overflow guard spec.md §4.B calls out explicitly.
	const maxIntDiv4 = (1<<63 - 1) / 4
	if v.Width > 0 && v.Height > 0 {
		product := int64(v.Width) * int64(v.Height)
		if product > maxIntDiv4 || product*4 < 0 {
			return ErrDimensionOverflow
		}
	}

	n, err := planeCount(v.Format)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		p := v.Planes[i]
		if p.Data == nil {
			return fmt.Errorf("%w: plane %d", ErrNilPlane, i)
		}
		minStride := v.Width
		if v.Format == BGRA || v.Format == BGRX {
			minStride = v.Width * 4
		} else if v.Format == BGR3 {
			minStride = v.Width * 3
		} else if v.Format == NV12 && i == 1 {
			minStride = v.Width // interleaved UV plane, one byte per component column pair
		}
		if p.Stride < minStride {
			return fmt.Errorf("%w: plane %d stride %d < %d", ErrStrideTooSmall, i, p.Stride, minStride)
		}
	}
	return nil
}

// GrayPlane is an owned, tightly packed 8-bit grayscale buffer.
type GrayPlane struct {
	Data          []byte
	Width, Height int
}

// Stride of a GrayPlane is always equal to Width: it is tightly packed
// because the stabilizer core owns this buffer and controls its layout,
// unlike the borrowed input planes.
func (g *GrayPlane) Stride() int { return g.Width }

// ensureSize grows g.Data in place if needed, to avoid reallocating every
// frame once the stream has stabilized on one resolution.
func (g *GrayPlane) ensureSize(w, h int) {
	need := w * h
	if cap(g.Data) < need {
		g.Data = make([]byte, need)
	} else {
		g.Data = g.Data[:need]
	}
	g.Width, g.Height = w, h
}

// ToGray converts v into dst, reusing dst's backing array when possible.
// BGRA/BGR3 use the standard luma weights; NV12/I420 reuse the Y plane
// as-is; Y800 is copied through unchanged.
func (v *View) ToGray(dst *GrayPlane) error {
	dst.ensureSize(v.Width, v.Height)
	switch v.Format {
	case Y800:
		copyPlane(dst.Data, v.Width, v.Height, v.Planes[0].Data, v.Planes[0].Stride)
	case I420, NV12:
		copyPlane(dst.Data, v.Width, v.Height, v.Planes[0].Data, v.Planes[0].Stride)
	case BGRA, BGRX:
		lumaFromPacked(dst.Data, v.Width, v.Height, v.Planes[0].Data, v.Planes[0].Stride, 4)
	case BGR3:
		lumaFromPacked(dst.Data, v.Width, v.Height, v.Planes[0].Data, v.Planes[0].Stride, 3)
	default:
		return ErrUnsupportedFormat
	}
	return nil
}

func copyPlane(dst []byte, w, h int, src []byte, srcStride int) {
	for y := 0; y < h; y++ {
		copy(dst[y*w:(y+1)*w], src[y*srcStride:y*srcStride+w])
	}
}

// lumaFromPacked computes standard-weighted luma (Rec. 601-style integer
// weights) from a packed BGR/BGRA/BGRX plane.
func lumaFromPacked(dst []byte, w, h int, src []byte, srcStride, bpp int) {
	for y := 0; y < h; y++ {
		row := src[y*srcStride:]
		out := dst[y*w : (y+1)*w]
		for x := 0; x < w; x++ {
			o := x * bpp
			b, g, r := row[o], row[o+1], row[o+2]
			out[x] = byte((uint32(r)*299 + uint32(g)*587 + uint32(b)*114) / 1000)
		}
	}
}

// StructurallyEqual reports whether a and b have identical dimensions,
// format and the same underlying plane pointers (compared by slice header
// identity of the first byte and length), matching the invariant of
// spec.md §8: a disabled pipeline's output must be structurally identical
// to its input.
func StructurallyEqual(a, b *View) bool {
	if a.Width != b.Width || a.Height != b.Height || a.Format != b.Format {
		return false
	}
	for i := range a.Planes {
		if len(a.Planes[i].Data) != len(b.Planes[i].Data) {
			return false
		}
		if len(a.Planes[i].Data) > 0 && &a.Planes[i].Data[0] != &b.Planes[i].Data[0] {
			return false
		}
		if a.Planes[i].Stride != b.Planes[i].Stride {
			return false
		}
	}
	return true
}
