/*
NAME
  warp.go

DESCRIPTION
  warp.go defines the Warper interface applying a Transform to a grayscale
  or packed-color plane into a separate destination, the shared primitive used by both the
  stabilizer core (to re-project the current frame toward the smoothed
  trajectory) and tested independently of OpenCV via a fake.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package warp applies an affine Transform to a frame using bilinear
// interpolation with a constant zero border, per spec.md §4.G step 10.
package warp

import "github.com/azumag/obs-stabilizer-sub000/transform"

// Warper applies t to src (width x height, given stride), writing the
// result into dst of the same dimensions; src is left unchanged.
type Warper interface {
	Warp(src []byte, width, height, stride int, channels int, t transform.Transform, dst []byte, dstStride int) error
}
