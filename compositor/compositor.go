/*
NAME
  compositor.go

DESCRIPTION
  compositor.go defines the Compositor interface for the edge-handling
  stage (spec.md §4.J): crop, pad, or rescale policy applied to the warped
  output.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package compositor implements the Padding/Crop/Scale edge-handling
// policies of spec.md §4.J.
package compositor

import "github.com/azumag/obs-stabilizer-sub000/stabilizer/params"

// Compositor applies one edge mode to a warped packed-color plane and
// returns the resulting plane bytes: the input slice itself for Padding
// and degenerate cases, a newly allocated buffer otherwise. All three
// modes must tolerate fully black warped frames (spec.md §4.J, §9(c)).
type Compositor interface {
	Composite(mode params.EdgeMode, frame []byte, width, height, stride, channels int) ([]byte, error)
}
