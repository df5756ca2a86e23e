/*
NAME
  transform.go

DESCRIPTION
  transform.go provides Transform, a 2x3 affine matrix value type used to
  describe inter-frame camera motion, along with composition, decomposition
  and interpolation helpers.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package transform provides the 2x3 affine Transform value type shared by
// the feature tracking, smoothing and warping stages of the stabilizer.
package transform

import "math"

// reasonableTranslation and reasonableScale bound what spec.md calls a
// "reasonable" transform; they are not hard physical limits, just a sanity
// envelope used to reject pathological estimator output.
const (
	reasonableTranslation = 200.0
	reasonableScaleMin    = 0.5
	reasonableScaleMax    = 2.0

	// identityTolerance is the epsilon used by IsIdentity.
	identityTolerance = 1e-9
)

// Transform is a 2x3 affine matrix:
//
//	[a b tx]
//	[c d ty]
//
// with an implicit third row [0 0 1]. It is a plain value type, always
// copied by value; there is no separate identity type.
type Transform struct {
	A, B, TX float64
	C, D, TY float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{A: 1, B: 0, TX: 0, C: 0, D: 1, TY: 0}
}

// Compose returns t followed by other, i.e. the matrix product other*t
// (applying t first, then other), consistent with composing inter-frame
// transforms in chronological order.
func (t Transform) Compose(other Transform) Transform {
	return Transform{
		A:  other.A*t.A + other.B*t.C,
		B:  other.A*t.B + other.B*t.D,
		TX: other.A*t.TX + other.B*t.TY + other.TX,
		C:  other.C*t.A + other.D*t.C,
		D:  other.C*t.B + other.D*t.D,
		TY: other.C*t.TX + other.D*t.TY + other.TY,
	}
}

// TranslateX returns the transform's x translation component.
func (t Transform) TranslateX() float64 { return t.TX }

// TranslateY returns the transform's y translation component.
func (t Transform) TranslateY() float64 { return t.TY }

// Scale returns the uniform scale implied by the linear part of the
// transform, approximated as the magnitude of the first column.
func (t Transform) Scale() float64 {
	return math.Hypot(t.A, t.C)
}

// Rotation returns the rotation angle, in radians, implied by the linear
// part of the transform.
func (t Transform) Rotation() float64 {
	return math.Atan2(t.C, t.A)
}

// IsFinite reports whether every entry of t is finite.
func (t Transform) IsFinite() bool {
	for _, v := range [...]float64{t.A, t.B, t.TX, t.C, t.D, t.TY} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// IsReasonable reports whether t satisfies the bounds documented in
// spec.md §3: all entries finite, translations within ±200px and uniform
// scale within [0.5, 2.0].
func (t Transform) IsReasonable() bool {
	if !t.IsFinite() {
		return false
	}
	if math.Abs(t.TX) > reasonableTranslation || math.Abs(t.TY) > reasonableTranslation {
		return false
	}
	s := t.Scale()
	return s >= reasonableScaleMin && s <= reasonableScaleMax
}

// IsIdentity reports whether every entry of t is within identityTolerance
// of the identity transform. This is the only equality test ever performed
// on a Transform; logical equality of two arbitrary transforms is never
// tested.
func (t Transform) IsIdentity() bool {
	id := Identity()
	return math.Abs(t.A-id.A) < identityTolerance &&
		math.Abs(t.B-id.B) < identityTolerance &&
		math.Abs(t.TX-id.TX) < identityTolerance &&
		math.Abs(t.C-id.C) < identityTolerance &&
		math.Abs(t.D-id.D) < identityTolerance &&
		math.Abs(t.TY-id.TY) < identityTolerance
}

// Lerp returns the element-wise linear interpolation between t and other at
// parameter f (0 returns t, 1 returns other). No polar decomposition is
// performed: the smoothing window is short enough that element-wise lerp
// is an acceptable approximation and avoids trigonometric cost on the hot
// path.
func (t Transform) Lerp(other Transform, f float64) Transform {
	return Transform{
		A:  t.A + (other.A-t.A)*f,
		B:  t.B + (other.B-t.B)*f,
		TX: t.TX + (other.TX-t.TX)*f,
		C:  t.C + (other.C-t.C)*f,
		D:  t.D + (other.D-t.D)*f,
		TY: t.TY + (other.TY-t.TY)*f,
	}
}

// Clamp returns t with its entries clamped per the post-estimate policy of
// spec.md §4.E: given m = maxCorrectionPercent/100, a and d are clamped to
// [1-m, 1+m] and b, c, tx, ty are clamped to [-m, m].
func (t Transform) Clamp(maxCorrectionPercent float64) Transform {
	m := maxCorrectionPercent / 100
	if m < 0 {
		m = 0
	}
	if m > 1 {
		m = 1
	}
	return Transform{
		A:  clamp(t.A, 1-m, 1+m),
		B:  clamp(t.B, -m, m),
		TX: clamp(t.TX, -m, m),
		C:  clamp(t.C, -m, m),
		D:  clamp(t.D, 1-m, 1+m),
		TY: clamp(t.TY, -m, m),
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
