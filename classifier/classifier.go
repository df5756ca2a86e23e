/*
NAME
  classifier.go

DESCRIPTION
  classifier.go implements the statistical motion classifier of spec.md
  §4.H: derived scalars over a recent transform window feeding a
  top-down decision tree that labels the window Static, SlowMotion,
  FastMotion, CameraShake, or PanZoom.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package classifier computes motion statistics over a sliding window of
// transforms and derives the MotionLabel the adaptive controller reacts
// to (spec.md §4.H).
package classifier

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
	"github.com/azumag/obs-stabilizer-sub000/transform"
)

// Label is the tagged enum of spec.md §2's MotionLabel, persistent across
// frames; transitions trigger the adaptive controller.
type Label int

const (
	Static Label = iota
	SlowMotion
	FastMotion
	CameraShake
	PanZoom
)

func (l Label) String() string {
	switch l {
	case Static:
		return "Static"
	case SlowMotion:
		return "SlowMotion"
	case FastMotion:
		return "FastMotion"
	case CameraShake:
		return "CameraShake"
	case PanZoom:
		return "PanZoom"
	default:
		return "Unknown"
	}
}

// Stats holds the derived scalars spec.md §4.H defines over a transform
// window, plus a spectral cross-check diagnostic not itself consulted by
// the decision tree.
type Stats struct {
	MeanMagnitude       float64
	VarianceMagnitude   float64
	DirectionalVariance float64
	ConsistencyScore    float64
	HighFrequencyRatio  float64

	// SpectralShakeRatio is a diagnostic only (see spectral.go); Classify
	// does not consult it.
	SpectralShakeRatio float64
}

// magnitude is the per-frame scalar spec.md §4.H's mean_magnitude and
// variance_magnitude are computed over.
func magnitude(t transform.Transform) float64 {
	tx, ty := t.TX, t.TY
	return math.Hypot(tx, ty) + math.Abs(t.A-1)*100 + math.Abs(t.D-1)*100 + math.Abs(math.Atan2(t.B, t.A))*200
}

// Compute derives Stats over window (oldest first). window must hold at
// least 2 entries for the second-difference terms to be defined; a
// shorter window yields a zero-value Stats.
func Compute(window []transform.Transform) Stats {
	n := len(window)
	if n < 2 {
		return Stats{}
	}

	mags := make([]float64, n)
	for i, t := range window {
		mags[i] = magnitude(t)
	}

	meanMag := stat.Mean(mags, nil)
	varMag := stat.Variance(mags, nil)

	// directional_variance: stddev of (tx,ty) vectors around their mean.
	var meanTX, meanTY float64
	for _, t := range window {
		meanTX += t.TX
		meanTY += t.TY
	}
	meanTX /= float64(n)
	meanTY /= float64(n)
	var devSumSq float64
	for _, t := range window {
		dx, dy := t.TX-meanTX, t.TY-meanTY
		devSumSq += dx*dx + dy*dy
	}
	dirVariance := math.Sqrt(devSumSq / float64(n))

	// consistency_score: mean cosine of consecutive translation vectors
	// with |v| > 0.001.
	var cosSum float64
	var cosCount int
	for i := 1; i < n; i++ {
		ax, ay := window[i-1].TX, window[i-1].TY
		bx, by := window[i].TX, window[i].TY
		amag, bmag := math.Hypot(ax, ay), math.Hypot(bx, by)
		if amag > 0.001 && bmag > 0.001 {
			cosSum += (ax*bx + ay*by) / (amag * bmag)
			cosCount++
		}
	}
	consistency := 0.0
	if cosCount > 0 {
		consistency = cosSum / float64(cosCount)
	}

	// high_frequency_ratio: second-difference energy ratio.
	var high, low float64
	for i := 2; i < n; i++ {
		d2 := mags[i] - 2*mags[i-1] + mags[i-2]
		high += math.Abs(d2)
	}
	for i := 4; i < n; i++ {
		d2lag2 := mags[i] - 2*mags[i-2] + mags[i-4]
		low += 0.5 * math.Abs(d2lag2)
	}
	highFreqRatio := 0.0
	if high+low > 0 {
		highFreqRatio = high / (high + low)
	}

	return Stats{
		MeanMagnitude:       meanMag,
		VarianceMagnitude:   varMag,
		DirectionalVariance: dirVariance,
		ConsistencyScore:    consistency,
		HighFrequencyRatio:  highFreqRatio,
		SpectralShakeRatio:  spectralShakeRatio(mags),
	}
}

// thresholds is the sensitivity-scaled set of cutoffs the decision tree
// consults, derived from Params.
type thresholds struct {
	static, slow, fast     float64
	variance, highFreq     float64
	consistency            float64
}

func scaledThresholds(p params.Params) thresholds {
	s := p.Sensitivity
	if s <= 0 {
		s = 1
	}
	return thresholds{
		static:      p.StaticThreshold * s,
		slow:        p.SlowThreshold * s,
		fast:        p.FastThreshold * s,
		variance:    p.VarianceThreshold * s,
		highFreq:    clamp01(p.HighFrequencyThreshold * s),
		consistency: clamp01(p.ConsistencyThreshold / s),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// directionalVarianceCeiling is the fixed PanZoom band cutoff spec.md §4.H
// names directly (not sensitivity-scaled).
const directionalVarianceCeiling = 2.0

// Classify runs the spec.md §4.H decision tree over window's derived
// Stats against p's (sensitivity-scaled) thresholds, evaluated top-down,
// first match wins. Step 3 intentionally preempts SlowMotion for the
// [slow_t, fast_t) band shared with FastMotion: the canonical band labels
// were defined empirically and this ordering must be preserved.
func Classify(window []transform.Transform, p params.Params) (Label, Stats) {
	st := Compute(window)
	th := scaledThresholds(p)

	switch {
	case st.MeanMagnitude < th.static && st.VarianceMagnitude < th.variance:
		return Static, st
	case st.HighFrequencyRatio > th.highFreq:
		return CameraShake, st
	case st.MeanMagnitude >= th.slow && st.MeanMagnitude < th.fast:
		return FastMotion, st
	case st.MeanMagnitude >= th.static && st.MeanMagnitude < th.slow &&
		st.ConsistencyScore > th.consistency && st.DirectionalVariance < directionalVarianceCeiling:
		return PanZoom, st
	default:
		return SlowMotion, st
	}
}
