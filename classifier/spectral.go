/*
NAME
  spectral.go

DESCRIPTION
  spectral.go adds a spectral cross-check diagnostic to the motion
  classifier's Stats, computing the fraction of the per-frame magnitude
  series' spectral energy that falls above the window's Nyquist midpoint.
  This does not feed the decision tree in classifier.go; it is exposed
  only as a diagnostic for callers that want a second opinion on a
  CameraShake verdict.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package classifier

import (
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// spectralShakeRatio returns the fraction of mags' FFT energy carried by
// the upper half of its spectrum. A shaking camera's magnitude series
// oscillates frame-to-frame, concentrating energy at high frequency; a
// pan or static shot concentrates it near DC.
func spectralShakeRatio(mags []float64) float64 {
	n := len(mags)
	if n < 4 {
		return 0
	}

	spectrum := fft.FFTReal(mags)

	var total, high float64
	half := n / 2
	for i, c := range spectrum {
		// Real signal: only the first half+1 bins are independent.
		if i > half {
			break
		}
		mag := math.Hypot(real(c), imag(c))
		energy := mag * mag
		total += energy
		if i > half/2 {
			high += energy
		}
	}
	if total == 0 {
		return 0
	}
	return high / total
}
