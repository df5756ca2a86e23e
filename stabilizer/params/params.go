/*
NAME
  params.go

DESCRIPTION
  params.go defines Params, the immutable-by-convention tuning bundle for
  the stabilizer pipeline, admitted only through Validate which clamps
  every field to its documented range.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

// Package params defines StabilizerParams (here: Params), the tuning bundle
// shared by every stage of the stabilizer pipeline, its validation/clamp
// table and the stable preset identifiers consumed by the host's
// preset-loader collaborator.
package params

// EdgeMode selects the edge-handling policy applied to the warped output.
type EdgeMode int

const (
	EdgePadding EdgeMode = iota
	EdgeCrop
	EdgeScale
)

func (m EdgeMode) String() string {
	switch m {
	case EdgePadding:
		return "Padding"
	case EdgeCrop:
		return "Crop"
	case EdgeScale:
		return "Scale"
	default:
		return "Unknown"
	}
}

// Params is the StabilizerParams value bundle of spec.md §3. Every field is
// validated-and-clamped on admission via Validate; callers should treat a
// Params that has been through Validate as immutable.
type Params struct {
	Enabled bool

	// SmoothingRadius is the capacity of the transform history ring buffer.
	SmoothingRadius int

	// MaxCorrection is a percentage in [0,100] bounding how far the
	// estimator's raw transform may be corrected away from identity.
	MaxCorrection float64

	// FeatureCount is the target corner count for the feature detector.
	FeatureCount int

	// QualityLevel is the Shi-Tomasi/Harris response fraction threshold.
	QualityLevel float64

	// MinDistance is the minimum pixel separation between detected
	// features.
	MinDistance float64

	// BlockSize is the corner-detector neighbourhood size; must be odd.
	BlockSize int

	UseHarris bool
	HarrisK   float64

	// FlowWindowSize is the optical-flow search window size; must be odd.
	FlowWindowSize int

	// PyramidLevels is the number of pyramid levels used by the optical
	// flow tracker.
	PyramidLevels int

	// FeatureRefreshThreshold is the tracking success rate below which the
	// core counts a frame as a tracking failure; five such failures in a
	// row force a feature re-detect.
	FeatureRefreshThreshold float64

	EdgeMode EdgeMode

	RansacThresholdMin float64
	RansacThresholdMax float64

	// Motion-classification thresholds, see classifier package.
	StaticThreshold      float64
	SlowThreshold        float64
	FastThreshold        float64
	VarianceThreshold    float64
	HighFrequencyThreshold float64
	ConsistencyThreshold float64

	// Sensitivity scales the thresholds above (multiplies them, divides
	// ConsistencyThreshold); see the classifier package's scaledThresholds.
	Sensitivity float64
}

// Default returns the documented default Params, already valid.
func Default() Params {
	p := Params{
		Enabled:                 true,
		SmoothingRadius:         30,
		MaxCorrection:           80,
		FeatureCount:            200,
		QualityLevel:            0.01,
		MinDistance:             30,
		BlockSize:               3,
		UseHarris:               false,
		HarrisK:                 0.04,
		FlowWindowSize:          21,
		PyramidLevels:           3,
		FeatureRefreshThreshold: 0.3,
		EdgeMode:                EdgePadding,
		RansacThresholdMin:      1,
		RansacThresholdMax:      3,
		StaticThreshold:         0.5,
		SlowThreshold:           3.0,
		FastThreshold:           10.0,
		VarianceThreshold:       2.0,
		HighFrequencyThreshold:  0.6,
		ConsistencyThreshold:    0.7,
		Sensitivity:             1.0,
	}
	p.Validate()
	return p
}

// Validate walks Fields, clamping every field of p to its documented range.
// It never returns an error: out-of-range configuration is a Configuration
// category fault per spec.md §7, which is silently clamped, never raised.
func (p *Params) Validate() {
	for _, f := range Fields {
		f.Clamp(p)
	}
}

// Clamped returns a copy of p with Validate applied.
func Clamped(p Params) Params {
	p.Validate()
	return p
}
