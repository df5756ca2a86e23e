/*
NAME
  variables.go

DESCRIPTION
  variables.go provides a table of Field descriptors, each clamping one
  field of Params to its documented range. Params.Validate walks this table
  exactly once, mirroring the pattern used elsewhere in this codebase for
  admitting externally supplied configuration.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package params

// Field Names, exported so callers can refer to a specific field when
// logging a clamp/defaulting notice.
const (
	NameSmoothingRadius         = "SmoothingRadius"
	NameMaxCorrection           = "MaxCorrection"
	NameFeatureCount            = "FeatureCount"
	NameQualityLevel            = "QualityLevel"
	NameMinDistance             = "MinDistance"
	NameBlockSize               = "BlockSize"
	NameHarrisK                 = "HarrisK"
	NameFlowWindowSize          = "FlowWindowSize"
	NamePyramidLevels           = "PyramidLevels"
	NameFeatureRefreshThreshold = "FeatureRefreshThreshold"
	NameEdgeMode                = "EdgeMode"
	NameRansacThresholdMin      = "RansacThresholdMin"
	NameRansacThresholdMax      = "RansacThresholdMax"
	NameSensitivity             = "Sensitivity"
)

// Documented minimums/maximums from spec.md §3.
const (
	minSmoothingRadius = 1
	maxSmoothingRadius = 200

	minFeatureCount = 50
	maxFeatureCount = 2000

	minQualityLevel = 0.001
	maxQualityLevel = 0.1

	minMinDistance = 1
	maxMinDistance = 200

	minBlockSize = 3
	maxBlockSize = 31

	minFlowWindowSize = 3
	maxFlowWindowSize = 31

	minPyramidLevels = 1
	maxPyramidLevels = 5
)

// Field describes one clampable field of Params.
type Field struct {
	Name  string
	Clamp func(p *Params)
}

// Fields is the declarative clamp table walked by Params.Validate. Keeping
// this as data rather than an imperative chain of ifs means adding a new
// tunable only ever requires one new entry here.
var Fields = []Field{
	{NameSmoothingRadius, func(p *Params) {
		p.SmoothingRadius = clampInt(p.SmoothingRadius, minSmoothingRadius, maxSmoothingRadius)
	}},
	{NameMaxCorrection, func(p *Params) {
		p.MaxCorrection = clampFloat(p.MaxCorrection, 0, 100)
	}},
	{NameFeatureCount, func(p *Params) {
		if p.FeatureCount <= 0 {
			p.FeatureCount = minFeatureCount
			return
		}
		p.FeatureCount = clampInt(p.FeatureCount, minFeatureCount, maxFeatureCount)
	}},
	{NameQualityLevel, func(p *Params) {
		p.QualityLevel = clampFloat(p.QualityLevel, minQualityLevel, maxQualityLevel)
	}},
	{NameMinDistance, func(p *Params) {
		p.MinDistance = clampFloat(p.MinDistance, minMinDistance, maxMinDistance)
	}},
	{NameBlockSize, func(p *Params) {
		p.BlockSize = oddClampInt(p.BlockSize, minBlockSize, maxBlockSize)
	}},
	{NameHarrisK, func(p *Params) {
		p.HarrisK = clampFloat(p.HarrisK, 0, 1)
	}},
	{NameFlowWindowSize, func(p *Params) {
		p.FlowWindowSize = oddClampInt(p.FlowWindowSize, minFlowWindowSize, maxFlowWindowSize)
	}},
	{NamePyramidLevels, func(p *Params) {
		p.PyramidLevels = clampInt(p.PyramidLevels, minPyramidLevels, maxPyramidLevels)
	}},
	{NameFeatureRefreshThreshold, func(p *Params) {
		p.FeatureRefreshThreshold = clampFloat(p.FeatureRefreshThreshold, 0, 1)
	}},
	{NameEdgeMode, func(p *Params) {
		if p.EdgeMode < EdgePadding || p.EdgeMode > EdgeScale {
			p.EdgeMode = EdgePadding
		}
	}},
	{NameRansacThresholdMin, func(p *Params) {
		if p.RansacThresholdMin <= 0 {
			p.RansacThresholdMin = 1
		}
	}},
	{NameRansacThresholdMax, func(p *Params) {
		if p.RansacThresholdMax < p.RansacThresholdMin {
			p.RansacThresholdMax = p.RansacThresholdMin
		}
	}},
	{NameSensitivity, func(p *Params) {
		if p.Sensitivity <= 0 {
			p.Sensitivity = 1.0
		}
	}},
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// oddClampInt clamps v to [lo,hi] then forces it to the nearest odd value
// not exceeding hi, matching the detector/tracker window-size invariant
// ("odd, [lo,hi]") from spec.md §3.
func oddClampInt(v, lo, hi int) int {
	v = clampInt(v, lo, hi)
	if v%2 == 0 {
		if v+1 <= hi {
			v++
		} else {
			v--
		}
	}
	return v
}
