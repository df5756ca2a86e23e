/*
NAME
  presets.go

DESCRIPTION
  presets.go provides the stable preset identifiers consumed by the host's
  preset-loader collaborator (spec.md §6). The table is immutable
  package-level configuration, never mutated at runtime (see Design Notes
  §9, "global mutable state").

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package params

import "fmt"

// Stable preset identifiers.
const (
	PresetGaming    = "gaming"
	PresetStreaming = "streaming"
	PresetRecording = "recording"
)

// presets maps a stable preset identifier to its canonical Params. The map
// is built once at package init and never mutated afterwards.
var presets = map[string]Params{
	PresetGaming: {
		Enabled:                 true,
		SmoothingRadius:         15,
		MaxCorrection:           70,
		FeatureCount:            150,
		QualityLevel:            0.01,
		MinDistance:             25,
		BlockSize:               3,
		FlowWindowSize:          15,
		PyramidLevels:           2,
		FeatureRefreshThreshold: 0.35,
		EdgeMode:                EdgePadding,
		RansacThresholdMin:      1,
		RansacThresholdMax:      3,
		StaticThreshold:         0.5,
		SlowThreshold:           3.0,
		FastThreshold:           10.0,
		VarianceThreshold:       2.0,
		HighFrequencyThreshold:  0.6,
		ConsistencyThreshold:    0.7,
		Sensitivity:             1.2,
	},
	PresetStreaming: {
		Enabled:                 true,
		SmoothingRadius:         30,
		MaxCorrection:           80,
		FeatureCount:            200,
		QualityLevel:            0.01,
		MinDistance:             30,
		BlockSize:               3,
		FlowWindowSize:          21,
		PyramidLevels:           3,
		FeatureRefreshThreshold: 0.3,
		EdgeMode:                EdgeCrop,
		RansacThresholdMin:      1,
		RansacThresholdMax:      3,
		StaticThreshold:         0.5,
		SlowThreshold:           3.0,
		FastThreshold:           10.0,
		VarianceThreshold:       2.0,
		HighFrequencyThreshold:  0.6,
		ConsistencyThreshold:    0.7,
		Sensitivity:             1.0,
	},
	PresetRecording: {
		Enabled:                 true,
		SmoothingRadius:         60,
		MaxCorrection:           90,
		FeatureCount:            400,
		QualityLevel:            0.008,
		MinDistance:             20,
		BlockSize:               5,
		FlowWindowSize:          31,
		PyramidLevels:           4,
		FeatureRefreshThreshold: 0.25,
		EdgeMode:                EdgeScale,
		RansacThresholdMin:      1,
		RansacThresholdMax:      4,
		StaticThreshold:         0.4,
		SlowThreshold:           2.5,
		FastThreshold:           8.0,
		VarianceThreshold:       1.5,
		HighFrequencyThreshold:  0.55,
		ConsistencyThreshold:    0.75,
		Sensitivity:             0.85,
	},
}

func init() {
	for name, p := range presets {
		p.Validate()
		presets[name] = p
	}
}

// Preset resolves one of the stable preset identifiers ("gaming",
// "streaming", "recording") to its canonical, validated Params.
func Preset(name string) (Params, error) {
	p, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("params: unknown preset %q", name)
	}
	return p, nil
}
