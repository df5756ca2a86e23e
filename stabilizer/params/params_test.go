package params

import "testing"

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	checkBounds(t, p)
}

func TestValidateClampsOutOfRange(t *testing.T) {
	p := Params{
		SmoothingRadius:         1000,
		MaxCorrection:           -5,
		FeatureCount:            0,
		QualityLevel:            10,
		MinDistance:             -1,
		BlockSize:               4, // even, should become odd
		FlowWindowSize:          40,
		PyramidLevels:           -1,
		FeatureRefreshThreshold: 2,
		EdgeMode:                EdgeMode(99),
		RansacThresholdMin:      -1,
		RansacThresholdMax:      -5,
		Sensitivity:             0,
	}
	p.Validate()
	checkBounds(t, p)

	if p.FeatureCount != minFeatureCount {
		t.Errorf("FeatureCount = %d, want documented minimum %d", p.FeatureCount, minFeatureCount)
	}
	if p.BlockSize%2 == 0 {
		t.Errorf("BlockSize = %d, want odd", p.BlockSize)
	}
	if p.EdgeMode != EdgePadding {
		t.Errorf("EdgeMode = %v, want EdgePadding default", p.EdgeMode)
	}
	if p.Sensitivity != 1.0 {
		t.Errorf("Sensitivity = %v, want default 1.0", p.Sensitivity)
	}
}

func checkBounds(t *testing.T, p Params) {
	t.Helper()
	if p.SmoothingRadius < minSmoothingRadius || p.SmoothingRadius > maxSmoothingRadius {
		t.Errorf("SmoothingRadius out of range: %d", p.SmoothingRadius)
	}
	if p.MaxCorrection < 0 || p.MaxCorrection > 100 {
		t.Errorf("MaxCorrection out of range: %v", p.MaxCorrection)
	}
	if p.FeatureCount < minFeatureCount || p.FeatureCount > maxFeatureCount {
		t.Errorf("FeatureCount out of range: %d", p.FeatureCount)
	}
	if p.BlockSize < minBlockSize || p.BlockSize > maxBlockSize || p.BlockSize%2 == 0 {
		t.Errorf("BlockSize invalid: %d", p.BlockSize)
	}
	if p.FlowWindowSize < minFlowWindowSize || p.FlowWindowSize > maxFlowWindowSize || p.FlowWindowSize%2 == 0 {
		t.Errorf("FlowWindowSize invalid: %d", p.FlowWindowSize)
	}
	if p.PyramidLevels < minPyramidLevels || p.PyramidLevels > maxPyramidLevels {
		t.Errorf("PyramidLevels out of range: %d", p.PyramidLevels)
	}
}

func TestPresets(t *testing.T) {
	for _, name := range []string{PresetGaming, PresetStreaming, PresetRecording} {
		p, err := Preset(name)
		if err != nil {
			t.Fatalf("Preset(%q) returned error: %v", name, err)
		}
		checkBounds(t, p)
	}
}

func TestPresetUnknown(t *testing.T) {
	if _, err := Preset("cinematic"); err == nil {
		t.Fatal("Preset(\"cinematic\") expected an error, got nil")
	}
}
