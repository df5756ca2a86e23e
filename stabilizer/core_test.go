package stabilizer

import (
	"testing"

	"github.com/azumag/obs-stabilizer-sub000/classifier"
	"github.com/azumag/obs-stabilizer-sub000/frameview"
	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
)

func bgraView(width, height int, fill byte) *frameview.View {
	stride := width * 4
	data := make([]byte, stride*height)
	for i := range data {
		data[i] = fill
	}
	v := &frameview.View{Width: width, Height: height, Format: frameview.BGRA}
	v.Planes[0] = frameview.Plane{Data: data, Stride: stride}
	return v
}

func newTestCore(featureCount int) *Core {
	c := NewCore(fakeDeps(featureCount))
	p := params.Default()
	if err := c.Initialize(64, 64, p); err != nil {
		panic(err)
	}
	return c
}

func TestInitializeRejectsBadDimensions(t *testing.T) {
	c := NewCore(fakeDeps(10))
	if err := c.Initialize(31, 64, params.Default()); err == nil {
		t.Fatalf("Initialize(31,...) = nil error, want ErrInvalidDimensions")
	}
	if err := c.Initialize(16385, 64, params.Default()); err == nil {
		t.Fatalf("Initialize(16385,...) = nil error, want ErrInvalidDimensions")
	}
}

func TestFirstFrameIsIdentityPassthrough(t *testing.T) {
	c := newTestCore(10)
	in := bgraView(64, 64, 128)
	out, err := c.ProcessFrame(in)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if string(out) != string(in.Planes[0].Data) {
		t.Fatalf("first frame output must equal input")
	}
	if c.Metrics().Status != Active {
		t.Fatalf("status after first successful detect = %v, want Active", c.Metrics().Status)
	}
}

func TestFirstFrameNoFeaturesStaysInitializing(t *testing.T) {
	c := newTestCore(0)
	in := bgraView(64, 64, 128)
	_, err := c.ProcessFrame(in)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if c.Metrics().Status != Initializing {
		t.Fatalf("status = %v, want Initializing", c.Metrics().Status)
	}
}

func TestDisabledParamsPassThroughWithoutAdvancing(t *testing.T) {
	c := newTestCore(10)
	p := c.Params()
	p.Enabled = false
	c.UpdateParameters(p)

	in := bgraView(64, 64, 128)
	before := c.Metrics().FrameCount
	out, err := c.ProcessFrame(in)
	if err != nil {
		t.Fatalf("ProcessFrame: %v", err)
	}
	if string(out) != string(in.Planes[0].Data) {
		t.Fatalf("disabled pipeline must pass the frame through unchanged")
	}
	if c.Metrics().FrameCount != before {
		t.Fatalf("FrameCount advanced while disabled: before=%d after=%d", before, c.Metrics().FrameCount)
	}
}

func TestTrackingFailuresTriggerRedetectAfterFive(t *testing.T) {
	deps := fakeDeps(10)
	tr := deps.Tracker.(*fakeTracker)
	c := NewCore(deps)
	if err := c.Initialize(64, 64, params.Default()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	in := bgraView(64, 64, 128)
	if _, err := c.ProcessFrame(in); err != nil { // first frame: detect.
		t.Fatalf("ProcessFrame (first): %v", err)
	}

	tr.forceFail = true
	for i := 0; i < 4; i++ {
		if _, err := c.ProcessFrame(in); err != nil {
			t.Fatalf("ProcessFrame (fail %d): %v", i, err)
		}
		if c.Metrics().Status != Degraded {
			t.Fatalf("status after failure %d = %v, want Degraded", i+1, c.Metrics().Status)
		}
	}

	// 5th consecutive failure forces re-detect.
	if _, err := c.ProcessFrame(in); err != nil {
		t.Fatalf("ProcessFrame (5th fail): %v", err)
	}
	if c.Metrics().Status != ErrorRecovery {
		t.Fatalf("status after 5th failure = %v, want ErrorRecovery", c.Metrics().Status)
	}
	if c.consecutiveTrackingFailures != 0 {
		t.Fatalf("consecutiveTrackingFailures = %d, want reset to 0", c.consecutiveTrackingFailures)
	}
}

func TestResetReturnsToInitializing(t *testing.T) {
	c := newTestCore(10)
	in := bgraView(64, 64, 128)
	c.ProcessFrame(in)
	c.Reset()
	if c.Metrics().Status != Initializing {
		t.Fatalf("status after Reset = %v, want Initializing", c.Metrics().Status)
	}
	if !c.firstFrame {
		t.Fatalf("firstFrame = false after Reset, want true")
	}
}

func TestStaticStreamClassifiesStaticWithinTenFrames(t *testing.T) {
	c := newTestCore(10)
	in := bgraView(64, 64, 128)
	for i := 0; i < 10; i++ {
		if _, err := c.ProcessFrame(in); err != nil {
			t.Fatalf("ProcessFrame(%d): %v", i, err)
		}
	}
	if c.Metrics().Status != Active {
		t.Fatalf("status = %v, want Active", c.Metrics().Status)
	}
	if label, _ := classifier.Classify(c.transforms, c.Params()); label != classifier.Static {
		t.Fatalf("Classify() after ten static frames = %v, want Static", label)
	}
}
