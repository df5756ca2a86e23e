//go:build withcv
// +build withcv

package compositor

import (
	"testing"

	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
)

func solidFrame(width, height, channels int, v byte) []byte {
	buf := make([]byte, width*height*channels)
	for i := range buf {
		buf[i] = v
	}
	return buf
}

func TestCompositePaddingIsNoOp(t *testing.T) {
	c := NewCVCompositor()
	frame := solidFrame(8, 8, 3, 200)
	out, err := c.Composite(params.EdgePadding, frame, 8, 8, 8*3, 3)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(out) != len(frame) {
		t.Fatalf("len(out) = %d, want %d", len(out), len(frame))
	}
}

func TestCompositeCropAllBlackReturnsAsIs(t *testing.T) {
	c := NewCVCompositor()
	frame := solidFrame(16, 16, 3, 0)
	out, err := c.Composite(params.EdgeCrop, frame, 16, 16, 16*3, 3)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(out) != len(frame) {
		t.Fatalf("degenerate bbox should pass the frame through unchanged, got len %d want %d", len(out), len(frame))
	}
}

func TestCompositeScaleAllBlackReturnsAsIs(t *testing.T) {
	c := NewCVCompositor()
	frame := solidFrame(16, 16, 3, 0)
	out, err := c.Composite(params.EdgeScale, frame, 16, 16, 16*3, 3)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(out) != len(frame) {
		t.Fatalf("degenerate bbox should pass the frame through unchanged, got len %d want %d", len(out), len(frame))
	}
}

func TestCompositeCropShrinksFrame(t *testing.T) {
	c := NewCVCompositor()
	width, height, channels := 32, 32, 3
	frame := solidFrame(width, height, channels, 0)
	// Paint a bright square strictly inside the frame.
	for y := 8; y < 16; y++ {
		for x := 8; x < 16; x++ {
			i := (y*width + x) * channels
			frame[i], frame[i+1], frame[i+2] = 255, 255, 255
		}
	}
	out, err := c.Composite(params.EdgeCrop, frame, width, height, width*channels, channels)
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if len(out) >= len(frame) {
		t.Fatalf("expected a crop smaller than the source frame, got len %d vs %d", len(out), len(frame))
	}
}
