//go:build withcv
// +build withcv

/*
NAME
  compositor_cv.go

DESCRIPTION
  compositor_cv.go implements Compositor's Crop and Scale modes using
  GoCV's threshold/contour/bounding-box primitives, the same sequence
  exp/gocv-exp/main.go uses for its motion-detection bounding box, and
  Resize for the Scale mode's rescale step.

LICENSE
  Copyright (c) 2026 the obs-stabilizer contributors.
  Licensed under the MIT License.
*/

package compositor

import (
	"fmt"
	"image"

	"gocv.io/x/gocv"

	"github.com/azumag/obs-stabilizer-sub000/stabilizer/params"
)

// luminanceThreshold is the design constant (spec.md §4.J) at which a
// warped frame is binarized before computing its non-zero bounding box.
const luminanceThreshold = 1

// CVCompositor is the default Compositor. The zero value is ready to use.
type CVCompositor struct{}

// NewCVCompositor returns a ready-to-use CVCompositor.
func NewCVCompositor() *CVCompositor { return &CVCompositor{} }

func (c *CVCompositor) Composite(mode params.EdgeMode, frame []byte, width, height, stride, channels int) (out []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = frame, fmt.Errorf("compositor: recovered panic: %v", r)
		}
	}()

	switch mode {
	case params.EdgePadding:
		return frame, nil
	case params.EdgeCrop:
		return c.crop(frame, width, height, stride, channels)
	case params.EdgeScale:
		return c.scale(frame, width, height, stride, channels)
	default:
		return frame, nil
	}
}

func (c *CVCompositor) crop(frame []byte, width, height, stride, channels int) ([]byte, error) {
	img, gray, bbox, ok, err := boundingBox(frame, width, height, stride, channels)
	if err != nil {
		return frame, err
	}
	defer img.Close()
	defer gray.Close()
	if !ok {
		// Empty or degenerate bbox: return as-is, per spec.md §4.J / §9(c).
		return frame, nil
	}

	cropped := img.Region(bbox)
	defer cropped.Close()
	return matToPacked(cropped, stride, channels), nil
}

func (c *CVCompositor) scale(frame []byte, width, height, stride, channels int) ([]byte, error) {
	img, gray, bbox, ok, err := boundingBox(frame, width, height, stride, channels)
	if err != nil {
		return frame, err
	}
	defer img.Close()
	defer gray.Close()
	if !ok {
		return frame, nil
	}

	cropped := img.Region(bbox)
	defer cropped.Close()

	scaleX := float64(width) / float64(bbox.Dx())
	scaleY := float64(height) / float64(bbox.Dy())
	s := scaleX
	if scaleY < s {
		s = scaleY
	}
	newW := clampInt(int(float64(bbox.Dx())*s), 1, width)
	newH := clampInt(int(float64(bbox.Dy())*s), 1, height)

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(cropped, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationLinear)

	canvas := gocv.NewMatWithSize(height, width, img.Type())
	defer canvas.Close()

	offX := clampInt((width-newW)/2, 0, width-newW)
	offY := clampInt((height-newH)/2, 0, height-newH)
	roi := canvas.Region(image.Rect(offX, offY, offX+newW, offY+newH))
	defer roi.Close()
	resized.CopyTo(&roi)

	return matToPacked(canvas, stride, channels), nil
}

// boundingBox binarizes frame at luminanceThreshold and returns the union
// bounding box of non-zero contours, plus whether it is non-degenerate.
func boundingBox(frame []byte, width, height, stride, channels int) (img, gray gocv.Mat, bbox image.Rectangle, ok bool, err error) {
	matType, err := matTypeFor(channels)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, image.Rectangle{}, false, err
	}
	packed := frame
	if stride != width*channels {
		packed = repackFrame(frame, width, height, stride, channels)
	}
	img, err = gocv.NewMatFromBytes(height, width, matType, packed)
	if err != nil {
		return gocv.Mat{}, gocv.Mat{}, image.Rectangle{}, false, err
	}

	gray = gocv.NewMat()
	if channels == 1 {
		img.CopyTo(&gray)
	} else if channels == 3 {
		gocv.CvtColor(img, &gray, gocv.ColorBGRToGray)
	} else {
		gocv.CvtColor(img, &gray, gocv.ColorBGRAToGray)
	}

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(gray, &thresh, luminanceThreshold, 255, gocv.ThresholdBinary)

	contours := gocv.FindContours(thresh, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	var union image.Rectangle
	found := false
	for i := 0; i < contours.Size(); i++ {
		if gocv.ContourArea(contours.At(i)) <= 0 {
			continue
		}
		r := gocv.BoundingRect(contours.At(i))
		if !found {
			union = r
			found = true
		} else {
			union = union.Union(r)
		}
	}
	if !found || union.Dx() <= 0 || union.Dy() <= 0 {
		return img, gray, image.Rectangle{}, false, nil
	}
	union = union.Intersect(image.Rect(0, 0, width, height))
	if union.Dx() <= 0 || union.Dy() <= 0 {
		return img, gray, image.Rectangle{}, false, nil
	}
	return img, gray, union, true, nil
}

func matToPacked(m gocv.Mat, stride, channels int) []byte {
	raw := m.ToBytes()
	w, h := m.Cols(), m.Rows()
	rowBytes := w * channels
	if stride == rowBytes {
		return raw
	}
	out := make([]byte, stride*h)
	for y := 0; y < h; y++ {
		copy(out[y*stride:y*stride+rowBytes], raw[y*rowBytes:(y+1)*rowBytes])
	}
	return out
}

func repackFrame(src []byte, width, height, stride, channels int) []byte {
	rowBytes := width * channels
	out := make([]byte, rowBytes*height)
	for y := 0; y < height; y++ {
		copy(out[y*rowBytes:(y+1)*rowBytes], src[y*stride:y*stride+rowBytes])
	}
	return out
}

func matTypeFor(channels int) (gocv.MatType, error) {
	switch channels {
	case 1:
		return gocv.MatTypeCV8UC1, nil
	case 3:
		return gocv.MatTypeCV8UC3, nil
	case 4:
		return gocv.MatTypeCV8UC4, nil
	default:
		return 0, fmt.Errorf("compositor: unsupported channel count %d", channels)
	}
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
