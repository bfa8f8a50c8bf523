//go:build opencv

package motion

import (
	"image"

	"gocv.io/x/gocv"
)

// Mask cleanup constants.
const (
	MaskThreshold = 127
	KernelSize    = 5
)

// Detector owns the background model for one region of interest.
type Detector struct {
	Name   string
	ROI    image.Rectangle
	mog2   gocv.BackgroundSubtractorMOG2
	kernel gocv.Mat
}

// Result is the outcome of processing one frame.
type Result struct {
	Ratio float64
	// Mask is the cleaned binary mask; the caller must Close it.
	Mask gocv.Mat
	// Region is the ROI after clipping to the frame.
	Region image.Rectangle
}

// Close releases the mask.
func (r *Result) Close() {
	if r != nil {
		r.Mask.Close()
	}
}

func NewDetector(name string, roi image.Rectangle) *Detector {
	return &Detector{
		Name:   name,
		ROI:    roi,
		mog2:   gocv.NewBackgroundSubtractorMOG2(),
		kernel: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(KernelSize, KernelSize)),
	}
}

// Process crops frame to the ROI, feeds the background model and returns the
// cleaned mask with its motion ratio. It returns nil when the clipped ROI is
// empty and no mask could be produced.
func (d *Detector) Process(frame gocv.Mat) *Result {
	region := ExtractRegion(frame, d.ROI)
	defer region.Close()
	if region.Empty() {
		return nil
	}

	fgMask := gocv.NewMat()
	defer fgMask.Close()
	d.mog2.Apply(region, &fgMask)

	mask := gocv.NewMat()
	cleanMask(fgMask, &mask, d.kernel)

	return &Result{
		Ratio:  MaskRatio(mask),
		Mask:   mask,
		Region: ClipRect(d.ROI, frame.Cols(), frame.Rows()),
	}
}

func (d *Detector) Close() {
	d.mog2.Close()
	d.kernel.Close()
}

// ExtractRegion returns a copy of the part of frame inside rect, clipped to
// the frame. The result is an empty Mat when nothing of rect is inside.
func ExtractRegion(frame gocv.Mat, rect image.Rectangle) gocv.Mat {
	clipped := ClipRect(rect, frame.Cols(), frame.Rows())
	if frame.Empty() || clipped.Empty() {
		return gocv.NewMat()
	}
	view := frame.Region(clipped)
	defer view.Close()
	return view.Clone()
}

// CleanMask thresholds src at 127, then erodes and dilates once with a 5x5
// rectangular kernel. The output is deterministic for a given input.
func CleanMask(src gocv.Mat, dst *gocv.Mat) {
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(KernelSize, KernelSize))
	defer kernel.Close()
	cleanMask(src, dst, kernel)
}

func cleanMask(src gocv.Mat, dst *gocv.Mat, kernel gocv.Mat) {
	gocv.Threshold(src, dst, MaskThreshold, 255, gocv.ThresholdBinary)
	gocv.Erode(*dst, dst, kernel)
	gocv.Dilate(*dst, dst, kernel)
}

// MaskRatio is the percentage of non-zero pixels in mask.
func MaskRatio(mask gocv.Mat) float64 {
	if mask.Empty() {
		return 0
	}
	return Ratio(gocv.CountNonZero(mask), mask.Total())
}
