//go:build opencv

package display

import (
	"fmt"
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

const (
	maskWindow   = "Motion Detection"
	streamWindow = "Raw RTSP Stream"
)

var green = color.RGBA{0, 255, 0, 0}

// Display owns the two monitor windows.
type Display struct {
	mask   *gocv.Window
	stream *gocv.Window
}

func New() *Display {
	d := &Display{
		mask:   gocv.NewWindow(maskWindow),
		stream: gocv.NewWindow(streamWindow),
	}
	d.mask.ResizeWindow(800, 600)
	d.stream.ResizeWindow(800, 600)
	return d
}

// Annotate writes the motion percentage onto frame.
func Annotate(frame *gocv.Mat, ratio float64) {
	text := fmt.Sprintf("Motion Percentage: %.2f%%", ratio)
	gocv.PutText(frame, text, image.Pt(10, 30), gocv.FontHersheySimplex, 1, green, 2)
}

// Show renders the mask window (the frame when there is no mask) and the
// stream window with the ROI outlined. frame is not modified.
func (d *Display) Show(frame gocv.Mat, mask *gocv.Mat, roi image.Rectangle) {
	if mask == nil || mask.Empty() {
		d.mask.IMShow(frame)
	} else {
		d.mask.IMShow(*mask)
	}

	withROI := frame.Clone()
	defer withROI.Close()
	gocv.Rectangle(&withROI, roi, green, 2)
	d.stream.IMShow(withROI)
}

// Poll waits up to 1ms for a key press.
func (d *Display) Poll() Action {
	return KeyAction(d.stream.WaitKey(1))
}

func (d *Display) Close() error {
	if err := d.mask.Close(); err != nil {
		return err
	}
	return d.stream.Close()
}
