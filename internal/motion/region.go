// Package motion turns frames into a changed-pixel percentage for the region
// of interest: crop, background subtraction, mask cleanup and pixel counting.
package motion

import "image"

// ClipRect clips rect to a width x height frame. Out-of-range rectangles are
// silently shrunk, possibly to an empty rectangle, the way array slicing
// would treat them.
func ClipRect(rect image.Rectangle, width, height int) image.Rectangle {
	return rect.Canon().Intersect(image.Rect(0, 0, width, height))
}

// Ratio returns the percentage of non-zero pixels, in [0, 100].
func Ratio(nonZero, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(nonZero) / float64(total) * 100
}
