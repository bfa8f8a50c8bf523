package motion

import (
	"image"
	"testing"
)

func TestClipRect(t *testing.T) {
	tests := []struct {
		name string
		rect image.Rectangle
		want image.Rectangle
	}{
		{"inside", image.Rect(10, 20, 110, 70), image.Rect(10, 20, 110, 70)},
		{"overflow right and bottom", image.Rect(600, 400, 700, 500), image.Rect(600, 400, 640, 480)},
		{"fully outside", image.Rect(700, 500, 800, 600), image.Rectangle{}},
		{"zero size", image.Rect(10, 10, 10, 10), image.Rectangle{}},
		{"whole frame", image.Rect(0, 0, 640, 480), image.Rect(0, 0, 640, 480)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClipRect(tt.rect, 640, 480)
			if got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestClipRectEmptyIsEmpty(t *testing.T) {
	if !ClipRect(image.Rect(700, 500, 800, 600), 640, 480).Empty() {
		t.Error("Expected empty rectangle for ROI outside the frame")
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(0, 100); got != 0 {
		t.Errorf("Expected 0, got %f", got)
	}
	if got := Ratio(25, 100); got != 25 {
		t.Errorf("Expected 25, got %f", got)
	}
	if got := Ratio(100, 100); got != 100 {
		t.Errorf("Expected 100, got %f", got)
	}
	if got := Ratio(1, 3); got < 33.33 || got > 33.34 {
		t.Errorf("Expected ~33.33, got %f", got)
	}
	if got := Ratio(0, 0); got != 0 {
		t.Errorf("Expected 0 for empty mask, got %f", got)
	}
}
