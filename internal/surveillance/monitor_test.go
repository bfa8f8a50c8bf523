//go:build opencv

package surveillance

import (
	"context"
	"errors"
	"image"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/kai5263499/roi-sentry/internal/display"
	"github.com/kai5263499/roi-sentry/internal/gate"
	"github.com/kai5263499/roi-sentry/pkg/camera"
)

const clipFrames = 6

// writeClip renders a short MJPG clip with a white block sliding across the
// second half of the frames.
func writeClip(t *testing.T, frames int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.avi")

	w, err := gocv.VideoWriterFile(path, "MJPG", 10, 64, 48, true)
	if err != nil {
		t.Fatalf("Failed to create video writer: %v", err)
	}
	for i := 0; i < frames; i++ {
		img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 40, 40, 0), 48, 64, gocv.MatTypeCV8UC3)
		if i >= frames/2 {
			gocv.Rectangle(&img, image.Rect(8+4*i, 10, 28+4*i, 30), color.RGBA{255, 255, 255, 0}, -1)
		}
		if err := w.Write(img); err != nil {
			t.Fatalf("Failed to write frame %d: %v", i, err)
		}
		img.Close()
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close video writer: %v", err)
	}
	return path
}

func openClip(t *testing.T) *camera.Stream {
	t.Helper()
	s := camera.NewStream("clip", writeClip(t, clipFrames))
	if err := s.Open(); err != nil {
		t.Fatalf("Failed to open clip: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newClipControl(threshold float64) (*Control, *nopNotifier) {
	n := &nopNotifier{}
	g := gate.New(gate.Config{Threshold: threshold, MotionCooldown: time.Minute}, n)
	return NewControl("clip", threshold, g), n
}

type fakeRenderer struct {
	actions []display.Action
	shows   int
	masks   int
	polls   int
	onPoll  func()
	closed  bool
}

func (f *fakeRenderer) Show(_ gocv.Mat, mask *gocv.Mat, _ image.Rectangle) {
	f.shows++
	if mask != nil {
		f.masks++
	}
}

func (f *fakeRenderer) Poll() display.Action {
	f.polls++
	if f.onPoll != nil {
		f.onPoll()
	}
	if f.polls <= len(f.actions) {
		return f.actions[f.polls-1]
	}
	return display.None
}

func (f *fakeRenderer) Close() error {
	f.closed = true
	return nil
}

func TestMonitorHeadlessRunsToStreamEnd(t *testing.T) {
	stream := openClip(t)
	ctl, _ := newClipControl(20)

	m := NewMonitor(ctl, stream, image.Rect(0, 0, 64, 48), nil)
	defer m.Close()

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Expected nil at stream end, got %v", err)
	}

	s := ctl.Status()
	if s.FramesProcessed != clipFrames {
		t.Errorf("Expected %d frames processed, got %d", clipFrames, s.FramesProcessed)
	}
	if stream.FrameCount() != clipFrames {
		t.Errorf("Expected %d frames read, got %d", clipFrames, stream.FrameCount())
	}
	if s.Running {
		t.Error("Expected monitor to report stopped after stream end")
	}
}

func TestMonitorEmptyROISkipsObservation(t *testing.T) {
	stream := openClip(t)
	ctl, n := newClipControl(0)
	r := &fakeRenderer{}

	m := NewMonitor(ctl, stream, image.Rect(500, 500, 600, 600), r)
	defer m.Close()

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Expected nil at stream end, got %v", err)
	}

	if got := ctl.Status().FramesProcessed; got != 0 {
		t.Errorf("Expected no observations without a mask, got %d", got)
	}
	if n.sent != 0 {
		t.Errorf("Expected no notifications, got %d", n.sent)
	}
	if r.shows != clipFrames {
		t.Errorf("Expected every frame rendered, got %d", r.shows)
	}
	if r.masks != 0 {
		t.Errorf("Expected raw frame in place of the mask, got %d masks", r.masks)
	}
}

func TestMonitorKeys(t *testing.T) {
	stream := openClip(t)
	ctl, n := newClipControl(100)
	r := &fakeRenderer{actions: []display.Action{display.None, display.Trigger, display.Quit}}

	m := NewMonitor(ctl, stream, image.Rect(0, 0, 64, 48), r)

	if err := m.Run(context.Background()); err != nil {
		t.Fatalf("Expected nil on quit, got %v", err)
	}

	if r.polls != 3 {
		t.Errorf("Expected loop to stop at the quit key after 3 polls, got %d", r.polls)
	}
	if got := ctl.Status().FramesProcessed; got != 3 {
		t.Errorf("Expected 3 frames processed, got %d", got)
	}
	if n.sent != 1 {
		t.Errorf("Expected the trigger key to send 1 notification, got %d", n.sent)
	}
	if ev := ctl.Status().LastEvent; ev == nil || ev.Source != "manual" {
		t.Errorf("Expected manual last event, got %+v", ev)
	}

	m.Close()
	if !r.closed {
		t.Error("Expected renderer to be closed with the monitor")
	}
}

func TestMonitorStopsOnCancel(t *testing.T) {
	stream := openClip(t)
	ctl, _ := newClipControl(20)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r := &fakeRenderer{onPoll: cancel}

	m := NewMonitor(ctl, stream, image.Rect(0, 0, 64, 48), r)
	defer m.Close()

	if err := m.Run(ctx); err != nil {
		t.Fatalf("Expected nil on cancellation, got %v", err)
	}
	if r.polls != 1 {
		t.Errorf("Expected loop to stop after the first frame, got %d polls", r.polls)
	}
	if stream.FrameCount() != 1 {
		t.Errorf("Expected 1 frame read, got %d", stream.FrameCount())
	}
}

func TestMonitorRequiresOpenStream(t *testing.T) {
	ctl, _ := newClipControl(20)
	m := NewMonitor(ctl, camera.NewStream("closed", "unused.avi"), image.Rect(0, 0, 10, 10), nil)
	defer m.Close()

	if err := m.Run(context.Background()); !errors.Is(err, ErrStreamClosed) {
		t.Errorf("Expected ErrStreamClosed, got %v", err)
	}
}
