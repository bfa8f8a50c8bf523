//go:build opencv

package surveillance

import (
	"context"
	"errors"
	"image"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"

	"github.com/kai5263499/roi-sentry/internal/display"
	"github.com/kai5263499/roi-sentry/internal/motion"
	"github.com/kai5263499/roi-sentry/pkg/camera"
)

// Renderer shows frames and reports key presses. *display.Display
// implements it.
type Renderer interface {
	Show(frame gocv.Mat, mask *gocv.Mat, roi image.Rectangle)
	Poll() display.Action
	Close() error
}

// ErrStreamClosed is returned by Run when the stream was never opened.
var ErrStreamClosed = errors.New("stream is not open")

// Monitor runs the read-process-render loop for one camera.
type Monitor struct {
	*Control

	stream   *camera.Stream
	detector *motion.Detector
	display  Renderer
	roi      image.Rectangle
}

// NewMonitor wires a monitor. disp may be nil for headless operation.
func NewMonitor(ctl *Control, stream *camera.Stream, roi image.Rectangle, disp Renderer) *Monitor {
	return &Monitor{
		Control:  ctl,
		stream:   stream,
		detector: motion.NewDetector(stream.Name, roi),
		display:  disp,
		roi:      roi,
	}
}

// Run processes frames until the stream ends, the quit key is pressed or ctx
// is cancelled. Stream end is not an error.
func (m *Monitor) Run(ctx context.Context) error {
	if !m.stream.IsOpen() {
		return ErrStreamClosed
	}

	info := m.stream.GetInfo()
	if info.Width > 0 && motion.ClipRect(m.roi, info.Width, info.Height) != m.roi.Canon() {
		log.Warn().
			Str("camera", m.name).
			Str("roi", m.roi.String()).
			Str("resolution", info.Resolution).
			Msg("ROI exceeds frame bounds, it will be clipped")
	}

	m.setRunning(true, info.Resolution)
	defer m.setRunning(false, "")

	log.Info().Str("camera", m.name).Msg("Monitor loop started")
	defer log.Info().Str("camera", m.name).Msg("Monitor loop stopped")

	for {
		if ctx.Err() != nil {
			return nil
		}

		frame, err := m.stream.ReadFrame()
		if err != nil {
			frame.Close()
			if errors.Is(err, camera.ErrEndOfStream) {
				log.Info().
					Str("camera", m.name).
					Int64("frames", m.stream.FrameCount()).
					Msg("Stream ended")
				return nil
			}
			return err
		}

		quit := m.step(ctx, frame)
		frame.Close()
		if quit {
			return nil
		}
	}
}

// step handles one frame and reports whether the operator asked to quit.
func (m *Monitor) step(ctx context.Context, frame gocv.Mat) bool {
	result := m.detector.Process(frame)
	defer result.Close()

	if result != nil {
		m.observe(ctx, result.Ratio)
		if m.display != nil {
			display.Annotate(&frame, result.Ratio)
		}
	}

	if m.display == nil {
		return false
	}

	var mask *gocv.Mat
	if result != nil {
		mask = &result.Mask
	}
	m.display.Show(frame, mask, m.roi)

	switch m.display.Poll() {
	case display.Quit:
		log.Info().Str("camera", m.name).Msg("Quit requested")
		return true
	case display.Trigger:
		m.Trigger(ctx)
	}
	return false
}

func (m *Monitor) Close() {
	m.detector.Close()
	if m.display != nil {
		_ = m.display.Close()
	}
}
