//go:build opencv

// Package camera reads frames from a video stream URL or file.
package camera

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
	"gocv.io/x/gocv"
)

// ErrEndOfStream is returned by ReadFrame when the source yields no frame.
var ErrEndOfStream = errors.New("end of stream")

type Stream struct {
	Name       string
	URL        string
	capture    *gocv.VideoCapture
	isOpen     bool
	frameCount int64
	mu         sync.Mutex
}

type StreamInfo struct {
	Width      int
	Height     int
	FPS        float64
	Resolution string
}

func NewStream(name, url string) *Stream {
	return &Stream{
		Name: name,
		URL:  url,
	}
}

func (s *Stream) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.Info().Str("camera", s.Name).Str("url", s.URL).Msg("Opening stream")

	capture, err := gocv.OpenVideoCapture(s.URL)
	if err != nil {
		return fmt.Errorf("failed to open stream: %w", err)
	}

	if !capture.IsOpened() {
		capture.Close()
		return fmt.Errorf("stream opened but not ready")
	}

	s.capture = capture
	s.isOpen = true
	log.Info().Str("camera", s.Name).Msg("Stream connected")
	return nil
}

func (s *Stream) GetInfo() StreamInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOpen || s.capture == nil {
		return StreamInfo{}
	}

	width := int(s.capture.Get(gocv.VideoCaptureFrameWidth))
	height := int(s.capture.Get(gocv.VideoCaptureFrameHeight))

	return StreamInfo{
		Width:      width,
		Height:     height,
		FPS:        s.capture.Get(gocv.VideoCaptureFPS),
		Resolution: fmt.Sprintf("%dx%d", width, height),
	}
}

// ReadFrame returns the next frame, which the caller must Close. A failed
// read or an empty frame is reported as ErrEndOfStream.
func (s *Stream) ReadFrame() (gocv.Mat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isOpen || s.capture == nil {
		return gocv.NewMat(), fmt.Errorf("stream not open")
	}

	frame := gocv.NewMat()
	if !s.capture.Read(&frame) || frame.Empty() {
		frame.Close()
		return gocv.NewMat(), ErrEndOfStream
	}

	s.frameCount++
	return frame, nil
}

// FrameCount is the number of frames read so far.
func (s *Stream) FrameCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frameCount
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.capture != nil {
		s.capture.Close()
		s.capture = nil
	}
	s.isOpen = false
	log.Info().Str("camera", s.Name).Int64("frames", s.frameCount).Msg("Stream closed")
	return nil
}

func (s *Stream) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}
