package camera

import (
	"context"
	"fmt"
	"image/draw"
	"io"
	"sync"

	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/tracking"
	"github.com/teslashibe/go-facerange/pkg/vision/opencv"
	"gocv.io/x/gocv"
)

// Source reads frames from a capture device or video file.
type Source struct {
	capture *gocv.VideoCapture
	config  Config
	mat     gocv.Mat
	mu      sync.Mutex
}

var _ tracking.FrameSource = (*Source)(nil)

// Open starts capturing from cfg.Device.
func Open(cfg Config) (*Source, error) {
	if errs := cfg.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("camera: invalid config: %v", errs)
	}

	capture, err := gocv.OpenVideoCapture(cfg.Device)
	if err != nil {
		return nil, fmt.Errorf("camera: open %s: %w", cfg.Device, err)
	}

	s := &Source{capture: capture, mat: gocv.NewMat()}
	s.Apply(cfg)

	log.Info("camera opened",
		"device", cfg.Device,
		"width", capture.Get(gocv.VideoCaptureFrameWidth),
		"height", capture.Get(gocv.VideoCaptureFrameHeight),
		"fps", capture.Get(gocv.VideoCaptureFPS))
	return s, nil
}

// Apply pushes capture properties to the device. It is safe to use as a
// Manager.OnConfigChange callback; the device itself cannot be changed.
func (s *Source) Apply(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.capture.Set(gocv.VideoCaptureFrameWidth, float64(cfg.Width))
	s.capture.Set(gocv.VideoCaptureFrameHeight, float64(cfg.Height))
	s.capture.Set(gocv.VideoCaptureFPS, float64(cfg.Framerate))
	if cfg.Brightness != 0 {
		s.capture.Set(gocv.VideoCaptureBrightness, cfg.Brightness)
	}
	if cfg.Exposure != 0 {
		s.capture.Set(gocv.VideoCaptureExposure, cfg.Exposure)
	}
	s.config = cfg
	return nil
}

// Next returns the next frame, or io.EOF when the stream ends.
func (s *Source) Next(ctx context.Context) (draw.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if ok := s.capture.Read(&s.mat); !ok || s.mat.Empty() {
		return nil, io.EOF
	}
	if s.config.Mirror {
		gocv.Flip(s.mat, &s.mat, 1)
	}
	return opencv.MatToRGBA(s.mat)
}

// FrameCount returns the number of frames in a video file, or 0 for live
// devices.
func (s *Source) FrameCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := int(s.capture.Get(gocv.VideoCaptureFrameCount))
	if n < 0 {
		return 0
	}
	return n
}

// Close releases the device.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mat.Close()
	return s.capture.Close()
}
