package dnn

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"testing"

	"github.com/teslashibe/go-facerange/pkg/tracking/detection"
)

func newTestYuNet(t *testing.T) *YuNetDetector {
	t.Helper()
	modelPath := findModelPath("face_detection_yunet.onnx")
	if modelPath == "" {
		t.Skip("YuNet model not found, skipping test")
	}

	cfg := DefaultYuNetConfig()
	cfg.ModelPath = modelPath

	detector, err := NewYuNet(cfg)
	if err != nil {
		t.Fatalf("NewYuNet failed: %v", err)
	}
	t.Cleanup(func() { detector.Close() })
	return detector
}

// TestYuNetNewInvalidPath tests error handling for missing model
func TestYuNetNewInvalidPath(t *testing.T) {
	cfg := DefaultYuNetConfig()
	cfg.ModelPath = "/nonexistent/path/model.onnx"

	_, err := NewYuNet(cfg)
	if !errors.Is(err, detection.ErrModelNotFound) {
		t.Errorf("Expected detection.ErrModelNotFound, got %v", err)
	}
}

// TestYuNetDetect_EmptyImage tests detection on an empty image
func TestYuNetDetect_EmptyImage(t *testing.T) {
	detector := newTestYuNet(t)

	if _, err := detector.Detect(image.NewRGBA(image.Rectangle{})); err == nil {
		t.Error("Expected error for empty image")
	}
	if _, err := detector.Detect(nil); err == nil {
		t.Error("Expected error for nil image")
	}
}

// TestYuNetDetect_SolidImage tests detection on solid color image (no faces)
func TestYuNetDetect_SolidImage(t *testing.T) {
	detector := newTestYuNet(t)

	detections, err := detector.Detect(solidImage(320, 240, color.RGBA{0, 0, 255, 255}))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	if len(detections) > 0 {
		t.Errorf("Expected no detections in solid color image, got %d", len(detections))
	}
}

// TestYuNetConcurrency tests thread safety
func TestYuNetConcurrency(t *testing.T) {
	detector := newTestYuNet(t)
	img := solidImage(320, 240, color.RGBA{100, 100, 100, 255})

	done := make(chan bool, 10)
	for i := 0; i < 10; i++ {
		go func() {
			if _, err := detector.Detect(img); err != nil {
				t.Errorf("Concurrent detection failed: %v", err)
			}
			done <- true
		}()
	}
	for i := 0; i < 10; i++ {
		<-done
	}
}

func TestSSDNewInvalidPath(t *testing.T) {
	cfg := DefaultSSDConfig()
	cfg.ModelPath = "/nonexistent/opencv_face_detector_uint8.pb"

	_, err := NewSSD(cfg)
	if !errors.Is(err, detection.ErrModelNotFound) {
		t.Errorf("Expected detection.ErrModelNotFound, got %v", err)
	}
}

func TestSSDDetect_SolidImage(t *testing.T) {
	model := findModelPath("opencv_face_detector_uint8.pb")
	config := findModelPath("opencv_face_detector.pbtxt")
	if model == "" || config == "" {
		t.Skip("SSD model not found, skipping test")
	}

	cfg := DefaultSSDConfig()
	cfg.ModelPath, cfg.ConfigPath = model, config
	detector, err := NewSSD(cfg)
	if err != nil {
		t.Fatalf("NewSSD failed: %v", err)
	}
	defer detector.Close()

	detections, err := detector.Detect(solidImage(320, 240, color.RGBA{30, 30, 30, 255}))
	if err != nil {
		t.Fatalf("Detect failed: %v", err)
	}
	for _, d := range detections {
		if !d.Box.In(image.Rect(0, 0, 320, 240)) || d.Box.Empty() {
			t.Errorf("detection box %v outside image", d.Box)
		}
	}
}

// Helper functions

func findModelPath(name string) string {
	// Walk up to find the models directory
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for dir := cwd; dir != "/" && dir != "."; dir = filepath.Dir(dir) {
		p := filepath.Join(dir, "models", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func solidImage(width, height int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}
