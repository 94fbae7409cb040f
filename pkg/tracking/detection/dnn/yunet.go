package dnn

import (
	"image"
	"math"
	"sync"

	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/debug"
	"github.com/teslashibe/go-facerange/pkg/tracking/detection"
	"github.com/teslashibe/go-facerange/pkg/vision/opencv"
	"gocv.io/x/gocv"
)

// YuNetDetector uses OpenCV's FaceDetectorYN for face detection
type YuNetDetector struct {
	detector gocv.FaceDetectorYN
	config   Config
	mu       sync.Mutex // Protects inference
}

// NewYuNet creates a new YuNet face detector using GoCV's built-in FaceDetectorYN
func NewYuNet(cfg Config) (*YuNetDetector, error) {
	if err := detection.CheckModel(cfg.ModelPath); err != nil {
		return nil, err
	}

	// Input size is updated per image
	detector := gocv.NewFaceDetectorYNWithParams(
		cfg.ModelPath,
		"",
		image.Pt(cfg.InputWidth, cfg.InputHeight),
		float32(cfg.ConfidenceThresh),
		0.3,  // NMS threshold
		5000, // Top K
		int(gocv.NetBackendDefault),
		int(gocv.NetTargetCPU),
	)

	log.Info("YuNet face detector loaded", "model", cfg.ModelPath)
	return &YuNetDetector{
		detector: detector,
		config:   cfg,
	}, nil
}

// Detect finds faces in img.
func (d *YuNetDetector) Detect(img image.Image) ([]detection.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	mat, err := opencv.ImageToBGR(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	d.detector.SetInputSize(image.Pt(mat.Cols(), mat.Rows()))

	faces := gocv.NewMat()
	defer faces.Close()
	d.detector.Detect(mat, &faces)

	// Mat rows and columns start at zero; boxes are reported in img coordinates.
	bounds := img.Bounds()
	var detections []detection.Detection
	for r := 0; r < faces.Rows(); r++ {
		// Columns 0-3: x, y, w, h in pixels; 4-13: landmarks; 14: score
		x := float64(faces.GetFloatAt(r, 0))
		y := float64(faces.GetFloatAt(r, 1))
		w := float64(faces.GetFloatAt(r, 2))
		h := float64(faces.GetFloatAt(r, 3))
		score := float64(faces.GetFloatAt(r, 14))

		box, ok := detection.ClampBox(
			bounds.Min.X+int(math.Round(x)), bounds.Min.Y+int(math.Round(y)),
			bounds.Min.X+int(math.Round(x+w)), bounds.Min.Y+int(math.Round(y+h)),
			bounds)
		if !ok || score <= d.config.ConfidenceThresh {
			continue
		}
		detections = append(detections, detection.Detection{Box: box, Confidence: score})
	}

	if len(detections) > 0 {
		debug.Trace("faces detected", "detector", "yunet", "count", len(detections))
	}

	return detections, nil
}

// Close releases the detector resources
func (d *YuNetDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.detector.Close()
	return nil
}
