package dnn

import (
	"fmt"
	"image"
	"sync"

	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/debug"
	"github.com/teslashibe/go-facerange/pkg/tracking/detection"
	"github.com/teslashibe/go-facerange/pkg/vision/opencv"
	"gocv.io/x/gocv"
)

// Each SSD output row is [image, class, confidence, left, top, right, bottom]
// with corners normalized to the input image.
const ssdRowLen = 7

// SSDDetector runs OpenCV's res10 single-shot face detector.
type SSDDetector struct {
	net    gocv.Net
	config Config
	mean   gocv.Scalar
	mu     sync.Mutex // Protects inference
}

// NewSSD loads the network described by cfg.
func NewSSD(cfg Config) (*SSDDetector, error) {
	if err := detection.CheckModel(cfg.ModelPath); err != nil {
		return nil, err
	}
	if cfg.ConfigPath != "" {
		if err := detection.CheckModel(cfg.ConfigPath); err != nil {
			return nil, err
		}
	}

	net := gocv.ReadNet(cfg.ModelPath, cfg.ConfigPath)
	if net.Empty() {
		return nil, fmt.Errorf("dnn: failed to load SSD model %s", cfg.ModelPath)
	}
	net.SetPreferableBackend(gocv.NetBackendDefault)
	net.SetPreferableTarget(gocv.NetTargetCPU)

	log.Info("SSD face detector loaded", "model", cfg.ModelPath, "input", fmt.Sprintf("%dx%d", cfg.InputWidth, cfg.InputHeight))
	return &SSDDetector{
		net:    net,
		config: cfg,
		mean:   gocv.NewScalar(104, 117, 123, 0),
	}, nil
}

// Detect finds faces in img.
func (d *SSDDetector) Detect(img image.Image) ([]detection.Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	mat, err := opencv.ImageToBGR(img)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0, image.Pt(d.config.InputWidth, d.config.InputHeight), d.mean, false, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	out := d.net.Forward("")
	defer out.Close()

	data, err := out.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("dnn: read SSD output: %w", err)
	}

	dets := parseSSD(data, img.Bounds(), d.config.ConfidenceThresh)
	if len(dets) > 0 {
		debug.Trace("faces detected", "detector", "ssd", "count", len(dets))
	}
	return dets, nil
}

// parseSSD converts raw SSD rows into detections in the coordinates of an
// image with the given bounds.
func parseSSD(data []float32, bounds image.Rectangle, thresh float64) []detection.Detection {
	cols, rows := bounds.Dx(), bounds.Dy()
	var dets []detection.Detection
	for i := 0; i+ssdRowLen <= len(data); i += ssdRowLen {
		conf := float64(data[i+2])
		if conf <= thresh {
			continue
		}
		box, ok := detection.ClampBox(
			bounds.Min.X+int(data[i+3]*float32(cols)),
			bounds.Min.Y+int(data[i+4]*float32(rows)),
			bounds.Min.X+int(data[i+5]*float32(cols)),
			bounds.Min.Y+int(data[i+6]*float32(rows)),
			bounds,
		)
		if !ok {
			continue
		}
		dets = append(dets, detection.Detection{Box: box, Confidence: conf})
	}
	return dets
}

// Close releases the network.
func (d *SSDDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.net.Close()
}
