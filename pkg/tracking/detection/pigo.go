package detection

import (
	"fmt"
	"image"
	"os"

	pigo "github.com/esimov/pigo/core"
	"github.com/teslashibe/go-facerange/internal/config"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/debug"
	"github.com/teslashibe/go-facerange/pkg/vision"
)

// PigoConfig holds the cascade parameters for the pure-Go detector.
type PigoConfig struct {
	CascadePath      string
	MinSize          int     // Minimum face size (pixels)
	MaxSize          int     // Maximum face size (pixels)
	ShiftFactor      float64 // Detection window shift
	ScaleFactor      float64 // Image pyramid scale step
	IoUThreshold     float64 // Clustering overlap threshold
	QualityThreshold float32 // Cascade score that maps to confidence 0.5
}

// DefaultPigoConfig returns the defaults for the bundled facefinder cascade.
func DefaultPigoConfig() PigoConfig {
	return PigoConfig{
		CascadePath:      config.DefaultPigoModel,
		MinSize:          40,
		MaxSize:          1000,
		ShiftFactor:      0.1,
		ScaleFactor:      1.1,
		IoUThreshold:     0.2,
		QualityThreshold: 5.0,
	}
}

// PigoDetector is a cgo-free face detector built on a pixel-intensity
// comparison cascade.
type PigoDetector struct {
	classifier *pigo.Pigo
	config     PigoConfig
	gray       *image.Gray
}

// NewPigo unpacks the cascade at cfg.CascadePath.
func NewPigo(cfg PigoConfig) (*PigoDetector, error) {
	if err := CheckModel(cfg.CascadePath); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(cfg.CascadePath)
	if err != nil {
		return nil, fmt.Errorf("detection: read cascade: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("detection: unpack cascade: %w", err)
	}

	log.Info("Pigo face detector loaded", "cascade", cfg.CascadePath, "min_size", cfg.MinSize)
	return &PigoDetector{classifier: classifier, config: cfg}, nil
}

// Detect finds faces in img. Cascade scores are unbounded, so they are mapped
// into (0, 1) with QualityThreshold landing on 0.5; only hits scoring above
// the threshold are returned.
func (d *PigoDetector) Detect(img image.Image) ([]Detection, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, vision.ErrEmptyImage
	}
	d.gray = vision.Grayscale(img, d.gray)
	size := d.gray.Bounds().Size()

	params := pigo.CascadeParams{
		MinSize:     d.config.MinSize,
		MaxSize:     d.config.MaxSize,
		ShiftFactor: d.config.ShiftFactor,
		ScaleFactor: d.config.ScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: d.gray.Pix,
			Rows:   size.Y,
			Cols:   size.X,
			Dim:    d.gray.Stride,
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, d.config.IoUThreshold)

	out := fromPigo(dets, img.Bounds(), d.config.QualityThreshold)
	if len(out) > 0 {
		debug.Trace("faces detected", "detector", "pigo", "count", len(out))
	}
	return out, nil
}

// fromPigo converts cascade hits (center plus side length, relative to the
// image origin) into boxes in bounds' coordinates.
func fromPigo(dets []pigo.Detection, bounds image.Rectangle, quality float32) []Detection {
	var out []Detection
	for _, det := range dets {
		if det.Q <= quality {
			continue
		}
		half := det.Scale / 2
		col, row := bounds.Min.X+det.Col, bounds.Min.Y+det.Row
		box, ok := ClampBox(col-half, row-half, col+half, row+half, bounds)
		if !ok {
			continue
		}
		out = append(out, Detection{Box: box, Confidence: pigoConfidence(det.Q, quality)})
	}
	return out
}

// pigoConfidence maps q onto (0, 1) so that q == quality gives 0.5.
func pigoConfidence(q, quality float32) float64 {
	if quality <= 0 {
		quality = 1
	}
	if q <= 0 {
		return 0
	}
	return float64(q / (q + quality))
}

// Close is a no-op; the cascade is plain Go memory.
func (d *PigoDetector) Close() error {
	return nil
}
