// Package vision defines the image primitives the tracking engine is built on.
//
// The engine only ever talks to the Ops interface; pixel-level work is done by
// a backend (pkg/vision/opencv for gocv, pkg/vision/native for pure Go).
// All images handled here are single-channel *image.Gray buffers.
package vision

import (
	"errors"
	"fmt"
	"image"
)

// Sentinel errors for primitive misuse.
var (
	// ErrEmptyImage is returned when an operation receives a nil or zero-area image.
	ErrEmptyImage = errors.New("vision: empty image")

	// ErrTemplateTooLarge is returned when a template does not fit inside the scene.
	ErrTemplateTooLarge = errors.New("vision: template larger than scene")
)

// Interpolation selects the resampling kernel used by Resize.
type Interpolation int

const (
	// InterpolationArea averages source pixels covered by each destination pixel.
	// Backends fall back to linear interpolation when enlarging.
	InterpolationArea Interpolation = iota
	// InterpolationLinear is bilinear interpolation.
	InterpolationLinear
	// InterpolationNearest picks the nearest source pixel.
	InterpolationNearest
)

// String returns the interpolation name.
func (i Interpolation) String() string {
	switch i {
	case InterpolationArea:
		return "area"
	case InterpolationLinear:
		return "linear"
	case InterpolationNearest:
		return "nearest"
	default:
		return fmt.Sprintf("interpolation(%d)", int(i))
	}
}

// Ops is the set of geometry and correlation primitives the engine needs.
type Ops interface {
	// Resize scales src to exactly size using the given interpolation.
	Resize(src *image.Gray, size image.Point, interp Interpolation) (*image.Gray, error)

	// Rotate rotates src about its center by angle degrees (positive is
	// counter-clockwise) with bilinear sampling. The output keeps src's size and
	// pixels that fall outside the source are filled with fill.
	Rotate(src *image.Gray, angle float64, fill uint8) (*image.Gray, error)

	// Mean returns the mean pixel intensity of src.
	Mean(src *image.Gray) float64

	// MatchTemplate computes the normalized correlation coefficient of tmpl
	// against every placement inside scene. The returned map is
	// (scene.W-tmpl.W+1) x (scene.H-tmpl.H+1) with values in [-1, 1].
	MatchTemplate(scene, tmpl *image.Gray) (*ScoreMap, error)
}

// CheckTemplate validates that tmpl can be slid over scene.
func CheckTemplate(scene, tmpl *image.Gray) error {
	if IsEmpty(scene) || IsEmpty(tmpl) {
		return ErrEmptyImage
	}
	ss, ts := scene.Bounds().Size(), tmpl.Bounds().Size()
	if ts.X > ss.X || ts.Y > ss.Y {
		return fmt.Errorf("%w: %v > %v", ErrTemplateTooLarge, ts, ss)
	}
	return nil
}

// IsEmpty reports whether g is nil or has no pixels.
func IsEmpty(g *image.Gray) bool {
	return g == nil || g.Bounds().Empty()
}
