// Package detection defines the face detector contract used to bootstrap
// tracking, with a pure-Go Pigo backend and a scripted Mock. The OpenCV DNN
// backends live in package dnn.
package detection

import (
	"errors"
	"fmt"
	"image"
	"os"
)

// ErrModelNotFound is returned when a detector's model file is missing.
var ErrModelNotFound = errors.New("detection: model file not found")

// Detection represents a detected face in pixel coordinates.
type Detection struct {
	Box        image.Rectangle
	Confidence float64 // Detection confidence (0-1)
}

// Center returns the center point of the detection
func (d Detection) Center() image.Point {
	return image.Pt((d.Box.Min.X+d.Box.Max.X)/2, (d.Box.Min.Y+d.Box.Max.Y)/2)
}

// Area returns the area of the bounding box
func (d Detection) Area() int {
	return d.Box.Dx() * d.Box.Dy()
}

// Detector is the interface for face detection backends.
//
// Returned boxes are in the coordinate space of the image passed to Detect:
// they lie inside img.Bounds(), which need not start at (0, 0), and have
// positive size. Confidences are in [0, 1] and only detections above 0.5
// (or the backend's configured equivalent) are returned. Ordering is
// backend-defined.
type Detector interface {
	// Detect finds faces in the image and returns their positions
	Detect(img image.Image) ([]Detection, error)

	// Close releases resources
	Close() error
}

// ClampBox clamps corner coordinates into bounds the way the SSD output is
// clamped: the left/top corner into [Min, Max-1] and likewise the right/bottom
// corner. It reports false when the clamped box is degenerate.
func ClampBox(left, top, right, bottom int, bounds image.Rectangle) (image.Rectangle, bool) {
	clampInt := func(v, lo, hi int) int {
		if v < lo {
			return lo
		}
		if v > hi {
			return hi
		}
		return v
	}
	left = clampInt(left, bounds.Min.X, bounds.Max.X-1)
	right = clampInt(right, bounds.Min.X, bounds.Max.X-1)
	top = clampInt(top, bounds.Min.Y, bounds.Max.Y-1)
	bottom = clampInt(bottom, bounds.Min.Y, bounds.Max.Y-1)
	if left >= right || top >= bottom {
		return image.Rectangle{}, false
	}
	return image.Rect(left, top, right, bottom), true
}

// CheckModel returns ErrModelNotFound when path does not exist.
func CheckModel(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", ErrModelNotFound, path)
	}
	return nil
}
