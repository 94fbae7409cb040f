package templates

import (
	"fmt"
	"image"
	"math"

	"github.com/teslashibe/go-facerange/pkg/vision"
)

// Scales are compared at micro precision so stepping lands exactly on 1.0.
const scalePrecision = 1e6

func roundScale(s float64) float64 {
	return math.Round(s*scalePrecision) / scalePrecision
}

// Generate renders crop at every scale from largest down to smallest (both
// inclusive) in decrements of step, and at every orientation for each scale.
//
// A scale is skipped when either rendered side would reach maxSize, and
// generation stops at the first scale where either side drops below MinSide.
// The result is empty, not an error, when no scale qualifies.
func Generate(ops vision.Ops, crop *image.Gray, smallest, largest, step float64, maxSize image.Point) (*Set, error) {
	if vision.IsEmpty(crop) {
		return nil, ErrEmptyCrop
	}
	if step <= 0 {
		return nil, ErrInvalidStep
	}

	cs := crop.Bounds().Size()
	floor := roundScale(smallest)
	var vs []Variant

	for k := 0; ; k++ {
		s := roundScale(largest - float64(k)*step)
		if s < floor {
			break
		}

		w := int(math.Round(s * float64(cs.X)))
		h := int(math.Round(s * float64(cs.Y)))
		if w >= maxSize.X || h >= maxSize.Y {
			continue
		}
		if w < MinSide || h < MinSide {
			break
		}

		resized, err := ops.Resize(crop, image.Pt(w, h), vision.InterpolationArea)
		if err != nil {
			return nil, fmt.Errorf("templates: resize to scale %.2f: %w", s, err)
		}
		fill := uint8(math.Round(ops.Mean(resized)))

		for _, a := range Orientations {
			rotated, err := ops.Rotate(resized, a, fill)
			if err != nil {
				return nil, fmt.Errorf("templates: rotate scale %.2f by %.0f: %w", s, a, err)
			}
			vs = append(vs, Variant{
				Image:     vision.Compact(rotated),
				Scale:     s,
				Angle:     a,
				Canonical: s == 1.0,
			})
		}
	}

	return NewSet(vs), nil
}
