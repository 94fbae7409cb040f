// Package opencv implements vision.Ops on top of gocv.
//
// Every call converts its *image.Gray inputs to gocv Mats and closes all Mats
// before returning, so no OpenCV memory outlives a call.
package opencv

import (
	"fmt"
	"image"
	"image/color"

	"github.com/teslashibe/go-facerange/pkg/vision"
	"gocv.io/x/gocv"
)

// Ops is the gocv backend. The zero value is ready to use.
type Ops struct{}

// New returns an OpenCV-backed vision backend.
func New() *Ops {
	return &Ops{}
}

var _ vision.Ops = (*Ops)(nil)

func interpolationFlag(interp vision.Interpolation) gocv.InterpolationFlags {
	switch interp {
	case vision.InterpolationLinear:
		return gocv.InterpolationLinear
	case vision.InterpolationNearest:
		return gocv.InterpolationNearestNeighbor
	default:
		return gocv.InterpolationArea
	}
}

// Resize scales src to size with cv::resize.
func (o *Ops) Resize(src *image.Gray, size image.Point, interp vision.Interpolation) (*image.Gray, error) {
	if vision.IsEmpty(src) {
		return nil, vision.ErrEmptyImage
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("opencv: invalid resize target %v", size)
	}

	in, err := GrayToMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.Resize(in, &out, size, 0, 0, interpolationFlag(interp))
	if out.Empty() {
		return nil, fmt.Errorf("opencv: resize to %v produced no data", size)
	}
	return MatToGray(out)
}

// Rotate rotates src with cv::warpAffine and a constant border.
func (o *Ops) Rotate(src *image.Gray, angle float64, fill uint8) (*image.Gray, error) {
	if vision.IsEmpty(src) {
		return nil, vision.ErrEmptyImage
	}

	in, err := GrayToMat(src)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	m := rotationMat(in.Cols(), in.Rows(), angle)
	defer m.Close()

	out := gocv.NewMat()
	defer out.Close()
	border := color.RGBA{R: fill, G: fill, B: fill, A: 255}
	gocv.WarpAffineWithParams(in, &out, m, image.Pt(in.Cols(), in.Rows()),
		gocv.InterpolationLinear, gocv.BorderConstant, border)
	if out.Empty() {
		return nil, fmt.Errorf("opencv: rotate by %.1f produced no data", angle)
	}
	return MatToGray(out)
}

// rotationMat builds the warp matrix by hand. gocv.GetRotationMatrix2D only
// takes an integer centre, which is half a pixel off on odd sizes.
func rotationMat(w, h int, angle float64) gocv.Mat {
	aff := vision.RotationMatrix(float64(w)/2, float64(h)/2, angle)
	m := gocv.NewMatWithSize(2, 3, gocv.MatTypeCV64F)
	for i, v := range aff {
		m.SetDoubleAt(i/3, i%3, v)
	}
	return m
}

// Mean returns cv::mean of the single channel.
func (o *Ops) Mean(src *image.Gray) float64 {
	if vision.IsEmpty(src) {
		return 0
	}
	in, err := GrayToMat(src)
	if err != nil {
		return 0
	}
	defer in.Close()
	return in.Mean().Val1
}

// MatchTemplate runs cv::matchTemplate with TM_CCOEFF_NORMED.
func (o *Ops) MatchTemplate(scene, tmpl *image.Gray) (*vision.ScoreMap, error) {
	if err := vision.CheckTemplate(scene, tmpl); err != nil {
		return nil, err
	}

	s, err := GrayToMat(scene)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	t, err := GrayToMat(tmpl)
	if err != nil {
		return nil, err
	}
	defer t.Close()

	res := gocv.NewMat()
	defer res.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	gocv.MatchTemplate(s, t, &res, gocv.TmCcoeffNormed, mask)
	if res.Empty() {
		return nil, fmt.Errorf("opencv: match template produced no scores")
	}

	data, err := res.DataPtrFloat32()
	if err != nil {
		return nil, fmt.Errorf("opencv: read scores: %w", err)
	}
	out := vision.NewScoreMap(res.Cols(), res.Rows())
	for i, v := range data[:len(out.Data)] {
		out.Data[i] = float64(v)
	}
	return out, nil
}
