// Package native implements vision.Ops in pure Go.
//
// Resampling uses golang.org/x/image/draw; correlation uses summed-area tables
// for the per-window statistics so only the cross term is computed per pixel.
package native

import (
	"fmt"
	"image"
	"math"

	"github.com/teslashibe/go-facerange/pkg/vision"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/stat"
)

// Below this, a window or template is treated as having no variance.
const varianceEpsilon = 1e-6

// boxKernel averages every source pixel under a destination pixel when
// shrinking, which is what area interpolation means.
var boxKernel = &draw.Kernel{
	Support: 0.5,
	At:      func(t float64) float64 { return 1 },
}

// Ops is the pure-Go backend. The zero value is ready to use.
type Ops struct{}

// New returns a pure-Go vision backend.
func New() *Ops {
	return &Ops{}
}

var _ vision.Ops = (*Ops)(nil)

// Resize scales src to size.
func (o *Ops) Resize(src *image.Gray, size image.Point, interp vision.Interpolation) (*image.Gray, error) {
	if vision.IsEmpty(src) {
		return nil, vision.ErrEmptyImage
	}
	if size.X <= 0 || size.Y <= 0 {
		return nil, fmt.Errorf("native: invalid resize target %v", size)
	}

	dst := image.NewGray(image.Rectangle{Max: size})
	var scaler draw.Scaler
	switch interp {
	case vision.InterpolationNearest:
		scaler = draw.NearestNeighbor
	case vision.InterpolationLinear:
		scaler = draw.BiLinear
	default:
		// Area sampling only differs from linear when shrinking.
		sb := src.Bounds().Size()
		if size.X > sb.X || size.Y > sb.Y {
			scaler = draw.BiLinear
		} else {
			scaler = boxKernel
		}
	}
	scaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst, nil
}

// Rotate rotates src about its center using OpenCV's angle convention.
func (o *Ops) Rotate(src *image.Gray, angle float64, fill uint8) (*image.Gray, error) {
	if vision.IsEmpty(src) {
		return nil, vision.ErrEmptyImage
	}
	src = vision.Compact(src)
	b := src.Bounds()

	dst := image.NewGray(b)
	for i := range dst.Pix {
		dst.Pix[i] = fill
	}

	// OpenCV puts pixel centres on integers and rotates about (w/2, h/2);
	// x/image puts them at +0.5, so the same centre shifts by half a pixel.
	s2d := vision.RotationMatrix(float64(b.Dx())/2+0.5, float64(b.Dy())/2+0.5, angle)
	draw.BiLinear.Transform(dst, s2d, src, b, draw.Src, nil)
	return dst, nil
}

// Mean returns the average intensity of src.
func (o *Ops) Mean(src *image.Gray) float64 {
	if vision.IsEmpty(src) {
		return 0
	}
	return stat.Mean(toFloats(vision.Compact(src)), nil)
}

// MatchTemplate computes TM_CCOEFF_NORMED scores for every placement.
func (o *Ops) MatchTemplate(scene, tmpl *image.Gray) (*vision.ScoreMap, error) {
	if err := vision.CheckTemplate(scene, tmpl); err != nil {
		return nil, err
	}
	scene, tmpl = vision.Compact(scene), vision.Compact(tmpl)

	sw, sh := scene.Bounds().Dx(), scene.Bounds().Dy()
	tw, th := tmpl.Bounds().Dx(), tmpl.Bounds().Dy()
	n := float64(tw * th)

	// Zero-mean template; the scene mean then drops out of the cross term.
	t := toFloats(tmpl)
	meanT := stat.Mean(t, nil)
	var normT2 float64
	for i := range t {
		t[i] -= meanT
		normT2 += t[i] * t[i]
	}
	normT := math.Sqrt(normT2)

	f := toFloats(scene)
	sat := newSummedArea(f, sw, sh)

	out := vision.NewScoreMap(sw-tw+1, sh-th+1)
	if normT < varianceEpsilon {
		return out, nil
	}

	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			sum, sum2 := sat.window(x, y, tw, th)
			varW := sum2 - sum*sum/n
			if varW < varianceEpsilon {
				continue
			}

			var num float64
			for j := 0; j < th; j++ {
				row := f[(y+j)*sw+x : (y+j)*sw+x+tw]
				trow := t[j*tw : (j+1)*tw]
				for i, v := range row {
					num += trow[i] * v
				}
			}

			r := num / (normT * math.Sqrt(varW))
			out.Set(x, y, math.Max(-1, math.Min(1, r)))
		}
	}
	return out, nil
}

// toFloats copies a compact gray image into a float slice.
func toFloats(g *image.Gray) []float64 {
	out := make([]float64, len(g.Pix))
	for i, p := range g.Pix {
		out[i] = float64(p)
	}
	return out
}
