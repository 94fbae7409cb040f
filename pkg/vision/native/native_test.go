package native

import (
	"errors"
	"image"
	"image/color"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-facerange/pkg/vision"
)

func noiseImage(w, h int, seed int64) *image.Gray {
	rng := rand.New(rand.NewSource(seed))
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.Intn(256))
	}
	return g
}

func solidImage(w, h int, v uint8) *image.Gray {
	g := image.NewGray(image.Rect(0, 0, w, h))
	for i := range g.Pix {
		g.Pix[i] = v
	}
	return g
}

func TestResize_Size(t *testing.T) {
	ops := New()
	src := noiseImage(60, 80, 1)

	for _, interp := range []vision.Interpolation{vision.InterpolationArea, vision.InterpolationLinear, vision.InterpolationNearest} {
		t.Run(interp.String(), func(t *testing.T) {
			for _, size := range []image.Point{{30, 40}, {66, 88}, {21, 20}} {
				out, err := ops.Resize(src, size, interp)
				require.NoError(t, err)
				assert.Equal(t, size, out.Bounds().Size())
			}
		})
	}
}

func TestResize_AreaPreservesConstant(t *testing.T) {
	out, err := New().Resize(solidImage(50, 50, 128), image.Pt(17, 23), vision.InterpolationArea)
	require.NoError(t, err)
	for _, p := range out.Pix {
		if p < 127 || p > 129 {
			t.Fatalf("area resize of constant image produced %d", p)
		}
	}
}

func TestResize_Errors(t *testing.T) {
	ops := New()
	_, err := ops.Resize(nil, image.Pt(10, 10), vision.InterpolationArea)
	assert.ErrorIs(t, err, vision.ErrEmptyImage)

	_, err = ops.Resize(solidImage(4, 4, 1), image.Pt(0, 10), vision.InterpolationArea)
	assert.Error(t, err)
}

func TestRotate_ZeroAngleIsIdentity(t *testing.T) {
	src := noiseImage(31, 27, 2)
	out, err := New().Rotate(src, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, src.Bounds(), out.Bounds())
	for i := range src.Pix {
		if d := int(src.Pix[i]) - int(out.Pix[i]); d < -1 || d > 1 {
			t.Fatalf("pixel %d: got %d, want %d", i, out.Pix[i], src.Pix[i])
		}
	}
}

func TestRotate_FillsCorners(t *testing.T) {
	src := solidImage(40, 40, 200)
	out, err := New().Rotate(src, 15, 77)
	require.NoError(t, err)

	assert.Equal(t, uint8(77), out.GrayAt(0, 0).Y, "top-left corner should be padding")
	assert.Equal(t, uint8(77), out.GrayAt(39, 39).Y, "bottom-right corner should be padding")
	assert.Equal(t, uint8(200), out.GrayAt(20, 20).Y, "center should be source")
}

func TestRotate_Direction(t *testing.T) {
	// A bright dot right of center moves up under a positive (counter-clockwise) angle.
	src := solidImage(41, 41, 0)
	src.SetGray(35, 20, color.Gray{Y: 255})

	out, err := New().Rotate(src, 90, 0)
	require.NoError(t, err)

	_, loc := brightest(out)
	assert.InDelta(t, 20, loc.X, 1.5)
	assert.InDelta(t, 5, loc.Y, 1.5)
}

func TestRotate_OddSizeCentre(t *testing.T) {
	// On a 41px image the centre sits between pixels 20 and 21; a quarter
	// turn must land the dot on an exact pixel, the same one OpenCV picks.
	src := solidImage(41, 41, 0)
	src.SetGray(35, 20, color.Gray{Y: 255})

	out, err := New().Rotate(src, 90, 0)
	require.NoError(t, err)

	v, loc := brightest(out)
	assert.Equal(t, image.Pt(20, 6), loc)
	assert.GreaterOrEqual(t, v, uint8(250))
}

func brightest(g *image.Gray) (uint8, image.Point) {
	var best uint8
	var loc image.Point
	for y := 0; y < g.Bounds().Dy(); y++ {
		for x := 0; x < g.Bounds().Dx(); x++ {
			if v := g.GrayAt(x, y).Y; v > best {
				best, loc = v, image.Pt(x, y)
			}
		}
	}
	return best, loc
}

func TestMean(t *testing.T) {
	ops := New()
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(g.Pix, []uint8{0, 100, 200, 100})
	assert.InDelta(t, 100, ops.Mean(g), 1e-9)
	assert.Equal(t, 0.0, ops.Mean(nil))
}

func TestMatchTemplate_FindsCutout(t *testing.T) {
	ops := New()
	scene := noiseImage(64, 48, 3)
	at := image.Pt(21, 13)
	tmpl := vision.Crop(scene, image.Rectangle{Min: at, Max: at.Add(image.Pt(20, 16))})

	m, err := ops.MatchTemplate(scene, tmpl)
	require.NoError(t, err)
	assert.Equal(t, 64-20+1, m.Width)
	assert.Equal(t, 48-16+1, m.Height)

	score, loc := m.Peak()
	assert.InDelta(t, 1.0, score, 1e-9)
	assert.Equal(t, at, loc)
}

func TestMatchTemplate_SameSizeInverted(t *testing.T) {
	ops := New()
	a := noiseImage(24, 24, 4)
	inv := image.NewGray(a.Bounds())
	for i, p := range a.Pix {
		inv.Pix[i] = 255 - p
	}

	m, err := ops.MatchTemplate(a, inv)
	require.NoError(t, err)
	require.Equal(t, 1, m.Width)
	require.Equal(t, 1, m.Height)
	assert.InDelta(t, -1.0, m.At(0, 0), 1e-9)
}

func TestMatchTemplate_FlatInputsScoreZero(t *testing.T) {
	ops := New()

	m, err := ops.MatchTemplate(noiseImage(30, 30, 5), solidImage(10, 10, 9))
	require.NoError(t, err)
	for _, v := range m.Data {
		assert.Equal(t, 0.0, v)
	}

	m, err = ops.MatchTemplate(solidImage(30, 30, 9), noiseImage(10, 10, 6))
	require.NoError(t, err)
	for _, v := range m.Data {
		assert.Equal(t, 0.0, v)
	}
}

func TestMatchTemplate_TooLarge(t *testing.T) {
	_, err := New().MatchTemplate(noiseImage(10, 10, 7), noiseImage(11, 5, 8))
	assert.True(t, errors.Is(err, vision.ErrTemplateTooLarge))
}

func TestSummedArea_Window(t *testing.T) {
	f := []float64{
		1, 2, 3,
		4, 5, 6,
	}
	s := newSummedArea(f, 3, 2)

	sum, sq := s.window(1, 0, 2, 2)
	assert.Equal(t, 2.0+3+5+6, sum)
	assert.Equal(t, 4.0+9+25+36, sq)

	sum, _ = s.window(0, 0, 3, 2)
	assert.Equal(t, 21.0, sum)
	assert.False(t, math.IsNaN(sum))
}
