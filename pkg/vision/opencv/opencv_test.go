package opencv

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

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

func TestGrayMatRoundTrip(t *testing.T) {
	src := noiseImage(13, 7, 1)

	m, err := GrayToMat(src)
	if err != nil {
		t.Fatalf("GrayToMat: %v", err)
	}
	defer m.Close()

	if m.Cols() != 13 || m.Rows() != 7 {
		t.Fatalf("mat size = %dx%d, want 13x7", m.Cols(), m.Rows())
	}

	back, err := MatToGray(m)
	if err != nil {
		t.Fatalf("MatToGray: %v", err)
	}
	for i := range src.Pix {
		if back.Pix[i] != src.Pix[i] {
			t.Fatalf("pixel %d: got %d, want %d", i, back.Pix[i], src.Pix[i])
		}
	}
}

func TestResize_Size(t *testing.T) {
	ops := New()
	out, err := ops.Resize(noiseImage(60, 80, 2), image.Pt(30, 41), vision.InterpolationArea)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if out.Bounds().Size() != image.Pt(30, 41) {
		t.Errorf("size = %v, want 30x41", out.Bounds().Size())
	}
}

func TestRotate_KeepsSizeAndFills(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 40, 40))
	for i := range src.Pix {
		src.Pix[i] = 200
	}

	out, err := New().Rotate(src, -15, 50)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	if out.Bounds() != src.Bounds() {
		t.Errorf("bounds = %v, want %v", out.Bounds(), src.Bounds())
	}
	if out.GrayAt(0, 0).Y != 50 {
		t.Errorf("corner = %d, want fill 50", out.GrayAt(0, 0).Y)
	}
}

func TestRotate_OddSizeCentre(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 41, 41))
	src.SetGray(35, 20, color.Gray{Y: 255})

	out, err := New().Rotate(src, 90, 0)
	if err != nil {
		t.Fatalf("Rotate: %v", err)
	}
	var best uint8
	var loc image.Point
	for y := 0; y < 41; y++ {
		for x := 0; x < 41; x++ {
			if v := out.GrayAt(x, y).Y; v > best {
				best, loc = v, image.Pt(x, y)
			}
		}
	}
	if loc != image.Pt(20, 6) || best < 250 {
		t.Errorf("dot at %v (%d), want (20,6)", loc, best)
	}
}

func TestMatchTemplate_FindsCutout(t *testing.T) {
	scene := noiseImage(64, 48, 3)
	at := image.Pt(9, 17)
	tmpl := vision.Crop(scene, image.Rectangle{Min: at, Max: at.Add(image.Pt(24, 20))})

	m, err := New().MatchTemplate(scene, tmpl)
	if err != nil {
		t.Fatalf("MatchTemplate: %v", err)
	}
	if m.Width != 41 || m.Height != 29 {
		t.Fatalf("map = %dx%d, want 41x29", m.Width, m.Height)
	}

	score, loc := m.Peak()
	if score < 0.999 {
		t.Errorf("peak score = %v, want ~1", score)
	}
	if loc != at {
		t.Errorf("peak at %v, want %v", loc, at)
	}
}

func TestMean(t *testing.T) {
	g := image.NewGray(image.Rect(0, 0, 2, 2))
	copy(g.Pix, []uint8{10, 20, 30, 40})
	if got := New().Mean(g); got != 25 {
		t.Errorf("Mean = %v, want 25", got)
	}
}
