package opencv

import (
	"fmt"
	"image"

	"github.com/teslashibe/go-facerange/pkg/vision"
	"golang.org/x/image/draw"
	"gocv.io/x/gocv"
)

// GrayToMat copies a grayscale image into a new CV_8UC1 Mat.
// The caller must Close the returned Mat.
func GrayToMat(g *image.Gray) (gocv.Mat, error) {
	if vision.IsEmpty(g) {
		return gocv.NewMat(), vision.ErrEmptyImage
	}
	g = vision.Compact(g)
	b := g.Bounds()
	m, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8U, g.Pix)
	if err != nil {
		return m, fmt.Errorf("opencv: mat from gray: %w", err)
	}
	// NewMatFromBytes may share the Go buffer; clone so the Mat owns its data.
	owned := m.Clone()
	m.Close()
	return owned, nil
}

// MatToGray copies a CV_8UC1 Mat into a new *image.Gray.
func MatToGray(m gocv.Mat) (*image.Gray, error) {
	if m.Empty() {
		return nil, vision.ErrEmptyImage
	}
	if m.Type() != gocv.MatTypeCV8U {
		return nil, fmt.Errorf("opencv: expected CV_8UC1, got %v", m.Type())
	}
	pix, err := m.DataPtrUint8()
	if err != nil {
		return nil, fmt.Errorf("opencv: read pixels: %w", err)
	}
	g := image.NewGray(image.Rect(0, 0, m.Cols(), m.Rows()))
	copy(g.Pix, pix)
	return g, nil
}

// ImageToBGR converts any image into a 3-channel BGR Mat for DNN input.
// The caller must Close the returned Mat.
func ImageToBGR(img image.Image) (gocv.Mat, error) {
	if img == nil || img.Bounds().Empty() {
		return gocv.NewMat(), vision.ErrEmptyImage
	}
	m, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return m, fmt.Errorf("opencv: mat from image: %w", err)
	}
	return m, nil
}

// MatToRGBA converts a BGR or grayscale frame Mat into a drawable RGBA image.
func MatToRGBA(m gocv.Mat) (*image.RGBA, error) {
	if m.Empty() {
		return nil, vision.ErrEmptyImage
	}
	img, err := m.ToImage()
	if err != nil {
		return nil, fmt.Errorf("opencv: mat to image: %w", err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(image.Rectangle{Max: img.Bounds().Size()})
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
