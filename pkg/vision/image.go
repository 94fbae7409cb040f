package vision

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Grayscale converts src into dst, reusing dst when it already has the right
// size. The returned image always has its origin at (0, 0).
func Grayscale(src image.Image, dst *image.Gray) *image.Gray {
	size := src.Bounds().Size()
	if dst == nil || dst.Bounds() != (image.Rectangle{Max: size}) {
		dst = image.NewGray(image.Rectangle{Max: size})
	}
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// Crop copies the part of src inside r into a new origin-based image.
// r is clipped to src's bounds.
func Crop(src *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(src.Bounds())
	dst := image.NewGray(image.Rectangle{Max: r.Size()})
	for y := 0; y < r.Dy(); y++ {
		so := src.PixOffset(r.Min.X, r.Min.Y+y)
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+r.Dx()], src.Pix[so:so+r.Dx()])
	}
	return dst
}

// Compact returns g if it is origin-based and tightly packed, otherwise a copy
// that is.
func Compact(g *image.Gray) *image.Gray {
	b := g.Bounds()
	if b.Min == (image.Point{}) && g.Stride == b.Dx() && len(g.Pix) == b.Dx()*b.Dy() {
		return g
	}
	return Crop(g, b)
}

// DrawRect draws a one pixel outline of r onto dst.
func DrawRect(dst draw.Image, r image.Rectangle, c color.Color) {
	r = r.Intersect(dst.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		dst.Set(x, r.Min.Y, c)
		dst.Set(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		dst.Set(r.Min.X, y, c)
		dst.Set(r.Max.X-1, y, c)
	}
}

// GrayToRGBA expands a grayscale buffer into a 3-channel preview.
func GrayToRGBA(g *image.Gray) *image.RGBA {
	dst := image.NewRGBA(image.Rectangle{Max: g.Bounds().Size()})
	draw.Draw(dst, dst.Bounds(), g, g.Bounds().Min, draw.Src)
	return dst
}

// RotationMatrix returns the 2x3 affine transform that rotates by angle
// degrees (counter-clockwise on screen) about (cx, cy), as
// cv::getRotationMatrix2D does at scale 1. The centre is not rounded.
func RotationMatrix(cx, cy, angle float64) f64.Aff3 {
	rad := angle * math.Pi / 180
	a, s := math.Cos(rad), math.Sin(rad)
	return f64.Aff3{
		a, s, (1-a)*cx - s*cy,
		-s, a, s*cx + (1-a)*cy,
	}
}
