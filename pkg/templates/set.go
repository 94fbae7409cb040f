// Package templates builds and maintains the bank of synthetic face templates
// used to follow a face from frame to frame.
//
// A template set is an ordered list of blocks. Each block holds BlockSize
// variants rendered at one scale, one per entry of Orientations, and blocks
// are ordered by strictly decreasing scale. The search in pkg/matching walks
// sets using the same layout, so both sides share BlockSize.
package templates

import "image"

// Orientations are the in-plane rotations, in degrees, rendered for every scale.
var Orientations = [...]float64{-15, 0, 15}

// BlockSize is the number of consecutive variants that share a scale.
const BlockSize = len(Orientations)

// MinSide is the smallest width or height, in pixels, a template may have.
const MinSide = 20

// Variant is one scale and orientation rendering of the tracked face.
type Variant struct {
	Image     *image.Gray
	Scale     float64 // Resize ratio relative to the source crop
	Angle     float64 // Rotation in degrees
	Canonical bool    // Rendered at scale 1.0, whatever the angle
}

// Size returns the template's pixel dimensions.
func (v *Variant) Size() image.Point {
	return v.Image.Bounds().Size()
}

// Set is an ordered, block-structured collection of variants. All pixel data
// lives in one contiguous arena so walking the set touches a single buffer.
type Set struct {
	variants []Variant
	arena    []uint8
}

// NewSet packs the variants' pixels into one arena. The variants must
// already follow the block layout.
func NewSet(vs []Variant) *Set {
	total := 0
	for i := range vs {
		total += len(vs[i].Image.Pix)
	}

	arena := make([]uint8, total)
	off := 0
	for i := range vs {
		img := vs[i].Image
		n := copy(arena[off:], img.Pix)
		vs[i].Image = &image.Gray{
			Pix:    arena[off : off+n : off+n],
			Stride: img.Stride,
			Rect:   img.Rect,
		}
		off += n
	}
	return &Set{variants: vs, arena: arena}
}

// Len returns the number of variants. A nil set is empty.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.variants)
}

// At returns the i-th variant.
func (s *Set) At(i int) *Variant {
	return &s.variants[i]
}

// Blocks returns the number of scale blocks.
func (s *Set) Blocks() int {
	return s.Len() / BlockSize
}

// Block returns the variants of block b, one per orientation.
func (s *Set) Block(b int) []Variant {
	return s.variants[b*BlockSize : (b+1)*BlockSize]
}

// Scales returns the scale of each block, largest first.
func (s *Set) Scales() []float64 {
	out := make([]float64, 0, s.Blocks())
	for b := 0; b < s.Blocks(); b++ {
		out = append(out, s.variants[b*BlockSize].Scale)
	}
	return out
}

// Bytes returns the size of the pixel arena.
func (s *Set) Bytes() int {
	if s == nil {
		return 0
	}
	return len(s.arena)
}
