// Package matching locates the tracked face in a frame by correlating it
// against a block-structured template set.
package matching

import (
	"fmt"
	"image"

	"github.com/teslashibe/go-facerange/pkg/templates"
	"github.com/teslashibe/go-facerange/pkg/vision"
)

const (
	// coarseStride examines every third block: one block evaluated, two skipped.
	coarseStride = 3 * templates.BlockSize

	// refineOffset reaches the same orientation one scale block away.
	refineOffset = templates.BlockSize
)

// Result is the outcome of a successful search.
type Result struct {
	Box     image.Rectangle    // Scene coordinates of the matched template
	Score   float64            // Peak correlation, floored at 0
	Scale   float64            // Scale of the winning template
	Variant *templates.Variant // Winning template, owned by its set
	Index   int                // Position of Variant in the searched set

	// Preview is a 3-channel copy of the winning template.
	Preview *image.RGBA

	// Distance is filled in by the tracker once the match is converted.
	Distance float64
}

// Candidate is one evaluated template.
type Candidate struct {
	Score float64
	Box   image.Rectangle
}

// Evaluate correlates tmpl against scene, floors negative scores at zero
// and returns the peak with the template-sized box at its location.
func Evaluate(ops vision.Ops, scene, tmpl *image.Gray) (Candidate, error) {
	m, err := ops.MatchTemplate(scene, tmpl)
	if err != nil {
		return Candidate{}, err
	}
	m.Floor(0)
	score, loc := m.Peak()
	return Candidate{
		Score: score,
		Box:   image.Rectangle{Min: loc, Max: loc.Add(tmpl.Bounds().Size())},
	}, nil
}

// Accepts reports whether a candidate scoring score replaces the current
// best. Both comparisons are strict, so ties keep the earlier candidate.
func Accepts(score, threshold, current float64) bool {
	return score > threshold && score > current
}

type search struct {
	ops   vision.Ops
	scene *image.Gray
	set   *templates.Set

	threshold float64
	best      Candidate
	index     int
}

func (s *search) try(i int) error {
	v := s.set.At(i)
	if v.Image.Bounds().Dx() > s.scene.Bounds().Dx() || v.Image.Bounds().Dy() > s.scene.Bounds().Dy() {
		return nil
	}
	c, err := Evaluate(s.ops, s.scene, v.Image)
	if err != nil {
		return fmt.Errorf("matching: template %d: %w", i, err)
	}
	if Accepts(c.Score, s.threshold, s.best.Score) {
		s.best, s.index = c, i
	}
	return nil
}

// BestMatch searches scene for the best template of set.
//
// The coarse pass evaluates whole blocks at block starts 0, 9, 18, ... (every
// third block). If it found anything, the refine pass evaluates the single
// templates one block before and after the winner, keeping the winner's
// orientation. A candidate only replaces the running best when it beats
// both threshold and the best so far. It returns nil when nothing scored
// above zero.
func BestMatch(ops vision.Ops, scene *image.Gray, set *templates.Set, threshold float64) (*Result, error) {
	if vision.IsEmpty(scene) {
		return nil, vision.ErrEmptyImage
	}
	n := set.Len()
	s := &search{ops: ops, scene: scene, set: set, threshold: threshold, index: -1}

	for i := 1; i < n; i += coarseStride {
		for k := i - 1; k <= i+1 && k < n; k++ {
			if err := s.try(k); err != nil {
				return nil, err
			}
		}
	}

	if j := s.index; j >= 0 {
		if j-refineOffset >= 0 {
			if err := s.try(j - refineOffset); err != nil {
				return nil, err
			}
		}
		if j+refineOffset < n {
			if err := s.try(j + refineOffset); err != nil {
				return nil, err
			}
		}
	}

	if s.index < 0 || s.best.Score <= 0 {
		return nil, nil
	}

	v := set.At(s.index)
	return &Result{
		Box:     s.best.Box,
		Score:   s.best.Score,
		Scale:   v.Scale,
		Variant: v,
		Index:   s.index,
		Preview: vision.GrayToRGBA(v.Image),
	}, nil
}
