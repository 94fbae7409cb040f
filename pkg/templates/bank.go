package templates

import (
	"fmt"
	"image"

	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/debug"
	"github.com/teslashibe/go-facerange/pkg/vision"
)

// ScaleRange is an inclusive scale sweep, walked from Largest down.
type ScaleRange struct {
	Smallest float64
	Largest  float64
	Step     float64
}

// Config holds the scale sweeps used by the bank.
type Config struct {
	// Reference is the sparse sweep used only to validate refresh crops.
	Reference ScaleRange

	// Working is the dense sweep searched every frame after Init.
	Working ScaleRange

	// RefreshStep is the step used when the working set is regenerated by
	// Update, regardless of Working.Step.
	RefreshStep float64
}

// DefaultConfig returns the standard sweeps.
func DefaultConfig() Config {
	return Config{
		Reference:   ScaleRange{Smallest: 0.1, Largest: 1.0, Step: 0.1},
		Working:     ScaleRange{Smallest: 0.6, Largest: 1.1, Step: 0.05},
		RefreshStep: 0.05,
	}
}

// Bank owns the reference and working template sets for one tracked face.
type Bank struct {
	ops     vision.Ops
	config  Config
	maxSize image.Point

	reference *Set
	working   *Set
}

// NewBank creates an empty bank.
func NewBank(ops vision.Ops, config Config) *Bank {
	return &Bank{ops: ops, config: config}
}

// Init replaces both sets with renderings of crop. maxSize bounds every
// template, normally the frame size.
func (b *Bank) Init(crop *image.Gray, maxSize image.Point) error {
	b.Reset()
	b.maxSize = maxSize

	ref, err := Generate(b.ops, crop, b.config.Reference.Smallest, b.config.Reference.Largest, b.config.Reference.Step, maxSize)
	if err != nil {
		return fmt.Errorf("reference set: %w", err)
	}
	work, err := Generate(b.ops, crop, b.config.Working.Smallest, b.config.Working.Largest, b.config.Working.Step, maxSize)
	if err != nil {
		return fmt.Errorf("working set: %w", err)
	}

	b.reference, b.working = ref, work
	log.Info("template bank initialized",
		"crop", crop.Bounds().Size(),
		"reference", ref.Len(),
		"working", work.Len(),
		"bytes", ref.Bytes()+work.Bytes())
	return nil
}

// Update regenerates the working set from crop if crop still looks like the
// reference face.
//
// Every reference variant is resized (nearest neighbour) to crop's size and
// correlated against it; the score is read at the origin cell, i.e. the crop
// is assumed to be aligned already. The working set is regenerated only when
// the best such score exceeds threshold. It returns whether a refresh
// happened and the best reference score.
func (b *Bank) Update(crop *image.Gray, smallest, largest, threshold float64) (bool, float64, error) {
	if vision.IsEmpty(crop) {
		return false, 0, ErrEmptyCrop
	}
	if b.reference == nil {
		return false, 0, ErrNotInitialized
	}

	size := crop.Bounds().Size()
	best := 0.0
	for i := 0; i < b.reference.Len(); i++ {
		ref, err := b.ops.Resize(b.reference.At(i).Image, size, vision.InterpolationNearest)
		if err != nil {
			return false, best, fmt.Errorf("templates: normalize reference %d: %w", i, err)
		}
		m, err := b.ops.MatchTemplate(crop, ref)
		if err != nil {
			return false, best, fmt.Errorf("templates: validate against reference %d: %w", i, err)
		}
		if s := m.At(0, 0); s > best {
			best = s
		}
	}

	if best <= threshold {
		debug.Trace("refresh skipped", "reference_score", best, "threshold", threshold)
		return false, best, nil
	}

	work, err := Generate(b.ops, crop, smallest, largest, b.config.RefreshStep, b.maxSize)
	if err != nil {
		return false, best, fmt.Errorf("working set: %w", err)
	}
	if work.Len() == 0 {
		log.Warn("template refresh produced an empty working set", "crop", size, "max_size", b.maxSize)
	}
	b.working = work
	debug.Trace("working set refreshed", "templates", work.Len(), "reference_score", best)
	return true, best, nil
}

// Reset drops both sets.
func (b *Bank) Reset() {
	b.reference = nil
	b.working = nil
}

// Reference returns the validation set, or nil before Init.
func (b *Bank) Reference() *Set {
	return b.reference
}

// Working returns the search set, or nil before Init.
func (b *Bank) Working() *Set {
	return b.working
}

// MaxSize returns the size bound captured at Init.
func (b *Bank) MaxSize() image.Point {
	return b.maxSize
}
