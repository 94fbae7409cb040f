package tracking

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"io"

	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/matching"
)

// FrameSource yields frames until it returns io.EOF.
type FrameSource interface {
	Next(ctx context.Context) (draw.Image, error)
}

// FrameSink receives every frame after tracking, annotated when a reading
// was produced.
type FrameSink interface {
	WriteFrame(frame image.Image, res *matching.Result)
}

// Runner drives a tracker from a frame source, one cycle per frame.
type Runner struct {
	Tracker *Tracker
	Source  FrameSource
	Sink    FrameSink // Optional
}

// Run processes frames until ctx is done or the source is exhausted.
// Exhaustion is not an error. Frames are still forwarded to the sink while
// the tracker is unlocked.
func (r *Runner) Run(ctx context.Context) error {
	var processed int
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := r.Source.Next(ctx)
		if errors.Is(err, io.EOF) {
			log.Info("frame source exhausted", "frames", processed)
			return nil
		}
		if err != nil {
			return fmt.Errorf("tracking: read frame: %w", err)
		}
		processed++

		var res *matching.Result
		if r.Tracker.Stage() != StageNone {
			res, err = r.Tracker.Detect(frame)
			if err != nil && !errors.Is(err, ErrNotLocked) {
				log.Warn("tracking cycle failed", "frame", processed, "error", err)
			}
		}

		if r.Sink != nil {
			r.Sink.WriteFrame(frame, res)
		}
	}
}
