package main

import (
	"fmt"
	"image"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/teslashibe/go-facerange/pkg/camera"
	"github.com/teslashibe/go-facerange/pkg/matching"
	"github.com/teslashibe/go-facerange/pkg/store"
	"github.com/teslashibe/go-facerange/pkg/tracking"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <video>",
	Short: "Track a recorded video and store its readings",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tracker, detector, err := newTracker()
		if err != nil {
			return err
		}
		defer detector.Close()

		cfg := camera.FileConfig()
		cfg.Device = args[0]
		source, err := camera.Open(cfg)
		if err != nil {
			return err
		}
		defer source.Close()

		if settings.DBPath != "" {
			st, err := store.Open(settings.DBPath)
			if err != nil {
				return err
			}
			defer st.Close()
			tracker.AddObserver(st)
		}

		total := source.FrameCount()
		if total <= 0 {
			total = -1
		}
		bar := progressbar.NewOptions(total,
			progressbar.OptionSetDescription("📼 Analyzing"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionShowCount(),
		)
		summary := &analyzeSummary{bar: bar}
		tracker.AddObserver(summary)

		tracker.Lock()
		runner := &tracking.Runner{Tracker: tracker, Source: source, Sink: summary}
		if err := runner.Run(cmd.Context()); err != nil {
			return err
		}
		bar.Finish()

		summary.print(tracker.Status())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// analyzeSummary advances the progress bar and aggregates readings.
type analyzeSummary struct {
	bar      *progressbar.ProgressBar
	frames   int
	readings int
	sum      float64
	min, max float64
}

func (a *analyzeSummary) WriteFrame(image.Image, *matching.Result) {
	a.frames++
	a.bar.Add(1)
}

func (a *analyzeSummary) OnSession(sess tracking.Session) {
	a.bar.Describe(fmt.Sprintf("🔒 Locked at frame %d", a.frames+1))
}

func (a *analyzeSummary) OnReading(r tracking.Reading) {
	if a.readings == 0 || r.Distance < a.min {
		a.min = r.Distance
	}
	if r.Distance > a.max {
		a.max = r.Distance
	}
	a.readings++
	a.sum += r.Distance
}

func (a *analyzeSummary) print(status tracking.Status) {
	fmt.Fprintf(os.Stderr, "\n🏁 Analysis complete: %d frames, %d readings\n", a.frames, a.readings)
	if status.Session == nil {
		fmt.Fprintln(os.Stderr, "⚠️  No face was detected")
		return
	}
	fmt.Fprintf(os.Stderr, "   Session:  %s\n", status.Session.ID)
	fmt.Fprintf(os.Stderr, "   Focal:    %.1f\n", status.Session.Model.FocalLength)
	if a.readings > 0 {
		fmt.Fprintf(os.Stderr, "   Distance: min %.2fm, mean %.2fm, max %.2fm\n",
			a.min, a.sum/float64(a.readings), a.max)
	}
}
