package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/teslashibe/go-facerange/internal/config"
	"github.com/teslashibe/go-facerange/internal/log"
	"github.com/teslashibe/go-facerange/pkg/calibration"
	"github.com/teslashibe/go-facerange/pkg/debug"
	"github.com/teslashibe/go-facerange/pkg/tracking"
	"github.com/teslashibe/go-facerange/pkg/tracking/detection"
	"github.com/teslashibe/go-facerange/pkg/tracking/detection/dnn"
	"github.com/teslashibe/go-facerange/pkg/vision"
	"github.com/teslashibe/go-facerange/pkg/vision/native"
	"github.com/teslashibe/go-facerange/pkg/vision/opencv"
)

// Version is the application version.
const Version = "0.1.0"

// settings is resolved from FACERANGE_* env vars, then overridden by flags.
var (
	settings = config.Load()
	profile  string
	trace    bool
)

var rootCmd = &cobra.Command{
	Use:           "facerange",
	Short:         "Track a face and estimate its distance from the camera",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if trace {
			settings.LogLevel = "debug"
			debug.SetTracing(true)
		}
		log.Init(settings.LogLevel)
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&settings.LogLevel, "log-level", settings.LogLevel, "Log level: debug, info, warn, error")
	flags.BoolVar(&trace, "trace", false, "Log per-frame match and refresh traces (implies debug level)")
	flags.StringVar(&settings.Detector, "detector", settings.Detector, "Face detector: ssd, yunet, pigo")
	flags.StringVar(&settings.Model, "model", settings.Model, "Detector model path (default depends on --detector)")
	flags.StringVar(&settings.Backend, "backend", settings.Backend, "Image backend: opencv, native")
	flags.Float64Var(&settings.HeightCm, "height", settings.HeightCm, "User height in cm")
	flags.StringVar(&settings.Gender, "gender", settings.Gender, "User gender: male, female")
	flags.StringVar(&profile, "profile", "default", "Tracking profile: default, strict, lenient")
	flags.StringVar(&settings.DBPath, "db", settings.DBPath, "SQLite database path (empty disables persistence)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// trackingConfig builds the tracker config from the profile and settings.
func trackingConfig() (tracking.Config, error) {
	var cfg tracking.Config
	switch profile {
	case "", "default":
		cfg = tracking.DefaultConfig()
	case "strict":
		cfg = tracking.StrictConfig()
	case "lenient":
		cfg = tracking.LenientConfig()
	default:
		return cfg, fmt.Errorf("unknown profile %q", profile)
	}

	gender, err := calibration.ParseGender(settings.Gender)
	if err != nil {
		return cfg, err
	}
	cfg.Gender = gender
	cfg.UserHeightCm = settings.HeightCm
	return cfg, nil
}

func visionOps() (vision.Ops, error) {
	switch settings.Backend {
	case "", "opencv":
		return opencv.New(), nil
	case "native":
		return native.New(), nil
	}
	return nil, fmt.Errorf("unknown backend %q", settings.Backend)
}

// openDetector creates the named backend ("ssd", "yunet" or "pigo") loading
// model.
func openDetector(kind, model string) (detection.Detector, error) {
	switch kind {
	case "", "ssd":
		cfg := dnn.DefaultSSDConfig()
		cfg.ModelPath = model
		return dnn.NewSSD(cfg)
	case "yunet":
		cfg := dnn.DefaultYuNetConfig()
		cfg.ModelPath = model
		return dnn.NewYuNet(cfg)
	case "pigo":
		cfg := detection.DefaultPigoConfig()
		cfg.CascadePath = model
		return detection.NewPigo(cfg)
	}
	return nil, fmt.Errorf("unknown detector %q", kind)
}

// newTracker wires ops, detector and config. The caller closes the detector.
func newTracker() (*tracking.Tracker, detection.Detector, error) {
	cfg, err := trackingConfig()
	if err != nil {
		return nil, nil, err
	}
	ops, err := visionOps()
	if err != nil {
		return nil, nil, err
	}
	detector, err := openDetector(settings.Detector, settings.ModelPath())
	if err != nil {
		return nil, nil, fmt.Errorf("open %s detector: %w", settings.Detector, err)
	}

	log.Info("tracker ready",
		"detector", settings.Detector,
		"backend", settings.Backend,
		"profile", profile,
		"height_cm", cfg.UserHeightCm,
		"gender", cfg.Gender)
	return tracking.New(cfg, ops, detector), detector, nil
}
