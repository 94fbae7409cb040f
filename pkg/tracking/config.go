package tracking

import (
	"image/color"

	"github.com/teslashibe/go-facerange/pkg/calibration"
	"github.com/teslashibe/go-facerange/pkg/templates"
)

// Config holds all tunable parameters for face tracking
type Config struct {
	// Matching
	MatchFloor          float64 // Acceptance threshold inside the search
	MinReportScore      float64 // Matches below this produce no reading
	CanonicalTrustScore float64 // Canonical matches at or above this skip refresh

	// Adaptive refresh
	RefreshThreshold     float64 // Reference score a crop must exceed
	RefreshSmallestScale float64
	RefreshLargestScale  float64

	// Calibration
	UserHeightCm float64
	Gender       calibration.Gender
	TuneBias     calibration.Bias

	// Annotation
	BoxColor color.RGBA

	Templates templates.Config
}

// DefaultConfig returns the standard tracking configuration
func DefaultConfig() Config {
	return Config{
		MatchFloor:          0.0,
		MinReportScore:      0.6,
		CanonicalTrustScore: 0.95,

		RefreshThreshold:     0.75,
		RefreshSmallestScale: 0.6,
		RefreshLargestScale:  1.5,

		UserHeightCm: 175,
		Gender:       calibration.Male,
		TuneBias:     0,

		BoxColor: color.RGBA{G: 255, A: 255},

		Templates: templates.DefaultConfig(),
	}
}

// StrictConfig reports fewer, more trustworthy readings and refreshes less
func StrictConfig() Config {
	cfg := DefaultConfig()
	cfg.MinReportScore = 0.7
	cfg.CanonicalTrustScore = 0.97
	cfg.RefreshThreshold = 0.8
	return cfg
}

// LenientConfig keeps reporting through poor lighting and fast motion
func LenientConfig() Config {
	cfg := DefaultConfig()
	cfg.MinReportScore = 0.5
	cfg.CanonicalTrustScore = 0.9
	cfg.RefreshThreshold = 0.7
	return cfg
}
