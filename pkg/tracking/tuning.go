package tracking

import (
	"github.com/teslashibe/go-facerange/pkg/calibration"
)

// TuningParams holds the real-time adjustable tracking parameters.
// These can be modified via the tuning API without restarting.
type TuningParams struct {
	// Calibration inputs, used at the next lock
	UserHeightCm float64 `json:"user_height_cm"`
	Gender       string  `json:"gender"`

	// Distance bias in 5% steps (-2..2). Nil leaves it unchanged.
	TuneBias *int `json:"tune_bias,omitempty"`

	// Match thresholds
	MinReportScore      float64 `json:"min_report_score"`
	CanonicalTrustScore float64 `json:"canonical_trust_score"`
	RefreshThreshold    float64 `json:"refresh_threshold"`
}

// GetTuningParams returns current tuning parameters from the tracker.
func (t *Tracker) GetTuningParams() TuningParams {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.tuningLocked()
}

func (t *Tracker) tuningLocked() TuningParams {
	bias := int(t.config.TuneBias)
	return TuningParams{
		UserHeightCm:        t.config.UserHeightCm,
		Gender:              t.config.Gender.String(),
		TuneBias:            &bias,
		MinReportScore:      t.config.MinReportScore,
		CanonicalTrustScore: t.config.CanonicalTrustScore,
		RefreshThreshold:    t.config.RefreshThreshold,
	}
}

// SetTuningParams updates tuning parameters at runtime.
// Only non-zero values are applied; the bias is clamped to [-2, 2].
func (t *Tracker) SetTuningParams(params TuningParams) error {
	var gender calibration.Gender
	if params.Gender != "" {
		g, err := calibration.ParseGender(params.Gender)
		if err != nil {
			return err
		}
		gender = g
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if params.UserHeightCm > 0 {
		t.config.UserHeightCm = params.UserHeightCm
	}
	if gender != "" {
		t.config.Gender = gender
	}
	if params.TuneBias != nil {
		t.config.TuneBias = calibration.Bias(*params.TuneBias).Clamp()
	}
	if params.MinReportScore > 0 {
		t.config.MinReportScore = clamp(params.MinReportScore, 0, 1)
	}
	if params.CanonicalTrustScore > 0 {
		t.config.CanonicalTrustScore = clamp(params.CanonicalTrustScore, 0, 1)
	}
	if params.RefreshThreshold > 0 {
		t.config.RefreshThreshold = clamp(params.RefreshThreshold, 0, 1)
	}
	return nil
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
