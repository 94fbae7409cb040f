package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teslashibe/go-facerange/internal/config"
	"github.com/teslashibe/go-facerange/pkg/calibration"
	"github.com/teslashibe/go-facerange/pkg/tracking"
	"github.com/teslashibe/go-facerange/pkg/tracking/detection"
	"github.com/teslashibe/go-facerange/pkg/vision/native"
)

func TestTrackingConfig(t *testing.T) {
	saved, savedProfile := settings, profile
	t.Cleanup(func() { settings, profile = saved, savedProfile })

	tests := []struct {
		profile string
		gender  string
		want    float64 // MinReportScore
		wantErr bool
	}{
		{"default", "male", tracking.DefaultConfig().MinReportScore, false},
		{"", "female", tracking.DefaultConfig().MinReportScore, false},
		{"strict", "male", tracking.StrictConfig().MinReportScore, false},
		{"lenient", "male", tracking.LenientConfig().MinReportScore, false},
		{"reckless", "male", 0, true},
		{"default", "robot", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.profile+"/"+tt.gender, func(t *testing.T) {
			profile = tt.profile
			settings.Gender = tt.gender
			settings.HeightCm = 181

			cfg, err := trackingConfig()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.MinReportScore)
			assert.Equal(t, 181.0, cfg.UserHeightCm)
			assert.Equal(t, calibration.Gender(tt.gender), cfg.Gender)
		})
	}
}

func TestVisionOps(t *testing.T) {
	saved := settings
	t.Cleanup(func() { settings = saved })

	settings.Backend = "native"
	ops, err := visionOps()
	require.NoError(t, err)
	assert.IsType(t, &native.Ops{}, ops)

	settings.Backend = "cuda"
	_, err = visionOps()
	assert.Error(t, err)
}

func TestAnalyzeSummary(t *testing.T) {
	s := &analyzeSummary{}
	for _, d := range []float64{1.2, 0.8, 2.0} {
		s.OnReading(tracking.Reading{Distance: d})
	}
	assert.Equal(t, 3, s.readings)
	assert.Equal(t, 0.8, s.min)
	assert.Equal(t, 2.0, s.max)
	assert.InDelta(t, 4.0, s.sum, 1e-9)
}

func TestOpenDetector(t *testing.T) {
	for _, kind := range []string{"ssd", "yunet", "pigo"} {
		t.Run(kind, func(t *testing.T) {
			_, err := openDetector(kind, "/nonexistent/model")
			assert.True(t, errors.Is(err, detection.ErrModelNotFound), "got %v", err)
		})
	}

	_, err := openDetector("haar", "")
	assert.ErrorContains(t, err, "unknown detector")
}

func TestModelPathFollowsDetector(t *testing.T) {
	saved := settings
	t.Cleanup(func() { settings = saved })

	settings.Model = ""
	for kind, want := range map[string]string{
		"ssd":   config.DefaultSSDModel,
		"yunet": config.DefaultYuNetModel,
		"pigo":  config.DefaultPigoModel,
	} {
		settings.Detector = kind
		assert.Equal(t, want, settings.ModelPath(), kind)
	}

	settings.Model = "/opt/models/custom.onnx"
	assert.Equal(t, "/opt/models/custom.onnx", settings.ModelPath())
}
