package tracking

import (
	"testing"

	"github.com/teslashibe/go-facerange/pkg/calibration"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.MatchFloor != 0.0 {
		t.Errorf("Expected MatchFloor=0, got %v", cfg.MatchFloor)
	}
	if cfg.MinReportScore != 0.6 {
		t.Errorf("Expected MinReportScore=0.6, got %v", cfg.MinReportScore)
	}
	if cfg.CanonicalTrustScore != 0.95 {
		t.Errorf("Expected CanonicalTrustScore=0.95, got %v", cfg.CanonicalTrustScore)
	}
	if cfg.RefreshThreshold != 0.75 {
		t.Errorf("Expected RefreshThreshold=0.75, got %v", cfg.RefreshThreshold)
	}
	if cfg.RefreshSmallestScale != 0.6 || cfg.RefreshLargestScale != 1.5 {
		t.Errorf("Expected refresh scales 0.6..1.5, got %v..%v", cfg.RefreshSmallestScale, cfg.RefreshLargestScale)
	}
	if cfg.UserHeightCm != 175 || cfg.Gender != calibration.Male || cfg.TuneBias != 0 {
		t.Errorf("Unexpected calibration defaults: %v cm, %v, bias %d", cfg.UserHeightCm, cfg.Gender, cfg.TuneBias)
	}
}

func TestConfigPresets_ValidRange(t *testing.T) {
	configs := []struct {
		name string
		cfg  Config
	}{
		{"Default", DefaultConfig()},
		{"Strict", StrictConfig()},
		{"Lenient", LenientConfig()},
	}

	for _, tc := range configs {
		c := tc.cfg
		if c.MinReportScore <= c.MatchFloor || c.MinReportScore > 1 {
			t.Errorf("%s: MinReportScore=%v out of range", tc.name, c.MinReportScore)
		}
		if c.CanonicalTrustScore <= c.MinReportScore || c.CanonicalTrustScore > 1 {
			t.Errorf("%s: CanonicalTrustScore=%v should sit above MinReportScore", tc.name, c.CanonicalTrustScore)
		}
		if c.RefreshThreshold <= 0 || c.RefreshThreshold >= 1 {
			t.Errorf("%s: RefreshThreshold=%v out of range (0, 1)", tc.name, c.RefreshThreshold)
		}
	}

	if StrictConfig().MinReportScore <= DefaultConfig().MinReportScore {
		t.Error("Strict should demand higher match scores than Default")
	}
	if LenientConfig().MinReportScore >= DefaultConfig().MinReportScore {
		t.Error("Lenient should accept lower match scores than Default")
	}
}
