package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"FACERANGE_PORT", "FACERANGE_DB", "FACERANGE_DETECTOR", "FACERANGE_MODEL", "FACERANGE_HEIGHT_CM"} {
		t.Setenv(k, "")
	}

	s := Load()
	if s.Port != DefaultPort {
		t.Errorf("Port = %q, want %q", s.Port, DefaultPort)
	}
	if s.HeightCm != DefaultHeightCm {
		t.Errorf("HeightCm = %v, want %v", s.HeightCm, DefaultHeightCm)
	}
	if s.ModelPath() != DefaultSSDModel {
		t.Errorf("ModelPath = %q, want %q", s.ModelPath(), DefaultSSDModel)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("FACERANGE_PORT", "9999")
	t.Setenv("FACERANGE_HEIGHT_CM", "162.5")
	t.Setenv("FACERANGE_DETECTOR", "yunet")
	t.Setenv("FACERANGE_MODEL", "")

	s := Load()
	if s.Port != "9999" {
		t.Errorf("Port = %q, want 9999", s.Port)
	}
	if s.HeightCm != 162.5 {
		t.Errorf("HeightCm = %v, want 162.5", s.HeightCm)
	}
	if s.ModelPath() != DefaultYuNetModel {
		t.Errorf("ModelPath = %q, want %q", s.ModelPath(), DefaultYuNetModel)
	}
}

func TestFloat_Unparsable(t *testing.T) {
	t.Setenv("FACERANGE_HEIGHT_CM", "tall")
	if got := Float("FACERANGE_HEIGHT_CM", 170); got != 170 {
		t.Errorf("Float = %v, want fallback 170", got)
	}
}
