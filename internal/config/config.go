// Package config provides configuration helpers for go-facerange commands.
package config

import (
	"os"
	"strconv"
)

// Defaults used when the environment does not override them.
const (
	DefaultPort       = "8090"
	DefaultDBPath     = "facerange.db"
	DefaultCamera     = "0"
	DefaultDetector   = "ssd"
	DefaultBackend    = "opencv"
	DefaultHeightCm   = 175.0
	DefaultGender     = "male"
	DefaultLogLevel   = "info"
	DefaultSSDModel   = "models/opencv_face_detector_uint8.pb"
	DefaultSSDConfig  = "models/opencv_face_detector.pbtxt"
	DefaultYuNetModel = "models/face_detection_yunet.onnx"
	DefaultPigoModel  = "models/facefinder"
)

// Settings holds process-level settings resolved from the environment.
type Settings struct {
	Port     string
	DBPath   string
	Camera   string
	Detector string // ssd, yunet or pigo
	Model    string // Overrides the detector's default model path when set
	Backend  string // opencv or native
	HeightCm float64
	Gender   string
	LogLevel string
}

// Load reads FACERANGE_* variables, falling back to defaults.
func Load() Settings {
	return Settings{
		Port:     String("FACERANGE_PORT", DefaultPort),
		DBPath:   String("FACERANGE_DB", DefaultDBPath),
		Camera:   String("FACERANGE_CAMERA", DefaultCamera),
		Detector: String("FACERANGE_DETECTOR", DefaultDetector),
		Model:    String("FACERANGE_MODEL", ""),
		Backend:  String("FACERANGE_BACKEND", DefaultBackend),
		HeightCm: Float("FACERANGE_HEIGHT_CM", DefaultHeightCm),
		Gender:   String("FACERANGE_GENDER", DefaultGender),
		LogLevel: String("LOG_LEVEL", DefaultLogLevel),
	}
}

// ModelPath returns the configured model, or the default for the detector.
func (s Settings) ModelPath() string {
	if s.Model != "" {
		return s.Model
	}
	switch s.Detector {
	case "yunet":
		return DefaultYuNetModel
	case "pigo":
		return DefaultPigoModel
	default:
		return DefaultSSDModel
	}
}

// String returns the env var value or the provided default if unset.
func String(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// Float returns the env var parsed as float64.
// Falls back to def when unset or unparsable.
func Float(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}
