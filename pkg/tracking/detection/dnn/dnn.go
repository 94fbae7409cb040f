// Package dnn holds the OpenCV-backed face detectors. It is split from
// package detection so the tracker builds without cgo.
package dnn

import (
	"github.com/teslashibe/go-facerange/internal/config"
)

// Config holds detector configuration
type Config struct {
	ModelPath        string  // Path to model weights
	ConfigPath       string  // Network description, if the format needs one
	ConfidenceThresh float64 // Minimum confidence (default 0.5)
	InputWidth       int     // Model input width
	InputHeight      int     // Model input height
}

// DefaultSSDConfig returns defaults for the res10 SSD face detector.
func DefaultSSDConfig() Config {
	return Config{
		ModelPath:        config.DefaultSSDModel,
		ConfigPath:       config.DefaultSSDConfig,
		ConfidenceThresh: 0.5,
		InputWidth:       192,
		InputHeight:      144,
	}
}

// DefaultYuNetConfig returns production defaults for YuNet
func DefaultYuNetConfig() Config {
	return Config{
		ModelPath:        config.DefaultYuNetModel,
		ConfidenceThresh: 0.5,
		InputWidth:       320,
		InputHeight:      320,
	}
}
