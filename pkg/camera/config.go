// Package camera captures frames from a webcam or video file for tracking.
// Capture settings are runtime-configurable the same way tracking tuning is.
package camera

// Config holds all capture parameters.
type Config struct {
	// Device is a camera index ("0") or a video file path / stream URL.
	Device string `json:"device"`

	// === Resolution ===
	Width     int `json:"width"`     // Requested frame width in pixels
	Height    int `json:"height"`    // Requested frame height in pixels
	Framerate int `json:"framerate"` // Requested FPS

	// Mirror flips frames horizontally, as a selfie preview does.
	Mirror bool `json:"mirror"`

	// === Low Light Controls ===
	// Brightness is passed to the driver (-1.0 to +1.0). 0 leaves it alone.
	Brightness float64 `json:"brightness"`

	// Exposure is a driver-specific manual exposure value. 0 for auto.
	Exposure float64 `json:"exposure"`
}

// Capture limits accepted by Validate
const (
	MaxWidth     = 3840
	MaxHeight    = 2160
	MaxFramerate = 120
)

// DefaultConfig returns a VGA selfie configuration. Tracking cost grows with
// frame area, and 640x480 keeps a full template search inside a frame period.
func DefaultConfig() Config {
	return Config{
		Device:    "0",
		Width:     640,
		Height:    480,
		Framerate: 30,
		Mirror:    true,
	}
}

// Validate checks if the config values are within valid ranges.
// Returns a list of validation errors, or nil if valid.
func (c *Config) Validate() []string {
	var errors []string

	if c.Device == "" {
		errors = append(errors, "device must not be empty")
	}

	// Resolution
	if c.Width < 160 || c.Width > MaxWidth {
		errors = append(errors, "width must be between 160 and 3840")
	}
	if c.Height < 120 || c.Height > MaxHeight {
		errors = append(errors, "height must be between 120 and 2160")
	}
	if c.Framerate < 1 || c.Framerate > MaxFramerate {
		errors = append(errors, "framerate must be between 1 and 120")
	}

	// Brightness
	if c.Brightness < -1.0 || c.Brightness > 1.0 {
		errors = append(errors, "brightness must be between -1.0 and 1.0")
	}

	if c.Exposure < 0 {
		errors = append(errors, "exposure must be 0 (auto) or positive")
	}

	return errors
}
