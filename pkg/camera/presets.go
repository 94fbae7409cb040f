package camera

import "sort"

// Preset names
const (
	PresetDefault = "default"
	Preset720p    = "720p"
	Preset1080p   = "1080p"
	PresetNight   = "night"
	PresetFile    = "file"
)

// presets adjust DefaultConfig.
var presets = map[string]func(*Config){
	PresetDefault: func(*Config) {},
	Preset720p: func(c *Config) {
		c.Width, c.Height = 1280, 720
	},
	// Full HD searches are several times slower than VGA, so ask for fewer frames.
	Preset1080p: func(c *Config) {
		c.Width, c.Height, c.Framerate = 1920, 1080, 15
	},
	// Longer exposure per frame for dim rooms.
	PresetNight: func(c *Config) {
		c.Framerate = 15
		c.Brightness = 0.3
	},
	// Recorded video is tracked as recorded.
	PresetFile: func(c *Config) {
		c.Mirror = false
	},
}

// PresetNames returns the preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns the named preset, or nil if there is none.
func GetPreset(name string) *Config {
	adjust, ok := presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	adjust(&cfg)
	return &cfg
}

// FileConfig returns the preset for video files.
func FileConfig() Config {
	return *GetPreset(PresetFile)
}
