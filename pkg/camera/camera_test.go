package camera

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errs   int
	}{
		{"default", func(*Config) {}, 0},
		{"empty device", func(c *Config) { c.Device = "" }, 1},
		{"tiny width", func(c *Config) { c.Width = 100 }, 1},
		{"huge height", func(c *Config) { c.Height = 5000 }, 1},
		{"zero fps", func(c *Config) { c.Framerate = 0 }, 1},
		{"brightness", func(c *Config) { c.Brightness = 1.5 }, 1},
		{"negative exposure", func(c *Config) { c.Exposure = -1 }, 1},
		{"several", func(c *Config) { c.Width = 0; c.Height = 0; c.Framerate = 500 }, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			assert.Len(t, cfg.Validate(), tt.errs)
		})
	}
}

func TestPresets(t *testing.T) {
	names := PresetNames()
	require.Len(t, names, 5)
	assert.IsIncreasing(t, names)

	for _, name := range PresetNames() {
		cfg := GetPreset(name)
		require.NotNil(t, cfg, name)
		assert.Empty(t, cfg.Validate(), name)
	}

	assert.Nil(t, GetPreset("nope"))
	assert.Equal(t, 1280, GetPreset(Preset720p).Width)
	assert.False(t, GetPreset(PresetFile).Mirror)
}

func TestManager_UpdateConfig(t *testing.T) {
	m := NewManager(DefaultConfig())

	var applied []Config
	m.OnConfigChange = func(cfg Config) error {
		applied = append(applied, cfg)
		return nil
	}

	require.NoError(t, m.UpdateConfig(map[string]any{
		"width":      float64(1280),
		"height":     720,
		"mirror":     false,
		"brightness": 0.2,
	}))

	cfg := m.GetConfig()
	assert.Equal(t, 1280, cfg.Width)
	assert.Equal(t, 720, cfg.Height)
	assert.False(t, cfg.Mirror)
	assert.InDelta(t, 0.2, cfg.Brightness, 1e-9)
	assert.Len(t, applied, 1)
}

func TestManager_PresetKeepsDevice(t *testing.T) {
	start := DefaultConfig()
	start.Device = "/tmp/clip.mp4"
	m := NewManager(start)

	require.NoError(t, m.UpdateConfig(map[string]any{"preset": Preset1080p}))
	cfg := m.GetConfig()
	assert.Equal(t, "/tmp/clip.mp4", cfg.Device)
	assert.Equal(t, 1920, cfg.Width)
}

func TestManager_Rejects(t *testing.T) {
	m := NewManager(DefaultConfig())

	assert.Error(t, m.UpdateConfig(map[string]any{"preset": "nope"}))
	assert.Error(t, m.UpdateConfig(map[string]any{"width": 10}))
	assert.Error(t, m.UpdateConfig(map[string]any{"width": "wide"}))
	assert.Equal(t, DefaultConfig(), m.GetConfig(), "invalid update must not stick")

	m.OnConfigChange = func(Config) error { return errors.New("device busy") }
	err := m.UpdateConfig(map[string]any{"mirror": false})
	assert.ErrorContains(t, err, "device busy")
	assert.True(t, m.GetConfig().Mirror, "rejected config must not stick")
}

func TestSource_VideoFile(t *testing.T) {
	path := os.Getenv("FACERANGE_TEST_VIDEO")
	if path == "" {
		t.Skip("FACERANGE_TEST_VIDEO not set")
	}

	cfg := FileConfig()
	cfg.Device = path
	src, err := Open(cfg)
	require.NoError(t, err)
	defer src.Close()

	frame, err := src.Next(t.Context())
	require.NoError(t, err)
	assert.False(t, frame.Bounds().Empty())
}

func TestOpen_InvalidConfig(t *testing.T) {
	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestManager_GetConfigJSON(t *testing.T) {
	data, err := NewManager(DefaultConfig()).GetConfigJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"device":"0","width":640,"height":480,"framerate":30,"mirror":true,"brightness":0,"exposure":0}`, string(data))
}
