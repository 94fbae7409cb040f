package camera

import (
	"encoding/json"
	"fmt"
	"sync"
)

// Manager holds the live capture config and applies partial updates.
type Manager struct {
	mu     sync.RWMutex
	config Config

	// OnConfigChange pushes an accepted config to the device.
	OnConfigChange func(cfg Config) error
}

// NewManager creates a manager starting from cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{config: cfg}
}

// GetConfig returns the current config.
func (m *Manager) GetConfig() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config
}

// GetConfigJSON returns the current config as JSON.
func (m *Manager) GetConfigJSON() ([]byte, error) {
	return json.Marshal(m.GetConfig())
}

// SetConfig validates cfg, applies it to the device and stores it. A config
// the device rejects is not stored.
func (m *Manager) SetConfig(cfg Config) error {
	if errs := cfg.Validate(); len(errs) > 0 {
		return fmt.Errorf("camera: invalid config: %v", errs)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.OnConfigChange != nil {
		if err := m.OnConfigChange(cfg); err != nil {
			return fmt.Errorf("camera: apply config: %w", err)
		}
	}
	m.config = cfg
	return nil
}

// UpdateConfig overlays params, keyed by the Config JSON names, on the
// current config. A "preset" key swaps in that preset first, keeping the
// device. Unknown keys are ignored.
func (m *Manager) UpdateConfig(params map[string]any) error {
	cfg := m.GetConfig()

	fields := make(map[string]any, len(params))
	for k, v := range params {
		if k != "preset" {
			fields[k] = v
		}
	}

	if name, ok := params["preset"]; ok {
		preset := GetPreset(fmt.Sprint(name))
		if preset == nil {
			return fmt.Errorf("camera: unknown preset %v", name)
		}
		preset.Device = cfg.Device
		cfg = *preset
	}

	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("camera: encode update: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("camera: bad update: %w", err)
	}
	return m.SetConfig(cfg)
}
