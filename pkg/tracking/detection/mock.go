package detection

import (
	"image"
	"sync"
)

// Mock is a scripted Detector for tests and dry runs.
type Mock struct {
	// DetectFunc, when set, answers every call. Otherwise Results is
	// returned for every call.
	DetectFunc func(img image.Image) ([]Detection, error)
	Results    []Detection

	mu     sync.Mutex
	calls  int
	closed bool
}

// Detect returns the scripted detections.
func (m *Mock) Detect(img image.Image) ([]Detection, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()

	if m.DetectFunc != nil {
		return m.DetectFunc(img)
	}
	return m.Results, nil
}

// Calls returns how many times Detect ran.
func (m *Mock) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Close marks the mock closed.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}
