package templates

import "errors"

// Sentinel errors for template generation.
var (
	// ErrEmptyCrop is returned when templates are requested from an absent or empty face crop.
	ErrEmptyCrop = errors.New("templates: face crop is empty")

	// ErrInvalidStep is returned when the scale step is not positive.
	ErrInvalidStep = errors.New("templates: scale step must be positive")

	// ErrNotInitialized is returned when the bank is refreshed before Init.
	ErrNotInitialized = errors.New("templates: bank not initialized")
)
