package tracking

import "errors"

var (
	// ErrNotLocked is returned by Detect while the tracker is idle.
	ErrNotLocked = errors.New("tracking: detect called while not locked")
	ErrNilFrame  = errors.New("tracking: nil frame")
)
