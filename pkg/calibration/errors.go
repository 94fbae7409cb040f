package calibration

import "errors"

var (
	ErrInvalidHeight     = errors.New("calibration: user height out of range")
	ErrInvalidFaceHeight = errors.New("calibration: observed face height must be positive")
	ErrUnknownGender     = errors.New("calibration: unknown gender")
)
