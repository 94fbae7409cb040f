package calibration

import (
	"fmt"
	"strings"
)

// Gender selects which anthropometric table is used.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// ParseGender accepts "male"/"m" and "female"/"f" in any case.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return Male, nil
	case "female", "f":
		return Female, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

func (g Gender) String() string {
	return string(g)
}

// Anthropometrics are the fixed per-gender constants behind the model.
type Anthropometrics struct {
	// Head circumference (cm) = (height - CircumferenceIntercept) / CircumferenceSlope.
	CircumferenceIntercept float64
	CircumferenceSlope     float64

	EllipticalAxisRatio float64 // Head length over head width
	HeightWidthRatio    float64 // Face height over head width
	ShoulderOffsetM     float64 // Distance from shoulder plane to face, in meters
}

var anthropometrics = map[Gender]Anthropometrics{
	Male: {
		CircumferenceIntercept: 70.36,
		CircumferenceSlope:     1.734,
		EllipticalAxisRatio:    1.36986301369863,
		HeightWidthRatio:       1.317241379310345,
		ShoulderOffsetM:        0.106,
	},
	Female: {
		CircumferenceIntercept: 106.8,
		CircumferenceSlope:     0.916,
		EllipticalAxisRatio:    1.43609022556391,
		HeightWidthRatio:       1.311111111111111,
		ShoulderOffsetM:        0.101,
	},
}

// ParamsFor returns the constants for g.
func ParamsFor(g Gender) (Anthropometrics, error) {
	p, ok := anthropometrics[g]
	if !ok {
		return Anthropometrics{}, fmt.Errorf("%w: %q", ErrUnknownGender, string(g))
	}
	return p, nil
}
