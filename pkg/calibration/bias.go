package calibration

// Bias nudges reported distances up or down in 5% steps.
type Bias int

const (
	MinBias Bias = -2
	MaxBias Bias = 2
)

var biasMultipliers = map[Bias]float64{
	-2: 0.90,
	-1: 0.95,
	0:  1.0,
	1:  1.05,
	2:  1.10,
}

// Multiplier returns the distance factor for b, or 1 when b is out of range.
func (b Bias) Multiplier() float64 {
	if m, ok := biasMultipliers[b]; ok {
		return m
	}
	return 1.0
}

// Clamp limits b to [MinBias, MaxBias].
func (b Bias) Clamp() Bias {
	if b < MinBias {
		return MinBias
	}
	if b > MaxBias {
		return MaxBias
	}
	return b
}
