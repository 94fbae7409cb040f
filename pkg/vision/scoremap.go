package vision

import (
	"image"

	"gonum.org/v1/gonum/floats"
)

// ScoreMap is a dense row-major map of correlation scores.
type ScoreMap struct {
	Width  int
	Height int
	Data   []float64
}

// NewScoreMap allocates a zeroed map.
func NewScoreMap(width, height int) *ScoreMap {
	return &ScoreMap{
		Width:  width,
		Height: height,
		Data:   make([]float64, width*height),
	}
}

// At returns the score at column x, row y.
func (m *ScoreMap) At(x, y int) float64 {
	return m.Data[y*m.Width+x]
}

// Set stores a score at column x, row y.
func (m *ScoreMap) Set(x, y int, v float64) {
	m.Data[y*m.Width+x] = v
}

// Floor raises every value below min to min.
func (m *ScoreMap) Floor(min float64) {
	for i, v := range m.Data {
		if v < min {
			m.Data[i] = min
		}
	}
}

// Peak returns the maximum score and its location. Ties resolve to the first
// occurrence in row-major order. An empty map returns (0, (0,0)).
func (m *ScoreMap) Peak() (float64, image.Point) {
	if m == nil || len(m.Data) == 0 {
		return 0, image.Point{}
	}
	i := floats.MaxIdx(m.Data)
	return m.Data[i], image.Pt(i%m.Width, i/m.Width)
}
