package native

// summedArea holds summed-area tables of values and squared values, padded by
// one row and column so window sums need no bounds checks.
type summedArea struct {
	sum   []float64
	sumSq []float64
	w     int // padded width
}

func newSummedArea(f []float64, w, h int) *summedArea {
	pw := w + 1
	s := &summedArea{
		sum:   make([]float64, pw*(h+1)),
		sumSq: make([]float64, pw*(h+1)),
		w:     pw,
	}
	for y := 0; y < h; y++ {
		var row, rowSq float64
		for x := 0; x < w; x++ {
			v := f[y*w+x]
			row += v
			rowSq += v * v
			i := (y+1)*pw + x + 1
			s.sum[i] = s.sum[i-pw] + row
			s.sumSq[i] = s.sumSq[i-pw] + rowSq
		}
	}
	return s
}

// window returns the sum and squared sum of the ww x wh window at (x, y).
func (s *summedArea) window(x, y, ww, wh int) (float64, float64) {
	a := y*s.w + x
	b := a + ww
	c := (y+wh)*s.w + x
	d := c + ww
	return s.sum[d] - s.sum[b] - s.sum[c] + s.sum[a],
		s.sumSq[d] - s.sumSq[b] - s.sumSq[c] + s.sumSq[a]
}
