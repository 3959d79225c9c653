package aviary

import "math/rand"

// Box is a bounded continuous space: one [Low[i], High[i]] interval per
// dimension. It describes observations, actions and reward vectors.
type Box struct {
	Low  []float64
	High []float64
}

// NewBox builds a Box from matching bound slices. Mismatched lengths
// are a programming error in scenario code.
func NewBox(low, high []float64) Box {
	if len(low) != len(high) {
		panic("aviary: box bounds must have equal length")
	}
	return Box{Low: low, High: high}
}

// UniformBox builds an n-dimensional Box with the same bounds on every
// dimension.
func UniformBox(n int, low, high float64) Box {
	l := make([]float64, n)
	h := make([]float64, n)
	for i := 0; i < n; i++ {
		l[i] = low
		h[i] = high
	}
	return Box{Low: l, High: h}
}

// Dim returns the number of dimensions.
func (b Box) Dim() int {
	return len(b.Low)
}

// Contains reports whether v lies inside the box. A vector of the wrong
// length is never contained.
func (b Box) Contains(v []float64) bool {
	if len(v) != len(b.Low) {
		return false
	}
	for i, x := range v {
		if x < b.Low[i] || x > b.High[i] {
			return false
		}
	}
	return true
}

// Sample draws a uniform point from the box using rng.
func (b Box) Sample(rng *rand.Rand) []float64 {
	out := make([]float64, len(b.Low))
	for i := range out {
		out[i] = b.Low[i] + rng.Float64()*(b.High[i]-b.Low[i])
	}
	return out
}
