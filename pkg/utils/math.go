package utils

import "math"

// NormalizeL2 scales x in place to unit L2 norm, so dot products
// between normalized vectors equal their cosine similarity. A zero
// vector is left as is.
func NormalizeL2(x []float32) {
	var sumSquares float64
	for _, v := range x {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sumSquares))
	for i := range x {
		x[i] *= inv
	}
}
