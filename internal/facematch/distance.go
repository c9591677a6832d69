// Package facematch identifies faces by comparing embeddings against a gallery
// of known people.
package facematch

import "math"

// EuclideanDistance returns the L2 distance between two embeddings.
// Embeddings of different length, or empty ones, are infinitely far apart.
func EuclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}

	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
