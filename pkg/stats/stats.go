package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

// Present returns a copy of x without NaN entries.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// HasNaN reports whether any element of x is NaN.
func HasNaN(x []float64) bool {
	return floats.HasNaN(x)
}

// Mean computes the average of the non-missing values of x.
// It returns NaN when no value is present.
func Mean(x []float64) float64 {
	vals := Present(x)
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Sum(vals) / float64(len(vals))
}

// Median returns the median of the non-missing values of x (allocates a copy).
// It returns NaN when no value is present.
func Median(x []float64) float64 {
	cp := Present(x)
	n := len(cp)
	if n == 0 {
		return math.NaN()
	}
	sort.Float64s(cp)
	mid := n >> 1
	if n&1 == 0 {
		return (cp[mid-1] + cp[mid]) * 0.5
	}
	return cp[mid]
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	return floats.Min(x), floats.Max(x)
}

// Percentile returns the p-th percentile of x (0 <= p <= 100), linearly
// interpolating between the two closest order statistics.
func Percentile(x []float64, p float64) float64 {
	n := len(x)
	if n == 0 {
		return math.NaN()
	}
	min, max := MinMax(x)
	if p <= 0 {
		return min
	}
	if p >= 100 {
		return max
	}
	cp := make([]float64, n)
	copy(cp, x)
	sort.Float64s(cp)
	rank := p / 100 * float64(n-1)
	lower := int(rank)
	upper := lower + 1
	weight := rank - float64(lower)
	if upper >= n {
		return cp[lower]
	}
	return cp[lower]*(1-weight) + cp[upper]*weight
}
