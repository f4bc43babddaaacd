package hclust

import (
	"fmt"
	"math"
	"strings"
)

// Metric computes the distance between two feature vectors of equal length.
// It is used only to derive a DistanceMatrix from raw points; clustering
// itself works on precomputed distances.
type Metric func(a, b []float64) float64

// Euclidean is the L2 distance.
func Euclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// Manhattan is the L1 (city-block) distance.
func Manhattan(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += math.Abs(a[i] - b[i])
	}
	return sum
}

// Chebyshev is the L-infinity distance.
func Chebyshev(a, b []float64) float64 {
	var m float64
	for i := range a {
		m = max(m, math.Abs(a[i]-b[i]))
	}
	return m
}

// Cosine is 1 - cosine similarity, clamped at 0 so rounding never produces a
// negative matrix entry. Two zero vectors are at distance 0.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 && nb == 0 {
		return 0
	}
	if na == 0 || nb == 0 {
		return 1
	}
	return max(0, 1-dot/math.Sqrt(na*nb))
}

// ParseMetric resolves a metric name: euclidean, manhattan, chebyshev or
// cosine.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "euclidean", "l2":
		return Euclidean, nil
	case "manhattan", "l1", "cityblock":
		return Manhattan, nil
	case "chebyshev", "linf":
		return Chebyshev, nil
	case "cosine":
		return Cosine, nil
	default:
		return nil, fmt.Errorf("hclust: unknown metric %q", name)
	}
}

// PointsMatrix computes the pairwise distance matrix of points under metric.
// All points must have the same dimensionality. workers > 1 splits rows
// across goroutines; the result is identical to the sequential one.
func PointsMatrix(points [][]float64, metric Metric, workers int) (*DistanceMatrix, error) {
	n := len(points)
	if n == 0 {
		return &DistanceMatrix{}, nil
	}
	dims := len(points[0])
	flat := make([]float64, n*dims)
	for i, p := range points {
		if len(p) != dims {
			return nil, fmt.Errorf("hclust: point %d has %d dimensions, want %d", i, len(p), dims)
		}
		copy(flat[i*dims:], p)
	}

	data := make([]float64, n*n)
	forRowRanges(n, workers, func(start, end int) {
		for i := start; i < end; i++ {
			for j := i + 1; j < n; j++ {
				d := metric(flat[i*dims:(i+1)*dims], flat[j*dims:(j+1)*dims])
				data[i*n+j] = d
				data[j*n+i] = d
			}
		}
	})
	return newDistanceMatrixFlat(data, n)
}
