package hclust

import (
	"math"
	"math/rand"
	"testing"
)

func TestMetrics(t *testing.T) {
	a := []float64{0, 0}
	b := []float64{3, 4}
	tests := []struct {
		name   string
		metric Metric
		want   float64
	}{
		{"euclidean", Euclidean, 5},
		{"manhattan", Manhattan, 7},
		{"chebyshev", Chebyshev, 4},
	}
	for _, tt := range tests {
		if got := tt.metric(a, b); !almostEqual(got, tt.want, floatTol) {
			t.Errorf("%s: got %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		a, b []float64
		want float64
	}{
		{[]float64{1, 0}, []float64{2, 0}, 0},
		{[]float64{1, 0}, []float64{0, 1}, 1},
		{[]float64{1, 0}, []float64{-1, 0}, 2},
		{[]float64{0, 0}, []float64{0, 0}, 0},
		{[]float64{0, 0}, []float64{1, 1}, 1},
	}
	for _, tt := range tests {
		got := Cosine(tt.a, tt.b)
		if !almostEqual(got, tt.want, floatTol) {
			t.Errorf("Cosine(%v, %v): got %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got < 0 {
			t.Errorf("Cosine(%v, %v) is negative: %v", tt.a, tt.b, got)
		}
	}
}

func TestParseMetric(t *testing.T) {
	for _, name := range []string{"euclidean", "L2", "manhattan", "cityblock", "chebyshev", "cosine"} {
		if _, err := ParseMetric(name); err != nil {
			t.Errorf("ParseMetric(%q): %v", name, err)
		}
	}
	if _, err := ParseMetric("hamming"); err == nil {
		t.Error("expected error for unknown metric")
	}
}

func TestPointsMatrix(t *testing.T) {
	points := [][]float64{{0}, {1}, {3}, {7}, {15}}
	m, err := PointsMatrix(points, Euclidean, 1)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := lineMatrix(t)
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			if m.At(i, j) != want.At(i, j) {
				t.Errorf("(%d,%d): got %v, want %v", i, j, m.At(i, j), want.At(i, j))
			}
		}
	}

	if _, err := PointsMatrix([][]float64{{0, 1}, {2}}, Euclidean, 1); err == nil {
		t.Error("expected error for ragged points")
	}
	empty, err := PointsMatrix(nil, Euclidean, 1)
	if err != nil || empty.Size() != 0 {
		t.Errorf("empty input: size %d, err %v", empty.Size(), err)
	}
}

func TestPointsMatrix_ParallelMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	n := parallelThreshold + 37
	points := make([][]float64, n)
	for i := range points {
		points[i] = []float64{rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()}
	}

	seq, err := PointsMatrix(points, Manhattan, 1)
	if err != nil {
		t.Fatal(err)
	}
	par, err := PointsMatrix(points, Manhattan, 6)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if seq.At(i, i) != 0 {
			t.Fatalf("diagonal (%d,%d) = %v", i, i, seq.At(i, i))
		}
		for j := 0; j < n; j++ {
			if math.Float64bits(seq.At(i, j)) != math.Float64bits(par.At(i, j)) {
				t.Fatalf("(%d,%d): parallel %v, sequential %v", i, j, par.At(i, j), seq.At(i, j))
			}
		}
	}
}
