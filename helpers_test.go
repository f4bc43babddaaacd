package hclust

import (
	"math"
	"math/rand"
	"strconv"
	"testing"
)

const floatTol = 1e-10

func almostEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func mustMatrix(t testing.TB, rows [][]float64) *DistanceMatrix {
	t.Helper()
	m, err := NewDistanceMatrix(rows)
	if err != nil {
		t.Fatalf("NewDistanceMatrix: %v", err)
	}
	return m
}

// abcdMatrix: d(A,B)=2, d(C,D)=1, every cross pair 9.
func abcdMatrix(t testing.TB) (*DistanceMatrix, []string) {
	t.Helper()
	return mustMatrix(t, [][]float64{
		{0, 2, 9, 9},
		{2, 0, 9, 9},
		{9, 9, 0, 1},
		{9, 9, 1, 0},
	}), []string{"A", "B", "C", "D"}
}

// lineMatrix holds |x_i - x_j| for points 0, 1, 3, 7, 15 on a line.
func lineMatrix(t testing.TB) (*DistanceMatrix, []string) {
	t.Helper()
	xs := []float64{0, 1, 3, 7, 15}
	rows := make([][]float64, len(xs))
	for i := range xs {
		rows[i] = make([]float64, len(xs))
		for j := range xs {
			rows[i][j] = math.Abs(xs[i] - xs[j])
		}
	}
	return mustMatrix(t, rows), []string{"p0", "p1", "p3", "p7", "p15"}
}

// randomMatrix returns a symmetric n×n matrix. With levels > 0 entries are
// integers in [1, levels], which produces many ties.
func randomMatrix(t testing.TB, rng *rand.Rand, n, levels int) *DistanceMatrix {
	t.Helper()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var d float64
			if levels > 0 {
				d = float64(1 + rng.Intn(levels))
			} else {
				d = rng.Float64() * 100
			}
			rows[i][j] = d
			rows[j][i] = d
		}
	}
	return mustMatrix(t, rows)
}

func leafNames(n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = "m" + strconv.Itoa(i)
	}
	return names
}

func sequentialConfig() Config {
	cfg := DefaultConfig()
	cfg.Workers = 1
	return cfg
}

func mustBuild(t testing.TB, m *DistanceMatrix, names []string, cfg Config) *Engine {
	t.Helper()
	e, err := Build(m, names, cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return e
}
