package hclust

import (
	"fmt"
	"log/slog"
	"slices"
	"time"
)

// workingMatrix is the growable distance matrix of the merge loop. It is
// stored lower-triangular: rows[x] holds d(x, y) for y <= x. Rows are only
// appended, never removed; inactive nodes keep their rows.
type workingMatrix struct {
	rows [][]float64
}

func newWorkingMatrix(m *DistanceMatrix) *workingMatrix {
	n := m.Size()
	rows := make([][]float64, n, 2*n-1)
	for i := 0; i < n; i++ {
		row := make([]float64, i+1)
		copy(row, m.data[i*n:i*n+i+1])
		rows[i] = row
	}
	return &workingMatrix{rows: rows}
}

func (w *workingMatrix) size() int { return len(w.rows) }

func (w *workingMatrix) at(i, j int) float64 {
	if i < j {
		i, j = j, i
	}
	return w.rows[i][j]
}

// extend appends the row of a new node merging ci and cj: for every existing
// node x, including inactive ones, the linkage of d(x, ci) and d(x, cj).
func (w *workingMatrix) extend(ci, cj int, linkage Linkage, workers int) {
	sz := w.size()
	row := make([]float64, sz+1)
	forRowRanges(sz, workers, func(start, end int) {
		for x := start; x < end; x++ {
			row[x] = linkage.update(w.at(x, ci), w.at(x, cj))
		}
	})
	w.rows = append(w.rows, row)
}

// Build clusters the leaves of m bottom-up and returns an Engine over the
// resulting merge tree. names[i] labels leaf i; len(names) must equal
// m.Size(). The matrix is not modified.
func Build(m *DistanceMatrix, names []string, cfg Config) (*Engine, error) {
	applyDefaults(&cfg)
	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}
	if m == nil || m.Size() == 0 {
		return nil, fmt.Errorf("%w: matrix has no leaves", ErrMalformedMatrix)
	}
	if len(names) != m.Size() {
		return nil, fmt.Errorf("%w: %d names for %d leaves", ErrNameCount, len(names), m.Size())
	}

	merges := link(m, cfg)
	tree, err := newTree(m.Size(), merges)
	if err != nil {
		// link always yields a valid tree.
		panic(err)
	}
	return newEngine(m, slices.Clone(names), cfg.Linkage, tree, nil, cfg.Logger), nil
}

// link runs the agglomerative loop and returns the N-1 merges in order.
func link(m *DistanceMatrix, cfg Config) []Merge {
	n := m.Size()
	log := cfg.Logger
	log.Info("clustering started", slog.Int("leaves", n), slog.String("linkage", string(cfg.Linkage)))
	start := time.Now()

	w := newWorkingMatrix(m)
	active := make([]int, n)
	for i := range active {
		active[i] = i
	}

	merges := make([]Merge, 0, n-1)
	for len(active) > 1 {
		ci, cj, dist := w.minimalPair(active, cfg.Workers)
		sz := w.size()
		merges = append(merges, Merge{Children: [2]int{ci, cj}, Distance: dist})
		w.extend(ci, cj, cfg.Linkage, cfg.Workers)

		active = slices.DeleteFunc(active, func(x int) bool { return x == ci || x == cj })
		active = append(active, sz)

		cfg.Metrics.MergeRecorded(dist)
		log.Debug("merge",
			slog.Int("step", sz-n),
			slog.Int("ci", ci),
			slog.Int("cj", cj),
			slog.Float64("distance", dist),
			slog.Duration("elapsed", time.Since(start)))
	}

	elapsed := time.Since(start)
	cfg.Metrics.BuildFinished(n, elapsed)
	log.Info("clustering finished", slog.Int("merges", len(merges)), slog.Duration("elapsed", elapsed))
	return merges
}
