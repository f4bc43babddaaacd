package hclust

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// DistanceMatrix is an immutable square matrix of non-negative pairwise
// distances between leaves 0..N-1. Symmetry is the caller's contract and is
// not checked.
type DistanceMatrix struct {
	n    int
	data []float64 // row-major, n*n
}

// NewDistanceMatrix validates rows and copies them into a new DistanceMatrix.
// Every row must have len(rows) entries and every entry must be >= 0.
func NewDistanceMatrix(rows [][]float64) (*DistanceMatrix, error) {
	n := len(rows)
	data := make([]float64, 0, n*n)
	for i, row := range rows {
		if len(row) != n {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrMalformedMatrix, i, len(row), n)
		}
		data = append(data, row...)
	}
	return newDistanceMatrixFlat(data, n)
}

// NewDistanceMatrixFlat wraps a flat row-major slice of length n*n, where
// data[i*n+j] is the distance between leaves i and j. The slice is copied.
func NewDistanceMatrixFlat(data []float64, n int) (*DistanceMatrix, error) {
	if n < 0 || len(data) != n*n {
		return nil, fmt.Errorf("%w: flat length %d does not match n*n (n=%d)", ErrMalformedMatrix, len(data), n)
	}
	cp := make([]float64, len(data))
	copy(cp, data)
	return newDistanceMatrixFlat(cp, n)
}

func newDistanceMatrixFlat(data []float64, n int) (*DistanceMatrix, error) {
	for k, v := range data {
		if v < 0 || math.IsNaN(v) {
			return nil, fmt.Errorf("%w: entry (%d,%d) = %g", ErrMalformedMatrix, k/n, k%n, v)
		}
	}
	return &DistanceMatrix{n: n, data: data}, nil
}

// Size returns N, the number of leaves.
func (m *DistanceMatrix) Size() int { return m.n }

// At returns the distance between leaves i and j.
func (m *DistanceMatrix) At(i, j int) float64 { return m.data[i*m.n+j] }

// Row returns a copy of row i.
func (m *DistanceMatrix) Row(i int) []float64 {
	row := make([]float64, m.n)
	copy(row, m.data[i*m.n:(i+1)*m.n])
	return row
}

// Max returns the largest entry, or 0 for an empty matrix.
func (m *DistanceMatrix) Max() float64 {
	if len(m.data) == 0 {
		return 0
	}
	return floats.Max(m.data)
}

// WriteTo writes the matrix as N lines of tab-separated values.
func (m *DistanceMatrix) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)
	var written int64
	for i := 0; i < m.n; i++ {
		for j := 0; j < m.n; j++ {
			if j > 0 {
				if err := bw.WriteByte('\t'); err != nil {
					return written, err
				}
				written++
			}
			k, err := bw.WriteString(strconv.FormatFloat(m.At(i, j), 'g', -1, 64))
			written += int64(k)
			if err != nil {
				return written, err
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return written, err
		}
		written++
	}
	return written, bw.Flush()
}

// ReadMatrix parses N lines of N whitespace-separated floats. Blank lines are
// skipped.
func ReadMatrix(r io.Reader) (*DistanceMatrix, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 256<<20)

	var rows [][]float64
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		row := make([]float64, len(fields))
		for j, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", ErrMalformedMatrix, line, err)
			}
			row[j] = v
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("hclust: reading matrix: %w", err)
	}
	return NewDistanceMatrix(rows)
}

// LoadMatrixFile reads a matrix file in the ReadMatrix format.
func LoadMatrixFile(path string) (*DistanceMatrix, error) {
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := ReadMatrix(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// openInput opens path, reporting a missing file as ErrMissingInput.
func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return nil, err
	}
	return f, nil
}
