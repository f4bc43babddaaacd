package cutoff

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TrevorS/hclust"
)

func buildEngine(t *testing.T) *hclust.Engine {
	t.Helper()
	m, err := hclust.NewDistanceMatrix([][]float64{
		{0, 2, 9, 9},
		{2, 0, 9, 9},
		{9, 9, 0, 1},
		{9, 9, 1, 0},
	})
	require.NoError(t, err)
	cfg := hclust.DefaultConfig()
	cfg.Workers = 1
	e, err := hclust.Build(m, []string{"KNOWN_A", "B", "KNOWN_C", "D"}, cfg)
	require.NoError(t, err)
	return e
}

func TestMixedAnnotation(t *testing.T) {
	mixed := MixedAnnotation(regexp.MustCompile("KNOWN"))
	assert.True(t, mixed([]string{"KNOWN_A", "x"}))
	assert.True(t, mixed([]string{"x", "y", "KNOWN_B"}))
	assert.False(t, mixed([]string{"KNOWN_A", "KNOWN_B"}))
	assert.False(t, mixed([]string{"x"}))
	assert.False(t, mixed(nil))
}

func TestStatistics(t *testing.T) {
	e := buildEngine(t)
	stats := Statistics(e, e.LinkLength, MixedAnnotation(regexp.MustCompile("KNOWN")))

	want := []Stat{
		{Cutoff: 0, Clusters: 4, Annotated: 0},
		{Cutoff: 1, Clusters: 3, Annotated: 1},
		{Cutoff: 2, Clusters: 2, Annotated: 2},
		{Cutoff: 9, Clusters: 1, Annotated: 1},
	}
	assert.Equal(t, want, stats)

	best, err := Best(stats)
	require.NoError(t, err)
	assert.Equal(t, want[2], best)

	var buf bytes.Buffer
	require.NoError(t, WriteStatistics(&buf, stats))
	assert.Equal(t, "0\t4\t0\n1\t3\t1\n2\t2\t2\n9\t1\t1\n", buf.String())
}

func TestBest(t *testing.T) {
	stats := []Stat{
		{Cutoff: 0.1, Clusters: 9, Annotated: 1},
		{Cutoff: 0.2, Clusters: 6, Annotated: 3},
		{Cutoff: 0.3, Clusters: 4, Annotated: 3},
		{Cutoff: 0.4, Clusters: 1, Annotated: 0},
	}
	best, err := Best(stats)
	require.NoError(t, err)
	assert.Equal(t, 0.2, best.Cutoff, "ties keep the smallest cutoff")

	_, err = Best(nil)
	assert.Error(t, err)
}

func TestDefaultGrid(t *testing.T) {
	grid := DefaultGrid()
	require.Len(t, grid, 10)
	assert.Equal(t, 0.9, grid[0])
	assert.Equal(t, 0.99, grid[9])
	for i := 1; i < len(grid); i++ {
		assert.Greater(t, grid[i], grid[i-1])
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "0.9", Label(0.9))
	assert.Equal(t, "0.91", Label(float64(91)/100))
	assert.Equal(t, "0.1235", Label(0.123456))
	assert.Equal(t, "2", Label(2))
}
