// Package cutoff searches for good cut thresholds of a merge tree. It only
// uses the public hclust API.
package cutoff

import (
	"fmt"
	"io"
	"math"
	"regexp"
	"slices"
	"strconv"

	"github.com/TrevorS/hclust"
)

// Stat describes the flat clustering at one cutoff.
type Stat struct {
	Cutoff    float64
	Clusters  int
	Annotated int
}

// Annotated reports whether a cluster (given by its names) counts as
// annotated.
type Annotated func(names []string) bool

// MixedAnnotation returns an Annotated that accepts clusters holding at least
// one name matching re and at least one not matching it, e.g. a cluster
// mixing known and de novo motifs.
func MixedAnnotation(re *regexp.Regexp) Annotated {
	return func(names []string) bool {
		var matched, unmatched bool
		for _, n := range names {
			if re.MatchString(n) {
				matched = true
			} else {
				unmatched = true
			}
			if matched && unmatched {
				return true
			}
		}
		return false
	}
}

// Statistics evaluates every distinct value of metric over all nodes as a
// cutoff, in ascending order.
func Statistics(e *hclust.Engine, metric hclust.NodeMetric, annotated Annotated) []Stat {
	values := make([]float64, 0, e.Root()+1)
	for node := 0; node <= e.Root(); node++ {
		values = append(values, metric(node))
	}
	slices.Sort(values)
	values = slices.Compact(values)

	stats := make([]Stat, 0, len(values))
	for _, c := range values {
		clusters := e.ClusterNames(hclust.CutoffCriterion(metric, c))
		s := Stat{Cutoff: c, Clusters: len(clusters)}
		for _, cl := range clusters {
			if annotated(cl) {
				s.Annotated++
			}
		}
		stats = append(stats, s)
	}
	return stats
}

// Best returns the smallest cutoff with the largest annotated cluster count.
func Best(stats []Stat) (Stat, error) {
	if len(stats) == 0 {
		return Stat{}, fmt.Errorf("cutoff: no statistics")
	}
	best := stats[0]
	for _, s := range stats[1:] {
		if s.Annotated > best.Annotated {
			best = s
		}
	}
	return best, nil
}

// WriteStatistics writes one "cutoff<TAB>clusters<TAB>annotated" line per
// stat.
func WriteStatistics(w io.Writer, stats []Stat) error {
	for _, s := range stats {
		line := strconv.FormatFloat(s.Cutoff, 'g', -1, 64) + "\t" +
			strconv.Itoa(s.Clusters) + "\t" + strconv.Itoa(s.Annotated) + "\n"
		if _, err := io.WriteString(w, line); err != nil {
			return err
		}
	}
	return nil
}

// DefaultGrid returns the cutoffs 0.90, 0.91, ..., 0.99.
func DefaultGrid() []float64 {
	grid := make([]float64, 0, 10)
	for i := 90; i < 100; i++ {
		grid = append(grid, float64(i)/100)
	}
	return grid
}

// Label formats a cutoff for file names, rounded to four decimals.
func Label(c float64) string {
	return strconv.FormatFloat(math.Round(c*1e4)/1e4, 'f', -1, 64)
}
