package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TrevorS/hclust"
	"github.com/TrevorS/hclust/internal/cutoff"
	"github.com/TrevorS/hclust/render"
)

var clusterCmd = &cobra.Command{
	Use:   "cluster [flags] MATRIX NAMES OUTDIR [DUMP]",
	Short: "Cluster a distance matrix and write flat clusters for a grid of cutoffs",
	Long: `Cluster builds the merge tree of MATRIX (N lines of N distances) whose leaves
are named by NAMES (a YAML list, or one name per line in a .txt file).

When DUMP is given and exists, the tree is loaded from it instead of being
rebuilt; when it does not exist, the built tree is saved there.

OUTDIR receives a Newick and a phyloXML rendering of the tree, the cutoff
statistics for both node metrics, and one cluster file per cutoff and metric.`,
	Args: cobra.RangeArgs(3, 4),
	RunE: runCluster,
}

// metricFiles maps node metric names to the short names used in file names.
var metricFiles = []struct {
	metric string
	short  string
}{
	{hclust.MetricLinkLength, "linklength"},
	{hclust.MetricSubtreeMaxDistance, "maxdist"},
}

func runCluster(cmd *cobra.Command, args []string) (err error) {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); err == nil {
			err = cerr
		}
	}()

	matrixPath, namesPath, outDir := args[0], args[1], args[2]
	var dumpPath string
	if len(args) == 4 {
		dumpPath = args[3]
	}

	annotation, err := regexp.Compile(e.file.AnnotationPattern)
	if err != nil {
		return fmt.Errorf("annotation_pattern: %w", err)
	}

	names, err := readNames(namesPath)
	if err != nil {
		return err
	}
	m, err := hclust.LoadMatrixFile(matrixPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	eng, err := e.loadOrBuild(m, names, dumpPath)
	if err != nil {
		return err
	}

	if err := writeRenderings(eng, outDir, e.file); err != nil {
		return err
	}

	grids := make(map[string][]float64, len(metricFiles))
	for _, mf := range metricFiles {
		metric, err := eng.Metric(mf.metric)
		if err != nil {
			return err
		}
		stats := cutoff.Statistics(eng, metric, cutoff.MixedAnnotation(annotation))
		if err := writeFile(filepath.Join(outDir, mf.metric+"_cutoffs.txt"), func(w *bufio.Writer) error {
			return cutoff.WriteStatistics(w, stats)
		}); err != nil {
			return err
		}
		best, err := cutoff.Best(stats)
		if err != nil {
			return err
		}
		e.logger.Info("best cutoff",
			slog.String("metric", mf.metric),
			slog.Float64("cutoff", best.Cutoff),
			slog.Int("clusters", best.Clusters),
			slog.Int("annotated", best.Annotated))
		fmt.Fprintf(cmd.OutOrStdout(), "best %s cutoff: %g -- num clusters: %d -- num annotated_clusters: %d\n",
			mf.metric, best.Cutoff, best.Clusters, best.Annotated)
		grids[mf.metric] = uniqueCutoffs(append(slices.Clone(e.file.Cutoffs), best.Cutoff))
	}

	return writeClusterFiles(eng, outDir, e.file.Prefix, grids, e.engine.Workers)
}

func writeRenderings(eng *hclust.Engine, outDir string, cfg fileConfig) error {
	base := filepath.Join(outDir, cfg.Prefix+"_linklength")
	if err := writeFile(base+".newick", func(w *bufio.Writer) error {
		_, err := w.WriteString(render.Newick(eng, eng.LinkLength) + "\n")
		return err
	}); err != nil {
		return err
	}
	return writeFile(base+".xml", func(w *bufio.Writer) error {
		return render.PhyloXML(w, eng, render.PhyloXMLOptions{
			Metric:     eng.LinkLength,
			Cutoff:     cfg.XMLCutoff,
			ImageURL:   cfg.ImageURL,
			DetailsURL: cfg.DetailsURL,
		})
	})
}

// writeClusterFiles writes "<prefix>_<metric>_cluster_names (<cutoff> - <n>).txt"
// for every metric and cutoff, one tab-separated cluster per line.
func writeClusterFiles(eng *hclust.Engine, outDir, prefix string, grids map[string][]float64, workers int) error {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	var g errgroup.Group
	g.SetLimit(workers)

	for _, mf := range metricFiles {
		mf := mf
		metric, err := eng.Metric(mf.metric)
		if err != nil {
			return err
		}
		for _, c := range grids[mf.metric] {
			c := c
			g.Go(func() error {
				clusters := eng.ClusterNames(hclust.CutoffCriterion(metric, c))
				name := fmt.Sprintf("%s_%s_cluster_names (%s - %d).txt", prefix, mf.short, cutoff.Label(c), len(clusters))
				return writeFile(filepath.Join(outDir, name), func(w *bufio.Writer) error {
					for _, cl := range clusters {
						if _, err := w.WriteString(strings.Join(cl, "\t") + "\n"); err != nil {
							return err
						}
					}
					return nil
				})
			})
		}
	}
	return g.Wait()
}

// uniqueCutoffs drops cutoffs that would produce the same file name.
func uniqueCutoffs(cs []float64) []float64 {
	seen := make(map[string]bool, len(cs))
	out := cs[:0]
	for _, c := range cs {
		if l := cutoff.Label(c); !seen[l] {
			seen[l] = true
			out = append(out, c)
		}
	}
	return out
}

func writeFile(path string, fill func(w *bufio.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := fill(w); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
