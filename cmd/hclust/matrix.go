package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/TrevorS/hclust"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix [flags] POINTS OUT",
	Short: "Compute a distance matrix from feature vectors",
	Long: `Matrix reads POINTS (one vector of whitespace-separated numbers per line) and
writes their pairwise distance matrix to OUT in the format read by "cluster".`,
	Args: cobra.ExactArgs(2),
	RunE: runMatrix,
}

func init() {
	matrixCmd.Flags().String("metric", "euclidean", "distance metric (euclidean|manhattan|chebyshev|cosine)")
}

func runMatrix(cmd *cobra.Command, args []string) (err error) {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); err == nil {
			err = cerr
		}
	}()

	metricName, err := cmd.Flags().GetString("metric")
	if err != nil {
		return fmt.Errorf("failed to get metric flag: %w", err)
	}
	metric, err := hclust.ParseMetric(metricName)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", hclust.ErrMissingInput, args[0])
		}
		return err
	}
	defer f.Close()

	points, err := readPoints(f)
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	m, err := hclust.PointsMatrix(points, metric, e.engine.Workers)
	if err != nil {
		return err
	}
	e.logger.Info("distance matrix computed", slog.Int("points", m.Size()), slog.String("metric", metricName))

	return writeFile(args[1], func(w *bufio.Writer) error {
		_, err := m.WriteTo(w)
		return err
	})
}

// readPoints parses one vector per non-blank line.
func readPoints(r io.Reader) ([][]float64, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 64<<20)
	var points [][]float64
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		p := make([]float64, len(fields))
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			p[i] = v
		}
		points = append(points, p)
	}
	return points, sc.Err()
}
