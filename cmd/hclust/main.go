package main

import (
	"os"

	"github.com/spf13/cobra"
)

// Version can be overridden at build time via -ldflags.
var Version = "0.1.0-dev"

var rootCmd = &cobra.Command{
	Use:   "hclust",
	Short: "Agglomerative hierarchical clustering of a distance matrix",
	Long: `hclust builds a merge tree from a pairwise distance matrix of named items,
cuts it into flat clusters at a grid of thresholds and renders it for tree viewers.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(clusterCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(inconsistencyCmd)

	rootCmd.PersistentFlags().String("config", "", "TOML config file")
	rootCmd.PersistentFlags().StringP("log", "l", "", "log file of the clustering process (default stderr)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "log every merge")
	rootCmd.PersistentFlags().Int("workers", 0, "goroutines for the merge loop (0 = NumCPU)")
	rootCmd.PersistentFlags().String("linkage", "average", "linkage method (single|complete|average)")
	rootCmd.PersistentFlags().String("metrics-out", "", "write Prometheus metrics in textfile format to this path")
}

func main() {
	rootCmd.Version = Version

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
