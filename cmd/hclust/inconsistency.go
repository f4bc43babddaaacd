package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/TrevorS/hclust"
)

var inconsistencyCmd = &cobra.Command{
	Use:   "inconsistency [flags] MATRIX NAMES [DUMP]",
	Short: "Print the inconsistency coefficient of every merge",
	Long: `Inconsistency prints one line per merge, in merge order:
node id, both children, link length and inconsistency coefficient (-1 when both
children have zero link length).`,
	Args: cobra.RangeArgs(2, 3),
	RunE: runInconsistency,
}

func runInconsistency(cmd *cobra.Command, args []string) (err error) {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := e.close(); err == nil {
			err = cerr
		}
	}()

	names, err := readNames(args[1])
	if err != nil {
		return err
	}
	m, err := hclust.LoadMatrixFile(args[0])
	if err != nil {
		return err
	}
	var dumpPath string
	if len(args) == 3 {
		dumpPath = args[2]
	}
	eng, err := e.loadOrBuild(m, names, dumpPath)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	n := eng.NumLeaves()
	for k, c := range eng.Inconsistency() {
		node := n + k
		a, b := eng.Children(node)
		fmt.Fprintf(out, "%d\t%d\t%d\t%s\t%s\n", node, a, b,
			strconv.FormatFloat(eng.LinkLength(node), 'g', -1, 64),
			strconv.FormatFloat(c, 'g', -1, 64))
	}
	return nil
}
