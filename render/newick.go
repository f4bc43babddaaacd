// Package render writes an hclust merge tree in tree-viewer formats: Newick
// and phyloXML. Branch lengths are differences of a node metric between a
// parent and its child, so the same tree can be drawn by link length or by
// subtree diameter.
package render

import (
	"math"
	"strconv"
	"strings"

	"github.com/TrevorS/hclust"
)

// Newick returns the tree as a Newick string terminated by ';'.
func Newick(e *hclust.Engine, metric hclust.NodeMetric) string {
	var b strings.Builder
	writeNewick(&b, e, metric, e.Root())
	b.WriteByte(';')
	return b.String()
}

func writeNewick(b *strings.Builder, e *hclust.Engine, metric hclust.NodeMetric, node int) {
	if e.IsLeaf(node) {
		b.WriteString(quoteNewick(CompactName(e.Name(node))))
		return
	}
	left, right := e.Children(node)
	d := metric(node)

	b.WriteByte('(')
	writeNewick(b, e, metric, left)
	b.WriteByte(':')
	b.WriteString(formatLength(d - metric(left)))
	b.WriteByte(',')
	writeNewick(b, e, metric, right)
	b.WriteByte(':')
	b.WriteString(formatLength(d - metric(right)))
	b.WriteByte(')')
}

// formatLength rounds a branch length to three decimals.
func formatLength(x float64) string {
	r := math.Round(x*1000) / 1000
	if r == 0 {
		r = 0 // drop negative zero
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// quoteNewick single-quotes labels containing Newick punctuation or blanks.
func quoteNewick(label string) string {
	if !strings.ContainsAny(label, " \t()[]':;,") {
		return label
	}
	return "'" + strings.ReplaceAll(label, "'", "''") + "'"
}

// CompactName shortens composite motif names of the form "X...+X...": the
// repeated prefix X after each '+' is dropped, e.g. "AHR_f1+AHR_do" becomes
// "AHR_f1+do". X is the leftmost, longest prefix that repeats after a '+'
// with at least one character in between. Other names are returned as is.
func CompactName(name string) string {
	for start := 0; start < len(name); start++ {
		for end := len(name); end > start; end-- {
			rep := name[start:end]
			rest := name[end:]
			if len(rest) < 1 {
				continue
			}
			// At least one character must separate rep from "+rep".
			if strings.Contains(rest[1:], "+"+rep) {
				return strings.ReplaceAll(name, "+"+rep, "+")
			}
		}
	}
	return name
}
