package hclust

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
)

// SubtreeMaxDistance returns the diameter of the subtree rooted at node: the
// largest input-matrix distance between two of its leaves, 0 for a leaf.
// Values are cached for the lifetime of the engine. Its method value is a
// NodeMetric.
func (e *Engine) SubtreeMaxDistance(node int) float64 {
	if e.tree.IsLeaf(node) {
		e.tree.checkNode(node)
		return 0
	}

	e.mu.Lock()
	d, ok := e.maxDistance[node]
	e.mu.Unlock()
	if ok {
		return d
	}

	leaves := e.tree.Leaves(node)
	d = e.diameter(leaves)
	e.logger.Debug("subtree diameter computed",
		slog.Int("node", node),
		slog.Int("leaves", len(leaves)),
		slog.Float64("diameter", d))

	e.mu.Lock()
	e.maxDistance[node] = d
	e.mu.Unlock()
	return d
}

// diameter returns the maximum entry of the sub-matrix restricted to leaves.
func (e *Engine) diameter(leaves []int) float64 {
	if len(leaves) < 2 {
		return 0
	}
	buf := make([]float64, len(leaves))
	var best float64
	for _, i := range leaves {
		for k, j := range leaves {
			buf[k] = e.matrix.At(i, j)
		}
		best = max(best, floats.Max(buf))
	}
	return best
}

// Inconsistency returns one coefficient per merge, in creation order. It
// compares a merge distance with the link lengths L1, L2 of its two
// children: (d - (L1+L2)/2) / (|L2-L1|/sqrt(2)). When both children have link
// length 0 the coefficient is -1. When L1 == L2 > 0 the division by zero
// yields ±Inf (or NaN if d equals them too).
func (e *Engine) Inconsistency() []float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inconsistency == nil {
		e.inconsistency = computeInconsistency(e.tree)
	}
	return slices.Clone(e.inconsistency)
}

func computeInconsistency(t *Tree) []float64 {
	result := make([]float64, len(t.merges))
	for k, m := range t.merges {
		l1 := t.LinkLength(m.Children[0])
		l2 := t.LinkLength(m.Children[1])
		if l1 == 0 && l2 == 0 {
			result[k] = -1
			continue
		}
		ave := (l1 + l2) / 2
		stddev := math.Abs(l2-l1) / math.Sqrt2
		result[k] = (m.Distance - ave) / stddev
	}
	return result
}
