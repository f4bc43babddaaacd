package hclust

import "fmt"

// Predicate decides whether the two branches of an internal node may be
// glued into one cluster. It is only asked about internal nodes.
type Predicate func(node int) bool

// NodeMetric assigns a value to every node, e.g. Engine.LinkLength or
// Engine.SubtreeMaxDistance.
type NodeMetric func(node int) float64

// Metric names accepted by Engine.Metric.
const (
	MetricLinkLength         = "link_length"
	MetricSubtreeMaxDistance = "subtree_max_distance"
)

// CutoffCriterion returns a predicate accepting nodes whose metric value is
// at most cutoff.
func CutoffCriterion(metric NodeMetric, cutoff float64) Predicate {
	return func(node int) bool { return metric(node) <= cutoff }
}

// NumberOfClustersCriterion returns a predicate accepting only the earliest
// N-1-k merges (node <= 2N-1-k). It approximates k clusters; the actual
// count can differ because later merges may sit below earlier splits.
func (e *Engine) NumberOfClustersCriterion(k int) Predicate {
	limit := 2*e.NumLeaves() - 1 - k
	return func(node int) bool { return node <= limit }
}

// Metric resolves a NodeMetric by name: "link_length" or
// "subtree_max_distance".
func (e *Engine) Metric(name string) (NodeMetric, error) {
	switch name {
	case MetricLinkLength:
		return e.LinkLength, nil
	case MetricSubtreeMaxDistance:
		return e.SubtreeMaxDistance, nil
	default:
		return nil, fmt.Errorf("hclust: unknown node metric %q", name)
	}
}

// SubtreeClusters partitions the leaves under node into flat clusters.
//
// A leaf is a single cluster. An internal node glues its two branches into
// one cluster only if each branch came out as exactly one cluster and pred
// is nil or accepts the node; otherwise the branch lists are concatenated,
// left (smaller child) first. Once a node splits, no ancestor can glue its
// branches again. pred is only called for nodes whose branches are both
// single clusters.
func (e *Engine) SubtreeClusters(node int, pred Predicate) [][]int {
	t := e.tree
	t.checkNode(node)
	if t.IsLeaf(node) {
		return [][]int{{node}}
	}

	// whole[x]: the subtree of x forms a single cluster.
	whole := make([]bool, t.NumNodes())
	for i := 0; i < t.n; i++ {
		whole[i] = true
	}

	type frame struct {
		node     int
		expanded bool
	}
	stack := []frame{{node: node}}
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.IsLeaf(f.node) {
			continue
		}
		a, b := t.Children(f.node)
		if !f.expanded {
			stack = append(stack, frame{node: f.node, expanded: true}, frame{node: b}, frame{node: a})
			continue
		}
		whole[f.node] = whole[a] && whole[b] && (pred == nil || pred(f.node))
	}

	var clusters [][]int
	pending := []int{node}
	for len(pending) > 0 {
		x := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		if whole[x] {
			clusters = append(clusters, t.Leaves(x))
			continue
		}
		a, b := t.Children(x)
		pending = append(pending, b, a)
	}
	return clusters
}

// Clusters partitions all leaves, starting from the root.
func (e *Engine) Clusters(pred Predicate) [][]int {
	return e.SubtreeClusters(e.Root(), pred)
}

// ClusterNames is Clusters with leaf ids replaced by their names.
func (e *Engine) ClusterNames(pred Predicate) [][]string {
	clusters := e.Clusters(pred)
	out := make([][]string, len(clusters))
	for i, c := range clusters {
		names := make([]string, len(c))
		for j, leaf := range c {
			names[j] = e.names[leaf]
		}
		out[i] = names
	}
	return out
}

// Labels returns, for every leaf, the index of its cluster in Clusters(pred).
func (e *Engine) Labels(pred Predicate) []int {
	labels := make([]int, e.NumLeaves())
	for i, c := range e.Clusters(pred) {
		for _, leaf := range c {
			labels[leaf] = i
		}
	}
	return labels
}
