package hclust

import "fmt"

// Merge records one agglomeration step. Children holds the two merged node
// ids with Children[0] < Children[1]; Distance is the linkage distance at the
// moment of the merge (the link length of the new node).
type Merge struct {
	Children [2]int
	Distance float64
}

// Tree is a full binary merge tree over n leaves stored as an arena indexed
// by node id. Leaves are 0..n-1; merge k created internal node n+k, so a
// child id is always smaller than its parent's id. A Tree is immutable.
type Tree struct {
	n      int
	merges []Merge
}

// newTree validates merges against n leaves: exactly n-1 merges, each child
// id ordered, below its parent, and used by exactly one parent.
func newTree(n int, merges []Merge) (*Tree, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: tree needs at least one leaf, got %d", ErrCorruptSnapshot, n)
	}
	if len(merges) != n-1 {
		return nil, fmt.Errorf("%w: %d leaves need %d merges, got %d", ErrCorruptSnapshot, n, n-1, len(merges))
	}
	used := make([]bool, 2*n-1)
	for k, m := range merges {
		node := n + k
		a, b := m.Children[0], m.Children[1]
		if a < 0 || a >= b || b >= node {
			return nil, fmt.Errorf("%w: node %d has children (%d, %d)", ErrCorruptSnapshot, node, a, b)
		}
		if used[a] || used[b] {
			return nil, fmt.Errorf("%w: node %d reuses a merged child (%d, %d)", ErrCorruptSnapshot, node, a, b)
		}
		used[a], used[b] = true, true
	}
	return &Tree{n: n, merges: merges}, nil
}

// NumLeaves returns N.
func (t *Tree) NumLeaves() int { return t.n }

// NumMerges returns the number of internal nodes, N-1.
func (t *Tree) NumMerges() int { return len(t.merges) }

// NumNodes returns 2N-1.
func (t *Tree) NumNodes() int { return t.n + len(t.merges) }

// Merges returns a copy of the merge records in creation order.
func (t *Tree) Merges() []Merge {
	out := make([]Merge, len(t.merges))
	copy(out, t.merges)
	return out
}

// Root returns the id of the last merge, 2N-2 (0 for a single leaf).
func (t *Tree) Root() int { return 2*t.n - 2 }

// IsLeaf reports whether node is a leaf.
func (t *Tree) IsLeaf(node int) bool { return node < t.n }

// Children returns the two children of an internal node, smaller id first.
// It panics if node is a leaf or out of range.
func (t *Tree) Children(node int) (int, int) {
	m := t.merge(node)
	return m.Children[0], m.Children[1]
}

// LinkLength returns the merge distance of an internal node and 0 for a leaf.
func (t *Tree) LinkLength(node int) float64 {
	if t.IsLeaf(node) {
		t.checkNode(node)
		return 0
	}
	return t.merge(node).Distance
}

func (t *Tree) merge(node int) Merge {
	t.checkNode(node)
	if t.IsLeaf(node) {
		panic(fmt.Sprintf("hclust: node %d is a leaf and has no children", node))
	}
	return t.merges[node-t.n]
}

func (t *Tree) checkNode(node int) {
	if node < 0 || node >= t.NumNodes() {
		panic(fmt.Sprintf("hclust: node %d out of range [0, %d)", node, t.NumNodes()))
	}
}

// Leaves returns the leaf ids under node, left (smaller child) subtree first.
func (t *Tree) Leaves(node int) []int {
	t.checkNode(node)
	var leaves []int
	stack := []int{node}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if t.IsLeaf(x) {
			leaves = append(leaves, x)
			continue
		}
		a, b := t.Children(x)
		stack = append(stack, b, a)
	}
	return leaves
}

// LinkageMatrix returns the tree in scipy linkage format: one row per merge,
// [left, right, distance, size], where size is the number of leaves under
// the new node.
func (t *Tree) LinkageMatrix() [][4]float64 {
	sizes := make([]int, t.NumNodes())
	for i := 0; i < t.n; i++ {
		sizes[i] = 1
	}
	result := make([][4]float64, len(t.merges))
	for k, m := range t.merges {
		a, b := m.Children[0], m.Children[1]
		sizes[t.n+k] = sizes[a] + sizes[b]
		result[k] = [4]float64{float64(a), float64(b), m.Distance, float64(sizes[t.n+k])}
	}
	return result
}
