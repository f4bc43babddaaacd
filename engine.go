package hclust

import (
	"log/slog"
	"slices"
	"sync"
)

// Engine is a built (or restored) clustering: the distance matrix, leaf
// names, the merge tree and a per-instance cache of subtree diameters.
// Queries are safe for concurrent use.
type Engine struct {
	matrix  *DistanceMatrix
	names   []string
	linkage Linkage
	tree    *Tree
	logger  *slog.Logger

	mu            sync.Mutex
	maxDistance   map[int]float64
	inconsistency []float64
}

func newEngine(m *DistanceMatrix, names []string, linkage Linkage, tree *Tree, cache map[int]float64, logger *slog.Logger) *Engine {
	if cache == nil {
		cache = make(map[int]float64)
	}
	return &Engine{
		matrix:      m,
		names:       names,
		linkage:     linkage,
		tree:        tree,
		logger:      logger,
		maxDistance: cache,
	}
}

// Tree returns the merge tree.
func (e *Engine) Tree() *Tree { return e.tree }

// Matrix returns the distance matrix the engine was built or loaded with.
func (e *Engine) Matrix() *DistanceMatrix { return e.matrix }

// Linkage returns the linkage the tree was built with.
func (e *Engine) Linkage() Linkage { return e.linkage }

// Names returns a copy of the leaf names, indexed by leaf id.
func (e *Engine) Names() []string { return slices.Clone(e.names) }

// Name returns the name of leaf i.
func (e *Engine) Name(i int) string { return e.names[i] }

// NumLeaves returns N.
func (e *Engine) NumLeaves() int { return e.tree.NumLeaves() }

// Root returns the root node id, 2N-2.
func (e *Engine) Root() int { return e.tree.Root() }

// IsLeaf reports whether node is a leaf.
func (e *Engine) IsLeaf(node int) bool { return e.tree.IsLeaf(node) }

// Children returns the children of an internal node. It panics on a leaf.
func (e *Engine) Children(node int) (int, int) { return e.tree.Children(node) }

// LinkLength returns the merge distance of node, 0 for leaves. Its method
// value is a NodeMetric.
func (e *Engine) LinkLength(node int) float64 { return e.tree.LinkLength(node) }
