// Package hclust implements agglomerative hierarchical clustering over a
// precomputed pairwise distance matrix of named items (for example sequence
// motifs).
//
// Clustering produces a binary merge tree. Leaves are the items 0..N-1 and
// the k-th merge creates internal node N+k, so node ids grow with merge order
// and the root is always 2N-2. The tree can be cut into flat clusters at any
// threshold, and it can be saved without the (usually large) distance matrix
// and restored later against the same matrix.
//
// Basic usage:
//
//	m, err := hclust.LoadMatrixFile("distance.txt")
//	cfg := hclust.DefaultConfig()
//	cfg.Linkage = hclust.LinkageAverage
//	e, err := hclust.Build(m, names, cfg)
//	clusters := e.ClusterNames(hclust.CutoffCriterion(e.LinkLength, 0.95))
//	// clusters[i] lists the names of the items in the i-th flat cluster
//
// Saving and restoring the tree:
//
//	err = e.SaveFile("cluster.yaml")
//	e2, err := hclust.LoadFile(m, "cluster.yaml", cfg)
//
// # Linkage
//
// Three Lance-Williams update rules are available: single (minimum), complete
// (maximum) and average. Average linkage takes the plain mean of the two
// pre-merge distances and does not weight by cluster sizes.
//
// # Ties
//
// When several pairs share the minimal distance, the pair met first while
// scanning the active nodes in their current order wins. Newly merged nodes
// are appended to the end of the active list, so the result is deterministic
// but depends on merge history rather than on numeric ids. The parallel scan
// (Config.Workers > 1) reproduces the sequential choice exactly.
package hclust
