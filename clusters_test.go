package hclust

import (
	"math/rand"
	"slices"
	"sort"
	"testing"
)

func TestClusterNames_CutoffScenario(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())

	got := e.ClusterNames(CutoffCriterion(e.LinkLength, 5))
	want := [][]string{{"C", "D"}, {"A", "B"}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("cluster %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClusters_NoPredicateIsOneCluster(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n := 23
	e := mustBuild(t, randomMatrix(t, rng, n, 5), leafNames(n), sequentialConfig())

	got := e.ClusterNames(nil)
	if len(got) != 1 {
		t.Fatalf("got %d clusters, want 1", len(got))
	}
	sorted := slices.Clone(got[0])
	sort.Strings(sorted)
	want := leafNames(n)
	sort.Strings(want)
	if !slices.Equal(sorted, want) {
		t.Errorf("cluster does not hold every name: %v", got[0])
	}
}

func TestClusters_AlwaysFalseGivesSingletons(t *testing.T) {
	rng := rand.New(rand.NewSource(12))
	n := 17
	e := mustBuild(t, randomMatrix(t, rng, n, 0), leafNames(n), sequentialConfig())

	got := e.Clusters(func(int) bool { return false })
	if len(got) != n {
		t.Fatalf("got %d clusters, want %d", len(got), n)
	}
	seen := make(map[int]bool)
	for _, c := range got {
		if len(c) != 1 {
			t.Errorf("cluster %v is not a singleton", c)
		}
		seen[c[0]] = true
	}
	if len(seen) != n {
		t.Errorf("singletons cover %d leaves, want %d", len(seen), n)
	}
}

func TestClusters_SplitIsPermanent(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())

	// Reject only node 4; the root would accept, but its left branch is split.
	got := e.Clusters(func(node int) bool { return node != 4 })
	want := [][]int{{2}, {3}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("cluster %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestClusters_PredicateOnlyAskedWhenBothBranchesWhole(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())

	var asked []int
	e.Clusters(func(node int) bool {
		asked = append(asked, node)
		return node != 4
	})
	// Node 4 is rejected, so the root is never asked. Order is left-first post-order.
	if !slices.Equal(asked, []int{4, 5}) {
		t.Errorf("predicate asked for %v, want [4 5]", asked)
	}
}

func TestSubtreeClusters_Leaf(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())
	got := e.SubtreeClusters(3, func(int) bool { return false })
	if len(got) != 1 || !slices.Equal(got[0], []int{3}) {
		t.Errorf("got %v, want [[3]]", got)
	}
}

func TestNumberOfClustersCriterion(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())

	for k, want := range map[int]int{1: 1, 2: 2, 3: 3, 4: 4} {
		if got := len(e.Clusters(e.NumberOfClustersCriterion(k))); got != want {
			t.Errorf("k=%d: got %d clusters, want %d", k, got, want)
		}
	}
}

func TestCutoffCriterion_Monotone(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	n := 40
	for _, linkage := range Linkages() {
		cfg := sequentialConfig()
		cfg.Linkage = linkage
		e := mustBuild(t, randomMatrix(t, rng, n, 0), leafNames(n), cfg)

		var dists []float64
		for _, mg := range e.Tree().Merges() {
			dists = append(dists, mg.Distance)
		}
		slices.Sort(dists)

		if got := len(e.Clusters(CutoffCriterion(e.LinkLength, dists[0]/2))); got != n {
			t.Errorf("%s: below minimum: got %d clusters, want %d", linkage, got, n)
		}
		prev := n
		for _, c := range dists {
			got := len(e.Clusters(CutoffCriterion(e.LinkLength, c)))
			if got > prev {
				t.Errorf("%s: cutoff %v: %d clusters, more than %d at a smaller cutoff", linkage, c, got, prev)
			}
			prev = got
		}
		if prev != 1 {
			t.Errorf("%s: at maximum merge distance: got %d clusters, want 1", linkage, prev)
		}
	}
}

func TestLabels(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())
	got := e.Labels(CutoffCriterion(e.LinkLength, 5))
	want := []int{1, 1, 0, 0}
	if !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestEngineMetric(t *testing.T) {
	m, names := abcdMatrix(t)
	e := mustBuild(t, m, names, sequentialConfig())

	ll, err := e.Metric(MetricLinkLength)
	if err != nil {
		t.Fatal(err)
	}
	if ll(6) != 9 {
		t.Errorf("link_length(6): got %v, want 9", ll(6))
	}
	md, err := e.Metric(MetricSubtreeMaxDistance)
	if err != nil {
		t.Fatal(err)
	}
	if md(5) != 2 {
		t.Errorf("subtree_max_distance(5): got %v, want 2", md(5))
	}
	if _, err := e.Metric("height"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
