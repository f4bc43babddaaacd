package hclust

import (
	"math"
	"sync"
)

// parallelThreshold is the smallest row count worth splitting across
// goroutines. Below it the fan-out costs more than the work.
const parallelThreshold = 256

// forRowRanges calls fn over contiguous, non-overlapping [start, end) ranges
// covering [0, n). With workers <= 1 or small n, fn runs once on the caller's
// goroutine. fn must only write state owned by its own range.
func forRowRanges(n, workers int, fn func(start, end int)) {
	if workers <= 1 || n < parallelThreshold {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	rowsPerWorker := (n + workers - 1) / workers

	for w := 0; w < workers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, n)
		if startRow >= n {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			fn(start, end)
		}(startRow, endRow)
	}

	wg.Wait()
}

// pairCandidate is the best pair found in one range of the minimal-pair scan.
type pairCandidate struct {
	dist   float64
	ci, cj int
	found  bool
}

// better reports whether c should replace best when candidates are visited
// in scan order. Equal distances keep the earlier candidate.
func (c pairCandidate) better(best pairCandidate) bool {
	return c.found && (!best.found || c.dist < best.dist)
}

// minimalPair scans all pairs (i, j) of active nodes with i > j, in the
// order the nodes appear in active, and returns the pair with the strictly
// smallest distance, ci < cj. Among equal distances the first pair met wins.
//
// With workers > 1 the outer loop is split into contiguous ranges; the range
// results are reduced in range order, which selects the same pair as the
// sequential scan.
func (w *workingMatrix) minimalPair(active []int, workers int) (ci, cj int, dist float64) {
	n := len(active)
	if workers <= 1 || n < parallelThreshold {
		c := w.scanRange(active, 0, n)
		return c.cj, c.ci, c.dist
	}

	rowsPerWorker := (n + workers - 1) / workers
	parts := make([]pairCandidate, (n+rowsPerWorker-1)/rowsPerWorker)
	forRowRanges(n, workers, func(start, end int) {
		parts[start/rowsPerWorker] = w.scanRange(active, start, end)
	})

	var best pairCandidate
	for _, c := range parts {
		if c.better(best) {
			best = c
		}
	}
	return best.cj, best.ci, best.dist
}

// scanRange scans outer positions [start, end) of active. The returned
// candidate holds the larger id in ci and the smaller in cj, matching the
// i > j orientation of the scan.
func (w *workingMatrix) scanRange(active []int, start, end int) pairCandidate {
	best := pairCandidate{dist: math.Inf(1)}
	for _, i := range active[start:end] {
		row := w.rows[i]
		for _, j := range active {
			if i <= j {
				continue
			}
			c := pairCandidate{dist: row[j], ci: i, cj: j, found: true}
			if c.better(best) {
				best = c
			}
		}
	}
	return best
}
