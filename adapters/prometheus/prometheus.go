// Package prometheus provides a Prometheus implementation of hclust.Metrics.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/TrevorS/hclust"
)

// Buckets for build durations (in seconds). Large matrices take minutes.
var durationBuckets = []float64{
	.01, .05, .1, .5, 1, 5, 10, 30, 60, 300, 900, 3600,
}

// buildMetrics implements hclust.Metrics using Prometheus.
type buildMetrics struct {
	mergesTotal   prometheus.Counter
	mergeDistance prometheus.Histogram
	buildDuration prometheus.Histogram
	buildsTotal   prometheus.Counter
	leaves        prometheus.Gauge
}

// NewMetrics creates Prometheus metrics for merge-tree builds and registers
// them with reg.
func NewMetrics(reg prometheus.Registerer) hclust.Metrics {
	m := &buildMetrics{
		mergesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hclust_merges_total",
			Help: "Total number of merges performed",
		}),

		mergeDistance: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hclust_merge_distance",
			Help:    "Link length of each merge",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}),

		buildDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "hclust_build_duration_seconds",
			Help:    "Time to build a merge tree in seconds",
			Buckets: durationBuckets,
		}),

		buildsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hclust_builds_total",
			Help: "Total number of completed builds",
		}),

		leaves: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hclust_last_build_leaves",
			Help: "Number of leaves in the most recent build",
		}),
	}

	reg.MustRegister(
		m.mergesTotal,
		m.mergeDistance,
		m.buildDuration,
		m.buildsTotal,
		m.leaves,
	)

	return m
}

func (m *buildMetrics) MergeRecorded(distance float64) {
	m.mergesTotal.Inc()
	m.mergeDistance.Observe(distance)
}

func (m *buildMetrics) BuildFinished(leaves int, elapsed time.Duration) {
	m.buildsTotal.Inc()
	m.buildDuration.Observe(elapsed.Seconds())
	m.leaves.Set(float64(leaves))
}
