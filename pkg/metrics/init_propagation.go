package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPropagationMetrics() {
	r.PropagationFlushesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodegraph_propagation_flushes_total",
			Help: "Total number of flush cycles",
		},
	)

	r.PropagationDirtyNodes = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodegraph_propagation_dirty_nodes",
			Help:    "Number of dirty nodes processed per flush",
			Buckets: []float64{1, 5, 10, 50, 100, 500, 1000},
		},
	)

	r.PropagationFlushDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nodegraph_propagation_flush_duration_seconds",
			Help:    "Flush duration in seconds",
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 1.0, 5.0},
		},
	)

	r.PropagationUpdatesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodegraph_propagation_updates_total",
			Help: "Total number of node update hooks that completed",
		},
	)

	r.PropagationHookFailures = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodegraph_propagation_hook_failures_total",
			Help: "Total number of node update hooks that returned an error or panicked",
		},
	)

	r.PropagationCyclesTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodegraph_propagation_cycles_total",
			Help: "Cyclic paths encountered while marking nodes dirty",
		},
	)

	r.PropagationDeferredTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodegraph_propagation_deferred_total",
			Help: "Dirty marks raised during a flush and deferred to the next cycle",
		},
	)

	r.PropagationPendingNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "nodegraph_propagation_pending_nodes",
			Help: "Nodes currently marked dirty and awaiting flush",
		},
	)
}
