package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "nodegraph_graph_nodes_total",
			Help: "Number of nodes in the graph",
		},
	)

	r.GraphConnectionsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "nodegraph_graph_connections_total",
			Help: "Number of output->input connections in the graph",
		},
	)

	r.GraphGroupsTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "nodegraph_graph_groups_total",
			Help: "Number of node groups in the graph",
		},
	)

	r.GraphOperationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodegraph_graph_operations_total",
			Help: "Total number of editing operations",
		},
		[]string{"operation", "status"},
	)

	r.GraphOperationDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nodegraph_graph_operation_duration_seconds",
			Help:    "Editing operation duration in seconds",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.01, 0.1, 1.0},
		},
		[]string{"operation"},
	)

	r.GraphPrunedConnections = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "nodegraph_graph_pruned_connections_total",
			Help: "Connection entries dropped because they could not be resolved",
		},
	)

	r.GraphRejectedConnections = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "nodegraph_graph_rejected_connections_total",
			Help: "Connection attempts rejected by the connect policy",
		},
		[]string{"reason"},
	)
}
