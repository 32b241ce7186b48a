package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for the application
type Registry struct {
	// Graph Metrics
	GraphNodesTotal          prometheus.Gauge
	GraphConnectionsTotal    prometheus.Gauge
	GraphGroupsTotal         prometheus.Gauge
	GraphOperationsTotal     *prometheus.CounterVec
	GraphOperationDuration   *prometheus.HistogramVec
	GraphPrunedConnections   prometheus.Counter
	GraphRejectedConnections *prometheus.CounterVec

	// Propagation Metrics
	PropagationFlushesTotal  prometheus.Counter
	PropagationDirtyNodes    prometheus.Histogram
	PropagationFlushDuration prometheus.Histogram
	PropagationUpdatesTotal  prometheus.Counter
	PropagationHookFailures  prometheus.Counter
	PropagationCyclesTotal   prometheus.Counter
	PropagationDeferredTotal prometheus.Counter
	PropagationPendingNodes  prometheus.Gauge

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// System Metrics
	UptimeSeconds    prometheus.Gauge
	GoRoutines       prometheus.Gauge
	MemoryAllocBytes prometheus.Gauge

	registry *prometheus.Registry
	mu       sync.RWMutex
}

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initGraphMetrics()
	r.initPropagationMetrics()
	r.initHTTPMetrics()
	r.initSystemMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
