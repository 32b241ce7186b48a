package metrics

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation status labels
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RecordOperation records an editing operation with its outcome
func (r *Registry) RecordOperation(operation string, err error, duration time.Duration) {
	status := StatusOK
	if err != nil {
		status = StatusError
	}
	r.GraphOperationsTotal.WithLabelValues(operation, status).Inc()
	r.GraphOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// UpdateGraphMetrics sets the graph size gauges
func (r *Registry) UpdateGraphMetrics(nodes, connections, groups int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.GraphNodesTotal.Set(float64(nodes))
	r.GraphConnectionsTotal.Set(float64(connections))
	r.GraphGroupsTotal.Set(float64(groups))
}

// RecordRejectedConnection counts a connect attempt refused by policy
func (r *Registry) RecordRejectedConnection(reason string) {
	r.GraphRejectedConnections.WithLabelValues(reason).Inc()
}

// RecordPruned counts connection entries removed by a prune pass
func (r *Registry) RecordPruned(n int) {
	if n > 0 {
		r.GraphPrunedConnections.Add(float64(n))
	}
}

// RecordFlush records one completed flush cycle
func (r *Registry) RecordFlush(dirty, updated, failed int, duration time.Duration) {
	r.PropagationFlushesTotal.Inc()
	r.PropagationDirtyNodes.Observe(float64(dirty))
	r.PropagationFlushDuration.Observe(duration.Seconds())
	r.PropagationUpdatesTotal.Add(float64(updated))
	r.PropagationHookFailures.Add(float64(failed))
}

// RecordCycle counts a cyclic path hit during dirty marking
func (r *Registry) RecordCycle() {
	r.PropagationCyclesTotal.Inc()
}

// RecordDeferred counts dirty marks pushed to the next flush
func (r *Registry) RecordDeferred(n int) {
	if n > 0 {
		r.PropagationDeferredTotal.Add(float64(n))
	}
}

// SetPending sets the number of nodes awaiting flush
func (r *Registry) SetPending(n int) {
	r.PropagationPendingNodes.Set(float64(n))
}

// RecordHTTPRequest records an HTTP request with its duration
func (r *Registry) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// UpdateSystemMetrics refreshes uptime and runtime gauges
func (r *Registry) UpdateSystemMetrics(started time.Time) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	r.UptimeSeconds.Set(time.Since(started).Seconds())
	r.GoRoutines.Set(float64(runtime.NumGoroutine()))
	r.MemoryAllocBytes.Set(float64(ms.Alloc))
}

// Handler exposes the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// InstrumentHandler wraps next with request counting, latency and in-flight tracking
func (r *Registry) InstrumentHandler(path string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		r.HTTPRequestsInFlight.Inc()
		defer r.HTTPRequestsInFlight.Dec()

		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(sw, req)
		r.RecordHTTPRequest(req.Method, path, sw.status, time.Since(start))
	})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
