package health

import (
	"fmt"
	"runtime"
)

// GraphState is what GraphCheck needs to know about the served graph.
type GraphState struct {
	Loaded      bool
	Nodes       int
	Connections int
	Cycles      int
}

// GraphCheck is unhealthy until a graph is loaded. Cycles are legal but
// make propagation order fall back to discovery order, so they degrade.
func GraphCheck(get func() GraphState) CheckFunc {
	return func() Check {
		st := get()
		check := Check{
			Name: "graph",
			Details: map[string]any{
				"nodes":       st.Nodes,
				"connections": st.Connections,
				"cycles":      st.Cycles,
			},
		}
		switch {
		case !st.Loaded:
			check.Status = StatusUnhealthy
			check.Message = "No graph loaded"
		case st.Cycles > 0:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("%d cycles in graph", st.Cycles)
		default:
			check.Status = StatusHealthy
			check.Message = "Graph loaded"
		}
		return check
	}
}

// PropagationState is what PropagationCheck needs from the propagator.
type PropagationState struct {
	Pending  int
	Flushes  int
	Failures int
}

// PropagationCheck degrades when more than warnAt nodes wait for a flush.
// warnAt <= 0 disables the threshold.
func PropagationCheck(get func() PropagationState, warnAt int) CheckFunc {
	return func() Check {
		st := get()
		check := Check{
			Name: "propagation",
			Details: map[string]any{
				"pending":        st.Pending,
				"flushes":        st.Flushes,
				"hook_failures":  st.Failures,
				"warn_threshold": warnAt,
			},
			Status:  StatusHealthy,
			Message: "Dirty set within bounds",
		}
		if warnAt > 0 && st.Pending > warnAt {
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("%d nodes pending, threshold %d", st.Pending, warnAt)
		}
		return check
	}
}

// MemoryCheck creates a health check for memory usage. A nil getUsage
// reads runtime.MemStats.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	if getUsage == nil {
		getUsage = func() (uint64, uint64) {
			var ms runtime.MemStats
			runtime.ReadMemStats(&ms)
			return ms.Alloc, ms.Sys
		}
	}
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys > 0 && float64(alloc)/float64(sys)*100 > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}
