package algorithms

// Cycle represents a detected cycle as a sequence of node IDs
type Cycle []string

const (
	white = iota // unvisited
	gray         // on the DFS stack
	black        // finished
)

// DetectCycles finds cycles in the graph using DFS with three-color marking.
// One cycle is reported per back edge found, so the result is a witness set
// rather than every elementary cycle.
//
// When we encounter a gray node during DFS we've found a back edge, which
// indicates a cycle.
func DetectCycles(g Digraph) []Cycle {
	color := make(map[string]int)
	parent := make(map[string]string)
	cycles := make([]Cycle, 0)

	for _, id := range g.NodeIDs() {
		if color[id] == white {
			dfsDetectCycle(g.Successors, id, color, parent, &cycles)
		}
	}
	return cycles
}

func dfsDetectCycle(succ SuccessorFunc, id string, color map[string]int, parent map[string]string, cycles *[]Cycle) {
	color[id] = gray

	for _, next := range succ(id) {
		if next == id {
			*cycles = append(*cycles, Cycle{id})
			continue
		}
		switch color[next] {
		case white:
			parent[next] = id
			dfsDetectCycle(succ, next, color, parent, cycles)
		case gray:
			*cycles = append(*cycles, extractCycle(next, id, parent))
		}
	}

	color[id] = black
}

// extractCycle walks parent pointers back from end to start, given a back
// edge end -> start.
func extractCycle(start, end string, parent map[string]string) Cycle {
	cycle := Cycle{start}
	var path []string
	for current := end; current != start; {
		path = append(path, current)
		p, ok := parent[current]
		if !ok {
			break
		}
		current = p
	}
	// path is end..child-of-start; reverse it so the cycle reads forward
	for i := len(path) - 1; i >= 0; i-- {
		cycle = append(cycle, path[i])
	}
	return cycle
}

// CycleStats provides statistics about detected cycles
type CycleStats struct {
	TotalCycles   int
	ShortestCycle int
	LongestCycle  int
	SelfLoops     int
}

// AnalyzeCycles computes statistics about detected cycles
func AnalyzeCycles(cycles []Cycle) CycleStats {
	if len(cycles) == 0 {
		return CycleStats{}
	}

	stats := CycleStats{
		TotalCycles:   len(cycles),
		ShortestCycle: len(cycles[0]),
		LongestCycle:  len(cycles[0]),
	}
	for _, cycle := range cycles {
		length := len(cycle)
		if length == 1 {
			stats.SelfLoops++
		}
		stats.ShortestCycle = min(stats.ShortestCycle, length)
		stats.LongestCycle = max(stats.LongestCycle, length)
	}
	return stats
}

// HasCycle checks if the graph contains any cycle, stopping at the first.
func HasCycle(g Digraph) bool {
	color := make(map[string]int)
	for _, id := range g.NodeIDs() {
		if color[id] == white && hasCycleDFS(g.Successors, id, color) {
			return true
		}
	}
	return false
}

func hasCycleDFS(succ SuccessorFunc, id string, color map[string]int) bool {
	color[id] = gray
	for _, next := range succ(id) {
		switch color[next] {
		case white:
			if hasCycleDFS(succ, next, color) {
				return true
			}
		case gray:
			return true
		}
	}
	color[id] = black
	return false
}
