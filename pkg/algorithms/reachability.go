package algorithms

// Downstream returns every node reachable from source by following
// successors, in BFS order. The source itself is only included when it
// lies on a cycle.
func Downstream(succ SuccessorFunc, source string) []string {
	visited := make(map[string]bool)
	var out []string
	queue := []string{source}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range succ(current) {
			if visited[next] {
				continue
			}
			visited[next] = true
			out = append(out, next)
			queue = append(queue, next)
		}
	}
	return out
}

// ReachableWithin returns the nodes within maxHops of source, keyed by hop
// distance. maxHops < 1 yields an empty result.
func ReachableWithin(succ SuccessorFunc, source string, maxHops int) map[int][]string {
	byHop := make(map[int][]string)
	if maxHops < 1 {
		return byHop
	}
	visited := map[string]bool{source: true}
	frontier := []string{source}
	for hop := 1; hop <= maxHops && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, s := range succ(id) {
				if visited[s] {
					continue
				}
				visited[s] = true
				next = append(next, s)
			}
		}
		if len(next) > 0 {
			byHop[hop] = next
		}
		frontier = next
	}
	return byHop
}
