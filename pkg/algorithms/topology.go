package algorithms

import (
	"errors"
)

// ErrNotDAG is returned by TopologicalSort when the graph has a cycle.
var ErrNotDAG = errors.New("graph contains cycles, cannot perform topological sort")

// IsDAG checks if the graph is a Directed Acyclic Graph
func IsDAG(g Digraph) bool {
	return !HasCycle(g)
}

// TopologicalSort returns every node in topological order, or ErrNotDAG.
func TopologicalSort(g Digraph) ([]string, error) {
	sorted, cyclic := TopologicalOrder(g.NodeIDs(), g.Successors)
	if len(cyclic) > 0 {
		return nil, ErrNotDAG
	}
	return sorted, nil
}

// TopologicalOrder orders ids with Kahn's algorithm, considering only edges
// between members of ids. Ties keep the order of ids. Members that sit on or
// behind a cycle cannot be ordered; they are returned separately in ids order.
func TopologicalOrder(ids []string, succ SuccessorFunc) (sorted, cyclic []string) {
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}

	// Calculate in-degree within the subset
	inDegree := make(map[string]int, len(ids))
	adj := make(map[string][]string, len(ids))
	for _, id := range ids {
		for _, next := range succ(id) {
			if !member[next] {
				continue
			}
			adj[id] = append(adj[id], next)
			inDegree[next]++
		}
	}

	queue := make([]string, 0, len(ids))
	for _, id := range ids {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted = make([]string, 0, len(ids))
	done := make(map[string]bool, len(ids))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)
		done[current] = true

		for _, next := range adj[current] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	for _, id := range ids {
		if !done[id] {
			cyclic = append(cyclic, id)
		}
	}
	return sorted, cyclic
}

// subgraph restricts a SuccessorFunc to the members of ids.
type subgraph struct {
	ids    []string
	member map[string]bool
	succ   SuccessorFunc
}

func newSubgraph(ids []string, succ SuccessorFunc) subgraph {
	member := make(map[string]bool, len(ids))
	for _, id := range ids {
		member[id] = true
	}
	return subgraph{ids: ids, member: member, succ: succ}
}

func (s subgraph) NodeIDs() []string { return s.ids }

func (s subgraph) Successors(id string) []string {
	var out []string
	for _, next := range s.succ(id) {
		if s.member[next] {
			out = append(out, next)
		}
	}
	return out
}

// CondensedOrder orders every member of ids parents first, treating each
// strongly connected component as one node of the condensation DAG.
// Members of one component keep the order of ids, and so do ties between
// components. cyclic lists the members of components that hold a cycle,
// in ids order. Without cycles the result equals TopologicalOrder.
func CondensedOrder(ids []string, succ SuccessorFunc) (order, cyclic []string) {
	sub := newSubgraph(ids, succ)
	comps := StronglyConnectedComponents(sub)

	compOf := make(map[string]int, len(ids))
	for ci, c := range comps {
		for _, id := range c {
			compOf[id] = ci
		}
	}
	members := make([][]string, len(comps))
	for _, id := range ids {
		ci := compOf[id]
		members[ci] = append(members[ci], id)
	}

	looped := make([]bool, len(comps))
	inDegree := make([]int, len(comps))
	adj := make([][]int, len(comps))
	seen := make(map[[2]int]bool)
	for _, id := range ids {
		from := compOf[id]
		for _, next := range sub.Successors(id) {
			to := compOf[next]
			if from == to {
				looped[from] = true
				continue
			}
			if seen[[2]int{from, to}] {
				continue
			}
			seen[[2]int{from, to}] = true
			adj[from] = append(adj[from], to)
			inDegree[to]++
		}
	}

	queue := make([]int, 0, len(comps))
	queued := make([]bool, len(comps))
	for _, id := range ids {
		ci := compOf[id]
		if inDegree[ci] == 0 && !queued[ci] {
			queued[ci] = true
			queue = append(queue, ci)
		}
	}

	order = make([]string, 0, len(ids))
	for len(queue) > 0 {
		ci := queue[0]
		queue = queue[1:]
		order = append(order, members[ci]...)
		for _, next := range adj[ci] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}

	for _, id := range ids {
		if looped[compOf[id]] {
			cyclic = append(cyclic, id)
		}
	}
	return order, cyclic
}
