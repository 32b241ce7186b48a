package algorithms

// Component is one strongly connected component.
type Component []string

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// StronglyConnectedComponents finds all SCCs using Tarjan's algorithm in
// O(V+E) time. Components come out in reverse topological order of the
// condensation.
func StronglyConnectedComponents(g Digraph) []Component {
	state := make(map[string]*tarjanState)
	var stack []string
	indexCounter := 0
	var components []Component

	var strongconnect func(u string)
	strongconnect = func(u string) {
		state[u] = &tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, v := range g.Successors(u) {
			if _, exists := state[v]; !exists {
				strongconnect(v)
				state[u].lowlink = min(state[u].lowlink, state[v].lowlink)
			} else if state[v].onStack {
				state[u].lowlink = min(state[u].lowlink, state[v].index)
			}
		}

		// If u is a root node, pop the stack to form an SCC
		if state[u].lowlink == state[u].index {
			var members Component
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				if w == u {
					break
				}
			}
			components = append(components, members)
		}
	}

	for _, id := range g.NodeIDs() {
		if _, exists := state[id]; !exists {
			strongconnect(id)
		}
	}
	return components
}

// CyclicComponents returns the components that contain a cycle: those with
// more than one member, plus single nodes with a self-loop.
func CyclicComponents(g Digraph) []Component {
	var out []Component
	for _, c := range StronglyConnectedComponents(g) {
		if len(c) > 1 {
			out = append(out, c)
			continue
		}
		for _, s := range g.Successors(c[0]) {
			if s == c[0] {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
