package algorithms

// Digraph is the read-only adjacency view the algorithms run over.
// *graph.Graph satisfies it, with edges following output -> input.
type Digraph interface {
	NodeIDs() []string
	Successors(id string) []string
}

// SuccessorFunc lists the direct successors of a node.
type SuccessorFunc func(id string) []string
