package algorithms

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// adjGraph is an adjacency-list Digraph with insertion-ordered nodes.
type adjGraph struct {
	order []string
	adj   map[string][]string
}

func newAdjGraph(ids ...string) *adjGraph {
	return &adjGraph{order: ids, adj: make(map[string][]string)}
}

func (a *adjGraph) edge(from, to string) *adjGraph {
	a.adj[from] = append(a.adj[from], to)
	return a
}

func (a *adjGraph) NodeIDs() []string            { return a.order }
func (a *adjGraph) Successors(id string) []string { return a.adj[id] }

// chainGraph builds a real graph of pass-through nodes wired a -> b -> c.
func chainGraph(t *testing.T, ids ...string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		n, err := graph.NewNode("pass", id,
			[]graph.PortSpec{{Name: "in", Multiplicity: graph.Multi}},
			[]graph.PortSpec{{Name: "out", Multiplicity: graph.Multi}})
		require.NoError(t, err)
		require.NoError(t, g.RestoreNode(n, id))
	}
	for i := 1; i < len(ids); i++ {
		out, err := g.Port(ids[i-1], "out", graph.Output)
		require.NoError(t, err)
		in, err := g.Port(ids[i], "in", graph.Input)
		require.NoError(t, err)
		require.NoError(t, g.ConnectPorts(out, in))
	}
	return g
}
