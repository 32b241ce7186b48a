package propagation

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

func newPassNode(t testing.TB, g *graph.Graph, id string) {
	t.Helper()
	n, err := graph.NewNode("pass", id,
		[]graph.PortSpec{{Name: "in", Multiplicity: graph.Multi}},
		[]graph.PortSpec{{Name: "out", Multiplicity: graph.Multi}})
	require.NoError(t, err)
	require.NoError(t, g.RestoreNode(n, id))
}

func link(t testing.TB, g *graph.Graph, from, to string) {
	t.Helper()
	out, err := g.Port(from, "out", graph.Output)
	require.NoError(t, err)
	in, err := g.Port(to, "in", graph.Input)
	require.NoError(t, err)
	require.NoError(t, g.ConnectPorts(out, in))
}

// buildGraph creates the named nodes and wires each "from>to" pair.
func buildGraph(t testing.TB, ids []string, edges ...[2]string) *graph.Graph {
	t.Helper()
	g := graph.New()
	for _, id := range ids {
		newPassNode(t, g, id)
	}
	for _, e := range edges {
		link(t, g, e[0], e[1])
	}
	return g
}

// recorder is a hook that remembers invocation order.
type recorder struct {
	calls []string
	then  func(n *graph.Node) error
}

func (r *recorder) hook(n *graph.Node) error {
	r.calls = append(r.calls, n.ID())
	if r.then != nil {
		return r.then(n)
	}
	return nil
}
