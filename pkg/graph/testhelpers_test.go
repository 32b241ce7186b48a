package graph

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubResolver builds a small fixed set of node kinds for tests.
type stubResolver struct{}

func (stubResolver) Construct(kind string) (*Node, error) {
	switch kind {
	case "source":
		return NewNode(kind, "Source", nil, []PortSpec{{Name: "out", Multiplicity: Multi}})
	case "sink":
		return NewNode(kind, "Sink", []PortSpec{{Name: "in", Multiplicity: Single}}, nil)
	case "pass":
		return NewNode(kind, "Pass",
			[]PortSpec{{Name: "in", Multiplicity: Single}},
			[]PortSpec{{Name: "out", Multiplicity: Multi}})
	case "broken":
		return nil, errors.New("constructor failed")
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidTemplate, kind)
	}
}

// sequentialIDs makes ids predictable: n1, n2, ...
func sequentialIDs() func() string {
	i := 0
	return func() string {
		i++
		return fmt.Sprintf("n%d", i)
	}
}

func newTestGraph() *Graph {
	return New(WithResolver(stubResolver{}), WithIDGenerator(sequentialIDs()))
}

func mustAdd(t *testing.T, g *Graph, kind string) *Node {
	t.Helper()
	n, err := g.AddNode(kind)
	require.NoError(t, err)
	return n
}

func mustConnect(t *testing.T, g *Graph, from *Node, fromPort string, to *Node, toPort string) {
	t.Helper()
	out, err := g.Port(from.ID(), fromPort, Output)
	require.NoError(t, err)
	in, err := g.Port(to.ID(), toPort, Input)
	require.NoError(t, err)
	require.NoError(t, g.ConnectPorts(out, in))
}

// assertSymmetric checks every connection entry in g has a reciprocal entry
// on a live peer port that belongs to g.
func assertSymmetric(t *testing.T, g *Graph) {
	t.Helper()
	for _, n := range g.Nodes() {
		for _, ports := range [][]*Port{n.Inputs(), n.Outputs()} {
			for _, p := range ports {
				for _, c := range p.Connections() {
					peer := g.Peer(p, c)
					require.NotNil(t, peer, "dangling connection %s on %s:%s", c, n.ID(), p.Name())
					require.True(t, peer.IsConnected(n.ID(), p.Name()),
						"missing reciprocal for %s:%s -> %s", n.ID(), p.Name(), c)
				}
			}
		}
	}
}
