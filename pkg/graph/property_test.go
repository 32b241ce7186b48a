package graph

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

var propertyKinds = []string{"source", "pass", "sink"}

// applyOps interprets each int as one mutation against g. The encoding
// keeps shrinking meaningful: small numbers mean early nodes and simple ops.
func applyOps(g *Graph, ops []int) {
	for _, op := range ops {
		nodes := g.Nodes()
		switch op % 4 {
		case 0:
			g.AddNode(propertyKinds[(op/4)%len(propertyKinds)])
		case 1, 2:
			if len(nodes) == 0 {
				continue
			}
			from := nodes[(op/4)%len(nodes)]
			to := nodes[(op/16)%len(nodes)]
			outs, ins := from.Outputs(), to.Inputs()
			if len(outs) == 0 || len(ins) == 0 {
				continue
			}
			if op%4 == 1 {
				g.ConnectPorts(outs[0], ins[0])
			} else {
				g.DisconnectPorts(outs[0], ins[0])
			}
		case 3:
			if len(nodes) == 0 {
				continue
			}
			g.RemoveNode(nodes[(op/4)%len(nodes)].ID())
		}
	}
}

func symmetric(g *Graph) bool {
	for _, n := range g.Nodes() {
		for _, ports := range [][]*Port{n.Inputs(), n.Outputs()} {
			for _, p := range ports {
				for _, c := range p.Connections() {
					peer := g.Peer(p, c)
					if peer == nil || !peer.IsConnected(n.ID(), p.Name()) {
						return false
					}
				}
			}
		}
	}
	return true
}

// TestGraphInvariants checks structural invariants over random edit sequences.
func TestGraphInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	properties.Property("connections stay symmetric", prop.ForAll(
		func(ops []int) bool {
			g := New(WithResolver(stubResolver{}))
			applyOps(g, ops)
			return symmetric(g)
		},
		gen.SliceOf(gen.IntRange(0, 4096)),
	))

	properties.Property("removed nodes leave no references", prop.ForAll(
		func(ops []int, pick int) bool {
			g := New(WithResolver(stubResolver{}))
			applyOps(g, ops)
			if g.Len() == 0 {
				return true
			}
			victim := g.Nodes()[pick%g.Len()].ID()
			if err := g.RemoveNode(victim); err != nil {
				return false
			}
			for _, n := range g.Nodes() {
				for _, ports := range [][]*Port{n.Inputs(), n.Outputs()} {
					for _, p := range ports {
						for _, c := range p.Connections() {
							if c.NodeID == victim {
								return false
							}
						}
					}
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, 4096)),
		gen.IntRange(0, 1000),
	))

	properties.Property("connect then disconnect restores the edge set", prop.ForAll(
		func(ops []int) bool {
			g := New(WithResolver(stubResolver{}))
			applyOps(g, ops)
			src, _ := g.AddNode("source")
			dst, _ := g.AddNode("sink")
			before := len(g.Connections())

			out, in := src.Output("out"), dst.Input("in")
			if g.ConnectPorts(out, in) != nil || !out.IsConnectedTo(in) || !in.IsConnectedTo(out) {
				return false
			}
			g.DisconnectPorts(out, in)
			g.DisconnectPorts(out, in)
			return len(g.Connections()) == before && !out.IsConnectedTo(in) && !in.IsConnectedTo(out)
		},
		gen.SliceOf(gen.IntRange(0, 4096)),
	))

	properties.TestingRun(t)
}
