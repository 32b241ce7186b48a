package graph

import (
	"fmt"

	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
)

func (g *Graph) checkPair(op string, out, in *Port) error {
	if out == nil || in == nil {
		return NewError(op).Cause(ErrPortNotFound).Err()
	}
	for _, p := range []*Port{out, in} {
		if p.node == nil || !g.Contains(p.node) {
			owner := ""
			if p.node != nil {
				owner = p.node.id
			}
			return NodeNotFoundError(op, owner)
		}
	}
	if out.direction != Output || in.direction != Input {
		return NewError(op).Port(out.node.id, out.name, out.direction).
			Cause(fmt.Errorf("%w: want output -> input, got %s -> %s", ErrInvalidPortPair, out.direction, in.direction)).Err()
	}
	return nil
}

// ConnectPorts records the edge out -> in on both ports. It applies no
// multiplicity policy and is a no-op when the edge already exists.
func (g *Graph) ConnectPorts(out, in *Port) error {
	if err := g.checkPair("ConnectPorts", out, in); err != nil {
		return err
	}
	out.Connect(in.node.id, in.name)
	in.Connect(out.node.id, out.name)
	g.logger.Debug("ports connected",
		logging.NodeID(out.node.id), logging.PortName(out.name),
		logging.PeerID(in.node.id), logging.String("peer_port", in.name))
	return nil
}

// DisconnectPorts removes the edge out -> in from both ports. Removing an
// edge that does not exist is a no-op.
func (g *Graph) DisconnectPorts(out, in *Port) error {
	if err := g.checkPair("DisconnectPorts", out, in); err != nil {
		return err
	}
	out.Disconnect(in.node.id, in.name)
	in.Disconnect(out.node.id, out.name)
	return nil
}

// Connections lists every edge as seen from output ports, in node and port
// order. Dangling entries are skipped.
func (g *Graph) Connections() []Edge {
	var edges []Edge
	for _, n := range g.nodes {
		for _, p := range n.outputs {
			for _, c := range p.connections {
				if g.resolve(p, c) == nil {
					continue
				}
				edges = append(edges, Edge{FromNode: n.id, FromPort: p.name, ToNode: c.NodeID, ToPort: c.PortName})
			}
		}
	}
	return edges
}

// Successors returns the distinct ids of nodes fed by id's output ports, in
// port and connection order. Unresolvable connections are skipped.
func (g *Graph) Successors(id string) []string {
	return g.neighbours(id, Output)
}

// Predecessors returns the distinct ids of nodes feeding id's input ports.
func (g *Graph) Predecessors(id string) []string {
	return g.neighbours(id, Input)
}

func (g *Graph) neighbours(id string, dir Direction) []string {
	n, ok := g.index[id]
	if !ok {
		return nil
	}
	ports := n.inputs
	if dir == Output {
		ports = n.outputs
	}
	var out []string
	seen := make(map[string]struct{})
	for _, p := range ports {
		for _, c := range p.connections {
			if g.resolve(p, c) == nil {
				continue
			}
			if _, dup := seen[c.NodeID]; dup {
				continue
			}
			seen[c.NodeID] = struct{}{}
			out = append(out, c.NodeID)
		}
	}
	return out
}

// PruneInvalid drops connection entries that cannot be resolved to a live
// port, or whose peer does not list them back. It returns the number of
// entries removed.
func (g *Graph) PruneInvalid() int {
	pruned := 0
	for _, n := range g.nodes {
		for _, ports := range [][]*Port{n.inputs, n.outputs} {
			for _, p := range ports {
				for _, c := range p.Connections() {
					peer := g.resolve(p, c)
					if peer != nil && peer.IsConnected(n.id, p.name) {
						continue
					}
					p.Disconnect(c.NodeID, c.PortName)
					pruned++
					g.logger.Warn("pruned invalid connection",
						logging.NodeID(n.id), logging.PortName(p.name),
						logging.Direction(p.direction.String()),
						logging.String("target", c.String()))
				}
			}
		}
	}
	return pruned
}
