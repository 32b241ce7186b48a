package graph

import (
	"fmt"
	"slices"

	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
)

// AddNode constructs a node of the given kind through the resolver, gives
// it a fresh id and appends it.
func (g *Graph) AddNode(kind string) (*Node, error) {
	if g.resolver == nil {
		return nil, InvalidTemplateError(kind, fmt.Errorf("no resolver configured"))
	}
	n, err := g.resolver.Construct(kind)
	if err != nil {
		if IsInvalidTemplate(err) {
			return nil, err
		}
		return nil, InvalidTemplateError(kind, err)
	}
	if n == nil {
		return nil, InvalidTemplateError(kind, ErrNilNode)
	}
	g.attach(n, g.newID())
	g.logger.Debug("node added", logging.NodeID(n.id), logging.Kind(n.Kind))
	return n, nil
}

// AddExistingNode adopts an already constructed node, as in paste or
// duplicate flows. The node always gets a fresh id, and any connections it
// carries are dropped since they cannot refer to members of g; callers
// re-link them with ConnectPorts.
func (g *Graph) AddExistingNode(n *Node) error {
	if n == nil {
		return NewError("AddExistingNode").Node("").Cause(ErrNilNode).Err()
	}
	if n.graph != nil {
		return NewError("AddExistingNode").Node(n.id).Cause(ErrNodeAttached).Err()
	}
	n.disconnectAll()
	g.attach(n, g.newID())
	g.logger.Debug("node adopted", logging.NodeID(n.id), logging.Kind(n.Kind))
	return nil
}

// RestoreNode adopts a detached node under a known id, for load flows where
// identifiers must survive save/load. Connections carried by the node are
// dropped as in AddExistingNode.
func (g *Graph) RestoreNode(n *Node, id string) error {
	if n == nil {
		return NewError("RestoreNode").Node(id).Cause(ErrNilNode).Err()
	}
	if n.graph != nil {
		return NewError("RestoreNode").Node(id).Cause(ErrNodeAttached).Err()
	}
	if id == "" {
		return NewError("RestoreNode").Node(id).Cause(fmt.Errorf("empty node id")).Err()
	}
	if _, exists := g.index[id]; exists {
		return NewError("RestoreNode").Node(id).Cause(ErrDuplicateNode).Err()
	}
	n.disconnectAll()
	g.attach(n, id)
	return nil
}

func (g *Graph) attach(n *Node, id string) {
	for {
		if _, taken := g.index[id]; !taken {
			break
		}
		id = g.newID()
	}
	n.id = id
	n.graph = g
	if n.Payload == nil {
		n.Payload = make(map[string]any)
	}
	g.nodes = append(g.nodes, n)
	g.index[id] = n
}

// RemoveNode severs every connection of the node on both sides, drops it
// from any group and removes it. Removing an id that is not a member
// returns ErrNodeNotFound, so a second call on the same id is reported
// rather than ignored.
func (g *Graph) RemoveNode(id string) error {
	n, ok := g.index[id]
	if !ok {
		return NodeNotFoundError("RemoveNode", id)
	}

	severed := 0
	for _, ports := range [][]*Port{n.inputs, n.outputs} {
		for _, p := range ports {
			for _, c := range p.connections {
				if peer := g.resolve(p, c); peer != nil {
					peer.Disconnect(n.id, p.name)
					severed++
				}
			}
			p.DisconnectAll()
		}
	}

	g.nodes = slices.DeleteFunc(g.nodes, func(m *Node) bool { return m == n })
	delete(g.index, id)
	for _, grp := range g.groups {
		grp.remove(id)
	}
	n.graph = nil

	g.logger.Debug("node removed", logging.NodeID(id), logging.Count(severed))
	return nil
}
