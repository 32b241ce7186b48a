package snapshot

import (
	"slices"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// Capture converts the whole graph to a document.
func Capture(g *graph.Graph) Document {
	doc := Document{Version: Version}
	for _, n := range g.Nodes() {
		doc.Nodes = append(doc.Nodes, captureNode(n))
	}
	for _, grp := range g.Groups() {
		doc.Groups = append(doc.Groups, Group{
			ID:       grp.ID,
			Title:    grp.Title,
			Position: grp.Position,
			Nodes:    grp.NodeIDs(),
		})
	}
	for _, c := range g.Comments {
		doc.Comments = append(doc.Comments, Comment(c))
	}
	return doc
}

// CopySubgraph captures the listed nodes only. Connections are kept when
// both ends are in the selection; groups are kept when all their members
// are.
func CopySubgraph(g *graph.Graph, ids []string) (Document, error) {
	keep := make(map[string]bool, len(ids))
	doc := Document{Version: Version}
	for _, id := range ids {
		if keep[id] {
			continue
		}
		n, ok := g.Node(id)
		if !ok {
			return Document{}, graph.NodeNotFoundError("CopySubgraph", id)
		}
		keep[id] = true
		doc.Nodes = append(doc.Nodes, captureNode(n))
	}
	for i := range doc.Nodes {
		doc.Nodes[i] = filterLinks(doc.Nodes[i], keep)
	}
	for _, grp := range g.Groups() {
		members := grp.NodeIDs()
		if len(members) == 0 || !allIn(members, keep) {
			continue
		}
		doc.Groups = append(doc.Groups, Group{ID: grp.ID, Title: grp.Title, Position: grp.Position, Nodes: members})
	}
	return doc, nil
}

func allIn(ids []string, set map[string]bool) bool {
	for _, id := range ids {
		if !set[id] {
			return false
		}
	}
	return true
}

func captureNode(n *graph.Node) Node {
	return Node{
		ID:       n.ID(),
		Kind:     n.Kind,
		Name:     n.Name,
		Position: n.Position,
		Payload:  graph.ClonePayload(n.Payload),
		Inputs:   capturePorts(n.Inputs()),
		Outputs:  capturePorts(n.Outputs()),
	}
}

func capturePorts(ports []*graph.Port) []Port {
	out := make([]Port, 0, len(ports))
	for _, p := range ports {
		sp := Port{Name: p.Name(), Multiplicity: p.Multiplicity().String()}
		for _, c := range p.Connections() {
			sp.Connections = append(sp.Connections, Link{Node: c.NodeID, Port: c.PortName})
		}
		out = append(out, sp)
	}
	return out
}

func filterLinks(n Node, keep map[string]bool) Node {
	for _, ports := range [][]Port{n.Inputs, n.Outputs} {
		for i := range ports {
			ports[i].Connections = slices.DeleteFunc(ports[i].Connections, func(l Link) bool {
				return !keep[l.Node]
			})
		}
	}
	return n
}
