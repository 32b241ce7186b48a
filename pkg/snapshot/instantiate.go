package snapshot

import (
	"fmt"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// Pasted describes the nodes Instantiate added.
type Pasted struct {
	// IDs maps document ids to the fresh ids in the target graph.
	IDs map[string]string
	// Nodes lists the new ids in document order.
	Nodes []string
}

// Instantiate adds copies of doc's nodes to g under fresh ids, offset by
// offset, and re-links the connections among them. Groups whose members
// were all pasted are re-created. If any node cannot be built the graph is
// left as it was.
func Instantiate(g *graph.Graph, doc Document, offset graph.Position) (Pasted, Report, error) {
	var rep Report
	if err := doc.Validate(); err != nil {
		return Pasted{}, rep, fmt.Errorf("instantiate: %w", err)
	}

	pasted := Pasted{IDs: make(map[string]string, len(doc.Nodes))}
	rollback := func() {
		for _, id := range pasted.Nodes {
			_ = g.RemoveNode(id)
		}
	}

	for _, sn := range doc.Nodes {
		if _, dup := pasted.IDs[sn.ID]; dup {
			rollback()
			return Pasted{}, rep, graph.NewError("Instantiate").Node(sn.ID).Cause(graph.ErrDuplicateNode).Err()
		}
		n, err := buildNode(g.Resolver(), sn)
		if err != nil {
			rollback()
			return Pasted{}, rep, err
		}
		n.Position.X += offset.X
		n.Position.Y += offset.Y
		if err := g.AddExistingNode(n); err != nil {
			rollback()
			return Pasted{}, rep, err
		}
		pasted.IDs[sn.ID] = n.ID()
		pasted.Nodes = append(pasted.Nodes, n.ID())
	}

	relink(g, doc.Nodes, pasted.IDs, &rep)

	for _, sg := range doc.Groups {
		members := make([]string, 0, len(sg.Nodes))
		for _, old := range sg.Nodes {
			if id, ok := pasted.IDs[old]; ok {
				members = append(members, id)
			}
		}
		if len(members) != len(sg.Nodes) {
			rep.warn("group %q not pasted: members missing from selection", sg.Title)
			continue
		}
		grp, err := g.AddGroup(sg.Title, members)
		if err != nil {
			rep.warn("group %q not pasted: %v", sg.Title, err)
			continue
		}
		grp.Position = sg.Position
		grp.Position.X += offset.X
		grp.Position.Y += offset.Y
	}
	return pasted, rep, nil
}
