package graph

import (
	"slices"
)

// Group is an organizational label over a subset of nodes. Groups play no
// part in propagation.
type Group struct {
	ID       string
	Title    string
	Position Rect
	nodeIDs  []string
}

// NodeIDs returns the member ids in insertion order.
func (grp *Group) NodeIDs() []string {
	return append([]string(nil), grp.nodeIDs...)
}

// Has reports whether id is a member of the group.
func (grp *Group) Has(id string) bool {
	return slices.Contains(grp.nodeIDs, id)
}

func (grp *Group) remove(id string) {
	grp.nodeIDs = slices.DeleteFunc(grp.nodeIDs, func(m string) bool { return m == id })
}

// AddGroup creates a group over the given member nodes. Every id must be a
// member of the graph; duplicates are collapsed.
func (g *Graph) AddGroup(title string, nodeIDs []string) (*Group, error) {
	members := make([]string, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		if _, ok := g.index[id]; !ok {
			return nil, NodeNotFoundError("AddGroup", id)
		}
		if !slices.Contains(members, id) {
			members = append(members, id)
		}
	}
	grp := &Group{ID: NewID(), Title: title, nodeIDs: members}
	g.groups = append(g.groups, grp)
	return grp, nil
}

// RestoreGroup re-creates a group under a known id. Member ids that are
// not in the graph are skipped; the number skipped is returned.
func (g *Graph) RestoreGroup(id, title string, pos Rect, nodeIDs []string) (*Group, int) {
	grp := &Group{ID: id, Title: title, Position: pos}
	skipped := 0
	for _, nid := range nodeIDs {
		if _, ok := g.index[nid]; !ok || grp.Has(nid) {
			skipped++
			continue
		}
		grp.nodeIDs = append(grp.nodeIDs, nid)
	}
	if grp.ID == "" {
		grp.ID = NewID()
	}
	g.groups = append(g.groups, grp)
	return grp, skipped
}

// AddToGroup adds a node to an existing group.
func (g *Graph) AddToGroup(groupID, nodeID string) error {
	grp, ok := g.Group(groupID)
	if !ok {
		return GroupNotFoundError("AddToGroup", groupID)
	}
	if _, ok := g.index[nodeID]; !ok {
		return NodeNotFoundError("AddToGroup", nodeID)
	}
	if !grp.Has(nodeID) {
		grp.nodeIDs = append(grp.nodeIDs, nodeID)
	}
	return nil
}

// RemoveGroup deletes a group. Member nodes are untouched.
func (g *Graph) RemoveGroup(id string) error {
	idx := slices.IndexFunc(g.groups, func(grp *Group) bool { return grp.ID == id })
	if idx < 0 {
		return GroupNotFoundError("RemoveGroup", id)
	}
	g.groups = slices.Delete(g.groups, idx, idx+1)
	return nil
}

// Group looks up a group by id.
func (g *Graph) Group(id string) (*Group, bool) {
	for _, grp := range g.groups {
		if grp.ID == id {
			return grp, true
		}
	}
	return nil, false
}

// Groups returns the groups in creation order.
func (g *Graph) Groups() []*Group {
	return append([]*Group(nil), g.groups...)
}
