package editor

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/pubsub"
	"github.com/dd0wney/cluso-nodegraph/pkg/validation"
)

// CreateNode adds a node of the given kind at pos and marks it dirty. An
// empty name keeps the kind's display name.
func (s *Session) CreateNode(kind, name string, pos graph.Position) (*graph.Node, error) {
	start := time.Now()
	n, err := s.g.AddNode(kind)
	if err != nil {
		return nil, s.finish("create_node", start, err, logging.Kind(kind))
	}
	s.placeNode(n, name, pos)
	return n, s.finish("create_node", start, nil, logging.NodeID(n.ID()), logging.Kind(kind))
}

// CreateNodeFrom creates a node like CreateNode and connects it to an
// existing port: dir is the direction of that port, and the new node's
// first port of the opposite direction is used. The link goes through the
// usual multiplicity policy, so a single existing port drops its old
// connection. If the kind has no such port nothing is created.
func (s *Session) CreateNodeFrom(kind, name string, pos graph.Position, nodeID, portName string, dir graph.Direction) (*graph.Node, error) {
	start := time.Now()
	fail := func(err error) (*graph.Node, error) {
		return nil, s.finish("create_node", start, err, logging.Kind(kind), logging.PeerID(nodeID))
	}

	existing, err := s.g.Port(nodeID, portName, dir)
	if err != nil {
		return fail(err)
	}
	n, err := s.g.AddNode(kind)
	if err != nil {
		return fail(err)
	}
	peer := compatiblePort(n, dir.Opposite())
	if peer == nil {
		_ = s.g.RemoveNode(n.ID())
		return fail(graph.NewError("CreateNodeFrom").Port(nodeID, portName, dir).
			Cause(fmt.Errorf("%w: kind %q has no %s port", graph.ErrPortNotFound, kind, dir.Opposite())).Err())
	}

	s.placeNode(n, name, pos)
	out, in := existing, peer
	if dir == graph.Input {
		out, in = peer, existing
	}
	if err := s.connect(out, in); err != nil {
		return n, s.finish("create_node", start, err, logging.NodeID(n.ID()), logging.Kind(kind))
	}
	return n, s.finish("create_node", start, nil,
		logging.NodeID(n.ID()), logging.Kind(kind), logging.PeerID(nodeID))
}

func (s *Session) placeNode(n *graph.Node, name string, pos graph.Position) {
	if name != "" {
		n.Name = name
	}
	n.Position = pos
	s.markDirty(n.ID())
	s.changed(pubsub.Event{Operation: "create_node", NodeID: n.ID()})
}

// compatiblePort returns n's first port facing dir, or nil.
func compatiblePort(n *graph.Node, dir graph.Direction) *graph.Port {
	ports := n.Inputs()
	if dir == graph.Output {
		ports = n.Outputs()
	}
	if len(ports) == 0 {
		return nil
	}
	return ports[0]
}

// DestroyNode removes a node and all its connections. Nodes it fed are
// marked dirty since they lost an input.
func (s *Session) DestroyNode(id string) error {
	start := time.Now()
	downstream := s.g.Successors(id)
	if err := s.g.RemoveNode(id); err != nil {
		return s.finish("destroy_node", start, err, logging.NodeID(id))
	}
	s.prop.Forget(id)
	s.markDirty(downstream...)
	s.changed(pubsub.Event{Operation: "destroy_node", NodeID: id})
	return s.finish("destroy_node", start, nil, logging.NodeID(id), logging.Count(len(downstream)))
}

// SetPayload sets one payload entry and marks the node dirty.
func (s *Session) SetPayload(id, key string, value any) error {
	start := time.Now()
	if err := validation.ValidatePayloadKey(key); err != nil {
		return s.finish("set_payload", start, err, logging.NodeID(id))
	}
	n, ok := s.g.Node(id)
	if !ok {
		return s.finish("set_payload", start, graph.NodeNotFoundError("SetPayload", id))
	}
	n.Payload[key] = value
	s.markDirty(id)
	s.changed(pubsub.Event{Operation: "set_payload", NodeID: id, Port: key})
	return s.finish("set_payload", start, nil, logging.NodeID(id), logging.String("key", key))
}

// Rename changes a node's display name. Names are presentation only, so
// nothing is marked dirty.
func (s *Session) Rename(id, name string) error {
	start := time.Now()
	n, ok := s.g.Node(id)
	if !ok {
		return s.finish("rename", start, graph.NodeNotFoundError("Rename", id))
	}
	n.Name = name
	s.changed(pubsub.Event{Operation: "rename", NodeID: id})
	return s.finish("rename", start, nil, logging.NodeID(id))
}

// Move repositions a node on the canvas without marking it dirty.
func (s *Session) Move(id string, pos graph.Position) error {
	start := time.Now()
	n, ok := s.g.Node(id)
	if !ok {
		return s.finish("move", start, graph.NodeNotFoundError("Move", id))
	}
	n.Position = pos
	s.changed(pubsub.Event{Operation: "move", NodeID: id})
	return s.finish("move", start, nil, logging.NodeID(id))
}

// GroupNodes creates a group over ids. Groups do not affect propagation.
func (s *Session) GroupNodes(title string, ids []string) (*graph.Group, error) {
	start := time.Now()
	grp, err := s.g.AddGroup(title, ids)
	if err != nil {
		return nil, s.finish("group", start, err)
	}
	s.changed(pubsub.Event{Operation: "group", NodeID: grp.ID})
	return grp, s.finish("group", start, nil, logging.Count(len(grp.NodeIDs())))
}

// Ungroup deletes a group, leaving its nodes in place.
func (s *Session) Ungroup(groupID string) error {
	start := time.Now()
	if err := s.g.RemoveGroup(groupID); err != nil {
		return s.finish("ungroup", start, err)
	}
	s.changed(pubsub.Event{Operation: "ungroup", NodeID: groupID})
	return s.finish("ungroup", start, nil)
}

// AddComment places a canvas comment.
func (s *Session) AddComment(title, theme string, pos graph.Rect) {
	s.g.Comments = append(s.g.Comments, graph.Comment{Title: title, Theme: theme, Position: pos})
	s.changed(pubsub.Event{Operation: "comment"})
}

// Prune drops connection entries that no longer resolve and reports how
// many were removed.
func (s *Session) Prune() int {
	start := time.Now()
	n := s.g.PruneInvalid()
	if s.metrics != nil {
		s.metrics.RecordPruned(n)
	}
	if n > 0 {
		s.changed(pubsub.Event{Operation: "prune"})
	}
	_ = s.finish("prune", start, nil, logging.Count(n))
	return n
}
