package editor

import (
	"math"
	"sort"
	"time"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
	"github.com/dd0wney/cluso-nodegraph/pkg/logging"
	"github.com/dd0wney/cluso-nodegraph/pkg/pubsub"
	"github.com/dd0wney/cluso-nodegraph/pkg/visualization"
)

// Arrange moves nodes to the positions l computes. With no ids every node
// is arranged; a selection keeps its current top-left corner. Like Move,
// it does not mark anything dirty.
func (s *Session) Arrange(l visualization.Layout, ids []string) error {
	start := time.Now()
	whole := len(ids) == 0
	if whole {
		ids = s.g.NodeIDs()
	}
	nodes := make([]*graph.Node, 0, len(ids))
	anchor := graph.Position{X: math.MaxFloat64, Y: math.MaxFloat64}
	for _, id := range ids {
		n, ok := s.g.Node(id)
		if !ok {
			return s.finish("arrange", start, graph.NodeNotFoundError("Arrange", id))
		}
		nodes = append(nodes, n)
		anchor.X = math.Min(anchor.X, n.Position.X)
		anchor.Y = math.Min(anchor.Y, n.Position.Y)
	}

	positions, err := l.ComputeLayout(s.g, ids)
	if err != nil {
		return s.finish("arrange", start, err)
	}
	if !whole {
		positions = visualization.Translate(positions, anchor)
	}

	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	for _, n := range nodes {
		if pos, ok := positions[n.ID()]; ok {
			n.Position = pos
			s.changed(pubsub.Event{Operation: "move", NodeID: n.ID()})
		}
	}
	return s.finish("arrange", start, nil, logging.Count(len(nodes)))
}
