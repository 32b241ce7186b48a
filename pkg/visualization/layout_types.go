// Package visualization computes canvas positions for graph nodes.
package visualization

import (
	"fmt"
	"sort"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// Adjacency is the view of a graph the layouts need. *graph.Graph
// satisfies it.
type Adjacency interface {
	Successors(id string) []string
	Predecessors(id string) []string
}

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width      float64 // Canvas width
	Height     float64 // Canvas height
	Iterations int     // Number of iterations for iterative algorithms
	Padding    float64 // Padding from edges
	Seed       int64   // Seed for the force layout's starting positions
}

// Layout computes positions for nodeIDs. Edges to nodes outside nodeIDs
// are ignored.
type Layout interface {
	ComputeLayout(g Adjacency, nodeIDs []string) (map[string]graph.Position, error)
}

const (
	Hierarchical  = "hierarchical"
	Circular      = "circular"
	ForceDirected = "force"
)

// Names lists the layouts New accepts.
var Names = []string{Hierarchical, Circular, ForceDirected}

// New returns the named layout.
func New(name string, config *LayoutConfig) (Layout, error) {
	if config == nil {
		config = &LayoutConfig{}
	}
	if config.Width <= 0 {
		config.Width = 1200
	}
	if config.Height <= 0 {
		config.Height = 800
	}
	switch name {
	case Hierarchical, "":
		return NewHierarchicalLayout(config), nil
	case Circular:
		return NewCircularLayout(config), nil
	case ForceDirected:
		return NewForceDirectedLayout(config), nil
	default:
		return nil, fmt.Errorf("unknown layout %q (want one of %v)", name, Names)
	}
}

// successorsWithin returns, per node, the sorted successors that are in the set.
func successorsWithin(g Adjacency, nodeIDs []string) map[string][]string {
	in := make(map[string]bool, len(nodeIDs))
	for _, id := range nodeIDs {
		in[id] = true
	}
	out := make(map[string][]string, len(nodeIDs))
	for _, id := range nodeIDs {
		for _, s := range g.Successors(id) {
			if in[s] {
				out[id] = append(out[id], s)
			}
		}
		sort.Strings(out[id])
	}
	return out
}
