package visualization

import (
	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// HierarchicalLayout arranges nodes in columns that follow the data flow,
// sources on the left.
type HierarchicalLayout struct {
	config *LayoutConfig
}

// NewHierarchicalLayout creates a new hierarchical layout
func NewHierarchicalLayout(config *LayoutConfig) *HierarchicalLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &HierarchicalLayout{config: config}
}

// ComputeLayout arranges nodes hierarchically
func (hl *HierarchicalLayout) ComputeLayout(g Adjacency, nodeIDs []string) (map[string]graph.Position, error) {
	positions := make(map[string]graph.Position)

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	succ := successorsWithin(g, nodeIDs)
	indegree := make(map[string]int, len(nodeIDs))
	for _, id := range nodeIDs {
		for _, s := range succ[id] {
			indegree[s]++
		}
	}

	// Roots are nodes with no inputs from the selection
	roots := make([]string, 0)
	for _, nodeID := range nodeIDs {
		if indegree[nodeID] == 0 {
			roots = append(roots, nodeID)
		}
	}

	if len(roots) == 0 {
		// Fully cyclic selection, start anywhere
		roots = []string{nodeIDs[0]}
	}

	// Build columns using BFS
	levels := make([][]string, 0)
	visited := make(map[string]bool)
	for _, r := range roots {
		visited[r] = true
	}
	currentLevel := roots

	for len(currentLevel) > 0 {
		levels = append(levels, currentLevel)
		nextLevel := make([]string, 0)

		for _, nodeID := range currentLevel {
			for _, next := range succ[nodeID] {
				if !visited[next] {
					nextLevel = append(nextLevel, next)
					visited[next] = true
				}
			}
		}

		currentLevel = nextLevel
	}

	// Nodes only reachable through a cycle we did not enter
	for _, nodeID := range nodeIDs {
		if !visited[nodeID] {
			levels[len(levels)-1] = append(levels[len(levels)-1], nodeID)
		}
	}

	columnWidth := (hl.config.Width - 2*hl.config.Padding) / float64(len(levels))
	columnHeight := hl.config.Height - 2*hl.config.Padding

	for levelIdx, level := range levels {
		x := hl.config.Padding + float64(levelIdx)*columnWidth + columnWidth/2
		spacing := columnHeight / float64(len(level)+1)

		for nodeIdx, nodeID := range level {
			y := hl.config.Padding + spacing*float64(nodeIdx+1)
			positions[nodeID] = graph.Position{X: x, Y: y}
		}
	}

	return positions, nil
}
