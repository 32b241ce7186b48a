package visualization

import (
	"math"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// CircularLayout arranges nodes in a circle
type CircularLayout struct {
	config *LayoutConfig
}

// NewCircularLayout creates a new circular layout
func NewCircularLayout(config *LayoutConfig) *CircularLayout {
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &CircularLayout{config: config}
}

// ComputeLayout places nodes on a circle in the order given.
func (cl *CircularLayout) ComputeLayout(_ Adjacency, nodeIDs []string) (map[string]graph.Position, error) {
	positions := make(map[string]graph.Position)

	if len(nodeIDs) == 0 {
		return positions, nil
	}

	centerX := cl.config.Width / 2
	centerY := cl.config.Height / 2
	if len(nodeIDs) == 1 {
		positions[nodeIDs[0]] = graph.Position{X: centerX, Y: centerY}
		return positions, nil
	}
	radius := math.Max(math.Min(centerX, centerY)-cl.config.Padding, 0)

	angleStep := 2 * math.Pi / float64(len(nodeIDs))

	for i, nodeID := range nodeIDs {
		angle := float64(i) * angleStep
		positions[nodeID] = graph.Position{
			X: centerX + radius*math.Cos(angle),
			Y: centerY + radius*math.Sin(angle),
		}
	}

	return positions, nil
}
