package visualization

import (
	"math"
	"math/rand"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// ForceDirectedLayout implements force-directed graph layout. Runs with
// the same Seed produce the same positions.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 50
	}
	if config.Padding == 0 {
		config.Padding = 50
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout computes positions using force-directed algorithm
func (fdl *ForceDirectedLayout) ComputeLayout(g Adjacency, nodeIDs []string) (map[string]graph.Position, error) {
	if len(nodeIDs) == 0 {
		return make(map[string]graph.Position), nil
	}

	// Single node - center it
	if len(nodeIDs) == 1 {
		return map[string]graph.Position{
			nodeIDs[0]: {
				X: fdl.config.Width / 2,
				Y: fdl.config.Height / 2,
			},
		}, nil
	}

	rng := rand.New(rand.NewSource(fdl.config.Seed))
	positions := make(map[string]graph.Position, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		positions[nodeID] = graph.Position{
			X: rng.Float64()*(fdl.config.Width-2*fdl.config.Padding) + fdl.config.Padding,
			Y: rng.Float64()*(fdl.config.Height-2*fdl.config.Padding) + fdl.config.Padding,
		}
	}

	// Undirected neighbour sets; attraction does not care about flow
	succ := successorsWithin(g, nodeIDs)
	edgeMap := make(map[string]map[string]bool, len(nodeIDs))
	for _, nodeID := range nodeIDs {
		edgeMap[nodeID] = make(map[string]bool)
	}
	for _, nodeID := range nodeIDs {
		for _, to := range succ[nodeID] {
			if to == nodeID {
				continue
			}
			edgeMap[nodeID][to] = true
			edgeMap[to][nodeID] = true
		}
	}

	k := math.Sqrt((fdl.config.Width * fdl.config.Height) / float64(len(nodeIDs))) // Optimal distance
	temperature := fdl.config.Width / 10.0

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[string]graph.Position, len(nodeIDs))

		// Repulsion between all nodes
		for i, nodeID1 := range nodeIDs {
			for j := i + 1; j < len(nodeIDs); j++ {
				nodeID2 := nodeIDs[j]
				dx := positions[nodeID1].X - positions[nodeID2].X
				dy := positions[nodeID1].Y - positions[nodeID2].Y
				dist := math.Max(math.Sqrt(dx*dx+dy*dy), 0.01)

				force := (k * k) / dist
				fx := (dx / dist) * force
				fy := (dy / dist) * force

				f1, f2 := forces[nodeID1], forces[nodeID2]
				forces[nodeID1] = graph.Position{X: f1.X + fx, Y: f1.Y + fy}
				forces[nodeID2] = graph.Position{X: f2.X - fx, Y: f2.Y - fy}
			}
		}

		// Attraction between connected nodes
		for _, nodeID1 := range nodeIDs {
			for nodeID2 := range edgeMap[nodeID1] {
				dx := positions[nodeID1].X - positions[nodeID2].X
				dy := positions[nodeID1].Y - positions[nodeID2].Y
				dist := math.Sqrt(dx*dx + dy*dy)

				if dist < 0.01 {
					continue
				}

				force := (dist * dist) / k
				f := forces[nodeID1]
				forces[nodeID1] = graph.Position{
					X: f.X - (dx/dist)*force,
					Y: f.Y - (dy/dist)*force,
				}
			}
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, nodeID := range nodeIDs {
			f := forces[nodeID]
			force := math.Sqrt(f.X*f.X + f.Y*f.Y)

			if force > 0 {
				step := math.Min(force, temperature) * cool
				p := positions[nodeID]
				positions[nodeID] = graph.Position{
					X: p.X + (f.X/force)*step,
					Y: p.Y + (f.Y/force)*step,
				}
			}
		}

		temperature *= 0.95
	}

	return normalizePositions(positions, fdl.config.Width, fdl.config.Height, fdl.config.Padding), nil
}
