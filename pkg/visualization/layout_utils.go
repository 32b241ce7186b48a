package visualization

import (
	"math"

	"github.com/dd0wney/cluso-nodegraph/pkg/graph"
)

// normalizePositions scales positions to fit within bounds
func normalizePositions(positions map[string]graph.Position, width, height, padding float64) map[string]graph.Position {
	if len(positions) == 0 {
		return positions
	}

	minX, maxX := math.MaxFloat64, -math.MaxFloat64
	minY, maxY := math.MaxFloat64, -math.MaxFloat64

	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		maxX = math.Max(maxX, pos.X)
		minY = math.Min(minY, pos.Y)
		maxY = math.Max(maxY, pos.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY

	if rangeX < 0.01 {
		rangeX = 1
	}
	if rangeY < 0.01 {
		rangeY = 1
	}

	targetWidth := width - 2*padding
	targetHeight := height - 2*padding

	normalized := make(map[string]graph.Position, len(positions))
	for nodeID, pos := range positions {
		normalized[nodeID] = graph.Position{
			X: padding + ((pos.X-minX)/rangeX)*targetWidth,
			Y: padding + ((pos.Y-minY)/rangeY)*targetHeight,
		}
	}

	return normalized
}

// Translate shifts every position so the top-left one sits at origin.
func Translate(positions map[string]graph.Position, origin graph.Position) map[string]graph.Position {
	if len(positions) == 0 {
		return positions
	}
	minX, minY := math.MaxFloat64, math.MaxFloat64
	for _, pos := range positions {
		minX = math.Min(minX, pos.X)
		minY = math.Min(minY, pos.Y)
	}
	out := make(map[string]graph.Position, len(positions))
	for id, pos := range positions {
		out[id] = graph.Position{X: pos.X - minX + origin.X, Y: pos.Y - minY + origin.Y}
	}
	return out
}
