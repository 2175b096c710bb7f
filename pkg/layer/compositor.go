package layer

import "github.com/canopy-ui/canopy/pkg/geometry"

// CompositeStats summarizes one compositing pass.
type CompositeStats struct {
	// CompositedPictures counts pictures replayed onto the painter.
	CompositedPictures int
	// CulledNodes counts subtrees skipped because their bounds fell
	// entirely outside the cull rect.
	CulledNodes int
}

// Composite replays the layer tree onto the painter without culling.
func Composite(root Node, painter Painter) CompositeStats {
	return CompositeCulled(root, painter, unboundedCull())
}

// CompositeCulled replays the layer tree onto the painter, skipping
// subtrees whose bounds do not intersect the cull rect. The cull rect is
// expressed in the root's coordinate space.
func CompositeCulled(root Node, painter Painter, cull geometry.Rect) CompositeStats {
	var stats CompositeStats
	compositeChild(root, painter, cull, &stats)
	return stats
}

func compositeChild(node Node, painter Painter, cull geometry.Rect, stats *CompositeStats) {
	if node == nil {
		return
	}
	bounds := node.Bounds()
	if !bounds.IsEmpty() && !bounds.Overlaps(cull) {
		stats.CulledNodes++
		return
	}
	node.composite(painter, cull, stats)
}

func unboundedCull() geometry.Rect {
	return geometry.Rect{
		Left:   -geometry.Unbounded,
		Top:    -geometry.Unbounded,
		Right:  geometry.Unbounded,
		Bottom: geometry.Unbounded,
	}
}
