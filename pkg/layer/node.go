package layer

import "github.com/canopy-ui/canopy/pkg/geometry"

// Node is a node in the retained layer tree. The set of implementations is
// closed: pictures, containers, offsets, clips, opacity groups and stable
// handles. Each node reports its bounds in its parent's coordinate space so
// the compositor can cull subtrees that fall outside the cull rect.
type Node interface {
	// Bounds returns the node's bounds in its parent's coordinate space.
	Bounds() geometry.Rect

	composite(painter Painter, cull geometry.Rect, stats *CompositeStats)
}

// PictureNode is a leaf holding recorded drawing content.
type PictureNode struct {
	Picture *Picture
}

// NewPictureNode wraps a picture in a layer node.
func NewPictureNode(picture *Picture) *PictureNode {
	return &PictureNode{Picture: picture}
}

func (n *PictureNode) Bounds() geometry.Rect {
	if n.Picture == nil {
		return geometry.Rect{}
	}
	return n.Picture.Bounds()
}

func (n *PictureNode) composite(painter Painter, cull geometry.Rect, stats *CompositeStats) {
	if n.Picture == nil || n.Picture.Empty() {
		return
	}
	n.Picture.Replay(painter)
	stats.CompositedPictures++
}

// ContainerNode groups children, composited in slice order (back to front).
type ContainerNode struct {
	Children []Node
}

// NewContainerNode groups the given children into one node.
func NewContainerNode(children ...Node) *ContainerNode {
	return &ContainerNode{Children: children}
}

func (n *ContainerNode) Bounds() geometry.Rect {
	var bounds geometry.Rect
	first := true
	for _, child := range n.Children {
		if child == nil {
			continue
		}
		if first {
			bounds = child.Bounds()
			first = false
			continue
		}
		bounds = bounds.Union(child.Bounds())
	}
	return bounds
}

func (n *ContainerNode) composite(painter Painter, cull geometry.Rect, stats *CompositeStats) {
	for _, child := range n.Children {
		compositeChild(child, painter, cull, stats)
	}
}

// OffsetNode shifts its child by a fixed offset.
type OffsetNode struct {
	Offset geometry.Offset
	Child  Node
}

// NewOffsetNode positions child at the given offset.
func NewOffsetNode(offset geometry.Offset, child Node) *OffsetNode {
	return &OffsetNode{Offset: offset, Child: child}
}

func (n *OffsetNode) Bounds() geometry.Rect {
	if n.Child == nil {
		return geometry.Rect{}
	}
	return n.Child.Bounds().Translate(n.Offset.X, n.Offset.Y)
}

func (n *OffsetNode) composite(painter Painter, cull geometry.Rect, stats *CompositeStats) {
	if n.Child == nil {
		return
	}
	painter.Save()
	painter.Translate(n.Offset.X, n.Offset.Y)
	compositeChild(n.Child, painter, cull.Translate(-n.Offset.X, -n.Offset.Y), stats)
	painter.Restore()
}

// ClipNode restricts its child's drawing to a rectangle.
type ClipNode struct {
	Clip  geometry.Rect
	Child Node
}

// NewClipNode clips child to the given rectangle.
func NewClipNode(clip geometry.Rect, child Node) *ClipNode {
	return &ClipNode{Clip: clip, Child: child}
}

func (n *ClipNode) Bounds() geometry.Rect {
	if n.Child == nil {
		return geometry.Rect{}
	}
	return n.Child.Bounds().Intersect(n.Clip)
}

func (n *ClipNode) composite(painter Painter, cull geometry.Rect, stats *CompositeStats) {
	if n.Child == nil {
		return
	}
	painter.Save()
	painter.ClipRect(n.Clip)
	compositeChild(n.Child, painter, cull.Intersect(n.Clip), stats)
	painter.Restore()
}

// OpacityNode composites its child with uniform opacity.
type OpacityNode struct {
	// Alpha is in the range 0.0 (transparent) to 1.0 (opaque).
	Alpha float64
	Child Node
}

// NewOpacityNode composites child with the given alpha.
func NewOpacityNode(alpha float64, child Node) *OpacityNode {
	return &OpacityNode{Alpha: alpha, Child: child}
}

func (n *OpacityNode) Bounds() geometry.Rect {
	if n.Child == nil {
		return geometry.Rect{}
	}
	return n.Child.Bounds()
}

func (n *OpacityNode) composite(painter Painter, cull geometry.Rect, stats *CompositeStats) {
	if n.Child == nil || n.Alpha <= 0 {
		return
	}
	if n.Alpha >= 1 {
		compositeChild(n.Child, painter, cull, stats)
		return
	}
	painter.SaveLayerAlpha(n.Bounds(), n.Alpha)
	compositeChild(n.Child, painter, cull, stats)
	painter.Restore()
}
