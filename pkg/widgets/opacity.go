package widgets

import (
	"github.com/canopy-ui/canopy/pkg/core"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
)

// Opacity composites its child with uniform transparency.
//
// Alpha runs from 0.0 (invisible) to 1.0 (opaque). Fully transparent
// children still take up layout space.
type Opacity struct {
	Alpha float64
	Child core.View
}

func (o Opacity) Key() any {
	return nil
}

func (o Opacity) ChildView() core.View {
	return o.Child
}

func (o Opacity) CreateObject() render.Object {
	obj := &renderOpacity{alpha: o.Alpha}
	obj.Init(obj)
	return obj
}

func (o Opacity) UpdateObject(obj render.Object) {
	r := obj.(*renderOpacity)
	if r.alpha == o.Alpha {
		return
	}
	r.alpha = o.Alpha
	r.MarkNeedsPaint()
}

type renderOpacity struct {
	render.SingleBase
	alpha float64
}

func (r *renderOpacity) PerformLayout(constraints geometry.Constraints, child *render.Child) geometry.Size {
	if !child.Attached() {
		return constraints.Smallest()
	}
	size := child.Layout(constraints, true)
	child.PlaceAt(geometry.Offset{})
	return size
}

func (r *renderOpacity) PerformPaint(child render.Node) render.Node {
	if child == nil {
		return layer.NewContainerNode()
	}
	return layer.NewOpacityNode(r.alpha, child)
}

// ClipRect restricts its child's painting to the widget's own bounds.
type ClipRect struct {
	Child core.View
}

func (c ClipRect) Key() any {
	return nil
}

func (c ClipRect) ChildView() core.View {
	return c.Child
}

func (c ClipRect) CreateObject() render.Object {
	obj := &renderClipRect{}
	obj.Init(obj)
	return obj
}

func (ClipRect) UpdateObject(render.Object) {}

type renderClipRect struct {
	render.SingleBase
}

func (r *renderClipRect) PerformLayout(constraints geometry.Constraints, child *render.Child) geometry.Size {
	if !child.Attached() {
		return constraints.Smallest()
	}
	size := child.Layout(constraints, true)
	child.PlaceAt(geometry.Offset{})
	return size
}

func (r *renderClipRect) PerformPaint(child render.Node) render.Node {
	if child == nil {
		return layer.NewContainerNode()
	}
	return layer.NewClipNode(geometry.RectFromSize(r.Size()), child)
}
