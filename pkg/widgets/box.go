package widgets

import (
	"github.com/canopy-ui/canopy/pkg/core"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
)

// ColoredBox paints a solid rectangle.
//
// With a zero PreferredSize the box fills the space its parent offers;
// otherwise it takes the preferred size clamped into the constraints.
type ColoredBox struct {
	Color layer.Color
	// PreferredSize is the size the box asks for; zero means fill.
	PreferredSize geometry.Size
}

func (b ColoredBox) Key() any {
	return nil
}

func (b ColoredBox) CreateObject() render.Object {
	obj := &renderColoredBox{color: b.Color, preferred: b.PreferredSize}
	obj.Init(obj)
	return obj
}

func (b ColoredBox) UpdateObject(obj render.Object) {
	r := obj.(*renderColoredBox)
	if r.preferred != b.PreferredSize {
		r.preferred = b.PreferredSize
		r.MarkNeedsLayout()
	}
	if r.color != b.Color {
		r.color = b.Color
		r.MarkNeedsPaint()
	}
}

type renderColoredBox struct {
	render.LeafBase
	color     layer.Color
	preferred geometry.Size
}

func (r *renderColoredBox) PerformLayout(constraints geometry.Constraints) geometry.Size {
	if r.preferred == (geometry.Size{}) {
		return constraints.Biggest()
	}
	return constraints.Constrain(r.preferred)
}

func (r *renderColoredBox) PerformPaint(rec *render.Recorder) {
	rec.DrawRect(geometry.RectFromSize(r.Size()), layer.FillPaint(r.color))
}

// SizedBox forces its child to a fixed size.
//
// The requested size is clamped into the incoming constraints and passed to
// the child as tight constraints, which also makes the child a relayout
// boundary: layout changes inside it never propagate past the box.
type SizedBox struct {
	Width  float64
	Height float64
	Child  core.View
}

func (b SizedBox) Key() any {
	return nil
}

func (b SizedBox) ChildView() core.View {
	return b.Child
}

func (b SizedBox) CreateObject() render.Object {
	obj := &renderSizedBox{width: b.Width, height: b.Height}
	obj.Init(obj)
	return obj
}

func (b SizedBox) UpdateObject(obj render.Object) {
	r := obj.(*renderSizedBox)
	if r.width == b.Width && r.height == b.Height {
		return
	}
	r.width = b.Width
	r.height = b.Height
	r.MarkNeedsLayout()
}

type renderSizedBox struct {
	render.SingleBase
	width  float64
	height float64
}

func (r *renderSizedBox) PerformLayout(constraints geometry.Constraints, child *render.Child) geometry.Size {
	size := constraints.Constrain(geometry.Size{Width: r.width, Height: r.height})
	// The box's size does not depend on the child's.
	child.Layout(geometry.Tight(size), false)
	child.PlaceAt(geometry.Offset{})
	return size
}

func (r *renderSizedBox) PerformPaint(child render.Node) render.Node {
	if child == nil {
		return layer.NewContainerNode()
	}
	return child
}
