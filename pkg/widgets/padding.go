package widgets

import (
	"github.com/canopy-ui/canopy/pkg/core"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
)

// Padding adds empty space around its child.
//
// The child is constrained to the space remaining after the insets are
// applied. Use the [geometry.EdgeInsets] helpers to build inset values:
//
//	Padding{Insets: geometry.EdgeInsetsAll(16), Child: child}
//	Padding{Insets: geometry.EdgeInsetsSymmetric(24, 12), Child: child}
type Padding struct {
	Insets geometry.EdgeInsets
	Child  core.View
}

func (p Padding) Key() any {
	return nil
}

func (p Padding) ChildView() core.View {
	return p.Child
}

func (p Padding) CreateObject() render.Object {
	obj := &renderPadding{insets: p.Insets}
	obj.Init(obj)
	return obj
}

func (p Padding) UpdateObject(obj render.Object) {
	r := obj.(*renderPadding)
	if r.insets == p.Insets {
		return
	}
	r.insets = p.Insets
	r.MarkNeedsLayout()
	r.MarkNeedsPaint()
}

type renderPadding struct {
	render.SingleBase
	insets geometry.EdgeInsets
}

func (r *renderPadding) PerformLayout(constraints geometry.Constraints, child *render.Child) geometry.Size {
	if !child.Attached() {
		return constraints.Constrain(geometry.Size{
			Width:  r.insets.Horizontal(),
			Height: r.insets.Vertical(),
		})
	}
	childSize := child.Layout(constraints.Deflate(r.insets), true)
	child.PlaceAt(geometry.Offset{X: r.insets.Left, Y: r.insets.Top})
	return constraints.Constrain(geometry.Size{
		Width:  childSize.Width + r.insets.Horizontal(),
		Height: childSize.Height + r.insets.Vertical(),
	})
}

func (r *renderPadding) PerformPaint(child render.Node) render.Node {
	if child == nil {
		return layer.NewContainerNode()
	}
	return child
}
