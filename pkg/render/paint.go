package render

import (
	"github.com/canopy-ui/canopy/pkg/errors"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
)

// baseHolder is satisfied by every type embedding Base.
type baseHolder interface {
	renderBase() *Base
}

func (b *Base) renderBase() *Base {
	return b
}

// PaintObject returns the layer node for obj.
//
// Repaint boundaries return their stable handle: ancestors embed the handle
// in their own layer nodes, so when the boundary's content changes only the
// handle's content is swapped and nothing above is re-recorded. Content is
// re-recorded only when the boundary is dirty. Objects that are not
// boundaries are always re-recorded as part of their enclosing boundary.
func PaintObject(obj Object) layer.Node {
	holder, ok := obj.(baseHolder)
	if !ok {
		panic(errors.Programmingf("render.PaintObject", "",
			"%T does not embed a render base", obj))
	}
	b := holder.renderBase()
	if obj.IsRepaintBoundary() {
		handle := b.Handle()
		if b.needsPaint {
			b.clearNeedsPaint()
			handle.SetContent(paintContent(obj, b))
		}
		return handle
	}
	b.clearNeedsPaint()
	return paintContent(obj, b)
}

func paintContent(obj Object, b *Base) layer.Node {
	switch o := obj.(type) {
	case LeafObject:
		rec := layer.NewRecorder(geometry.RectFromSize(b.size))
		o.PerformPaint(rec)
		return layer.NewPictureNode(rec.Finish())
	case SingleObject:
		var child layer.Node
		if slot := o.ChildSlot(); slot.Attached() {
			child = layer.NewOffsetNode(slot.offset, PaintObject(slot.object))
		}
		return o.PerformPaint(child)
	case MultiObject:
		slots := o.ChildSlots()
		children := make([]layer.Node, 0, len(slots))
		for _, slot := range slots {
			if !slot.Attached() {
				continue
			}
			children = append(children, layer.NewOffsetNode(slot.offset, PaintObject(slot.object)))
		}
		return o.PerformPaint(children)
	default:
		panic(errors.Programmingf("render.PaintObject", "",
			"%T implements no arity interface", obj))
	}
}

// HitTestResult collects hit render objects in front-to-back order.
type HitTestResult struct {
	Entries []Object
}

// Add appends a render object to the hit list.
func (h *HitTestResult) Add(target Object) {
	h.Entries = append(h.Entries, target)
}
