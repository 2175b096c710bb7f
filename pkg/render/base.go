package render

import (
	"fmt"

	"github.com/canopy-ui/canopy/pkg/errors"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
)

// Base provides the shared behavior of all render objects: size and
// constraint bookkeeping, dirty tracking, and the relayout/repaint boundary
// walks. Concrete objects embed one of the arity bases (which embed Base)
// and call Init with themselves so Base can dispatch to their arity hooks.
type Base struct {
	size             geometry.Size
	owner            Owner
	self             Object
	parent           Object
	depth            int
	relayoutBoundary Object
	repaintBoundary  Object
	needsLayout      bool
	needsPaint       bool
	constraints      geometry.Constraints
	paintBoundary    bool
	handle           *layer.Handle
}

// Init registers the concrete render object for scheduling and dispatch.
// Every constructor must call it before the object enters the tree.
func (b *Base) Init(self Object) {
	b.self = self
	b.needsLayout = true
	b.needsPaint = true
}

// Self returns the concrete render object registered via Init.
func (b *Base) Self() Object {
	return b.self
}

// Size returns the size computed by the last layout pass.
func (b *Base) Size() geometry.Size {
	return b.size
}

// setSize updates the size, marking paint dirty on change since the
// object's content must be re-recorded at the new size.
func (b *Base) setSize(size geometry.Size) {
	if b.size == size {
		return
	}
	b.size = size
	b.MarkNeedsPaint()
}

// SetOwner assigns the pipeline owner for scheduling layout and paint.
func (b *Base) SetOwner(owner Owner) {
	b.owner = owner
}

// Owner returns the pipeline owner, nil for detached objects.
func (b *Base) Owner() Owner {
	return b.owner
}

// Parent returns the parent render object.
func (b *Base) Parent() Object {
	return b.parent
}

// SetParent attaches the object under a new parent and recomputes depth.
// Boundary caches and constraints are cleared so a reparented object never
// carries stale references into its new subtree.
func (b *Base) SetParent(parent Object) {
	if b.parent == parent {
		return
	}
	oldParent := b.parent
	b.parent = parent
	if parent == nil {
		b.depth = 0
	} else {
		b.depth = parent.Depth() + 1
	}
	b.relayoutBoundary = nil
	b.repaintBoundary = nil
	b.constraints = geometry.Constraints{}
	b.needsLayout = true
	b.needsPaint = true

	// Both parents' layer nodes reference the moved child and are stale.
	if oldParent != nil {
		oldParent.MarkNeedsPaint()
	}
	if parent != nil {
		parent.MarkNeedsPaint()
	}
}

// Depth returns the tree depth (root = 0).
func (b *Base) Depth() int {
	return b.depth
}

// Constraints returns the constraints received by the last layout pass.
func (b *Base) Constraints() geometry.Constraints {
	return b.constraints
}

// NeedsLayout reports whether this object needs layout.
func (b *Base) NeedsLayout() bool {
	return b.needsLayout
}

// NeedsPaint reports whether this object needs painting.
func (b *Base) NeedsPaint() bool {
	return b.needsPaint
}

// RelayoutBoundary returns the cached nearest relayout boundary.
func (b *Base) RelayoutBoundary() Object {
	return b.relayoutBoundary
}

// SetRepaintBoundary marks this object as repainting separately from its
// ancestors. Set it at construction time, before the object joins the tree.
func (b *Base) SetRepaintBoundary(boundary bool) {
	b.paintBoundary = boundary
}

// IsRepaintBoundary reports whether this object repaints separately.
func (b *Base) IsRepaintBoundary() bool {
	return b.paintBoundary
}

// Handle returns the stable layer handle for repaint boundaries, creating
// it on first use. The handle's identity never changes: ancestors reference
// it, and repaints only swap its content.
func (b *Base) Handle() *layer.Handle {
	if b.handle == nil {
		b.handle = layer.NewHandle()
	}
	return b.handle
}

// MarkNeedsLayout marks this object as needing layout and walks up the
// tree until a relayout boundary is reached. The boundary is scheduled with
// the owner; every node along the path keeps needsLayout=true so the layout
// pass propagates from the boundary down to the changed node.
func (b *Base) MarkNeedsLayout() {
	if b.needsLayout {
		return
	}
	b.needsLayout = true

	if b.owner == nil || b.self == nil {
		return
	}
	if b.relayoutBoundary == b.self {
		b.owner.ScheduleLayout(b.self)
		return
	}
	if b.parent != nil {
		b.parent.MarkNeedsLayout()
		return
	}
	// Not yet attached under a boundary; schedule self so the object is
	// not lost before the tree is fully connected.
	b.owner.ScheduleLayout(b.self)
}

// MarkNeedsPaint marks this object as needing paint and walks up the tree
// until a repaint boundary is reached. The walk stops at the boundary:
// ancestors reference the boundary through its stable handle, so their own
// recorded content stays valid when the boundary's content changes.
func (b *Base) MarkNeedsPaint() {
	b.needsPaint = true

	if b.owner == nil || b.self == nil {
		return
	}
	if b.self.IsRepaintBoundary() {
		b.owner.SchedulePaint(b.self)
		return
	}
	if b.parent != nil {
		b.parent.MarkNeedsPaint()
		return
	}
	b.owner.SchedulePaint(b.self)
}

// clearNeedsPaint marks this object as painted.
func (b *Base) clearNeedsPaint() {
	b.needsPaint = false
}

// Layout determines relayout boundaries, skips clean subtrees, and
// dispatches to the concrete object's PerformLayout for its arity.
//
// A node becomes a relayout boundary when it receives tight constraints,
// has no parent, or its parent does not use its size. Boundaries contain
// layout changes: the MarkNeedsLayout walk stops there, so ancestors are
// never re-laid out for a change that cannot affect them.
func (b *Base) Layout(constraints geometry.Constraints, parentUsesSize bool) {
	if constraints.IsTight() || b.parent == nil || !parentUsesSize {
		b.relayoutBoundary = b.self
	} else if getter, ok := b.parent.(interface{ RelayoutBoundary() Object }); ok {
		b.relayoutBoundary = getter.RelayoutBoundary()
	}

	if b.self != nil && b.self.IsRepaintBoundary() {
		b.repaintBoundary = b.self
		// Boundaries schedule themselves on first layout: Init set
		// needsPaint before an owner existed, and the MarkNeedsPaint
		// walk from descendants stops at the nearest boundary below.
		if b.needsPaint && b.owner != nil {
			b.owner.SchedulePaint(b.self)
		}
	} else if b.parent != nil {
		if getter, ok := b.parent.(interface{ RepaintBoundary() Object }); ok {
			b.repaintBoundary = getter.RepaintBoundary()
		}
	}

	// Unchanged subtrees skip layout entirely.
	if !b.needsLayout && b.constraints == constraints {
		return
	}

	b.constraints = constraints
	b.needsLayout = false

	var size geometry.Size
	switch obj := b.self.(type) {
	case LeafObject:
		size = obj.PerformLayout(constraints)
	case SingleObject:
		size = obj.PerformLayout(constraints, obj.ChildSlot())
	case MultiObject:
		size = obj.PerformLayout(constraints, obj.ChildSlots())
	default:
		panic(errors.Programmingf("render.Layout", "",
			"%T implements no arity interface", b.self))
	}

	if !constraints.IsSatisfiedBy(size) {
		clamped := constraints.Constrain(size)
		errors.ReportDivergence(&errors.LayoutDivergence{
			Object:      fmt.Sprintf("%T", b.self),
			Constraints: constraints,
			Returned:    size,
			Clamped:     clamped,
		})
		size = clamped
	}
	b.setSize(size)
}

// RepaintBoundary returns the cached nearest repaint boundary.
func (b *Base) RepaintBoundary() Object {
	return b.repaintBoundary
}

// HitTest is the default implementation: the position must fall within the
// object's bounds, then children are tested front-to-back (reverse paint
// order) with the position translated into each child's coordinate space.
// A hit child absorbs the test; otherwise the object itself is recorded.
func (b *Base) HitTest(position geometry.Offset, result *HitTestResult) bool {
	if !WithinBounds(position, b.size) {
		return false
	}
	slots := childSlots(b.self)
	for i := len(slots) - 1; i >= 0; i-- {
		slot := slots[i]
		if slot == nil || slot.object == nil {
			continue
		}
		local := position.Sub(slot.offset)
		if slot.object.HitTest(local, result) {
			if result != nil {
				result.Add(b.self)
			}
			return true
		}
	}
	if result != nil {
		result.Add(b.self)
	}
	return true
}

// childSlots returns the object's child slots regardless of arity.
func childSlots(obj Object) []*Child {
	switch o := obj.(type) {
	case SingleObject:
		if slot := o.ChildSlot(); slot != nil && slot.object != nil {
			return []*Child{slot}
		}
		return nil
	case MultiObject:
		return o.ChildSlots()
	default:
		return nil
	}
}

// WithinBounds checks whether a position falls within the given size.
func WithinBounds(position geometry.Offset, size geometry.Size) bool {
	return position.X >= 0 && position.Y >= 0 && position.X <= size.Width && position.Y <= size.Height
}
