package render

import "github.com/canopy-ui/canopy/pkg/geometry"

// Child is a parent-owned slot holding one child object and the offset the
// parent assigned to it. Parents lay out and position children exclusively
// through their slots.
type Child struct {
	parent Object
	object Object
	offset geometry.Offset
}

// Object returns the child render object, nil for an empty slot.
func (c *Child) Object() Object {
	if c == nil {
		return nil
	}
	return c.object
}

// Attached reports whether the slot holds a child.
func (c *Child) Attached() bool {
	return c != nil && c.object != nil
}

// Layout lays out the child within the given constraints and returns the
// size it chose. Empty slots report a zero size.
func (c *Child) Layout(constraints geometry.Constraints, parentUsesSize bool) geometry.Size {
	if !c.Attached() {
		return geometry.Size{}
	}
	c.object.Layout(constraints, parentUsesSize)
	return c.object.Size()
}

// PlaceAt positions the child at the given offset in the parent's
// coordinate space. A moved child invalidates the parent's recorded
// content, so the parent is marked for repaint.
func (c *Child) PlaceAt(offset geometry.Offset) {
	if c == nil || c.offset == offset {
		return
	}
	c.offset = offset
	if c.parent != nil {
		c.parent.MarkNeedsPaint()
	}
}

// Offset returns the position assigned by the last PlaceAt.
func (c *Child) Offset() geometry.Offset {
	if c == nil {
		return geometry.Offset{}
	}
	return c.offset
}

// Size returns the child's laid-out size.
func (c *Child) Size() geometry.Size {
	if !c.Attached() {
		return geometry.Size{}
	}
	return c.object.Size()
}
