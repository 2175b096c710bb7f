// Package render implements the layout and paint tree.
//
// Render objects are arity-typed: every object is a leaf, a single-child
// wrapper or a multi-child container, and the distinction is structural.
// [LeafBase], [SingleBase] and [MultiBase] provide the child storage for
// each arity, and the matching [LeafObject], [SingleObject] and
// [MultiObject] interfaces carry the layout and paint hooks. An object of
// one arity has no API through which a child of another arity could be
// attached, so arity violations are impossible to express once an object
// is constructed.
package render

import (
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
)

// Node aliases the layer tree node type produced by painting.
type Node = layer.Node

// Recorder aliases the picture recorder leaf objects paint against.
type Recorder = layer.Recorder

// Arity describes how many children a render object supports.
type Arity int

const (
	// ArityLeaf objects have no children.
	ArityLeaf Arity = iota
	// AritySingle objects wrap exactly one optional child.
	AritySingle
	// ArityMulti objects hold an ordered list of children.
	ArityMulti
)

func (a Arity) String() string {
	switch a {
	case ArityLeaf:
		return "leaf"
	case AritySingle:
		return "single"
	case ArityMulti:
		return "multi"
	default:
		return "unknown"
	}
}

// Object handles layout, painting and hit testing for one node of the
// render tree. Concrete objects embed one of the arity bases and implement
// the matching arity interface; they never implement Object from scratch.
type Object interface {
	// Layout computes the object's size within the given constraints.
	// parentUsesSize reports whether the parent's own layout depends on
	// the size this object returns.
	Layout(constraints geometry.Constraints, parentUsesSize bool)
	// Size returns the size computed by the last layout pass.
	Size() geometry.Size
	// HitTest reports whether position (in the object's local coordinate
	// space) hits this object, appending hit entries front-to-back.
	HitTest(position geometry.Offset, result *HitTestResult) bool
	// Arity returns the structural child arity of this object.
	Arity() Arity
	// MarkNeedsLayout schedules this object's relayout boundary for layout.
	MarkNeedsLayout()
	// MarkNeedsPaint schedules this object's repaint boundary for paint.
	MarkNeedsPaint()
	// SetOwner assigns the pipeline owner used for scheduling.
	SetOwner(owner Owner)
	// SetParent attaches this object under a new parent.
	SetParent(parent Object)
	// Parent returns the current parent, nil at the root.
	Parent() Object
	// Depth returns the tree depth (root = 0).
	Depth() int
	// IsRepaintBoundary reports whether this object repaints separately
	// from its ancestors.
	IsRepaintBoundary() bool
}

// Owner schedules dirty render objects for the next pipeline flush.
// The frame coordinator implements it.
type Owner interface {
	// ScheduleLayout records a relayout boundary that needs layout.
	ScheduleLayout(object Object)
	// SchedulePaint records a repaint boundary that needs paint.
	SchedulePaint(object Object)
}

// LeafObject is a render object with no children. PerformLayout and
// PerformPaint receive nothing but constraints and a recorder.
type LeafObject interface {
	Object
	// PerformLayout computes the object's size within the constraints.
	PerformLayout(constraints geometry.Constraints) geometry.Size
	// PerformPaint records the object's content. The recorder's bounds
	// cover the object's laid-out size.
	PerformPaint(rec *Recorder)
}

// SingleObject is a render object wrapping at most one child.
type SingleObject interface {
	Object
	// ChildSlot returns the child slot, which may be empty.
	ChildSlot() *Child
	// PerformLayout lays out the child (if any) and computes the
	// object's own size.
	PerformLayout(constraints geometry.Constraints, child *Child) geometry.Size
	// PerformPaint combines the child's painted layer (nil when there is
	// no child) into this object's layer node.
	PerformPaint(child Node) Node
}

// MultiObject is a render object holding an ordered list of children.
type MultiObject interface {
	Object
	// ChildSlots returns the ordered child slots.
	ChildSlots() []*Child
	// PerformLayout lays out the children and computes the object's size.
	PerformLayout(constraints geometry.Constraints, children []*Child) geometry.Size
	// PerformPaint combines the children's painted layers, given in child
	// order, into this object's layer node.
	PerformPaint(children []Node) Node
}
