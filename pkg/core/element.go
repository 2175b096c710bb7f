package core

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/canopy-ui/canopy/pkg/render"
)

// ElementID is a stable opaque handle into the element arena. The zero
// value means "no element". Ids are allocated monotonically and never
// reused while the tree lives.
type ElementID uint64

// NoElement is the zero ElementID.
const NoElement ElementID = 0

// Role tags the closed set of element variants. The dirty-processing
// switches match on it exhaustively.
type Role int

const (
	// RoleComponent wraps a build callback producing a child subtree.
	RoleComponent Role = iota
	// RoleRender owns exactly one render object.
	RoleRender
	// RoleProvider injects an ambient value visible to descendants.
	RoleProvider
)

func (r Role) String() string {
	switch r {
	case RoleComponent:
		return "component"
	case RoleRender:
		return "render"
	case RoleProvider:
		return "provider"
	default:
		return "unknown"
	}
}

// Element is one persistent node of the tree: a tagged union over the three
// roles. The arena owns every element; parent links are id-based lookups,
// never ownership.
type Element struct {
	id       ElementID
	role     Role
	tree     *Tree
	view     View
	parent   ElementID
	children []ElementID
	depth    int
	slot     int
	mounted  bool
	dirty    atomic.Bool

	// RoleComponent with a StatefulView.
	state State
	// RoleRender.
	object render.Object
	// RoleRender: nearest ancestor render element, for attachment.
	renderParent ElementID
	// RoleProvider: elements to rebuild on a notifying update.
	dependents map[ElementID]struct{}
}

// ID returns the element's arena handle.
func (e *Element) ID() ElementID {
	return e.id
}

// Role returns the element's variant tag.
func (e *Element) Role() Role {
	return e.role
}

// View returns the view the element currently mirrors.
func (e *Element) View() View {
	return e.view
}

// Depth returns the distance from the root (root = 0).
func (e *Element) Depth() int {
	return e.depth
}

// Parent returns the parent's id, NoElement at the root.
func (e *Element) Parent() ElementID {
	return e.parent
}

// Children returns the ordered child ids.
func (e *Element) Children() []ElementID {
	out := make([]ElementID, len(e.children))
	copy(out, e.children)
	return out
}

// State returns the persistent state for stateful component elements,
// nil otherwise.
func (e *Element) State() State {
	return e.state
}

// Object returns the render object for RoleRender elements, nil otherwise.
func (e *Element) Object() render.Object {
	return e.object
}

// Mounted reports whether the element is live in the tree.
func (e *Element) Mounted() bool {
	return e.mounted
}

// Dirty reports whether the element is scheduled for rebuild.
func (e *Element) Dirty() bool {
	return e.dirty.Load()
}

// MarkNeedsBuild schedules the element for rebuild in the next flush.
// Marks are idempotent until the rebuild runs.
func (e *Element) MarkNeedsBuild() {
	if e.dirty.Swap(true) {
		return
	}
	if e.tree != nil && e.tree.coordinator != nil {
		e.tree.coordinator.scheduleBuild(e)
	}
}

// context returns the build context for this element.
func (e *Element) context() Context {
	return Context{tree: e.tree, id: e.id}
}

// path renders the element's location root-to-leaf for diagnostics,
// e.g. "app.rootView/widgets.Column[1]/widgets.Text".
func (e *Element) path() string {
	if e == nil {
		return ""
	}
	name := viewTypeName(e.view)
	parent := e.tree.Get(e.parent)
	if parent == nil {
		return name
	}
	if len(parent.children) > 1 {
		name = fmt.Sprintf("%s[%d]", name, e.slot)
	}
	return parent.path() + "/" + name
}

func viewTypeName(view View) string {
	if view == nil {
		return "<nil>"
	}
	t := reflect.TypeOf(view)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
