// Package core implements the element tree and the frame pipeline.
//
// Views are ephemeral descriptions produced fresh on every build; elements
// are the persistent tree that mirrors them, owning identity and state
// across rebuilds. Reconciliation maps each new view onto the existing
// element at the same slot, reusing the element when the concrete view type
// (and key) matches and replacing the subtree otherwise. The Coordinator
// drives the build, layout and paint phases over the element arena and the
// render tree attached to it.
package core

import (
	"reflect"

	"github.com/canopy-ui/canopy/pkg/render"
)

// View is one node of the declarative description. Views are immutable
// value types, cheap to construct and discarded right after reconciliation.
// Identity within a parent is positional unless Key returns a non-nil
// value, which overrides position and survives list reordering.
//
// Every view implements exactly one role: [ComponentView] or [StatefulView]
// (build a child subtree), [RenderView] (own a render object), or
// [ProviderView] (expose an ambient value to descendants).
type View interface {
	// Key returns the reconciliation key, nil for positional identity.
	Key() any
}

// ComponentView builds a child subtree from its configuration.
type ComponentView interface {
	View
	Build(ctx Context) View
}

// StatefulView is a component whose subtree depends on long-lived state.
// The state object survives rebuilds as long as the element does.
type StatefulView interface {
	View
	CreateState() State
}

// State is the persistent companion of a StatefulView.
type State interface {
	// Init runs once, after the state is attached to its element.
	Init(ctx Context)
	// Build produces the child subtree from the current state.
	Build(ctx Context) View
	// Dispose runs when the owning element is unmounted.
	Dispose()
}

// StateBase provides SetState and the element plumbing for states.
// Embed it in a state struct and implement Build:
//
//	type counterState struct {
//	    core.StateBase
//	    count int
//	}
//
//	func (s *counterState) Build(ctx core.Context) core.View {
//	    return widgets.Text{Content: fmt.Sprintf("%d", s.count)}
//	}
type StateBase struct {
	tree *Tree
	id   ElementID
}

func (s *StateBase) attachState(tree *Tree, id ElementID) {
	s.tree = tree
	s.id = id
}

// Element returns the id of the element owning this state.
func (s *StateBase) Element() ElementID {
	return s.id
}

// SetState runs fn and schedules a rebuild of the owning element.
// It is a no-op after the element is unmounted.
func (s *StateBase) SetState(fn func()) {
	if fn != nil {
		fn()
	}
	if s.tree == nil {
		return
	}
	if e := s.tree.Get(s.id); e != nil && e.mounted {
		e.MarkNeedsBuild()
	}
}

// Init is a no-op default.
func (s *StateBase) Init(ctx Context) {}

// Dispose is a no-op default.
func (s *StateBase) Dispose() {}

// RenderView owns one render object. The concrete view additionally
// implements [SingleRenderView] or [MultiRenderView] to declare children;
// implementing neither makes it a leaf. Declaring both is an arity
// violation rejected at mount.
type RenderView interface {
	View
	// CreateObject constructs the render object. Its arity must match the
	// view's declared child accessors.
	CreateObject() render.Object
	// UpdateObject copies the view's configuration onto an existing
	// object, marking it for layout or paint as needed.
	UpdateObject(obj render.Object)
}

// SingleRenderView is a render view wrapping exactly one child.
type SingleRenderView interface {
	RenderView
	ChildView() View
}

// MultiRenderView is a render view holding an ordered child list.
type MultiRenderView interface {
	RenderView
	ChildViews() []View
}

// ProviderView exposes an ambient value to every descendant. Descendants
// that read the value through [Context.DependOn] are rebuilt when the
// provider updates and UpdateShouldNotify reports a relevant change.
type ProviderView interface {
	View
	ChildView() View
	// UpdateShouldNotify reports whether dependents must rebuild after
	// this view replaced old on the same element.
	UpdateShouldNotify(old ProviderView) bool
}

// Context gives build callbacks access to their element.
type Context struct {
	tree *Tree
	id   ElementID
}

// Element returns the id of the element being built.
func (c Context) Element() ElementID {
	return c.id
}

// View returns the view the element currently mirrors.
func (c Context) View() View {
	if c.tree == nil {
		return nil
	}
	if e := c.tree.Get(c.id); e != nil {
		return e.view
	}
	return nil
}

// MarkNeedsBuild schedules the element for rebuild.
func (c Context) MarkNeedsBuild() {
	if c.tree == nil {
		return
	}
	if e := c.tree.Get(c.id); e != nil {
		e.MarkNeedsBuild()
	}
}

// DependOn finds the nearest ancestor provider whose concrete type matches
// want, registering the element as a dependent for change notification.
func (c Context) DependOn(want reflect.Type) (ProviderView, bool) {
	if c.tree == nil {
		return nil, false
	}
	e := c.tree.Get(c.id)
	if e == nil {
		return nil, false
	}
	for cur := c.tree.Get(e.parent); cur != nil; cur = c.tree.Get(cur.parent) {
		if cur.role != RoleProvider || reflect.TypeOf(cur.view) != want {
			continue
		}
		if cur.dependents == nil {
			cur.dependents = make(map[ElementID]struct{})
		}
		cur.dependents[c.id] = struct{}{}
		return cur.view.(ProviderView), true
	}
	return nil, false
}

// DependOn is the typed form of [Context.DependOn]: it finds the nearest
// ancestor provider of concrete type V.
func DependOn[V ProviderView](ctx Context) (V, bool) {
	var zero V
	view, ok := ctx.DependOn(reflect.TypeOf(zero))
	if !ok {
		return zero, false
	}
	return view.(V), true
}
