package core

import (
	"reflect"
	"time"

	"github.com/canopy-ui/canopy/pkg/errors"
	"github.com/canopy-ui/canopy/pkg/render"
)

// Tree is the element arena. It owns every element; external code reaches
// elements only through ids. Structural mutation happens exclusively inside
// a coordinator flush.
type Tree struct {
	coordinator *Coordinator
	elements    map[ElementID]*Element
	nextID      uint64
	root        ElementID
}

func newTree(coordinator *Coordinator) *Tree {
	return &Tree{
		coordinator: coordinator,
		elements:    make(map[ElementID]*Element),
	}
}

// Get returns the element for id, nil if it is not live.
func (t *Tree) Get(id ElementID) *Element {
	if id == NoElement {
		return nil
	}
	return t.elements[id]
}

// Root returns the root element id, NoElement before the first mount.
func (t *Tree) Root() ElementID {
	return t.root
}

// roleOf derives the element role from the view's interfaces.
// A view implementing no role is a programming error.
func roleOf(view View) Role {
	switch view.(type) {
	case RenderView:
		return RoleRender
	case ProviderView:
		return RoleProvider
	case ComponentView, StatefulView:
		return RoleComponent
	default:
		panic(errors.Programmingf("core.roleOf", "",
			"%s implements no view role", viewTypeName(view)))
	}
}

// arityOf derives the declared child arity of a render view. Declaring
// more than one child accessor is rejected here, before any object exists.
func arityOf(view RenderView) render.Arity {
	_, single := view.(SingleRenderView)
	_, multi := view.(MultiRenderView)
	if single && multi {
		panic(errors.Programmingf("core.arityOf", "",
			"%s declares both single- and multi-child accessors", viewTypeName(view)))
	}
	switch {
	case single:
		return render.AritySingle
	case multi:
		return render.ArityMulti
	default:
		return render.ArityLeaf
	}
}

// canUpdate reports whether an existing element can absorb the new view:
// same concrete type and equal keys.
func canUpdate(existing View, next View) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

// inflate creates and mounts a fresh element for view under parent.
func (t *Tree) inflate(view View, parent ElementID, slot int) *Element {
	role := roleOf(view)
	t.nextID++
	e := &Element{
		id:     ElementID(t.nextID),
		role:   role,
		tree:   t,
		view:   view,
		parent: parent,
		slot:   slot,
	}
	if p := t.Get(parent); p != nil {
		e.depth = p.depth + 1
	}
	t.elements[e.id] = e
	e.mounted = true

	switch role {
	case RoleRender:
		t.mountRender(e)
	case RoleComponent:
		if stateful, ok := view.(StatefulView); ok {
			e.state = stateful.CreateState()
			if e.state == nil {
				panic(errors.Programmingf("core.inflate", e.path(),
					"CreateState returned nil"))
			}
			if attacher, ok := e.state.(interface {
				attachState(*Tree, ElementID)
			}); ok {
				attacher.attachState(t, e.id)
			}
			e.state.Init(e.context())
		}
	case RoleProvider:
		e.dependents = make(map[ElementID]struct{})
	}

	e.dirty.Store(true)
	t.rebuild(e)
	return e
}

// mountRender creates the render object, validates its arity against the
// view's declared one, and attaches it under the nearest render ancestor.
func (t *Tree) mountRender(e *Element) {
	view := e.view.(RenderView)
	obj := view.CreateObject()
	if obj == nil {
		panic(errors.Programmingf("core.mountRender", e.path(),
			"CreateObject returned nil"))
	}
	want := arityOf(view)
	if obj.Arity() != want {
		panic(errors.Programmingf("core.mountRender", e.path(),
			"view declares %s children but object %T is %s", want, obj, obj.Arity()))
	}
	obj.SetOwner(t.coordinator)
	e.object = obj
	e.renderParent = t.findRenderAncestor(e.parent)
	t.attachRenderObject(e)
}

// findRenderAncestor walks parent links to the nearest render element.
func (t *Tree) findRenderAncestor(from ElementID) ElementID {
	for cur := t.Get(from); cur != nil; cur = t.Get(cur.parent) {
		if cur.role == RoleRender {
			return cur.id
		}
	}
	return NoElement
}

// attachRenderObject links e's object into the render tree. Single-child
// parents take the child directly; multi-child parents have their list
// rebuilt, which also covers render descendants appearing or vanishing
// deep inside component subtrees.
func (t *Tree) attachRenderObject(e *Element) {
	parent := t.Get(e.renderParent)
	if parent == nil || parent.object == nil {
		return
	}
	if single, ok := parent.object.(interface{ SetChild(render.Object) }); ok {
		single.SetChild(e.object)
		return
	}
	t.rebuildRenderChildren(parent)
}

// detachRenderObject unlinks e's object from the render tree.
func (t *Tree) detachRenderObject(e *Element) {
	parent := t.Get(e.renderParent)
	e.renderParent = NoElement
	if parent == nil || parent.object == nil {
		return
	}
	if single, ok := parent.object.(interface{ SetChild(render.Object) }); ok {
		single.SetChild(nil)
		return
	}
	t.rebuildRenderChildren(parent)
}

// rebuildRenderChildren re-derives a multi-child object's children from
// the element tree: the primary render object of each child subtree, in
// child order.
func (t *Tree) rebuildRenderChildren(e *Element) {
	multi, ok := e.object.(interface{ SetChildren([]render.Object) })
	if !ok {
		return
	}
	objects := make([]render.Object, 0, len(e.children))
	for _, childID := range e.children {
		if obj := t.renderObjectOf(childID); obj != nil {
			objects = append(objects, obj)
		}
	}
	multi.SetChildren(objects)
}

// renderObjectOf returns the primary render object of the subtree at id:
// the element's own object for render elements, otherwise the first render
// descendant's.
func (t *Tree) renderObjectOf(id ElementID) render.Object {
	e := t.Get(id)
	if e == nil {
		return nil
	}
	if e.role == RoleRender {
		return e.object
	}
	for _, childID := range e.children {
		if obj := t.renderObjectOf(childID); obj != nil {
			return obj
		}
	}
	return nil
}

// unmount tears down the subtree at id: children first, then the element's
// own role resources.
func (t *Tree) unmount(id ElementID) {
	e := t.Get(id)
	if e == nil {
		return
	}
	for _, childID := range e.children {
		t.unmount(childID)
	}
	e.children = nil
	e.mounted = false
	switch e.role {
	case RoleRender:
		t.detachRenderObject(e)
		e.object = nil
	case RoleComponent:
		if e.state != nil {
			e.state.Dispose()
			e.state = nil
		}
	case RoleProvider:
		e.dependents = nil
	}
	delete(t.elements, e.id)
}

// safeBuild runs a build callback with panic containment. A panic tears
// down only the failing subtree: the callback error is reported and a nil
// view is returned, which unmounts the element's children while siblings
// continue.
func (t *Tree) safeBuild(e *Element, build func() View) View {
	var built View
	var cbErr *errors.CallbackError
	func() {
		defer func() {
			if r := recover(); r != nil {
				cbErr = &errors.CallbackError{
					Phase:      "build",
					View:       viewTypeName(e.view),
					Element:    e.role.String(),
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
			}
		}()
		built = build()
	}()
	if cbErr != nil {
		errors.ReportCallbackError(cbErr)
		if t.coordinator != nil {
			t.coordinator.noteContainedFailure()
		}
		return nil
	}
	return built
}

// rebuild synchronizes e's children with its view. The dirty flag is
// cleared before building so marks raised during the build re-schedule.
func (t *Tree) rebuild(e *Element) {
	if !e.mounted || !e.dirty.Load() {
		return
	}
	e.dirty.Store(false)

	switch e.role {
	case RoleComponent:
		var built View
		if e.state != nil {
			built = t.safeBuild(e, func() View { return e.state.Build(e.context()) })
		} else {
			view := e.view.(ComponentView)
			built = t.safeBuild(e, func() View { return view.Build(e.context()) })
		}
		t.syncSingleChild(e, built)

	case RoleProvider:
		t.syncSingleChild(e, e.view.(ProviderView).ChildView())

	case RoleRender:
		view := e.view.(RenderView)
		view.UpdateObject(e.object)
		switch typed := view.(type) {
		case SingleRenderView:
			childView := typed.ChildView()
			if childView == nil {
				panic(errors.Programmingf("core.rebuild", e.path(),
					"single-arity view produced no child"))
			}
			t.syncSingleChild(e, childView)
		case MultiRenderView:
			e.children = t.updateChildren(e, e.children, typed.ChildViews())
			t.rebuildRenderChildren(e)
		}
	}
}

// syncSingleChild reconciles an element's sole child slot.
func (t *Tree) syncSingleChild(e *Element, view View) {
	var existing ElementID
	if len(e.children) > 0 {
		existing = e.children[0]
	}
	child := t.updateChild(existing, view, e.id, 0)
	if child == NoElement {
		e.children = nil
	} else {
		e.children = []ElementID{child}
	}
}

// updateChild reconciles one child slot: nil view unmounts, a matching
// view updates in place, anything else replaces the subtree.
func (t *Tree) updateChild(existing ElementID, view View, parent ElementID, slot int) ElementID {
	old := t.Get(existing)
	if view == nil {
		if old != nil {
			t.unmount(existing)
		}
		return NoElement
	}
	if old != nil && canUpdate(old.view, view) {
		t.updateElement(old, view, slot)
		return existing
	}
	if old != nil {
		t.unmount(existing)
	}
	return t.inflate(view, parent, slot).id
}

// updateElement absorbs a new view into an existing element. Identical
// configurations skip the rebuild as a pure optimization.
func (t *Tree) updateElement(e *Element, view View, slot int) {
	old := e.view
	e.slot = slot
	if reflect.DeepEqual(old, view) {
		return
	}
	e.view = view

	if e.role == RoleProvider {
		next := view.(ProviderView)
		if next.UpdateShouldNotify(old.(ProviderView)) {
			for depID := range e.dependents {
				if dep := t.Get(depID); dep != nil && dep.mounted {
					dep.MarkNeedsBuild()
				}
			}
		}
	}

	e.dirty.Store(true)
	t.rebuild(e)
}

// updateChildren reconciles an ordered child list against new views.
//
// Matching is positional from both ends (old and new lists synced from the
// top and the bottom while types and keys agree), with keys matching the
// remaining middle so reordered keyed children keep their elements. The
// mutations then run in a fixed order: removed children are unmounted
// first, kept children update in their new order, and new children mount
// last, so no two live elements ever claim the same render slot.
func (t *Tree) updateChildren(parent *Element, oldIDs []ElementID, views []View) []ElementID {
	assigned := make([]ElementID, len(views))
	matched := make(map[ElementID]bool, len(oldIDs))

	viewOf := func(id ElementID) View {
		if e := t.Get(id); e != nil {
			return e.view
		}
		return nil
	}

	oldTop, newTop := 0, 0
	oldBottom, newBottom := len(oldIDs)-1, len(views)-1

	for oldTop <= oldBottom && newTop <= newBottom &&
		canUpdate(viewOf(oldIDs[oldTop]), views[newTop]) {
		assigned[newTop] = oldIDs[oldTop]
		matched[oldIDs[oldTop]] = true
		oldTop++
		newTop++
	}
	for oldBottom >= oldTop && newBottom >= newTop &&
		canUpdate(viewOf(oldIDs[oldBottom]), views[newBottom]) {
		assigned[newBottom] = oldIDs[oldBottom]
		matched[oldIDs[oldBottom]] = true
		oldBottom--
		newBottom--
	}

	var keyed map[any]ElementID
	for i := oldTop; i <= oldBottom; i++ {
		view := viewOf(oldIDs[i])
		if view == nil || view.Key() == nil {
			continue
		}
		if keyed == nil {
			keyed = make(map[any]ElementID)
		}
		if _, dup := keyed[view.Key()]; dup {
			panic(errors.Programmingf("core.updateChildren", parent.path(),
				"duplicate key %v in child list", view.Key()))
		}
		keyed[view.Key()] = oldIDs[i]
	}
	var seen map[any]struct{}
	for i := newTop; i <= newBottom; i++ {
		key := views[i].Key()
		if key == nil {
			continue
		}
		if seen == nil {
			seen = make(map[any]struct{})
		}
		if _, dup := seen[key]; dup {
			panic(errors.Programmingf("core.updateChildren", parent.path(),
				"duplicate key %v in child list", key))
		}
		seen[key] = struct{}{}
		if id, ok := keyed[key]; ok && canUpdate(viewOf(id), views[i]) {
			assigned[i] = id
			matched[id] = true
			delete(keyed, key)
		}
	}

	// Removed children go first.
	for _, id := range oldIDs {
		if !matched[id] {
			t.unmount(id)
		}
	}
	// Kept children update in their new order.
	for i, id := range assigned {
		if id != NoElement {
			t.updateElement(t.Get(id), views[i], i)
		}
	}
	// New children mount last.
	result := make([]ElementID, len(views))
	for i, id := range assigned {
		if id != NoElement {
			result[i] = id
			continue
		}
		result[i] = t.inflate(views[i], parent.id, i).id
	}
	return result
}
