package uitest

import (
	"reflect"

	"github.com/canopy-ui/canopy/pkg/core"
)

// collect walks the element tree depth-first pre-order from the root and
// returns the ids whose element matches.
func (t *Tester) collect(match func(*core.Element) bool) []core.ElementID {
	tree := t.coordinator.Tree()
	var out []core.ElementID
	var walk func(id core.ElementID)
	walk = func(id core.ElementID) {
		e := tree.Get(id)
		if e == nil {
			return
		}
		if match(e) {
			out = append(out, e.ID())
		}
		for _, child := range e.Children() {
			walk(child)
		}
	}
	walk(tree.Root())
	return out
}

// FindByType returns the elements whose view has concrete type V, in
// traversal order.
func FindByType[V core.View](t *Tester) []core.ElementID {
	want := reflect.TypeOf((*V)(nil)).Elem()
	return t.collect(func(e *core.Element) bool {
		return reflect.TypeOf(e.View()) == want
	})
}

// FindByKey returns the elements whose view key equals key.
func (t *Tester) FindByKey(key any) []core.ElementID {
	return t.collect(func(e *core.Element) bool {
		return e.View() != nil && reflect.DeepEqual(e.View().Key(), key)
	})
}

// ViewOf returns the view mirrored by the element with the given id, nil
// when the element is gone.
func (t *Tester) ViewOf(id core.ElementID) core.View {
	if e := t.coordinator.Tree().Get(id); e != nil {
		return e.View()
	}
	return nil
}
