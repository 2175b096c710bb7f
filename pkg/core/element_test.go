package core

import (
	"strings"
	"testing"

	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
)

func childOfRoot(t *testing.T, c *Coordinator) *Element {
	t.Helper()
	root := c.Tree().Get(c.Tree().Root())
	if root == nil || len(root.children) != 1 {
		t.Fatal("root has no child element")
	}
	return c.Tree().Get(root.children[0])
}

func TestReconcile_SameTypeUpdatesInPlace(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	host := mountHost(t, c, leafView{color: layer.ColorRed, want: geometry.Size{Width: 10, Height: 10}})

	leaf := childOfRoot(t, c)
	id, obj := leaf.id, leaf.object

	host.set(leafView{color: layer.ColorBlue, want: geometry.Size{Width: 10, Height: 10}})
	flush(t, c)

	leaf = childOfRoot(t, c)
	if leaf.id != id {
		t.Fatalf("element replaced: id %d -> %d", id, leaf.id)
	}
	if leaf.object != obj {
		t.Fatal("render object replaced instead of updated")
	}
	if got := rectColors(compositedOps(t, c)); len(got) != 1 || got[0] != layer.ColorBlue {
		t.Fatalf("composited colors = %v, want [blue]", got)
	}
}

func TestReconcile_TypeChangeReplacesSubtree(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	host := mountHost(t, c, counterView{})

	counter := childOfRoot(t, c)
	oldID := counter.id
	state := counter.state.(*counterState)
	state.n = 7

	host.set(leafView{color: layer.ColorRed, want: geometry.Size{Width: 10, Height: 10}})
	flush(t, c)

	if c.Tree().Get(oldID) != nil {
		t.Fatal("replaced element still live in the arena")
	}
	if !state.disposed {
		t.Fatal("state not disposed on replacement")
	}
	if replacement := childOfRoot(t, c); replacement.id == oldID {
		t.Fatal("replacement reused the old element id")
	}
}

func TestReconcile_KeyChangeReplaces(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	host := mountHost(t, c, leafView{key: "a", want: geometry.Size{Width: 10, Height: 10}})

	oldID := childOfRoot(t, c).id

	host.set(leafView{key: "b", want: geometry.Size{Width: 10, Height: 10}})
	flush(t, c)

	if childOfRoot(t, c).id == oldID {
		t.Fatal("key change did not replace the element")
	}
}

func TestUpdateChildren_KeyedReorderPreservesElements(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	host := mountHost(t, c, columnView{items: []View{
		counterView{key: "a"},
		counterView{key: "b"},
	}})

	column := childOfRoot(t, c)
	aID, bID := column.children[0], column.children[1]
	aState := c.Tree().Get(aID).state.(*counterState)
	aState.n = 7

	host.set(columnView{items: []View{
		counterView{key: "b"},
		counterView{key: "a"},
	}})
	flush(t, c)

	column = childOfRoot(t, c)
	if column.children[0] != bID || column.children[1] != aID {
		t.Fatalf("children = %v, want [%d %d]", column.children, bID, aID)
	}
	a := c.Tree().Get(aID)
	if a.slot != 1 {
		t.Fatalf("slot = %d, want 1", a.slot)
	}
	if got := a.state.(*counterState); got != aState || got.n != 7 {
		t.Fatal("reorder lost the element's state")
	}
}

func TestUpdateChildren_RemovalKeepsSiblings(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	host := mountHost(t, c, columnView{items: []View{
		counterView{key: "a"},
		counterView{key: "b"},
		counterView{key: "c"},
	}})

	column := childOfRoot(t, c)
	aID, bID, cID := column.children[0], column.children[1], column.children[2]
	bState := c.Tree().Get(bID).state.(*counterState)

	host.set(columnView{items: []View{
		counterView{key: "a"},
		counterView{key: "c"},
	}})
	flush(t, c)

	column = childOfRoot(t, c)
	if len(column.children) != 2 || column.children[0] != aID || column.children[1] != cID {
		t.Fatalf("children = %v, want [%d %d]", column.children, aID, cID)
	}
	if c.Tree().Get(bID) != nil {
		t.Fatal("removed element still live")
	}
	if !bState.disposed {
		t.Fatal("removed element's state not disposed")
	}
}

func TestUpdateChildren_DuplicateKeyRejectedAtMount(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	_, err := c.Mount(columnView{items: []View{
		leafView{key: "x", want: geometry.Size{Width: 10, Height: 10}},
		leafView{key: "x", want: geometry.Size{Width: 10, Height: 10}},
	}})
	if err == nil {
		t.Fatal("duplicate keys accepted")
	}
	if !strings.Contains(err.Error(), "duplicate key") {
		t.Fatalf("err = %v, want duplicate key diagnostic", err)
	}
}

func TestComponentChain_ResolvesToRenderDescendant(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	mountHost(t, c, componentView{child: componentView{
		child: wrapView{child: leafView{color: layer.ColorGreen, want: geometry.Size{Width: 10, Height: 10}}},
	}})

	if got := rectColors(compositedOps(t, c)); len(got) != 1 || got[0] != layer.ColorGreen {
		t.Fatalf("composited colors = %v, want [green]", got)
	}

	outer := childOfRoot(t, c)
	if outer.role != RoleComponent {
		t.Fatalf("role = %s, want component", outer.role)
	}
	if obj := c.Tree().renderObjectOf(outer.id); obj == nil {
		t.Fatal("component subtree has no primary render object")
	}
	if outer.depth != 1 {
		t.Fatalf("depth = %d, want 1", outer.depth)
	}
}

func TestProvider_NotifiesDependentsOnRelevantChange(t *testing.T) {
	installHandler(t)
	c := NewCoordinator(Options{})
	var log []int
	reader := themeReader{log: &log}
	host := mountHost(t, c, themeView{value: 1, child: reader})

	if len(log) != 1 || log[0] != 1 {
		t.Fatalf("log = %v, want [1]", log)
	}

	host.set(themeView{value: 2, child: reader})
	flush(t, c)
	if len(log) != 2 || log[1] != 2 {
		t.Fatalf("log = %v, want [1 2]", log)
	}

	// An update that does not change the value must not rebuild readers.
	host.set(themeView{value: 2, child: reader})
	flush(t, c)
	if len(log) != 2 {
		t.Fatalf("log = %v, reader rebuilt without a relevant change", log)
	}
}
