package core

import (
	"sync"
	"testing"

	"github.com/canopy-ui/canopy/pkg/errors"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
)

// hostView is a stateful root whose child can be swapped from tests,
// driving every reconciliation path through the public pipeline.
type hostView struct {
	initial View
}

func (hostView) Key() any { return nil }

func (hostView) CreateState() State { return &hostState{} }

type hostState struct {
	StateBase
	started bool
	child   View
}

func (s *hostState) Build(ctx Context) View {
	if !s.started {
		s.started = true
		s.child = s.tree.Get(s.id).view.(hostView).initial
	}
	return s.child
}

func (s *hostState) set(child View) {
	s.SetState(func() { s.child = child })
}

// leafView paints a solid rectangle at its preferred size.
type leafView struct {
	key   any
	color layer.Color
	want  geometry.Size
}

func (v leafView) Key() any { return v.key }

func (v leafView) CreateObject() render.Object {
	o := &leafObj{color: v.color, want: v.want}
	o.Init(o)
	return o
}

func (v leafView) UpdateObject(obj render.Object) {
	o := obj.(*leafObj)
	if o.want != v.want {
		o.want = v.want
		o.MarkNeedsLayout()
	}
	if o.color != v.color {
		o.color = v.color
		o.MarkNeedsPaint()
	}
}

type leafObj struct {
	render.LeafBase
	color layer.Color
	want  geometry.Size
}

func (o *leafObj) PerformLayout(constraints geometry.Constraints) geometry.Size {
	return constraints.Constrain(o.want)
}

func (o *leafObj) PerformPaint(rec *render.Recorder) {
	rec.DrawRect(geometry.RectFromSize(o.Size()), layer.FillPaint(o.color))
}

// columnView stacks its children vertically.
type columnView struct {
	key   any
	items []View
}

func (v columnView) Key() any { return v.key }

func (v columnView) ChildViews() []View { return v.items }

func (v columnView) CreateObject() render.Object {
	o := &columnObj{}
	o.Init(o)
	return o
}

func (columnView) UpdateObject(render.Object) {}

type columnObj struct {
	render.MultiBase
}

func (o *columnObj) PerformLayout(constraints geometry.Constraints, children []*render.Child) geometry.Size {
	var width, y float64
	for _, child := range children {
		size := child.Layout(constraints.Loosen(), true)
		child.PlaceAt(geometry.Offset{Y: y})
		y += size.Height
		if size.Width > width {
			width = size.Width
		}
	}
	return constraints.Constrain(geometry.Size{Width: width, Height: y})
}

func (o *columnObj) PerformPaint(children []render.Node) render.Node {
	return layer.NewContainerNode(children...)
}

// wrapView passes constraints and painting through to its sole child.
type wrapView struct {
	key   any
	child View
}

func (v wrapView) Key() any { return v.key }

func (v wrapView) ChildView() View { return v.child }

func (v wrapView) CreateObject() render.Object {
	o := &wrapObj{}
	o.Init(o)
	return o
}

func (wrapView) UpdateObject(render.Object) {}

type wrapObj struct {
	render.SingleBase
}

func (o *wrapObj) PerformLayout(constraints geometry.Constraints, child *render.Child) geometry.Size {
	if !child.Attached() {
		return constraints.Smallest()
	}
	size := child.Layout(constraints, true)
	child.PlaceAt(geometry.Offset{})
	return size
}

func (o *wrapObj) PerformPaint(child render.Node) render.Node {
	if child == nil {
		return layer.NewContainerNode()
	}
	return child
}

// componentView builds a fixed child.
type componentView struct {
	key   any
	child View
}

func (v componentView) Key() any { return v.key }

func (v componentView) Build(Context) View { return v.child }

// counterView carries state that tests inspect to verify element identity.
type counterView struct {
	key any
}

func (v counterView) Key() any { return v.key }

func (counterView) CreateState() State { return &counterState{} }

type counterState struct {
	StateBase
	n        int
	disposed bool
}

func (s *counterState) Build(Context) View {
	return leafView{color: layer.ColorBlack, want: geometry.Size{Width: 10, Height: 10}}
}

func (s *counterState) Dispose() { s.disposed = true }

// orderView logs its name every time it builds, exposing build order.
type orderView struct {
	name  string
	log   *[]string
	child View
}

func (orderView) Key() any { return nil }

func (orderView) CreateState() State { return &orderState{} }

type orderState struct {
	StateBase
}

func (s *orderState) Build(Context) View {
	v := s.tree.Get(s.id).view.(orderView)
	*v.log = append(*v.log, v.name)
	return v.child
}

// paintHookView owns a leaf object that runs a callback while painting.
type paintHookView struct {
	hook func()
}

func (paintHookView) Key() any { return nil }

func (v paintHookView) CreateObject() render.Object {
	o := &paintHookObj{hook: v.hook}
	o.Init(o)
	return o
}

func (v paintHookView) UpdateObject(obj render.Object) {
	obj.(*paintHookObj).hook = v.hook
}

type paintHookObj struct {
	render.LeafBase
	hook func()
}

func (o *paintHookObj) PerformLayout(constraints geometry.Constraints) geometry.Size {
	return constraints.Smallest()
}

func (o *paintHookObj) PerformPaint(*render.Recorder) {
	if o.hook != nil {
		o.hook()
	}
}

// panicView panics during build when armed.
type panicView struct {
	key     any
	explode bool
	child   View
}

func (v panicView) Key() any { return v.key }

func (v panicView) Build(Context) View {
	if v.explode {
		panic("exploding build")
	}
	return v.child
}

// themeView provides an int to descendants.
type themeView struct {
	value int
	child View
}

func (themeView) Key() any { return nil }

func (v themeView) ChildView() View { return v.child }

func (v themeView) UpdateShouldNotify(old ProviderView) bool {
	return old.(themeView).value != v.value
}

// themeReader logs the provided value on every build.
type themeReader struct {
	log *[]int
}

func (themeReader) Key() any { return nil }

func (v themeReader) Build(ctx Context) View {
	if theme, ok := DependOn[themeView](ctx); ok {
		*v.log = append(*v.log, theme.value)
	}
	return leafView{want: geometry.Size{Width: 5, Height: 5}}
}

// bothArityView declares single- and multi-child accessors at once.
type bothArityView struct{}

func (bothArityView) Key() any { return nil }

func (bothArityView) CreateObject() render.Object {
	o := &columnObj{}
	o.Init(o)
	return o
}

func (bothArityView) UpdateObject(render.Object) {}

func (bothArityView) ChildView() View { return nil }

func (bothArityView) ChildViews() []View { return nil }

// mismatchArityView declares no children but creates a multi-child object.
type mismatchArityView struct{}

func (mismatchArityView) Key() any { return nil }

func (mismatchArityView) CreateObject() render.Object {
	o := &columnObj{}
	o.Init(o)
	return o
}

func (mismatchArityView) UpdateObject(render.Object) {}

// emptySingleView declares a single child but produces none.
type emptySingleView struct{}

func (emptySingleView) Key() any { return nil }

func (emptySingleView) CreateObject() render.Object {
	o := &wrapObj{}
	o.Init(o)
	return o
}

func (emptySingleView) UpdateObject(render.Object) {}

func (emptySingleView) ChildView() View { return nil }

// captureHandler collects reported failures instead of logging them.
type captureHandler struct {
	mu          sync.Mutex
	callbacks   []*errors.CallbackError
	divergences []*errors.LayoutDivergence
}

func (h *captureHandler) HandleCallbackError(err *errors.CallbackError) {
	h.mu.Lock()
	h.callbacks = append(h.callbacks, err)
	h.mu.Unlock()
}

func (h *captureHandler) HandleDivergence(err *errors.LayoutDivergence) {
	h.mu.Lock()
	h.divergences = append(h.divergences, err)
	h.mu.Unlock()
}

func installHandler(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

// mountHost mounts a swappable root around child and flushes the first frame.
func mountHost(t *testing.T, c *Coordinator, child View) *hostState {
	t.Helper()
	id, err := c.Mount(hostView{initial: child})
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	if _, err := c.FlushSync(); err != nil {
		t.Fatalf("FlushSync: %v", err)
	}
	return c.Tree().Get(id).state.(*hostState)
}

func flush(t *testing.T, c *Coordinator) FrameReport {
	t.Helper()
	report, err := c.FlushSync()
	if err != nil {
		t.Fatalf("FlushSync: %v", err)
	}
	return report
}

// compositedOps replays the retained layer tree into a recording painter.
func compositedOps(t *testing.T, c *Coordinator) []layer.RecordedOp {
	t.Helper()
	root := c.LayerTree()
	if root == nil {
		t.Fatal("no layer tree")
	}
	rec := &layer.RecordingPainter{}
	layer.Composite(root, rec)
	return rec.Ops
}

// rectColors extracts drawn rectangle colors in composite order.
func rectColors(ops []layer.RecordedOp) []layer.Color {
	var out []layer.Color
	for _, op := range ops {
		if op.Kind == layer.OpDrawRect {
			out = append(out, op.Paint.Color)
		}
	}
	return out
}
