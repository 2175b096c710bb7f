// Package uitest provides an isolated harness for view tests.
//
// A [Tester] drives the same build, layout and paint phases as a real
// embedder but against a fake clock and a recording painter, so frames are
// deterministic and the painted output can be asserted on directly.
package uitest

import (
	"testing"
	"time"

	"github.com/canopy-ui/canopy/pkg/core"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
)

const (
	// DefaultWidth is the default logical width of the test surface.
	DefaultWidth = 800
	// DefaultHeight is the default logical height of the test surface.
	DefaultHeight = 600
)

// Tester mounts views and pumps frames under test control.
type Tester struct {
	t           *testing.T
	clock       *FakeClock
	coordinator *core.Coordinator
	root        *rootState
}

// NewTester creates a tester with an immediate (unbatched) pipeline.
func NewTester(t *testing.T) *Tester {
	return NewTesterWithWindow(t, 0)
}

// NewTesterWithWindow creates a tester whose pipeline coalesces marks
// within the given batching window of fake time.
func NewTesterWithWindow(t *testing.T, window time.Duration) *Tester {
	clock := NewFakeClock()
	return &Tester{
		t:     t,
		clock: clock,
		coordinator: core.NewCoordinator(core.Options{
			BatchWindow: window,
			Clock:       clock.Now,
		}),
	}
}

// Coordinator exposes the pipeline under test.
func (t *Tester) Coordinator() *core.Coordinator {
	return t.coordinator
}

// Clock returns the fake clock driving the batching window.
func (t *Tester) Clock() *FakeClock {
	return t.clock
}

// SetSize resizes the test surface and schedules a relayout.
func (t *Tester) SetSize(size geometry.Size) {
	t.coordinator.SetViewport(size)
}

// rootView hosts the view under test so later pumps can swap it without
// remounting the tree.
type rootView struct {
	child core.View
}

func (rootView) Key() any { return nil }

func (rootView) CreateState() core.State { return &rootState{} }

type rootState struct {
	core.StateBase
	started bool
	child   core.View
}

func (s *rootState) Build(ctx core.Context) core.View {
	if !s.started {
		s.started = true
		s.child = ctx.View().(rootView).child
	}
	return s.child
}

func (s *rootState) swap(child core.View) {
	s.SetState(func() { s.child = child })
}

// PumpView mounts view (or swaps it in on later calls) and pumps a frame.
func (t *Tester) PumpView(view core.View) core.FrameReport {
	t.t.Helper()
	if t.root == nil {
		id, err := t.coordinator.Mount(rootView{child: view})
		if err != nil {
			t.t.Fatalf("mount: %v", err)
		}
		t.root = t.coordinator.Tree().Get(id).State().(*rootState)
	} else {
		t.root.swap(view)
	}
	return t.Pump()
}

// Pump flushes one frame at the current fake time, failing the test on a
// pipeline error. Inside an open batching window the flush is deferred and
// the report has Flushed=false.
func (t *Tester) Pump() core.FrameReport {
	t.t.Helper()
	report, err := t.coordinator.Flush(t.clock.Now())
	if err != nil {
		t.t.Fatalf("flush: %v", err)
	}
	return report
}

// TryPump flushes one frame and returns the pipeline error instead of
// failing, for tests asserting on invariant violations.
func (t *Tester) TryPump() (core.FrameReport, error) {
	return t.coordinator.Flush(t.clock.Now())
}

// Advance moves the fake clock forward.
func (t *Tester) Advance(d time.Duration) {
	t.clock.Advance(d)
}

// LayerTree returns the retained layer tree from the last painted frame.
func (t *Tester) LayerTree() layer.Node {
	return t.coordinator.LayerTree()
}

// Ops replays the last painted frame into a recording painter and returns
// the draw operations in composite order.
func (t *Tester) Ops() []layer.RecordedOp {
	t.t.Helper()
	root := t.coordinator.LayerTree()
	if root == nil {
		t.t.Fatal("no frame painted yet")
	}
	rec := &layer.RecordingPainter{}
	layer.Composite(root, rec)
	return rec.Ops
}

// Texts returns the strings drawn in the last painted frame.
func (t *Tester) Texts() []string {
	t.t.Helper()
	root := t.coordinator.LayerTree()
	if root == nil {
		t.t.Fatal("no frame painted yet")
	}
	rec := &layer.RecordingPainter{}
	layer.Composite(root, rec)
	return rec.Texts()
}

// ContainsText reports whether the last painted frame drew want.
func (t *Tester) ContainsText(want string) bool {
	t.t.Helper()
	for _, s := range t.Texts() {
		if s == want {
			return true
		}
	}
	return false
}

// HitTest tests a position against the laid-out tree, front to back.
func (t *Tester) HitTest(position geometry.Offset) []render.Object {
	return t.coordinator.HitTest(position)
}
