package core

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/canopy-ui/canopy/pkg/errors"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
)

// Phase is the coordinator's position in the per-frame state machine.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseBuildPending
	PhaseBuilding
	PhaseLayoutPending
	PhaseLayingOut
	PhasePaintPending
	PhasePainting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBuildPending:
		return "build-pending"
	case PhaseBuilding:
		return "building"
	case PhaseLayoutPending:
		return "layout-pending"
	case PhaseLayingOut:
		return "laying-out"
	case PhasePaintPending:
		return "paint-pending"
	case PhasePainting:
		return "painting"
	default:
		return "unknown"
	}
}

// FrameReport summarizes one flush.
type FrameReport struct {
	// Flushed is false when the call fell inside an open batching window
	// and no work ran.
	Flushed bool
	// BuiltElements counts elements rebuilt during the build phase.
	BuiltElements int
	// LayoutBoundaries counts relayout boundaries processed.
	LayoutBoundaries int
	// PaintedBoundaries counts repaint boundaries re-recorded.
	PaintedBoundaries int
	// ContainedFailures counts build callbacks whose panic was contained.
	ContainedFailures int
	BuildDuration     time.Duration
	LayoutDuration    time.Duration
	PaintDuration     time.Duration
}

// Options configures a Coordinator.
type Options struct {
	// BatchWindow coalesces marks arriving within the window into one
	// flush; Flush calls inside an open window are deferred. Zero
	// disables batching.
	BatchWindow time.Duration
	// Clock supplies the time used for batching decisions. Defaults to
	// time.Now; tests install a fake.
	Clock func() time.Time
	// OnNeedsFrame is called when the first mark after an idle period
	// arrives, and again after a flush that leaves work pending, signalling
	// the embedder that a frame should be scheduled. It may run while
	// coordinator locks are held and must not flush synchronously.
	OnNeedsFrame func()
}

// Coordinator owns the element arena and drives the build, layout and
// paint phases. It is the single authority over dirty state: external code
// requests work through MarkNeeds* and observes results through Flush.
type Coordinator struct {
	mu   sync.Mutex // serializes flushes and structural mutation
	tree *Tree

	phase atomic.Int32

	dirtyMu        sync.Mutex // guards the dirty sets and batch state
	dirtyBuild     []*Element
	dirtyBuildSet  map[ElementID]struct{}
	dirtyLayout    []render.Object
	dirtyLayoutSet map[render.Object]struct{}
	dirtyPaint     map[render.Object]struct{}

	rootLayoutNeeded bool
	flushing         bool
	batchPending     bool
	batchStart       time.Time
	batchWindow      time.Duration
	now              func() time.Time
	onNeedsFrame     func()

	viewport  geometry.Constraints
	rootNode  layer.Node
	contained int
}

// NewCoordinator creates an empty coordinator. The viewport defaults to
// 800x600 until SetViewport is called.
func NewCoordinator(opts Options) *Coordinator {
	c := &Coordinator{
		batchWindow:  opts.BatchWindow,
		now:          opts.Clock,
		onNeedsFrame: opts.OnNeedsFrame,
		viewport:     geometry.Tight(geometry.Size{Width: 800, Height: 600}),
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.tree = newTree(c)
	return c
}

// Tree returns the element arena for inspection. Mutation stays with the
// coordinator.
func (c *Coordinator) Tree() *Tree {
	return c.tree
}

// Phase returns the coordinator's current pipeline phase.
func (c *Coordinator) Phase() Phase {
	return Phase(c.phase.Load())
}

func (c *Coordinator) setPhase(p Phase) {
	c.phase.Store(int32(p))
}

// LayerTree returns the retained layer tree produced by the last paint,
// nil before the first flush.
func (c *Coordinator) LayerTree() layer.Node {
	c.dirtyMu.Lock()
	defer c.dirtyMu.Unlock()
	return c.rootNode
}

// Mount inflates view as the root of the element tree. A ProgrammingError
// raised during the initial build is returned rather than panicking.
func (c *Coordinator) Mount(view View) (id ElementID, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tree.root != NoElement {
		return NoElement, errors.Programmingf("core.Mount", "", "tree already has a root")
	}
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(*errors.ProgrammingError); ok {
				err = pe
				return
			}
			panic(r)
		}
	}()
	root := c.tree.inflate(view, NoElement, 0)
	c.tree.root = root.id
	if obj := c.tree.renderObjectOf(root.id); obj != nil {
		// The root render object repaints separately so the retained
		// layer tree has a stable top-level handle.
		if boundary, ok := obj.(interface{ SetRepaintBoundary(bool) }); ok {
			boundary.SetRepaintBoundary(true)
		}
	}
	c.dirtyMu.Lock()
	c.rootLayoutNeeded = true
	c.dirtyMu.Unlock()
	c.noteMutation()
	return root.id, nil
}

// SetViewport fixes the root constraints to exactly size and schedules a
// full relayout.
func (c *Coordinator) SetViewport(size geometry.Size) {
	c.dirtyMu.Lock()
	c.viewport = geometry.Tight(size)
	c.rootLayoutNeeded = true
	c.dirtyMu.Unlock()
	c.noteMutation()
}

// HitTest tests position against the laid-out render tree and returns the
// hit objects front to back, nil on a miss.
func (c *Coordinator) HitTest(position geometry.Offset) []render.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	obj := c.tree.renderObjectOf(c.tree.root)
	if obj == nil {
		return nil
	}
	var result render.HitTestResult
	if !obj.HitTest(position, &result) {
		return nil
	}
	return result.Entries
}

// MarkNeedsBuild schedules the element for rebuild. The dirty flags are
// atomic but the arena lookup is not synchronized against structural
// mutation, so marks must come from the goroutine driving the tree or
// from its callbacks.
func (c *Coordinator) MarkNeedsBuild(id ElementID) {
	if e := c.tree.Get(id); e != nil && e.mounted {
		e.MarkNeedsBuild()
	}
}

// MarkNeedsLayout schedules the subtree's primary render object for layout.
// Same goroutine requirement as MarkNeedsBuild.
func (c *Coordinator) MarkNeedsLayout(id ElementID) {
	if obj := c.tree.renderObjectOf(id); obj != nil {
		obj.MarkNeedsLayout()
	}
}

// MarkNeedsPaint schedules the subtree's primary render object for paint.
// Same goroutine requirement as MarkNeedsBuild.
func (c *Coordinator) MarkNeedsPaint(id ElementID) {
	if obj := c.tree.renderObjectOf(id); obj != nil {
		obj.MarkNeedsPaint()
	}
}

// scheduleBuild records a dirty element, deduplicated by id.
func (c *Coordinator) scheduleBuild(e *Element) {
	c.dirtyMu.Lock()
	if c.dirtyBuildSet == nil {
		c.dirtyBuildSet = make(map[ElementID]struct{})
	}
	if _, dup := c.dirtyBuildSet[e.id]; dup {
		c.dirtyMu.Unlock()
		return
	}
	c.dirtyBuildSet[e.id] = struct{}{}
	c.dirtyBuild = append(c.dirtyBuild, e)
	c.dirtyMu.Unlock()
	c.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseBuildPending))
	c.noteMutation()
}

// ScheduleLayout records a dirty relayout boundary. Part of render.Owner.
func (c *Coordinator) ScheduleLayout(obj render.Object) {
	c.dirtyMu.Lock()
	if c.dirtyLayoutSet == nil {
		c.dirtyLayoutSet = make(map[render.Object]struct{})
	}
	if _, dup := c.dirtyLayoutSet[obj]; dup {
		c.dirtyMu.Unlock()
		return
	}
	c.dirtyLayoutSet[obj] = struct{}{}
	c.dirtyLayout = append(c.dirtyLayout, obj)
	c.dirtyMu.Unlock()
	c.phase.CompareAndSwap(int32(PhaseIdle), int32(PhaseLayoutPending))
	c.noteMutation()
}

// SchedulePaint records a dirty repaint boundary. Part of render.Owner.
func (c *Coordinator) SchedulePaint(obj render.Object) {
	c.dirtyMu.Lock()
	if c.dirtyPaint == nil {
		c.dirtyPaint = make(map[render.Object]struct{})
	}
	if _, dup := c.dirtyPaint[obj]; dup {
		c.dirtyMu.Unlock()
		return
	}
	c.dirtyPaint[obj] = struct{}{}
	c.dirtyMu.Unlock()
	c.phase.CompareAndSwap(int32(PhaseIdle), int32(PhasePaintPending))
	c.noteMutation()
}

// noteMutation opens a batching window on the first mark after idle and
// signals the embedder. Marks raised inside a flush are consumed by the
// same flush's later phases and do not reopen the window.
func (c *Coordinator) noteMutation() {
	c.dirtyMu.Lock()
	first := !c.flushing && !c.batchPending
	if first {
		c.batchPending = true
		c.batchStart = c.now()
	}
	callback := c.onNeedsFrame
	c.dirtyMu.Unlock()
	if first && callback != nil {
		callback()
	}
}

func (c *Coordinator) noteContainedFailure() {
	c.contained++
}

// NeedsFrame reports whether any work is pending.
func (c *Coordinator) NeedsFrame() bool {
	c.dirtyMu.Lock()
	defer c.dirtyMu.Unlock()
	return len(c.dirtyBuild) > 0 || len(c.dirtyLayout) > 0 ||
		len(c.dirtyPaint) > 0 || c.rootLayoutNeeded
}

// Flush runs one frame: build, layout, paint. When batching is enabled and
// now still falls inside the window opened by the first pending mark, the
// flush is deferred and the report has Flushed=false. A ProgrammingError
// aborts the flush and is returned; contained failures only count in the
// report.
func (c *Coordinator) Flush(now time.Time) (FrameReport, error) {
	c.dirtyMu.Lock()
	if c.batchWindow > 0 && c.batchPending && now.Sub(c.batchStart) < c.batchWindow {
		c.dirtyMu.Unlock()
		return FrameReport{}, nil
	}
	c.dirtyMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

// FlushSync runs one frame immediately, ignoring the batching window.
func (c *Coordinator) FlushSync() (FrameReport, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *Coordinator) flushLocked() (FrameReport, error) {
	c.dirtyMu.Lock()
	c.batchPending = false
	c.flushing = true
	c.dirtyMu.Unlock()
	defer func() {
		c.dirtyMu.Lock()
		c.flushing = false
		c.dirtyMu.Unlock()
	}()
	c.contained = 0

	report := FrameReport{Flushed: true}
	var flushErr error

	func() {
		defer func() {
			if r := recover(); r != nil {
				pe, ok := r.(*errors.ProgrammingError)
				if !ok {
					panic(r)
				}
				flushErr = pe
			}
		}()

		c.setPhase(PhaseBuilding)
		start := time.Now()
		report.BuiltElements = c.flushBuild()
		report.BuildDuration = time.Since(start)

		c.setPhase(PhaseLayoutPending)
		c.setPhase(PhaseLayingOut)
		start = time.Now()
		report.LayoutBoundaries = c.flushLayout()
		report.LayoutDuration = time.Since(start)

		c.setPhase(PhasePaintPending)
		c.setPhase(PhasePainting)
		start = time.Now()
		report.PaintedBoundaries = c.flushPaint()
		report.PaintDuration = time.Since(start)
	}()

	c.setPhase(PhaseIdle)
	report.ContainedFailures = c.contained
	c.notePendingAfterFlush()
	return report, flushErr
}

// notePendingAfterFlush closes the flush and, when marks raised during
// layout or paint (or left behind by an aborted build) survived it, moves
// the phase back to pending, reopens the batch window and signals the
// embedder so on-demand frame scheduling does not stall.
func (c *Coordinator) notePendingAfterFlush() {
	c.dirtyMu.Lock()
	c.flushing = false
	next := PhaseIdle
	switch {
	case len(c.dirtyBuild) > 0:
		next = PhaseBuildPending
	case len(c.dirtyLayout) > 0 || c.rootLayoutNeeded:
		next = PhaseLayoutPending
	case len(c.dirtyPaint) > 0:
		next = PhasePaintPending
	}
	c.dirtyMu.Unlock()
	if next == PhaseIdle {
		return
	}
	c.phase.CompareAndSwap(int32(PhaseIdle), int32(next))
	c.noteMutation()
}

// flushBuild rebuilds dirty elements in ascending depth order, looping
// until builds stop scheduling more builds. Parents rebuild before their
// children, so structural changes settle before descendants run.
func (c *Coordinator) flushBuild() int {
	built := 0
	for {
		c.dirtyMu.Lock()
		if len(c.dirtyBuild) == 0 {
			c.dirtyMu.Unlock()
			return built
		}
		dirty := c.dirtyBuild
		c.dirtyBuild = nil
		clear(c.dirtyBuildSet)
		c.dirtyMu.Unlock()

		slices.SortFunc(dirty, func(a, b *Element) int {
			return a.depth - b.depth
		})
		next := 0
		func() {
			// An aborting rebuild must not strand the rest of the popped
			// batch: still-dirty elements go back into the set so they
			// stay reachable and the next flush picks them up.
			defer func() {
				if r := recover(); r != nil {
					c.requeueBuilds(dirty[next+1:])
					panic(r)
				}
			}()
			for ; next < len(dirty); next++ {
				e := dirty[next]
				if !e.mounted || !e.dirty.Load() {
					continue
				}
				c.tree.rebuild(e)
				built++
			}
		}()
	}
}

// requeueBuilds returns unprocessed elements to the dirty build set after
// an aborted build phase.
func (c *Coordinator) requeueBuilds(rest []*Element) {
	c.dirtyMu.Lock()
	defer c.dirtyMu.Unlock()
	if c.dirtyBuildSet == nil {
		c.dirtyBuildSet = make(map[ElementID]struct{})
	}
	for _, e := range rest {
		if !e.mounted || !e.dirty.Load() {
			continue
		}
		if _, dup := c.dirtyBuildSet[e.id]; dup {
			continue
		}
		c.dirtyBuildSet[e.id] = struct{}{}
		c.dirtyBuild = append(c.dirtyBuild, e)
	}
}

// flushLayout lays out the root when needed, then re-lays out scheduled
// relayout boundaries with their cached constraints, parents first so a
// parent's pass may clean a scheduled descendant.
func (c *Coordinator) flushLayout() int {
	count := 0

	c.dirtyMu.Lock()
	rootNeeded := c.rootLayoutNeeded
	c.rootLayoutNeeded = false
	constraints := c.viewport
	c.dirtyMu.Unlock()

	rootObj := c.tree.renderObjectOf(c.tree.root)
	if rootObj != nil && (rootNeeded || objectNeedsLayout(rootObj)) {
		rootObj.Layout(constraints, false)
		count++
	}

	for {
		c.dirtyMu.Lock()
		if len(c.dirtyLayout) == 0 {
			c.dirtyMu.Unlock()
			return count
		}
		dirty := c.dirtyLayout
		c.dirtyLayout = nil
		clear(c.dirtyLayoutSet)
		c.dirtyMu.Unlock()

		slices.SortFunc(dirty, func(a, b render.Object) int {
			return a.Depth() - b.Depth()
		})
		for _, obj := range dirty {
			if !objectNeedsLayout(obj) {
				continue
			}
			cached, ok := obj.(interface{ Constraints() geometry.Constraints })
			if !ok {
				continue
			}
			// Boundaries do not propagate size changes upward.
			obj.Layout(cached.Constraints(), false)
			count++
		}
	}
}

func objectNeedsLayout(obj render.Object) bool {
	if checker, ok := obj.(interface{ NeedsLayout() bool }); ok {
		return checker.NeedsLayout()
	}
	return false
}

// flushPaint re-records dirty repaint boundaries in depth order (parents
// first; a parent's recursion refreshes dirty descendants, which are then
// skipped) and refreshes the retained root layer node.
func (c *Coordinator) flushPaint() int {
	rootObj := c.tree.renderObjectOf(c.tree.root)
	if rootObj == nil {
		c.dirtyMu.Lock()
		c.rootNode = nil
		c.dirtyMu.Unlock()
		return 0
	}

	c.dirtyMu.Lock()
	dirty := make([]render.Object, 0, len(c.dirtyPaint))
	for obj := range c.dirtyPaint {
		dirty = append(dirty, obj)
	}
	c.dirtyPaint = nil
	c.dirtyMu.Unlock()

	slices.SortFunc(dirty, func(a, b render.Object) int {
		return a.Depth() - b.Depth()
	})

	painted := 0
	for _, obj := range dirty {
		if checker, ok := obj.(interface{ NeedsPaint() bool }); ok && !checker.NeedsPaint() {
			continue
		}
		render.PaintObject(obj)
		painted++
	}

	root := render.PaintObject(rootObj)
	c.dirtyMu.Lock()
	c.rootNode = root
	c.dirtyMu.Unlock()
	return painted
}
