package layer

import (
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/text"
)

// Picture is an immutable list of recorded drawing operations.
// It can be replayed onto any Painter implementation.
type Picture struct {
	ops    []drawOp
	bounds geometry.Rect
}

// Replay re-executes the recorded operations onto the provided painter.
func (p *Picture) Replay(painter Painter) {
	for _, op := range p.ops {
		op.execute(painter)
	}
}

// Bounds returns the bounds recorded when the picture was created.
func (p *Picture) Bounds() geometry.Rect {
	return p.bounds
}

// Empty reports whether the picture contains no operations.
func (p *Picture) Empty() bool {
	return len(p.ops) == 0
}

// Recorder records drawing commands into a Picture. It implements Painter
// so render objects can paint against it directly.
type Recorder struct {
	ops    []drawOp
	bounds geometry.Rect
	done   bool
}

// NewRecorder begins a recording session covering the given bounds.
func NewRecorder(bounds geometry.Rect) *Recorder {
	return &Recorder{bounds: bounds}
}

// Finish ends the recording and returns the immutable picture.
// Further drawing calls on the recorder are ignored.
func (r *Recorder) Finish() *Picture {
	r.done = true
	ops := make([]drawOp, len(r.ops))
	copy(ops, r.ops)
	return &Picture{ops: ops, bounds: r.bounds}
}

// Bounds returns the bounds the recording covers.
func (r *Recorder) Bounds() geometry.Rect {
	return r.bounds
}

func (r *Recorder) append(op drawOp) {
	if r.done {
		return
	}
	r.ops = append(r.ops, op)
}

func (r *Recorder) Save()    { r.append(opSave{}) }
func (r *Recorder) Restore() { r.append(opRestore{}) }

func (r *Recorder) Translate(dx, dy float64) { r.append(opTranslate{dx: dx, dy: dy}) }

func (r *Recorder) ClipRect(rect geometry.Rect) { r.append(opClipRect{rect: rect}) }

func (r *Recorder) SaveLayerAlpha(bounds geometry.Rect, alpha float64) {
	r.append(opSaveLayerAlpha{bounds: bounds, alpha: alpha})
}

func (r *Recorder) DrawRect(rect geometry.Rect, paint Paint) {
	r.append(opRect{rect: rect, paint: paint})
}

func (r *Recorder) DrawLine(start, end geometry.Offset, paint Paint) {
	r.append(opLine{start: start, end: end, paint: paint})
}

func (r *Recorder) DrawCircle(center geometry.Offset, radius float64, paint Paint) {
	r.append(opCircle{center: center, radius: radius, paint: paint})
}

func (r *Recorder) DrawText(layout *text.Layout, position geometry.Offset) {
	r.append(opText{layout: layout, position: position})
}

type drawOp interface {
	execute(painter Painter)
}

type opSave struct{}

func (opSave) execute(painter Painter) {
	painter.Save()
}

type opRestore struct{}

func (opRestore) execute(painter Painter) {
	painter.Restore()
}

type opTranslate struct {
	dx, dy float64
}

func (op opTranslate) execute(painter Painter) {
	painter.Translate(op.dx, op.dy)
}

type opClipRect struct {
	rect geometry.Rect
}

func (op opClipRect) execute(painter Painter) {
	painter.ClipRect(op.rect)
}

type opSaveLayerAlpha struct {
	bounds geometry.Rect
	alpha  float64
}

func (op opSaveLayerAlpha) execute(painter Painter) {
	painter.SaveLayerAlpha(op.bounds, op.alpha)
}

type opRect struct {
	rect  geometry.Rect
	paint Paint
}

func (op opRect) execute(painter Painter) {
	painter.DrawRect(op.rect, op.paint)
}

type opLine struct {
	start, end geometry.Offset
	paint      Paint
}

func (op opLine) execute(painter Painter) {
	painter.DrawLine(op.start, op.end, op.paint)
}

type opCircle struct {
	center geometry.Offset
	radius float64
	paint  Paint
}

func (op opCircle) execute(painter Painter) {
	painter.DrawCircle(op.center, op.radius, op.paint)
}

type opText struct {
	layout   *text.Layout
	position geometry.Offset
}

func (op opText) execute(painter Painter) {
	painter.DrawText(op.layout, op.position)
}
