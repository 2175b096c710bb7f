package layer

import (
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/text"
)

// OpKind identifies a recorded painter call.
type OpKind string

const (
	OpSave           OpKind = "save"
	OpRestore        OpKind = "restore"
	OpTranslate      OpKind = "translate"
	OpClipRect       OpKind = "clipRect"
	OpSaveLayerAlpha OpKind = "saveLayerAlpha"
	OpDrawRect       OpKind = "drawRect"
	OpDrawLine       OpKind = "drawLine"
	OpDrawCircle     OpKind = "drawCircle"
	OpDrawText       OpKind = "drawText"
)

// RecordedOp is one painter call captured by a RecordingPainter. Only the
// fields relevant to Kind are populated.
type RecordedOp struct {
	Kind     OpKind
	Rect     geometry.Rect
	Paint    Paint
	Start    geometry.Offset
	End      geometry.Offset
	Center   geometry.Offset
	Radius   float64
	Alpha    float64
	Dx, Dy   float64
	Text     *text.Layout
	Position geometry.Offset
}

// RecordingPainter captures painter calls for inspection in tests.
type RecordingPainter struct {
	Ops []RecordedOp
}

// Reset clears the recorded operations.
func (p *RecordingPainter) Reset() {
	p.Ops = p.Ops[:0]
}

// Texts returns the string content of every DrawText call, in paint order.
func (p *RecordingPainter) Texts() []string {
	var texts []string
	for _, op := range p.Ops {
		if op.Kind == OpDrawText && op.Text != nil {
			texts = append(texts, op.Text.Text)
		}
	}
	return texts
}

// Kinds returns the kinds of the recorded operations, in order.
func (p *RecordingPainter) Kinds() []OpKind {
	kinds := make([]OpKind, len(p.Ops))
	for i, op := range p.Ops {
		kinds[i] = op.Kind
	}
	return kinds
}

func (p *RecordingPainter) Save() {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpSave})
}

func (p *RecordingPainter) Restore() {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpRestore})
}

func (p *RecordingPainter) Translate(dx, dy float64) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpTranslate, Dx: dx, Dy: dy})
}

func (p *RecordingPainter) ClipRect(rect geometry.Rect) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpClipRect, Rect: rect})
}

func (p *RecordingPainter) SaveLayerAlpha(bounds geometry.Rect, alpha float64) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpSaveLayerAlpha, Rect: bounds, Alpha: alpha})
}

func (p *RecordingPainter) DrawRect(rect geometry.Rect, paint Paint) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpDrawRect, Rect: rect, Paint: paint})
}

func (p *RecordingPainter) DrawLine(start, end geometry.Offset, paint Paint) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpDrawLine, Start: start, End: end, Paint: paint})
}

func (p *RecordingPainter) DrawCircle(center geometry.Offset, radius float64, paint Paint) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpDrawCircle, Center: center, Radius: radius, Paint: paint})
}

func (p *RecordingPainter) DrawText(layout *text.Layout, position geometry.Offset) {
	p.Ops = append(p.Ops, RecordedOp{Kind: OpDrawText, Text: layout, Position: position})
}
