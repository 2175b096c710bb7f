package layer

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/canopy-ui/canopy/pkg/geometry"
)

func recordRect(rect geometry.Rect, color Color) *Picture {
	rec := NewRecorder(rect)
	rec.DrawRect(rect, FillPaint(color))
	return rec.Finish()
}

func TestPicture_ReplayPreservesOrder(t *testing.T) {
	rec := NewRecorder(geometry.RectFromLTWH(0, 0, 100, 100))
	rec.DrawRect(geometry.RectFromLTWH(0, 0, 10, 10), FillPaint(ColorRed))
	rec.DrawLine(geometry.Offset{}, geometry.Offset{X: 5, Y: 5}, StrokePaint(ColorBlack, 1))
	picture := rec.Finish()

	painter := &RecordingPainter{}
	picture.Replay(painter)

	want := []OpKind{OpDrawRect, OpDrawLine}
	if diff := cmp.Diff(want, painter.Kinds()); diff != "" {
		t.Errorf("op order mismatch (-want +got):\n%s", diff)
	}
}

func TestRecorder_IgnoresDrawsAfterFinish(t *testing.T) {
	rec := NewRecorder(geometry.RectFromLTWH(0, 0, 10, 10))
	rec.DrawRect(geometry.RectFromLTWH(0, 0, 10, 10), FillPaint(ColorRed))
	picture := rec.Finish()
	rec.DrawRect(geometry.RectFromLTWH(0, 0, 10, 10), FillPaint(ColorBlue))

	painter := &RecordingPainter{}
	picture.Replay(painter)
	if len(painter.Ops) != 1 {
		t.Errorf("expected 1 op, got %d", len(painter.Ops))
	}
}

func TestOffsetNode_TranslatesAroundChild(t *testing.T) {
	node := NewOffsetNode(geometry.Offset{X: 20, Y: 30},
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))

	painter := &RecordingPainter{}
	Composite(node, painter)

	want := []OpKind{OpSave, OpTranslate, OpDrawRect, OpRestore}
	if diff := cmp.Diff(want, painter.Kinds()); diff != "" {
		t.Errorf("op sequence mismatch (-want +got):\n%s", diff)
	}
	if painter.Ops[1].Dx != 20 || painter.Ops[1].Dy != 30 {
		t.Errorf("unexpected translate (%f, %f)", painter.Ops[1].Dx, painter.Ops[1].Dy)
	}
}

func TestOffsetNode_Bounds(t *testing.T) {
	node := NewOffsetNode(geometry.Offset{X: 20, Y: 30},
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))

	want := geometry.RectFromLTWH(20, 30, 10, 10)
	if diff := cmp.Diff(want, node.Bounds()); diff != "" {
		t.Errorf("bounds mismatch (-want +got):\n%s", diff)
	}
}

func TestContainerNode_CompositesBackToFront(t *testing.T) {
	a := recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)
	b := recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorBlue)
	node := NewContainerNode(NewPictureNode(a), NewPictureNode(b))

	painter := &RecordingPainter{}
	Composite(node, painter)

	if len(painter.Ops) != 2 {
		t.Fatalf("expected 2 ops, got %d", len(painter.Ops))
	}
	if painter.Ops[0].Paint.Color != ColorRed || painter.Ops[1].Paint.Color != ColorBlue {
		t.Error("children composited out of order")
	}
}

func TestOpacityNode_WrapsInAlphaLayer(t *testing.T) {
	node := NewOpacityNode(0.5,
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))

	painter := &RecordingPainter{}
	Composite(node, painter)

	want := []OpKind{OpSaveLayerAlpha, OpDrawRect, OpRestore}
	if diff := cmp.Diff(want, painter.Kinds()); diff != "" {
		t.Errorf("op sequence mismatch (-want +got):\n%s", diff)
	}
	if painter.Ops[0].Alpha != 0.5 {
		t.Errorf("expected alpha 0.5, got %f", painter.Ops[0].Alpha)
	}
}

func TestOpacityNode_FullyOpaqueSkipsLayer(t *testing.T) {
	node := NewOpacityNode(1.0,
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))

	painter := &RecordingPainter{}
	Composite(node, painter)

	want := []OpKind{OpDrawRect}
	if diff := cmp.Diff(want, painter.Kinds()); diff != "" {
		t.Errorf("op sequence mismatch (-want +got):\n%s", diff)
	}
}

func TestOpacityNode_FullyTransparentDrawsNothing(t *testing.T) {
	node := NewOpacityNode(0,
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))

	painter := &RecordingPainter{}
	Composite(node, painter)
	if len(painter.Ops) != 0 {
		t.Errorf("expected no ops, got %d", len(painter.Ops))
	}
}

func TestClipNode_ClipsChild(t *testing.T) {
	clip := geometry.RectFromLTWH(0, 0, 5, 5)
	node := NewClipNode(clip,
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))

	painter := &RecordingPainter{}
	Composite(node, painter)

	want := []OpKind{OpSave, OpClipRect, OpDrawRect, OpRestore}
	if diff := cmp.Diff(want, painter.Kinds()); diff != "" {
		t.Errorf("op sequence mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(clip, painter.Ops[1].Rect); diff != "" {
		t.Errorf("clip rect mismatch (-want +got):\n%s", diff)
	}
}

func TestHandle_SwapContentWithoutRebuildingParent(t *testing.T) {
	handle := NewHandle()
	handle.SetContent(NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))
	root := NewContainerNode(handle)

	painter := &RecordingPainter{}
	Composite(root, painter)
	if painter.Ops[0].Paint.Color != ColorRed {
		t.Fatal("expected initial content")
	}

	handle.SetContent(NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorBlue)))
	painter.Reset()
	Composite(root, painter)
	if painter.Ops[0].Paint.Color != ColorBlue {
		t.Error("expected swapped content through the same root")
	}
}

func TestHandle_EmptyCompositesNothing(t *testing.T) {
	painter := &RecordingPainter{}
	Composite(NewContainerNode(NewHandle()), painter)
	if len(painter.Ops) != 0 {
		t.Errorf("expected no ops, got %d", len(painter.Ops))
	}
}

func TestCompositeCulled_SkipsOffscreenSubtrees(t *testing.T) {
	onscreen := NewOffsetNode(geometry.Offset{X: 10, Y: 10},
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorRed)))
	offscreen := NewOffsetNode(geometry.Offset{X: 500, Y: 500},
		NewPictureNode(recordRect(geometry.RectFromLTWH(0, 0, 10, 10), ColorBlue)))
	root := NewContainerNode(onscreen, offscreen)

	painter := &RecordingPainter{}
	stats := CompositeCulled(root, painter, geometry.RectFromLTWH(0, 0, 100, 100))

	if stats.CompositedPictures != 1 {
		t.Errorf("expected 1 composited picture, got %d", stats.CompositedPictures)
	}
	if stats.CulledNodes != 1 {
		t.Errorf("expected 1 culled node, got %d", stats.CulledNodes)
	}
	for _, op := range painter.Ops {
		if op.Kind == OpDrawRect && op.Paint.Color == ColorBlue {
			t.Error("offscreen subtree should have been culled")
		}
	}
}

func TestColor_Components(t *testing.T) {
	c := RGBA(0x12, 0x34, 0x56, 0x78)
	if c != Color(0x78123456) {
		t.Errorf("unexpected packed value %08x", uint32(c))
	}
	if c.Alpha() != 0x78 {
		t.Errorf("unexpected alpha %02x", c.Alpha())
	}
	if c.WithAlpha(0xFF) != Color(0xFF123456) {
		t.Errorf("unexpected WithAlpha result %08x", uint32(c.WithAlpha(0xFF)))
	}
}
