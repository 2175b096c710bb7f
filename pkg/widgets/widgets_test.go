package widgets_test

import (
	"fmt"
	"testing"

	"github.com/canopy-ui/canopy/pkg/core"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
	"github.com/canopy-ui/canopy/pkg/text"
	"github.com/canopy-ui/canopy/pkg/uitest"
	"github.com/canopy-ui/canopy/pkg/widgets"
)

func TestPadding_OffsetsChild(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.Padding{
			Insets: geometry.EdgeInsetsAll(16),
			Child:  box(50, 50),
		},
	))

	id := uitest.FindByType[widgets.Padding](tester)[0]
	padding := tester.Coordinator().Tree().Get(id).Object()
	if got := padding.Size(); got != (geometry.Size{Width: 82, Height: 82}) {
		t.Fatalf("size = %v, want child + insets (82x82)", got)
	}
	slot := padding.(render.SingleObject).ChildSlot()
	if got := slot.Offset(); got != (geometry.Offset{X: 16, Y: 16}) {
		t.Fatalf("child at %v, want {16 16}", got)
	}
}

func TestPadding_DeflatesConstraints(t *testing.T) {
	tester := uitest.NewTester(t)
	tester.SetSize(geometry.Size{Width: 200, Height: 200})

	tester.PumpView(widgets.Padding{
		Insets: geometry.EdgeInsetsAll(20),
		Child:  box(500, 500),
	})

	id := uitest.FindByType[widgets.ColoredBox](tester)[0]
	child := tester.Coordinator().Tree().Get(id).Object()
	// 200 minus 20 on each side.
	if got := child.Size(); got != (geometry.Size{Width: 160, Height: 160}) {
		t.Fatalf("child size = %v, want 160x160", got)
	}
}

func TestSizedBox_TightensChild(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.SizedBox{
			Width:  70,
			Height: 30,
			Child:  widgets.ColoredBox{Color: layer.ColorBlue},
		},
	))

	id := uitest.FindByType[widgets.ColoredBox](tester)[0]
	child := tester.Coordinator().Tree().Get(id).Object()
	if got := child.Size(); got != (geometry.Size{Width: 70, Height: 30}) {
		t.Fatalf("child size = %v, want the box's 70x30", got)
	}
}

func TestText_PaintsContent(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.Text{Content: "hello"},
	))

	if !tester.ContainsText("hello") {
		t.Fatalf("texts = %v, want to contain %q", tester.Texts(), "hello")
	}
}

func TestText_WrapsAtConstraintWidth(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.SizedBox{
			Width:  30,
			Height: 100,
			Child:  widgets.Text{Content: "aaa bbb", Wrap: true},
		},
	))

	want := text.LayoutTextWithConstraints("aaa bbb", text.Style{}, nil, 30)
	if len(want.Lines) < 2 {
		t.Fatalf("reference layout has %d lines, expected wrapping", len(want.Lines))
	}
	var drawn *text.Layout
	for _, op := range tester.Ops() {
		if op.Kind == layer.OpDrawText {
			drawn = op.Text
		}
	}
	if drawn == nil {
		t.Fatal("no text drawn")
	}
	if len(drawn.Lines) != len(want.Lines) {
		t.Fatalf("drawn %d lines, want %d", len(drawn.Lines), len(want.Lines))
	}
	for i, line := range want.Lines {
		if drawn.Lines[i].Text != line.Text {
			t.Fatalf("line %d = %q, want %q", i, drawn.Lines[i].Text, line.Text)
		}
	}
}

func TestOpacity_WrapsChildInAlphaGroup(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.Opacity{Alpha: 0.5, Child: box(50, 50)},
	))

	found := false
	for _, op := range tester.Ops() {
		if op.Kind == layer.OpSaveLayerAlpha && op.Alpha == 0.5 {
			found = true
		}
	}
	if !found {
		t.Fatal("no alpha group in the composited output")
	}
}

func TestOpacity_OpaqueSkipsAlphaGroup(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.Opacity{Alpha: 1, Child: box(50, 50)},
	))

	for _, op := range tester.Ops() {
		if op.Kind == layer.OpSaveLayerAlpha {
			t.Fatal("fully opaque child composited through an alpha group")
		}
	}
}

func TestClipRect_ClipsToOwnBounds(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(
		widgets.ClipRect{Child: box(50, 50)},
	))

	want := geometry.RectFromSize(geometry.Size{Width: 50, Height: 50})
	found := false
	for _, op := range tester.Ops() {
		if op.Kind == layer.OpClipRect && op.Rect == want {
			found = true
		}
	}
	if !found {
		t.Fatal("no clip against the widget bounds in the composited output")
	}
}

// scopeReader rebuilds whenever the enclosing ValueScope notifies.
type scopeReader struct {
	log *[]any
}

func (scopeReader) Key() any { return nil }

func (v scopeReader) Build(ctx core.Context) core.View {
	value, _ := widgets.ScopedValue(ctx)
	*v.log = append(*v.log, value)
	return widgets.Text{Content: fmt.Sprint(value)}
}

func TestValueScope_NotifiesReaders(t *testing.T) {
	tester := uitest.NewTester(t)
	var log []any
	reader := scopeReader{log: &log}

	tester.PumpView(widgets.ValueScope{Value: "morning", Child: reader})
	if !tester.ContainsText("morning") {
		t.Fatalf("texts = %v", tester.Texts())
	}

	tester.PumpView(widgets.ValueScope{Value: "evening", Child: reader})
	if !tester.ContainsText("evening") {
		t.Fatalf("texts = %v", tester.Texts())
	}
	if len(log) != 2 || log[0] != "morning" || log[1] != "evening" {
		t.Fatalf("log = %v, want [morning evening]", log)
	}

	// Same value again: readers must not rebuild.
	tester.PumpView(widgets.ValueScope{Value: "evening", Child: reader})
	if len(log) != 2 {
		t.Fatalf("log = %v, reader rebuilt without a change", log)
	}
}

func TestHitTest_HitsTopmostChild(t *testing.T) {
	tester := uitest.NewTester(t)

	tester.PumpView(widgets.ColumnOf(box(40, 10), box(40, 10)))

	id := uitest.FindByType[widgets.ColoredBox](tester)[1]
	second := tester.Coordinator().Tree().Get(id).Object()
	entries := tester.HitTest(geometry.Offset{X: 5, Y: 15})
	if len(entries) == 0 || entries[0] != second {
		t.Fatalf("entries = %v, want the second box first", entries)
	}
}
