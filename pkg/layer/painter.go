// Package layer implements the retained compositing tree.
//
// Render objects record their drawing into immutable [Picture] values; the
// pictures hang off a tree of layer [Node] values that preserves offsets,
// clips and opacity groups. A [Compositor] replays that tree onto any
// [Painter] backend. Because pictures are retained, repainting one subtree
// does not require re-recording the rest of the frame: stable [Handle]
// values let a parent layer reference content that is swapped out underneath
// it.
package layer

import (
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/text"
)

// PaintStyle selects between filling and stroking a shape.
type PaintStyle int

const (
	PaintStyleFill PaintStyle = iota
	PaintStyleStroke
)

// Paint describes how a shape is drawn.
type Paint struct {
	Color       Color
	Style       PaintStyle
	StrokeWidth float64
}

// FillPaint returns a fill paint of the given color.
func FillPaint(color Color) Paint {
	return Paint{Color: color, Style: PaintStyleFill}
}

// StrokePaint returns a stroke paint of the given color and width.
func StrokePaint(color Color, width float64) Paint {
	return Paint{Color: color, Style: PaintStyleStroke, StrokeWidth: width}
}

// Painter is the drawing backend interface. Pictures are recorded against
// it and the compositor replays layer trees onto it. Implementations exist
// for recording ([Recorder]), testing ([RecordingPainter]) and real
// rasterizers supplied by the embedder.
type Painter interface {
	// Save pushes the current transform and clip state.
	Save()
	// Restore pops to the most recent Save or SaveLayerAlpha.
	Restore()
	// Translate shifts the origin by (dx, dy).
	Translate(dx, dy float64)
	// ClipRect intersects the clip with the given rectangle.
	ClipRect(rect geometry.Rect)
	// SaveLayerAlpha begins a group that is composited with the given
	// opacity (0.0 to 1.0) on Restore.
	SaveLayerAlpha(bounds geometry.Rect, alpha float64)
	// DrawRect draws a rectangle with the given paint.
	DrawRect(rect geometry.Rect, paint Paint)
	// DrawLine draws a line segment with the given paint.
	DrawLine(start, end geometry.Offset, paint Paint)
	// DrawCircle draws a circle with the given paint.
	DrawCircle(center geometry.Offset, radius float64, paint Paint)
	// DrawText draws a measured text layout at the given position.
	DrawText(layout *text.Layout, position geometry.Offset)
}
