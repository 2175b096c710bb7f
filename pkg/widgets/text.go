package widgets

import (
	"math"

	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/render"
	"github.com/canopy-ui/canopy/pkg/text"
)

// Text displays a string with a single style.
//
// With Wrap false (the default) the text renders on one line and may extend
// beyond the constraint width. With Wrap true it breaks at the constraint
// width. MaxLines limits the visible lines after wrapping; 0 means no limit.
type Text struct {
	// Content is the text string to display.
	Content string
	// Style controls font, size and color.
	Style text.Style
	// MaxLines limits the number of visible lines (0 = unlimited).
	MaxLines int
	// Wrap enables line breaking at the constraint width.
	Wrap bool
}

func (t Text) Key() any {
	return nil
}

func (t Text) CreateObject() render.Object {
	obj := &renderText{content: t.Content, style: t.Style, maxLines: t.MaxLines, wrap: t.Wrap}
	obj.Init(obj)
	return obj
}

func (t Text) UpdateObject(obj render.Object) {
	r := obj.(*renderText)
	r.content = t.Content
	r.style = t.Style
	r.maxLines = t.MaxLines
	r.wrap = t.Wrap
	r.MarkNeedsLayout()
	r.MarkNeedsPaint()
}

type renderText struct {
	render.LeafBase
	content  string
	style    text.Style
	maxLines int
	wrap     bool
	layout   *text.Layout
	cache    textCacheKey
}

type textCacheKey struct {
	content  string
	style    text.Style
	maxWidth float64
	maxLines int
}

func (r *renderText) PerformLayout(constraints geometry.Constraints) geometry.Size {
	maxWidth := 0.0
	if r.wrap {
		maxWidth = constraints.MaxWidth
	}
	key := textCacheKey{content: r.content, style: r.style, maxWidth: maxWidth, maxLines: r.maxLines}
	if r.layout == nil || r.cache != key {
		r.cache = key
		r.layout = text.LayoutTextWithConstraints(r.content, r.style, nil, maxWidth)
		if r.maxLines > 0 && len(r.layout.Lines) > r.maxLines {
			r.layout.Lines = r.layout.Lines[:r.maxLines]
			width := 0.0
			for _, line := range r.layout.Lines {
				width = math.Max(width, line.Width)
			}
			r.layout.Size = geometry.Size{
				Width:  width,
				Height: r.layout.LineHeight * float64(len(r.layout.Lines)),
			}
		}
	}
	return constraints.Constrain(r.layout.Size)
}

func (r *renderText) PerformPaint(rec *render.Recorder) {
	if r.layout == nil {
		return
	}
	// No clipping so glyphs slightly wider than the clamped size stay visible.
	rec.DrawText(r.layout, geometry.Offset{})
}
