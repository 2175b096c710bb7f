package layer

import (
	"sync"

	"github.com/canopy-ui/canopy/pkg/geometry"
)

// Handle is a stable layer reference whose content can be swapped without
// rebuilding the layers above it. Repaint boundaries hold a Handle: when the
// boundary repaints it calls SetContent with the fresh subtree, and every
// parent layer that references the handle picks up the new content on the
// next composite.
type Handle struct {
	mu      sync.Mutex
	content Node
}

// NewHandle returns an empty handle.
func NewHandle() *Handle {
	return &Handle{}
}

// SetContent swaps the handle's content.
func (h *Handle) SetContent(content Node) {
	h.mu.Lock()
	h.content = content
	h.mu.Unlock()
}

// Content returns the current content, which may be nil.
func (h *Handle) Content() Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.content
}

// Bounds returns the bounds of the current content.
func (h *Handle) Bounds() geometry.Rect {
	content := h.Content()
	if content == nil {
		return geometry.Rect{}
	}
	return content.Bounds()
}

func (h *Handle) composite(painter Painter, cull geometry.Rect, stats *CompositeStats) {
	content := h.Content()
	if content == nil {
		return
	}
	compositeChild(content, painter, cull, stats)
}
