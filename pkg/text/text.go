// Package text provides pure-Go text measurement and line breaking.
//
// Measurement is backed by a golang.org/x/image/font face. The default face
// is a fixed-metric bitmap font, which keeps layout deterministic in tests
// and headless environments; applications can register TrueType faces for
// real rendering.
package text

import (
	"math"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/canopy-ui/canopy/pkg/geometry"
)

// DefaultFontSize is used when a style does not specify a font size.
const DefaultFontSize = 16

// FontWeight represents a numeric font weight.
type FontWeight int

const (
	FontWeightNormal   FontWeight = 400
	FontWeightSemibold FontWeight = 600
	FontWeightBold     FontWeight = 700
)

// Style describes how text should be measured and rendered.
type Style struct {
	Color              uint32
	FontFamily         string
	FontSize           float64
	FontWeight         FontWeight
	PreserveWhitespace bool
}

// Line represents a single laid-out line of text.
type Line struct {
	Text  string
	Width float64
}

// Layout contains measured text metrics and the resolved font face.
type Layout struct {
	Text       string
	Style      Style
	Size       geometry.Size
	Ascent     float64
	Descent    float64
	LineHeight float64
	Lines      []Line
	Face       font.Face
}

// FontManager resolves font faces for text measurement.
type FontManager struct {
	mu          sync.RWMutex
	faces       map[string]font.Face
	defaultFace font.Face
}

var (
	defaultFontManager     *FontManager
	defaultFontManagerOnce sync.Once
)

// NewFontManager creates a font manager whose fallback face is the bundled
// fixed-metric bitmap font.
func NewFontManager() *FontManager {
	return &FontManager{
		faces:       make(map[string]font.Face),
		defaultFace: basicfont.Face7x13,
	}
}

// DefaultFontManager returns the shared font manager.
func DefaultFontManager() *FontManager {
	defaultFontManagerOnce.Do(func() {
		defaultFontManager = NewFontManager()
	})
	return defaultFontManager
}

// RegisterFace registers a font face under a family name.
func (m *FontManager) RegisterFace(name string, face font.Face) {
	if name == "" || face == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.faces[name] = face
}

// Face resolves the face for the given style, falling back to the default.
func (m *FontManager) Face(style Style) font.Face {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if face, ok := m.faces[style.FontFamily]; ok {
		return face
	}
	return m.defaultFace
}

// LayoutText measures the given text without a width constraint.
func LayoutText(text string, style Style, manager *FontManager) *Layout {
	return LayoutTextWithConstraints(text, style, manager, 0)
}

// LayoutTextWithConstraints measures and wraps text within the given width.
// A maxWidth of 0 disables wrapping.
func LayoutTextWithConstraints(text string, style Style, manager *FontManager, maxWidth float64) *Layout {
	if manager == nil {
		manager = DefaultFontManager()
	}
	face := manager.Face(style)
	metrics := face.Metrics()
	ascent := fixedToFloat(metrics.Ascent)
	descent := fixedToFloat(metrics.Descent)
	lineHeight := fixedToFloat(metrics.Height)
	if lineHeight == 0 {
		lineHeight = ascent + descent
	}

	measure := func(s string) float64 {
		return fixedToFloat(font.MeasureString(face, s))
	}
	lines := layoutLines(text, maxWidth, measure, style.PreserveWhitespace)

	maxLineWidth := 0.0
	for _, line := range lines {
		maxLineWidth = math.Max(maxLineWidth, line.Width)
	}
	return &Layout{
		Text:       text,
		Style:      style,
		Size:       geometry.Size{Width: maxLineWidth, Height: lineHeight * float64(len(lines))},
		Ascent:     ascent,
		Descent:    descent,
		LineHeight: lineHeight,
		Lines:      lines,
		Face:       face,
	}
}

func fixedToFloat(v interface{ Round() int }) float64 {
	return float64(v.Round())
}

func layoutLines(text string, maxWidth float64, measure func(string) float64, preserveWhitespace bool) []Line {
	if maxWidth < 0 || math.IsInf(maxWidth, 0) || maxWidth >= geometry.Unbounded {
		maxWidth = 0
	}
	paragraphs := strings.Split(text, "\n")
	lines := make([]Line, 0, len(paragraphs))
	for _, paragraph := range paragraphs {
		if paragraph == "" {
			lines = append(lines, Line{})
			continue
		}
		if maxWidth == 0 {
			lines = append(lines, Line{Text: paragraph, Width: measure(paragraph)})
			continue
		}
		for _, line := range wrapParagraph(paragraph, maxWidth, measure, preserveWhitespace) {
			lines = append(lines, Line{Text: line, Width: measure(line)})
		}
	}
	if len(lines) == 0 {
		lines = []Line{{}}
	}
	return lines
}

// wrapParagraph greedily breaks a single paragraph at whitespace, falling
// back to mid-word breaks when a single run exceeds the width.
func wrapParagraph(text string, maxWidth float64, measure func(string) float64, preserveWhitespace bool) []string {
	var lines []string
	start := 0
	for start < len(text) {
		lastBreak := -1
		lastFit := -1
		for i := start; i < len(text); {
			r, size := utf8.DecodeRuneInString(text[i:])
			next := i + size
			if measure(text[start:next]) > maxWidth {
				break
			}
			lastFit = next
			if unicode.IsSpace(r) {
				lastBreak = next
			}
			i = next
		}
		if lastFit == -1 {
			// Not even one rune fits; emit it anyway to guarantee progress.
			_, size := utf8.DecodeRuneInString(text[start:])
			lastFit = start + size
		}
		cut := lastFit
		if lastFit < len(text) && lastBreak > start && lastBreak < lastFit {
			cut = lastBreak
		}
		line := text[start:cut]
		if !preserveWhitespace {
			line = strings.TrimRightFunc(line, unicode.IsSpace)
		}
		lines = append(lines, line)
		start = cut
		if preserveWhitespace {
			continue
		}
		for start < len(text) {
			r, size := utf8.DecodeRuneInString(text[start:])
			if !unicode.IsSpace(r) {
				break
			}
			start += size
		}
	}
	if len(lines) == 0 {
		return []string{""}
	}
	return lines
}
