package widgets

import (
	"fmt"
	"log"
	"math"

	"github.com/canopy-ui/canopy/pkg/core"
	"github.com/canopy-ui/canopy/pkg/geometry"
	"github.com/canopy-ui/canopy/pkg/layer"
	"github.com/canopy-ui/canopy/pkg/render"
	"github.com/canopy-ui/canopy/pkg/text"
)

// Axis represents the layout direction.
type Axis int

const (
	AxisVertical Axis = iota
	AxisHorizontal
)

func (a Axis) String() string {
	switch a {
	case AxisVertical:
		return "vertical"
	case AxisHorizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// MainAxisAlignment controls how children are positioned along the main axis
// (horizontal for [Row], vertical for [Column]).
type MainAxisAlignment int

const (
	// MainAxisAlignmentStart places children at the start (left for Row, top for Column).
	MainAxisAlignmentStart MainAxisAlignment = iota
	// MainAxisAlignmentEnd places children at the end (right for Row, bottom for Column).
	MainAxisAlignmentEnd
	// MainAxisAlignmentCenter centers children along the main axis.
	MainAxisAlignmentCenter
	// MainAxisAlignmentSpaceBetween distributes free space evenly between children.
	MainAxisAlignmentSpaceBetween
	// MainAxisAlignmentSpaceAround distributes free space evenly, with
	// half-sized spaces at the start and end.
	MainAxisAlignmentSpaceAround
	// MainAxisAlignmentSpaceEvenly distributes free space evenly, including
	// equal space before the first and after the last child.
	MainAxisAlignmentSpaceEvenly
)

// CrossAxisAlignment controls how children are positioned along the cross
// axis (vertical for [Row], horizontal for [Column]).
type CrossAxisAlignment int

const (
	CrossAxisAlignmentStart CrossAxisAlignment = iota
	CrossAxisAlignmentEnd
	CrossAxisAlignmentCenter
	// CrossAxisAlignmentStretch stretches children to fill the cross axis.
	CrossAxisAlignmentStretch
)

// MainAxisSize controls how much space the container takes along its main axis.
type MainAxisSize int

const (
	// MainAxisSizeMin sizes the container to fit its children.
	MainAxisSizeMin MainAxisSize = iota
	// MainAxisSizeMax expands to fill the available main-axis space. This is
	// required for [Expanded] children to receive space.
	MainAxisSizeMax
)

// FlexFactor reports the flex value of a render object. Objects returning a
// positive factor share the container's remaining main-axis space.
type FlexFactor interface {
	FlexFactor() int
}

// Row lays out children horizontally from left to right.
//
// By default (MainAxisSizeMin) the row shrinks to fit its children; set
// MainAxisSizeMax to fill the available width, which is required when using
// [Expanded] children. For vertical layout use [Column].
type Row struct {
	Children           []core.View
	MainAxisAlignment  MainAxisAlignment
	CrossAxisAlignment CrossAxisAlignment
	MainAxisSize       MainAxisSize
}

// RowOf creates a start-aligned, shrink-wrapped row.
func RowOf(children ...core.View) Row {
	return Row{Children: children}
}

func (r Row) Key() any {
	return nil
}

func (r Row) ChildViews() []core.View {
	return r.Children
}

func (r Row) CreateObject() render.Object {
	flex := &renderFlex{
		direction:      AxisHorizontal,
		alignment:      r.MainAxisAlignment,
		crossAlignment: r.CrossAxisAlignment,
		axisSize:       r.MainAxisSize,
	}
	flex.Init(flex)
	return flex
}

func (r Row) UpdateObject(obj render.Object) {
	flex := obj.(*renderFlex)
	flex.direction = AxisHorizontal
	flex.alignment = r.MainAxisAlignment
	flex.crossAlignment = r.CrossAxisAlignment
	flex.axisSize = r.MainAxisSize
	flex.MarkNeedsLayout()
	flex.MarkNeedsPaint()
}

// Column lays out children vertically from top to bottom.
//
// By default (MainAxisSizeMin) the column shrinks to fit its children; set
// MainAxisSizeMax to fill the available height, which is required when using
// [Expanded] children. For horizontal layout use [Row].
type Column struct {
	Children           []core.View
	MainAxisAlignment  MainAxisAlignment
	CrossAxisAlignment CrossAxisAlignment
	MainAxisSize       MainAxisSize
}

// ColumnOf creates a start-aligned, shrink-wrapped column.
func ColumnOf(children ...core.View) Column {
	return Column{Children: children}
}

func (c Column) Key() any {
	return nil
}

func (c Column) ChildViews() []core.View {
	return c.Children
}

func (c Column) CreateObject() render.Object {
	flex := &renderFlex{
		direction:      AxisVertical,
		alignment:      c.MainAxisAlignment,
		crossAlignment: c.CrossAxisAlignment,
		axisSize:       c.MainAxisSize,
	}
	flex.Init(flex)
	return flex
}

func (c Column) UpdateObject(obj render.Object) {
	flex := obj.(*renderFlex)
	flex.direction = AxisVertical
	flex.alignment = c.MainAxisAlignment
	flex.crossAlignment = c.CrossAxisAlignment
	flex.axisSize = c.MainAxisSize
	flex.MarkNeedsLayout()
	flex.MarkNeedsPaint()
}

// Expanded gives its child a share of the enclosing flex container's
// remaining main-axis space, proportional to Flex (treated as 1 when not
// positive). The container must use MainAxisSizeMax.
type Expanded struct {
	Flex  int
	Child core.View
}

func (e Expanded) Key() any {
	return nil
}

func (e Expanded) ChildView() core.View {
	return e.Child
}

func (e Expanded) CreateObject() render.Object {
	obj := &renderFlexible{flex: max(e.Flex, 1)}
	obj.Init(obj)
	return obj
}

func (e Expanded) UpdateObject(obj render.Object) {
	r := obj.(*renderFlexible)
	flex := max(e.Flex, 1)
	if r.flex == flex {
		return
	}
	r.flex = flex
	r.MarkNeedsLayout()
}

type renderFlexible struct {
	render.SingleBase
	flex int
}

func (r *renderFlexible) FlexFactor() int {
	return r.flex
}

func (r *renderFlexible) PerformLayout(constraints geometry.Constraints, child *render.Child) geometry.Size {
	if !child.Attached() {
		return constraints.Smallest()
	}
	size := child.Layout(constraints, true)
	child.PlaceAt(geometry.Offset{})
	return size
}

func (r *renderFlexible) PerformPaint(child render.Node) render.Node {
	if child == nil {
		return layer.NewContainerNode()
	}
	return child
}

type renderFlex struct {
	render.MultiBase
	direction      Axis
	alignment      MainAxisAlignment
	crossAlignment CrossAxisAlignment
	axisSize       MainAxisSize

	unboundedFlexError  bool
	unboundedFlexWarned bool // one-shot, avoids log spam
	errorLayout         *text.Layout
}

func (r *renderFlex) mainAxis(size geometry.Size) float64 {
	if r.direction == AxisHorizontal {
		return size.Width
	}
	return size.Height
}

func (r *renderFlex) crossAxis(size geometry.Size) float64 {
	if r.direction == AxisHorizontal {
		return size.Height
	}
	return size.Width
}

func (r *renderFlex) makeSize(main, cross float64) geometry.Size {
	if r.direction == AxisHorizontal {
		return geometry.Size{Width: main, Height: cross}
	}
	return geometry.Size{Width: cross, Height: main}
}

func (r *renderFlex) makeOffset(main, cross float64) geometry.Offset {
	if r.direction == AxisHorizontal {
		return geometry.Offset{X: main, Y: cross}
	}
	return geometry.Offset{X: cross, Y: main}
}

func flexFactorOf(obj render.Object) int {
	if flexible, ok := obj.(FlexFactor); ok {
		return flexible.FlexFactor()
	}
	return 0
}

func (r *renderFlex) PerformLayout(constraints geometry.Constraints, children []*render.Child) geometry.Size {
	maxSize := geometry.Size{Width: constraints.MaxWidth, Height: constraints.MaxHeight}
	maxMain := r.mainAxis(maxSize)

	mainSize := 0.0
	crossSize := 0.0
	totalFlex := 0
	var flexChildren []*render.Child
	var flexFactors []int

	for _, child := range children {
		if flex := flexFactorOf(child.Object()); flex > 0 {
			flexChildren = append(flexChildren, child)
			flexFactors = append(flexFactors, flex)
			totalFlex += flex
			continue
		}
		childSize := child.Layout(r.looseConstraints(maxSize), true)
		mainSize += r.mainAxis(childSize)
		crossSize = math.Max(crossSize, r.crossAxis(childSize))
	}

	r.unboundedFlexError = false
	if totalFlex > 0 && maxMain >= geometry.Unbounded {
		if !r.unboundedFlexWarned {
			log.Printf("canopy: Expanded children cannot flex in an unbounded %s axis", r.direction)
			r.unboundedFlexWarned = true
		}
		r.unboundedFlexError = true
		fallbackMain := math.Max(constraints.MinWidth, 200)
		if r.direction == AxisVertical {
			fallbackMain = math.Max(constraints.MinHeight, 50)
		}
		fallbackCross := crossSize
		if fallbackCross == 0 {
			fallbackCross = 50
		}
		return constraints.Constrain(r.makeSize(fallbackMain, fallbackCross))
	}

	remaining := math.Max(maxMain-mainSize, 0)
	if r.axisSize != MainAxisSizeMax {
		remaining = 0
	}
	for i, child := range flexChildren {
		allocated := remaining * float64(flexFactors[i]) / float64(totalFlex)
		childSize := child.Layout(r.flexConstraints(constraints, allocated), true)
		mainSize += r.mainAxis(childSize)
		crossSize = math.Max(crossSize, r.crossAxis(childSize))
	}

	finalMain := mainSize
	if r.axisSize == MainAxisSizeMax && maxMain < geometry.Unbounded {
		finalMain = maxMain
	}
	size := constraints.Constrain(r.makeSize(finalMain, crossSize))

	freeSpace := math.Max(0, r.mainAxis(size)-mainSize)
	spacing, cursor := r.computeSpacing(freeSpace, len(children))
	for _, child := range children {
		crossOffset := r.crossAxisOffset(size, child.Size())
		child.PlaceAt(r.makeOffset(cursor, crossOffset))
		cursor += r.mainAxis(child.Size()) + spacing
	}
	return size
}

func (r *renderFlex) looseConstraints(maxSize geometry.Size) geometry.Constraints {
	if r.crossAlignment != CrossAxisAlignmentStretch {
		return geometry.Loose(maxSize)
	}
	if r.direction == AxisHorizontal {
		return geometry.Constraints{
			MaxWidth:  maxSize.Width,
			MinHeight: maxSize.Height,
			MaxHeight: maxSize.Height,
		}
	}
	return geometry.Constraints{
		MinWidth:  maxSize.Width,
		MaxWidth:  maxSize.Width,
		MaxHeight: maxSize.Height,
	}
}

// flexConstraints are tight along the main axis: an Expanded child takes
// exactly its allocation.
func (r *renderFlex) flexConstraints(constraints geometry.Constraints, mainSize float64) geometry.Constraints {
	if r.direction == AxisHorizontal {
		minHeight := 0.0
		if r.crossAlignment == CrossAxisAlignmentStretch {
			minHeight = constraints.MaxHeight
		}
		return geometry.Constraints{
			MinWidth:  mainSize,
			MaxWidth:  mainSize,
			MinHeight: minHeight,
			MaxHeight: constraints.MaxHeight,
		}
	}
	minWidth := 0.0
	if r.crossAlignment == CrossAxisAlignmentStretch {
		minWidth = constraints.MaxWidth
	}
	return geometry.Constraints{
		MinWidth:  minWidth,
		MaxWidth:  constraints.MaxWidth,
		MinHeight: mainSize,
		MaxHeight: mainSize,
	}
}

func (r *renderFlex) crossAxisOffset(own, child geometry.Size) float64 {
	freeSpace := r.crossAxis(own) - r.crossAxis(child)
	if freeSpace <= 0 {
		return 0
	}
	switch r.crossAlignment {
	case CrossAxisAlignmentEnd:
		return freeSpace
	case CrossAxisAlignmentCenter:
		return freeSpace * 0.5
	default:
		return 0
	}
}

func (r *renderFlex) computeSpacing(freeSpace float64, n int) (spacing, offset float64) {
	switch r.alignment {
	case MainAxisAlignmentEnd:
		offset = freeSpace
	case MainAxisAlignmentCenter:
		offset = freeSpace * 0.5
	case MainAxisAlignmentSpaceBetween:
		if n > 1 {
			spacing = freeSpace / float64(n-1)
		}
	case MainAxisAlignmentSpaceAround:
		if n > 0 {
			spacing = freeSpace / float64(n)
			offset = spacing * 0.5
		}
	case MainAxisAlignmentSpaceEvenly:
		if n > 0 {
			spacing = freeSpace / float64(n+1)
			offset = spacing
		}
	}
	return
}

func (r *renderFlex) PerformPaint(children []render.Node) render.Node {
	if r.unboundedFlexError {
		return r.errorNode()
	}
	return layer.NewContainerNode(children...)
}

// errorNode paints a loud placeholder instead of the children so the
// misconfiguration is visible on screen.
func (r *renderFlex) errorNode() render.Node {
	size := r.Size()
	rec := layer.NewRecorder(geometry.RectFromSize(size))
	rec.DrawRect(geometry.RectFromSize(size), layer.FillPaint(layer.RGBA(255, 0, 127, 255)))
	if r.errorLayout == nil {
		msg := fmt.Sprintf("FLEX ERROR: Expanded in unbounded %s", r.direction)
		r.errorLayout = text.LayoutText(msg, text.Style{FontSize: 14}, nil)
	}
	rec.DrawText(r.errorLayout, geometry.Offset{X: 8, Y: 8})
	return layer.NewPictureNode(rec.Finish())
}
