package geometry

import "math"

// Constraints describe the min/max box a render object must size itself
// within. They flow top-down during a single layout pass and are immutable
// for the duration of that pass.
//
// A dimension with max equal to [Unbounded] is unconstrained. A dimension
// whose min equals its max is tight: the parent dictates the exact extent.
type Constraints struct {
	MinWidth  float64
	MaxWidth  float64
	MinHeight float64
	MaxHeight float64
}

// Tight creates constraints that force exactly the given size.
func Tight(size Size) Constraints {
	return Constraints{
		MinWidth:  size.Width,
		MaxWidth:  size.Width,
		MinHeight: size.Height,
		MaxHeight: size.Height,
	}
}

// Loose creates constraints from zero up to the given size.
func Loose(size Size) Constraints {
	return Constraints{MaxWidth: size.Width, MaxHeight: size.Height}
}

// Unconstrained creates constraints with no bounds in either dimension.
func Unconstrained() Constraints {
	return Constraints{MaxWidth: Unbounded, MaxHeight: Unbounded}
}

// IsTight reports whether both dimensions are fixed to a single value.
func (c Constraints) IsTight() bool {
	return floatEqual(c.MinWidth, c.MaxWidth) && floatEqual(c.MinHeight, c.MaxHeight)
}

// HasBoundedWidth reports whether the width has a finite maximum.
func (c Constraints) HasBoundedWidth() bool {
	return c.MaxWidth < Unbounded
}

// HasBoundedHeight reports whether the height has a finite maximum.
func (c Constraints) HasBoundedHeight() bool {
	return c.MaxHeight < Unbounded
}

// Constrain clamps the given size into the constraint box.
func (c Constraints) Constrain(size Size) Size {
	return Size{
		Width:  math.Min(math.Max(size.Width, c.MinWidth), c.MaxWidth),
		Height: math.Min(math.Max(size.Height, c.MinHeight), c.MaxHeight),
	}
}

// IsSatisfiedBy reports whether the size honors both dimensions.
func (c Constraints) IsSatisfiedBy(size Size) bool {
	return size.Width >= c.MinWidth-epsilon && size.Width <= c.MaxWidth+epsilon &&
		size.Height >= c.MinHeight-epsilon && size.Height <= c.MaxHeight+epsilon
}

// Smallest returns the minimum size that satisfies the constraints.
func (c Constraints) Smallest() Size {
	return Size{Width: c.MinWidth, Height: c.MinHeight}
}

// Biggest returns the maximum size that satisfies the constraints.
// Unbounded dimensions collapse to the minimum.
func (c Constraints) Biggest() Size {
	size := Size{Width: c.MaxWidth, Height: c.MaxHeight}
	if !c.HasBoundedWidth() {
		size.Width = c.MinWidth
	}
	if !c.HasBoundedHeight() {
		size.Height = c.MinHeight
	}
	return size
}

// Loosen removes the minimum bounds while keeping the maximums.
func (c Constraints) Loosen() Constraints {
	return Constraints{MaxWidth: c.MaxWidth, MaxHeight: c.MaxHeight}
}

// Deflate shrinks the constraints by the given insets, for laying out a
// child inside padding. Minimums never go below zero and maximums never go
// below the (deflated) minimums.
func (c Constraints) Deflate(insets EdgeInsets) Constraints {
	horizontal := insets.Horizontal()
	vertical := insets.Vertical()
	minWidth := math.Max(0, c.MinWidth-horizontal)
	minHeight := math.Max(0, c.MinHeight-vertical)
	out := Constraints{
		MinWidth:  minWidth,
		MaxWidth:  math.Max(minWidth, c.MaxWidth-horizontal),
		MinHeight: minHeight,
		MaxHeight: math.Max(minHeight, c.MaxHeight-vertical),
	}
	if !c.HasBoundedWidth() {
		out.MaxWidth = Unbounded
	}
	if !c.HasBoundedHeight() {
		out.MaxHeight = Unbounded
	}
	return out
}

// Enforce tightens these constraints to also satisfy the given outer
// constraints.
func (c Constraints) Enforce(outer Constraints) Constraints {
	return Constraints{
		MinWidth:  math.Min(math.Max(c.MinWidth, outer.MinWidth), outer.MaxWidth),
		MaxWidth:  math.Min(math.Max(c.MaxWidth, outer.MinWidth), outer.MaxWidth),
		MinHeight: math.Min(math.Max(c.MinHeight, outer.MinHeight), outer.MaxHeight),
		MaxHeight: math.Min(math.Max(c.MaxHeight, outer.MinHeight), outer.MaxHeight),
	}
}
