// Package errors provides structured error handling for the Canopy runtime.
//
// The runtime distinguishes three failure classes:
//
//   - [ProgrammingError]: an internal invariant violation (arity mismatch,
//     dangling element reference, duplicate slot claim). Fatal for the
//     current flush and surfaced to the caller of Flush.
//   - [CallbackError]: a panic escaping user code (a build callback or event
//     handler). Contained at the element boundary: the failing subtree is
//     torn down, siblings continue, and the error is reported through the
//     diagnostics handler.
//   - [LayoutDivergence]: a render object returning a size outside the
//     constraints it received. The size is clamped and the divergence is
//     reported; the frame still renders.
package errors

import (
	"fmt"
	"time"

	"github.com/canopy-ui/canopy/pkg/geometry"
)

// ProgrammingError represents an internal invariant violation in the
// element or render tree. It aborts the current flush.
type ProgrammingError struct {
	// Op is the operation that detected the violation (e.g. "core.updateChildren").
	Op string
	// Path identifies the offending element, root-to-leaf (e.g. "Root/Column[1]/Text").
	Path string
	// Msg describes the violated invariant.
	Msg string
}

func (e *ProgrammingError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (at %s)", e.Op, e.Msg, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Programmingf constructs a ProgrammingError with a formatted message.
func Programmingf(op, path, format string, args ...any) *ProgrammingError {
	return &ProgrammingError{Op: op, Path: path, Msg: fmt.Sprintf(format, args...)}
}

// CallbackError represents a panic recovered from user code.
type CallbackError struct {
	// Phase is the pipeline phase during which the callback ran
	// ("build", "layout", "paint", "event").
	Phase string
	// View is the type name of the view whose callback failed.
	View string
	// Element is the element role hosting the callback.
	Element string
	// Recovered is the value passed to panic().
	Recovered any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("panic in %s callback of %s: %v", e.Phase, e.View, e.Recovered)
}

// LayoutDivergence records a render object returning a size that violates
// the constraints it was given. The runtime clamps the size, so this is
// diagnostic rather than fatal.
type LayoutDivergence struct {
	// Object is the type name of the offending render object.
	Object string
	// Constraints are the bounds the object received.
	Constraints geometry.Constraints
	// Returned is the out-of-bounds size the object produced.
	Returned geometry.Size
	// Clamped is the size actually used.
	Clamped geometry.Size
	// Timestamp is when the divergence was detected.
	Timestamp time.Time
}

func (e *LayoutDivergence) Error() string {
	return fmt.Sprintf("%s returned %.1fx%.1f outside constraints [%.1f-%.1f x %.1f-%.1f], clamped to %.1fx%.1f",
		e.Object,
		e.Returned.Width, e.Returned.Height,
		e.Constraints.MinWidth, e.Constraints.MaxWidth,
		e.Constraints.MinHeight, e.Constraints.MaxHeight,
		e.Clamped.Width, e.Clamped.Height)
}

// Handler receives contained failures reported by the runtime. It is the
// diagnostics channel: fatal ProgrammingErrors are returned from Flush
// instead of passing through here.
type Handler interface {
	// HandleCallbackError is called when a user callback panics.
	HandleCallbackError(err *CallbackError)
	// HandleDivergence is called when a render object diverges from its
	// constraints.
	HandleDivergence(err *LayoutDivergence)
}
