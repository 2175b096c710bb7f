package widgets

import (
	"reflect"

	"github.com/canopy-ui/canopy/pkg/core"
)

// ValueScope exposes an ambient value to every descendant.
//
// Descendants read the value through [ScopedValue] (or core.DependOn) and
// are rebuilt when the scope updates with a different value.
type ValueScope struct {
	Value any
	Child core.View
}

func (s ValueScope) Key() any {
	return nil
}

func (s ValueScope) ChildView() core.View {
	return s.Child
}

func (s ValueScope) UpdateShouldNotify(old core.ProviderView) bool {
	return !reflect.DeepEqual(old.(ValueScope).Value, s.Value)
}

// ScopedValue returns the value of the nearest enclosing [ValueScope],
// registering the calling element for change notification.
func ScopedValue(ctx core.Context) (any, bool) {
	scope, ok := core.DependOn[ValueScope](ctx)
	if !ok {
		return nil, false
	}
	return scope.Value, true
}
