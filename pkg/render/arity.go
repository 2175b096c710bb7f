package render

// LeafBase is the base for render objects with no children.
type LeafBase struct {
	Base
}

// Arity returns ArityLeaf.
func (l *LeafBase) Arity() Arity {
	return ArityLeaf
}

// SingleBase is the base for render objects wrapping at most one child.
type SingleBase struct {
	Base
	child Child
}

// Arity returns AritySingle.
func (s *SingleBase) Arity() Arity {
	return AritySingle
}

// ChildSlot returns the child slot. The slot always exists; it is empty
// until SetChild attaches an object.
func (s *SingleBase) ChildSlot() *Child {
	return &s.child
}

// SetChild attaches the given object as the single child, detaching any
// previous one. Passing nil empties the slot.
func (s *SingleBase) SetChild(child Object) {
	if s.child.object == child {
		return
	}
	if s.child.object != nil {
		s.child.object.SetParent(nil)
	}
	s.child.parent = s.self
	s.child.object = child
	if child != nil {
		child.SetOwner(s.owner)
		child.SetParent(s.self)
	}
	s.MarkNeedsLayout()
}

// MultiBase is the base for render objects holding an ordered child list.
type MultiBase struct {
	Base
	children []*Child
}

// Arity returns ArityMulti.
func (m *MultiBase) Arity() Arity {
	return ArityMulti
}

// ChildSlots returns the ordered child slots.
func (m *MultiBase) ChildSlots() []*Child {
	return m.children
}

// SetChildren replaces the child list. Slots of objects present in both
// the old and new lists are reused so their offsets survive reordering;
// removed objects are detached.
func (m *MultiBase) SetChildren(objects []Object) {
	existing := make(map[Object]*Child, len(m.children))
	for _, slot := range m.children {
		if slot.object != nil {
			existing[slot.object] = slot
		}
	}

	kept := make(map[Object]bool, len(objects))
	next := make([]*Child, 0, len(objects))
	for _, obj := range objects {
		if obj == nil {
			continue
		}
		kept[obj] = true
		if slot, ok := existing[obj]; ok {
			next = append(next, slot)
			continue
		}
		obj.SetOwner(m.owner)
		obj.SetParent(m.self)
		next = append(next, &Child{parent: m.self, object: obj})
	}
	for _, slot := range m.children {
		if slot.object != nil && !kept[slot.object] {
			slot.object.SetParent(nil)
		}
	}

	m.children = next
	m.MarkNeedsLayout()
}

// AppendChild adds one object to the end of the child list.
func (m *MultiBase) AppendChild(child Object) {
	if child == nil {
		return
	}
	child.SetOwner(m.owner)
	child.SetParent(m.self)
	m.children = append(m.children, &Child{parent: m.self, object: child})
	m.MarkNeedsLayout()
}
