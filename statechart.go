package hsmx

import (
	"strings"
)

// StateKind identifies the behaviour of a state. Handlers and hooks are looked up by
// kind, so several states may share one kind and therefore one set of handlers.
type StateKind string

// EventKind identifies an event for handler lookup.
type EventKind string

// AnyEvent registers a catch-all handler for a state kind. It is consulted after the
// handler for the exact event kind.
const AnyEvent EventKind = "*"

// Event is an immutable tagged value. Only Kind is inspected by the engine.
type Event struct {
	Kind    EventKind
	Payload any
}

// NewEvent returns an Event of the given kind carrying payload.
func NewEvent(kind EventKind, payload any) Event {
	return Event{Kind: kind, Payload: payload}
}

// State is a node of a state tree.
//
// parent is fixed at construction. active is runtime state: it always points at one of
// the state's own children (or is nil) and is only rewritten by the transition engine.
type State struct {
	name     string
	kind     StateKind
	parent   *State
	active   *State
	initial  *State
	children []*State
}

// NewState creates a state linked under parent. A nil parent creates a root.
func NewState(name string, kind StateKind, parent *State) *State {
	s := &State{
		name:   name,
		kind:   kind,
		parent: parent,
	}
	if parent != nil {
		parent.children = append(parent.children, s)
	}
	return s
}

// Name returns the state's own path segment.
func (s *State) Name() string { return s.name }

// Kind returns the state's kind.
func (s *State) Kind() StateKind { return s.kind }

// Parent returns the containing state, or nil for a root.
func (s *State) Parent() *State { return s.parent }

// ActiveSubstate returns the child currently considered active, or nil.
func (s *State) ActiveSubstate() *State { return s.active }

// Initial returns the default child entered by the default initialize behaviour.
func (s *State) Initial() *State { return s.initial }

// Children returns the state's children in construction order.
func (s *State) Children() []*State {
	return append([]*State(nil), s.children...)
}

// IsLeaf reports whether the state has no children.
func (s *State) IsLeaf() bool { return len(s.children) == 0 }

// SetInitial declares child as the state's default child. It panics if child is not a
// direct child of s; charts are wired once at start-up so this is a programming error.
func (s *State) SetInitial(child *State) {
	if child != nil && child.parent != s {
		panic("hsmx: initial state " + child.Path() + " is not a child of " + s.Path())
	}
	s.initial = child
}

// Root follows parent links until it reaches the root.
func (s *State) Root() *State {
	if s == nil {
		return nil
	}
	for s.parent != nil {
		s = s.parent
	}
	return s
}

// ActiveLeaf resolves the deepest active state of the tree s belongs to. If the root has
// no active substate the root itself is returned.
func (s *State) ActiveLeaf() *State {
	leaf := s.Root()
	if leaf == nil {
		return nil
	}
	for leaf.active != nil {
		leaf = leaf.active
	}
	return leaf
}

// Depth returns the number of parent links between s and its root.
func (s *State) Depth() int {
	d := 0
	for p := s.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// IsAncestorOf reports whether s is other or one of other's ancestors.
func (s *State) IsAncestorOf(other *State) bool {
	for n := other; n != nil; n = n.parent {
		if n == s {
			return true
		}
	}
	return false
}

// Path returns the dot-joined names from below the root down to s. The root's path is
// its own name.
func (s *State) Path() string {
	if s == nil {
		return ""
	}
	if s.parent == nil {
		return s.name
	}
	segments := make([]string, 0, 4)
	for n := s; n.parent != nil; n = n.parent {
		segments = append(segments, n.name)
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return strings.Join(segments, ".")
}

// Find resolves a dotted path relative to s (e.g. "On.Celsius").
// An empty path returns s.
func (s *State) Find(path string) *State {
	if path == "" {
		return s
	}
	current := s
	for _, seg := range strings.Split(path, ".") {
		var next *State
		for _, child := range current.children {
			if child.name == seg {
				next = child
				break
			}
		}
		if next == nil {
			return nil
		}
		current = next
	}
	return current
}

// String implements fmt.Stringer.
func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Path()
}

// LowestCommonAncestor returns the deepest state that is an ancestor of both a and b
// (each state counts as its own ancestor). It returns nil when a and b belong to
// different trees or either is nil.
//
// The nested walk is O(depth(a) * depth(b)), which is fine for chart-sized trees.
func LowestCommonAncestor(a, b *State) *State {
	for l := a; l != nil; l = l.parent {
		for r := b; r != nil; r = r.parent {
			if l == r {
				return l
			}
		}
	}
	return nil
}
