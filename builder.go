package hsmx

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Builder provides a fluent API for constructing a state tree and its behaviour using
// dotted state paths instead of wiring State values and handler tables by hand.
type Builder struct {
	root   *State
	states map[string]*StateBuilder
	order  []*StateBuilder
}

// StateBuilder configures a single state.
type StateBuilder struct {
	b       *Builder
	state   *State
	path    string
	initial string
	kindSet bool
	entry   Action
	exit    Action
	init    Initializer
	on      []eventSpec
}

type eventSpec struct {
	event   EventKind
	handler Handler
	target  string
	mode    HistoryMode
	guard   Guard
}

// Guard decides whether a declared transition may fire for evt. A false guard declines
// the event, so the next candidate (or the parent state) gets to handle it.
type Guard func(ctx context.Context, m *Machine, s *State, evt Event) bool

// NewBuilder creates a builder whose root state is named rootName.
func NewBuilder(rootName string) *Builder {
	b := &Builder{
		root:   NewState(rootName, StateKind(rootName), nil),
		states: make(map[string]*StateBuilder),
	}
	rb := &StateBuilder{b: b, state: b.root, path: ""}
	b.states[""] = rb
	b.order = append(b.order, rb)
	return b
}

// Root returns the builder for the root state.
func (b *Builder) Root() *StateBuilder {
	return b.states[""]
}

// State creates or retrieves the state at a dotted path below the root
// (e.g. "On.Celsius"). Missing parents are created on the way.
func (b *Builder) State(path string) *StateBuilder {
	if sb, ok := b.states[path]; ok {
		return sb
	}
	parentPath, name := splitPath(path)
	parent := b.State(parentPath)

	sb := &StateBuilder{
		b:     b,
		state: NewState(name, StateKind(path), parent.state),
		path:  path,
	}
	b.states[path] = sb
	b.order = append(b.order, sb)
	return sb
}

// Get returns the state at path, or nil if it has not been declared.
func (b *Builder) Get(path string) *State {
	if sb, ok := b.states[path]; ok {
		return sb.state
	}
	return nil
}

// Build validates the chart and constructs the Machine. The machine is not started.
func (b *Builder) Build(opts ...Option) (*Machine, error) {
	if err := b.validate(); err != nil {
		return nil, err
	}

	m, err := NewMachine(b.root, opts...)
	if err != nil {
		return nil, err
	}

	for _, sb := range b.order {
		s := sb.state
		if sb.initial != "" {
			s.SetInitial(b.states[joinPath(sb.path, sb.initial)].state)
		}
		if sb.entry != nil {
			m.OnEntry(s.kind, sb.entry)
		}
		if sb.exit != nil {
			m.OnExit(s.kind, sb.exit)
		}
		if sb.init != nil {
			m.OnInitialize(s.kind, sb.init)
		}
		var order []EventKind
		candidates := make(map[EventKind][]Handler)
		for _, spec := range sb.on {
			h := spec.handler
			if h == nil {
				target := b.states[spec.target].state
				h = transitionHandler(target, spec.mode, spec.guard)
				m.edges = append(m.edges, Edge{From: s, Event: spec.event, To: target, Mode: spec.mode, Guarded: spec.guard != nil})
			}
			if _, seen := candidates[spec.event]; !seen {
				order = append(order, spec.event)
			}
			candidates[spec.event] = append(candidates[spec.event], h)
		}
		for _, evt := range order {
			m.Handle(s.kind, evt, firstHandled(candidates[evt]))
		}
	}
	return m, nil
}

// firstHandled tries hs in declaration order and stops at the first one that handles
// the event or fails.
func firstHandled(hs []Handler) Handler {
	if len(hs) == 1 {
		return hs[0]
	}
	return func(ctx context.Context, m *Machine, s *State, evt Event) (bool, error) {
		for _, h := range hs {
			handled, err := h(ctx, m, s, evt)
			if handled || err != nil {
				return handled, err
			}
		}
		return false, nil
	}
}

func transitionHandler(target *State, mode HistoryMode, guard Guard) Handler {
	return func(ctx context.Context, m *Machine, s *State, evt Event) (bool, error) {
		if guard != nil && !guard(ctx, m, s, evt) {
			return false, nil
		}
		var err error
		switch mode {
		case HistoryShallow:
			err = m.TransitionToShallowHistory(ctx, target)
		case HistoryDeep:
			err = m.TransitionToDeepHistory(ctx, target)
		default:
			err = m.TransitionTo(ctx, target)
		}
		return err == nil, err
	}
}

// validate checks that every path segment is named, every declared target and initial
// child exists, and that states sharing a kind do not declare the same hook or event.
func (b *Builder) validate() error {
	var errs []error
	root := b.Root()
	byKind := make(map[StateKind][]*StateBuilder)
	for _, sb := range b.order {
		if sb != root {
			if slices.Contains(strings.Split(sb.path, "."), "") {
				errs = append(errs, fmt.Errorf("state path %q has an empty segment", sb.path))
			}
			if !sb.kindSet && !root.kindSet && sb.state.kind == root.state.kind {
				errs = append(errs, fmt.Errorf("state %s and the root share default kind %q; set Kind on one of them", sb.path, sb.state.kind))
			}
		}
		byKind[sb.state.kind] = append(byKind[sb.state.kind], sb)

		if sb.initial != "" {
			if _, ok := b.states[joinPath(sb.path, sb.initial)]; !ok {
				errs = append(errs, fmt.Errorf("state %s has unknown initial child %q", sb.state.Path(), sb.initial))
			}
		}
		for _, spec := range sb.on {
			if spec.handler != nil {
				continue
			}
			if _, ok := b.states[spec.target]; !ok {
				errs = append(errs, fmt.Errorf("state %s has %q transition to unknown state %q", sb.state.Path(), spec.event, spec.target))
			}
		}
	}

	for _, sb := range b.order {
		shared := byKind[sb.state.kind]
		if len(shared) < 2 || shared[0] != sb {
			continue
		}
		errs = append(errs, validateSharedKind(sb.state.kind, shared)...)
	}
	return errors.Join(errs...)
}

// validateSharedKind reports hooks and events declared by more than one of the states
// in shared. Registrations are keyed by kind, so only one of them could take effect.
func validateSharedKind(kind StateKind, shared []*StateBuilder) []error {
	var errs []error
	hooks := []struct {
		phase    string
		declared func(*StateBuilder) bool
	}{
		{"entry", func(sb *StateBuilder) bool { return sb.entry != nil }},
		{"exit", func(sb *StateBuilder) bool { return sb.exit != nil }},
		{"initialize", func(sb *StateBuilder) bool { return sb.init != nil }},
	}
	for _, hook := range hooks {
		var first *StateBuilder
		for _, sb := range shared {
			if !hook.declared(sb) {
				continue
			}
			if first != nil {
				errs = append(errs, fmt.Errorf("states %s and %s both declare an %s hook for kind %q",
					first.state.Path(), sb.state.Path(), hook.phase, kind))
				continue
			}
			first = sb
		}
	}

	owner := make(map[EventKind]*StateBuilder)
	for _, sb := range shared {
		for _, spec := range sb.on {
			first, ok := owner[spec.event]
			if !ok {
				owner[spec.event] = sb
				continue
			}
			if first != sb {
				errs = append(errs, fmt.Errorf("states %s and %s both declare %q for kind %q",
					first.state.Path(), sb.state.Path(), spec.event, kind))
			}
		}
	}
	return errs
}

// splitPath splits a hierarchical path into parent and name components.
// For example, "parent.child" returns ("parent", "child").
// For "child", returns ("", "child").
func splitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}

// StateBuilder fluent methods

// State returns the underlying state.
func (sb *StateBuilder) State() *State { return sb.state }

// Kind overrides the state's kind. Hooks and handlers declared on this builder are
// registered under the final kind when Build runs.
func (sb *StateBuilder) Kind(kind StateKind) *StateBuilder {
	sb.state.kind = kind
	sb.kindSet = true
	return sb
}

// Initial declares the direct child entered when this state is initialized.
func (sb *StateBuilder) Initial(childName string) *StateBuilder {
	sb.initial = childName
	return sb
}

// Child declares a direct child and returns its builder.
func (sb *StateBuilder) Child(name string) *StateBuilder {
	return sb.b.State(joinPath(sb.path, name))
}

// OnEntry sets the entry hook.
func (sb *StateBuilder) OnEntry(a Action) *StateBuilder {
	sb.entry = a
	return sb
}

// OnExit sets the exit hook.
func (sb *StateBuilder) OnExit(a Action) *StateBuilder {
	sb.exit = a
	return sb
}

// OnInitialize sets the initializer, replacing the Initial child routing.
func (sb *StateBuilder) OnInitialize(i Initializer) *StateBuilder {
	sb.init = i
	return sb
}

// Handle registers a handler for an event kind.
func (sb *StateBuilder) Handle(event EventKind, h Handler) *StateBuilder {
	sb.on = append(sb.on, eventSpec{event: event, handler: h})
	return sb
}

// Transition declares that event moves the machine to the state at targetPath.
func (sb *StateBuilder) Transition(event EventKind, targetPath string) *StateBuilder {
	sb.on = append(sb.on, eventSpec{event: event, target: targetPath})
	return sb
}

// TransitionIf is Transition taken only while guard holds. Several guarded
// transitions on one event are tried in declaration order.
func (sb *StateBuilder) TransitionIf(event EventKind, targetPath string, guard Guard) *StateBuilder {
	sb.on = append(sb.on, eventSpec{event: event, target: targetPath, guard: guard})
	return sb
}

// ShallowHistory declares that event re-enters targetPath through shallow history.
func (sb *StateBuilder) ShallowHistory(event EventKind, targetPath string) *StateBuilder {
	sb.on = append(sb.on, eventSpec{event: event, target: targetPath, mode: HistoryShallow})
	return sb
}

// DeepHistory declares that event re-enters targetPath through deep history.
func (sb *StateBuilder) DeepHistory(event EventKind, targetPath string) *StateBuilder {
	sb.on = append(sb.on, eventSpec{event: event, target: targetPath, mode: HistoryDeep})
	return sb
}
