package hsmx

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
)

// Handler reacts to an event on behalf of a state. It reports whether the event was
// handled; unhandled events bubble to the parent state. A handler may call TransitionTo or
// one of the history resolvers before returning.
type Handler func(ctx context.Context, m *Machine, s *State, evt Event) (bool, error)

// Action is an entry or exit hook.
type Action func(ctx context.Context, m *Machine, s *State)

// Initializer runs after a state has been entered as a transition target. Composite
// states use it to route into a default child.
type Initializer func(ctx context.Context, m *Machine, s *State) error

type handlerKey struct {
	state StateKind
	event EventKind
}

// Edge is a transition declared through the Builder. Edges only document the chart;
// the engine routes by whatever handlers decide at dispatch time.
type Edge struct {
	From    *State
	Event   EventKind
	To      *State
	Mode    HistoryMode
	Guarded bool
}

// HistoryMode selects how an Edge resolves its target.
type HistoryMode int

const (
	HistoryNone HistoryMode = iota
	HistoryShallow
	HistoryDeep
)

func (h HistoryMode) String() string {
	switch h {
	case HistoryShallow:
		return "shallow"
	case HistoryDeep:
		return "deep"
	default:
		return "none"
	}
}

// Machine drives a state tree. It is not safe for concurrent use: callers that feed it
// from several goroutines must serialize Dispatch and TransitionTo themselves.
type Machine struct {
	root     *State
	id       uuid.UUID
	handlers map[handlerKey]Handler
	entry    map[StateKind]Action
	exit     map[StateKind]Action
	init     map[StateKind]Initializer
	edges    []Edge
	logger   *slog.Logger
	observer Observer
	maxDepth int
	depth    int
}

// NewMachine wraps the root of a state tree. The tree is not entered; call Start (or
// TransitionTo the root) once the handlers are registered.
func NewMachine(root *State, opts ...Option) (*Machine, error) {
	if root == nil {
		return nil, errors.New("nil root state")
	}
	if root.parent != nil {
		return nil, errors.New("machine root must not have a parent: " + root.Path())
	}
	m := &Machine{
		root:     root,
		id:       uuid.New(),
		handlers: make(map[handlerKey]Handler),
		entry:    make(map[StateKind]Action),
		exit:     make(map[StateKind]Action),
		init:     make(map[StateKind]Initializer),
		logger:   slog.Default(),
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("machine", root.name, "instance", m.id.String())
	return m, nil
}

// Root returns the machine's root state.
func (m *Machine) Root() *State { return m.root }

// ID returns the random instance ID used to correlate log records.
func (m *Machine) ID() uuid.UUID { return m.id }

// Find resolves a dotted path below the root.
func (m *Machine) Find(path string) *State { return m.root.Find(path) }

// ActiveLeaf returns the deepest active state.
func (m *Machine) ActiveLeaf() *State { return m.root.ActiveLeaf() }

// ActivePath returns the active chain from the root down to the active leaf.
func (m *Machine) ActivePath() []*State {
	path := []*State{m.root}
	for s := m.root.active; s != nil; s = s.active {
		path = append(path, s)
	}
	return path
}

// IsActive reports whether s lies on the active path.
func (m *Machine) IsActive(s *State) bool {
	for n := m.root; n != nil; n = n.active {
		if n == s {
			return true
		}
	}
	return false
}

// Edges returns the transitions declared through the Builder.
func (m *Machine) Edges() []Edge {
	return append([]Edge(nil), m.edges...)
}

// Handle registers h for events of kind evt delivered to states of kind state.
// Use AnyEvent to register a catch-all for the state kind.
func (m *Machine) Handle(state StateKind, evt EventKind, h Handler) {
	m.handlers[handlerKey{state: state, event: evt}] = h
}

// OnEntry registers the entry hook for a state kind.
func (m *Machine) OnEntry(state StateKind, a Action) {
	m.entry[state] = a
}

// OnExit registers the exit hook for a state kind.
func (m *Machine) OnExit(state StateKind, a Action) {
	m.exit[state] = a
}

// OnInitialize registers the initializer for a state kind, replacing the default of
// transitioning into the state's declared initial child.
func (m *Machine) OnInitialize(state StateKind, i Initializer) {
	m.init[state] = i
}

// Start bootstraps the machine by transitioning the root to itself, which enters the
// root and runs the initializer chain down to the initial leaf.
func (m *Machine) Start(ctx context.Context) error {
	return m.TransitionTo(ctx, m.root)
}

func (m *Machine) handlerFor(s *State, evt EventKind) Handler {
	if h, ok := m.handlers[handlerKey{state: s.kind, event: evt}]; ok {
		return h
	}
	if h, ok := m.handlers[handlerKey{state: s.kind, event: AnyEvent}]; ok {
		return h
	}
	return nil
}

func (m *Machine) enterState(ctx context.Context, s *State) {
	if a := m.entry[s.kind]; a != nil {
		a(ctx, m, s)
	}
}

func (m *Machine) exitState(ctx context.Context, s *State) {
	if a := m.exit[s.kind]; a != nil {
		a(ctx, m, s)
	}
}

// initializeState runs the registered initializer, or routes into the declared initial
// child. Leaves without either are left as they are.
func (m *Machine) initializeState(ctx context.Context, s *State) error {
	if i := m.init[s.kind]; i != nil {
		return i(ctx, m, s)
	}
	if s.initial != nil {
		return m.TransitionTo(ctx, s.initial)
	}
	return nil
}
