package hsmx

import (
	"context"
	"time"
)

// Observer receives a record after each dispatch and each transition step.
// Implementations run synchronously on the caller's stack and must not block.
type Observer interface {
	ObserveDispatch(ctx context.Context, m *Machine, rec DispatchRecord)
	ObserveTransition(ctx context.Context, m *Machine, rec TransitionRecord)
}

// DispatchRecord describes one Dispatch call.
type DispatchRecord struct {
	Event     EventKind
	HandledBy *State // nil when unhandled or a handler failed
	Visited   int    // states whose handlers were consulted
	Duration  time.Duration
	Err       error
}

// TransitionRecord describes one transition step: exits, rewire and entries. It is
// emitted before the target's initialize phase, so nested initial transitions appear as
// separate records after their parent.
type TransitionRecord struct {
	From     *State
	To       *State
	Ancestor *State
	Exited   []*State
	Entered  []*State
	Err      error
}
