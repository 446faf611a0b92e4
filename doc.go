// Package hsmx is an embeddable hierarchical state machine (UML statechart) engine.
//
// States form a tree. Each state has a fixed parent and a mutable active substate; the
// chain of active substates from the root ends at the active leaf. Events are dispatched
// to the active leaf and bubble towards the root until a handler reports them handled.
// Handlers decide destinations at dispatch time and call TransitionTo, which exits states
// up to the lowest common ancestor, rewrites the active path, enters states down to the
// target and then initializes the target. Shallow and deep history fall out of the active
// pointers left behind in states that were exited.
//
// Behaviour is attached per state kind:
//
//	m.Handle("Off", "Power", func(ctx context.Context, m *hsmx.Machine, s *hsmx.State, evt hsmx.Event) (bool, error) {
//		return true, m.TransitionToDeepHistory(ctx, on)
//	})
//
// Unregistered handlers report "not handled"; entry, exit and initialize hooks default to
// no-ops (initialize routes into a declared initial child when there is one).
//
// The engine is synchronous and performs no locking. Machines must be driven from one
// goroutine at a time.
package hsmx
