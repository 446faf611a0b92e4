package hsmx

import "context"

// TransitionToShallowHistory re-enters s at its most recently active child, or at s
// itself if none was ever recorded. Only one level of memory is restored; the child's own
// active substate is cleared by the transition.
func (m *Machine) TransitionToShallowHistory(ctx context.Context, s *State) error {
	return m.TransitionTo(ctx, ShallowHistory(s))
}

// TransitionToDeepHistory re-enters s at the deepest state of its last active chain.
func (m *Machine) TransitionToDeepHistory(ctx context.Context, s *State) error {
	return m.TransitionTo(ctx, DeepHistory(s))
}

// ShallowHistory resolves the shallow history target of s without transitioning.
func ShallowHistory(s *State) *State {
	if s == nil {
		return nil
	}
	if s.active != nil {
		return s.active
	}
	return s
}

// DeepHistory resolves the deep history target of s without transitioning.
func DeepHistory(s *State) *State {
	if s == nil {
		return nil
	}
	for s.active != nil {
		s = s.active
	}
	return s
}
