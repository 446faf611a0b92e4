package hsmx

import (
	"errors"
	"fmt"
)

var (
	// ErrUnhandledEvent is returned by Dispatch when no state on the active path
	// handled the event.
	ErrUnhandledEvent = errors.New("unhandled event")

	// ErrInvalidTransitionTarget is returned when a transition target shares no
	// ancestor with the active leaf.
	ErrInvalidTransitionTarget = errors.New("invalid transition target")

	// ErrTransitionDepthExceeded is returned when nested transitions exceed the
	// machine's depth limit, usually an initializer cycle.
	ErrTransitionDepthExceeded = errors.New("transition depth exceeded")
)

// UnhandledEventError names the event that bubbled past the root and the root's kind.
type UnhandledEventError struct {
	Event EventKind
	Root  StateKind
}

func (e *UnhandledEventError) Error() string {
	return fmt.Sprintf("event %q not handled by any active state; root %q has no handler for it", e.Event, e.Root)
}

func (e *UnhandledEventError) Unwrap() error { return ErrUnhandledEvent }

// InvalidTransitionTargetError describes a rejected transition. The machine is unchanged.
type InvalidTransitionTargetError struct {
	From   string
	Target string
}

func (e *InvalidTransitionTargetError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("transition from %q: nil target", e.From)
	}
	return fmt.Sprintf("transition from %q to %q: target is not part of this machine", e.From, e.Target)
}

func (e *InvalidTransitionTargetError) Unwrap() error { return ErrInvalidTransitionTarget }
