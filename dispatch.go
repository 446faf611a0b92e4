package hsmx

import (
	"context"
	"fmt"
	"time"
)

// Dispatch delivers evt to the active leaf and bubbles it towards the root until a
// handler reports it handled. Exactly one handler reports handled per event; ancestors
// above it are not consulted.
//
// If every state declines, Dispatch returns an *UnhandledEventError. A handler error
// stops bubbling and is returned wrapped.
func (m *Machine) Dispatch(ctx context.Context, evt Event) error {
	start := time.Now()
	rec := DispatchRecord{Event: evt.Kind}

	err := m.dispatch(ctx, evt, &rec)

	rec.Err = err
	rec.Duration = time.Since(start)
	if m.observer != nil {
		m.observer.ObserveDispatch(ctx, m, rec)
	}
	return err
}

func (m *Machine) dispatch(ctx context.Context, evt Event, rec *DispatchRecord) error {
	for s := m.ActiveLeaf(); s != nil; s = s.parent {
		rec.Visited++
		h := m.handlerFor(s, evt.Kind)
		if h == nil {
			continue
		}
		handled, err := h(ctx, m, s, evt)
		if err != nil {
			return fmt.Errorf("handle %q in %s: %w", evt.Kind, s.Path(), err)
		}
		if handled {
			rec.HandledBy = s
			m.logger.DebugContext(ctx, "event handled", "event", evt.Kind, "state", s.Path())
			return nil
		}
	}

	m.logger.DebugContext(ctx, "event unhandled", "event", evt.Kind, "root", m.root.kind)
	return &UnhandledEventError{Event: evt.Kind, Root: m.root.kind}
}
