package hsmx

import (
	"context"
	"fmt"
)

// TransitionTo moves the machine from its active leaf to target.
//
// States are exited leaf-first up to (not including) the lowest common ancestor, the
// active path is rewritten from that ancestor down to target, the new states are entered
// ancestor-first, and finally target is initialized. Initialization may transition again,
// recursively, on the same stack.
//
// When target is the active leaf itself (including the root of a machine that has not
// been entered yet) the target is exited and re-entered. When target is a proper ancestor
// of the active leaf it is neither exited nor entered, only reset and re-initialized.
//
// A target outside the machine's tree yields *InvalidTransitionTargetError and leaves the
// machine untouched: no hook runs and no active pointer changes.
func (m *Machine) TransitionTo(ctx context.Context, target *State) error {
	leaf := m.ActiveLeaf()
	ancestor := LowestCommonAncestor(leaf, target)
	if ancestor == nil {
		err := &InvalidTransitionTargetError{From: leaf.Path(), Target: target.Path()}
		if target == nil {
			err.Target = ""
		}
		m.observeTransition(ctx, TransitionRecord{From: leaf, To: target, Err: err})
		return err
	}
	if m.maxDepth > 0 && m.depth >= m.maxDepth {
		err := fmt.Errorf("transition to %s: %w (limit %d)", target.Path(), ErrTransitionDepthExceeded, m.maxDepth)
		m.observeTransition(ctx, TransitionRecord{From: leaf, To: target, Ancestor: ancestor, Err: err})
		return err
	}
	m.depth++
	defer func() { m.depth-- }()

	self := leaf == target
	rec := TransitionRecord{From: leaf, To: target, Ancestor: ancestor}
	m.logger.DebugContext(ctx, "transition",
		"from", leaf.Path(),
		"to", target.Path(),
		"ancestor", ancestor.Path(),
	)

	// Exit phase, leaf towards the ancestor. A self-transition also leaves the target.
	for s := leaf; s != ancestor; s = s.parent {
		m.exitState(ctx, s)
		rec.Exited = append(rec.Exited, s)
	}
	if self {
		m.exitState(ctx, target)
		rec.Exited = append(rec.Exited, target)
	}

	// Rewire. Only target's own active substate is cleared; deeper memory elsewhere is
	// what the history resolvers restore.
	target.active = nil
	for s := target; s != ancestor; s = s.parent {
		s.parent.active = s
	}

	// Entry phase, ancestor towards target.
	if self {
		m.enterState(ctx, target)
		rec.Entered = append(rec.Entered, target)
	} else {
		for s := ancestor.active; s != nil; s = s.active {
			m.enterState(ctx, s)
			rec.Entered = append(rec.Entered, s)
		}
	}
	m.observeTransition(ctx, rec)

	if err := m.initializeState(ctx, target); err != nil {
		return fmt.Errorf("initialize %s: %w", target.Path(), err)
	}
	return nil
}

func (m *Machine) observeTransition(ctx context.Context, rec TransitionRecord) {
	if rec.Err != nil {
		m.logger.DebugContext(ctx, "transition rejected", "from", rec.From.Path(), "to", rec.To.Path(), "error", rec.Err)
	}
	if m.observer != nil {
		m.observer.ObserveTransition(ctx, m, rec)
	}
}
