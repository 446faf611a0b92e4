// Package testutil provides helpers for testing code built on hsmx.
package testutil

import (
	"context"
	"sync"

	"github.com/comalice/hsmx"
)

// Recorder captures the order in which hooks fire and the records an hsmx.Observer
// receives. Attach it to a machine with Attach and install it with hsmx.WithObserver.
type Recorder struct {
	mu          sync.Mutex
	trace       []string
	dispatches  []hsmx.DispatchRecord
	transitions []hsmx.TransitionRecord
}

// NewRecorder returns an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Attach registers entry and exit hooks for the kind of every state in m's tree,
// recording "enter <path>" and "exit <path>". It replaces hooks already registered for
// those kinds.
func (r *Recorder) Attach(m *hsmx.Machine) {
	var walk func(s *hsmx.State)
	walk = func(s *hsmx.State) {
		m.OnEntry(s.Kind(), func(_ context.Context, _ *hsmx.Machine, s *hsmx.State) {
			r.record("enter " + s.Path())
		})
		m.OnExit(s.Kind(), func(_ context.Context, _ *hsmx.Machine, s *hsmx.State) {
			r.record("exit " + s.Path())
		})
		for _, c := range s.Children() {
			walk(c)
		}
	}
	walk(m.Root())
}

// Mark appends an arbitrary entry to the trace, e.g. from a handler under test.
func (r *Recorder) Mark(entry string) {
	r.record(entry)
}

func (r *Recorder) record(entry string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = append(r.trace, entry)
}

// Trace returns the hook trace recorded so far.
func (r *Recorder) Trace() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.trace...)
}

// Reset clears everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trace = nil
	r.dispatches = nil
	r.transitions = nil
}

// Dispatches returns the dispatch records observed so far.
func (r *Recorder) Dispatches() []hsmx.DispatchRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hsmx.DispatchRecord(nil), r.dispatches...)
}

// Transitions returns the transition records observed so far.
func (r *Recorder) Transitions() []hsmx.TransitionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]hsmx.TransitionRecord(nil), r.transitions...)
}

// ObserveDispatch implements hsmx.Observer.
func (r *Recorder) ObserveDispatch(_ context.Context, _ *hsmx.Machine, rec hsmx.DispatchRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dispatches = append(r.dispatches, rec)
}

// ObserveTransition implements hsmx.Observer.
func (r *Recorder) ObserveTransition(_ context.Context, _ *hsmx.Machine, rec hsmx.TransitionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transitions = append(r.transitions, rec)
}

// Paths converts states to their paths, for comparing records.
func Paths(states []*hsmx.State) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, s.Path())
	}
	return out
}
