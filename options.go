package hsmx

import "log/slog"

// DefaultMaxDepth bounds nested TransitionTo calls on one machine.
const DefaultMaxDepth = 256

// Option applies configuration to a Machine via the functional options pattern.
type Option func(*Machine)

// WithLogger configures the structured logger. Dispatch and transition steps are logged
// at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver installs an Observer notified after every dispatch and transition.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		m.observer = o
	}
}

// WithMaxDepth bounds how deeply TransitionTo may nest (initializers transitioning into
// default children, handlers transitioning from hooks). Values below 1 disable the guard.
func WithMaxDepth(depth int) Option {
	return func(m *Machine) {
		m.maxDepth = depth
	}
}
