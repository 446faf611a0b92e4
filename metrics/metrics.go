// Package metrics provides a Prometheus hsmx.Observer.
//
// Labels are limited to the machine (root) name, event kind and result; state paths are
// deliberately not used as labels to keep cardinality bounded by the chart.
package metrics

import (
	"context"
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/hsmx"
)

// Result label values.
const (
	ResultHandled   = "handled"
	ResultUnhandled = "unhandled"
	ResultError     = "error"
	ResultOK        = "ok"
	ResultInvalid   = "invalid_target"
)

// Observer records dispatch and transition metrics.
type Observer struct {
	DispatchTotal    *prometheus.CounterVec
	DispatchDuration *prometheus.HistogramVec
	BubbleDepth      *prometheus.HistogramVec
	TransitionTotal  *prometheus.CounterVec
	TransitionSteps  *prometheus.HistogramVec
}

// NewObserver registers the hsmx metrics with reg. A nil reg uses
// prometheus.DefaultRegisterer.
func NewObserver(reg prometheus.Registerer) *Observer {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Observer{
		DispatchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hsmx_dispatch_total",
			Help: "Total number of dispatched events, by machine, event kind and result.",
		}, []string{"machine", "event", "result"}),
		DispatchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hsmx_dispatch_duration_seconds",
			Help:    "Time spent dispatching an event, including the transitions it triggered.",
			Buckets: prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"machine"}),
		BubbleDepth: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hsmx_dispatch_states_visited",
			Help:    "Number of states consulted before an event was handled or rejected.",
			Buckets: prometheus.LinearBuckets(1, 1, 8),
		}, []string{"machine"}),
		TransitionTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "hsmx_transitions_total",
			Help: "Total number of transition steps, by machine and result.",
		}, []string{"machine", "result"}),
		TransitionSteps: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hsmx_transition_hooks",
			Help:    "Number of exit and entry hooks run by a transition step.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}, []string{"machine"}),
	}
}

// ObserveDispatch implements hsmx.Observer.
func (o *Observer) ObserveDispatch(_ context.Context, m *hsmx.Machine, rec hsmx.DispatchRecord) {
	machine := m.Root().Name()
	result := ResultHandled
	switch {
	case errors.Is(rec.Err, hsmx.ErrUnhandledEvent):
		result = ResultUnhandled
	case rec.Err != nil:
		result = ResultError
	}
	o.DispatchTotal.WithLabelValues(machine, string(rec.Event), result).Inc()
	o.DispatchDuration.WithLabelValues(machine).Observe(rec.Duration.Seconds())
	o.BubbleDepth.WithLabelValues(machine).Observe(float64(rec.Visited))
}

// ObserveTransition implements hsmx.Observer.
func (o *Observer) ObserveTransition(_ context.Context, m *hsmx.Machine, rec hsmx.TransitionRecord) {
	machine := m.Root().Name()
	result := ResultOK
	switch {
	case errors.Is(rec.Err, hsmx.ErrInvalidTransitionTarget):
		result = ResultInvalid
	case rec.Err != nil:
		result = ResultError
	}
	o.TransitionTotal.WithLabelValues(machine, result).Inc()
	if rec.Err == nil {
		o.TransitionSteps.WithLabelValues(machine).Observe(float64(len(rec.Exited) + len(rec.Entered)))
	}
}
