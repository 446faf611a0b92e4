package observe

import (
	"context"

	"github.com/comalice/hsmx"
)

// Fanout notifies several observers in order.
type Fanout []hsmx.Observer

// NewFanout drops nil observers and returns the rest as one Observer.
func NewFanout(observers ...hsmx.Observer) Fanout {
	out := make(Fanout, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

// ObserveDispatch implements hsmx.Observer.
func (f Fanout) ObserveDispatch(ctx context.Context, m *hsmx.Machine, rec hsmx.DispatchRecord) {
	for _, o := range f {
		o.ObserveDispatch(ctx, m, rec)
	}
}

// ObserveTransition implements hsmx.Observer.
func (f Fanout) ObserveTransition(ctx context.Context, m *hsmx.Machine, rec hsmx.TransitionRecord) {
	for _, o := range f {
		o.ObserveTransition(ctx, m, rec)
	}
}
