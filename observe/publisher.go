// Package observe provides hsmx.Observer implementations for forwarding machine
// activity to other parts of an application.
package observe

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/comalice/hsmx"
)

// Notification bundles a dispatch or transition record with the machine it came from.
// Exactly one of Dispatch and Transition is set.
type Notification struct {
	Machine    string
	Instance   string
	Dispatch   *hsmx.DispatchRecord
	Transition *hsmx.TransitionRecord
	Timestamp  time.Time
}

// ChannelPublisher forwards notifications to a Go channel.
// Publishing never blocks: notifications are dropped when the channel is full or the
// publisher has been closed. Dropped may be read from any goroutine.
type ChannelPublisher struct {
	mu      sync.Mutex
	ch      chan<- Notification
	closed  bool
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- Notification) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// ObserveDispatch implements hsmx.Observer.
func (p *ChannelPublisher) ObserveDispatch(ctx context.Context, m *hsmx.Machine, rec hsmx.DispatchRecord) {
	n := notification(m)
	n.Dispatch = &rec
	p.publish(ctx, n)
}

// ObserveTransition implements hsmx.Observer.
func (p *ChannelPublisher) ObserveTransition(ctx context.Context, m *hsmx.Machine, rec hsmx.TransitionRecord) {
	n := notification(m)
	n.Transition = &rec
	p.publish(ctx, n)
}

// Dropped returns how many notifications were discarded because the channel was full.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel. Later notifications are counted as dropped.
// Closing twice is a no-op.
func (p *ChannelPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.closed {
		p.closed = true
		close(p.ch)
	}
	return nil
}

func (p *ChannelPublisher) publish(ctx context.Context, n Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.dropped.Add(1)
		return
	}
	select {
	case p.ch <- n:
	case <-ctx.Done():
		p.dropped.Add(1)
	default:
		p.dropped.Add(1)
	}
}

func notification(m *hsmx.Machine) Notification {
	return Notification{
		Machine:   m.Root().Name(),
		Instance:  m.ID().String(),
		Timestamp: time.Now(),
	}
}
