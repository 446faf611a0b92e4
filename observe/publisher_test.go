package observe

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/testutil"
)

func buildMachine(t *testing.T, o hsmx.Observer) *hsmx.Machine {
	t.Helper()
	b := hsmx.NewBuilder("light")
	b.Root().Initial("red")
	b.State("red").Transition("timer", "green")
	b.State("green").Transition("timer", "red")
	m, err := b.Build(hsmx.WithObserver(o))
	require.NoError(t, err)
	return m
}

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan Notification, 10)
	p := NewChannelPublisher(ch)
	m := buildMachine(t, p)
	ctx := t.Context()

	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Dispatch(ctx, hsmx.NewEvent("timer", nil)))

	var got []Notification
	for len(ch) > 0 {
		got = append(got, <-ch)
	}

	// start: root self-transition, initial red; timer: red -> green, then the dispatch.
	require.Len(t, got, 4)
	for _, n := range got {
		assert.Equal(t, "light", n.Machine)
		assert.Equal(t, m.ID().String(), n.Instance)
		assert.WithinDuration(t, time.Now(), n.Timestamp, time.Minute)
	}
	require.NotNil(t, got[0].Transition)
	assert.Same(t, m.Root(), got[0].Transition.To)
	require.NotNil(t, got[1].Transition)
	assert.Equal(t, "red", got[1].Transition.To.Path())
	require.NotNil(t, got[2].Transition)
	assert.Equal(t, []string{"red"}, testutil.Paths(got[2].Transition.Exited))
	assert.Equal(t, []string{"green"}, testutil.Paths(got[2].Transition.Entered))
	require.NotNil(t, got[3].Dispatch)
	assert.Nil(t, got[3].Transition)
	assert.Equal(t, hsmx.EventKind("timer"), got[3].Dispatch.Event)
	assert.Equal(t, "red", got[3].Dispatch.HandledBy.Path())
	assert.Zero(t, p.Dropped())
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan Notification, 1)
	p := NewChannelPublisher(ch)
	m := buildMachine(t, p)

	require.NoError(t, m.Start(t.Context()))

	assert.Len(t, ch, 1)
	assert.Equal(t, uint64(1), p.Dropped())
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan Notification, 1)
	p := NewChannelPublisher(ch)

	require.NoError(t, p.Close())
	_, open := <-ch
	assert.False(t, open)

	require.NoError(t, p.Close(), "closing twice is a no-op")
}

func TestChannelPublisher_PublishAfterClose(t *testing.T) {
	ch := make(chan Notification, 10)
	p := NewChannelPublisher(ch)
	m := buildMachine(t, p)
	require.NoError(t, p.Close())

	assert.NotPanics(t, func() {
		require.NoError(t, m.Start(t.Context()))
	})
	assert.Equal(t, uint64(2), p.Dropped())
}

func TestChannelPublisher_DroppedFromConsumer(t *testing.T) {
	ch := make(chan Notification)
	p := NewChannelPublisher(ch)
	m := buildMachine(t, p)
	ctx := t.Context()

	done := make(chan uint64)
	go func() {
		var last uint64
		for range 100 {
			last = p.Dropped()
		}
		done <- last
	}()

	require.NoError(t, m.Start(ctx))
	for range 10 {
		require.NoError(t, m.Dispatch(ctx, hsmx.NewEvent("timer", nil)))
	}
	<-done
	// Unbuffered with no reader: start records two transitions, each dispatch one
	// transition and one dispatch record.
	assert.Equal(t, uint64(22), p.Dropped())
}

func TestFanout(t *testing.T) {
	first := testutil.NewRecorder()
	second := testutil.NewRecorder()
	m := buildMachine(t, NewFanout(first, nil, second))
	ctx := t.Context()

	require.NoError(t, m.Start(ctx))
	require.NoError(t, m.Dispatch(ctx, hsmx.NewEvent("timer", nil)))

	for _, r := range []*testutil.Recorder{first, second} {
		assert.Len(t, r.Transitions(), 3)
		assert.Len(t, r.Dispatches(), 1)
	}
}
