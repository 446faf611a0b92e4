package hsmx_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx"
)

func TestShallowHistoryNeverVisited(t *testing.T) {
	c := newChart(t).started(t)

	require.NoError(t, c.m.TransitionToShallowHistory(t.Context(), c.l1))

	assert.Same(t, c.l1, c.m.ActiveLeaf())
	assertTrace(t, c.rec, "exit Start", "enter L1")
}

func TestShallowHistoryRestoresOneLevel(t *testing.T) {
	c := newChart(t).started(t)
	ctx := t.Context()

	require.NoError(t, c.m.TransitionTo(ctx, c.l3))
	require.NoError(t, c.m.TransitionTo(ctx, c.start))

	// Exiting keeps the active pointers below L1 in place.
	assert.Same(t, c.l2, c.l1.ActiveSubstate())
	assert.Same(t, c.l3, c.l2.ActiveSubstate())
	c.rec.Reset()

	require.NoError(t, c.m.TransitionToShallowHistory(ctx, c.l1))

	assert.Same(t, c.l2, c.m.ActiveLeaf())
	assert.Nil(t, c.l2.ActiveSubstate(), "shallow history forgets below the restored child")
	assertTrace(t, c.rec, "exit Start", "enter L1", "enter L1.L2")
}

func TestDeepHistoryRestoresFullChain(t *testing.T) {
	c := newChart(t).started(t)
	ctx := t.Context()

	require.NoError(t, c.m.TransitionTo(ctx, c.l3))
	require.NoError(t, c.m.TransitionTo(ctx, c.start))
	c.rec.Reset()

	require.NoError(t, c.m.TransitionToDeepHistory(ctx, c.l1))

	assert.Same(t, c.l3, c.m.ActiveLeaf())
	assertTrace(t, c.rec, "exit Start", "enter L1", "enter L1.L2", "enter L1.L2.L3")
}

func TestDeepHistoryNeverVisited(t *testing.T) {
	c := newChart(t).started(t)

	require.NoError(t, c.m.TransitionToDeepHistory(t.Context(), c.l1))
	assert.Same(t, c.l1, c.m.ActiveLeaf())
}

func TestHistoryAfterShallowForgetsDeeperLevels(t *testing.T) {
	c := newChart(t).started(t)
	ctx := t.Context()

	require.NoError(t, c.m.TransitionTo(ctx, c.l3))
	require.NoError(t, c.m.TransitionTo(ctx, c.start))
	require.NoError(t, c.m.TransitionToShallowHistory(ctx, c.l1))
	require.NoError(t, c.m.TransitionTo(ctx, c.start))

	require.NoError(t, c.m.TransitionToDeepHistory(ctx, c.l1))
	assert.Same(t, c.l2, c.m.ActiveLeaf())
}

func TestHistoryResolvers(t *testing.T) {
	c := newChart(t).started(t)
	ctx := t.Context()
	require.NoError(t, c.m.TransitionTo(ctx, c.l3))
	require.NoError(t, c.m.TransitionTo(ctx, c.start))

	assert.Same(t, c.l2, hsmx.ShallowHistory(c.l1))
	assert.Same(t, c.l3, hsmx.DeepHistory(c.l1))
	assert.Same(t, c.l3, hsmx.ShallowHistory(c.l3))
	assert.Nil(t, hsmx.ShallowHistory(nil))
	assert.Nil(t, hsmx.DeepHistory(nil))

	assert.ErrorIs(t, c.m.TransitionToDeepHistory(ctx, nil), hsmx.ErrInvalidTransitionTarget)
	assert.ErrorIs(t, c.m.TransitionToShallowHistory(ctx, nil), hsmx.ErrInvalidTransitionTarget)
}
