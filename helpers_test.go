package hsmx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/testutil"
)

// chart is the four-level tree used across tests:
//
//	M
//	├── Start
//	└── L1
//	    └── L2
//	        └── L3
type chart struct {
	m     *hsmx.Machine
	rec   *testutil.Recorder
	root  *hsmx.State
	start *hsmx.State
	l1    *hsmx.State
	l2    *hsmx.State
	l3    *hsmx.State
}

func (c *chart) all() []*hsmx.State {
	return []*hsmx.State{c.root, c.start, c.l1, c.l2, c.l3}
}

func newChart(t *testing.T, opts ...hsmx.Option) *chart {
	t.Helper()
	c := &chart{rec: testutil.NewRecorder()}
	c.root = hsmx.NewState("M", "M", nil)
	c.start = hsmx.NewState("Start", "Start", c.root)
	c.l1 = hsmx.NewState("L1", "L1", c.root)
	c.l2 = hsmx.NewState("L2", "L2", c.l1)
	c.l3 = hsmx.NewState("L3", "L3", c.l2)

	opts = append([]hsmx.Option{hsmx.WithObserver(c.rec)}, opts...)
	m, err := hsmx.NewMachine(c.root, opts...)
	require.NoError(t, err)
	c.m = m
	c.rec.Attach(m)
	return c
}

// started enters the chart at Start and clears the recorder.
func (c *chart) started(t *testing.T) *chart {
	t.Helper()
	c.root.SetInitial(c.start)
	require.NoError(t, c.m.Start(t.Context()))
	require.Equal(t, c.start, c.m.ActiveLeaf())
	c.rec.Reset()
	return c
}
