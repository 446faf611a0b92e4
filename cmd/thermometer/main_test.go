package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp(&out)
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(t.Context(), append([]string{"thermometer", "--log-level", "error"}, args...))
	return out.String(), err
}

func TestRunArgs(t *testing.T) {
	out, err := run(t, "run", "--tree=false", "Power", "Temperature=21.5", "Units", "Power")
	require.NoError(t, err)
	assert.Equal(t, "--- °C\n21.5 °C\n70.7 °F\n[blank]\n", out)
}

func TestRunScriptThenArgs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.yaml")
	script := "events:\n  - Power\n  - Units\n  - Units\n  - Power\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o600))

	// Deep history brings the thermometer back in Kelvin.
	out, err := run(t, "run", "--tree=false", "--script", path, "Power")
	require.NoError(t, err)
	assert.Equal(t, "--- °C\n--- °F\n--- K\n[blank]\n--- K\n", out)
}

func TestRunSkipsUnhandledEvents(t *testing.T) {
	out, err := run(t, "run", "--tree=false", "Reset", "Power")
	require.NoError(t, err)
	assert.Equal(t, "--- °C\n", out)
}

func TestRunPrintsTree(t *testing.T) {
	out, err := run(t, "run", "Power")
	require.NoError(t, err)
	assert.Contains(t, out, "Celsius")
	assert.Contains(t, out, "●")
}

func TestRunMetrics(t *testing.T) {
	out, err := run(t, "run", "--tree=false", "--metrics", "Power", "Reset")
	require.NoError(t, err)
	assert.Contains(t, out, "hsmx_dispatch_total event=Power machine=Thermometer result=handled 1")
	assert.Contains(t, out, "hsmx_dispatch_total event=Reset machine=Thermometer result=unhandled 1")
	assert.Contains(t, out, "hsmx_transitions_total machine=Thermometer result=ok")
}

func TestRunRejectsBadArguments(t *testing.T) {
	_, err := run(t, "run", "Temperature=hot")
	assert.Error(t, err)

	_, err = run(t, "run", "--script", filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestDot(t *testing.T) {
	out, err := run(t, "dot")
	require.NoError(t, err)
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "[H*]")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "thermometer version dev\n", out)
}

func TestBadLogFormat(t *testing.T) {
	var out bytes.Buffer
	app := newApp(&out)
	app.ErrWriter = &bytes.Buffer{}
	err := app.Run(t.Context(), []string{"thermometer", "--log-format", "xml", "version"})
	assert.ErrorContains(t, err, "unknown log format")
}
