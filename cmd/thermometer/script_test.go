package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/examples/thermometer"
)

func TestParseScript(t *testing.T) {
	const src = `
events:
  - Power
  - kind: Temperature
    celsius: 21.5
  - kind: Units
`
	events, err := ParseScript(strings.NewReader(src))
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, thermometer.Power, events[0].Kind)
	assert.Nil(t, events[0].Payload)
	assert.Equal(t, thermometer.Temperature, events[1].Kind)
	assert.Equal(t, thermometer.Reading{Celsius: 21.5}, events[1].Payload)
	assert.Equal(t, thermometer.Units, events[2].Kind)
}

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"temperature without reading", "events:\n  - Temperature\n", "needs celsius"},
		{"reading on other event", "events:\n  - kind: Power\n    celsius: 3\n", "does not take a reading"},
		{"missing kind", "events:\n  - celsius: 3\n", "without kind"},
		{"unknown field", "events:\n  - kind: Power\n    volts: 3\n", "yaml decode"},
		{"not a list", "events: Power\n", "yaml decode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript(strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseScriptEmpty(t *testing.T) {
	events, err := ParseScript(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.yaml")
	require.NoError(t, os.WriteFile(path, []byte("events: [Power, Units]\n"), 0o600))

	events, err := LoadScript(path)
	require.NoError(t, err)
	assert.Equal(t, []hsmx.Event{
		hsmx.NewEvent(thermometer.Power, nil),
		hsmx.NewEvent(thermometer.Units, nil),
	}, events)

	_, err = LoadScript(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseArgs(t *testing.T) {
	events, err := ParseArgs([]string{"Power", "Temperature=-4.5", "Units"})
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, thermometer.Reading{Celsius: -4.5}, events[1].Payload)

	_, err = ParseArgs([]string{"Temperature=warm"})
	assert.ErrorContains(t, err, `argument "Temperature=warm"`)

	_, err = ParseArgs([]string{"Temperature"})
	assert.ErrorContains(t, err, "needs celsius")
}
