package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/examples/thermometer"
)

// Script is a YAML list of events to feed to the thermometer:
//
//	events:
//	  - Power
//	  - kind: Temperature
//	    celsius: 21.5
type Script struct {
	Events []ScriptEvent `yaml:"events"`
}

// ScriptEvent is either a bare event kind or a mapping with a kind and payload fields.
type ScriptEvent struct {
	Kind    string   `yaml:"kind"`
	Celsius *float64 `yaml:"celsius,omitempty"`
}

// UnmarshalYAML accepts the scalar shorthand.
func (e *ScriptEvent) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		e.Kind = node.Value
		return nil
	}
	type plain ScriptEvent
	return node.Decode((*plain)(e))
}

// Event converts the script entry into an hsmx.Event.
func (e ScriptEvent) Event() (hsmx.Event, error) {
	if e.Kind == "" {
		return hsmx.Event{}, errors.New("event without kind")
	}
	kind := hsmx.EventKind(e.Kind)
	if kind != thermometer.Temperature {
		if e.Celsius != nil {
			return hsmx.Event{}, fmt.Errorf("event %s does not take a reading", kind)
		}
		return hsmx.NewEvent(kind, nil), nil
	}
	if e.Celsius == nil {
		return hsmx.Event{}, fmt.Errorf("event %s needs celsius", kind)
	}
	return hsmx.NewEvent(kind, thermometer.Reading{Celsius: *e.Celsius}), nil
}

// ParseScript decodes a script.
func ParseScript(r io.Reader) ([]hsmx.Event, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("yaml decode: %w", err)
	}
	events := make([]hsmx.Event, 0, len(s.Events))
	for i, se := range s.Events {
		evt, err := se.Event()
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		events = append(events, evt)
	}
	return events, nil
}

// LoadScript reads a script file.
func LoadScript(path string) ([]hsmx.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ParseScript(f)
}

// ParseArgs converts command line arguments such as "Power" or "Temperature=21.5".
func ParseArgs(args []string) ([]hsmx.Event, error) {
	events := make([]hsmx.Event, 0, len(args))
	for _, arg := range args {
		kind, value, hasValue := strings.Cut(arg, "=")
		se := ScriptEvent{Kind: kind}
		if hasValue {
			c, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return nil, fmt.Errorf("argument %q: %w", arg, err)
			}
			se.Celsius = &c
		}
		evt, err := se.Event()
		if err != nil {
			return nil, fmt.Errorf("argument %q: %w", arg, err)
		}
		events = append(events, evt)
	}
	return events, nil
}
