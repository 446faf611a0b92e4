// Package logging builds the slog loggers used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// Formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ParseLevel maps a level name to a slog level. "trace" is debug with caller info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "trace", "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}

// TextHandler returns a charmbracelet/log handler. Debug and trace levels add
// timestamps; trace also reports the caller.
func TextHandler(level string, w io.Writer) (slog.Handler, error) {
	if w == nil {
		w = os.Stderr
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	trace := strings.EqualFold(strings.TrimSpace(level), "trace")
	return log.NewWithOptions(w, log.Options{
		Level:           log.Level(lvl),
		ReportTimestamp: lvl <= slog.LevelDebug,
		ReportCaller:    trace,
	}), nil
}

// JSONHandler returns a slog JSON handler.
func JSONHandler(level string, w io.Writer) (slog.Handler, error) {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: strings.EqualFold(strings.TrimSpace(level), "trace"),
	}), nil
}

// New builds a logger for the given level and format (text or json).
func New(level, format string, w io.Writer) (*slog.Logger, error) {
	var (
		h   slog.Handler
		err error
	)
	switch strings.ToLower(format) {
	case "", FormatText:
		h, err = TextHandler(level, w)
	case FormatJSON:
		h, err = JSONHandler(level, w)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}
	if err != nil {
		return nil, err
	}
	return slog.New(h), nil
}
