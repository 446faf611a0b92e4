// Command thermometer drives the example thermometer state machine from command line
// arguments or a YAML event script.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"

	"github.com/comalice/hsmx"
	"github.com/comalice/hsmx/examples/thermometer"
	"github.com/comalice/hsmx/internal/logging"
	"github.com/comalice/hsmx/metrics"
	"github.com/comalice/hsmx/visualize"
)

// Version is set during build using ldflags
var Version = "dev"

type loggerKey struct{}

func main() {
	if err := newApp(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "thermometer",
		Version: Version,
		Usage:   "Drive the hsmx thermometer example",
		Writer:  stdout,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (trace, debug, info, warn, error)",
				Sources: cli.EnvVars("HSMX_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   logging.FormatText,
				Usage:   "log format (text, json)",
				Sources: cli.EnvVars("HSMX_LOG_FORMAT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logger, err := logging.New(cmd.String("log-level"), cmd.String("log-format"), cmd.Root().ErrWriter)
			if err != nil {
				return ctx, err
			}
			return context.WithValue(ctx, loggerKey{}, logger), nil
		},
		Commands: []*cli.Command{
			runCommand(),
			{
				Name:  "dot",
				Usage: "Print the chart as Graphviz DOT",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					th, err := thermometer.New(ctx, nil, hsmx.WithLogger(loggerFrom(ctx)))
					if err != nil {
						return err
					}
					_, err = fmt.Fprint(cmd.Root().Writer, visualize.DOT(th.Machine()))
					return err
				},
			},
			{
				Name:  "version",
				Usage: "Print the version information",
				Action: func(_ context.Context, cmd *cli.Command) error {
					_, err := fmt.Fprintf(cmd.Root().Writer, "thermometer version %s\n", cmd.Root().Version)
					return err
				},
			},
		},
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:      "run",
		Usage:     "Dispatch events (e.g. Power Units Temperature=21.5)",
		ArgsUsage: "[EVENT...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "script",
				Aliases: []string{"s"},
				Usage:   "YAML file listing events to dispatch before the arguments",
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print dispatch and transition counters when done",
			},
			&cli.BoolFlag{
				Name:  "tree",
				Value: true,
				Usage: "print the state tree when done",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			var events []hsmx.Event
			if path := cmd.String("script"); path != "" {
				scripted, err := LoadScript(path)
				if err != nil {
					return err
				}
				events = append(events, scripted...)
			}
			fromArgs, err := ParseArgs(cmd.Args().Slice())
			if err != nil {
				return err
			}
			events = append(events, fromArgs...)

			out := cmd.Root().Writer
			reg := prometheus.NewRegistry()
			opts := []hsmx.Option{hsmx.WithLogger(loggerFrom(ctx))}
			if cmd.Bool("metrics") {
				opts = append(opts, hsmx.WithObserver(metrics.NewObserver(reg)))
			}

			th, err := thermometer.New(ctx, out, opts...)
			if err != nil {
				return err
			}
			if err := play(ctx, th, events, loggerFrom(ctx)); err != nil {
				return err
			}

			if cmd.Bool("tree") {
				fmt.Fprintln(out, visualize.Tree(th.Machine()))
			}
			if cmd.Bool("metrics") {
				return printMetrics(out, reg)
			}
			return nil
		},
	}
}

// play dispatches events in order. Unhandled events are reported and skipped; any other
// error aborts.
func play(ctx context.Context, th *thermometer.Thermometer, events []hsmx.Event, logger *slog.Logger) error {
	for _, evt := range events {
		err := th.Dispatch(ctx, evt)
		if err != nil {
			if !errors.Is(err, hsmx.ErrUnhandledEvent) {
				return fmt.Errorf("dispatch %s: %w", evt.Kind, err)
			}
			logger.WarnContext(ctx, "event ignored", "event", evt.Kind, "error", err)
			continue
		}
		logger.InfoContext(ctx, "dispatched", "event", evt.Kind, "state", th.Machine().ActiveLeaf().Path())
	}
	return nil
}

func printMetrics(w io.Writer, reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if m.GetCounter() == nil {
				continue
			}
			labels := ""
			for _, lp := range m.GetLabel() {
				labels += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%s%s %g", mf.GetName(), labels, m.GetCounter().GetValue()))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func loggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
