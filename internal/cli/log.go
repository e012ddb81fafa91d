// Package cli implements the lineage command-line interface.
//
// This package provides commands for laying out family trees, tracing
// bloodlines, rendering the result, serving the engines over HTTP, and
// managing the cache and config file. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute person positions and write a layout.json file
//   - highlight: Trace the bloodline of one person
//   - render: Go from persons to JSON, DOT, SVG, PNG or PDF in one step
//   - visualize: Render a previously computed layout.json
//   - explore: Browse a tree and trace bloodlines interactively
//   - serve: Expose layout, highlight and render over HTTP
//   - cache, config: Manage the cache and the config file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// turns on the per-pass timings of the layout engine. Loggers travel through
// context.Context; command output goes to the command's writer, logs and the
// progress spinner to its error writer.
//
// # Example
//
//	os.Exit(cli.New(os.Stderr, cli.LogInfo).Execute(ctx, os.Args[1:]))
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Every line is prefixed with the
// application name and stamped with a centisecond clock.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          appName,
	})
}

// levelFor maps the --verbose flag to a log level.
func levelFor(verbose bool) log.Level {
	if verbose {
		return LogDebug
	}
	return LogInfo
}

// progress times one step of a command, such as loading persons.
type progress struct {
	logger *log.Logger
	step   string
	start  time.Time
}

func newProgress(l *log.Logger, step string) *progress {
	return &progress{logger: l, step: step, start: time.Now()}
}

// done logs the outcome of the step with its elapsed time as a field:
//
//	lineage: Loaded 1204 persons step=load elapsed=231ms
func (p *progress) done(format string, args ...any) {
	p.logger.Info(fmt.Sprintf(format, args...),
		"step", p.step,
		"elapsed", time.Since(p.start).Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the logger attached by the root command, or a
// logger that discards everything when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.New(io.Discard)
}
