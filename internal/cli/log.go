// Package cli implements the cardpress command-line interface.
//
// The CLI is built using cobra and logs through charmbracelet/log. Status
// summaries go to stdout, log lines to stderr.
//
// # Commands
//
//   - build: wipe the card folder, render every record and write the PDF sheet
//   - render: wipe the card folder and render every record
//   - sheet: tile an existing card folder onto PDF pages
//   - records: preview the parsed input table
//   - layout: list presets or print one as TOML
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which reports
// font and illustration fallbacks. Loggers are passed through
// context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// newLogger creates the logger every command writes its progress to.
//
// Timestamps are "HH:MM:SS.ms" (e.g. "14:32:01.45"). The keys the pipeline
// logs per card and per page are coloured with the status palette so the
// file paths stand out in a long run.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	l := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	styles := log.DefaultStyles()
	styles.Values["path"] = lipgloss.NewStyle().Foreground(colorCyan)
	styles.Values["page"] = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	styles.Keys["card"] = lipgloss.NewStyle().Foreground(colorGray)
	l.SetStyles(styles)
	return l
}

// progress times one command and logs its closing line.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with keyvals and the elapsed time, e.g.
//
//	14:32:05.12 INFO Build complete cards=42 pages=8 elapsed=1.234s
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx. The root command does this before any
// subcommand runs, so every pipeline step logs through the CLI logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by withLogger, or
// log.Default() when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
