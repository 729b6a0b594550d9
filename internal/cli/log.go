// Package cli implements the repertree command-line interface.
//
// The commands convert repertoire files into PGN, print or render the
// converted move tree, browse it interactively, serve the HTTP API, and
// manage the export cache. The CLI is built using cobra and logs through
// charmbracelet/log; --verbose (-v) turns on debug output.
//
// # Commands
//
//   - export: Write repertoire files as PGN documents
//   - tree: Print the move tree as an outline
//   - render: Draw the move tree as SVG or Graphviz DOT
//   - browse: Navigate the move tree in the terminal
//   - serve: Run the HTTP API
//   - cache: Manage the export cache
//
// # Configuration
//
// Settings are layered: defaults, then $XDG_CONFIG_HOME/repertree/config.yaml
// (or --config), then REPERTREE_* environment variables, then flags.
//
// # Logging
//
// Loggers are passed through context.Context so long-running commands and
// the server share the root command's logger.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger writing to w at level, stamped "15:04:05.00".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times an operation whose outcome is already shown as a status
// line; the elapsed time only appears with --verbose.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Exported 3 repertoire(s) (12ms)".
func (p *progress) done(msg string) {
	p.logger.Debugf("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx == nil {
		return log.Default()
	}
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
