package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tfdiagram/pkg/command"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// runLogger returns a child logger tagged with a fresh run identifier so the
// lines of one invocation can be correlated.
func runLogger(l *log.Logger) (*log.Logger, string) {
	id := uuid.NewString()
	return l.With("run", id), id
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Generated 3 diagrams (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

// toolLogHooks logs every external process at debug level. It is installed
// when --verbose is set.
type toolLogHooks struct {
	logger *log.Logger
}

func (h toolLogHooks) OnToolStart(_ context.Context, tool string, args []string) {
	h.logger.Debug("exec", "cmd", command.Line(tool, args...))
}

func (h toolLogHooks) OnToolComplete(_ context.Context, tool string, args []string, exitCode int, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("exec failed", "cmd", command.Line(tool, args...), "exit", exitCode, "took", d.Round(time.Millisecond), "err", err)
		return
	}
	h.logger.Debug("exec done", "cmd", command.Line(tool, args...), "took", d.Round(time.Millisecond))
}
