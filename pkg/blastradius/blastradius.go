// Package blastradius drives the blast-radius visualizer.
//
// blast-radius reads the Terraform configuration (and plan, when present) in
// its working directory and prints a diagram on stdout. tfdiagram captures
// that output verbatim: --svg for the vector diagram, --dot for the textual
// Graphviz graph. In serve mode blast-radius hosts its own interactive
// viewer and runs until interrupted.
package blastradius

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tfdiagram/pkg/command"
	"github.com/matzehuels/tfdiagram/pkg/errors"
	"github.com/matzehuels/tfdiagram/pkg/observability"
	"github.com/matzehuels/tfdiagram/pkg/outcome"
)

const (
	// DefaultBinary is the visualizer executable.
	DefaultBinary = "blast-radius"

	// DefaultPort is the serve-mode port.
	DefaultPort = 5000
)

// Step names reported in outcomes.
const (
	StepSVG = "svg"
	StepDOT = "dot"
)

// Visualizer runs blast-radius in environment directories.
type Visualizer struct {
	Runner command.Runner
	Binary string
	Logger *log.Logger
}

// New returns a visualizer. An empty binary selects [DefaultBinary]; a nil
// logger selects log.Default().
func New(r command.Runner, binary string, logger *log.Logger) *Visualizer {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Visualizer{Runner: r, Binary: binary, Logger: logger}
}

// SVG captures the vector diagram for dir into out. A failure is recorded
// as a Fail outcome and no file is written.
func (v *Visualizer) SVG(ctx context.Context, dir, out string) outcome.Outcome {
	o := v.capture(ctx, dir, out, StepSVG, "--svg")
	if !o.IsOK() {
		o.Severity = outcome.Fail
	}
	return o
}

// DOT captures the textual graph for dir into out. A failure is tolerated
// and reported as a Warn outcome; no file is written.
func (v *Visualizer) DOT(ctx context.Context, dir, out string) outcome.Outcome {
	return v.capture(ctx, dir, out, StepDOT, "--dot")
}

func (v *Visualizer) capture(ctx context.Context, dir, out, step string, args ...string) outcome.Outcome {
	start := time.Now()
	observability.Tools().OnToolStart(ctx, v.Binary, args)
	res, err := v.Runner.Capture(ctx, dir, v.Binary, args...)
	observability.Tools().OnToolComplete(ctx, v.Binary, args, res.ExitCode, time.Since(start), err)

	if err != nil {
		v.Logger.Debug("blast-radius failed", "step", step, "dir", dir, "exit", res.ExitCode, "err", err)
		return outcome.Warning(step, err, string(res.Stderr))
	}
	if err := os.WriteFile(out, res.Stdout, 0644); err != nil {
		return outcome.Warning(step, fmt.Errorf("write %s: %w", out, err), "")
	}
	v.Logger.Debug("captured diagram", "step", step, "file", out, "bytes", len(res.Stdout))
	return outcome.Ok(step)
}

// ValidatePort checks that port is a usable TCP port number.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return errors.New(errors.ErrCodeInvalidFlag, "invalid port %d (must be 1-65535)", port)
	}
	return nil
}

// ServeArgs returns the serve-mode argument list for port.
func ServeArgs(port int) []string {
	return []string{"--serve", "--port", strconv.Itoa(port)}
}

// Serve runs the interactive server for dir on port and blocks until it
// exits or ctx is cancelled. Cancellation is reported as ctx.Err().
func (v *Visualizer) Serve(ctx context.Context, dir string, port int) error {
	if err := ValidatePort(port); err != nil {
		return err
	}
	args := ServeArgs(port)

	start := time.Now()
	observability.Tools().OnToolStart(ctx, v.Binary, args)
	err := v.Runner.Attach(ctx, dir, v.Binary, args...)
	observability.Tools().OnToolComplete(ctx, v.Binary, args, exitCode(err), time.Since(start), err)

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "%s server", v.Binary)
	}
	return nil
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var ee *command.ExitError
	if stderrors.As(err, &ee) {
		return ee.Code
	}
	return -1
}
