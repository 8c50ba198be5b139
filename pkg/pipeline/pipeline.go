// Package pipeline sequences the external tools for every registered
// environment.
//
// # Batch generation
//
// [Runner.GenerateAll] walks the registry in order and, for each
// environment, runs:
//
//  1. Validate: the directory and its main.tf must exist, otherwise the
//     environment is skipped with a warning.
//  2. Init and plan: best effort; failures are logged and ignored.
//  3. SVG capture: the only step whose failure marks the environment failed.
//  4. DOT capture: optional; failures are tolerated silently.
//  5. Cleanup: the plan file is removed whatever happened before.
//
// One bad environment never aborts the batch.
//
// # Serve mode
//
// [Runner.Serve] prepares a single environment and hands the terminal to
// the visualizer's built-in server until the operator interrupts it. The
// plan file is removed on every exit path.
//
// # Usage
//
//	runner := pipeline.NewRunner(root, registry, planner, visualizer, logger)
//	summary := runner.GenerateAll(ctx)
//	path, err := runner.WriteManifest(ctx, summary.Successful, project, time.Now())
package pipeline

import (
	"path/filepath"
	"time"

	"github.com/matzehuels/tfdiagram/pkg/environment"
	"github.com/matzehuels/tfdiagram/pkg/outcome"
)

// DiagramsDirName is the output directory under the project root.
const DiagramsDirName = "diagrams"

// DiagramsDir returns the output directory for root.
func DiagramsDir(root string) string {
	return filepath.Join(root, DiagramsDirName)
}

// Result is the outcome of processing one environment.
type Result struct {
	Environment environment.Descriptor

	// Skipped is set when validation rejected the environment; SkipReason
	// holds the validation error.
	Skipped    bool
	SkipReason error

	// Success is set when the vector diagram was produced.
	Success bool
	SVGPath string
	// DOTPath is empty when the textual graph was not captured.
	DOTPath string

	// Outcomes lists every executed step in order.
	Outcomes []outcome.Outcome
	Duration time.Duration
}

// Outcome returns the outcome of the named step, if it ran.
func (r Result) Outcome(step string) (outcome.Outcome, bool) {
	for _, o := range r.Outcomes {
		if o.Step == step {
			return o, true
		}
	}
	return outcome.Outcome{}, false
}

// Warnings returns the tolerated failures.
func (r Result) Warnings() []outcome.Outcome {
	var ws []outcome.Outcome
	for _, o := range r.Outcomes {
		if o.Severity == outcome.Warn {
			ws = append(ws, o)
		}
	}
	return ws
}

// Summary aggregates a batch run.
type Summary struct {
	// Results holds one entry per environment processed, in registry order.
	Results []Result
	// Successful lists display names whose vector diagram was produced.
	Successful []string
	// Interrupted is the context error if the run was cancelled.
	Interrupted error
	Duration    time.Duration
}

// Skipped returns the results of environments rejected by validation.
func (s Summary) Skipped() []Result {
	var out []Result
	for _, r := range s.Results {
		if r.Skipped {
			out = append(out, r)
		}
	}
	return out
}

// Failed returns the results of validated environments without a diagram.
func (s Summary) Failed() []Result {
	var out []Result
	for _, r := range s.Results {
		if !r.Skipped && !r.Success {
			out = append(out, r)
		}
	}
	return out
}
