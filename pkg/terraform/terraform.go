// Package terraform drives the Terraform CLI for diagram generation.
//
// Only two subcommands are used: init with the remote backend disabled, and
// plan writing a local plan file. Both are best effort. Diagrams can be drawn
// from the configuration alone, so a plan that fails for lack of cloud
// credentials must not stop generation.
package terraform

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tfdiagram/pkg/command"
	"github.com/matzehuels/tfdiagram/pkg/observability"
	"github.com/matzehuels/tfdiagram/pkg/outcome"
)

const (
	// DefaultBinary is the planner executable.
	DefaultBinary = "terraform"

	// PlanFile is the transient plan artifact written into the environment.
	PlanFile = "tfplan"
)

// Step names reported in outcomes.
const (
	StepInit = "init"
	StepPlan = "plan"
)

// Planner runs terraform in environment directories.
type Planner struct {
	Runner command.Runner
	Binary string
	Logger *log.Logger
}

// New returns a planner. An empty binary selects [DefaultBinary]; a nil
// logger selects log.Default().
func New(r command.Runner, binary string, logger *log.Logger) *Planner {
	if binary == "" {
		binary = DefaultBinary
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Planner{Runner: r, Binary: binary, Logger: logger}
}

// InitArgs and PlanArgs are the exact argument lists passed to terraform.
var (
	InitArgs = []string{"init", "-backend=false"}
	PlanArgs = []string{"plan", "-out=" + PlanFile}
)

// Init runs terraform init without a backend. Failure yields a Warn outcome.
func (p *Planner) Init(ctx context.Context, dir string) outcome.Outcome {
	return p.run(ctx, dir, StepInit, InitArgs)
}

// Plan writes the plan file. Failure yields a Warn outcome.
func (p *Planner) Plan(ctx context.Context, dir string) outcome.Outcome {
	return p.run(ctx, dir, StepPlan, PlanArgs)
}

func (p *Planner) run(ctx context.Context, dir, step string, args []string) outcome.Outcome {
	start := time.Now()
	observability.Tools().OnToolStart(ctx, p.Binary, args)
	res, err := p.Runner.Capture(ctx, dir, p.Binary, args...)
	observability.Tools().OnToolComplete(ctx, p.Binary, args, res.ExitCode, time.Since(start), err)

	if err != nil {
		p.Logger.Debug("terraform step failed", "step", step, "dir", dir, "exit", res.ExitCode, "err", err)
		return outcome.Warning(step, err, string(res.Stderr))
	}
	p.Logger.Debug("terraform step done", "step", step, "dir", dir)
	return outcome.Ok(step)
}

// Cleanup removes the plan file from dir. It is safe to call when the file
// does not exist.
func Cleanup(dir string) error {
	err := os.Remove(filepath.Join(dir, PlanFile))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Plan is an acquired plan artifact. Release removes it; it is safe to call
// Release more than once.
type Plan struct {
	Dir      string
	Init     outcome.Outcome
	Planned  outcome.Outcome
	once     sync.Once
	cleanErr error
}

// AcquirePlan initializes dir and writes a plan. Both steps are best effort;
// the returned Plan is always non-nil and must be released.
func (p *Planner) AcquirePlan(ctx context.Context, dir string) *Plan {
	return &Plan{
		Dir:     dir,
		Init:    p.Init(ctx, dir),
		Planned: p.Plan(ctx, dir),
	}
}

// Release removes the plan file.
func (pl *Plan) Release() error {
	pl.once.Do(func() {
		pl.cleanErr = Cleanup(pl.Dir)
	})
	return pl.cleanErr
}
