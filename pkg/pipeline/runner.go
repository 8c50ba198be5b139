package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tfdiagram/pkg/blastradius"
	"github.com/matzehuels/tfdiagram/pkg/environment"
	"github.com/matzehuels/tfdiagram/pkg/errors"
	"github.com/matzehuels/tfdiagram/pkg/manifest"
	"github.com/matzehuels/tfdiagram/pkg/observability"
	"github.com/matzehuels/tfdiagram/pkg/outcome"
	"github.com/matzehuels/tfdiagram/pkg/render"
	"github.com/matzehuels/tfdiagram/pkg/terraform"
)

// Step names for outcomes produced by the runner itself.
const (
	StepPrepare  = "prepare"
	StepValidate = "validate-dot"
	StepCleanup  = "cleanup"
)

// Runner drives the planner and visualizer over a registry.
//
// A Runner holds no state between calls; every method works only from its
// arguments, the registry and the filesystem.
type Runner struct {
	Root       string
	Registry   environment.Registry
	Planner    *terraform.Planner
	Visualizer *blastradius.Visualizer
	Logger     *log.Logger
}

// NewRunner creates a runner. If logger is nil, log.Default() is used.
func NewRunner(root string, reg environment.Registry, planner *terraform.Planner, viz *blastradius.Visualizer, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Root:       root,
		Registry:   reg,
		Planner:    planner,
		Visualizer: viz,
		Logger:     logger,
	}
}

// DiagramsDir returns the runner's output directory.
func (r *Runner) DiagramsDir() string {
	return DiagramsDir(r.Root)
}

// GenerateAll processes every registered environment in order. It stops
// early only when ctx is cancelled.
func (r *Runner) GenerateAll(ctx context.Context) Summary {
	start := time.Now()
	r.Logger.Info("generating diagrams for all environments", "count", r.Registry.Len())

	var s Summary
	for _, d := range r.Registry.All() {
		if ctx.Err() != nil {
			break
		}
		res := r.GenerateEnvironment(ctx, d)
		s.Results = append(s.Results, res)
		if res.Success {
			s.Successful = append(s.Successful, d.Name)
		}
	}
	s.Interrupted = ctx.Err()
	s.Duration = time.Since(start)
	return s
}

// GenerateEnvironment produces the diagrams for a single environment.
func (r *Runner) GenerateEnvironment(ctx context.Context, d environment.Descriptor) (res Result) {
	start := time.Now()
	res.Environment = d
	hooks := observability.Pipeline()
	hooks.OnEnvironmentStart(ctx, d.Path)

	dir, err := environment.Validate(r.Root, d.Path)
	if err != nil {
		r.Logger.Warn("skipping environment", "env", d.Path, "reason", errors.UserMessage(err))
		hooks.OnEnvironmentSkipped(ctx, d.Path, err)
		res.Skipped, res.SkipReason = true, err
		res.Duration = time.Since(start)
		return res
	}

	defer func() {
		res.Duration = time.Since(start)
		hooks.OnEnvironmentComplete(ctx, d.Path, res.Success, res.Duration)
	}()

	r.Logger.Info("generating diagram", "env", d.Name)

	out := r.DiagramsDir()
	if err := os.MkdirAll(out, 0755); err != nil {
		res.Outcomes = append(res.Outcomes, outcome.Failure(StepPrepare, fmt.Errorf("create %s: %w", out, err), ""))
		r.Logger.Error("cannot create diagrams directory", "dir", out, "err", err)
		return res
	}

	plan := r.Planner.AcquirePlan(ctx, dir)
	defer func() {
		if err := plan.Release(); err != nil {
			res.Outcomes = append(res.Outcomes, outcome.Warning(StepCleanup, err, ""))
			r.Logger.Warn("cannot remove plan file", "env", d.Path, "err", err)
			return
		}
		res.Outcomes = append(res.Outcomes, outcome.Ok(StepCleanup))
	}()

	res.Outcomes = append(res.Outcomes, plan.Init, plan.Planned)
	if !plan.Init.IsOK() {
		r.Logger.Warn("terraform init failed, continuing anyway", "env", d.Path, "err", plan.Init.Err)
	}
	if !plan.Planned.IsOK() {
		r.Logger.Warn("terraform plan failed, continuing anyway", "env", d.Path, "err", plan.Planned.Err)
	}

	svgPath := filepath.Join(out, manifest.SVGName(d.Name))
	svg := r.Visualizer.SVG(ctx, dir, svgPath)
	res.Outcomes = append(res.Outcomes, svg)

	dotPath := filepath.Join(out, manifest.DOTName(d.Name))
	dot := r.Visualizer.DOT(ctx, dir, dotPath)
	res.Outcomes = append(res.Outcomes, dot)
	if dot.IsOK() {
		res.DOTPath = dotPath
		res.Outcomes = append(res.Outcomes, r.validateDOT(ctx, d, dotPath))
	}

	if !svg.IsOK() {
		r.Logger.Error("failed to generate diagram", "env", d.Path, "err", svg.Err, "stderr", svg.Detail)
		return res
	}
	res.Success = true
	res.SVGPath = svgPath
	r.Logger.Info("generated", "file", svgPath)
	return res
}

func (r *Runner) validateDOT(ctx context.Context, d environment.Descriptor, path string) outcome.Outcome {
	data, err := os.ReadFile(path)
	if err == nil {
		err = render.ValidateDOT(ctx, data)
	}
	if err != nil {
		r.Logger.Warn("textual graph does not parse", "env", d.Path, "file", path, "err", err)
		return outcome.Warning(StepValidate, err, "")
	}
	return outcome.Ok(StepValidate)
}

// WriteManifest writes metadata.json for the successful display names and
// returns its path.
func (r *Runner) WriteManifest(ctx context.Context, successful []string, project string, now time.Time) (string, error) {
	dir := r.DiagramsDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}

	m := manifest.Build(r.Registry, successful, dir, project, now)
	path := filepath.Join(dir, manifest.FileName)
	if err := manifest.WriteFile(path, m); err != nil {
		return "", err
	}

	r.Logger.Info("generated metadata", "file", path, "diagrams", len(m.Diagrams))
	observability.Pipeline().OnManifestWritten(ctx, path, len(m.Diagrams))
	return path, nil
}

// Serve runs the visualizer's interactive server for one environment.
//
// Unlike batch generation there is no silent skipping: an unknown key or a
// missing directory is an error and nothing is launched. The plan file is
// removed on every exit path, including operator interruption, which is
// reported as a normal stop.
func (r *Runner) Serve(ctx context.Context, key string, port int) (err error) {
	d, ok := r.Registry.Lookup(key)
	if !ok {
		return errors.New(errors.ErrCodeUnknownEnvironment, "unknown environment: %s", key)
	}
	if !environment.Exists(r.Root, d.Path) {
		return errors.New(errors.ErrCodeEnvironmentNotFound, "environment directory not found: %s", d.Path)
	}
	if err := blastradius.ValidatePort(port); err != nil {
		return err
	}
	dir := environment.Dir(r.Root, d.Path)

	r.Logger.Info("starting blast-radius server", "env", d.Path, "url", fmt.Sprintf("http://localhost:%d", port))
	r.Logger.Info("press Ctrl+C to stop the server")

	plan := r.Planner.AcquirePlan(ctx, dir)
	defer func() {
		if cerr := plan.Release(); cerr != nil {
			r.Logger.Warn("cannot remove plan file", "env", d.Path, "err", cerr)
		}
	}()
	if !plan.Init.IsOK() {
		r.Logger.Warn("terraform init failed, continuing anyway", "env", d.Path, "err", plan.Init.Err)
	}
	if !plan.Planned.IsOK() {
		r.Logger.Warn("terraform plan failed, continuing anyway", "env", d.Path, "err", plan.Planned.Err)
	}

	err = r.Visualizer.Serve(ctx, dir, port)
	if stderrors.Is(err, context.Canceled) {
		r.Logger.Info("server stopped", "env", d.Path)
		return nil
	}
	return err
}
