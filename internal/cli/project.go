package cli

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/tfdiagram/pkg/blastradius"
	"github.com/matzehuels/tfdiagram/pkg/command"
	"github.com/matzehuels/tfdiagram/pkg/config"
	"github.com/matzehuels/tfdiagram/pkg/environment"
	"github.com/matzehuels/tfdiagram/pkg/errors"
	"github.com/matzehuels/tfdiagram/pkg/pipeline"
	"github.com/matzehuels/tfdiagram/pkg/prereq"
	"github.com/matzehuels/tfdiagram/pkg/terraform"
)

// project is everything a command needs to know about the project root.
type project struct {
	root     string
	cfg      config.Config
	registry environment.Registry
	runner   command.Runner
}

// loadProject resolves the project root, reads the optional config and
// dotenv files and builds the environment registry.
func (c *CLI) loadProject() (*project, error) {
	root, err := filepath.Abs(c.flags.projectRoot)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve project root")
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "project root %s is not a directory", root)
	}

	cfgPath := c.flags.configPath
	if cfgPath == "" {
		cfgPath = config.Find(root)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		c.Logger.Debug("loaded config", "file", cfg.Path)
	}

	reg, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	envFile := c.flags.envFile
	if envFile == "" {
		envFile = config.FindEnvFile(root)
	}
	env, err := config.ReadEnvFile(envFile)
	if err != nil {
		return nil, err
	}
	if len(env) > 0 {
		c.Logger.Debug("loaded env file", "file", envFile, "vars", len(env))
	}

	return &project{
		root:     root,
		cfg:      cfg,
		registry: reg,
		runner:   c.NewCommandRunner(env),
	}, nil
}

// tools returns the executables the project requires.
func (p *project) tools() []prereq.Tool {
	return prereq.Tools(p.cfg.Tools.Planner, p.cfg.Tools.Visualizer, p.cfg.Tools.Renderer)
}

// pipeline builds the orchestrator for the project.
func (p *project) pipeline(logger *log.Logger) *pipeline.Runner {
	return pipeline.NewRunner(p.root, p.registry,
		terraform.New(p.runner, p.cfg.Tools.Planner, logger),
		blastradius.New(p.runner, p.cfg.Tools.Visualizer, logger),
		logger)
}

// requirePrerequisites probes every tool and, when any is unusable, prints
// what is missing with the installation guide.
func (c *CLI) requirePrerequisites(ctx context.Context, p *project) error {
	report := prereq.Check(ctx, p.runner, p.tools())
	for _, s := range report.Statuses {
		if s.OK() {
			c.Logger.Debug("found prerequisite", "tool", s.Name, "version", s.Version)
		}
	}
	if err := report.Err(); err != nil {
		for _, name := range report.Missing() {
			printError("%s is not installed or not in PATH", name)
		}
		printNewline()
		printDetailBlock(prereq.InstallGuide)
		return err
	}
	c.Logger.Info("all prerequisites are installed")
	return nil
}
