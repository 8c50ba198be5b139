package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tfdiagram/pkg/outcome"
)

// generateCommand creates the generate command for batch diagram generation.
func (c *CLI) generateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate",
		Short: "Generate diagrams for every registered environment",
		Long: `Generate an SVG diagram (and, when supported, a DOT graph) for every
registered environment, then write diagrams/metadata.json.

Environments whose directory or main.tf is missing are skipped with a
warning. terraform init and plan failures are tolerated; only a failing
SVG capture marks an environment failed.`,
		Example: `  tfdiagram generate
  tfdiagram generate --project-root ./infrastructure`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runGenerate(cmd.Context())
		},
	}
}

func (c *CLI) runGenerate(ctx context.Context) error {
	p, err := c.loadProject()
	if err != nil {
		return err
	}
	if err := c.requirePrerequisites(ctx, p); err != nil {
		return err
	}

	logger, _ := runLogger(c.Logger)
	prog := newProgress(logger)
	runner := p.pipeline(logger)

	summary := runner.GenerateAll(ctx)
	if summary.Interrupted != nil {
		return summary.Interrupted
	}

	manifestPath, err := runner.WriteManifest(ctx, summary.Successful, p.cfg.Project, time.Now())
	if err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}
	prog.done(fmt.Sprintf("Processed %d environments", len(summary.Results)))

	printNewline()
	printSuccess("Successfully generated %s diagrams", StyleNumber.Render(fmt.Sprint(len(summary.Successful))))
	printStats(len(summary.Successful), len(summary.Skipped()), len(summary.Failed()))
	var first string
	for _, res := range summary.Results {
		if res.Success {
			printFile(res.SVGPath)
			if outcome.Worst(res.Outcomes...) == outcome.Warn {
				printDetail("    %d tolerated failures (%s)", len(res.Warnings()), warnedSteps(res.Warnings()))
			}
			if first == "" {
				first = res.Environment.Path
			}
		}
	}
	for _, res := range summary.Failed() {
		printWarning("%s: diagram generation failed", res.Environment.Path)
	}
	printKeyValue("Diagrams", runner.DiagramsDir())
	printKeyValue("Metadata", manifestPath)
	if first != "" {
		printNewline()
		printNextStep("Explore one interactively", fmt.Sprintf("%s serve --environment %s", appName, first))
	}
	return nil
}

func warnedSteps(ws []outcome.Outcome) string {
	steps := make([]string, len(ws))
	for i, w := range ws {
		steps[i] = w.Step
	}
	return strings.Join(steps, ", ")
}
