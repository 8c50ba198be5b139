package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tfdiagram/pkg/errors"
	"github.com/matzehuels/tfdiagram/pkg/render"
)

// renderCommand creates the render command, which converts a captured DOT
// graph to SVG without re-running the visualizer.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output string
		opts   render.Options
	)

	cmd := &cobra.Command{
		Use:   "render FILE.dot",
		Short: "Render a captured DOT graph to SVG with Graphviz",
		Example: `  tfdiagram render diagrams/dev-us-west-1.dot
  tfdiagram render diagrams/dev-us-west-1.dot -o dev.svg
  tfdiagram render diagrams/dev-us-west-1.dot --layout neato --fluid`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], output, opts)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .svg extension)")
	cmd.Flags().StringVar(&opts.Layout, "layout", render.DefaultLayout, "Graphviz layout engine")
	cmd.Flags().BoolVar(&opts.Fluid, "fluid", false, "drop the fixed size so the SVG scales to its container")
	_ = cmd.RegisterFlagCompletionFunc("layout", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return render.Layouts, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input, output string, opts render.Options) error {
	if err := render.ValidateLayout(opts.Layout); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFlag, err, "--layout")
	}
	if output == "" {
		output = svgPathFor(input)
	}
	if filepath.Clean(output) == filepath.Clean(input) {
		return errors.New(errors.ErrCodeInvalidFlag, "output %s would overwrite the input", output)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "read %s", input)
	}
	if err := render.ValidateDOT(ctx, data); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidFlag, err, "%s", input)
	}

	spin := newSpinner(ctx, "Rendering "+filepath.Base(input)+"...")
	spin.Start()
	svg, err := render.SVG(ctx, data, opts)
	spin.Stop()
	if spin.Cancelled() {
		return ctx.Err()
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeToolFailed, err, "render %s", input)
	}

	if err := os.WriteFile(output, svg, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	c.Logger.Debug("rendered", "input", input, "layout", opts.Layout, "bytes", len(svg))
	printSuccess("Rendered %s", filepath.Base(input))
	printFile(output)
	return nil
}

// svgPathFor replaces the extension of a DOT path with .svg.
func svgPathFor(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
}
