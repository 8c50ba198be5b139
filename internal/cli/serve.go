package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tfdiagram/pkg/blastradius"
	"github.com/matzehuels/tfdiagram/pkg/environment"
	"github.com/matzehuels/tfdiagram/pkg/errors"
)

type serveOptions struct {
	environment string
	port        int
}

// serveCommand creates the serve command for the interactive viewer.
func (c *CLI) serveCommand() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve an interactive diagram for one environment",
		Long: `Prepare one environment with terraform init and plan, then run the
blast-radius interactive server in the foreground until interrupted.
The plan file is removed when the server stops.`,
		Example: `  tfdiagram serve --environment us-west-1/dev
  tfdiagram serve -e us-west-2/dev -p 8080`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.environment, "environment", "e", "", "environment key to serve (e.g. us-west-1/dev)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", blastradius.DefaultPort, "port for the interactive server")
	_ = cmd.RegisterFlagCompletionFunc("environment", c.completeEnvironments)

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOptions) error {
	p, err := c.loadProject()
	if err != nil {
		return err
	}
	if err := c.requirePrerequisites(ctx, p); err != nil {
		return err
	}

	if opts.environment == "" {
		printError("--environment is required for serve")
		printAvailable(p.registry)
		return errors.New(errors.ErrCodeMissingFlag, "--environment is required for serve")
	}

	err = p.pipeline(c.Logger).Serve(ctx, opts.environment, opts.port)
	if errors.Is(err, errors.ErrCodeUnknownEnvironment) {
		printAvailable(p.registry)
	}
	if err == nil {
		printSuccess("Server stopped")
	}
	return err
}

// printAvailable lists the registered environment keys.
func printAvailable(reg environment.Registry) {
	printInfo("Available environments: %s", strings.Join(reg.Keys(), ", "))
}

// completeEnvironments offers registered keys for --environment.
func (c *CLI) completeEnvironments(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	p, err := c.loadProject()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var keys []string
	for _, d := range p.registry.All() {
		if strings.HasPrefix(d.Path, toComplete) {
			keys = append(keys, d.Path+"\t"+d.Description)
		}
	}
	return keys, cobra.ShellCompDirectiveNoFileComp
}
