package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/tfdiagram/pkg/prereq"
)

// checkCommand creates the check command for verifying prerequisites.
func (c *CLI) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that terraform, blast-radius and dot are installed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject()
			if err != nil {
				return err
			}

			spin := newSpinner(cmd.Context(), "Checking prerequisites...")
			spin.Start()
			report := prereq.Check(cmd.Context(), p.runner, p.tools())
			spin.Stop()
			if spin.Cancelled() {
				return cmd.Context().Err()
			}

			for _, s := range report.Statuses {
				label := fmt.Sprintf("%s (%s)", s.Name, s.Role)
				switch {
				case s.OK():
					printSuccess("%s %s", label, StyleDim.Render(s.Version))
				case !s.Found:
					printError("%s not found in PATH", label)
				default:
					printError("%s failed its version check: %v", label, s.Err)
				}
			}

			if err := report.Err(); err != nil {
				printNewline()
				printDetailBlock(prereq.InstallGuide)
				return err
			}
			return nil
		},
	}
}
