package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tfdiagram/pkg/environment"
)

// environmentsCommand creates the environments command listing the registry.
func (c *CLI) environmentsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "environments",
		Aliases: []string{"envs", "ls"},
		Short:   "List registered environments and their on-disk status",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadProject()
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, StyleTitle.Render("Environments")+" "+StyleDim.Render(p.root))
			fmt.Fprintln(stdout, environmentsTable(p.root, p.registry))
			return nil
		},
	}
}

// environmentsTable renders the registry with each entry's status under root.
func environmentsTable(root string, reg environment.Registry) string {
	rows := make([][]string, 0, reg.Len())
	for _, d := range reg.All() {
		rows = append(rows, []string{
			d.Path,
			d.Name,
			swatch(d.Color),
			renderStatus(environment.Check(root, d.Path)),
			d.Description,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Environment", "Name", "Color", "Status", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			return styleCell
		})
	return t.Render()
}
