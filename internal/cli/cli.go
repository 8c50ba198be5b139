// Package cli implements the tfdiagram command-line interface.
package cli

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/tfdiagram/pkg/buildinfo"
	"github.com/matzehuels/tfdiagram/pkg/command"
	"github.com/matzehuels/tfdiagram/pkg/observability"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for files and display.
	appName = "tfdiagram"

	// defaultProjectRoot is the default --project-root.
	defaultProjectRoot = "."
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// NewCommandRunner builds the process runner for a command. The extra
	// environment entries come from the project's .env file. Tests replace
	// it with a scripted fake.
	NewCommandRunner func(env []string) command.Runner

	flags globalFlags
}

// globalFlags are the persistent flags shared by every subcommand.
type globalFlags struct {
	projectRoot string
	configPath  string
	envFile     string
	verbose     bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		NewCommandRunner: func(env []string) command.Runner {
			return command.NewExecRunner(env)
		},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "tfdiagram generates infrastructure diagrams for Terraform environments",
		Long: `tfdiagram runs terraform and blast-radius over every registered environment
of a Terraform project, writes SVG and DOT diagrams to <project-root>/diagrams/
and records them in metadata.json for downstream viewers.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.flags.verbose {
				c.SetLogLevel(LogDebug)
				observability.SetToolHooks(toolLogHooks{logger: c.Logger})
			}
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.flags.projectRoot, "project-root", defaultProjectRoot, "project root directory")
	pf.StringVar(&c.flags.configPath, "config", "", "config file (default <project-root>/tfdiagram.toml, .yaml or .yml)")
	pf.StringVar(&c.flags.envFile, "env-file", "", "dotenv file passed to terraform (default <project-root>/.env)")
	pf.BoolVarP(&c.flags.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.environmentsCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// stdout is where operator-facing status lines are printed.
var stdout io.Writer = os.Stdout
