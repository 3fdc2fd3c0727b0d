// Package commands implements CLI commands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/version"
)

const rootLong = `migraph reads an Alembic versions folder and shows its revision graph:
roots at the top, heads at the bottom, merges where branches meet.

Versions folders are taken from --dir, from --alias, or from the
versions_paths list in ~/.migraph.json.`

const rootExample = `  migraph config add ./alembic/versions --alias app
  migraph show
  migraph explore --alias app
  migraph search "add users"
  migraph info 3f2a9c1b --source
  migraph status
  migraph show --ref main~5
  migraph export --format yaml --from 2024-01-01`

// NewRootCommand creates the migraph command tree.
func NewRootCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "migraph",
		Short:         "Visualise Alembic migration graphs",
		Long:          rootLong,
		Example:       rootExample,
		Version:       version.Get().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.prepare()
		},
	}
	cmd.SetVersionTemplate("{{.Version}}\n")

	flags := cmd.PersistentFlags()
	flags.StringVar(&app.flags.configPath, "config", "", "Config file (default $MIGRAPH_CONFIG or ~/.migraph.json)")
	flags.StringVarP(&app.flags.dir, "dir", "d", "", "Versions folder to read")
	flags.StringVarP(&app.flags.alias, "alias", "a", "", "Configured versions folder to read")
	flags.StringVar(&app.flags.ref, "ref", "", "Read the folder as of a git branch, tag or commit")
	flags.StringVar(&app.flags.from, "from", "", "Only show migrations created on or after YYYY-MM-DD")
	flags.StringVar(&app.flags.to, "to", "", "Only show migrations created on or before YYYY-MM-DD")
	flags.BoolVar(&app.flags.debug, "debug", false, "Log diagnostics to stderr")
	flags.BoolVar(&app.flags.noColor, "no-color", false, "Disable coloured output")

	cmd.AddCommand(NewShowCommand(app))
	cmd.AddCommand(NewHeadsCommand(app))
	cmd.AddCommand(NewRootsCommand(app))
	cmd.AddCommand(NewSearchCommand(app))
	cmd.AddCommand(NewInfoCommand(app))
	cmd.AddCommand(NewCheckCommand(app))
	cmd.AddCommand(NewStatusCommand(app))
	cmd.AddCommand(NewExportCommand(app))
	cmd.AddCommand(NewExploreCommand(app))
	cmd.AddCommand(NewWatchCommand(app))
	cmd.AddCommand(NewConfigCommand(app))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
