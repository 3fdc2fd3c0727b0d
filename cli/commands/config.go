package commands

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/cli/internal/version"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/loader"
	"github.com/satishbabariya/migraph/graph/view"
)

// NewConfigCommand creates the config command group.
func NewConfigCommand(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage versions folders and colours",
	}

	cmd.AddCommand(newConfigShowCommand(app))
	cmd.AddCommand(newConfigPathCommand(app))
	cmd.AddCommand(newConfigAddCommand(app))
	cmd.AddCommand(newConfigRemoveCommand(app))
	cmd.AddCommand(newConfigDiscoverCommand(app))
	cmd.AddCommand(newConfigColorCommand(app))
	cmd.AddCommand(newConfigResetColorsCommand(app))

	return cmd
}

func newConfigShowCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow(app)
		},
	}
}

func runConfigShow(app *App) error {
	cfg := app.cfg

	ui.PrintSection("Versions folders")
	if len(cfg.VersionsPaths) == 0 {
		ui.PrintInfo("none configured; run 'migraph config add <path>'")
	} else {
		rows := make([][]string, 0, len(cfg.VersionsPaths))
		for _, loc := range cfg.VersionsPaths {
			rows = append(rows, []string{orDash(loc.Alias), loc.Path, folderState(app.fs, loc.Path)})
		}
		if err := ui.PrintTable([]string{"Alias", "Path", "Folder"}, rows); err != nil {
			return err
		}
	}

	opts := cfg.LoaderOptions()
	ui.PrintSection("Files")
	ui.PrintList([]string{
		"include: " + strings.Join(opts.Include, " "),
		"exclude: " + strings.Join(opts.Exclude, " "),
	})

	db := cfg.ResolvedDatabase()
	ui.PrintSection("Database")
	ui.PrintList([]string{
		"url: " + orDash(redactURL(db.URL)),
		"version table: " + db.VersionTable,
	})

	ui.PrintSection("Colours")
	return app.theme().PrintPalette()
}

func folderState(fs afero.Fs, path string) string {
	ok, err := afero.DirExists(fs, path)
	if err != nil || !ok {
		return "missing"
	}
	return "ok"
}

// redactURL hides the password of a database URL.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}

func newConfigPathCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(ui.Out, app.store.Path())
			return nil
		},
	}
}

func newConfigAddCommand(app *App) *cobra.Command {
	var alias string

	cmd := &cobra.Command{
		Use:   "add <path>",
		Short: "Add a versions folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigAdd(app, args[0], alias)
		},
	}

	cmd.Flags().StringVar(&alias, "alias", "", "Short name for the folder")

	return cmd
}

func runConfigAdd(app *App, path, alias string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if folderState(app.fs, abs) == "missing" {
		ui.PrintWarning("%s does not exist yet", abs)
	}

	loc := domain.Location{Path: abs, Alias: alias}
	added := app.cfg.AddLocation(loc)
	if err := app.store.Save(app.cfg, version.Version); err != nil {
		return err
	}
	if added {
		ui.PrintSuccess("added %s", describeLocation(loc))
	} else {
		ui.PrintSuccess("updated %s", describeLocation(loc))
	}
	return nil
}

func newConfigRemoveCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <alias|path>",
		Aliases: []string{"rm"},
		Short:   "Remove a versions folder",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.cfg.RemoveLocation(args[0]); err != nil {
				return err
			}
			if err := app.store.Save(app.cfg, version.Version); err != nil {
				return err
			}
			ui.PrintSuccess("removed %s", args[0])
			return nil
		},
	}
}

func newConfigDiscoverCommand(app *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "discover [alembic-dir]",
		Short: "Find versions folders under an Alembic directory",
		Long: `List the folders directly under the Alembic directory (default: the
current directory) whose name contains "versions" and offer to add them.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runConfigDiscover(app, root, yes)
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Add the folders without asking")

	return cmd
}

func runConfigDiscover(app *App, root string, yes bool) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	found, err := loader.Discover(app.fs, abs)
	if err != nil {
		return err
	}
	if len(found) == 0 {
		ui.PrintInfo("no versions folders under %s", abs)
		return nil
	}

	items := make([]string, len(found))
	for i, loc := range found {
		items[i] = describeLocation(loc)
	}
	ui.PrintInfo("found %d versions folders", len(found))
	ui.PrintList(items)

	if !yes {
		if !app.interactive {
			ui.PrintInfo("run again with --yes to add them")
			return nil
		}
		ok, err := app.confirm("Add them to the config?")
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
	}

	added := 0
	for _, loc := range found {
		if app.cfg.AddLocation(loc) {
			added++
		}
	}
	if err := app.store.Save(app.cfg, version.Version); err != nil {
		return err
	}
	ui.PrintSuccess("added %d versions folders", added)
	return nil
}

func newConfigColorCommand(app *App) *cobra.Command {
	slots := make([]string, 0, len(view.Slots()))
	for _, s := range view.Slots() {
		slots = append(slots, string(s))
	}

	return &cobra.Command{
		Use:       "color [slot hex]",
		Aliases:   []string{"colour"},
		Short:     "Show the palette or override one colour",
		Long:      "Show the palette, or set a slot to a #rgb or #rrggbb colour.\n\nSlots: " + strings.Join(slots, ", "),
		Example:   "  migraph config color node_head '#e67e22'",
		ValidArgs: slots,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 0 && len(args) != 2 {
				return fmt.Errorf("expected a slot and a colour, got %d arguments", len(args))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return app.theme().PrintPalette()
			}
			if err := app.cfg.SetColor(args[0], args[1]); err != nil {
				return err
			}
			if err := app.store.Save(app.cfg, version.Version); err != nil {
				return err
			}
			c := app.cfg.Palette().Color(view.Slot(args[0]))
			ui.PrintSuccess("%s set to %s %s", args[0], ui.Swatch(c), c)
			return nil
		},
	}
}

func newConfigResetColorsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-colors",
		Short: "Drop every colour override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app.cfg.ResetColors()
			if err := app.store.Save(app.cfg, version.Version); err != nil {
				return err
			}
			ui.PrintSuccess("colours reset to defaults")
			return nil
		},
	}
}
