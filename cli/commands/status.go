package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/applied"
	"github.com/satishbabariya/migraph/graph/layout"
	"github.com/satishbabariya/migraph/internal/debug"
)

type statusOptions struct {
	url     string
	table   string
	timeout time.Duration
	json    bool
}

// NewStatusCommand creates the status command.
func NewStatusCommand(app *App) *cobra.Command {
	var opts statusOptions

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Compare the database's applied revisions with the graph",
		Long: `Read the Alembic version table and list pending migrations.

The connection comes from --url, MIGRAPH_DATABASE_URL, DATABASE_URL or the
database.url config setting. PostgreSQL, MySQL and SQLite URLs are accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), app, opts)
		},
	}

	cmd.Flags().StringVar(&opts.url, "url", "", "Database URL")
	cmd.Flags().StringVar(&opts.table, "table", "", "Version table (default alembic_version)")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "Connection timeout")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the status as JSON")

	return cmd
}

func runStatus(ctx context.Context, app *App, opts statusOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db := app.cfg.ResolvedDatabase()
	if opts.url != "" {
		db.URL = opts.url
	}
	if opts.table != "" {
		db.VersionTable = opts.table
	}
	if db.URL == "" {
		return applied.ErrNoDatabaseURL
	}

	l, err := app.load()
	if err != nil {
		return err
	}
	// the date filter does not apply to what the database holds
	full := graph.New(l.state.Location, l.result.Collection, layout.DefaultConfig())

	current, err := readApplied(ctx, db.URL, db.VersionTable, opts.timeout)
	if err != nil {
		return err
	}
	st := applied.Compare(full.Collection, full.Adjacency, current)

	if opts.json {
		enc := json.NewEncoder(ui.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	}
	return printStatus(app, full, st)
}

func readApplied(ctx context.Context, url, table string, timeout time.Duration) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	spinner, _ := ui.PrintSpinner("Reading " + table)
	stop := func() {
		if spinner != nil {
			_ = spinner.Stop()
		}
	}

	reader, err := applied.Open(ctx, applied.Options{URL: url, Table: table, Logger: debug.Logger()})
	if err != nil {
		stop()
		return nil, err
	}
	defer reader.Close()

	current, err := reader.Current(ctx)
	stop()
	if errors.Is(err, applied.ErrNoVersionTable) {
		ui.PrintWarning("database has no %s table; nothing is applied", table)
		return nil, nil
	}
	return current, err
}

func printStatus(app *App, s *graph.State, st applied.Status) error {
	ui.PrintSection("Database")
	if len(st.Current) == 0 {
		ui.PrintInfo("no revision stamped")
	} else {
		ui.PrintList(st.Current)
	}

	for _, rev := range st.Unknown {
		ui.PrintWarning("%s is stamped in the database but not in the folder", rev)
	}

	if len(st.Pending) > 0 {
		ui.PrintSection("Pending")
		if err := printMigrations(app, s, st.Pending); err != nil {
			return err
		}
	}

	switch {
	case st.AtHead:
		ui.PrintBox(ui.SuccessStyle, "Status", fmt.Sprintf("database is at head (%d applied)", len(st.Applied)))
	case len(st.Pending) > 0:
		ui.PrintBox(ui.WarningStyle, "Status", fmt.Sprintf("%d applied, %d pending", len(st.Applied), len(st.Pending)))
	default:
		ui.PrintBox(ui.InfoStyle, "Status", fmt.Sprintf("%d applied", len(st.Applied)))
	}
	return nil
}
