package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/render"
	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph"
)

// NewShowCommand creates the show command.
func NewShowCommand(app *App) *cobra.Command {
	var noLegend bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the migration graph",
		Long:  "Print the migration graph with roots at the top and heads at the bottom",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(app, !noLegend)
		},
	}

	cmd.Flags().BoolVar(&noLegend, "no-legend", false, "Omit the colour legend")

	return cmd
}

func runShow(app *App, legend bool) error {
	l, err := app.load()
	if err != nil {
		return err
	}
	printGraph(app, l.state, legend)
	return nil
}

// printGraph prints the header, graph and legend of s.
func printGraph(app *App, s *graph.State, legend bool) {
	ui.PrintHeader(s.Location.DisplayName(), ui.SummaryLine(s.Stats(), s.Filtered(), s.Unfiltered))

	if s.Collection.Len() == 0 {
		if s.Filtered() {
			ui.PrintInfo("no migrations in that date range")
		} else {
			ui.PrintInfo("no migrations in %s", s.Location.Path)
		}
		return
	}

	theme := app.theme()
	for _, line := range render.Static(s, render.Options{Color: app.color, Theme: theme}) {
		fmt.Fprintln(ui.Out, line)
	}
	if legend {
		theme.PrintLegend()
	}
}

// NewHeadsCommand creates the heads command.
func NewHeadsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "heads",
		Short: "List revisions nothing builds on",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(app, "heads", (*graph.State).Heads)
		},
	}
}

// NewRootsCommand creates the roots command.
func NewRootsCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roots",
		Short: "List revisions without a parent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(app, "roots", (*graph.State).Roots)
		},
	}
}

func runList(app *App, what string, pick func(*graph.State) []string) error {
	l, err := app.load()
	if err != nil {
		return err
	}
	revs := pick(l.state)
	if len(revs) == 0 {
		ui.PrintInfo("no %s", what)
		return nil
	}
	if len(revs) > 1 && what == "heads" {
		ui.PrintWarning("%d heads; the history has diverged", len(revs))
	}
	return printMigrations(app, l.state, revs)
}

// printMigrations prints one table row per revision.
func printMigrations(app *App, s *graph.State, revs []string) error {
	theme := app.theme()
	rows := make([][]string, 0, len(revs))
	for _, rev := range revs {
		m, ok := s.Collection.Get(rev)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			rev,
			theme.Badge(s.Kind(rev)),
			orDash(m.CreateDate),
			orDash(m.Message),
		})
	}
	return ui.PrintTable([]string{"Revision", "Kind", "Created", "Message"}, rows)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
