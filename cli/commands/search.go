package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph/query"
)

// NewSearchCommand creates the search command.
func NewSearchCommand(app *App) *cobra.Command {
	var suggestions int

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Find migrations by revision or message",
		Long: `Find migrations whose revision or message contains the text, ignoring case.
An exact revision match is shown on its own.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(app, strings.Join(args, " "), suggestions)
		},
	}

	cmd.Flags().IntVar(&suggestions, "suggest", 3, "Close matches to offer when nothing matches")

	return cmd
}

func runSearch(app *App, text string, suggestions int) error {
	l, err := app.load()
	if err != nil {
		return err
	}
	s := l.state

	results := query.FindNodes(s.Collection, text)
	if len(results) == 0 {
		ui.PrintWarning("no migrations match %q", text)
		if suggestions > 0 {
			if near := query.Suggest(s.Collection, text, suggestions); len(near) > 0 {
				ui.PrintInfo("did you mean:")
				items := make([]string, len(near))
				for i, rev := range near {
					m, _ := s.Collection.Get(rev)
					items[i] = rev + "  " + m.Message
				}
				ui.PrintList(items)
			}
		}
		return nil
	}

	ui.PrintInfo("%d of %d migrations match %q", len(results), s.Collection.Len(), text)
	return printMigrations(app, s, results)
}
