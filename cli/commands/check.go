package commands

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph/builder"
	"github.com/satishbabariya/migraph/graph/query"
)

// ErrCheckFailed is returned by check --strict when problems were found.
var ErrCheckFailed = errors.New("check failed")

// NewCheckCommand creates the check command.
func NewCheckCommand(app *App) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report problems in the versions folder",
		Long: `Report files without a revision, down revisions that name a missing
migration, revision cycles and diverged heads. The date filter is ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(app, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Exit with an error when problems are found")

	return cmd
}

func runCheck(app *App, strict bool) error {
	l, err := app.load()
	if err != nil {
		return err
	}
	c := l.result.Collection
	adj := builder.Build(c)
	problems := 0

	for _, name := range l.result.Skipped {
		ui.PrintWarning("%s: no revision found", name)
		problems++
	}
	for _, ref := range builder.DanglingRefs(c) {
		ui.PrintWarning("%s: down revision %s is not in the folder", ref.Revision, ref.Missing)
		problems++
	}
	if cyclic := query.Cyclic(c, adj); len(cyclic) > 0 {
		ui.PrintWarning("revision cycle through %s", strings.Join(cyclic, ", "))
		problems++
	}
	if heads := query.Heads(c, adj); len(heads) > 1 {
		ui.PrintWarning("%d heads: %s", len(heads), strings.Join(heads, ", "))
		problems++
	}

	if problems == 0 {
		ui.PrintSuccess("%d migrations, no problems found", c.Len())
		return nil
	}
	if strict {
		return fmt.Errorf("%d problems found: %w", problems, ErrCheckFailed)
	}
	ui.PrintInfo("%d problems found", problems)
	return nil
}
