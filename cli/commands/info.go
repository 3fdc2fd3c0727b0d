package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph"
)

const messageWidth = 48

// NewInfoCommand creates the info command.
func NewInfoCommand(app *App) *cobra.Command {
	var showSource bool

	cmd := &cobra.Command{
		Use:   "info <revision>",
		Short: "Show one migration with its parents and children",
		Long:  "Show one migration. A unique revision prefix of at least four characters is accepted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(app, args[0], showSource)
		},
	}

	cmd.Flags().BoolVar(&showSource, "source", false, "Print the migration file")

	return cmd
}

func runInfo(app *App, arg string, showSource bool) error {
	l, err := app.load()
	if err != nil {
		return err
	}
	s := l.state

	rev, err := resolve(s, arg)
	if err != nil {
		return err
	}

	fmt.Fprintln(ui.Out, app.theme().Badge(s.Kind(rev)))
	if err := ui.PrintMarkdown(infoMarkdown(s, rev)); err != nil {
		return err
	}

	if !showSource {
		return nil
	}
	path, _ := s.SourcePath(rev)
	fs := app.fs
	if l.snapshot != nil {
		fs = l.snapshot.Fs
	}
	content, err := afero.ReadFile(fs, path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	ui.PrintCodeBlock(strings.TrimRight(string(content), "\n"), "python")
	return nil
}

func infoMarkdown(s *graph.State, rev string) string {
	m, _ := s.Collection.Get(rev)
	path, _ := s.SourcePath(rev)

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", rev)
	if m.Message != "" {
		fmt.Fprintf(&b, "%s\n\n", m.Message)
	}
	fmt.Fprintf(&b, "- **Created:** %s\n", orDash(m.CreateDate))
	fmt.Fprintf(&b, "- **Down revision:** `%s`\n", m.Down)
	fmt.Fprintf(&b, "- **File:** `%s`\n", path)

	writeRelatives(&b, s, "Parents", s.Adjacency.ParentsOf(rev))
	writeRelatives(&b, s, "Children", s.Adjacency.ChildrenOf(rev))
	return b.String()
}

func writeRelatives(b *strings.Builder, s *graph.State, title string, revs []string) {
	fmt.Fprintf(b, "\n## %s\n\n", title)
	if len(revs) == 0 {
		b.WriteString("none\n")
		return
	}
	for _, rev := range revs {
		m, _ := s.Collection.Get(rev)
		fmt.Fprintf(b, "- `%s` %s\n", rev, truncate(m.Message, messageWidth))
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
