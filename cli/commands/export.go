package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/graph/export"
)

// NewExportCommand creates the export command.
func NewExportCommand(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the laid-out graph as JSON or YAML",
		Long: `Write nodes with their positions, edges, heads and roots. The format
defaults to the output file's extension, then to JSON.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(app, format, output)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func runExport(app *App, format, output string) error {
	if format == "" && output != "" {
		format = strings.TrimPrefix(filepath.Ext(output), ".")
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}

	l, err := app.load()
	if err != nil {
		return err
	}

	if output == "" {
		return export.Write(ui.Out, l.state, f)
	}

	file, err := app.fs.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", output, err)
	}
	if err := export.Write(file, l.state, f); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	ui.PrintSuccess("wrote %d migrations to %s", l.state.Collection.Len(), output)
	return nil
}
