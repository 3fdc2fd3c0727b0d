// Package main is the entry point for the migraph CLI.
package main

import (
	"os"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/afero"

	"github.com/satishbabariya/migraph/cli/commands"
	"github.com/satishbabariya/migraph/cli/internal/ui"
)

func main() {
	app := commands.NewApp(afero.NewOsFs())
	if err := commands.NewRootCommand(app).Execute(); err != nil {
		ui.PrintError("Error: %v", err)
		os.Exit(1)
	}
}
