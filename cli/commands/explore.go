package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/satishbabariya/migraph/cli/internal/explore"
	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/cli/internal/watch"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/loader"
	"github.com/satishbabariya/migraph/internal/debug"
)

// ErrNotInteractive is returned when explore runs without a terminal.
var ErrNotInteractive = errors.New("explore needs an interactive terminal; use 'migraph show'")

// NewExploreCommand creates the explore command.
func NewExploreCommand(app *App) *cobra.Command {
	var editor string
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse the graph interactively",
		Long: `Open a full-screen view of the graph.

Click a migration to select it, double-click or press enter to open its
file. Drag or use the arrow keys to pan, scroll or +/- to zoom, / to
search, n/N to step through results, f to filter by date, r to reset the
view and q to quit. The view reloads when files in the folder change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplore(app, editor, !noWatch)
		},
	}

	cmd.Flags().StringVar(&editor, "editor", "", "Editor command (default $VISUAL or $EDITOR)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload on file changes")

	return cmd
}

func runExplore(app *App, editor string, live bool) error {
	if !app.interactive {
		return ErrNotInteractive
	}
	loc, err := app.location()
	if err != nil {
		return err
	}
	l, err := app.loadLocation(loc)
	if err != nil {
		return err
	}

	model := explore.New(explore.Config{
		Theme:  app.theme(),
		Editor: editor,
		Color:  app.color,
	}, l.state)
	p := tea.NewProgram(model, explore.Options()...)

	if live && app.flags.ref == "" {
		w, err := app.watchLocation(loc, l.state.Fingerprint, watch.DefaultDebounce, func(next *loaded, err error) {
			if err != nil {
				p.Send(explore.ReloadMsg{Err: err})
				return
			}
			p.Send(explore.ReloadMsg{State: next.state})
		})
		if err != nil {
			debug.Warn("live reload disabled", "dir", loc.Path, "error", err)
		} else {
			defer w.Stop()
		}
	}

	_, err = p.Run()
	return err
}

// watchLocation reloads loc whenever its migration files change and
// calls onChange when the loaded file set differs from the last one.
// The first callback is skipped since the caller has already loaded.
func (a *App) watchLocation(loc domain.Location, fingerprint string, debounce time.Duration, onChange func(*loaded, error)) (*watch.Watcher, error) {
	matcher := loader.New(a.fs, a.cfg.LoaderOptions())
	last := fingerprint
	first := true

	w, err := watch.NewWatcher(loc.Path, matcher.Matches, func() error {
		if first {
			first = false
			return nil
		}
		next, err := a.loadLocation(loc)
		if err != nil {
			onChange(nil, err)
			return err
		}
		if next.state.Fingerprint == last {
			debug.Debug("migrations unchanged", "dir", loc.Path)
			return nil
		}
		last = next.state.Fingerprint
		onChange(next, nil)
		return nil
	})
	if err != nil {
		return nil, err
	}
	w.SetDebounce(debounce)
	if err := w.Start(); err != nil {
		w.Stop()
		return nil, err
	}
	return w, nil
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(app *App) *cobra.Command {
	var debounce time.Duration
	var clearScreen bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print the graph again whenever migrations change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runWatch(ctx, app, debounce, clearScreen)
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Wait this long for changes to settle")
	cmd.Flags().BoolVar(&clearScreen, "clear", true, "Clear the screen before each redraw")

	return cmd
}

func runWatch(ctx context.Context, app *App, debounce time.Duration, clearScreen bool) error {
	if app.flags.ref != "" {
		return fmt.Errorf("--ref reads a fixed commit and cannot be watched")
	}
	loc, err := app.location()
	if err != nil {
		return err
	}
	l, err := app.loadLocation(loc)
	if err != nil {
		return err
	}

	redraw := func(next *loaded) {
		if clearScreen && app.interactive {
			fmt.Fprint(ui.Out, "\033[H\033[2J")
		}
		printGraph(app, next.state, true)
		ui.PrintInfo("watching %s, press ctrl+c to stop", loc.Path)
	}
	redraw(l)

	w, err := app.watchLocation(loc, l.state.Fingerprint, debounce, func(next *loaded, err error) {
		if err != nil {
			ui.PrintError("reload failed: %v", err)
			return
		}
		redraw(next)
	})
	if err != nil {
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}
