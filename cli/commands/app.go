package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"

	"github.com/satishbabariya/migraph/cli/internal/config"
	"github.com/satishbabariya/migraph/cli/internal/ui"
	"github.com/satishbabariya/migraph/cli/internal/update"
	"github.com/satishbabariya/migraph/cli/internal/version"
	"github.com/satishbabariya/migraph/graph"
	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/gitsource"
	"github.com/satishbabariya/migraph/graph/layout"
	"github.com/satishbabariya/migraph/graph/loader"
	"github.com/satishbabariya/migraph/internal/debug"
)

var (
	// ErrNoLocation is returned when no versions folder is given or configured.
	ErrNoLocation = errors.New("no versions folder: pass --dir or run 'migraph config add <path>'")
	// ErrAmbiguousLocation is returned when several folders are configured
	// and none can be chosen interactively.
	ErrAmbiguousLocation = errors.New("several versions folders configured")
)

type globalFlags struct {
	configPath string
	dir        string
	alias      string
	ref        string
	from       string
	to         string
	debug      bool
	noColor    bool
}

// App holds what every command shares: the filesystem, the loaded
// config and the global flags.
type App struct {
	fs    afero.Fs
	flags globalFlags

	store *config.Store
	cfg   *config.Config

	interactive bool
	color       bool

	// prompts, replaced in tests
	selectLocation func(locs []domain.Location) (domain.Location, error)
	confirm        func(message string) (bool, error)
}

// NewApp creates an App over fs.
func NewApp(fs afero.Fs) *App {
	return &App{
		fs:             fs,
		interactive:    isTerminal(os.Stdin) && isTerminal(os.Stdout),
		selectLocation: surveyLocation,
		confirm:        surveyConfirm,
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// prepare runs before every command.
func (a *App) prepare() error {
	debug.Init(debug.Options{Enabled: a.flags.debug || debug.EnabledFromEnv()})

	if cwd, err := os.Getwd(); err == nil {
		if err := config.LoadDotEnv(a.fs, cwd); err != nil {
			debug.Warn("failed to load .env files", "dir", cwd, "error", err)
		}
	}

	path := a.flags.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	store, err := config.NewStore(a.fs, path)
	if err != nil {
		return err
	}
	cfg, err := store.Load()
	if err != nil {
		return err
	}

	compat, err := update.CheckConfig(cfg.WrittenBy, version.Version)
	switch {
	case err != nil:
		ui.PrintWarning("%v", err)
	case compat == update.Newer:
		ui.PrintWarning("%s was written by migraph %s; unknown settings are ignored", store.Path(), cfg.WrittenBy)
	}

	a.store, a.cfg = store, cfg
	a.color = !a.flags.noColor && os.Getenv("NO_COLOR") == "" && isTerminal(os.Stdout)
	return nil
}

func (a *App) theme() ui.Theme {
	return ui.NewTheme(a.cfg.Palette())
}

// location picks the versions folder for this run.
func (a *App) location() (domain.Location, error) {
	if a.flags.dir != "" {
		abs, err := filepath.Abs(a.flags.dir)
		if err != nil {
			return domain.Location{}, err
		}
		if loc, err := a.cfg.FindLocation(abs); err == nil {
			return loc, nil
		}
		return domain.Location{Path: abs}, nil
	}
	if a.flags.alias != "" {
		return a.cfg.FindLocation(a.flags.alias)
	}

	locs := a.cfg.VersionsPaths
	switch {
	case len(locs) == 0:
		return domain.Location{}, ErrNoLocation
	case len(locs) == 1:
		return locs[0], nil
	case a.interactive:
		return a.selectLocation(locs)
	}
	return domain.Location{}, fmt.Errorf("%w: choose one with --alias (%s)", ErrAmbiguousLocation, locationNames(locs))
}

func locationNames(locs []domain.Location) string {
	names := make([]string, len(locs))
	for i, loc := range locs {
		names[i] = loc.DisplayName()
	}
	return strings.Join(names, ", ")
}

func describeLocation(loc domain.Location) string {
	if loc.Alias == "" {
		return loc.Path
	}
	return fmt.Sprintf("%s (%s)", loc.Alias, loc.Path)
}

func surveyLocation(locs []domain.Location) (domain.Location, error) {
	options := make([]string, len(locs))
	for i, loc := range locs {
		options[i] = describeLocation(loc)
	}
	var idx int
	prompt := &survey.Select{
		Message: "Versions folder:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &idx); err != nil {
		return domain.Location{}, err
	}
	return locs[idx], nil
}

func surveyConfirm(message string) (bool, error) {
	ok := false
	prompt := &survey.Confirm{Message: message, Default: true}
	if err := survey.AskOne(prompt, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

// loaded is a graph together with how it was read.
type loaded struct {
	state    *graph.State
	result   *loader.Result
	snapshot *gitsource.Snapshot
}

// load reads the selected versions folder and applies --ref, --from and --to.
func (a *App) load() (*loaded, error) {
	loc, err := a.location()
	if err != nil {
		return nil, err
	}
	return a.loadLocation(loc)
}

func (a *App) loadLocation(loc domain.Location) (*loaded, error) {
	out := &loaded{}
	fs, dir := a.fs, loc.Path

	if a.flags.ref != "" {
		repo, err := gitsource.Open(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("--ref needs %s inside a git repository: %w", loc.Path, err)
		}
		snap, err := repo.Snapshot(a.flags.ref, loc.Path)
		if err != nil {
			return nil, err
		}
		debug.Debug("read snapshot", "ref", snap.Ref, "commit", snap.Commit, "files", snap.Files)
		fs, dir = snap.Fs, snap.Dir
		out.snapshot = snap
	}

	res, err := loader.New(fs, a.cfg.LoaderOptions()).Load(dir)
	if err != nil {
		return nil, err
	}
	if res.Missing {
		if out.snapshot != nil {
			ui.PrintWarning("%s does not exist at %s", dir, a.flags.ref)
		} else {
			ui.PrintWarning("versions folder %s does not exist", dir)
		}
	}

	loc.Path = dir
	state := graph.New(loc, res.Collection, layout.DefaultConfig())
	state.Fingerprint = res.Fingerprint
	if a.flags.from != "" || a.flags.to != "" {
		if err := checkDates(a.flags.from, a.flags.to); err != nil {
			return nil, err
		}
		if state, err = state.Filter(a.flags.from, a.flags.to); err != nil {
			return nil, err
		}
	}

	out.state, out.result = state, res
	return out, nil
}

// checkDates rejects bounds that are not YYYY-MM-DD.
func checkDates(from, to string) error {
	for flag, value := range map[string]string{"--from": from, "--to": to} {
		if value == "" {
			continue
		}
		if _, err := time.Parse(time.DateOnly, value); err != nil {
			return fmt.Errorf("invalid %s date %q: expected YYYY-MM-DD", flag, value)
		}
	}
	return nil
}

// resolve finds rev in the state, accepting a unique revision prefix.
func resolve(s *graph.State, rev string) (string, error) {
	if s.Collection.Has(rev) {
		return rev, nil
	}
	var match string
	for _, candidate := range s.Collection.Revisions() {
		if len(rev) >= 4 && strings.HasPrefix(candidate, rev) {
			if match != "" {
				return "", fmt.Errorf("revision prefix %q is ambiguous", rev)
			}
			match = candidate
		}
	}
	if match == "" {
		return "", fmt.Errorf("revision %q not found", rev)
	}
	return match, nil
}
