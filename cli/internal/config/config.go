package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/loader"
	"github.com/satishbabariya/migraph/graph/view"
	"github.com/satishbabariya/migraph/internal/debug"
)

const (
	// DefaultFileName is the config file kept in the home directory
	DefaultFileName = ".migraph.json"
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "MIGRAPH_CONFIG"
	// EnvPrefix prefixes environment overrides such as MIGRAPH_DATABASE_URL
	EnvPrefix = "MIGRAPH"
)

// ErrUnknownLocation is returned when an alias or path is not configured.
var ErrUnknownLocation = errors.New("no such versions location")

// Database holds the connection used by the status command
type Database struct {
	URL          string `json:"url,omitempty" mapstructure:"url"`
	VersionTable string `json:"version_table,omitempty" mapstructure:"version_table" validate:"omitempty,identifier"`
}

// Config holds the application configuration
type Config struct {
	VersionsPaths []domain.Location `json:"versions_paths" mapstructure:"versions_paths" validate:"dive"`
	Colors        map[string]string `json:"colors,omitempty" mapstructure:"colors" validate:"dive,keys,palette_slot,endkeys,hexcolor"`
	Include       []string          `json:"include,omitempty" mapstructure:"include" validate:"dive,glob"`
	Exclude       []string          `json:"exclude,omitempty" mapstructure:"exclude" validate:"dive,glob"`
	Database      Database          `json:"database" mapstructure:"database"`
	WrittenBy     string            `json:"written_by,omitempty" mapstructure:"written_by"`

	// resolved is Database with environment overrides applied
	resolved Database
}

// DefaultVersionTable is used when neither file nor environment name one
const DefaultVersionTable = "alembic_version"

// ResolvedDatabase returns the database settings with environment
// overrides (MIGRAPH_DATABASE_URL, DATABASE_URL, MIGRAPH_VERSION_TABLE)
// applied over the file.
func (c *Config) ResolvedDatabase() Database {
	r := c.resolved
	if r.URL == "" {
		r.URL = c.Database.URL
	}
	if r.VersionTable == "" {
		r.VersionTable = firstNonEmpty(c.Database.VersionTable, DefaultVersionTable)
	}
	return r
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// DefaultPath returns $MIGRAPH_CONFIG or ~/.migraph.json
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return homedir.Expand(p)
	}
	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, DefaultFileName), nil
}

// Store reads and writes one config file
type Store struct {
	fs   afero.Fs
	path string
}

// NewStore creates a store for path; an empty path means DefaultPath.
func NewStore(fs afero.Fs, path string) (*Store, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve config path: %w", err)
		}
		path = p
	} else {
		p, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		path = p
	}
	return &Store{fs: fs, path: path}, nil
}

// Path returns the config file path
func (s *Store) Path() string {
	return s.path
}

// Exists reports whether the config file has been written
func (s *Store) Exists() bool {
	ok, _ := afero.Exists(s.fs, s.path)
	return ok
}

// fileViper reads only what is persisted in the config file.
func (s *Store) fileViper() *viper.Viper {
	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigFile(s.path)
	v.SetConfigType("json")
	return v
}

// envViper reads only environment overrides.
func envViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("database.url", EnvPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("database.version_table", EnvPrefix+"_VERSION_TABLE")
	return v
}

// Load reads the config file. A missing file yields an empty config.
// Validation problems are logged and the offending colours dropped so a
// hand-edited file never breaks rendering.
func (s *Store) Load() (*Config, error) {
	v := s.fileViper()
	if s.Exists() {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", s.path, err)
		}
	}

	cfg := &Config{
		VersionsPaths: readLocations(v),
		Colors:        v.GetStringMapString("colors"),
		Include:       v.GetStringSlice("include"),
		Exclude:       v.GetStringSlice("exclude"),
		Database: Database{
			URL:          v.GetString("database.url"),
			VersionTable: v.GetString("database.version_table"),
		},
		WrittenBy: v.GetString("written_by"),
	}

	env := envViper()
	cfg.resolved = Database{
		URL:          firstNonEmpty(env.GetString("database.url"), cfg.Database.URL),
		VersionTable: firstNonEmpty(env.GetString("database.version_table"), cfg.Database.VersionTable, DefaultVersionTable),
	}

	if err := cfg.Validate(); err != nil {
		debug.Warn("config has problems", "path", s.path, "error", err)
		cfg.dropInvalidColors()
	}
	return cfg, nil
}

// readLocations prefers the versions_* keys; the alembic_* spellings are
// read from older config files and replaced on the next save.
func readLocations(v *viper.Viper) []domain.Location {
	raw := v.Get("versions_paths")
	if raw == nil {
		raw = v.Get("alembic_paths")
	}
	return normalizeLocations(raw, firstNonEmpty(v.GetString("versions_path"), v.GetString("alembic_path")))
}

// normalizeLocations accepts the current list of {path, alias} objects,
// plain string entries and the legacy single-path field.
func normalizeLocations(raw any, legacy string) []domain.Location {
	out := []domain.Location{}
	items, ok := raw.([]any)
	if !ok {
		if legacy != "" {
			out = append(out, domain.Location{Path: legacy})
		}
		return out
	}
	for _, item := range items {
		switch it := item.(type) {
		case string:
			out = append(out, domain.Location{Path: it})
		case map[string]any:
			p, _ := it["path"].(string)
			alias, _ := it["alias"].(string)
			out = append(out, domain.Location{Path: p, Alias: alias})
		}
	}
	return out
}

// Save validates cfg and writes it. Only persisted fields are written,
// never environment overrides.
func (s *Store) Save(cfg *Config, writtenBy string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := s.fs.MkdirAll(dir, 0755); err != nil {
		return err
	}

	locations := make([]map[string]any, 0, len(cfg.VersionsPaths))
	for _, loc := range cfg.VersionsPaths {
		locations = append(locations, map[string]any{"path": loc.Path, "alias": loc.Alias})
	}

	v := viper.New()
	v.SetFs(s.fs)
	v.SetConfigType("json")
	v.Set("versions_paths", locations)
	if len(cfg.Colors) > 0 {
		v.Set("colors", cfg.Colors)
	}
	if len(cfg.Include) > 0 {
		v.Set("include", cfg.Include)
	}
	if len(cfg.Exclude) > 0 {
		v.Set("exclude", cfg.Exclude)
	}
	if cfg.Database.URL != "" {
		v.Set("database.url", cfg.Database.URL)
	}
	if cfg.Database.VersionTable != "" {
		v.Set("database.version_table", cfg.Database.VersionTable)
	}
	cfg.WrittenBy = writtenBy
	v.Set("written_by", writtenBy)

	if err := v.WriteConfigAs(s.path); err != nil {
		return fmt.Errorf("failed to write config %s: %w", s.path, err)
	}
	return nil
}

// Palette returns the default palette with the configured overrides.
func (c *Config) Palette() view.Palette {
	return view.DefaultPalette().Merge(c.Colors)
}

// LoaderOptions returns the include and exclude globs, defaulted.
func (c *Config) LoaderOptions() loader.Options {
	opts := loader.Options{Include: loader.DefaultInclude, Exclude: loader.DefaultExclude}
	if len(c.Include) > 0 {
		opts.Include = c.Include
	}
	if len(c.Exclude) > 0 {
		opts.Exclude = c.Exclude
	}
	return opts
}

// AddLocation adds loc or, when its path is already configured, updates
// the alias. It reports whether a new entry was added.
func (c *Config) AddLocation(loc domain.Location) bool {
	loc.Path = filepath.Clean(loc.Path)
	for i, existing := range c.VersionsPaths {
		if filepath.Clean(existing.Path) == loc.Path {
			c.VersionsPaths[i].Alias = loc.Alias
			return false
		}
	}
	c.VersionsPaths = append(c.VersionsPaths, loc)
	return true
}

// RemoveLocation removes the entry matching an alias or path.
func (c *Config) RemoveLocation(key string) error {
	for i, loc := range c.VersionsPaths {
		if matchesLocation(loc, key) {
			c.VersionsPaths = append(c.VersionsPaths[:i], c.VersionsPaths[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%q: %w", key, ErrUnknownLocation)
}

// FindLocation looks a location up by alias, display name or path.
func (c *Config) FindLocation(key string) (domain.Location, error) {
	for _, loc := range c.VersionsPaths {
		if matchesLocation(loc, key) {
			return loc, nil
		}
	}
	return domain.Location{}, fmt.Errorf("%q: %w", key, ErrUnknownLocation)
}

func matchesLocation(loc domain.Location, key string) bool {
	return loc.Alias == key || loc.DisplayName() == key ||
		filepath.Clean(loc.Path) == filepath.Clean(key)
}

// SetColor overrides one palette slot.
func (c *Config) SetColor(slot, color string) error {
	if !view.IsSlot(slot) {
		return fmt.Errorf("unknown colour slot %q", slot)
	}
	if err := validate.Var(color, "hexcolor"); err != nil {
		return fmt.Errorf("invalid colour %q for %s: expected #rgb or #rrggbb", color, slot)
	}
	if c.Colors == nil {
		c.Colors = map[string]string{}
	}
	c.Colors[slot] = strings.ToLower(color)
	return nil
}

// ResetColors drops every palette override.
func (c *Config) ResetColors() {
	c.Colors = nil
}

func (c *Config) dropInvalidColors() {
	for slot, color := range c.Colors {
		if !view.IsSlot(slot) || validate.Var(color, "hexcolor") != nil {
			delete(c.Colors, slot)
		}
	}
}
