// Package loader reads a versions folder into a revision-keyed collection.
package loader

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"
	"lukechampine.com/blake3"

	"github.com/satishbabariya/migraph/graph/domain"
	"github.com/satishbabariya/migraph/graph/parser"
	"github.com/satishbabariya/migraph/internal/debug"
)

// Default file selection for Alembic versions folders.
var (
	DefaultInclude = []string{"*.py"}
	DefaultExclude = []string{"__*"}
)

// Options controls which files are treated as migrations.
type Options struct {
	// Include lists doublestar patterns matched against file names.
	Include []string
	// Exclude lists patterns that veto an included file.
	Exclude []string
	// Logger receives skip notices. Defaults to the debug logger.
	Logger *slog.Logger
}

// Result is the outcome of loading one folder.
type Result struct {
	Dir        string
	Collection *domain.Collection
	// Skipped lists files that matched but failed to parse.
	Skipped []string
	// Missing is set when the folder does not exist.
	Missing bool
	// Fingerprint is a blake3 digest of every parsed file name and content.
	Fingerprint string
}

// Loader loads versions folders from a filesystem.
type Loader struct {
	fs      afero.Fs
	include []string
	exclude []string
	parser  *parser.Parser
	logger  *slog.Logger
}

// New creates a loader over fs.
func New(fs afero.Fs, opts Options) *Loader {
	logger := opts.Logger
	if logger == nil {
		logger = debug.Logger()
	}
	include := opts.Include
	if len(include) == 0 {
		include = DefaultInclude
	}
	exclude := opts.Exclude
	if exclude == nil {
		exclude = DefaultExclude
	}
	return &Loader{
		fs:      fs,
		include: include,
		exclude: exclude,
		parser:  parser.New(fs, logger),
		logger:  logger,
	}
}

// Load parses every migration file directly inside dir. A missing folder
// yields an empty collection and no error.
func (l *Loader) Load(dir string) (*Result, error) {
	res := &Result{Dir: dir, Collection: domain.NewCollection()}

	exists, err := afero.DirExists(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to stat versions folder: %w", err)
	}
	if !exists {
		l.logger.Info("versions folder not found", "dir", dir)
		res.Missing = true
		res.Fingerprint = fingerprint(nil)
		return res, nil
	}

	entries, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list versions folder: %w", err)
	}

	var files []fileDigest
	for _, entry := range entries {
		if !l.Matches(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if !l.isFile(path, entry) {
			continue
		}
		m, content, err := l.parser.ParseFile(path)
		if err != nil {
			res.Skipped = append(res.Skipped, entry.Name())
			continue
		}
		res.Collection.Put(m)
		files = append(files, fileDigest{name: entry.Name(), content: content})
	}

	res.Fingerprint = fingerprint(files)
	l.logger.Debug("loaded versions folder",
		"dir", dir,
		"migrations", res.Collection.Len(),
		"skipped", len(res.Skipped),
	)
	return res, nil
}

// isFile follows symlinks; directory listings report the link itself.
func (l *Loader) isFile(path string, entry os.FileInfo) bool {
	if entry.Mode()&os.ModeSymlink == 0 {
		return entry.Mode().IsRegular()
	}
	info, err := l.fs.Stat(path)
	if err != nil {
		l.logger.Debug("skipping broken link", "path", path, "error", err)
		return false
	}
	return info.Mode().IsRegular()
}

// Matches reports whether a file name is selected as a migration.
func (l *Loader) Matches(name string) bool {
	included := false
	for _, pattern := range l.include {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, pattern := range l.exclude {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return false
		}
	}
	return true
}

type fileDigest struct {
	name    string
	content []byte
}

func fingerprint(files []fileDigest) string {
	h := blake3.New(32, nil)
	for _, f := range files {
		h.Write([]byte(f.name))
		h.Write([]byte{0})
		h.Write(f.content)
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Discover returns the direct child folders of an Alembic root whose name
// contains "versions", in name order.
func Discover(fs afero.Fs, root string) ([]domain.Location, error) {
	entries, err := afero.ReadDir(fs, root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}

	var locations []domain.Location
	for _, entry := range entries {
		if entry.IsDir() && strings.Contains(entry.Name(), "versions") {
			locations = append(locations, domain.Location{
				Path:  filepath.Join(root, entry.Name()),
				Alias: entry.Name(),
			})
		}
	}
	return locations, nil
}
