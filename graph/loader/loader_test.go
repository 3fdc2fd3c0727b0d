package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satishbabariya/migraph/graph/domain"
)

func descriptor(rev, down, msg, date string) string {
	return fmt.Sprintf("\"\"\"%s\n\nCreate Date: %s\n\"\"\"\nrevision = %q\ndown_revision = %s\n", msg, date, rev, down)
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
}

func TestLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/alembic/versions/001_init.py", descriptor("rev1", "None", "Init", "2024-01-01"))
	writeFile(t, fs, "/alembic/versions/002_users.py", descriptor("rev2", `"rev1"`, "Users", "2024-01-02"))
	writeFile(t, fs, "/alembic/versions/003_broken.py", "# not a migration")
	writeFile(t, fs, "/alembic/versions/__init__.py", descriptor("init", "None", "pkg", ""))
	writeFile(t, fs, "/alembic/versions/notes.txt", descriptor("txt", "None", "text", ""))
	require.NoError(t, fs.MkdirAll("/alembic/versions/__pycache__", 0o755))

	res, err := New(fs, Options{}).Load("/alembic/versions")
	require.NoError(t, err)

	assert.False(t, res.Missing)
	assert.Equal(t, []string{"rev1", "rev2"}, res.Collection.Revisions())
	assert.Equal(t, []string{"003_broken.py"}, res.Skipped)
	assert.Len(t, res.Fingerprint, 64)

	m, ok := res.Collection.Get("rev2")
	require.True(t, ok)
	assert.Equal(t, "002_users.py", m.Filename)
	assert.Equal(t, domain.DownSingle, m.Down.Kind())
}

func TestLoadFollowsSymlinks(t *testing.T) {
	root := t.TempDir()
	shared := filepath.Join(root, "shared")
	dir := filepath.Join(root, "versions")
	require.NoError(t, os.MkdirAll(shared, 0o755))
	require.NoError(t, os.MkdirAll(dir, 0o755))

	fs := afero.NewOsFs()
	writeFile(t, fs, filepath.Join(dir, "001_init.py"), descriptor("rev1", "None", "Init", "2024-01-01"))
	writeFile(t, fs, filepath.Join(shared, "002_users.py"), descriptor("rev2", `"rev1"`, "Users", "2024-01-02"))
	if err := os.Symlink(filepath.Join(shared, "002_users.py"), filepath.Join(dir, "002_users.py")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "gone.py"), filepath.Join(dir, "003_broken.py")))
	require.NoError(t, os.Symlink(shared, filepath.Join(dir, "linked_dir.py")))

	res, err := New(fs, Options{}).Load(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"rev1", "rev2"}, res.Collection.Revisions())
	assert.Empty(t, res.Skipped)
}

func TestLoadMissingDirectory(t *testing.T) {
	res, err := New(afero.NewMemMapFs(), Options{}).Load("/nowhere")
	require.NoError(t, err)
	assert.True(t, res.Missing)
	assert.Equal(t, 0, res.Collection.Len())
}

func TestLoadDuplicateRevisionLastWriteWins(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/v/a.py", descriptor("dup", "None", "first", ""))
	writeFile(t, fs, "/v/b.py", descriptor("other", "None", "other", ""))
	writeFile(t, fs, "/v/c.py", descriptor("dup", "None", "second", ""))

	res, err := New(fs, Options{}).Load("/v")
	require.NoError(t, err)

	assert.Equal(t, []string{"dup", "other"}, res.Collection.Revisions())
	m, _ := res.Collection.Get("dup")
	assert.Equal(t, "second", m.Message)
	assert.Equal(t, "c.py", m.Filename)
}

func TestFingerprintTracksContent(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/v/a.py", descriptor("a", "None", "first", ""))
	l := New(fs, Options{})

	before, err := l.Load("/v")
	require.NoError(t, err)
	again, err := l.Load("/v")
	require.NoError(t, err)
	assert.Equal(t, before.Fingerprint, again.Fingerprint)

	writeFile(t, fs, "/v/a.py", descriptor("a", "None", "renamed", ""))
	after, err := l.Load("/v")
	require.NoError(t, err)
	assert.NotEqual(t, before.Fingerprint, after.Fingerprint)
}

func TestMatches(t *testing.T) {
	l := New(afero.NewMemMapFs(), Options{Include: []string{"*.py", "*.sql"}, Exclude: []string{"__*", "*_test.py"}})

	assert.True(t, l.Matches("001_init.py"))
	assert.True(t, l.Matches("002.sql"))
	assert.False(t, l.Matches("__init__.py"))
	assert.False(t, l.Matches("env_test.py"))
	assert.False(t, l.Matches("README.md"))
}

func TestDiscover(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/alembic/tenant_versions", 0o755))
	require.NoError(t, fs.MkdirAll("/alembic/versions", 0o755))
	require.NoError(t, fs.MkdirAll("/alembic/templates", 0o755))
	writeFile(t, fs, "/alembic/versions_notes.txt", "x")

	locs, err := Discover(fs, "/alembic")
	require.NoError(t, err)
	assert.Equal(t, []domain.Location{
		{Path: "/alembic/tenant_versions", Alias: "tenant_versions"},
		{Path: "/alembic/versions", Alias: "versions"},
	}, locs)

	locs, err = Discover(fs, "/missing")
	require.NoError(t, err)
	assert.Empty(t, locs)
}
