package gitsource

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rev1 = `"""init

Revision ID: rev1
Create Date: 2024-01-01 10:00:00
"""
revision = 'rev1'
down_revision = None
`

const rev2 = `"""second

Revision ID: rev2
Create Date: 2024-01-02 10:00:00
"""
revision = 'rev2'
down_revision = 'rev1'
`

func commitFile(t *testing.T, repo *git.Repository, root, rel, content, msg string) string {
	t.Helper()
	full := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(filepath.ToSlash(rel))
	require.NoError(t, err)
	hash, err := wt.Commit(msg, &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return hash.String()
}

func setup(t *testing.T) (root string, first string) {
	t.Helper()
	root = t.TempDir()
	repo, err := git.PlainInit(root, false)
	require.NoError(t, err)

	first = commitFile(t, repo, root, "alembic/versions/rev1.py", rev1, "first")
	commitFile(t, repo, root, "alembic/versions/rev2.py", rev2, "second")
	return root, first
}

func TestSnapshotAtRefs(t *testing.T) {
	root, first := setup(t)
	dir := filepath.Join(root, "alembic", "versions")

	repo, err := Open(dir)
	require.NoError(t, err)

	head, err := repo.Snapshot("HEAD", dir)
	require.NoError(t, err)
	assert.Equal(t, 2, head.Files)
	names, err := afero.ReadDir(head.Fs, head.Dir)
	require.NoError(t, err)
	assert.Len(t, names, 2)

	old, err := repo.Snapshot(first, dir)
	require.NoError(t, err)
	assert.Equal(t, first, old.Commit)
	assert.Equal(t, 1, old.Files)
	content, err := afero.ReadFile(old.Fs, filepath.Join(old.Dir, "rev1.py"))
	require.NoError(t, err)
	assert.Equal(t, rev1, string(content))

	prev, err := repo.Snapshot("HEAD~1", dir)
	require.NoError(t, err)
	assert.Equal(t, first, prev.Commit)
}

func TestSnapshotMissingFolder(t *testing.T) {
	root, _ := setup(t)
	repo, err := Open(root)
	require.NoError(t, err)

	snap, err := repo.Snapshot("HEAD", filepath.Join(root, "nowhere"))
	require.NoError(t, err)
	assert.Zero(t, snap.Files)
	exists, err := afero.DirExists(snap.Fs, snap.Dir)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSnapshotErrors(t *testing.T) {
	root, _ := setup(t)
	repo, err := Open(root)
	require.NoError(t, err)

	_, err = repo.Snapshot("no-such-branch", root)
	assert.Error(t, err)

	_, err = repo.Snapshot("HEAD", t.TempDir())
	assert.ErrorIs(t, err, ErrOutsideRepository)

	_, err = Open(t.TempDir())
	assert.Error(t, err)
}
