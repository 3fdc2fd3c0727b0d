// Package gitsource reads a versions folder as it was at a git revision.
//
// The folder is copied out of the commit tree into an in-memory afero
// filesystem at the same path it has on disk, so the loader and SourcePath
// work unchanged against the snapshot.
package gitsource

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/spf13/afero"
)

// ErrOutsideRepository is returned for folders not inside the repository.
var ErrOutsideRepository = errors.New("directory is outside the repository")

// Repository wraps a go-git repository.
type Repository struct {
	repo *git.Repository
	root string
}

// Open finds the repository containing path.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("opening worktree: %w", err)
	}
	return &Repository{repo: repo, root: wt.Filesystem.Root()}, nil
}

// Root returns the worktree root.
func (r *Repository) Root() string {
	return r.root
}

// Resolve resolves a branch, tag, commit hash or revision expression such
// as HEAD~2 to a commit.
func (r *Repository) Resolve(ref string) (*object.Commit, error) {
	if ref == "" {
		ref = "HEAD"
	}
	if b, err := r.repo.Reference(plumbing.NewBranchReferenceName(ref), true); err == nil {
		return r.commit(b.Hash())
	}
	if t, err := r.repo.Reference(plumbing.NewTagReferenceName(ref), true); err == nil {
		if tag, err := r.repo.TagObject(t.Hash()); err == nil {
			c, err := tag.Commit()
			if err != nil {
				return nil, fmt.Errorf("resolving tag %q: %w", ref, err)
			}
			return c, nil
		}
		return r.commit(t.Hash())
	}

	hash, err := r.repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return nil, fmt.Errorf("resolving ref %q: %w", ref, err)
	}
	return r.commit(*hash)
}

func (r *Repository) commit(h plumbing.Hash) (*object.Commit, error) {
	c, err := r.repo.CommitObject(h)
	if err != nil {
		return nil, fmt.Errorf("getting commit: %w", err)
	}
	return c, nil
}

// Snapshot is a folder materialised from one commit.
type Snapshot struct {
	Fs     afero.Fs
	Dir    string
	Ref    string
	Commit string
	// Files is the number of files copied; zero when the folder did not
	// exist at that commit.
	Files int
}

// Snapshot copies the direct children of dir at ref into memory.
func (r *Repository) Snapshot(ref, dir string) (*Snapshot, error) {
	commit, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	rel, err := r.relative(dir)
	if err != nil {
		return nil, err
	}

	abs := filepath.Join(r.root, rel)
	snap := &Snapshot{
		Fs:     afero.NewMemMapFs(),
		Dir:    abs,
		Ref:    ref,
		Commit: commit.Hash.String(),
	}

	tree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("getting tree: %w", err)
	}
	if rel != "." {
		tree, err = tree.Tree(filepath.ToSlash(rel))
		if errors.Is(err, object.ErrDirectoryNotFound) {
			return snap, nil
		}
		if err != nil {
			return nil, fmt.Errorf("getting tree %s: %w", rel, err)
		}
	}

	if err := snap.Fs.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	for _, entry := range tree.Entries {
		if !entry.Mode.IsFile() {
			continue
		}
		f, err := tree.TreeEntryFile(&entry)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
		}
		content, err := f.Contents()
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", entry.Name, err)
		}
		if err := afero.WriteFile(snap.Fs, filepath.Join(abs, entry.Name), []byte(content), 0o644); err != nil {
			return nil, err
		}
		snap.Files++
	}
	return snap, nil
}

func (r *Repository) relative(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	root := r.root
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		abs = resolved
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", dir, ErrOutsideRepository)
	}
	return rel, nil
}
