// Package gitinfo reads per-file metadata from the corpus git history.
package gitinfo

import (
	"fmt"
	"path/filepath"
	"time"

	git "github.com/go-git/go-git/v5"
)

// Provider answers questions about the git history of a work tree.
type Provider struct {
	repo *git.Repository
	root string // work tree root (absolute)
}

// NewProvider opens the repository containing dir, walking upward for the
// .git directory the way the git CLI does. It returns an error when dir is
// not inside a work tree.
func NewProvider(dir string) (*Provider, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository for %s: %w", dir, err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("work tree: %w", err)
	}

	return &Provider{repo: repo, root: wt.Filesystem.Root()}, nil
}

// LastModified returns the committer time of the newest commit touching the
// given file. Uncommitted files yield an error; callers fall back to mtime.
func (p *Provider) LastModified(path string) (time.Time, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return time.Time{}, err
	}
	rel, err := filepath.Rel(p.root, abs)
	if err != nil {
		return time.Time{}, err
	}
	rel = filepath.ToSlash(rel)

	iter, err := p.repo.Log(&git.LogOptions{
		FileName: &rel,
		Order:    git.LogOrderCommitterTime,
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("git log %s: %w", rel, err)
	}
	defer iter.Close()

	commit, err := iter.Next()
	if err != nil {
		return time.Time{}, fmt.Errorf("no history for %s: %w", rel, err)
	}
	return commit.Committer.When, nil
}
