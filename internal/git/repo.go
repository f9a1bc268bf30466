package git

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// ErrNotRepository is returned when no repository encloses the start path.
var ErrNotRepository = errors.New("not inside a git repository")

// Repository is a detected worktree.
type Repository struct {
	// Root is the absolute worktree root.
	Root string
	repo *git.Repository
}

// Detect opens the repository enclosing start, walking up the directory tree
// until a .git entry is found.
func Detect(start string) (*Repository, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", start, err)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, abs)
		}
		return nil, fmt.Errorf("open repository: %w", err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("worktree: %w", err)
	}
	return &Repository{Root: wt.Filesystem.Root(), repo: repo}, nil
}

// Head returns the HEAD commit hash. A repository without commits yields an
// empty string and no error.
func (r *Repository) Head() (string, error) {
	ref, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}

// ShortHead is Head truncated to 12 characters.
func (r *Repository) ShortHead() (string, error) {
	head, err := r.Head()
	if err != nil || len(head) <= 12 {
		return head, err
	}
	return head[:12], nil
}

// ResolveRoot returns the repository root for start, or start itself (made
// absolute) when it is not inside a repository.
func ResolveRoot(start string) (string, error) {
	repo, err := Detect(start)
	if err == nil {
		return repo.Root, nil
	}
	if errors.Is(err, ErrNotRepository) {
		return filepath.Abs(start)
	}
	return "", err
}
