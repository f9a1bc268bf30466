package registry

import (
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
	"git.home.luguber.info/inful/docsnap/internal/git"
)

// Find locates the descriptor named name by walking up from start. The walk
// stops at the enclosing repository root; outside a repository only start
// itself is searched.
func Find(start, name string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "resolve search path").Build()
	}
	root, err := git.ResolveRoot(dir)
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryFileSystem, "detect repository root").Build()
	}

	for {
		candidate := filepath.Join(dir, name)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		if sameDir(dir, root) {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", errors.DescriptorError("package descriptor not found").
		WithContext("name", name).
		WithContext("root", root).
		Build()
}

func sameDir(a, b string) bool {
	if a == b {
		return true
	}
	ra, errA := filepath.EvalSymlinks(a)
	rb, errB := filepath.EvalSymlinks(b)
	return errA == nil && errB == nil && ra == rb
}
