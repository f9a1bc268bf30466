package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// Problem is one validation finding.
type Problem struct {
	Package string
	Message string
}

func (p Problem) String() string {
	if p.Package == "" {
		return p.Message
	}
	return p.Package + ": " + p.Message
}

// Validate checks the descriptor for duplicates, missing fields, dangling
// paths, unknown dependencies and unknown categories. An empty result means
// the descriptor is valid.
func (r *Registry) Validate() []Problem {
	var problems []Problem

	if dups := duplicates(r.desc.Packages, func(p Package) string { return p.ID }); len(dups) > 0 {
		problems = append(problems, Problem{Message: "duplicate package IDs: " + strings.Join(dups, ", ")})
	}
	if dups := duplicates(r.desc.Packages, func(p Package) string { return p.Name }); len(dups) > 0 {
		problems = append(problems, Problem{Message: "duplicate package names: " + strings.Join(dups, ", ")})
	}

	for _, pkg := range r.desc.Packages {
		problems = append(problems, r.validatePackage(pkg)...)
	}
	return problems
}

// ValidationErr folds problems into a single classified validation error, or nil.
func ValidationErr(problems []Problem) error {
	if len(problems) == 0 {
		return nil
	}
	return errors.ValidationError(fmt.Sprintf("package descriptor has %d problem(s)", len(problems))).
		WithContext("first", problems[0].String()).
		Build()
}

func (r *Registry) validatePackage(pkg Package) []Problem {
	name := pkg.Name
	if name == "" {
		name = "unknown"
	}
	var problems []Problem
	add := func(format string, args ...any) {
		problems = append(problems, Problem{Package: name, Message: fmt.Sprintf(format, args...)})
	}

	required := []struct {
		field, value string
	}{
		{"name", pkg.Name},
		{"id", pkg.ID},
		{"category", pkg.Category},
		{"version", pkg.Version},
		{"status", pkg.Status},
		{"path", pkg.Path},
		{"test_path", pkg.TestPath},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			add("missing required field '%s'", f.field)
		}
	}

	for _, p := range []struct{ label, path string }{
		{"package path", pkg.Path},
		{"test path", pkg.TestPath},
		{"sample path", pkg.SamplePath},
	} {
		if p.path == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(r.root, filepath.FromSlash(p.path))); err != nil {
			add("%s does not exist: %s", p.label, p.path)
		}
	}

	for _, dep := range pkg.Dependencies {
		if _, ok := r.Get(dep); !ok {
			add("unknown dependency: %s", dep)
		}
	}

	if pkg.Category != "" && len(r.desc.Categories) > 0 {
		if _, ok := r.desc.Categories[pkg.Category]; !ok {
			add("unknown category: %s", pkg.Category)
		}
	}
	return problems
}

func duplicates(pkgs []Package, key func(Package) string) []string {
	counts := make(map[string]int, len(pkgs))
	for _, p := range pkgs {
		if k := key(p); k != "" {
			counts[k]++
		}
	}
	var out []string
	for k, n := range counts {
		if n > 1 {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
