// Package registry loads the package descriptor (packages.yml), the single
// source of truth for which packages exist and where their documentation lives.
package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docsnap/internal/foundation/errors"
)

// Package is one descriptor record.
type Package struct {
	ID           string   `yaml:"id"`
	Name         string   `yaml:"name"`
	Category     string   `yaml:"category"`
	Version      string   `yaml:"version"`
	Status       string   `yaml:"status"`
	Path         string   `yaml:"path"`
	TestPath     string   `yaml:"test_path"`
	SamplePath   string   `yaml:"sample_path,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Dependencies []string `yaml:"dependencies,omitempty"`
}

// Category describes a package category.
type Category struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Release lists the packages shipped in a version.
type Release struct {
	Version  string   `yaml:"version"`
	Packages []string `yaml:"packages"`
}

// Descriptor is the parsed descriptor file.
type Descriptor struct {
	Metadata   map[string]any      `yaml:"metadata,omitempty"`
	Categories map[string]Category `yaml:"categories,omitempty"`
	Versions   []Release           `yaml:"versions,omitempty"`
	Packages   []Package           `yaml:"packages"`
}

// Registry provides lookups over a loaded descriptor.
type Registry struct {
	path   string
	root   string
	desc   Descriptor
	byID   map[string]*Package
	byName map[string]*Package
}

// Load reads the descriptor at path. Paths inside the descriptor are resolved
// against the directory containing it.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.DescriptorError("package descriptor not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.DescriptorError("failed to read package descriptor").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	reg, err := Parse(data, filepath.Dir(path))
	if err != nil {
		return nil, errors.DescriptorError("invalid package descriptor").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	reg.path = path
	return reg, nil
}

// Parse builds a registry from descriptor bytes; root is the base for package paths.
func Parse(data []byte, root string) (*Registry, error) {
	var desc Descriptor
	if err := yaml.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse descriptor: %w", err)
	}

	r := &Registry{
		root:   root,
		desc:   desc,
		byID:   make(map[string]*Package, len(desc.Packages)),
		byName: make(map[string]*Package, len(desc.Packages)),
	}
	for i := range r.desc.Packages {
		pkg := &r.desc.Packages[i]
		// First occurrence wins; duplicates are reported by Validate.
		if _, ok := r.byID[pkg.ID]; !ok && pkg.ID != "" {
			r.byID[pkg.ID] = pkg
		}
		if _, ok := r.byName[pkg.Name]; !ok && pkg.Name != "" {
			r.byName[pkg.Name] = pkg
		}
	}
	return r, nil
}

// Path returns the descriptor file path (empty for parsed registries).
func (r *Registry) Path() string { return r.path }

// Root returns the directory package paths are relative to.
func (r *Registry) Root() string { return r.root }

// Packages returns the packages in descriptor order.
func (r *Registry) Packages() []Package {
	out := make([]Package, len(r.desc.Packages))
	copy(out, r.desc.Packages)
	return out
}

// Get returns a package by ID or name.
func (r *Registry) Get(identifier string) (Package, bool) {
	if pkg, ok := r.byID[identifier]; ok {
		return *pkg, true
	}
	if pkg, ok := r.byName[identifier]; ok {
		return *pkg, true
	}
	return Package{}, false
}

// Names returns every package name in descriptor order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.desc.Packages))
	for _, pkg := range r.desc.Packages {
		if pkg.Name != "" {
			names = append(names, pkg.Name)
		}
	}
	return names
}

// ByCategory returns the packages in category.
func (r *Registry) ByCategory(category string) []Package {
	return r.filter(func(p Package) bool { return p.Category == category })
}

// ByStatus returns the packages with status.
func (r *Registry) ByStatus(status string) []Package {
	return r.filter(func(p Package) bool { return p.Status == status })
}

// ByRelease returns the packages shipped in version, in release order.
func (r *Registry) ByRelease(version string) []Package {
	for _, rel := range r.desc.Versions {
		if rel.Version != version {
			continue
		}
		out := make([]Package, 0, len(rel.Packages))
		for _, id := range rel.Packages {
			if pkg, ok := r.byID[id]; ok {
				out = append(out, *pkg)
			}
		}
		return out
	}
	return nil
}

// Categories returns the declared category keys, sorted.
func (r *Registry) Categories() []string {
	keys := make([]string, 0, len(r.desc.Categories))
	for k := range r.desc.Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (r *Registry) filter(keep func(Package) bool) []Package {
	var out []Package
	for _, pkg := range r.desc.Packages {
		if keep(pkg) {
			out = append(out, pkg)
		}
	}
	return out
}
