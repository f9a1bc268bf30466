// Package syncmap holds the read-only mapping from repository documents to
// their location in the documentation site.
//
// A Map is built once per run and shared by every transform. Nothing mutates
// it after Build returns.
package syncmap

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/docsnap/internal/registry"
)

// Entry maps one source document to its destination.
type Entry struct {
	// Source is slash separated and relative to the repository root.
	Source string
	// Destination is slash separated and relative to the documentation root.
	Destination string
	// Transform selects the markdown pipeline instead of a verbatim copy.
	Transform bool
	// Required aborts the run when the source cannot be read.
	Required bool
	// Package is the descriptor name for package READMEs, empty otherwise.
	Package string
}

// Layout describes where package documentation goes.
type Layout struct {
	DestinationDir string // relative to the documentation root
	Readme         string // file name inside each package path
}

// Map is the immutable Sync Map.
type Map struct {
	entries  []Entry
	bySource map[string]int
	byDest   map[string]int
}

// New builds a Map from entries in order. Sources and destinations must be unique.
func New(entries []Entry) (*Map, error) {
	m := &Map{
		entries:  make([]Entry, 0, len(entries)),
		bySource: make(map[string]int, len(entries)),
		byDest:   make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		e.Source = Clean(e.Source)
		e.Destination = Clean(e.Destination)
		if e.Source == "" || e.Destination == "" {
			return nil, fmt.Errorf("sync entry requires source and destination: %+v", e)
		}
		if _, dup := m.bySource[e.Source]; dup {
			return nil, fmt.Errorf("duplicate sync source %q", e.Source)
		}
		if _, dup := m.byDest[e.Destination]; dup {
			return nil, fmt.Errorf("duplicate sync destination %q", e.Destination)
		}
		m.bySource[e.Source] = len(m.entries)
		m.byDest[e.Destination] = len(m.entries)
		m.entries = append(m.entries, e)
	}
	// A destination naming another entry's source would make rewritten links
	// resolve again on the next pass.
	for i, e := range m.entries {
		if j, ok := m.bySource[e.Destination]; ok && j != i {
			return nil, fmt.Errorf("sync destination %q is the source of another entry", e.Destination)
		}
	}
	return m, nil
}

// Build combines the fixed root documents with one entry per described package.
// Packages without a name or path are skipped.
func Build(roots []Entry, packages []registry.Package, layout Layout) (*Map, error) {
	entries := make([]Entry, 0, len(roots)+len(packages))
	entries = append(entries, roots...)
	for _, pkg := range packages {
		if pkg.Name == "" || pkg.Path == "" {
			continue
		}
		entries = append(entries, Entry{
			Source:      path.Join(Clean(pkg.Path), layout.Readme),
			Destination: path.Join(layout.DestinationDir, Slug(pkg.Name)+".md"),
			Package:     pkg.Name,
		})
	}
	return New(entries)
}

// Lookup returns the entry for a repository-relative source path.
func (m *Map) Lookup(source string) (Entry, bool) {
	i, ok := m.bySource[Clean(source)]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// IsDestination reports whether dest names a documentation-root path some entry is synced to.
func (m *Map) IsDestination(dest string) bool {
	_, ok := m.byDest[Clean(dest)]
	return ok
}

// Entries returns the entries in build order.
func (m *Map) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries.
func (m *Map) Len() int { return len(m.entries) }

// PackageNames returns the package names covered by the map, in build order.
func (m *Map) PackageNames() []string {
	var names []string
	for _, e := range m.entries {
		if e.Package != "" {
			names = append(names, e.Package)
		}
	}
	return names
}

// Slug converts a package name to its file-name form: "Rivulet.Core" becomes "rivulet-core".
func Slug(name string) string {
	// Casers carry state; one per call keeps Slug safe for concurrent use.
	lower := cases.Lower(language.Und)
	return strings.ReplaceAll(lower.String(strings.TrimSpace(name)), ".", "-")
}

// Clean normalizes a relative path: slash separated, no "./" prefix, "." and
// ".." segments resolved. Paths escaping the root keep their leading "..".
func Clean(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	if p == "" {
		return ""
	}
	cleaned := path.Clean(p)
	cleaned = strings.TrimPrefix(cleaned, "/")
	if cleaned == "." {
		return ""
	}
	return cleaned
}
