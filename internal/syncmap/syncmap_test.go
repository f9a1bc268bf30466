package syncmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsnap/internal/registry"
)

var layout = Layout{DestinationDir: "packages", Readme: "README.md"}

func TestBuild(t *testing.T) {
	roots := []Entry{
		{Source: "README.md", Destination: "index.md", Transform: true, Required: true},
		{Source: "./LICENSE.txt", Destination: "license.md"},
	}
	pkgs := []registry.Package{
		{Name: "Rivulet.Core", Path: "src/Rivulet.Core"},
		{Name: "Example", Path: "src/Example/"},
		{Name: "", Path: "src/Nameless"},
	}

	m, err := Build(roots, pkgs, layout)
	require.NoError(t, err)
	require.Equal(t, 4, m.Len())

	e, ok := m.Lookup("src/Rivulet.Core/README.md")
	require.True(t, ok)
	assert.Equal(t, "packages/rivulet-core.md", e.Destination)
	assert.False(t, e.Transform)
	assert.Equal(t, "Rivulet.Core", e.Package)

	e, ok = m.Lookup("src/Example/../Example/README.md")
	require.True(t, ok)
	assert.Equal(t, "packages/example.md", e.Destination)

	e, ok = m.Lookup("LICENSE.txt")
	require.True(t, ok)
	assert.Equal(t, "license.md", e.Destination)

	_, ok = m.Lookup("src/Nameless/README.md")
	assert.False(t, ok)

	assert.True(t, m.IsDestination("packages/example.md"))
	assert.True(t, m.IsDestination("./index.md"))
	assert.False(t, m.IsDestination("README.md"))

	assert.Equal(t, []string{"Rivulet.Core", "Example"}, m.PackageNames())
}

func TestNew_RejectsDuplicates(t *testing.T) {
	_, err := New([]Entry{
		{Source: "README.md", Destination: "index.md"},
		{Source: "./README.md", Destination: "other.md"},
	})
	require.Error(t, err)

	_, err = New([]Entry{
		{Source: "A.md", Destination: "x.md"},
		{Source: "B.md", Destination: "x.md"},
	})
	require.Error(t, err)

	_, err = New([]Entry{{Source: "A.md"}})
	require.Error(t, err)
}

func TestEntriesIsACopy(t *testing.T) {
	m, err := New([]Entry{{Source: "README.md", Destination: "index.md"}})
	require.NoError(t, err)

	entries := m.Entries()
	entries[0].Destination = "changed.md"

	e, _ := m.Lookup("README.md")
	assert.Equal(t, "index.md", e.Destination)
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Rivulet.Core":           "rivulet-core",
		"Rivulet.Http.Resilient": "rivulet-http-resilient",
		"Example":                "example",
		" Spaced.Name ":          "spaced-name",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slug(in), in)
	}
}

func TestClean(t *testing.T) {
	tests := map[string]string{
		"./docs/a.md":   "docs/a.md",
		"docs/../b.md":  "b.md",
		`docs\win.md`:   "docs/win.md",
		"/README.md":    "README.md",
		"../outside.md": "../outside.md",
		".":             "",
		"":              "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Clean(in), in)
	}
}

func TestNew_RejectsChainedDestinations(t *testing.T) {
	_, err := New([]Entry{
		{Source: "A.md", Destination: "B.md"},
		{Source: "B.md", Destination: "C.md"},
	})
	require.Error(t, err)

	_, err = New([]Entry{{Source: "CONTRIBUTING.md", Destination: "CONTRIBUTING.md"}})
	require.NoError(t, err)
}
