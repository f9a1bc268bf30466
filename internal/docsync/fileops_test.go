package docsync

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docsnap/internal/markdown"
	"git.home.luguber.info/inful/docsnap/internal/syncmap"
)

func TestFingerprint(t *testing.T) {
	a := Fingerprint([]byte("# Title\n\nBody\n"))
	assert.NotEmpty(t, a)
	assert.Equal(t, a, Fingerprint([]byte("# Title\n\nBody\n")))
	assert.NotEqual(t, a, Fingerprint([]byte("# Title\n\nOther body\n")))
}

func TestSplitFrontMatter(t *testing.T) {
	tests := []struct {
		name     string
		in       string
		wantFM   string
		wantBody string
	}{
		{"none", "# Title\n", "", "# Title\n"},
		{"front matter", "---\ntitle: X\n---\n# Body\n", "title: X", "# Body\n"},
		{"crlf", "---\r\ntitle: X\r\n---\r\nBody\r\n", "title: X", "Body\n"},
		{"only front matter", "---\ntitle: X\n---", "title: X", ""},
		{"unterminated", "---\ntitle: X\n", "", "---\ntitle: X\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm, body := splitFrontMatter([]byte(tt.in))
			assert.Equal(t, tt.wantFM, fm)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "page.md")

	require.NoError(t, writeFileAtomic(target, []byte("one")))
	require.NoError(t, writeFileAtomic(target, []byte("two")))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "two", string(data))

	entries, err := os.ReadDir(filepath.Dir(target))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files left behind")
	assert.Equal(t, "page.md", entries[0].Name())
}

func TestCopyDir(t *testing.T) {
	src := t.TempDir()
	writeFile(t, src, "a.txt", "a")
	writeFile(t, src, "sub/b.txt", "b")
	dst := filepath.Join(t.TempDir(), "copy")

	require.NoError(t, copyDir(src, dst))
	assert.Equal(t, "a", readFile(t, dst, "a.txt"))
	assert.Equal(t, "b", readFile(t, dst, "sub/b.txt"))
}

func TestAuditor(t *testing.T) {
	docs := t.TempDir()
	writeFile(t, docs, "assets/logo.png", "png")
	sm, err := syncmap.New([]syncmap.Entry{
		{Source: "README.md", Destination: "index.md"},
		{Source: "src/Core/README.md", Destination: "packages/core.md"},
	})
	require.NoError(t, err)

	content := []byte("[core](packages/core.md) [dir](packages/core/) ![logo](assets/logo.png)\n" +
		"![gone](assets/gone.png) [up](../outside.md) [site](https://example.com) [top](#top)\n\n" +
		"[ref]: missing.md\n")

	findings := newAuditor(sm, docs).audit("index.md", content)
	targets := make([]string, 0, len(findings))
	for _, f := range findings {
		targets = append(targets, f.Target)
		assert.Equal(t, "index.md", f.Document)
	}
	assert.ElementsMatch(t, []string{"assets/gone.png", "../outside.md", "missing.md"}, targets)

	for _, f := range findings {
		if f.Target == "missing.md" {
			assert.Equal(t, markdown.LinkKindReferenceDefinition, f.Kind)
		}
	}
}
