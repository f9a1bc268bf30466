package docsync

import (
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/markdown"
	"git.home.luguber.info/inful/docsnap/internal/syncmap"
)

// Finding is a link in a converted document that does not resolve inside the
// documentation tree.
type Finding struct {
	Document string
	Target   string
	Kind     markdown.LinkKind
}

// auditor re-parses converted output and checks every relative link against
// the planned destinations and the docs tree on disk.
type auditor struct {
	sync    *syncmap.Map
	docsDir string
}

func newAuditor(sm *syncmap.Map, docsDir string) *auditor {
	return &auditor{sync: sm, docsDir: docsDir}
}

func (a *auditor) audit(document string, content []byte) []Finding {
	links, err := markdown.ExtractLinks(content, markdown.Options{})
	if err != nil {
		slog.Debug("Link audit skipped", slog.String("document", document), slog.String("error", err.Error()))
		return nil
	}

	var findings []Finding
	base := path.Dir(document)
	for _, l := range links {
		target := strings.TrimSpace(l.Destination)
		if target == "" || markdown.IsExternal(target) || markdown.IsAnchor(target) {
			continue
		}
		if i := strings.IndexAny(target, "?#"); i >= 0 {
			target = target[:i]
		}
		if target == "" {
			continue
		}
		if !a.resolves(base, target) {
			findings = append(findings, Finding{Document: document, Target: l.Destination, Kind: l.Kind})
		}
	}
	return findings
}

func (a *auditor) resolves(base, target string) bool {
	dirURL := strings.HasSuffix(target, "/")
	p := path.Clean(path.Join(base, target))
	if strings.HasPrefix(target, "/") {
		p = syncmap.Clean(target)
	}
	if p == ".." || strings.HasPrefix(p, "../") {
		return false
	}

	candidates := []string{p}
	if dirURL {
		candidates = append(candidates, p+".md", path.Join(p, "index.md"))
	}
	for _, c := range candidates {
		if a.sync != nil && a.sync.IsDestination(c) {
			return true
		}
		if _, err := os.Stat(filepath.Join(a.docsDir, filepath.FromSlash(c))); err == nil {
			return true
		}
	}
	return false
}
