package convert

import (
	"path"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/syncmap"
)

var (
	// shorthandMarkdownLink matches the destination part of a markdown link to
	// a package README: ](src/<pkg>/README.md) with an optional fragment.
	shorthandMarkdownLink = regexp.MustCompile(`\]\((?:\./)?(src/[^()\s#]+)/README\.md(#[^()\s]*)?\)`)
	// shorthandHTMLLink matches an anchor opening tag pointing at a package README.
	shorthandHTMLLink = regexp.MustCompile(`<a href="(?:\./)?(src/[^"#\s]+)/README\.md(#[^"\s]*)?">`)
	// packageHeaderCell matches a bold table cell on a single line.
	packageHeaderCell = regexp.MustCompile(`<td><strong>(.*?)</strong></td>`)
)

// packageDocDestination returns the docs-root relative page for the package
// rooted at dir (e.g. "src/Rivulet.Core"). The Sync Map wins; otherwise the
// slug of the last path segment under packagesDir is used.
func packageDocDestination(sync *syncmap.Map, packagesDir, dir string) string {
	if sync != nil {
		if entry, ok := sync.Lookup(path.Join(dir, "README.md")); ok {
			return entry.Destination
		}
	}
	return path.Join(packagesDir, syncmap.Slug(path.Base(dir))+".md")
}

// rewritePackageLinks normalizes shorthand links to package READMEs. Markdown
// links point at the package page, HTML anchors at its directory URL.
func rewritePackageLinks(text string, sync *syncmap.Map, packagesDir string) (string, int) {
	changed := 0
	text = shorthandMarkdownLink.ReplaceAllStringFunc(text, func(match string) string {
		m := shorthandMarkdownLink.FindStringSubmatch(match)
		changed++
		return "](" + packageDocDestination(sync, packagesDir, m[1]) + m[2] + ")"
	})
	text = shorthandHTMLLink.ReplaceAllStringFunc(text, func(match string) string {
		m := shorthandHTMLLink.FindStringSubmatch(match)
		dest := strings.TrimSuffix(packageDocDestination(sync, packagesDir, m[1]), ".md")
		changed++
		return `<a href="` + dest + "/" + m[2] + `">`
	})
	return text, changed
}

// stylePackageHeaders restyles bold table cells naming a known package.
func stylePackageHeaders(text string, names []string) (string, int) {
	if len(names) == 0 {
		return text, 0
	}
	changed := 0
	out := packageHeaderCell.ReplaceAllStringFunc(text, func(cell string) string {
		label := packageHeaderCell.FindStringSubmatch(cell)[1]
		if !containsAnyExact(label, names) {
			return cell
		}
		changed++
		return `<td><span style="font-size: 0.9em; font-weight: 600;">` + label + `</span></td>`
	})
	return out, changed
}

func containsAnyExact(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
