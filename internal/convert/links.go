package convert

import (
	"bytes"
	"io/fs"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docsnap/internal/markdown"
	"git.home.luguber.info/inful/docsnap/internal/syncmap"
)

// ResolutionKind is what happens to one markdown link.
type ResolutionKind int

const (
	PassThrough ResolutionKind = iota
	Rewritten
	RemovedLine
	RemovedInline
)

func (k ResolutionKind) String() string {
	switch k {
	case Rewritten:
		return "rewritten"
	case RemovedLine:
		return "removed-line"
	case RemovedInline:
		return "removed-inline"
	default:
		return "pass-through"
	}
}

// RemovalReason explains why a link was removed.
type RemovalReason string

const (
	// ReasonUnsynced: the target exists in the repository but is not synced.
	ReasonUnsynced RemovalReason = "unsynced"
	// ReasonMissing: the target does not exist.
	ReasonMissing RemovalReason = "missing"
	// ReasonOutside: the target resolves outside the repository.
	ReasonOutside RemovalReason = "outside-repository"
)

// Resolution is the outcome of resolving one link.
type Resolution struct {
	Kind        ResolutionKind
	Replacement string
	Reason      RemovalReason
}

// LinkReference is one inline markdown link.
type LinkReference struct {
	Text   string
	Target string
}

// Removal records a removed link for reporting.
type Removal struct {
	Target string
	Kind   ResolutionKind
	Reason RemovalReason
}

// Resolver maps repository-relative link targets onto the documentation site.
type Resolver struct {
	sync        *syncmap.Map
	repo        fs.FS
	licenseFile string
	passPrefix  []string
}

// NewResolver returns a resolver over sync. repo is a read-only view of the
// repository root used only to tell unsynced from missing targets; it may be nil.
// Targets under any of passThrough (docs-root relative directories such as the
// copied assets) are left alone.
func NewResolver(sync *syncmap.Map, repo fs.FS, licenseFile string, passThrough []string) *Resolver {
	r := &Resolver{sync: sync, repo: repo, licenseFile: licenseFile}
	for _, p := range passThrough {
		if p = syncmap.Clean(p); p != "" {
			r.passPrefix = append(r.passPrefix, p+"/")
		}
	}
	return r
}

// listMarker matches the start of a list item line (after trimming).
var listMarker = regexp.MustCompile(`^(?:[-*+]|\d+[.)])(?:\s|$)`)

// Resolve decides what happens to the link [text](target). listItem reports
// whether the enclosing line is a list item.
func (r *Resolver) Resolve(ref LinkReference, listItem bool) Resolution {
	target := strings.TrimSpace(ref.Target)
	if target == "" || markdown.IsExternal(target) || markdown.IsAnchor(target) {
		return Resolution{Kind: PassThrough}
	}

	path, fragment := target, ""
	if i := strings.IndexByte(target, '#'); i >= 0 {
		path, fragment = target[:i], target[i:]
	}
	if path == "LICENSE" && r.licenseFile != "" {
		path = r.licenseFile
	}

	cleaned := syncmap.Clean(path)
	if r.sync != nil {
		if entry, ok := r.sync.Lookup(cleaned); ok {
			return Resolution{
				Kind:        Rewritten,
				Replacement: "[" + ref.Text + "](" + entry.Destination + fragment + ")",
			}
		}
		if r.sync.IsDestination(cleaned) {
			return Resolution{Kind: PassThrough}
		}
	}
	// Copied directories resolve in the docs tree without an entry.
	for _, prefix := range r.passPrefix {
		if strings.HasPrefix(cleaned, prefix) {
			return Resolution{Kind: PassThrough}
		}
	}

	res := Resolution{Kind: RemovedInline, Reason: r.reason(cleaned)}
	if listItem {
		res.Kind = RemovedLine
	}
	return res
}

func (r *Resolver) reason(cleaned string) RemovalReason {
	if cleaned == "" || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return ReasonOutside
	}
	if r.repo == nil {
		return ReasonMissing
	}
	if _, err := fs.Stat(r.repo, cleaned); err == nil {
		return ReasonUnsynced
	}
	return ReasonMissing
}

// LinkStats counts resolutions by kind.
type LinkStats struct {
	PassThrough   int
	Rewritten     int
	RemovedLine   int
	RemovedInline int
}

// Apply resolves every inline link in text in a single forward scan and
// materializes the resulting edits. Links inside fenced code blocks and code
// spans are left alone.
func (r *Resolver) Apply(text string) (string, LinkStats, []Removal, error) {
	var (
		src      = []byte(text)
		edits    []markdown.Edit
		stats    LinkStats
		removals []Removal
	)

	scanLinks(text, func(start, end int, ref LinkReference) {
		res := r.Resolve(ref, isListItem(src, start))
		switch res.Kind {
		case PassThrough:
			stats.PassThrough++
		case Rewritten:
			stats.Rewritten++
			if res.Replacement != text[start:end] {
				edits = append(edits, markdown.Replace(start, end, res.Replacement))
			}
		case RemovedLine:
			stats.RemovedLine++
			edits = append(edits, markdown.DropLineAt(start))
			removals = append(removals, Removal{Target: ref.Target, Kind: res.Kind, Reason: res.Reason})
		case RemovedInline:
			stats.RemovedInline++
			edits = append(edits, markdown.Drop(start, end))
			removals = append(removals, Removal{Target: ref.Target, Kind: res.Kind, Reason: res.Reason})
		}
	})

	out, err := markdown.ApplyEdits(src, edits)
	if err != nil {
		return text, LinkStats{}, nil, err
	}
	return string(out), stats, removals, nil
}

func isListItem(src []byte, offset int) bool {
	start, end := markdown.LineBounds(src, offset)
	return listMarker.Match(bytes.TrimSpace(src[start:end]))
}

// scanLinks calls fn for every inline link [text](target) not preceded by '!',
// with the byte range of the whole construct. Link text may contain nested
// brackets, so [![alt](img)](href) reports the outer link.
func scanLinks(text string, fn func(start, end int, ref LinkReference)) {
	inFence := false
	fence := ""
	lineStart := true

	for i := 0; i < len(text); {
		if lineStart {
			lineStart = false
			trimmed := strings.TrimLeft(lineAt(text, i), " \t")
			if marker := fenceMarker(trimmed); marker != "" {
				switch {
				case !inFence:
					inFence, fence = true, marker
				case strings.HasPrefix(marker, fence):
					inFence, fence = false, ""
				}
				i = skipLine(text, i)
				lineStart = true
				continue
			}
		}
		if inFence {
			i = skipLine(text, i)
			lineStart = true
			continue
		}

		switch text[i] {
		case '\n':
			lineStart = true
			i++
			continue
		case '\\':
			i += 2
			continue
		case '`':
			i = skipCodeSpan(text, i)
			continue
		case '[':
			if i > 0 && text[i-1] == '!' {
				i++
				continue
			}
			if end, ref, ok := parseInlineLink(text, i); ok {
				fn(i, end, ref)
				i = end
				continue
			}
		}
		i++
	}
}

// parseInlineLink parses a link starting at the '[' at i.
func parseInlineLink(text string, i int) (int, LinkReference, bool) {
	closeBracket := findClosingBracket(text, i+1)
	if closeBracket < 0 || closeBracket+1 >= len(text) || text[closeBracket+1] != '(' {
		return 0, LinkReference{}, false
	}
	closeParen := findClosingParen(text, closeBracket+2)
	if closeParen < 0 {
		return 0, LinkReference{}, false
	}
	return closeParen + 1, LinkReference{
		Text:   text[i+1 : closeBracket],
		Target: text[closeBracket+2 : closeParen],
	}, true
}

// findClosingBracket finds the ']' balancing the '[' before start. A blank
// line ends the search.
func findClosingBracket(text string, start int) int {
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '\\':
			i++
		case '[':
			depth++
		case ']':
			if depth == 0 {
				return i
			}
			depth--
		case '\n':
			if i+1 < len(text) && text[i+1] == '\n' {
				return -1
			}
		}
	}
	return -1
}

// findClosingParen finds the ')' ending a link destination. Destinations
// never span lines or contain spaces.
func findClosingParen(text string, start int) int {
	for i := start; i < len(text); i++ {
		switch text[i] {
		case ')':
			if i == start {
				return -1
			}
			return i
		case '\n', ' ', '\t', '(':
			return -1
		}
	}
	return -1
}

// skipCodeSpan returns the offset after the code span opening at i. An
// unterminated span (within its paragraph) only skips the backticks.
func skipCodeSpan(text string, i int) int {
	n := 0
	for i+n < len(text) && text[i+n] == '`' {
		n++
	}
	ticks := text[i : i+n]
	rest := text[i+n:]
	if para := strings.Index(rest, "\n\n"); para >= 0 {
		rest = rest[:para]
	}
	if end := strings.Index(rest, ticks); end >= 0 {
		return i + n + end + n
	}
	return i + n
}

func fenceMarker(line string) string {
	for _, f := range []string{"```", "~~~"} {
		if strings.HasPrefix(line, f) {
			n := 0
			for n < len(line) && line[n] == f[0] {
				n++
			}
			return line[:n]
		}
	}
	return ""
}

func lineAt(text string, i int) string {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return text[i : i+j]
	}
	return text[i:]
}

func skipLine(text string, i int) int {
	if j := strings.IndexByte(text[i:], '\n'); j >= 0 {
		return i + j + 1
	}
	return len(text)
}
