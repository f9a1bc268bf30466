package convert

import (
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/docsnap/internal/markdown"
)

// Verdict is the outcome of classifying a badge URL.
type Verdict int

const (
	// Keep marks a URL whose content is frozen at publication time.
	Keep Verdict = iota
	// Remove marks a URL reflecting live upstream state.
	Remove
)

func (v Verdict) String() string {
	if v == Remove {
		return "remove"
	}
	return "keep"
}

// BadgeRules configures the classifier. Every entry is matched as a
// case-insensitive substring of the whole URL.
type BadgeRules struct {
	StaticDomains      []string
	DynamicDomains     []string
	AggregatorDomains  []string
	AggregatorKeywords []string
}

// DefaultBadgeRules returns the built-in rule lists.
func DefaultBadgeRules() BadgeRules {
	return BadgeRules{
		StaticDomains:      []string{"opensource.org", "dotnet.microsoft.com", "nuget.org"},
		DynamicDomains:     []string{"github.com/", "codecov.io/", "scorecard.dev/"},
		AggregatorDomains:  []string{"shields.io"},
		AggregatorKeywords: []string{"readthedocs", "github", "codecov"},
	}
}

// rule is one row of the classification table. Rows are evaluated in order
// and the first match decides.
type rule struct {
	name    string
	match   func(url string) bool
	verdict Verdict
}

// Classifier decides whether a badge URL may appear in frozen documentation.
type Classifier struct {
	rules []rule
}

// NewClassifier compiles rules into a priority-ordered table:
// static domains, dynamic domains, aggregators with a dynamic keyword,
// remaining aggregators. Anything else is kept.
func NewClassifier(rules BadgeRules) *Classifier {
	static := lowerAll(rules.StaticDomains)
	dynamic := lowerAll(rules.DynamicDomains)
	aggregators := lowerAll(rules.AggregatorDomains)
	keywords := lowerAll(rules.AggregatorKeywords)

	return &Classifier{rules: []rule{
		{name: "static", verdict: Keep, match: func(u string) bool { return containsAny(u, static) }},
		{name: "dynamic", verdict: Remove, match: func(u string) bool { return containsAny(u, dynamic) }},
		{name: "aggregator-dynamic", verdict: Remove, match: func(u string) bool {
			return containsAny(u, aggregators) && containsAny(u, keywords)
		}},
		{name: "aggregator", verdict: Keep, match: func(u string) bool { return containsAny(u, aggregators) }},
	}}
}

// Classify returns the verdict for url. Unrecognized and empty URLs are kept.
func (c *Classifier) Classify(url string) Verdict {
	u := strings.ToLower(strings.TrimSpace(url))
	if u == "" {
		return Keep
	}
	for _, r := range c.rules {
		if r.match(u) {
			return r.verdict
		}
	}
	return Keep
}

// BadgeLink is an image wrapped in a link.
type BadgeLink struct {
	Href     string
	ImageSrc string
}

// Removable reports whether either URL of the badge reflects live state.
func (b BadgeLink) Removable(c *Classifier) bool {
	return c.Classify(b.Href) == Remove || c.Classify(b.ImageSrc) == Remove
}

var (
	// htmlBadgePattern finds an anchor wrapping an image, plus trailing blanks
	// and an optional line break that belong to the badge.
	htmlBadgePattern = regexp.MustCompile(`<a\s[^>]*>[^<]*<img[^>]*>[^<]*</a>[ \t]*(?:<br\s*/?>)?[ \t]*`)
	// markdownBadgePattern finds [![alt](img)](href) plus trailing blanks.
	markdownBadgePattern = regexp.MustCompile(`\[!\[([^\]]*)\]\(([^)\s]+)\)\]\(([^)\s]+)\)[ \t]*`)
	// emptyCenteredParagraph matches a centered paragraph with no content left
	// together with the blank lines following it.
	emptyCenteredParagraph = regexp.MustCompile(`(?m)^[ \t]*<p align="center">\s*</p>[ \t]*(?:\n[ \t]*)*(?:\n|$)`)
)

// parseHTMLBadge reads the href of the first anchor and the src of the first
// image in fragment.
func parseHTMLBadge(fragment string) BadgeLink {
	var b BadgeLink
	z := html.NewTokenizer(strings.NewReader(fragment))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.DataAtom {
			case atom.A:
				if b.Href == "" {
					b.Href = attr(tok, "href")
				}
			case atom.Img:
				if b.ImageSrc == "" {
					b.ImageSrc = attr(tok, "src")
				}
			}
		}
	}
}

func attr(tok html.Token, name string) string {
	for _, a := range tok.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// removeBadges drops every badge the classifier rejects and every line carrying
// one of labels as a markdown image label. Lines emptied by removals are
// dropped, as are centered paragraphs left without content.
func removeBadges(text string, c *Classifier, labels []string) (string, int, error) {
	src := []byte(text)
	var edits []markdown.Edit
	removed := 0

	for _, label := range labels {
		marker := "![" + label + "]"
		for off := 0; off < len(text); {
			i := strings.Index(text[off:], marker)
			if i < 0 {
				break
			}
			edits = append(edits, markdown.DropLineAt(off+i))
			removed++
			_, off = markdown.LineBounds(src, off+i)
		}
	}

	var spans [][2]int
	for _, m := range htmlBadgePattern.FindAllStringIndex(text, -1) {
		if parseHTMLBadge(text[m[0]:m[1]]).Removable(c) {
			spans = append(spans, [2]int{m[0], m[1]})
		}
	}
	for _, m := range markdownBadgePattern.FindAllStringSubmatchIndex(text, -1) {
		b := BadgeLink{ImageSrc: text[m[4]:m[5]], Href: text[m[6]:m[7]]}
		if b.Removable(c) {
			spans = append(spans, [2]int{m[0], m[1]})
		}
	}
	removed += len(spans)
	spans = mergeSpans(spans)
	for i, s := range spans {
		spans[i] = widenToLineEnd(text, s[0], s[1])
	}
	spans = mergeSpans(spans)
	for _, s := range spans {
		edits = append(edits, markdown.Drop(s[0], s[1]))
	}
	edits = append(edits, emptiedLines(text, spans)...)

	out, err := markdown.ApplyEdits(src, edits)
	if err != nil {
		return text, 0, err
	}
	result := emptyCenteredParagraph.ReplaceAllString(string(out), "")
	return result, removed, nil
}

// widenToLineEnd extends a span ending a line over the blanks before it so no
// trailing whitespace is left behind.
func widenToLineEnd(text string, start, end int) [2]int {
	if end < len(text) && text[end] != '\n' && text[end] != '\r' {
		return [2]int{start, end}
	}
	for start > 0 && (text[start-1] == ' ' || text[start-1] == '\t') {
		start--
	}
	return [2]int{start, end}
}

// mergeSpans sorts spans and joins the ones that overlap or touch.
func mergeSpans(spans [][2]int) [][2]int {
	if len(spans) < 2 {
		return spans
	}
	sort.Slice(spans, func(i, j int) bool { return spans[i][0] < spans[j][0] })
	merged := [][2]int{spans[0]}
	for _, s := range spans[1:] {
		last := &merged[len(merged)-1]
		if s[0] <= last[1] {
			last[1] = max(last[1], s[1])
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

// emptiedLines returns line drops for every line whose non-blank content is
// entirely covered by spans.
func emptiedLines(text string, spans [][2]int) []markdown.Edit {
	if len(spans) == 0 {
		return nil
	}
	src := []byte(text)
	byLine := make(map[int][][2]int)
	for _, s := range spans {
		start, _ := markdown.LineBounds(src, s[0])
		byLine[start] = append(byLine[start], s)
	}

	var drops []markdown.Edit
	for lineStart, covered := range byLine {
		_, lineEnd := markdown.LineBounds(src, lineStart)
		if lineBlankWithout(text[lineStart:lineEnd], lineStart, covered) {
			drops = append(drops, markdown.DropLineAt(lineStart))
		}
	}
	return drops
}

func lineBlankWithout(line string, base int, covered [][2]int) bool {
	for i := 0; i < len(line); i++ {
		pos := base + i
		inside := false
		for _, s := range covered {
			if pos >= s[0] && pos < s[1] {
				inside = true
				break
			}
		}
		if inside {
			continue
		}
		switch line[i] {
		case ' ', '\t', '\r', '\n':
		default:
			return false
		}
	}
	return true
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
