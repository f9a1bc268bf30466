package convert

import (
	"fmt"
	"regexp"
	"strings"
)

// DivKind classifies the content of a centered block.
type DivKind int

const (
	DivSingleImage DivKind = iota
	DivBadgeGroup
	DivGeneric
)

func (k DivKind) String() string {
	switch k {
	case DivSingleImage:
		return "single-image"
	case DivBadgeGroup:
		return "badge-group"
	default:
		return "generic"
	}
}

var (
	centeredDivPattern = regexp.MustCompile(`(?s)<div align="center">\s*\n(.*?)\n\s*</div>`)
	singleImagePattern = regexp.MustCompile(`^<img\b[^>]*>$`)
	// linkedImagePattern matches [![alt](img)](href).
	linkedImagePattern = regexp.MustCompile(`\[!\[([^\]]*)\]\(([^)]+)\)\]\(([^)]+)\)`)
)

// DivBlock is the raw inner content of one centered block.
type DivBlock struct {
	Inner string
}

// Kind returns the block's shape. Exactly one kind applies, checked in the
// order single image, badge group, generic.
func (b DivBlock) Kind() DivKind {
	content := strings.TrimSpace(b.Inner)
	switch {
	case singleImagePattern.MatchString(content) && strings.Count(content, "<img") == 1:
		return DivSingleImage
	case strings.Contains(content, "!["):
		return DivBadgeGroup
	default:
		return DivGeneric
	}
}

// Replacement returns the text the block is rewritten to, without padding.
func (b DivBlock) Replacement() string {
	content := strings.TrimSpace(b.Inner)
	switch b.Kind() {
	case DivSingleImage:
		return "<div align=\"center\">\n" + content + "\n</div>"
	case DivBadgeGroup:
		return badgeGroup(content)
	default:
		return content
	}
}

// badgeGroup converts the image-bearing lines of content. Lines starting with
// a linked image contribute every linked image they hold as an HTML anchor;
// when no line does, the lines are kept as markdown in a div the site
// generator re-processes.
func badgeGroup(content string) string {
	var lines, anchors []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.Contains(line, "![") {
			continue
		}
		lines = append(lines, line)

		if loc := linkedImagePattern.FindStringIndex(line); loc == nil || loc[0] != 0 {
			continue
		}
		for _, m := range linkedImagePattern.FindAllStringSubmatch(line, -1) {
			anchors = append(anchors, fmt.Sprintf(`<a href="%s"><img src="%s" alt="%s"></a>`, m[3], m[2], m[1]))
		}
	}

	if len(anchors) > 0 {
		return "<p align=\"center\">\n" + strings.Join(anchors, " ") + "\n</p>"
	}
	return "<div class=\"badges\" markdown=\"1\" align=\"center\">\n\n" + strings.Join(lines, " ") + "\n\n</div>"
}

// processDivBlocks rewrites every centered block in document order. Each
// replacement is separated from its surroundings by exactly one blank line.
func processDivBlocks(text string) (string, int) {
	matches := centeredDivPattern.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, 0
	}

	var out strings.Builder
	out.Grow(len(text))
	last := 0
	padAfter := false

	for _, m := range matches {
		segment := text[last:m[0]]
		if padAfter {
			segment = trimLeadingBlankLines(segment)
			if segment != "" {
				out.WriteString("\n\n")
			}
		}
		out.WriteString(segment)

		before := trimTrailingBlankLines(out.String())
		out.Reset()
		out.WriteString(before)
		if before != "" {
			out.WriteString("\n\n")
		}

		block := DivBlock{Inner: text[m[2]:m[3]]}
		out.WriteString(block.Replacement())
		padAfter = true
		last = m[1]
	}

	rest := trimLeadingBlankLines(text[last:])
	switch {
	case rest != "":
		out.WriteString("\n\n")
		out.WriteString(rest)
	case strings.Contains(text[last:], "\n"):
		out.WriteString("\n")
	}
	return out.String(), len(matches)
}

// trimTrailingBlankLines removes whitespace-only lines (and the newline ending
// the last content line) from the end of s. Content lines are left intact.
func trimTrailingBlankLines(s string) string {
	end := len(s)
	for {
		i := strings.LastIndexByte(s[:end], '\n')
		if strings.TrimSpace(s[i+1:end]) != "" {
			return s[:end]
		}
		if i < 0 {
			return ""
		}
		end = i
	}
}

// trimLeadingBlankLines removes whitespace-only lines from the start of s.
// A partial first line with content (text directly after a closing tag) is
// kept without its leading blanks; later lines keep their indentation.
func trimLeadingBlankLines(s string) string {
	start := 0
	for {
		i := strings.IndexByte(s[start:], '\n')
		if i < 0 {
			if strings.TrimSpace(s[start:]) == "" {
				return ""
			}
			break
		}
		if strings.TrimSpace(s[start:start+i]) != "" {
			break
		}
		start += i + 1
	}
	if start == 0 {
		return strings.TrimLeft(s, " \t")
	}
	return s[start:]
}
