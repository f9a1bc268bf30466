package convert

import (
	"regexp"
	"strings"
)

// tableCellPattern matches a cell made only of anchors, each optionally
// followed by a line break.
var tableCellPattern = regexp.MustCompile(`(?s)<td>\s*((?:<a[^>]*>.*?</a>\s*(?:<br/>)?)+)\s*</td>`)

const docsAnchorMarker = "Docs</a>"

// ReflowCell lays out a cell holding badges and one documentation link as
// all badges on one line, a double break, then the link. ok is false when the
// cell does not have that shape and must be left alone.
func ReflowCell(content string) (string, bool) {
	var lines []string
	for _, part := range strings.Split(content, "<br/>") {
		if part = strings.TrimSpace(part); part != "" {
			lines = append(lines, part)
		}
	}
	if len(lines) < 2 {
		return "", false
	}

	var badges, docs []string
	for _, line := range lines {
		switch {
		case strings.Contains(line, docsAnchorMarker):
			docs = append(docs, line)
		case strings.Contains(line, "<img"):
			badges = append(badges, line)
		}
	}
	if len(docs) != 1 || len(badges) == 0 {
		return "", false
	}
	return strings.Join(badges, " ") + "<br/><br/>" + docs[0], true
}

// reflowTableCells rewrites every matching cell. Cells that do not reflow
// keep their exact bytes.
func reflowTableCells(text string) (string, int) {
	changed := 0
	out := tableCellPattern.ReplaceAllStringFunc(text, func(cell string) string {
		m := tableCellPattern.FindStringSubmatch(cell)
		body, ok := ReflowCell(m[1])
		if !ok {
			return cell
		}
		reflowed := "<td>\n" + body + "\n</td>"
		if reflowed != cell {
			changed++
		}
		return reflowed
	})
	return out, changed
}
