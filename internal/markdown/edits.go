package markdown

import (
	"errors"
	"fmt"
	"sort"
)

// Edit represents a targeted byte-range replacement.
//
// Start and End are byte offsets into the original source, with End exclusive.
// Replacement replaces source[Start:End].
//
// When DropLine is set the edit removes the entire line containing Start,
// including its line terminator, and Replacement is ignored. Any other edit
// that falls inside a dropped line is discarded.
type Edit struct {
	Start       int
	End         int
	Replacement []byte
	DropLine    bool
}

// Drop returns an edit deleting source[start:end].
func Drop(start, end int) Edit {
	return Edit{Start: start, End: end}
}

// Replace returns an edit replacing source[start:end] with s.
func Replace(start, end int, s string) Edit {
	return Edit{Start: start, End: end, Replacement: []byte(s)}
}

// DropLineAt returns an edit removing the whole line containing offset.
func DropLineAt(offset int) Edit {
	return Edit{Start: offset, End: offset, DropLine: true}
}

// ApplyEdits applies a set of byte-range edits to source and returns the updated content.
//
// Edits must be non-overlapping and refer to offsets in the original source.
// ApplyEdits sorts edits and applies them from the end of the file toward the beginning
// so earlier edits do not invalidate offsets for later edits.
func ApplyEdits(source []byte, edits []Edit) ([]byte, error) {
	if len(edits) == 0 {
		return source, nil
	}

	for i, e := range edits {
		if e.Start < 0 || e.End < 0 {
			return nil, fmt.Errorf("invalid edit[%d]: negative range", i)
		}
		if e.End < e.Start {
			return nil, fmt.Errorf("invalid edit[%d]: end before start", i)
		}
		if e.End > len(source) {
			return nil, fmt.Errorf("invalid edit[%d]: range out of bounds", i)
		}
	}

	resolved := expandLineDrops(source, edits)

	sort.Slice(resolved, func(i, j int) bool {
		if resolved[i].Start == resolved[j].Start {
			return resolved[i].End > resolved[j].End
		}
		return resolved[i].Start > resolved[j].Start
	})

	for i := 1; i < len(resolved); i++ {
		// Sorted by Start descending: the current edit must end at or before
		// the previous edit's start.
		if resolved[i].End > resolved[i-1].Start {
			return nil, errors.New("invalid edits: overlapping ranges")
		}
	}

	out := append([]byte(nil), source...)
	for _, e := range resolved {
		prefix := out[:e.Start]
		suffix := out[e.End:]
		next := make([]byte, 0, len(prefix)+len(e.Replacement)+len(suffix))
		next = append(next, prefix...)
		next = append(next, e.Replacement...)
		next = append(next, suffix...)
		out = next
	}

	return out, nil
}

// expandLineDrops turns DropLine edits into plain deletions spanning their
// line. Edits touching a dropped line are absorbed into it: the line range
// grows to cover them and the edit itself is discarded.
func expandLineDrops(source []byte, edits []Edit) []Edit {
	type span struct{ start, end int }
	var drops []span
	seen := make(map[int]struct{})

	for _, e := range edits {
		if !e.DropLine {
			continue
		}
		start, end := LineBounds(source, e.Start)
		if _, dup := seen[start]; dup {
			continue
		}
		seen[start] = struct{}{}
		drops = append(drops, span{start, end})
	}
	if len(drops) == 0 {
		return append([]Edit(nil), edits...)
	}

	pending := make([]Edit, 0, len(edits))
	for _, e := range edits {
		if !e.DropLine {
			pending = append(pending, e)
		}
	}
	// Absorbing an edit can grow a drop into edits already checked, so repeat
	// until nothing changes.
	for changed := true; changed; {
		changed = false
		kept := pending[:0]
		for _, e := range pending {
			absorbed := false
			for k := range drops {
				d := &drops[k]
				if touches(e, d.start, d.end) {
					d.start = min(d.start, e.Start)
					d.end = max(d.end, e.End)
					absorbed = true
					changed = true
					break
				}
			}
			if !absorbed {
				kept = append(kept, e)
			}
		}
		pending = kept
	}

	sort.Slice(drops, func(i, j int) bool { return drops[i].start < drops[j].start })
	merged := []span{drops[0]}
	for _, d := range drops[1:] {
		last := &merged[len(merged)-1]
		if d.start <= last.end {
			last.end = max(last.end, d.end)
			continue
		}
		merged = append(merged, d)
	}

	out := make([]Edit, 0, len(merged)+len(pending))
	for _, d := range merged {
		out = append(out, Edit{Start: d.start, End: d.end})
	}
	return append(out, pending...)
}

// touches reports whether e overlaps [start, end). Insertions count when they
// fall inside the range.
func touches(e Edit, start, end int) bool {
	if e.Start == e.End {
		return e.Start >= start && e.Start < end
	}
	return e.Start < end && e.End > start
}

// LineBounds returns the byte range of the line containing offset, including
// the trailing newline when there is one.
func LineBounds(source []byte, offset int) (int, int) {
	if offset > len(source) {
		offset = len(source)
	}
	start := offset
	for start > 0 && source[start-1] != '\n' {
		start--
	}
	end := offset
	for end < len(source) && source[end] != '\n' {
		end++
	}
	if end < len(source) {
		end++
	}
	return start, end
}
