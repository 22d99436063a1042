package annot

import (
	"regexp"
	"slices"
	"strings"
)

// Submatch layout: 1 marker, 2 parenthesized digit, 3 bracketed digit, 4 rest.
var lineRe = regexp.MustCompile(`//\s*(TODO|FIXME)(?:(?:\(P?([1-3])\)|\[P([1-3])\])(?::|\s|$)|:|\s)(.*)$`)

// Extract scans text line by line and returns every annotation ordered by
// priority (highest first) and then by line.
func Extract(text string) []Annotation {
	if text == "" {
		return nil
	}
	var out []Annotation
	index := 0
	for line := range strings.Lines(text) {
		if a, ok := ExtractLine(strings.TrimSuffix(line, "\n"), index); ok {
			out = append(out, a)
		}
		index++
	}
	slices.SortStableFunc(out, Compare)
	return out
}

// ExtractLine recognizes at most one annotation in a single line. index is
// recorded as the annotation's line.
func ExtractLine(line string, index int) (Annotation, bool) {
	if !strings.Contains(line, "//") {
		return Annotation{}, false
	}
	m := lineRe.FindStringSubmatch(line)
	if m == nil {
		return Annotation{}, false
	}
	kind := Todo
	if m[1] == "FIXME" {
		kind = Fixme
	}
	return Annotation{
		Text:     strings.TrimSpace(m[4]),
		Line:     index,
		Priority: priorityOf(kind, m[2]+m[3]),
		Kind:     kind,
	}, true
}

func priorityOf(kind Kind, digit string) int {
	if digit != "" {
		return int(digit[0] - '0')
	}
	if kind == Fixme {
		return MaxPriority
	}
	return MinPriority
}

// MarkerOffset returns the byte offset of the comment marker that ExtractLine
// would recognize in line, or -1.
func MarkerOffset(line string) int {
	loc := lineRe.FindStringIndex(line)
	if loc == nil {
		return -1
	}
	return loc[0]
}
