package annot

import (
	"slices"
	"strings"
	"testing"
)

func TestExtractScenarios(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []Annotation
	}{
		{
			name: "tagged todo",
			text: "// TODO(P2): refactor this",
			want: []Annotation{{Text: "refactor this", Line: 0, Priority: 2, Kind: Todo}},
		},
		{
			name: "fixme defaults to highest",
			text: "// FIXME: crash on null",
			want: []Annotation{{Text: "crash on null", Line: 0, Priority: 3, Kind: Fixme}},
		},
		{
			name: "sorted by priority",
			text: "// TODO(P1): low\n// TODO(P3): high",
			want: []Annotation{
				{Text: "high", Line: 1, Priority: 3, Kind: Todo},
				{Text: "low", Line: 0, Priority: 1, Kind: Todo},
			},
		},
		{
			name: "plain text",
			text: "not a comment at all",
		},
		{
			name: "out of range tag",
			text: "// TODO(P9): bad",
		},
		{
			name: "empty document",
			text: "",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.text)
			if !slices.Equal(got, tc.want) {
				t.Fatalf("Extract(%q) = %+v, want %+v", tc.text, got, tc.want)
			}
		})
	}
}

func TestExtractLineGrammar(t *testing.T) {
	cases := []struct {
		line     string
		ok       bool
		kind     Kind
		priority int
		text     string
	}{
		{line: "// TODO: no tag", ok: true, kind: Todo, priority: 1, text: "no tag"},
		{line: "// TODO[P2]: bracket", ok: true, kind: Todo, priority: 2, text: "bracket"},
		{line: "// FIXME[P1]: demoted", ok: true, kind: Fixme, priority: 1, text: "demoted"},
		{line: "// TODO(3): bare digit", ok: true, kind: Todo, priority: 3, text: "bare digit"},
		{line: "//TODO(P2) no colon", ok: true, kind: Todo, priority: 2, text: "no colon"},
		{line: "// TODO(P2)", ok: true, kind: Todo, priority: 2, text: ""},
		{line: "// FIXME:", ok: true, kind: Fixme, priority: 3, text: ""},
		{line: "// FIXME   spaced out   ", ok: true, kind: Fixme, priority: 3, text: "spaced out"},
		{line: "x := 1 // TODO: trailing comment", ok: true, kind: Todo, priority: 1, text: "trailing comment"},
		{line: "// TODO: first // FIXME: second", ok: true, kind: Todo, priority: 1, text: "first // FIXME: second"},
		{line: "// note // FIXME: later marker", ok: true, kind: Fixme, priority: 3, text: "later marker"},
		{line: "// TODO: windows line\r", ok: true, kind: Todo, priority: 1, text: "windows line"},
		// a tag separated from the marker is message text, not a priority
		{line: "// TODO (P2): x", ok: true, kind: Todo, priority: 1, text: "(P2): x"},
		{line: "// TODO (P9): bad", ok: true, kind: Todo, priority: 1, text: "(P9): bad"},
		{line: "// FIXME [P1]: spaced", ok: true, kind: Fixme, priority: 3, text: "[P1]: spaced"},
		{line: "// TODO[2]: bracket needs P"},
		{line: "// TODO[P4]: out of range"},
		{line: "// TODO(P0): zero"},
		{line: "// TODO(P2)x"},
		{line: "//FIXME"},
		{line: "// TOD: truncated"},
		{line: "// TODOS: plural"},
		{line: "// todo: lowercase"},
		{line: "/* TODO: block comment */"},
		{line: "# TODO: hash comment"},
	}
	for _, tc := range cases {
		got, ok := ExtractLine(tc.line, 7)
		if ok != tc.ok {
			t.Fatalf("ExtractLine(%q) ok=%v, want %v", tc.line, ok, tc.ok)
		}
		if !ok {
			continue
		}
		want := Annotation{Text: tc.text, Line: 7, Priority: tc.priority, Kind: tc.kind}
		if got != want {
			t.Fatalf("ExtractLine(%q) = %+v, want %+v", tc.line, got, want)
		}
	}
}

func TestExtractLineNumbers(t *testing.T) {
	src := strings.Join([]string{
		"package main",
		"",
		"// TODO: one",
		"func main() {",
		"\t// FIXME(P2): two",
		"}",
		"",
	}, "\n")
	got := Extract(src)
	if len(got) != 2 {
		t.Fatalf("expected 2 annotations, got %d: %+v", len(got), got)
	}
	if got[0].Line != 4 || got[0].Kind != Fixme || got[0].Priority != 2 {
		t.Fatalf("unexpected first annotation: %+v", got[0])
	}
	if got[1].Line != 2 || got[1].Kind != Todo || got[1].Priority != 1 {
		t.Fatalf("unexpected second annotation: %+v", got[1])
	}
}

func TestExtractTieBreaksByLine(t *testing.T) {
	src := "// FIXME: c\n// TODO(P3): a\n// FIXME(P3): b\n"
	got := Extract(src)
	lines := make([]int, 0, len(got))
	for _, a := range got {
		lines = append(lines, a.Line)
	}
	if !slices.Equal(lines, []int{0, 1, 2}) {
		t.Fatalf("expected lines 0,1,2 in order, got %v", lines)
	}
}

func TestLabelAndHover(t *testing.T) {
	a := Annotation{Text: "refactor this", Line: 3, Priority: 2, Kind: Todo}
	if got := a.Label(); got != "[P2] TODO: refactor this" {
		t.Fatalf("unexpected label: %q", got)
	}
	if got := a.Hover(); got != "TODO - Priority: 2" {
		t.Fatalf("unexpected hover: %q", got)
	}
	empty := Annotation{Line: 0, Priority: 3, Kind: Fixme}
	if got := empty.Label(); got != "[P3] FIXME: " {
		t.Fatalf("unexpected empty label: %q", got)
	}
}

func TestMarkerOffset(t *testing.T) {
	cases := map[string]int{
		"// TODO: x":                 0,
		"x := 1 // FIXME: y":         7,
		"// note // TODO(P2): later": 8,
		"plain":                      -1,
		"// TODO(P9): bad":           -1,
	}
	for line, want := range cases {
		if got := MarkerOffset(line); got != want {
			t.Fatalf("MarkerOffset(%q) = %d, want %d", line, got, want)
		}
	}
}
