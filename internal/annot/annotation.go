package annot

import (
	"cmp"
	"fmt"
)

// Kind identifies which marker matched.
type Kind uint8

const (
	// Todo is the TODO marker.
	Todo Kind = iota
	// Fixme is the FIXME marker.
	Fixme
)

func (k Kind) String() string {
	switch k {
	case Todo:
		return "TODO"
	case Fixme:
		return "FIXME"
	}
	return "UNKNOWN"
}

// Priority bounds. Any produced annotation satisfies MinPriority <= p <= MaxPriority.
const (
	MinPriority = 1
	MaxPriority = 3
)

// Annotation is one recognized comment. Values are never mutated after Extract
// returns them; a rescan produces a fresh slice.
type Annotation struct {
	Text     string
	Line     int // zero-based
	Priority int // 1..3, 3 is the most severe
	Kind     Kind
}

// Label is the list entry text: "[P2] TODO: refactor this".
func (a Annotation) Label() string {
	return fmt.Sprintf("[P%d] %s: %s", a.Priority, a.Kind, a.Text)
}

// Hover is the short text shown over a highlighted line.
func (a Annotation) Hover() string {
	return fmt.Sprintf("%s - Priority: %d", a.Kind, a.Priority)
}

// Compare orders by priority descending, then line ascending.
func Compare(a, b Annotation) int {
	if c := cmp.Compare(b.Priority, a.Priority); c != 0 {
		return c
	}
	return cmp.Compare(a.Line, b.Line)
}
