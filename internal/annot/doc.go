// Package annot recognizes TODO and FIXME annotation comments in source text.
//
// # Grammar
//
// A line carries an annotation when it contains a double-slash comment marker
// followed by optional whitespace and one of the uppercase markers TODO or
// FIXME. The marker may be followed immediately by a priority tag:
//
//	(P1) (P2) (P3)   parenthesized, the letter P is optional: (2) is valid
//	[P1] [P2] [P3]   bracketed, the letter P is required
//
// After the marker (and tag, if any) comes a colon or whitespace, and then the
// message text. A tagged marker may also end the line. Anything else right
// after the marker rejects the line, so `// TODO(P9): x`, `// TODO[2]: x`,
// `//FIXME` and `// TODOS: x` produce nothing.
//
// Without a tag, FIXME defaults to priority 3 and TODO to priority 1.
//
// # Scope
//
// Recognition is line-local and yields at most one annotation per line (the
// leftmost match). Extract is a pure function of its input: no I/O, no shared
// state, safe to call from any goroutine. Classification into display buckets
// lives in internal/rank; rendering lives in internal/render.
package annot
