package lsp

import "unicode/utf8"

// applyChanges replays content changes in order. A change without a range
// replaces the whole document.
func applyChanges(text string, changes []textDocumentContentChangeEvent) string {
	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			continue
		}
		start := min(offsetForPosition(text, change.Range.Start), len(text))
		end := min(max(offsetForPosition(text, change.Range.End), start), len(text))
		text = text[:start] + change.Text + text[end:]
	}
	return text
}

// offsetForPosition maps an LSP position (UTF-16 columns) to a byte offset.
// Columns past the end of a line clamp to the line feed; lines past the end
// clamp to len(text).
func offsetForPosition(text string, pos position) int {
	if pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	i := 0
	for line := 0; line < pos.Line; line++ {
		next := indexByteFrom(text, i, '\n')
		if next < 0 {
			return len(text)
		}
		i = next + 1
	}
	units := 0
	for i < len(text) && text[i] != '\n' {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := 1
		if r > 0xFFFF {
			need = 2
		}
		if units+need > pos.Character {
			break
		}
		units += need
		i += size
	}
	return i
}

func indexByteFrom(s string, from int, c byte) int {
	for j := from; j < len(s); j++ {
		if s[j] == c {
			return j
		}
	}
	return -1
}
