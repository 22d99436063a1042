package source

import (
	"fmt"

	"fortio.org/safecast"
)

// LineCount returns the number of lines in the file. An empty file has one
// (empty) line, matching what an editor shows.
func (f *File) LineCount() int {
	return len(f.LineIdx) + 1
}

// LineSpan returns the byte range of a zero-based line, excluding its line
// feed. Out-of-range lines yield an empty span at the end of the content.
func (f *File) LineSpan(line int) Span {
	contentLen := mustUint32(len(f.Content))
	if line < 0 || line >= f.LineCount() {
		return Span{File: f.ID, Start: contentLen, End: contentLen}
	}
	var start uint32
	if line > 0 {
		start = f.LineIdx[line-1] + 1
	}
	end := contentLen
	if line < len(f.LineIdx) {
		end = f.LineIdx[line]
	}
	return Span{File: f.ID, Start: start, End: end}
}

// Line returns the text of a zero-based line without its line feed.
func (f *File) Line(line int) string {
	sp := f.LineSpan(line)
	return string(f.Content[sp.Start:sp.End])
}

// Text returns the whole content as a string.
func (f *File) Text() string {
	return string(f.Content)
}

func mustUint32(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("offset overflow: %w", err))
	}
	return v
}
