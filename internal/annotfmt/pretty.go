package annotfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"todohl/internal/annot"
	"todohl/internal/driver"
	"todohl/internal/rank"
	"todohl/internal/render"
	"todohl/internal/source"
)

type palette struct {
	bucket map[rank.Bucket]*color.Color
	path   *color.Color
	gutter *color.Color
	err    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		bucket: make(map[rank.Bucket]*color.Color, len(rank.Buckets)),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		err:    color.New(color.FgRed),
	}
	for _, b := range rank.Buckets {
		p.bucket[b] = bucketColor(b)
	}
	all := []*color.Color{p.path, p.gutter, p.err}
	for _, c := range p.bucket {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// bucketColor paints b with the 256-color index of render.StyleFor, the same
// one the list TUI uses. Fixme and high are bold.
func bucketColor(b rank.Bucket) *color.Color {
	n, err := strconv.Atoi(render.StyleFor(b).Color)
	if err != nil {
		return color.New(color.Reset)
	}
	c := color.New(38, 5, color.Attribute(n))
	if b.Weight() >= rank.High.Weight() {
		c.Add(color.Bold)
	}
	return c
}

// Pretty prints every finding with its source line:
//
//	pkg/a.go:12:2: FIXME [P3] FIXME: crash on null
//	   12 |     // FIXME: crash on null
//	      |     ^~~~~~~~~~~~~~~~~~~~~~~
//
// followed by a per-bucket summary. Lines and columns are 1-based.
func Pretty(w io.Writer, fs *source.FileSet, results []driver.FileResult, opts Options) error {
	p := newPalette(opts.Color)
	width := opts.width()
	for _, r := range results {
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: %s\n", p.path.Sprint(r.Path), p.err.Sprintf("error: %v", r.Err)); err != nil {
				return err
			}
			continue
		}
		file := fs.Get(r.FileID)
		path := fs.DisplayPath(file)
		gutterWidth := len(strconv.Itoa(maxLine(r.Result) + 1))
		for _, e := range r.Result.Ordered {
			line := file.Line(e.Line)
			col := max(annot.MarkerOffset(line), 0)
			off, err := safecast.Conv[uint32](col)
			if err != nil {
				return fmt.Errorf("%s:%d: column overflow: %w", path, e.Line+1, err)
			}
			pos, _ := fs.Resolve(source.Span{File: r.FileID, Start: file.LineSpan(e.Line).Start + off})
			tag := p.bucket[e.Bucket].Sprint(render.StyleFor(e.Bucket).Label)
			if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s\n", p.path.Sprint(path), pos.Line, pos.Col, tag, e.Label()); err != nil {
				return err
			}
			display := expandTabs(line)
			prefix := runewidth.StringWidth(expandTabs(line[:col]))
			shown := runewidth.Truncate(display, width, "…")
			underline := max(runewidth.StringWidth(shown)-prefix, 1)
			num := fmt.Sprintf("%*d", gutterWidth, e.Line+1)
			blank := strings.Repeat(" ", gutterWidth)
			if _, err := fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprint(num), p.gutter.Sprint("|"), shown); err != nil {
				return err
			}
			marks := "^" + strings.Repeat("~", underline-1)
			if _, err := fmt.Fprintf(w, " %s %s %s%s\n", blank, p.gutter.Sprint("|"), strings.Repeat(" ", prefix), p.bucket[e.Bucket].Sprint(marks)); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w, summaryLine(driver.Summary(results), p))
	return err
}

// Short prints one finding per line: path:line: label.
func Short(w io.Writer, fs *source.FileSet, results []driver.FileResult) error {
	for _, r := range results {
		if r.Err != nil {
			if _, err := fmt.Fprintf(w, "%s: error: %v\n", r.Path, r.Err); err != nil {
				return err
			}
			continue
		}
		path := fs.DisplayPath(fs.Get(r.FileID))
		for _, e := range r.Result.Ordered {
			if _, err := fmt.Fprintf(w, "%s:%d: %s\n", path, e.Line+1, e.Label()); err != nil {
				return err
			}
		}
	}
	return nil
}

func summaryLine(counts map[rank.Bucket]int, p palette) string {
	total := 0
	parts := make([]string, 0, len(rank.Buckets))
	for _, b := range rank.Buckets {
		total += counts[b]
		parts = append(parts, p.bucket[b].Sprintf("%d %s", counts[b], b))
	}
	noun := "findings"
	if total == 1 {
		noun = "finding"
	}
	return fmt.Sprintf("%d %s: %s", total, noun, strings.Join(parts, ", "))
}

func maxLine(res rank.Result) int {
	m := 0
	for _, e := range res.Ordered {
		m = max(m, e.Line)
	}
	return m
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
