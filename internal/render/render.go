// Package render turns ranked annotations into the plain data that host
// renderers consume: per-bucket line highlights and an ordered list of
// navigable items. Nothing here knows about a particular editor or terminal.
package render

import (
	"todohl/internal/rank"
	"todohl/internal/source"
)

// Highlight marks one annotated line. Start and End are byte offsets into the
// document content; End excludes the line feed.
type Highlight struct {
	Line  int
	Start uint32
	End   uint32
	Hover string
}

// Highlights computes the highlight set for every bucket. Each bucket key is
// present, so a renderer can replace all previous decorations with the result.
func Highlights(file *source.File, res rank.Result) map[rank.Bucket][]Highlight {
	out := make(map[rank.Bucket][]Highlight, len(rank.Buckets))
	for _, b := range rank.Buckets {
		entries := res.Buckets[b]
		list := make([]Highlight, 0, len(entries))
		for _, e := range entries {
			sp := file.LineSpan(e.Line)
			list = append(list, Highlight{
				Line:  e.Line,
				Start: sp.Start,
				End:   sp.End,
				Hover: e.Hover(),
			})
		}
		out[b] = list
	}
	return out
}

// Icon names the glyph a list renderer shows next to an item.
type Icon string

const (
	IconError   Icon = "error"
	IconWarning Icon = "warning"
	IconInfo    Icon = "info"
)

// ListItem is one row of the navigable list.
type ListItem struct {
	Label    string      `json:"label"`
	Line     int         `json:"line"`
	Priority int         `json:"priority"`
	Bucket   rank.Bucket `json:"-"`
	Icon     Icon        `json:"icon"`
}

// List returns the items in global order.
func List(res rank.Result) []ListItem {
	items := make([]ListItem, 0, len(res.Ordered))
	for _, e := range res.Ordered {
		items = append(items, Item(e))
	}
	return items
}

// Item maps a single entry to its list row.
func Item(e rank.Entry) ListItem {
	return ListItem{
		Label:    e.Label(),
		Line:     e.Line,
		Priority: e.Priority,
		Bucket:   e.Bucket,
		Icon:     iconFor(e),
	}
}

func iconFor(e rank.Entry) Icon {
	switch {
	case e.Priority >= 3 || e.Bucket == rank.Fixme:
		return IconError
	case e.Priority == 2:
		return IconWarning
	default:
		return IconInfo
	}
}

// Jump is a cursor target: hosts place the cursor there and scroll it into view.
type Jump struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

// JumpTo returns the start of the item's line.
func JumpTo(item ListItem) Jump {
	return Jump{Line: item.Line}
}
