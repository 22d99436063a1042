package render

import "todohl/internal/rank"

// Style describes how a bucket is painted. Color is an ANSI 256 palette index
// shared by the pretty printer and the TUI.
type Style struct {
	Color string // foreground, lipgloss color string
	Label string // short upper-case tag
}

var styles = map[rank.Bucket]Style{
	rank.Fixme:  {Color: "201", Label: "FIXME"},
	rank.High:   {Color: "196", Label: "HIGH"},
	rank.Medium: {Color: "208", Label: "MEDIUM"},
	rank.Low:    {Color: "226", Label: "LOW"},
}

// StyleFor returns the style of bucket b.
func StyleFor(b rank.Bucket) Style {
	if s, ok := styles[b]; ok {
		return s
	}
	return Style{Color: "7", Label: "?"}
}
