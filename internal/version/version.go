// Package version holds build metadata for the todohl CLI. The variables can
// be overridden at build time via -ldflags "-X todohl/internal/version.Version=...".
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	versionMajorColor = color.New(color.FgYellow, color.Bold)
	versionMinorColor = color.New(color.FgGreen, color.Bold)
	versionPatchColor = color.New(color.FgBlue, color.Bold)

	// Version is the semantic version of the CLI.
	Version = "0.1.0-dev"

	// GitCommit is an optional git commit hash.
	GitCommit = ""

	// GitMessage is an optional git commit message.
	GitMessage = ""

	// BuildDate is an optional build date in ISO-8601.
	BuildDate = ""
)

// Colored renders a semantic version with major, minor and patch in distinct
// colors. Anything that is not dotted numbers is returned unchanged.
func Colored(v string, enabled bool) string {
	core, suffix, _ := strings.Cut(v, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	palette := []*color.Color{versionMajorColor, versionMinorColor, versionPatchColor}
	for i, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			return v
		}
		c := *palette[i]
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(p)
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}
