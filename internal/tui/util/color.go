package util

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"wiki-edit/internal/tui/state"
)

// NoColor reports whether chips should fall back to plain brackets: either
// the config asked for it or NO_COLOR is set.
func NoColor(configured bool) bool {
	return configured || os.Getenv("NO_COLOR") != ""
}

// ChipColors is the background/foreground pair of one status chip.
type ChipColors struct {
	Bg lipgloss.Color
	Fg lipgloss.Color
}

var (
	light = lipgloss.Color("#FFFFFF")
	dark  = lipgloss.Color("#111111")

	chipColors = map[state.TagKind]ChipColors{
		state.EDITOR:   {Bg: lipgloss.Color("#3D6DFF"), Fg: light},
		state.EDITED:   {Bg: lipgloss.Color("#2AA876"), Fg: light},
		state.NO_TOKEN: {Bg: lipgloss.Color("#D9534F"), Fg: light},
		state.DELTA:    {Bg: lipgloss.Color("#F0AD4E"), Fg: dark},
		state.LINES:    {Bg: lipgloss.Color("#6C757D"), Fg: light},
		state.CHARS:    {Bg: lipgloss.Color("#5A5A5A"), Fg: light},
	}
)

// ChipColorsFor returns the colors for a tag kind; ok is false for kinds
// without a chip color.
func ChipColorsFor(kind state.TagKind) (c ChipColors, ok bool) {
	c, ok = chipColors[kind]
	return c, ok
}
