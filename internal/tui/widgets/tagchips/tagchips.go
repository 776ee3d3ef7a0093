package tagchips

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"wiki-edit/internal/tui/state"
	"wiki-edit/internal/tui/util"
)

// View renders document tags in a stable order using colored chips when
// possible and ASCII fallbacks when color is disabled or not desired.
func View(tags []state.Tag, noColor bool) string {
	if len(tags) == 0 {
		return ""
	}
	// Honor NO_COLOR env var in addition to explicit param
	noColor = util.NoColor(noColor)

	parts := make([]string, 0, len(tags))
	for _, t := range tags {
		parts = append(parts, renderChip(t, noColor))
	}
	return strings.Join(parts, " ")
}

func renderChip(t state.Tag, noColor bool) string {
	label := chipLabel(t)
	if noColor {
		return fmt.Sprintf("[%s]", label)
	}
	style := chipStyle(t)
	return style.Render(" " + label + " ")
}

func chipLabel(t state.Tag) string {
	switch t.Kind {
	case state.EDITOR:
		return t.Text
	case state.EDITED:
		return "Edited"
	case state.NO_TOKEN:
		return "No token"
	case state.LINES:
		return fmt.Sprintf("Ln %d", t.Value)
	case state.CHARS:
		return fmt.Sprintf("Ch %d", t.Value)
	case state.DELTA:
		return fmt.Sprintf("%+d", t.Value)
	default:
		return "Tag"
	}
}

func chipStyle(t state.Tag) lipgloss.Style {
	base := lipgloss.NewStyle().Padding(0, 1).Bold(true)
	c, ok := util.ChipColorsFor(t.Kind)
	if !ok {
		return base
	}
	return base.Background(c.Bg).Foreground(c.Fg)
}
