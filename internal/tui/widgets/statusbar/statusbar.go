package statusbar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"wiki-edit/internal/tui/state"
)

var errStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Bold(true)

type StatusBar struct{}

func NewStatusBar() StatusBar { return StatusBar{} }

// View composes a concise status line reflecting key UI state.
func (StatusBar) View(s state.UIState) string {
	focus := "[EDITOR]"
	if s.Focus == state.FocusComment {
		focus = "[COMMENT]"
	}
	size := fmt.Sprintf("%dx%d", s.Width, s.Height)

	parts := []string{focus, size}
	if s.Notice != "" {
		if s.Error {
			parts = append(parts, errStyle.Render("! "+s.Notice))
		} else {
			parts = append(parts, s.Notice)
		}
	}
	return strings.Join(parts, "  ")
}
