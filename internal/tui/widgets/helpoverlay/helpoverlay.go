package helpoverlay

import (
	"fmt"
	"strings"

	"wiki-edit/internal/tui/state"
)

type HelpOverlay struct{}

func NewHelpOverlay() HelpOverlay { return HelpOverlay{} }

// View returns grouped keys help with the current focus and tabs indicated.
func (HelpOverlay) View(s state.UIState, tabs string) string {
	focus := "editor"
	if s.Focus == state.FocusComment {
		focus = "comment"
	}
	sections := []struct{
		title string
		keys  []string
	}{
		{"Page", []string{"ctrl+p: preview", "ctrl+s: save", "ctrl+x: delete (asks first)"}},
		{"Editor", []string{"ctrl+enter / alt+enter: jump to comment", "esc: back to editor", "tab: indent (rich editor)"}},
		{"View", []string{"alt+1..9: switch tab (" + tabs + ")", "ctrl+o: changes since load", "v: unified/side-by-side (in changes)"}},
		{"Other", []string{"ctrl+y: copy body", "ctrl+g: this help", "ctrl+c: quit"}},
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Help (Focus: %s, Editor: %s)\n", focus, s.Editor)
	for _, sec := range sections {
		fmt.Fprintf(&b, "\n%s:\n", sec.title)
		for _, k := range sec.keys {
			fmt.Fprintf(&b, "  %s\n", k)
		}
	}
	b.WriteString("\nesc: close\n")
	return b.String()
}
