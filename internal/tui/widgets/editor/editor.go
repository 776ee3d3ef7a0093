package editor

import (
	"fmt"
	"strings"

	"wiki-edit/internal/tui/state"
)

type Editor struct{}

func NewEditor() Editor { return Editor{} }

// View frames the surface output with a header naming the editor kind and
// where keystrokes go.
func (Editor) View(s state.UIState, body string) string {
	header := "[" + s.Editor + "]"
	focus := "typing here"
	if s.Focus == state.FocusComment {
		focus = "comment has focus"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", header, focus)
	fmt.Fprintf(&b, "%s\n", body)
	return b.String()
}
