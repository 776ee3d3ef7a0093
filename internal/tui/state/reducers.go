package state

// FocusComment moves keystrokes to the comment input.
func FocusComment(s UIState) UIState {
	s.Focus = FocusComment
	return s
}

// FocusEditor moves keystrokes back to the editing surface.
func FocusEditor(s UIState) UIState {
	s.Focus = FocusEditor
	return s
}

// ToggleView switches between Unified and SideBySide diff views.
func ToggleView(s UIState) UIState {
	if s.View == Unified {
		s.View = SideBySide
	} else {
		s.View = Unified
	}
	return s
}

// Resize updates the terminal size and sets a fallback notice if too narrow for side-by-side.
// Threshold heuristic: need at least 2*MinCol plus 3 chars for separator/gutters.
func Resize(s UIState, width, height int) UIState {
	s.Width = width
	s.Height = height
	threshold := 2*s.MinCol + 3
	if s.View == SideBySide && s.Width < threshold {
		s.View = Unified
		s.Notice = "Narrow width: using unified view"
		s.Error = false
	}
	return s
}

// Start records an in-flight action.
func Start(s UIState, action string) UIState {
	s.Busy = action
	s.Notice = action + "…"
	s.Error = false
	return s
}

// Done clears the in-flight action and shows msg.
func Done(s UIState, msg string) UIState {
	s.Busy = ""
	s.Notice = msg
	s.Error = false
	return s
}

// Fail clears the in-flight action and shows err as an error notice.
func Fail(s UIState, err error) UIState {
	s.Busy = ""
	s.Notice = err.Error()
	s.Error = true
	return s
}

// SetEdited recomputes the Edited flag from the loaded and current body.
func SetEdited(s UIState, original, current string) UIState {
	s.Edited = original != current
	return s
}
