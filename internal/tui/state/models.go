package state

// Focus says which input receives keystrokes in the edit screen.
type Focus int

const (
	FocusEditor Focus = iota
	FocusComment
)

// DiffMode controls how the changes view is rendered.
type DiffMode int

const (
	Unified DiffMode = iota
	SideBySide
)

// UIState holds cross-widget UI state used by status bar, changes view, and editor pane.
type UIState struct {
	// Focus & View
	Focus  Focus
	Editor string // surface kind: rich, plain, none
	View   DiffMode

	// Layout
	Width  int
	Height int
	MinCol int

	// Document flags
	Edited   bool // body differs from what was loaded
	HasToken bool
	Busy     string // in-flight action, empty when idle

	// Notices and ephemeral messages
	Notice string
	Error  bool
}
