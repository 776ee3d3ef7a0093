package state

// TagKind enumerates the types of status chips for the document.
type TagKind int

const (
	// Stable ordering for display: Editor, Edited, No Token, Lines, Chars, Delta
	EDITOR TagKind = iota
	EDITED
	NO_TOKEN
	LINES
	CHARS
	DELTA
)

// Tag represents a single status chip. Value is used for numeric counters
// (line and character counts, character delta). Text carries the editor kind.
type Tag struct {
	Kind  TagKind
	Value int
	Text  string
}
