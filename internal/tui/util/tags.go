package util

import (
	"strings"

	"wiki-edit/internal/tui/state"
)

// ComputeTags calculates the status chips for the document given the editor
// kind, the body as loaded (original), the current body, and whether a CSRF
// token was found for the session.
//
// The returned slice preserves a stable order:
//   Editor, Edited, No Token, Lines, Chars, Delta
//
// Rules:
// - Edited is derived by comparing original and current.
// - No Token appears when mutating requests would go out without the header.
// - Delta is the signed rune difference and only appears when non-zero.
// - Lines and Chars are always included (counters) unless there is no body.
func ComputeTags(kind, original, current string, hasToken bool) []state.Tag {
	tags := make([]state.Tag, 0, 6)

	tags = append(tags, state.Tag{Kind: state.EDITOR, Text: kind})

	if original != current {
		tags = append(tags, state.Tag{Kind: state.EDITED})
	}

	if !hasToken {
		tags = append(tags, state.Tag{Kind: state.NO_TOKEN})
	}

	if kind == "none" {
		return tags
	}

	tags = append(tags, state.Tag{Kind: state.LINES, Value: lineCount(current)})
	tags = append(tags, state.Tag{Kind: state.CHARS, Value: runeLen(current)})

	if d := runeLen(current) - runeLen(original); d != 0 {
		tags = append(tags, state.Tag{Kind: state.DELTA, Value: d})
	}

	return tags
}

// lineCount counts lines the way an editor gutter does: an empty buffer
// still has one line.
func lineCount(s string) int {
	return strings.Count(s, "\n") + 1
}

// runeLen returns the length of s in runes (Unicode code points).
func runeLen(s string) int {
	return len([]rune(s))
}
