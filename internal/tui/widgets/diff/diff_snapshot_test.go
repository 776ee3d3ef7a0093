package diff

import (
	"strings"
	"testing"

	"wiki-edit/internal/tui/state"
)

func TestUnifiedSnapshot(t *testing.T) {
	v := NewDiffView()
	s := state.UIState{View: state.Unified}
	out := v.View(s, "a\nb\nd", "a\nc\nd\ne")
	if !strings.Contains(out, "LOADED vs CURRENT (Unified)") {
		t.Fatalf("missing unified header")
	}
	if !strings.Contains(out, "b") || !strings.Contains(out, "c") {
		t.Fatalf("expected changed lines in unified output: %q", out)
	}
	if !strings.Contains(out, "+ e") {
		t.Fatalf("expected appended line in unified output: %q", out)
	}
}

func TestNoChanges(t *testing.T) {
	out := NewDiffView().View(state.UIState{}, "same", "same")
	if out != "No changes\n" {
		t.Fatalf("got %q", out)
	}
}

func TestSideBySideSnapshot(t *testing.T) {
	v := NewDiffView()
	s := state.UIState{View: state.SideBySide, Width: 60}
	out := v.View(s, "left", "right")
	if !strings.HasPrefix(out, "LOADED │ CURRENT\n") {
		t.Fatalf("missing sbs header")
	}
	if !strings.Contains(out, " │ ") {
		t.Fatalf("missing separator")
	}
}
