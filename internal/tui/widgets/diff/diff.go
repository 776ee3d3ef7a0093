package diff

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	dmp "github.com/sergi/go-diff/diffmatchpatch"

	"wiki-edit/internal/tui/state"
)

var (
	delLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"})
	addLine = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"})
	delChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "160", Dark: "203"}).Underline(true)
	addChar = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "28", Dark: "114"}).Underline(true)
	faint   = lipgloss.NewStyle().Faint(true)
)

type DiffView struct{}

func NewDiffView() DiffView { return DiffView{} }

// View renders the changes between the body as loaded and the current body.
// Unified prefixes changed lines with -/+; SideBySide aligns two columns.
func (DiffView) View(s state.UIState, loaded, current string) string {
	if loaded == current {
		return "No changes\n"
	}
	if s.View == state.SideBySide {
		return sideBySide(loaded, current, s)
	}
	return unified(loaded, current)
}

// lineDiffs diffs line-by-line so whole lines are the unit of change.
func lineDiffs(a, b string) []dmp.Diff {
	d := dmp.New()
	ca, cb, lines := d.DiffLinesToChars(a, b)
	diffs := d.DiffMain(ca, cb, false)
	return d.DiffCharsToLines(diffs, lines)
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	return strings.Split(s, "\n")
}

func unified(loaded, current string) string {
	var b strings.Builder
	b.WriteString("LOADED vs CURRENT (Unified)\n")
	diffs := lineDiffs(loaded, current)
	for i := 0; i < len(diffs); i++ {
		df := diffs[i]
		switch df.Type {
		case dmp.DiffEqual:
			for _, l := range splitLines(df.Text) {
				b.WriteString("  " + faint.Render(l) + "\n")
			}
		case dmp.DiffDelete:
			// A delete followed by an insert of the same line count is an
			// edit: highlight it character by character.
			if i+1 < len(diffs) && diffs[i+1].Type == dmp.DiffInsert &&
				len(splitLines(df.Text)) == len(splitLines(diffs[i+1].Text)) {
				writePairs(&b, splitLines(df.Text), splitLines(diffs[i+1].Text))
				i++
				continue
			}
			for _, l := range splitLines(df.Text) {
				b.WriteString(delLine.Render("- "+l) + "\n")
			}
		case dmp.DiffInsert:
			for _, l := range splitLines(df.Text) {
				b.WriteString(addLine.Render("+ "+l) + "\n")
			}
		}
	}
	return b.String()
}

func writePairs(b *strings.Builder, before, after []string) {
	for i := range before {
		d := dmp.New()
		diffs := d.DiffMain(before[i], after[i], false)
		d.DiffCleanupSemantic(diffs)
		b.WriteString(delLine.Render("- "))
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffDelete:
				b.WriteString(delChar.Render(df.Text))
			case dmp.DiffEqual:
				b.WriteString(delLine.Render(df.Text))
			}
		}
		b.WriteString("\n")
		b.WriteString(addLine.Render("+ "))
		for _, df := range diffs {
			switch df.Type {
			case dmp.DiffInsert:
				b.WriteString(addChar.Render(df.Text))
			case dmp.DiffEqual:
				b.WriteString(addLine.Render(df.Text))
			}
		}
		b.WriteString("\n")
	}
}

func sideBySide(loaded, current string, s state.UIState) string {
	const sep = " │ "
	var b strings.Builder
	b.WriteString("LOADED │ CURRENT\n")
	left := splitLines(loaded)
	right := splitLines(current)
	max := len(left)
	if len(right) > max {
		max = len(right)
	}
	// Compute column width from total width if provided
	colWidth := 40
	if s.Width > 0 {
		// basic gutters + separator
		colWidth = (s.Width - len(sep)) / 2
		if colWidth < 10 {
			colWidth = 10
		}
	}
	for i := 0; i < max; i++ {
		l := ""
		r := ""
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		style := faint
		if l != r {
			style = lipgloss.NewStyle()
		}
		b.WriteString(style.Render(pad(clip(l, colWidth), colWidth)) + sep + style.Render(clip(r, colWidth)) + "\n")
	}
	return b.String()
}

func clip(s string, width int) string {
	runes := []rune(s)
	if len(runes) > width {
		return string(runes[:width])
	}
	return s
}

func pad(s string, width int) string {
	if w := len([]rune(s)); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}
