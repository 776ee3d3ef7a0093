package editor

import (
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"wiki-edit/internal/page"
)

// DefaultShrinkDelta is how many rows the plain textarea shrinks before it
// regrows to its scroll height.
const DefaultShrinkDelta = 3

type PlainOptions struct {
	ShrinkDelta int
}

// growBox is the sizing surface auto-grow works on.
type growBox interface {
	Height() int
	SetHeight(h int)
	// ScrollHeight never reports less than the current height.
	ScrollHeight() int
}

// autoGrow shrinks b by delta and then grows it to its scroll height.
// Reductions larger than delta are not detected, because the scroll height
// is floored by the height the box already has.
func autoGrow(b growBox, delta int) {
	h := b.Height() - delta
	if h < 1 {
		h = 1
	}
	b.SetHeight(h)
	b.SetHeight(b.ScrollHeight())
}

// Plain is the textarea variant. The textarea is the form field: every edit
// is written through, so Materialize has nothing to do.
type Plain struct {
	ta    textarea.Model
	box   *textareaBox
	form  *page.Form
	field string
	delta int
}

func NewPlain(form *page.Form, field string, opts PlainOptions) *Plain {
	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.MaxHeight = 0
	ta.SetValue(form.Get(field))
	delta := opts.ShrinkDelta
	if delta <= 0 {
		delta = DefaultShrinkDelta
	}
	p := &Plain{ta: ta, form: form, field: field, delta: delta}
	p.box = &textareaBox{ta: &p.ta, h: p.ta.Height()}
	p.grow()
	return p
}

func (p *Plain) Kind() Kind    { return KindPlain }
func (p *Plain) Materialize()  {}
func (p *Plain) Value() string { return p.ta.Value() }
func (p *Plain) Height() int   { return p.ta.Height() }

func (p *Plain) Update(msg tea.Msg) tea.Cmd {
	before := p.ta.Value()
	var cmd tea.Cmd
	p.ta, cmd = p.ta.Update(msg)
	if v := p.ta.Value(); v != before {
		p.form.Set(p.field, v)
		p.grow()
	}
	return cmd
}

func (p *Plain) View() string   { return p.ta.View() }
func (p *Plain) Focus() tea.Cmd { return p.ta.Focus() }
func (p *Plain) Blur()          { p.ta.Blur() }
func (p *Plain) Focused() bool  { return p.ta.Focused() }

// SetSize is the window-resize trigger. height caps the rendered rows; the
// textarea scrolls past it. Zero means no cap.
func (p *Plain) SetSize(width, height int) {
	p.ta.SetWidth(width)
	p.box.max = height
	p.grow()
}

func (p *Plain) grow() { autoGrow(p.box, p.delta) }

// textareaBox tracks the content height auto-grow works on separately from
// the rows actually given to the textarea.
type textareaBox struct {
	ta  *textarea.Model
	h   int
	max int
}

func (b *textareaBox) Height() int { return b.h }

func (b *textareaBox) SetHeight(h int) {
	b.h = h
	if b.max > 0 && h > b.max {
		h = b.max
	}
	b.ta.SetHeight(h)
}

func (b *textareaBox) ScrollHeight() int {
	n := visualLines(b.ta.Value(), b.ta.Width())
	if b.h > n {
		return b.h
	}
	return n
}

// visualLines counts soft-wrapped rows of s at the given width.
func visualLines(s string, width int) int {
	rows := 0
	line := 0
	flush := func() {
		if width > 0 && line > width {
			rows += (line + width - 1) / width
		} else {
			rows++
		}
		line = 0
	}
	for _, r := range s {
		if r == '\n' {
			flush()
			continue
		}
		line += runewidth.RuneWidth(r)
	}
	flush()
	return rows
}
