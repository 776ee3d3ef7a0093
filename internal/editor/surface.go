// Package editor presents one "current document text" regardless of which
// editing widget backs the page: a rich widget, a plain auto-growing
// textarea, or nothing at all when the edit form has no textarea.
package editor

import (
	tea "github.com/charmbracelet/bubbletea"

	"wiki-edit/internal/page"
)

// BodyField is the form field the rich widget materializes into.
const BodyField = "body"

type Kind int

const (
	KindAbsent Kind = iota
	KindPlain
	KindRich
)

func (k Kind) String() string {
	switch k {
	case KindRich:
		return "rich"
	case KindPlain:
		return "plain"
	default:
		return "none"
	}
}

// Surface is the single editing surface of the page. The variant is chosen
// once by New and never changes.
type Surface interface {
	Kind() Kind
	// Materialize copies the authoritative text into the form. Idempotent.
	Materialize()
	Value() string
	Update(msg tea.Msg) tea.Cmd
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	SetSize(width, height int)
}

// Hooks are callbacks the surface fires into its host.
type Hooks struct {
	FocusComment func()
}

// New probes caps and builds the matching surface over form.
func New(form *page.Form, caps Capabilities, hooks Hooks, plain PlainOptions) Surface {
	name, ok := form.Textarea()
	if !ok {
		return Absent{}
	}
	if caps.Rich != nil {
		w := caps.Rich(form.Get(name), DefaultOptions())
		focus := func() {
			if hooks.FocusComment != nil {
				hooks.FocusComment()
			}
		}
		w.AddKeyMap(map[string]func(){
			"Cmd-Enter":  focus,
			"Ctrl-Enter": focus,
		})
		return &Rich{widget: w, form: form}
	}
	return NewPlain(form, name, plain)
}

// Rich wraps a RichWidget; the form only sees its text on Materialize.
type Rich struct {
	widget RichWidget
	form   *page.Form
}

func (r *Rich) Kind() Kind                 { return KindRich }
func (r *Rich) Materialize()               { r.form.Set(BodyField, r.widget.Value()) }
func (r *Rich) Value() string              { return r.widget.Value() }
func (r *Rich) Update(msg tea.Msg) tea.Cmd { return r.widget.Update(msg) }
func (r *Rich) View() string               { return r.widget.View() }
func (r *Rich) Focus() tea.Cmd             { return r.widget.Focus() }
func (r *Rich) Blur()                      { r.widget.Blur() }
func (r *Rich) Focused() bool              { return r.widget.Focused() }
func (r *Rich) SetSize(width, height int)  { r.widget.SetSize(width, height) }

// Absent is the inert surface used when the form has no textarea.
type Absent struct{}

func (Absent) Kind() Kind               { return KindAbsent }
func (Absent) Materialize()             {}
func (Absent) Value() string            { return "" }
func (Absent) Update(tea.Msg) tea.Cmd   { return nil }
func (Absent) View() string             { return "This page has no editable body." }
func (Absent) Focus() tea.Cmd           { return nil }
func (Absent) Blur()                    {}
func (Absent) Focused() bool            { return false }
func (Absent) SetSize(width, height int) {}
