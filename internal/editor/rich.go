package editor

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Options configure a rich widget at construction.
type Options struct {
	IndentUnit     int
	IndentWithTabs bool
	LineWrapping   bool
	LineNumbers    bool
	Autofocus      bool
	Mode           string
	// ViewportMargin < 0 renders the whole document (no line cap).
	ViewportMargin int
}

func DefaultOptions() Options {
	return Options{
		IndentUnit:     4,
		IndentWithTabs: false,
		LineWrapping:   true,
		LineNumbers:    true,
		Autofocus:      true,
		Mode:           "markdown",
		ViewportMargin: -1,
	}
}

// RichWidget is the boundary of the rich editing widget.
type RichWidget interface {
	Value() string
	// AddKeyMap binds chord names such as "Ctrl-Enter" to handlers.
	AddKeyMap(keys map[string]func())
	Update(msg tea.Msg) tea.Cmd
	View() string
	Focus() tea.Cmd
	Blur()
	Focused() bool
	SetSize(width, height int)
}

// RichFactory builds a rich widget seeded with the textarea's text.
type RichFactory func(initial string, opts Options) RichWidget

// Capabilities lists what the terminal session can offer. A nil Rich means
// the plain textarea is used.
type Capabilities struct {
	Rich RichFactory
}

func DefaultCapabilities() Capabilities {
	return Capabilities{Rich: NewTextareaWidget}
}

// chordKeys maps editor chord names to the key strings bubbletea reports.
// Terminals never deliver Cmd, so the meta chord stands in for it.
var chordKeys = map[string][]string{
	"Ctrl-Enter": {"ctrl+enter", "ctrl+j"},
	"Cmd-Enter":  {"alt+enter"},
}

func normalizeChord(chord string) []string {
	if ks, ok := chordKeys[chord]; ok {
		return ks
	}
	return []string{strings.ToLower(strings.ReplaceAll(chord, "-", "+"))}
}

// textareaWidget is the default RichWidget, a bubbles textarea with gutters.
type textareaWidget struct {
	ta     textarea.Model
	opts   Options
	keymap map[string]func()
}

func NewTextareaWidget(initial string, opts Options) RichWidget {
	ta := textarea.New()
	ta.ShowLineNumbers = opts.LineNumbers
	ta.CharLimit = 0
	if opts.ViewportMargin < 0 {
		ta.MaxHeight = 0
	}
	ta.Placeholder = "Write " + opts.Mode + "…"
	ta.SetValue(initial)
	w := &textareaWidget{ta: ta, opts: opts, keymap: map[string]func(){}}
	if opts.Autofocus {
		w.ta.Focus()
	}
	return w
}

func (w *textareaWidget) Value() string { return w.ta.Value() }

func (w *textareaWidget) AddKeyMap(keys map[string]func()) {
	for chord, fn := range keys {
		for _, k := range normalizeChord(chord) {
			w.keymap[k] = fn
		}
	}
}

func (w *textareaWidget) Update(msg tea.Msg) tea.Cmd {
	if km, ok := msg.(tea.KeyMsg); ok && w.ta.Focused() {
		if fn, ok := w.keymap[km.String()]; ok {
			fn()
			return nil
		}
		if km.Type == tea.KeyTab && !w.opts.IndentWithTabs {
			w.ta.InsertString(strings.Repeat(" ", w.opts.IndentUnit))
			return nil
		}
	}
	var cmd tea.Cmd
	w.ta, cmd = w.ta.Update(msg)
	return cmd
}

func (w *textareaWidget) View() string   { return w.ta.View() }
func (w *textareaWidget) Focus() tea.Cmd { return w.ta.Focus() }
func (w *textareaWidget) Blur()          { w.ta.Blur() }
func (w *textareaWidget) Focused() bool  { return w.ta.Focused() }

func (w *textareaWidget) SetSize(width, height int) {
	w.ta.SetWidth(width)
	if height > 0 {
		w.ta.SetHeight(height)
	}
}
