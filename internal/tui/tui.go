package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wiki-edit/internal/actions"
	"wiki-edit/internal/editor"
	"wiki-edit/internal/page"
	"wiki-edit/internal/tabs"
	"wiki-edit/internal/tui/state"
	"wiki-edit/internal/tui/util"
	"wiki-edit/internal/tui/widgets/diff"
	editorpane "wiki-edit/internal/tui/widgets/editor"
	"wiki-edit/internal/tui/widgets/helpoverlay"
	"wiki-edit/internal/tui/widgets/statusbar"
	"wiki-edit/internal/tui/widgets/tagchips"
	"wiki-edit/internal/wiki"
)

// Options configure the editor screen.
type Options struct {
	Capabilities editor.Capabilities
	Plain        editor.PlainOptions
	NoColor      bool
	Logf         func(string, ...any)
	// Copy writes text to the clipboard. Defaults to the system clipboard.
	Copy func(string) error
}

// Run shows the editor for the page the session has opened and blocks until
// the user quits.
func Run(ctx context.Context, sess *wiki.Session, ep *page.EditPage, opts Options) error {
	m := newApp(ctx, sess, ep, opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// ===== Model =====

type mode string

const (
	modeEdit    mode = "edit"    // editor or comment has focus
	modeConfirm mode = "confirm" // delete y/n
	modeChanges mode = "changes" // diff of loaded vs current body
	modeHelp    mode = "help"    // keys overlay
)

const structuredLabel = "Structured editor"

// changesKey opens the diff view. ctrl+d stays with the textarea (delete forward).
const changesKey = "ctrl+o"

type previewMsg struct {
	seq    uint64
	markup string
	err    error
}

type deleteMsg struct {
	nav actions.Navigation
	err error
}

type saveMsg struct {
	res actions.SaveResult
	err error
}

type loadedMsg struct {
	ep     *page.EditPage
	notice string
	err    error
}

type app struct {
	ctx  context.Context
	sess *wiki.Session
	opts Options

	// page
	ep       *page.EditPage
	surface  editor.Surface
	ctrl     *actions.Controller
	tabs     *tabs.Controller
	original string

	// ui
	mode        mode
	ui          state.UIState
	comment     textinput.Model
	preview     viewport.Model
	previewed   bool
	previewHTML string
	pending     tea.Cmd
}

func newApp(ctx context.Context, sess *wiki.Session, ep *page.EditPage, opts Options) *app {
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	if opts.Copy == nil {
		opts.Copy = clipboard.WriteAll
	}
	ti := textinput.New()
	ti.Placeholder = "Edit summary"
	ti.Prompt = "Comment: "
	ti.CharLimit = 500

	m := &app{
		ctx:     ctx,
		sess:    sess,
		opts:    opts,
		mode:    modeEdit,
		ui:      state.UIState{MinCol: 20, HasToken: sess.HasToken()},
		comment: ti,
		preview: viewport.New(80, 8),
	}
	m.load(ep)
	return m
}

// load binds the screen to a freshly parsed edit page. The editing surface,
// the tabs, and the action controller are rebuilt for it.
func (m *app) load(ep *page.EditPage) {
	m.ep = ep
	m.surface = editor.New(ep.Form, m.opts.Capabilities, editor.Hooks{FocusComment: m.focusComment}, m.opts.Plain)
	m.ctrl = actions.New(actions.Config{
		Client:       m.sess.Client,
		Page:         m.sess.Page,
		Form:         ep.Form,
		Surface:      m.surface,
		DeleteAction: ep.DeleteAction,
		Logf:         m.opts.Logf,
	})
	m.original = m.surface.Value()
	m.ui.Editor = m.surface.Kind().String()
	m.ui = state.SetEdited(m.ui, m.original, m.original)

	plainLabel := "Plain editor"
	initial := tabs.Plain
	for _, t := range ep.Tabs {
		if t.Name == tabs.Plain && t.Label != "" {
			plainLabel = t.Label
		}
		if t.Active {
			initial = t.Name
		}
	}
	m.tabs = tabs.New()
	m.tabs.Append(tabs.Tab{Name: tabs.Plain, Label: plainLabel}, func(int) string {
		return editorpane.NewEditor().View(m.ui, m.surface.View())
	})
	m.tabs.Append(tabs.Tab{Name: tabs.Structured, Label: structuredLabel}, func(int) string { return "..." })
	m.tabs.SetInitial(initial)
	if m.tabs.Active() == "" {
		m.tabs.SetInitial(tabs.Plain)
	}

	m.comment.SetValue("")
	m.previewed = false
	m.previewHTML = ""
	m.preview.SetContent("")
	m.focusEditor()
	if m.ui.Width > 0 {
		m.resize()
	}
}

func (m *app) focusComment() {
	m.surface.Blur()
	m.ui = state.FocusComment(m.ui)
	m.pending = m.comment.Focus()
}

func (m *app) focusEditor() {
	m.comment.Blur()
	m.ui = state.FocusEditor(m.ui)
	m.pending = m.surface.Focus()
}

func (m *app) takePending() tea.Cmd {
	cmd := m.pending
	m.pending = nil
	return cmd
}

func (m *app) resize() {
	w := m.ui.Width
	// title, tab bar, pane header, comment, status, chips, hints
	reserved := 9
	previewH := 0
	if m.previewed {
		previewH = m.ui.Height / 3
		reserved += previewH + 1
	}
	m.surface.SetSize(w-2, max(m.ui.Height-reserved, 1))
	m.comment.Width = w - len(m.comment.Prompt) - 1
	m.preview.Width = w
	if previewH > 0 {
		m.preview.Height = previewH
	}
}

func (m *app) Init() tea.Cmd { return m.takePending() }

// Update handles all TUI interactions.
func (m *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Also the orientation change trigger for the plain auto-grow.
		m.ui = state.Resize(m.ui, msg.Width, msg.Height)
		m.resize()
		return m, nil

	case previewMsg:
		return m, m.applyPreview(msg)

	case deleteMsg:
		if msg.err != nil {
			m.ui = state.Fail(m.ui, msg.err)
			return m, nil
		}
		if msg.nav.IsZero() {
			m.ui = state.Done(m.ui, "Delete cancelled")
			return m, nil
		}
		m.ui = state.Done(m.ui, "Deleted")
		return m, m.reload(msg.nav, "Page deleted")

	case saveMsg:
		if msg.err != nil {
			m.ui = state.Fail(m.ui, msg.err)
			return m, nil
		}
		notice := msg.res.Message
		if notice == "" {
			notice = "Saved"
		}
		m.ui = state.Done(m.ui, notice)
		return m, m.reload(msg.res.Navigation, notice)

	case loadedMsg:
		if msg.err != nil {
			m.ui = state.Fail(m.ui, msg.err)
			return m, nil
		}
		m.load(msg.ep)
		m.ui = state.Done(m.ui, msg.notice)
		return m, m.takePending()

	case tea.KeyMsg:
		k := msg.String()
		if k == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.mode {
		case modeConfirm:
			switch strings.ToLower(k) {
			case "y":
				m.mode = modeEdit
				m.ui = state.Start(m.ui, "Deleting")
				ctrl, ctx := m.ctrl, m.ctx
				return m, func() tea.Msg {
					nav, err := ctrl.Delete(ctx, actions.Confirmed)
					return deleteMsg{nav: nav, err: err}
				}
			case "n", "esc":
				m.mode = modeEdit
				declined := actions.ConfirmFunc(func(string) bool { return false })
				nav, err := m.ctrl.Delete(m.ctx, declined)
				return m.Update(deleteMsg{nav: nav, err: err})
			}
			return m, nil

		case modeChanges:
			switch k {
			case "esc", changesKey, "q":
				m.mode = modeEdit
			case "v":
				m.ui = state.ToggleView(m.ui)
				m.ui = state.Resize(m.ui, m.ui.Width, m.ui.Height)
			}
			return m, nil

		case modeHelp:
			switch k {
			case "esc", "ctrl+g", "q":
				m.mode = modeEdit
			}
			return m, nil
		}

		// modeEdit
		switch k {
		case "ctrl+p":
			return m, m.startPreview()
		case "ctrl+s":
			return m, m.startSave()
		case "ctrl+x":
			if !m.ep.HasDelete {
				m.ui = state.Done(m.ui, "This page cannot be deleted")
				return m, nil
			}
			m.mode = modeConfirm
			return m, nil
		case changesKey:
			m.mode = modeChanges
			return m, nil
		case "ctrl+g":
			m.mode = modeHelp
			return m, nil
		case "ctrl+y":
			if err := m.opts.Copy(m.surface.Value()); err != nil {
				m.ui = state.Fail(m.ui, fmt.Errorf("copy: %w", err))
			} else {
				m.ui = state.Done(m.ui, "Body copied to clipboard")
			}
			return m, nil
		case "esc":
			if m.ui.Focus == state.FocusComment {
				m.focusEditor()
				return m, m.takePending()
			}
			return m, nil
		}
		if n, ok := tabIndex(msg); ok {
			if res := m.tabs.ClickIndex(n); res.Changed {
				m.opts.Logf("tabs: %s -> %s", res.From, res.To)
			}
			return m, nil
		}

		if m.ui.Focus == state.FocusComment {
			var cmd tea.Cmd
			m.comment, cmd = m.comment.Update(msg)
			return m, cmd
		}
		if m.tabs.IsActive(tabs.Plain) {
			cmd := m.surface.Update(msg)
			m.ui = state.SetEdited(m.ui, m.original, m.surface.Value())
			return m, tea.Batch(cmd, m.takePending())
		}
		return m, nil
	}

	// Blink and other widget ticks.
	var cmds []tea.Cmd
	if m.ui.Focus == state.FocusComment {
		var cmd tea.Cmd
		m.comment, cmd = m.comment.Update(msg)
		cmds = append(cmds, cmd)
	} else {
		cmds = append(cmds, m.surface.Update(msg))
	}
	return m, tea.Batch(cmds...)
}

// tabIndex maps alt+1..alt+9 to a 0-based tab index.
func tabIndex(msg tea.KeyMsg) (int, bool) {
	if !msg.Alt || msg.Type != tea.KeyRunes || len(msg.Runes) != 1 {
		return 0, false
	}
	r := msg.Runes[0]
	if r < '1' || r > '9' {
		return 0, false
	}
	return int(r - '1'), true
}

// startPreview reveals the preview pane and runs the synchronous half of the
// preview now, so the payload reflects this keystroke. The POST runs in the
// background.
func (m *app) startPreview() tea.Cmd {
	if !m.previewed {
		m.previewed = true
		if m.ui.Width > 0 {
			m.resize()
		}
	}
	tx := m.ctrl.PreparePreview(m.ctx)
	m.ui = state.Start(m.ui, "Previewing")
	return func() tea.Msg {
		markup, err := tx.Send()
		return previewMsg{seq: tx.Seq, markup: markup, err: err}
	}
}

func (m *app) applyPreview(msg previewMsg) tea.Cmd {
	if !m.ctrl.Latest(msg.seq) {
		m.opts.Logf("preview #%d: superseded, dropped", msg.seq)
		return nil
	}
	if msg.err != nil {
		if errors.Is(msg.err, context.Canceled) {
			return nil
		}
		m.ui = state.Fail(m.ui, msg.err)
		return nil
	}
	m.previewHTML = msg.markup
	m.preview.SetContent(page.RenderText(msg.markup))
	m.preview.GotoTop()
	m.ui = state.Done(m.ui, "Preview updated")
	return nil
}

func (m *app) startSave() tea.Cmd {
	m.ui = state.Start(m.ui, "Saving")
	// Materialize and serialize here, on the update loop; the command only
	// does the POST.
	tx, ctx := m.ctrl.PrepareSave(m.comment.Value()), m.ctx
	return func() tea.Msg {
		res, err := tx.Send(ctx)
		return saveMsg{res: res, err: err}
	}
}

func (m *app) reload(nav actions.Navigation, notice string) tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() tea.Msg {
		ep, err := sess.Reload(ctx, nav.Path)
		return loadedMsg{ep: ep, notice: notice, err: err}
	}
}

// ===== Views =====

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	selStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"}).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	previewStyle = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), true, false, false, false)
)

func (m *app) View() string {
	switch m.mode {
	case modeHelp:
		return helpoverlay.NewHelpOverlay().View(m.ui, m.tabs.Labels())
	case modeChanges:
		return m.viewChanges()
	default:
		return m.viewEdit()
	}
}

func (m *app) viewEdit() string {
	var b strings.Builder
	title := m.ep.Title
	if title == "" {
		title = m.sess.Page.Path
	}
	b.WriteString(titleStyle.Render("Editing "+title) + "\n")
	b.WriteString(m.tabs.RenderBar() + "\n")
	b.WriteString(m.tabs.RenderPane(m.ui.Width) + "\n")
	if m.ep.Form.Has(actions.CommentField) {
		b.WriteString(m.comment.View() + "\n")
	}
	if m.previewed {
		b.WriteString(previewStyle.Render(faintStyle.Render("Preview")) + "\n")
		b.WriteString(m.preview.View() + "\n")
	}
	if m.mode == modeConfirm {
		b.WriteString(selStyle.Render("Are you sure? (y/n)") + "\n")
	}
	b.WriteString(statusbar.NewStatusBar().View(m.ui) + "\n")
	tags := util.ComputeTags(m.ui.Editor, m.original, m.surface.Value(), m.ui.HasToken)
	b.WriteString(tagchips.View(tags, m.opts.NoColor) + "\n")
	b.WriteString(faintStyle.Render("ctrl+p: preview   ctrl+s: save   ctrl+x: delete   ctrl+g: help   ctrl+c: quit") + "\n")
	return b.String()
}

func (m *app) viewChanges() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Changes since load") + "\n")
	b.WriteString(diff.NewDiffView().View(m.ui, m.original, m.surface.Value()))
	b.WriteString("\n" + faintStyle.Render("v: unified/side-by-side   esc: back") + "\n")
	return b.String()
}
