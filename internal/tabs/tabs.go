// Package tabs is the tab/pane state machine. State is the active tab name;
// rendering is a projection of that state.
package tabs

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	Plain      = "plain"
	Structured = "struct"
)

type Tab struct {
	Name  string
	Label string
}

// Pane renders the content paired with a tab.
type Pane func(width int) string

// Result describes the outcome of a click.
type Result struct {
	// Prevented is set when the click hit the already active tab: the default
	// action is cancelled and nothing transitions.
	Prevented bool
	Changed   bool
	From, To  string
}

type Controller struct {
	tabs   []Tab
	panes  map[string]Pane
	active string
}

func New() *Controller {
	return &Controller{panes: map[string]Pane{}}
}

// Append registers a tab after the existing ones. Names are unique; a
// duplicate name replaces the pane and keeps the original position.
func (c *Controller) Append(t Tab, p Pane) {
	if _, ok := c.panes[t.Name]; !ok {
		c.tabs = append(c.tabs, t)
	}
	c.panes[t.Name] = p
}

// SetInitial marks name active without going through Click. Unknown names
// are ignored.
func (c *Controller) SetInitial(name string) {
	if _, ok := c.panes[name]; ok {
		c.active = name
	}
}

func (c *Controller) Active() string { return c.active }
func (c *Controller) Tabs() []Tab    { return append([]Tab(nil), c.tabs...) }

func (c *Controller) IsActive(name string) bool { return name != "" && c.active == name }

// Click activates name, deactivating the previous pair.
func (c *Controller) Click(name string) Result {
	if c.active == name {
		return Result{Prevented: true, From: name, To: name}
	}
	if _, ok := c.panes[name]; !ok {
		return Result{From: c.active, To: c.active}
	}
	from := c.active
	c.active = name
	return Result{Changed: true, From: from, To: name}
}

// ClickIndex clicks the i-th tab (0-based).
func (c *Controller) ClickIndex(i int) Result {
	if i < 0 || i >= len(c.tabs) {
		return Result{From: c.active, To: c.active}
	}
	return c.Click(c.tabs[i].Name)
}

var (
	activeTabStyle = lipgloss.NewStyle().Bold(true).
			Border(lipgloss.RoundedBorder(), true, true, false, true).
			Padding(0, 1).
			Foreground(lipgloss.AdaptiveColor{Light: "205", Dark: "213"})
	tabStyle = lipgloss.NewStyle().Faint(true).
			Border(lipgloss.NormalBorder(), true, true, false, true).
			Padding(0, 1)
)

// RenderBar draws the tab strip.
func (c *Controller) RenderBar() string {
	parts := make([]string, 0, len(c.tabs))
	for _, t := range c.tabs {
		if c.IsActive(t.Name) {
			parts = append(parts, activeTabStyle.Render(t.Label))
		} else {
			parts = append(parts, tabStyle.Render(t.Label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Bottom, parts...)
}

// RenderPane draws the active pane, or nothing when no tab is active.
func (c *Controller) RenderPane(width int) string {
	p, ok := c.panes[c.active]
	if !ok || p == nil {
		return ""
	}
	return p(width)
}

// Labels returns "1:Plain editor  2:Structured editor" style hints.
func (c *Controller) Labels() string {
	var b strings.Builder
	for i, t := range c.tabs {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(string(rune('1'+i)) + ":" + t.Label)
	}
	return b.String()
}
