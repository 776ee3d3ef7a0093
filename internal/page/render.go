package page

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func ugcPolicy() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.UGCPolicy()
	})
	return policy
}

// Sanitize strips scripts, styles and event handlers from server markup
// before it is kept for display.
func Sanitize(markup string) string {
	return ugcPolicy().Sanitize(markup)
}

var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Section: true, atom.Article: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Ul: true, atom.Ol: true, atom.Li: true, atom.Pre: true, atom.Blockquote: true,
	atom.Table: true, atom.Tr: true, atom.Hr: true, atom.Dl: true, atom.Dt: true, atom.Dd: true,
}

// RenderText projects markup onto plain terminal text: block elements start
// new lines, headings are prefixed with '#', list items with '- ', and <pre>
// keeps its whitespace.
func RenderText(markup string) string {
	nodes, err := html.ParseFragment(strings.NewReader(markup), &html.Node{
		Type: html.ElementNode, Data: "div", DataAtom: atom.Div,
	})
	if err != nil {
		return markup
	}
	r := &textRenderer{}
	for _, n := range nodes {
		r.node(n, false)
	}
	return r.String()
}

type textRenderer struct {
	b       strings.Builder
	lineLen int
}

func (r *textRenderer) write(s string) {
	if s == "" {
		return
	}
	r.b.WriteString(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		r.lineLen = len(s) - i - 1
	} else {
		r.lineLen += len(s)
	}
}

func (r *textRenderer) newline() {
	if r.lineLen > 0 {
		r.write("\n")
	}
}

func (r *textRenderer) node(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			r.write(n.Data)
			return
		}
		words := strings.Fields(n.Data)
		if len(words) == 0 {
			if r.lineLen > 0 && n.Data != "" {
				r.write(" ")
			}
			return
		}
		text := strings.Join(words, " ")
		if r.lineLen > 0 && startsWithSpace(n.Data) {
			text = " " + text
		}
		if endsWithSpace(n.Data) {
			text += " "
		}
		r.write(text)
		return
	case html.ElementNode:
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			r.node(c, pre)
		}
		return
	}

	switch n.DataAtom {
	case atom.Script, atom.Style:
		return
	case atom.Br:
		r.write("\n")
		return
	case atom.Hr:
		r.newline()
		r.write("----\n")
		return
	}
	block := blockAtoms[n.DataAtom]
	if block {
		r.newline()
	}
	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		r.write(strings.Repeat("#", int(n.Data[1]-'0')) + " ")
	case atom.Li:
		r.write("- ")
	}
	inPre := pre || n.DataAtom == atom.Pre
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		r.node(c, inPre)
	}
	if block {
		r.trimTrailingSpace()
		r.newline()
	}
}

func (r *textRenderer) trimTrailingSpace() {
	s := r.b.String()
	t := strings.TrimRight(s, " ")
	if len(t) == len(s) {
		return
	}
	r.b.Reset()
	r.b.WriteString(t)
	r.lineLen -= len(s) - len(t)
}

func (r *textRenderer) String() string {
	return strings.TrimSpace(r.b.String())
}

func startsWithSpace(s string) bool { return s != "" && strings.ContainsRune(" \t\n\r", rune(s[0])) }
func endsWithSpace(s string) bool {
	return s != "" && strings.ContainsRune(" \t\n\r", rune(s[len(s)-1]))
}
