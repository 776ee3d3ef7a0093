package page

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var ErrNoEditForm = errors.New("page has no .editform")

// TabMarker is a tab entry found under .editor-tab in the edit page markup.
type TabMarker struct {
	Name   string
	Label  string
	Active bool
}

// EditPage is everything the editor needs from a `?view=edit` response.
type EditPage struct {
	Title        string
	Form         *Form
	DeleteAction string
	HasDelete    bool
	Tabs         []TabMarker
}

func ParseEditPage(r io.Reader) (*EditPage, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse edit page: %w", err)
	}
	ep := &EditPage{}
	if t := findFirst(doc, func(n *html.Node) bool { return n.DataAtom == atom.Title }); t != nil {
		ep.Title = strings.TrimSpace(textContent(t))
	}
	form := findFirst(doc, isClass("editform"))
	if form == nil {
		return nil, ErrNoEditForm
	}
	ep.Form = collectForm(form)
	if del := findFirst(doc, isClass("deleteform")); del != nil {
		ep.DeleteAction, ep.HasDelete = attr(del, "action")
	}
	if bar := findFirst(doc, isClass("editor-tab")); bar != nil {
		walk(bar, func(n *html.Node) bool {
			if !hasClass(n, "tab") {
				return true
			}
			name, _ := attr(n, "data-name")
			ep.Tabs = append(ep.Tabs, TabMarker{
				Name:   name,
				Label:  strings.TrimSpace(textContent(n)),
				Active: hasClass(n, "active"),
			})
			return false
		})
	}
	return ep, nil
}

func collectForm(form *html.Node) *Form {
	f := &Form{}
	f.Action, _ = attr(form, "action")
	walk(form, func(n *html.Node) bool {
		if n.Type != html.ElementNode {
			return true
		}
		name, ok := attr(n, "name")
		if !ok || name == "" {
			return true
		}
		if _, disabled := attr(n, "disabled"); disabled {
			return false
		}
		switch n.DataAtom {
		case atom.Input:
			typ, _ := attr(n, "type")
			switch strings.ToLower(typ) {
			case "submit", "button", "image", "reset", "file":
				return false
			case "checkbox", "radio":
				if _, checked := attr(n, "checked"); !checked {
					return false
				}
				v, has := attr(n, "value")
				if !has {
					v = "on"
				}
				f.Add(Field{Name: name, Value: v})
				return false
			}
			v, _ := attr(n, "value")
			f.Add(Field{Name: name, Value: v})
			return false
		case atom.Textarea:
			// The HTML parser drops one leading newline already.
			f.Add(Field{Name: name, Value: textContent(n), Textarea: true})
			return false
		case atom.Select:
			f.Add(Field{Name: name, Value: selectedOption(n)})
			return false
		}
		return true
	})
	return f
}

func selectedOption(sel *html.Node) string {
	var first, chosen *html.Node
	walk(sel, func(n *html.Node) bool {
		if n.DataAtom != atom.Option {
			return true
		}
		if first == nil {
			first = n
		}
		if _, ok := attr(n, "selected"); ok && chosen == nil {
			chosen = n
		}
		return false
	})
	if chosen == nil {
		chosen = first
	}
	if chosen == nil {
		return ""
	}
	if v, ok := attr(chosen, "value"); ok {
		return v
	}
	return strings.TrimSpace(textContent(chosen))
}
