package page

import (
	"strings"
)

// Field is one successful control of the edit form.
type Field struct {
	Name     string
	Value    string
	Textarea bool
}

// Form is the ordered set of edit-form controls. Order follows the document
// so that Serialize matches what a browser would submit.
type Form struct {
	Action string
	fields []Field
}

func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

func (f *Form) index(name string) int {
	for i, fl := range f.fields {
		if fl.Name == name {
			return i
		}
	}
	return -1
}

func (f *Form) Has(name string) bool { return f.index(name) >= 0 }

func (f *Form) Get(name string) string {
	if i := f.index(name); i >= 0 {
		return f.fields[i].Value
	}
	return ""
}

// Set updates the first field named name, appending a new one if absent.
func (f *Form) Set(name, value string) {
	if i := f.index(name); i >= 0 {
		f.fields[i].Value = value
		return
	}
	f.fields = append(f.fields, Field{Name: name, Value: value})
}

func (f *Form) Add(fl Field) { f.fields = append(f.fields, fl) }

// Textarea returns the name of the first textarea, if any.
func (f *Form) Textarea() (string, bool) {
	for _, fl := range f.fields {
		if fl.Textarea {
			return fl.Name, true
		}
	}
	return "", false
}

// Serialize encodes the form the way jQuery's serialize does: fields in
// order, joined by '&', spaces encoded as '+', textarea newlines as CRLF.
func (f *Form) Serialize() string {
	parts := make([]string, 0, len(f.fields))
	for _, fl := range f.fields {
		v := fl.Value
		if fl.Textarea {
			v = normalizeNewlines(v)
		}
		parts = append(parts, escapeComponent(fl.Name)+"="+escapeComponent(v))
	}
	return strings.Join(parts, "&")
}

// escapeComponent percent-encodes UTF-8 bytes outside the encodeURIComponent
// unreserved set, then writes spaces as '+'. url.QueryEscape differs on
// !'()*~.
func escapeComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == ' ':
			b.WriteByte('+')
		case unreservedComponent(c):
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&15])
		}
	}
	return b.String()
}

func unreservedComponent(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}

func (f *Form) Clone() *Form {
	return &Form{Action: f.Action, fields: f.Fields()}
}
