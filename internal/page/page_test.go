package page

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const editPage = `<!doctype html>
<html><head><title> Home (edit) </title></head>
<body>
<ul class="editor-tab">
  <li class="tab plain active" data-name="plain"><a href="#plain">Plain editor</a></li>
</ul>
<form class="editform" action="" method="post">
  <input type="hidden" name="revision" value="3">
  <textarea name="body">
# Hello</textarea>
  <input type="hidden" name="preview" value="0">
  <input type="text" name="comment" class="comment" value="">
  <input type="checkbox" name="minor" value="yes">
  <input type="checkbox" name="watch" checked>
  <select name="lang"><option value="en">en</option><option value="ko" selected>ko</option></select>
  <input type="submit" name="go" value="Save">
  <input type="text" name="off" disabled value="x">
</form>
<form class="deleteform" action="?_method=DELETE" method="post"></form>
</body></html>`

func TestParseEditPage(t *testing.T) {
	ep, err := ParseEditPage(strings.NewReader(editPage))
	if err != nil {
		t.Fatalf("ParseEditPage: %v", err)
	}
	if ep.Title != "Home (edit)" {
		t.Errorf("title: got %q", ep.Title)
	}
	want := []Field{
		{Name: "revision", Value: "3"},
		{Name: "body", Value: "# Hello", Textarea: true},
		{Name: "preview", Value: "0"},
		{Name: "comment", Value: ""},
		{Name: "watch", Value: "on"},
		{Name: "lang", Value: "ko"},
	}
	if diff := cmp.Diff(want, ep.Form.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !ep.HasDelete || ep.DeleteAction != "?_method=DELETE" {
		t.Errorf("delete action: %q %v", ep.DeleteAction, ep.HasDelete)
	}
	wantTabs := []TabMarker{{Name: "plain", Label: "Plain editor", Active: true}}
	if diff := cmp.Diff(wantTabs, ep.Tabs); diff != "" {
		t.Errorf("tabs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEditPageWithoutForm(t *testing.T) {
	_, err := ParseEditPage(strings.NewReader("<html><body><p>hi</p></body></html>"))
	if !errors.Is(err, ErrNoEditForm) {
		t.Fatalf("expected ErrNoEditForm, got %v", err)
	}
}

func TestSerializeMatchesBrowserEncoding(t *testing.T) {
	f := &Form{}
	f.Add(Field{Name: "body", Value: "# Title\nline two", Textarea: true})
	f.Add(Field{Name: "preview", Value: "0"})
	f.Add(Field{Name: "comment", Value: "a&b=c"})
	got := f.Serialize()
	want := "body=%23+Title%0D%0Aline+two&preview=0&comment=a%26b%3Dc"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestSerializeKeepsComponentUnreserved(t *testing.T) {
	f := &Form{}
	f.Add(Field{Name: "body", Value: "Hi! (it's ~*ok*)", Textarea: true})
	f.Add(Field{Name: "comment", Value: "é/+"})
	got := f.Serialize()
	want := "body=Hi!+(it's+~*ok*)&comment=%C3%A9%2F%2B"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestFormSetAndTextarea(t *testing.T) {
	f := &Form{}
	if _, ok := f.Textarea(); ok {
		t.Fatalf("empty form has no textarea")
	}
	f.Set("preview", "1")
	f.Set("preview", "0")
	if len(f.Fields()) != 1 || f.Get("preview") != "0" {
		t.Fatalf("Set should update in place: %+v", f.Fields())
	}
	c := f.Clone()
	c.Set("preview", "1")
	if f.Get("preview") != "0" {
		t.Fatalf("clone shares storage")
	}
}

func TestInnerHTML(t *testing.T) {
	doc := `<html><body><div class="header">x</div><div class="wrap"><h1>Title</h1><p>Body &amp; more</p></div></body></html>`
	got, ok := InnerHTML(doc, "wrap")
	if !ok {
		t.Fatalf("expected .wrap to be found")
	}
	if got != "<h1>Title</h1><p>Body &amp; more</p>" {
		t.Fatalf("got %q", got)
	}
	if _, ok := InnerHTML("<p>none</p>", "wrap"); ok {
		t.Fatalf("expected miss")
	}
}

func TestRenderText(t *testing.T) {
	got := RenderText(`<h2>Title</h2><p>Hello <b>world</b>,
	again.</p><ul><li>one</li><li>two</li></ul><pre>a  b
c</pre><script>alert(1)</script>`)
	want := "## Title\nHello world, again.\n- one\n- two\na  b\nc"
	if got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestSanitizeDropsScripts(t *testing.T) {
	got := Sanitize(`<p onclick="x()">ok</p><script>alert(1)</script>`)
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("unsafe markup survived: %q", got)
	}
	if !strings.Contains(got, "<p>ok</p>") {
		t.Fatalf("safe markup lost: %q", got)
	}
}
