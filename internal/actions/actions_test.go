package actions

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"wiki-edit/internal/csrf"
	"wiki-edit/internal/editor"
	"wiki-edit/internal/page"
)

type recorded struct {
	Method, URL, Body, Token string
}

type recorder struct {
	mu   sync.Mutex
	reqs []recorded
}

func (r *recorder) add(req *http.Request) {
	b, _ := io.ReadAll(req.Body)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, recorded{req.Method, req.URL.RequestURI(), string(b), req.Header.Get(csrf.DefaultHeaderName)})
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.reqs...)
}

func newForm() *page.Form {
	f := &page.Form{}
	f.Add(page.Field{Name: "revision", Value: "2"})
	f.Add(page.Field{Name: "body", Value: "", Textarea: true})
	f.Add(page.Field{Name: "preview", Value: "0"})
	f.Add(page.Field{Name: "comment", Value: ""})
	return f
}

func setup(t *testing.T, h http.HandlerFunc) (*Controller, *page.Form, editor.Surface, *recorder) {
	t.Helper()
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.add(r)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	pageURL, _ := url.Parse(srv.URL + "/Home?view=edit#top")
	client := srv.Client()
	csrf.Install(client, csrf.NewTransport(nil, "tok", true, csrf.NewOriginClassifier(pageURL)))

	form := newForm()
	surface := editor.New(form, editor.DefaultCapabilities(), editor.Hooks{}, editor.PlainOptions{})
	c := New(Config{Client: client, Page: pageURL, Form: form, Surface: surface, DeleteAction: "?_method=DELETE"})
	return c, form, surface, rec
}

func typeText(s editor.Surface, text string) {
	for _, r := range text {
		s.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func TestPreviewRoundTrip(t *testing.T) {
	c, form, surface, rec := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><div class="nav">x</div><div class="wrap"><h1>Title</h1></div></body></html>`))
	})
	typeText(surface, "# Title")

	markup, err := c.Preview(context.Background())
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if markup != "<h1>Title</h1>" {
		t.Fatalf("unexpected markup %q", markup)
	}
	if form.Get(PreviewField) != "0" {
		t.Fatalf("preview field must be reset, got %q", form.Get(PreviewField))
	}
	reqs := rec.all()
	if len(reqs) != 1 {
		t.Fatalf("expected one request, got %d", len(reqs))
	}
	got := reqs[0]
	if got.Method != "POST" || got.URL != "/Home?_method=PUT" || got.Token != "tok" {
		t.Fatalf("unexpected request %+v", got)
	}
	if !strings.Contains(got.Body, "body=%23+Title&preview=1") {
		t.Fatalf("payload %q lacks body/preview marker", got.Body)
	}
}

func TestPreviewWithoutWrap(t *testing.T) {
	c, _, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<p>no wrap</p>`))
	})
	if _, err := c.Preview(context.Background()); !errors.Is(err, ErrNoWrap) {
		t.Fatalf("expected ErrNoWrap, got %v", err)
	}
}

func TestPreviewFailureLeavesFormReset(t *testing.T) {
	c, form, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	if _, err := c.Preview(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if form.Get(PreviewField) != "0" {
		t.Fatalf("preview field left at %q", form.Get(PreviewField))
	}
}

func TestNewerPreviewCancelsOlder(t *testing.T) {
	c, _, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<div class="wrap">ok</div>`))
	})
	first := c.PreparePreview(context.Background())
	second := c.PreparePreview(context.Background())
	if c.Latest(first.Seq) || !c.Latest(second.Seq) {
		t.Fatalf("sequence bookkeeping wrong: first=%d second=%d", first.Seq, second.Seq)
	}
	if _, err := first.Send(); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected stale preview to be cancelled, got %v", err)
	}
	if got, err := second.Send(); err != nil || got != "ok" {
		t.Fatalf("latest preview: %q %v", got, err)
	}
}

func TestDeleteConfirmed(t *testing.T) {
	c, _, _, rec := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	nav, err := c.Delete(context.Background(), Confirmed)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if nav.Path != "/Home" {
		t.Fatalf("expected navigation to /Home, got %q", nav.Path)
	}
	reqs := rec.all()
	want := recorded{Method: "POST", URL: "/Home?_method=DELETE", Body: "", Token: "tok"}
	if len(reqs) != 1 || reqs[0] != want {
		t.Fatalf("got %+v want exactly %+v", reqs, want)
	}
}

func TestDeleteDeclined(t *testing.T) {
	c, _, _, rec := setup(t, func(w http.ResponseWriter, r *http.Request) {})
	var asked string
	nav, err := c.Delete(context.Background(), ConfirmFunc(func(p string) bool { asked = p; return false }))
	if err != nil || !nav.IsZero() {
		t.Fatalf("declined delete: nav=%+v err=%v", nav, err)
	}
	if asked != "Are you sure?" {
		t.Fatalf("unexpected prompt %q", asked)
	}
	if n := len(rec.all()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestDeleteFailureDoesNotNavigate(t *testing.T) {
	c, _, _, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	nav, err := c.Delete(context.Background(), Confirmed)
	if err == nil || !nav.IsZero() {
		t.Fatalf("expected error without navigation, got %+v %v", nav, err)
	}
}

func TestSaveReadsMessageFromRedirect(t *testing.T) {
	c, form, surface, rec := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Message", "Successfully updated.")
		http.Redirect(w, r, "/Home", http.StatusSeeOther)
	})
	typeText(surface, "new text")
	res, err := c.Save(context.Background(), "typo")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if res.Message != "Successfully updated." || res.Navigation.Path != "/Home" {
		t.Fatalf("unexpected result %+v", res)
	}
	reqs := rec.all()
	if len(reqs) != 1 {
		t.Fatalf("redirect should not be followed, saw %d requests", len(reqs))
	}
	if !strings.Contains(reqs[0].Body, "body=new+text&preview=0&comment=typo") {
		t.Fatalf("unexpected payload %q", reqs[0].Body)
	}
	if form.Get("body") != "new text" {
		t.Fatalf("save should materialize the editor")
	}
}

// Run with -race: the editor keeps taking keystrokes while the save is in
// flight, as it does in the TUI.
func TestSaveSendDoesNotTouchEditor(t *testing.T) {
	c, form, surface, rec := setup(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Message", "Successfully updated.")
		http.Redirect(w, r, "/Home", http.StatusSeeOther)
	})
	typeText(surface, "first")
	tx := c.PrepareSave("c1")
	if !strings.Contains(tx.Payload, "body=first&preview=0&comment=c1") {
		t.Fatalf("unexpected payload %q", tx.Payload)
	}

	done := make(chan error, 1)
	go func() {
		_, err := tx.Send(context.Background())
		done <- err
	}()
	typeText(surface, " more")
	surface.Materialize()
	if err := <-done; err != nil {
		t.Fatalf("Send: %v", err)
	}

	reqs := rec.all()
	if len(reqs) != 1 || !strings.Contains(reqs[0].Body, "body=first&") {
		t.Fatalf("sent payload should be the prepared one, got %+v", reqs)
	}
	if form.Get("body") != "first more" {
		t.Fatalf("later edits should still reach the form, got %q", form.Get("body"))
	}
}
