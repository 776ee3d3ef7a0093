package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPostFormSendsBodyAndFollowsRedirect(t *testing.T) {
	var gotBody, gotType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			b, _ := io.ReadAll(r.Body)
			gotBody, gotType = string(b), r.Header.Get("Content-Type")
			http.Redirect(w, r, "/done", http.StatusSeeOther)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	resp, err := PostForm(context.Background(), srv.Client(), srv.URL+"/p?_method=PUT", "a=1")
	if err != nil {
		t.Fatalf("PostForm: %v", err)
	}
	if gotBody != "a=1" || gotType != formContentType {
		t.Fatalf("server saw body %q type %q", gotBody, gotType)
	}
	if string(resp.Body) != "ok" || resp.URL != srv.URL+"/done" {
		t.Fatalf("unexpected response %q at %s", resp.Body, resp.URL)
	}
}

func TestDoReturnsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := Get(context.Background(), srv.Client(), srv.URL)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusForbidden || se.Body != "nope" {
		t.Fatalf("unexpected error fields %+v", se)
	}
}

func TestWaitHTTPUp(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()
	if err := WaitHTTPUp(srv.URL, time.Second); err != nil {
		t.Fatalf("WaitHTTPUp: %v", err)
	}
}
