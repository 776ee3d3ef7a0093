package csrf

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestTransportAttachesOnlyForUnsafeSameOrigin(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.Header.Get(DefaultHeaderName))
	}))
	defer srv.Close()

	page, _ := url.Parse(srv.URL + "/Home")
	client := &http.Client{}
	if !Install(client, NewTransport(nil, "tok", true, NewOriginClassifier(page))) {
		t.Fatalf("expected first install to succeed")
	}
	if Install(client, NewTransport(nil, "other", true, nil)) {
		t.Fatalf("expected second install to be a no-op")
	}

	for _, m := range []string{"GET", "HEAD", "OPTIONS", "TRACE", "POST", "PUT", "DELETE", "PATCH", "get"} {
		req, _ := http.NewRequest(m, srv.URL+"/Home", nil)
		resp, err := client.Do(req)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		resp.Body.Close()
	}
	want := []string{"GET ", "HEAD ", "OPTIONS ", "TRACE ", "POST tok", "PUT tok", "DELETE tok", "PATCH tok", "get tok"}
	if len(seen) != len(want) {
		t.Fatalf("got %d requests, want %d", len(seen), len(want))
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d: got %q want %q", i, seen[i], want[i])
		}
	}
}

func TestTransportSkipsCrossOriginAndMissingToken(t *testing.T) {
	page, _ := url.Parse("http://wiki.test/Home")
	tr := NewTransport(nil, "tok", true, NewOriginClassifier(page))
	cross, _ := http.NewRequest("POST", "http://evil.test/x", nil)
	if tr.Attaches(cross) {
		t.Fatalf("cross-origin POST must not carry the token")
	}
	same, _ := http.NewRequest("POST", "http://wiki.test/Home?_method=PUT", nil)
	if !tr.Attaches(same) {
		t.Fatalf("same-origin POST must carry the token")
	}
	bare := NewTransport(nil, "", false, NewOriginClassifier(page))
	if bare.Attaches(same) {
		t.Fatalf("missing token must leave requests bare")
	}
}

func TestTransportDoesNotMutateCallerRequest(t *testing.T) {
	var got string
	base := roundTripFunc(func(r *http.Request) (*http.Response, error) {
		got = r.Header.Get(DefaultHeaderName)
		return &http.Response{StatusCode: 204, Body: http.NoBody, Request: r}, nil
	})
	page, _ := url.Parse("http://wiki.test/")
	tr := NewTransport(base, "tok", true, NewOriginClassifier(page))
	req, _ := http.NewRequest("POST", "http://wiki.test/a", nil)
	if _, err := tr.RoundTrip(req); err != nil {
		t.Fatal(err)
	}
	if got != "tok" {
		t.Fatalf("base transport saw %q", got)
	}
	if req.Header.Get(DefaultHeaderName) != "" {
		t.Fatalf("caller request was mutated")
	}
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }
