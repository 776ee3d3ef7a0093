package main

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestVersionCommand(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), Version) {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestEditRequiresPage(t *testing.T) {
	root := newRootCmd()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"edit"})
	if err := root.Execute(); err == nil {
		t.Fatalf("expected an error without a page argument")
	}
}

func TestStartDevServerServesSeededHome(t *testing.T) {
	base, stop, err := startDevServer(0, false)
	if err != nil {
		t.Fatalf("startDevServer: %v", err)
	}
	defer stop()

	resp, err := http.Get(base + "/Home?view=edit")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "editform") {
		t.Fatalf("status %d body %q", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Welcome") {
		t.Fatalf("seed page missing from edit view")
	}
}
