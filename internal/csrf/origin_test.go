package csrf

import (
	"net/url"
	"testing"
)

func TestIsSafeOrigin(t *testing.T) {
	page, _ := url.Parse("https://wiki.test:8443/Home?view=edit")
	o := NewOriginClassifier(page)
	cases := []struct {
		url  string
		want bool
	}{
		{"/path", true},
		{"?_method=PUT", true},
		{"relative/page", true},
		{"//wiki.test:8443/path", true},
		{"//wiki.test:8443", true},
		{"https://wiki.test:8443/path", true},
		{"https://wiki.test:8443", true},
		{"https://wiki.test:84430/path", false},
		{"http://wiki.test:8443/path", false},
		{"https://other/path", false},
		{"//other/path", false},
		{"mailto:someone", true},
	}
	for _, c := range cases {
		if got := o.IsSafeOrigin(c.url); got != c.want {
			t.Errorf("IsSafeOrigin(%q) = %v, want %v", c.url, got, c.want)
		}
	}
}
