package csrf

import (
	"net/http"
	"net/url"
	"strings"
)

// CookieStore reads values out of an ambient cookie string of the form
// "name1=value1; name2=value2". It never caches: every Get re-reads the source.
type CookieStore struct {
	source func() string
}

func NewCookieStore(source func() string) *CookieStore {
	return &CookieStore{source: source}
}

// Get returns the percent-decoded value of the first cookie named name.
// A value with a malformed escape is returned undecoded.
func (s *CookieStore) Get(name string) (string, bool) {
	if s == nil || s.source == nil {
		return "", false
	}
	raw := s.source()
	if raw == "" {
		return "", false
	}
	prefix := name + "="
	for _, part := range strings.Split(raw, ";") {
		c := strings.TrimSpace(part)
		if !strings.HasPrefix(c, prefix) {
			continue
		}
		v := c[len(prefix):]
		if dec, err := url.PathUnescape(v); err == nil {
			return dec, true
		}
		return v, true
	}
	return "", false
}

// JarHeader renders the Cookie header a jar would send to u.
func JarHeader(jar http.CookieJar, u *url.URL) string {
	if jar == nil || u == nil {
		return ""
	}
	cookies := jar.Cookies(u)
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}
