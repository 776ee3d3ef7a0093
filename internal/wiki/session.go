// Package wiki owns the lifecycle of one page editing session: the HTTP
// client with its cookie jar, the CSRF interceptor, and edit page loading.
package wiki

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"golang.org/x/net/publicsuffix"

	"wiki-edit/internal/csrf"
	"wiki-edit/internal/httpx"
	"wiki-edit/internal/page"
)

type Options struct {
	Timeout    time.Duration
	CookieName string
	HeaderName string
	Logf       func(string, ...any)
}

// Session is bound to a single page URL.
type Session struct {
	Client *http.Client
	Page   *url.URL

	opts      Options
	jar       http.CookieJar
	installed bool
	token     string
	hasToken  bool
}

// NewSession prepares a client for pageURL. Query and fragment are dropped;
// the edit view is requested explicitly.
func NewSession(pageURL string, opts Options) (*Session, error) {
	u, err := url.Parse(pageURL)
	if err != nil {
		return nil, fmt.Errorf("parse page url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("page url %q must be http or https", pageURL)
	}
	if u.Path == "" {
		u.Path = "/"
	}
	u.RawQuery, u.Fragment = "", ""
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	if opts.CookieName == "" {
		opts.CookieName = csrf.DefaultCookieName
	}
	if opts.HeaderName == "" {
		opts.HeaderName = csrf.DefaultHeaderName
	}
	if opts.Logf == nil {
		opts.Logf = func(string, ...any) {}
	}
	return &Session{
		Client: &http.Client{Jar: jar, Timeout: opts.Timeout},
		Page:   u,
		opts:   opts,
		jar:    jar,
	}, nil
}

func (s *Session) editURL() string {
	u := *s.Page
	u.RawQuery = "view=edit"
	return u.String()
}

// Open loads the edit page, reads the CSRF token once from the cookies the
// server set, and installs the interceptor on the client.
func (s *Session) Open(ctx context.Context) (*page.EditPage, error) {
	ep, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if !s.installed {
		store := csrf.NewCookieStore(func() string { return csrf.JarHeader(s.jar, s.Page) })
		s.token, s.hasToken = store.Get(s.opts.CookieName)
		if !s.hasToken {
			s.opts.Logf("session: no %s cookie, mutating requests go out without %s", s.opts.CookieName, s.opts.HeaderName)
		}
		t := csrf.NewTransport(nil, s.token, s.hasToken, csrf.NewOriginClassifier(s.Page))
		t.Header = s.opts.HeaderName
		csrf.Install(s.Client, t)
		s.installed = true
	}
	return ep, nil
}

// HasToken reports whether a CSRF token was found at Open.
func (s *Session) HasToken() bool { return s.hasToken }

// Reload follows a navigation by fetching the edit page at its path.
func (s *Session) Reload(ctx context.Context, path string) (*page.EditPage, error) {
	if path != "" && path != s.Page.Path {
		u := *s.Page
		u.Path = path
		s.Page = &u
	}
	return s.load(ctx)
}

func (s *Session) load(ctx context.Context) (*page.EditPage, error) {
	target := s.editURL()
	s.opts.Logf("session: GET %s", target)
	resp, err := httpx.Get(ctx, s.Client, target)
	if err != nil {
		return nil, fmt.Errorf("load edit page: %w", err)
	}
	ep, err := page.ParseEditPage(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("load edit page %s: %w", target, err)
	}
	return ep, nil
}
