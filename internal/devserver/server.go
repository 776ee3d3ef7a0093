// Package devserver is an in-memory wiki speaking the edit protocol the
// client expects: an edit view, method-override POSTs for PUT and DELETE,
// and a CSRF cookie/header check on every mutating request.
package devserver

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const (
	CookieName = "csrftoken"
	HeaderName = "X-CSRFToken"
	// formTokenField is accepted in place of the header for plain form posts.
	formTokenField = "csrfmiddlewaretoken"
)

type Config struct {
	// Verbose turns on chi's request logger.
	Verbose bool
	Logf    func(string, ...any)
}

type Page struct {
	Path     string
	Body     string
	Revision int
}

func (p Page) Title() string { return titleFromPath(p.Path) }

type Server struct {
	cfg    Config
	logf   func(string, ...any)
	md     goldmark.Markdown
	router chi.Router

	mu    sync.Mutex
	pages map[string]*Page
}

func New(cfg Config) *Server {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	s := &Server{
		cfg:   cfg,
		logf:  logf,
		md:    goldmark.New(goldmark.WithExtensions(extension.GFM)),
		pages: map[string]*Page{},
	}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.cfg.Verbose {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(s.issueToken)
	r.Use(s.checkToken)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/Home", http.StatusSeeOther)
	})
	r.Get("/*", s.handleGet)
	r.Post("/*", s.handlePost)
	return r
}

func (s *Server) Router() http.Handler { return s.router }

// Seed stores body at path as revision 1.
func (s *Server) Seed(path, body string) {
	path = normalizePath(path)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pages[path] = &Page{Path: path, Body: body, Revision: 1}
}

func (s *Server) Lookup(path string) (Page, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pages[normalizePath(path)]
	if !ok {
		return Page{}, false
	}
	return *p, true
}

// issueToken sets the CSRF cookie on safe requests that arrive without one.
func (s *Server) issueToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead {
			if _, err := r.Cookie(CookieName); err != nil {
				http.SetCookie(w, &http.Cookie{
					Name:     CookieName,
					Value:    strings.ReplaceAll(uuid.NewString(), "-", ""),
					Path:     "/",
					SameSite: http.SameSiteLaxMode,
				})
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) checkToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
			next.ServeHTTP(w, r)
			return
		}
		c, err := r.Cookie(CookieName)
		if err != nil || c.Value == "" {
			s.logf("devserver: %s %s rejected: no CSRF cookie", r.Method, r.URL)
			http.Error(w, "CSRF cookie not set.", http.StatusForbidden)
			return
		}
		got := r.Header.Get(HeaderName)
		if got == "" {
			got = r.PostFormValue(formTokenField)
		}
		if got != c.Value {
			s.logf("devserver: %s %s rejected: token mismatch", r.Method, r.URL)
			http.Error(w, "CSRF verification failed.", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(chi.URLParam(r, "*"))
	p, exists := s.Lookup(path)
	if !exists {
		p = Page{Path: path}
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	switch r.URL.Query().Get("view") {
	case "edit":
		if err := editTemplate.Execute(w, editData{Page: p, Exists: exists}); err != nil {
			s.logf("devserver: render edit %s: %v", path, err)
		}
	case "", "default":
		if !exists {
			w.WriteHeader(http.StatusNotFound)
		}
		s.renderPage(w, p, exists)
	default:
		http.Error(w, "unknown view", http.StatusBadRequest)
	}
}

func (s *Server) renderPage(w http.ResponseWriter, p Page, exists bool) {
	var body bytes.Buffer
	if exists {
		if err := s.md.Convert([]byte(p.Body), &body); err != nil {
			s.logf("devserver: markdown %s: %v", p.Path, err)
		}
	}
	if err := pageTemplate.Execute(w, pageData{Page: p, Exists: exists, HTML: body.String()}); err != nil {
		s.logf("devserver: render %s: %v", p.Path, err)
	}
}

func (s *Server) handlePost(w http.ResponseWriter, r *http.Request) {
	path := normalizePath(chi.URLParam(r, "*"))
	method := r.URL.Query().Get("_method")
	if method == "" {
		method = http.MethodPost
	}
	switch method {
	case http.MethodPut:
		s.handlePut(w, r, path)
	case http.MethodDelete:
		s.handleDelete(w, path)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request, path string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	body := strings.ReplaceAll(r.PostForm.Get("body"), "\r\n", "\n")
	if r.PostForm.Get("preview") == "1" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		s.renderPage(w, Page{Path: path, Body: body}, true)
		return
	}
	rev, err := strconv.Atoi(r.PostForm.Get("revision"))
	if err != nil {
		http.Error(w, "revision is required", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	p, ok := s.pages[path]
	if !ok {
		p = &Page{Path: path}
	}
	if rev != p.Revision {
		cur := p.Revision
		s.mu.Unlock()
		http.Error(w, fmt.Sprintf("revision %d is stale, current is %d", rev, cur), http.StatusConflict)
		return
	}
	p.Body = body
	p.Revision++
	s.pages[path] = p
	s.mu.Unlock()

	s.logf("devserver: %s saved as revision %d (%s)", path, p.Revision, r.PostForm.Get("comment"))
	w.Header().Set("X-Message", "Successfully updated.")
	http.Redirect(w, r, path, http.StatusSeeOther)
}

func (s *Server) handleDelete(w http.ResponseWriter, path string) {
	s.mu.Lock()
	_, ok := s.pages[path]
	delete(s.pages, path)
	s.mu.Unlock()
	if !ok {
		http.Error(w, "no such page", http.StatusNotFound)
		return
	}
	s.logf("devserver: %s deleted", path)
	w.WriteHeader(http.StatusNoContent)
}

func normalizePath(p string) string {
	p = strings.Trim(p, "/")
	p = strings.ReplaceAll(p, " ", "_")
	return "/" + p
}

func titleFromPath(p string) string {
	return strings.ReplaceAll(strings.TrimPrefix(p, "/"), "_", " ")
}
