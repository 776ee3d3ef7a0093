package csrf

import (
	"net/http"
)

const (
	DefaultCookieName = "csrftoken"
	DefaultHeaderName = "X-CSRFToken"
)

// safeMethods never carry the token. Matching is exact and case-sensitive.
var safeMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	http.MethodTrace:   true,
}

func IsSafeMethod(method string) bool { return safeMethods[method] }

// Transport decorates outgoing requests with the CSRF header. The token is
// fixed at construction; a missing token means requests go out bare.
type Transport struct {
	Base     http.RoundTripper
	Header   string
	token    string
	hasToken bool
	origins  *OriginClassifier
}

func NewTransport(base http.RoundTripper, token string, hasToken bool, origins *OriginClassifier) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Transport{
		Base:     base,
		Header:   DefaultHeaderName,
		token:    token,
		hasToken: hasToken,
		origins:  origins,
	}
}

// Attaches reports whether req would receive the header.
func (t *Transport) Attaches(req *http.Request) bool {
	if !t.hasToken || IsSafeMethod(req.Method) {
		return false
	}
	return t.origins == nil || t.origins.IsSafeOrigin(req.URL.String())
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !t.Attaches(req) {
		return t.Base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set(t.Header, t.token)
	return t.Base.RoundTrip(r)
}

// Install wraps client's transport with t. Installing onto a client that
// already carries a csrf Transport leaves it unchanged and returns false.
func Install(client *http.Client, t *Transport) bool {
	if _, ok := client.Transport.(*Transport); ok {
		return false
	}
	if client.Transport != nil {
		t.Base = client.Transport
	}
	client.Transport = t
	return true
}
