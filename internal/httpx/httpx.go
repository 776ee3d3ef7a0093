package httpx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	DefaultTimeout = 20 * time.Second
)

const formContentType = "application/x-www-form-urlencoded; charset=UTF-8"

// StatusError is returned for 4xx/5xx responses. Body holds a short snippet.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: status %d", e.Method, e.URL, e.Code)
	}
	return fmt.Sprintf("%s %s: %s (%d)", e.Method, e.URL, e.Body, e.Code)
}

// Response is a fully read response. 3xx only shows up when the client does
// not follow redirects.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
	// URL is the final URL after redirects.
	URL string
}

// Do sends req through client with DefaultTimeout unless ctx already has a
// deadline, and reads the whole body of any response below 400.
func Do(ctx context.Context, client *http.Client, req *http.Request) (*Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultTimeout)
		defer cancel()
	}
	req = req.WithContext(ctx)
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{
			Method: req.Method,
			URL:    req.URL.String(),
			Code:   resp.StatusCode,
			Body:   strings.TrimSpace(string(b)),
		}
	}
	all, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Response{
		Status: resp.StatusCode,
		Header: resp.Header,
		Body:   all,
		URL:    resp.Request.URL.String(),
	}, nil
}

func Get(ctx context.Context, client *http.Client, url string) (*Response, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/html")
	return Do(ctx, client, req)
}

// PostForm posts an already encoded form body. An empty body is sent as-is.
func PostForm(ctx context.Context, client *http.Client, url, body string) (*Response, error) {
	req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	return Do(ctx, client, req)
}

func WaitHTTPUp(url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		if time.Now().After(deadline) {
			return fmt.Errorf("timeout waiting for %s", url)
		}
		resp, err := http.Get(url) // #nosec G107
		if err == nil && resp.StatusCode < 500 {
			resp.Body.Close()
			return nil
		}
		if resp != nil && resp.Body != nil {
			resp.Body.Close()
		}
		time.Sleep(100 * time.Millisecond)
	}
}
