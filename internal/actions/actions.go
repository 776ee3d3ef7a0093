// Package actions drives the request-triggering buttons of the edit form:
// delete, preview and save.
package actions

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"wiki-edit/internal/editor"
	"wiki-edit/internal/httpx"
	"wiki-edit/internal/page"
)

const (
	PreviewField = "preview"
	CommentField = "comment"
	// previewTarget is resolved against the page URL.
	previewTarget = "?_method=PUT"
	wrapClass     = "wrap"
)

// ErrNoWrap is returned when a preview response has no .wrap element.
var ErrNoWrap = errors.New("preview response has no .wrap element")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Confirmed is the Confirmer for callers that already asked.
var Confirmed = ConfirmFunc(func(string) bool { return true })

// Navigation is where the host should go after an action. A zero value
// means stay.
type Navigation struct {
	Path string
}

func (n Navigation) IsZero() bool { return n.Path == "" }

type Controller struct {
	client       *http.Client
	page         *url.URL
	form         *page.Form
	surface      editor.Surface
	deleteAction string
	logf         func(string, ...any)

	mu            sync.Mutex
	seq           uint64
	cancelPreview context.CancelFunc
}

type Config struct {
	Client       *http.Client
	Page         *url.URL
	Form         *page.Form
	Surface      editor.Surface
	DeleteAction string
	Logf         func(string, ...any)
}

func New(cfg Config) *Controller {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Controller{
		client:       cfg.Client,
		page:         cfg.Page,
		form:         cfg.Form,
		surface:      cfg.Surface,
		deleteAction: cfg.DeleteAction,
		logf:         logf,
	}
}

func (c *Controller) resolve(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", ref, err)
	}
	return c.page.ResolveReference(u).String(), nil
}

// Delete asks for confirmation and, if granted, posts an empty body to the
// delete form's action. On success it returns a navigation to the page path
// with query and fragment dropped.
func (c *Controller) Delete(ctx context.Context, confirm Confirmer) (Navigation, error) {
	if !confirm.Confirm("Are you sure?") {
		c.logf("delete: declined")
		return Navigation{}, nil
	}
	target, err := c.resolve(c.deleteAction)
	if err != nil {
		return Navigation{}, err
	}
	c.logf("delete: POST %s", target)
	if _, err := httpx.PostForm(ctx, c.client, target, ""); err != nil {
		return Navigation{}, fmt.Errorf("delete: %w", err)
	}
	return Navigation{Path: c.page.Path}, nil
}

// PreviewTx is one preview transaction. The payload is fixed when the
// transaction is prepared.
type PreviewTx struct {
	Seq     uint64
	Payload string
	ctx     context.Context
	cancel  context.CancelFunc
	c       *Controller
}

// PreparePreview runs the synchronous half of a preview: mark the form as a
// preview, materialize the editor, serialize, and reset the marker. Any
// preview still in flight is cancelled.
func (c *Controller) PreparePreview(ctx context.Context) *PreviewTx {
	c.form.Set(PreviewField, "1")
	c.surface.Materialize()
	payload := c.form.Serialize()
	c.form.Set(PreviewField, "0")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancelPreview != nil {
		c.cancelPreview()
	}
	c.seq++
	tctx, cancel := context.WithCancel(ctx)
	c.cancelPreview = cancel
	return &PreviewTx{Seq: c.seq, Payload: payload, ctx: tctx, cancel: cancel, c: c}
}

// Send posts the payload and returns the markup inside the response's .wrap
// element, sanitized for display.
func (tx *PreviewTx) Send() (string, error) {
	defer tx.cancel()
	target, err := tx.c.resolve(previewTarget)
	if err != nil {
		return "", err
	}
	tx.c.logf("preview #%d: POST %s (%d bytes)", tx.Seq, target, len(tx.Payload))
	resp, err := httpx.PostForm(tx.ctx, tx.c.client, target, tx.Payload)
	if err != nil {
		return "", fmt.Errorf("preview: %w", err)
	}
	inner, ok := page.InnerHTML(string(resp.Body), wrapClass)
	if !ok {
		return "", ErrNoWrap
	}
	return page.Sanitize(inner), nil
}

// Latest reports whether tx is the most recently prepared preview.
func (c *Controller) Latest(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

func (c *Controller) Preview(ctx context.Context) (string, error) {
	return c.PreparePreview(ctx).Send()
}

// SaveResult carries what the server said about a save.
type SaveResult struct {
	Message    string
	Navigation Navigation
}

// SaveTx is one save submission. Like PreviewTx, the payload is fixed when
// the transaction is prepared and Send touches neither the form nor the
// editor.
type SaveTx struct {
	Payload string
	c       *Controller
}

// PrepareSave runs the synchronous half of a save: materialize the editor,
// clear the preview marker, set the comment, and serialize.
func (c *Controller) PrepareSave(comment string) *SaveTx {
	c.surface.Materialize()
	c.form.Set(PreviewField, "0")
	if c.form.Has(CommentField) {
		c.form.Set(CommentField, comment)
	}
	return &SaveTx{Payload: c.form.Serialize(), c: c}
}

// Send submits the payload. The server answers with a redirect back to the
// page carrying an X-Message header.
func (tx *SaveTx) Send(ctx context.Context) (SaveResult, error) {
	c := tx.c
	target, err := c.resolve(previewTarget)
	if err != nil {
		return SaveResult{}, err
	}
	c.logf("save: POST %s", target)
	// The message rides on the redirect itself, so stop there.
	noFollow := *c.client
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }
	resp, err := httpx.PostForm(ctx, &noFollow, target, tx.Payload)
	if err != nil {
		return SaveResult{}, fmt.Errorf("save: %w", err)
	}
	return SaveResult{
		Message:    resp.Header.Get("X-Message"),
		Navigation: Navigation{Path: c.page.Path},
	}, nil
}

// Save submits the form for real.
func (c *Controller) Save(ctx context.Context, comment string) (SaveResult, error) {
	return c.PrepareSave(comment).Send(ctx)
}
