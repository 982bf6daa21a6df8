// Package apiclient is the single request path to the platform REST API.
//
// Two behaviours apply to every call and nothing else is global: the
// current bearer token is attached just before dispatch, and a 401/403
// response is reported to the ExpiryReporter before the error is returned
// to the caller. Requests are never retried or replayed.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/carbonadmin/internal/query"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// DefaultTimeout bounds every request unless Config overrides it.
const DefaultTimeout = 10 * time.Second

// TokenSource yields the bearer token to attach, or "" to send the request
// unauthenticated. It is consulted on every request.
type TokenSource interface {
	Token() string
}

// ExpiryReporter is told, synchronously, when the server rejects the
// credentials of a request. token is the value that request carried.
type ExpiryReporter interface {
	SessionExpired(ctx context.Context, token string)
}

// Config holds the connection settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client issues JSON and multipart requests against the API.
type Client struct {
	baseURL  string
	timeout  time.Duration
	http     *http.Client
	tokens   TokenSource
	expiry   ExpiryReporter
	observer Observer
	newID    func() string
}

// Option configures a Client.
type Option func(*Client)

// WithExpiryReporter sets the receiver of 401/403 signals.
func WithExpiryReporter(r ExpiryReporter) Option {
	return func(c *Client) { c.expiry = r }
}

// WithObserver sets the call observer.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. Its Timeout should be
// zero; the per-request timeout is applied through the context.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// New creates a Client. tokens may be nil for an unauthenticated client.
func New(cfg Config, tokens TokenSource, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		tokens:   tokens,
		observer: NoopObserver{},
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type anonymousKey struct{}

// Anonymous marks ctx so requests made with it carry no bearer token and
// a 401/403 answer is not reported as an expired session. The login call
// uses it: rejected credentials say nothing about the current session.
func Anonymous(ctx context.Context) context.Context {
	return context.WithValue(ctx, anonymousKey{}, true)
}

func isAnonymous(ctx context.Context) bool {
	v, _ := ctx.Value(anonymousKey{}).(bool)
	return v
}

// Timeout returns the per-request timeout in effect.
func (c *Client) Timeout() time.Duration { return c.timeout }

type payload struct {
	body        []byte
	contentType string
}

// Get issues a GET with params encoded as the query string.
func (c *Client) Get(ctx context.Context, path string, params query.Params) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// Post sends body as JSON. A nil body sends no payload.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.doJSON(ctx, http.MethodPost, path, body)
}

// Put sends body as JSON.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.doJSON(ctx, http.MethodPut, path, body)
}

// Patch sends body as JSON.
func (c *Client) Patch(ctx context.Context, path string, body any) ([]byte, error) {
	return c.doJSON(ctx, http.MethodPatch, path, body)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// Upload posts r as a multipart/form-data file part named field.
func (c *Client) Upload(ctx context.Context, path, field, filename string, r io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filename)
	if err != nil {
		return nil, fmt.Errorf("creating form file: %w", err)
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("reading upload %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("finishing multipart body: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, nil, &payload{body: buf.Bytes(), contentType: mw.FormDataContentType()})
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any) ([]byte, error) {
	if body == nil {
		return c.do(ctx, method, path, nil, nil)
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encoding request body: %w", err)
	}
	return c.do(ctx, method, path, nil, &payload{body: data, contentType: "application/json"})
}

func (c *Client) do(ctx context.Context, method, path string, params query.Params, p *payload) ([]byte, error) {
	start := time.Now()
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(params) > 0 {
		url += "?" + params.Encode()
	}

	var body io.Reader
	if p != nil {
		body = bytes.NewReader(p.body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &Error{Kind: KindTransport, Method: method, Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}

	reqID := c.newID()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if p != nil {
		req.Header.Set("Content-Type", p.contentType)
	}
	anonymous := isAnonymous(ctx)
	var token string
	if !anonymous {
		token = c.currentToken()
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	ev := CallEvent{Method: method, Path: path, RequestID: reqID}
	finish := func(status int, err error) {
		ev.Status = status
		ev.Latency = time.Since(start)
		if err != nil {
			ev.Kind = KindOf(err)
			ev.Err = err
		}
		c.observer.OnCallComplete(ev)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		e := c.transportError(ctx, method, path, err)
		finish(0, e)
		return nil, e
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		e := c.transportError(ctx, method, path, fmt.Errorf("reading response: %w", err))
		finish(resp.StatusCode, e)
		return nil, e
	}

	if isAuthFailure(resp.StatusCode) && c.expiry != nil && !anonymous {
		c.expiry.SessionExpired(ctx, token)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		e := &Error{
			Kind:    KindHTTP,
			Method:  method,
			Path:    path,
			Status:  resp.StatusCode,
			Message: serverMessage(data),
		}
		finish(resp.StatusCode, e)
		return nil, e
	}

	finish(resp.StatusCode, nil)
	return data, nil
}

func (c *Client) currentToken() string {
	if c.tokens == nil {
		return ""
	}
	return c.tokens.Token()
}

func (c *Client) transportError(ctx context.Context, method, path string, err error) *Error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s: %w", ErrTimeout, c.timeout, err)
	}
	return &Error{Kind: KindTransport, Method: method, Path: path, Err: err}
}
