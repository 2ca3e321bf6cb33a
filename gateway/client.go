// Package gateway dispatches every call to the event-management REST API.
// It owns the base address, default headers and request timeout, attaches
// the bearer token of the calling session, and normalizes failures into
// the apperr taxonomy. A 401 clears the calling session before the error
// is returned to the caller.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go-event-admin/apperr"
	"go-event-admin/logger"
)

// Session is what the gateway needs from the caller's session.
type Session interface {
	Token() string
	HandleUnauthorized()
}

// Config holds the dispatch settings shared by every call.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Headers map[string]string
}

// Client is safe for concurrent use; bind it to a session with With.
type Client struct {
	base       *url.URL
	httpClient *http.Client
	headers    http.Header
	metrics    Recorder
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tracing, tests).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithMetrics publishes per-call measurements to r.
func WithMetrics(r Recorder) Option {
	return func(c *Client) { c.metrics = r }
}

// New validates cfg and builds a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("api base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	for k, v := range cfg.Headers {
		headers.Set(k, v)
	}

	c := &Client{
		base:       base,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		headers:    headers,
		metrics:    NopRecorder{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// With binds the client to one session.
func (c *Client) With(s Session) *Conn {
	return &Conn{client: c, session: s}
}

// Conn issues calls on behalf of one session.
type Conn struct {
	client  *Client
	session Session
}

func (cn *Conn) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return cn.do(ctx, http.MethodGet, path, query, "", nil, out)
}

func (cn *Conn) Post(ctx context.Context, path string, body, out interface{}) error {
	r, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return cn.do(ctx, http.MethodPost, path, nil, "", r, out)
}

func (cn *Conn) Put(ctx context.Context, path string, body, out interface{}) error {
	r, err := encodeJSON(body)
	if err != nil {
		return err
	}
	return cn.do(ctx, http.MethodPut, path, nil, "", r, out)
}

func (cn *Conn) Delete(ctx context.Context, path string, out interface{}) error {
	return cn.do(ctx, http.MethodDelete, path, nil, "", nil, out)
}

// PostForm sends a form-encoded body. Only the login endpoint uses it.
func (cn *Conn) PostForm(ctx context.Context, path string, form url.Values, out interface{}) error {
	return cn.do(ctx, http.MethodPost, path, nil, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), out)
}

func encodeJSON(body interface{}) (io.Reader, error) {
	if body == nil {
		return nil, nil
	}
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request body: %w", err)
	}
	return bytes.NewReader(b), nil
}

func (cn *Conn) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out interface{}) error {
	c := cn.client
	target := c.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(path, "/")})
	if len(query) > 0 {
		target.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	for k, v := range c.headers {
		req.Header[k] = append([]string(nil), v...)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if cn.session != nil {
		if token := cn.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	logger.Debug.Printf("[gateway] %s %s", method, target.String())
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Warn.Printf("[gateway] %s %s: no response: %v", method, path, err)
		c.metrics.ObserveTransportFailure(path)
		return &apperr.TransportError{Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	c.metrics.ObserveRequest(method, path, resp.StatusCode, elapsed)
	if err != nil {
		logger.Warn.Printf("[gateway] %s %s: reading body: %v", method, path, err)
		c.metrics.ObserveTransportFailure(path)
		return &apperr.TransportError{Err: err}
	}
	logger.Debug.Printf("[gateway] %s %s -> %d in %v", method, path, resp.StatusCode, elapsed)

	if resp.StatusCode == http.StatusUnauthorized {
		detail, _ := decodeDetail(raw)
		logger.Warn.Printf("[gateway] %s %s: unauthorized, forcing logout", method, path)
		c.metrics.ObserveUnauthorized(path)
		// logout happens before the caller sees the error
		if cn.session != nil {
			cn.session.HandleUnauthorized()
		}
		return &apperr.AuthError{Detail: detail}
	}

	if resp.StatusCode >= http.StatusBadRequest {
		detail, fields := decodeDetail(raw)
		logger.Warn.Printf("[gateway] %s %s: status %d: %s", method, path, resp.StatusCode, detail)
		return &apperr.ServerError{Status: resp.StatusCode, Detail: detail, Fields: fields}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}
