package backend

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

	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
)

const (
	contentTypeJSON = "application/json"
	maxBodyBytes    = 8 << 20
	defaultTimeout  = 15 * time.Second
)

// Client talks to the airport-operations backend. Every request bypasses
// HTTP caches and is bound to the caller's context plus the client timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// NewHTTPClient returns an http.Client whose transport records a client span per backend call.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

// New returns ErrMissingConfig when baseURL is blank.
func New(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingConfig, "backend base url")
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Response is a fully read backend response.
type Response struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

func (r *Response) Text() string {
	return strings.TrimSpace(string(r.Body))
}

// UpstreamError is a non-success backend status. Message holds the backend
// response text and may be empty.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend responded %d", e.StatusCode)
	}
	return fmt.Sprintf("backend responded %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Unwrap() error {
	return apperrors.ErrUpstream
}

// Is lets a backend 401 match ErrUnauthorized.
func (e *UpstreamError) Is(target error) bool {
	return target == apperrors.ErrUnauthorized && e.StatusCode == http.StatusUnauthorized
}

func upstreamError(resp *Response) *UpstreamError {
	return &UpstreamError{StatusCode: resp.StatusCode, Message: resp.Text()}
}

type request struct {
	method string
	path   string
	query  url.Values
	body   io.Reader
	token  string
}

func jsonBody(v any) (io.Reader, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, apperrors.Wrapf(err, "encode request body")
	}
	return bytes.NewReader(b), nil
}

func (c *Client) do(ctx context.Context, r request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return nil, apperrors.Wrapf(err, "build %s %s", r.method, r.path)
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")
	if r.body != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}

	resp, err := c.clientFor(ctx, r.token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", r.method, r.path, apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s %s read body: %w: %w", r.method, r.path, apperrors.ErrNetwork, err)
	}

	return &Response{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
	}, nil
}

// clientFor attaches the bearer token through an oauth2 transport wrapping the base client.
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}))
}
