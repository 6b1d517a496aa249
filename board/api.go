// Package board is the client side of the gateway: a typed API client, cached
// queries that refresh on an interval, and optimistic favorite mutations.
package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
)

// ErrLoginRequired is returned for any 401 from the gateway.
var ErrLoginRequired = errors.New("login required")

// StatusError is a non-2xx gateway response other than 401.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("gateway returned %d", e.StatusCode)
	}
	return fmt.Sprintf("gateway returned %d: %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// SessionInfo is the gateway's view of the signed-in user.
type SessionInfo struct {
	User *struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user,omitempty"`
	Expires string `json:"expires,omitempty"`
}

func (s *SessionInfo) SignedIn() bool {
	return s != nil && s.User != nil
}

// API talks to the gateway on behalf of one user and carries their session cookie.
type API struct {
	baseURL    string
	httpClient *http.Client

	mu     sync.RWMutex
	cookie *http.Cookie
}

type APIOption func(*API)

func WithAPIHTTPClient(httpClient *http.Client) APIOption {
	return func(a *API) {
		if httpClient != nil {
			a.httpClient = httpClient
		}
	}
}

// WithSessionCookie seeds the client with a previously stored session cookie.
func WithSessionCookie(cookie *http.Cookie) APIOption {
	return func(a *API) {
		if cookie != nil && cookie.Value != "" {
			a.cookie = cookie
		}
	}
}

func NewAPI(baseURL string, opts ...APIOption) (*API, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, apperrors.Wrapf(apperrors.ErrMissingConfig, "gateway url")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrInvalidRequest, "gateway url %q", baseURL)
	}

	a := &API{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// SessionCookie is the current session cookie, nil when signed out.
func (a *API) SessionCookie() *http.Cookie {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.cookie == nil {
		return nil
	}
	c := *a.cookie
	return &c
}

func (a *API) setCookie(c *http.Cookie) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cookie = c
}

// captureCookies keeps the session cookie in step with Set-Cookie headers.
func (a *API) captureCookies(resp *http.Response) {
	for _, c := range resp.Cookies() {
		if !isSessionCookie(c.Name) {
			continue
		}
		if c.Value == "" || c.MaxAge < 0 {
			a.setCookie(nil)
			continue
		}
		a.setCookie(&http.Cookie{Name: c.Name, Value: c.Value, Expires: c.Expires})
	}
}

func isSessionCookie(name string) bool {
	for _, n := range session.CookieNames {
		if n == name {
			return true
		}
	}
	return false
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
}

// do sends c and returns the raw body of a 2xx response.
func (a *API) do(ctx context.Context, c call) ([]byte, error) {
	target := a.baseURL + c.path
	if len(c.query) > 0 {
		target += "?" + c.query.Encode()
	}

	var body io.Reader
	if c.body != nil {
		payload, err := json.Marshal(c.body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s: %w", c.method, c.path, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, c.method, target, body)
	if err != nil {
		return nil, apperrors.Wrapf(err, "build %s %s", c.method, c.path)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie := a.SessionCookie(); cookie != nil {
		req.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w: %w", c.method, c.path, apperrors.ErrNetwork, err)
	}
	defer resp.Body.Close()
	a.captureCookies(resp)

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s read body: %w: %w", c.method, c.path, apperrors.ErrNetwork, err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrLoginRequired
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// errorMessage reads {"message": ...} bodies and falls back to the raw text.
func errorMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return payload.Message
	}
	return strings.TrimSpace(string(body))
}

func (a *API) Flights(ctx context.Context, board flights.Board, query url.Values) ([]flights.FlightRecord, error) {
	q := url.Values{}
	for k, v := range query {
		q[k] = append([]string(nil), v...)
	}
	q.Set("board", string(board))

	data, err := a.do(ctx, call{method: http.MethodGet, path: "/api/flights", query: q})
	if err != nil {
		return nil, err
	}
	records, _ := flights.NormalizeList(data)
	return records, nil
}

func (a *API) Stats(ctx context.Context, date string) (flights.Stats, error) {
	q := url.Values{}
	if date = strings.TrimSpace(date); date != "" {
		q.Set("date", date)
	}
	data, err := a.do(ctx, call{method: http.MethodGet, path: "/api/flights/stats", query: q})
	if err != nil {
		return flights.Stats{}, err
	}
	return flights.DecodeStats(data)
}

func (a *API) Favorites(ctx context.Context) ([]flights.FlightRecord, error) {
	data, err := a.do(ctx, call{method: http.MethodGet, path: "/api/favorites"})
	if err != nil {
		return nil, err
	}
	records, _ := flights.NormalizeList(data)
	return records, nil
}

func (a *API) AddFavorite(ctx context.Context, flightID string) error {
	_, err := a.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/favorites",
		body:   map[string]string{"flightId": flightID},
	})
	return err
}

func (a *API) RemoveFavorite(ctx context.Context, flightID string) error {
	_, err := a.do(ctx, call{method: http.MethodDelete, path: "/api/favorites/" + url.PathEscape(flightID)})
	return err
}

// Login signs in and keeps the returned session cookie. A rejected login is
// ErrInvalidCredentials rather than ErrLoginRequired.
func (a *API) Login(ctx context.Context, identifier, password string) (*SessionInfo, error) {
	data, err := a.do(ctx, call{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   map[string]string{"userNameOrEmail": identifier, "password": password},
	})
	if errors.Is(err, ErrLoginRequired) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	var info SessionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &info, nil
}

func (a *API) Logout(ctx context.Context) error {
	_, err := a.do(ctx, call{method: http.MethodPost, path: "/api/auth/logout"})
	a.setCookie(nil)
	return err
}

// Register creates an account. Backend validation failures come back as a
// StatusError carrying the first readable message.
func (a *API) Register(ctx context.Context, req backend.RegisterRequest) error {
	if err := backend.ValidateRegistration(req); err != nil {
		return err
	}
	_, err := a.do(ctx, call{method: http.MethodPost, path: "/api/auth/register", body: req})
	var se *StatusError
	if errors.As(err, &se) {
		se.Message = backend.RegistrationErrorMessage([]byte(se.Message), utils.FirstNonBlank(se.Message, backend.RegistrationFallbackMessage))
	}
	return err
}

// Session reports the current session; SignedIn is false when there is none.
func (a *API) Session(ctx context.Context) (*SessionInfo, error) {
	data, err := a.do(ctx, call{method: http.MethodGet, path: "/api/auth/session"})
	if err != nil {
		return nil, err
	}
	var info SessionInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &info, nil
}
