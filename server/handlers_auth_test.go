package server_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/BrikenaAhmeti/WP25G10-frontend/server"
	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
	"github.com/stretchr/testify/require"
)

func loginBackend(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/AuthApi/login":
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"User locked out"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok-1","expiresAt":"2099-01-01T00:00:00Z","userName":"ops","email":"ops@example.com"}`)
	case "/api/AuthApi/register":
		w.Header().Set("Content-Type", "application/problem+json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"errors":{"Email":["Email taken"]}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName && c.Value != "" {
			return c
		}
	}
	return nil
}

func TestLoginHandler(t *testing.T) {
	t.Run("invalid credentials hide backend detail", func(t *testing.T) {
		env := newTestEnv(t, loginBackend)
		rec := env.do(t, postJSON("/api/auth/login", `{"userNameOrEmail":"ops","password":"wrong"}`))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.JSONEq(t, `{"message":"Invalid credentials."}`, rec.Body.String())
		require.Nil(t, sessionCookie(rec))
	})

	t.Run("success sets the session cookie", func(t *testing.T) {
		env := newTestEnv(t, loginBackend)
		rec := env.do(t, postJSON("/api/auth/login", `{"email":"ops@example.com","password":"secret"}`))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"email":"ops@example.com"`)

		cookie := sessionCookie(rec)
		require.NotNil(t, cookie)
		require.True(t, cookie.HttpOnly)
		require.NotContains(t, cookie.Value, "tok-1")

		req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
		req.AddCookie(cookie)
		rec = env.do(t, req)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), `"name":"ops"`)
		require.NotContains(t, rec.Body.String(), "tok-1")
	})

	t.Run("missing base url", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, postJSON("/api/auth/login", `{"userNameOrEmail":"ops","password":"secret"}`))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Contains(t, rec.Body.String(), "API_BASE_URL")
	})

	t.Run("attempts are limited", func(t *testing.T) {
		t.Setenv("LOGIN_MAX_ATTEMPTS", "2")
		env := newTestEnv(t, loginBackend)
		for i := 0; i < 2; i++ {
			rec := env.do(t, postJSON("/api/auth/login", `{"userNameOrEmail":"ops","password":"wrong"}`))
			require.Equal(t, http.StatusUnauthorized, rec.Code)
		}
		rec := env.do(t, postJSON("/api/auth/login", `{"userNameOrEmail":"OPS","password":"secret"}`))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.Equal(t, server.MessageTooManyAttempts, decodeMessage(t, rec))
	})

	t.Run("forwarded header from untrusted peer is ignored", func(t *testing.T) {
		t.Setenv("LOGIN_MAX_ATTEMPTS", "2")
		t.Setenv("TRUSTED_PROXIES", "")
		env := newTestEnv(t, loginBackend)
		limited := 0
		for i := 0; i < 6; i++ {
			req := postJSON("/api/auth/login", `{"userNameOrEmail":"ops","password":"wrong"}`)
			req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i+1))
			rec := env.do(t, req)
			if rec.Code == http.StatusTooManyRequests {
				limited++
			}
		}
		require.Equal(t, 4, limited)
	})

	t.Run("forwarded header from trusted proxy", func(t *testing.T) {
		t.Setenv("LOGIN_MAX_ATTEMPTS", "2")
		t.Setenv("TRUSTED_PROXIES", "192.0.2.0/24")
		env := newTestEnv(t, loginBackend)
		attempt := func(client string) int {
			req := postJSON("/api/auth/login", `{"userNameOrEmail":"ops","password":"wrong"}`)
			req.RemoteAddr = "192.0.2.10:4000"
			req.Header.Set("X-Forwarded-For", client+", 192.0.2.11")
			return env.do(t, req).Code
		}
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.5"))
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.5"))
		require.Equal(t, http.StatusTooManyRequests, attempt("203.0.113.5"))
		require.Equal(t, http.StatusUnauthorized, attempt("203.0.113.6"))
	})

	t.Run("malformed body", func(t *testing.T) {
		env := newTestEnv(t, loginBackend)
		rec := env.do(t, postJSON("/api/auth/login", `{`))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestSessionAndLogout(t *testing.T) {
	env := newTestEnv(t, loginBackend)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/auth/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{}`, rec.Body.String())

	rec = env.do(t, env.signIn(t, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)))
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"ok":true}`, rec.Body.String())

	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		require.Less(t, c.MaxAge, 0, c.Name)
		cleared[c.Name] = true
	}
	for _, name := range session.CookieNames {
		require.True(t, cleared[name], name)
	}
}

func TestRegisterHandler_MirrorsBackend(t *testing.T) {
	env := newTestEnv(t, loginBackend)
	rec := env.do(t, postJSON("/api/auth/register", `{"userName":"ops","email":"ops@example.com","password":"secret1"}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	require.JSONEq(t, `{"errors":{"Email":["Email taken"]}}`, rec.Body.String())

	calls := env.backend.Calls()
	require.Len(t, calls, 1)
	require.JSONEq(t, `{"userName":"ops","email":"ops@example.com","password":"secret1"}`, calls[0].Body)
}

func TestMiddleware(t *testing.T) {
	env := newTestEnv(t, loginBackend)

	t.Run("api panic becomes json 500", func(t *testing.T) {
		h := server.ChainMiddleware(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}, env.server.APIMiddleware()...)

		rec := httptest.NewRecorder()
		h(rec, httptest.NewRequest(http.MethodGet, "/api/flights", nil))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"message":"Internal server error"}`, rec.Body.String())
		require.NotContains(t, rec.Body.String(), "boom")
	})

	t.Run("request id is echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set("X-Request-ID", "req-123")
		rec := env.do(t, req)
		require.Equal(t, "req-123", rec.Header().Get("X-Request-ID"))
	})

	t.Run("preflight", func(t *testing.T) {
		t.Setenv("ALLOWED_ORIGINS", "https://ops.example.com")
		req := httptest.NewRequest(http.MethodOptions, "/api/favorites", nil)
		req.Header.Set("Origin", "https://ops.example.com")
		rec := env.do(t, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "https://ops.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})
}
