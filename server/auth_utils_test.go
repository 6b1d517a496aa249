package server

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/config"
	"github.com/stretchr/testify/require"
)

func TestRedirectWithParams(t *testing.T) {
	params := url.Values{"notice": {"saved"}}
	for path, want := range map[string]string{
		"/favorites":       "/favorites?notice=saved",
		"/?page=2":         "/?page=2&notice=saved",
		"/#flights":        "/?notice=saved#flights",
		"/#a?b":            "/?notice=saved#a?b",
		"/?page=2#flights": "/?page=2&notice=saved#flights",
	} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			redirectWithParams(rec, httptest.NewRequest(http.MethodPost, "/", nil), path, params)
			require.Equal(t, http.StatusSeeOther, rec.Code)
			require.Equal(t, want, rec.Header().Get("Location"))
		})
	}

	t.Run("htmx", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		redirectWithParams(rec, req, "/#x?y", params)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/?notice=saved#x?y", rec.Header().Get("HX-Redirect"))
	})
}

func TestClientIP(t *testing.T) {
	trusted := config.ParseTrustedProxies("10.0.0.0/8")
	request := func(remote, forwarded string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		if forwarded != "" {
			req.Header.Set("X-Forwarded-For", forwarded)
		}
		return req
	}

	t.Run("untrusted peer ignores header", func(t *testing.T) {
		require.Equal(t, "203.0.113.9", clientIP(request("203.0.113.9:5000", "1.2.3.4"), trusted))
		require.Equal(t, "203.0.113.9", clientIP(request("203.0.113.9:5000", "1.2.3.4"), nil))
	})

	t.Run("trusted peer uses rightmost untrusted hop", func(t *testing.T) {
		require.Equal(t, "198.51.100.4", clientIP(request("10.0.0.1:5000", "1.2.3.4, 198.51.100.4, 10.0.0.2"), trusted))
	})

	t.Run("trusted peer without header", func(t *testing.T) {
		require.Equal(t, "10.0.0.1", clientIP(request("10.0.0.1:5000", ""), trusted))
	})

	t.Run("all hops trusted", func(t *testing.T) {
		require.Equal(t, "10.0.0.3", clientIP(request("10.0.0.1:5000", "10.0.0.3, 10.0.0.2"), trusted))
	})
}
