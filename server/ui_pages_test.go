package server_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func boardBackend(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/api/FlightsApi/stats":
		_, _ = io.WriteString(w, `{"arrivalsToday":4,"departuresToday":6,"delayedToday":1,"next60Count":2,"activeGates":5}`)
	case r.URL.Path == "/api/FlightsApi":
		_, _ = io.WriteString(w, `[
			{"id":1,"flightNumber":"AP101","airlineName":"Aero","originAirport":"PRN","destinationAirport":"VIE","arrivalTime":"2025-06-01T10:00:00","status":"Scheduled"},
			{"id":2,"flightNumber":"AP202","airlineName":"Aero","originAirport":"PRN","destinationAirport":"IST","arrivalTime":"2025-06-01T11:00:00","status":"Delayed"}
		]`)
	case strings.HasSuffix(r.URL.Path, "/favorite"):
		if r.Header.Get("Authorization") == "" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func form(method, path string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func TestIndexHandler(t *testing.T) {
	t.Run("renders board and stats", func(t *testing.T) {
		env := newTestEnv(t, boardBackend)
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/?board=arrivals", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		require.Contains(t, body, "AP101")
		require.Contains(t, body, "AP202")
		require.Contains(t, body, "<strong>10</strong> flights today")
	})

	t.Run("filters locally", func(t *testing.T) {
		env := newTestEnv(t, boardBackend)
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/?board=arrivals&delayed=true", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.NotContains(t, rec.Body.String(), "AP101")
		require.Contains(t, rec.Body.String(), "AP202")
		require.Contains(t, rec.Body.String(), "Clear all filters")
	})

	t.Run("backend failure shows banner", func(t *testing.T) {
		env := newTestEnv(t, nil)
		rec := env.do(t, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "Failed to load flights.")
	})
}

func TestBoardFavoriteHandler(t *testing.T) {
	env := newTestEnv(t, boardBackend)
	values := url.Values{"flightId": {"2"}, "flightNumber": {"AP202"}, "board": {"arrivals"}}

	t.Run("signed out goes to sign in", func(t *testing.T) {
		rec := env.do(t, form(http.MethodPost, "/board/favorite", values))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/auth/signin", location.Path)
		require.Equal(t, "/#flights", location.Query().Get("callbackUrl"))
		require.Equal(t, "Sign in to save favorites.", location.Query().Get("notice"))
	})

	t.Run("signed in saves and returns to the board", func(t *testing.T) {
		rec := env.do(t, env.signIn(t, form(http.MethodPost, "/board/favorite", values)))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/", location.Path)
		require.Equal(t, "flights", location.Fragment)
		require.Equal(t, "Saved to favorites AP202", location.Query().Get("notice"))
	})
}

func TestSignInSubmitHandler(t *testing.T) {
	env := newTestEnv(t, loginBackend)

	t.Run("bad password returns to the form", func(t *testing.T) {
		rec := env.do(t, form(http.MethodPost, "/auth/signin", url.Values{
			"email": {"ops@example.com"}, "password": {"nope"}, "callbackUrl": {"/favorites"},
		}))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/auth/signin", location.Path)
		require.Equal(t, "Invalid credentials.", location.Query().Get("error"))
		require.Equal(t, "/favorites", location.Query().Get("callbackUrl"))
	})

	t.Run("success follows a safe callback only", func(t *testing.T) {
		rec := env.do(t, form(http.MethodPost, "/auth/signin", url.Values{
			"email": {"ops@example.com"}, "password": {"secret"}, "callbackUrl": {"https://evil.example.com"},
		}))
		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/", rec.Header().Get("Location"))
		require.NotNil(t, sessionCookie(rec))
	})

	t.Run("htmx gets HX-Redirect", func(t *testing.T) {
		req := form(http.MethodPost, "/auth/signin", url.Values{
			"email": {"ops@example.com"}, "password": {"secret"}, "callbackUrl": {"/favorites"},
		})
		req.Header.Set("HX-Request", "true")
		rec := env.do(t, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "/favorites", rec.Header().Get("HX-Redirect"))
	})
}

func TestRegisterSubmitHandler(t *testing.T) {
	env := newTestEnv(t, loginBackend)

	t.Run("short password is rejected locally", func(t *testing.T) {
		rec := env.do(t, form(http.MethodPost, "/auth/register", url.Values{
			"userName": {"ops"}, "email": {"ops@example.com"}, "password": {"abc"},
		}))
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "/auth/register", location.Path)
		require.Equal(t, "Password must be at least 6 characters.", location.Query().Get("error"))
		require.Empty(t, env.backend.Calls())
	})

	t.Run("backend field errors are surfaced", func(t *testing.T) {
		rec := env.do(t, form(http.MethodPost, "/auth/register", url.Values{
			"userName": {"ops"}, "email": {"ops@example.com"}, "password": {"secret1"},
		}))
		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "Email taken", location.Query().Get("error"))
		require.Equal(t, "ops", location.Query().Get("userName"))
	})
}

func TestStaticAssets(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/static/board.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/css")
	require.Contains(t, rec.Body.String(), ".status-delayed")
}
