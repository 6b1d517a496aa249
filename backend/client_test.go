package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, handler http.HandlerFunc) *backend.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := backend.New(srv.URL+"/", backend.WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNew_MissingBaseURL(t *testing.T) {
	_, err := backend.New("  ")
	require.Error(t, err)
	require.True(t, apperrors.Is(err, apperrors.ErrMissingConfig))
}

func TestClient_Login(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "/api/AuthApi/login", r.URL.Path)
			require.Equal(t, "no-cache, no-store", r.Header.Get("Cache-Control"))
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			require.Equal(t, "ops@example.com", body["userNameOrEmail"])
			require.Equal(t, "hunter22", body["password"])
			_, _ = io.WriteString(w, `{"token":"tok-1","expiresAt":"2030-01-01T00:00:00Z","userName":"ops","email":"ops@example.com"}`)
		})
		res, err := c.Login(context.Background(), "  ops@example.com ", "hunter22")
		require.NoError(t, err)
		require.Equal(t, "tok-1", res.Token)
		require.Equal(t, "ops", res.UserName)
		require.Equal(t, 2030, res.Expiry().Year())
	})

	t.Run("backend rejection never leaks detail", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = io.WriteString(w, `{"message":"user ops does not exist"}`)
		})
		_, err := c.Login(context.Background(), "ops", "x")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
		require.NotContains(t, err.Error(), "does not exist")
	})

	t.Run("empty token is a failure", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"token":""}`)
		})
		_, err := c.Login(context.Background(), "ops", "x")
		require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unreachable backend is a network failure", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		c, err := backend.New(srv.URL)
		require.NoError(t, err)
		_, err = c.Login(context.Background(), "ops", "x")
		require.ErrorIs(t, err, apperrors.ErrNetwork)
	})
}

func TestClient_ListFlights(t *testing.T) {
	t.Run("forwards known params and normalises", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/api/FlightsApi", r.URL.Path)
			require.Equal(t, "departures", r.URL.Query().Get("board"))
			require.Equal(t, "true", r.URL.Query().Get("delayedOnly"))
			require.Empty(t, r.URL.Query().Get("injected"))
			require.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `[{"Id":5,"FlightNumber":"AP5","DepartureTime":"2025-06-01T10:00:00"}]`)
		})
		query := url.Values{"board": {"departures"}, "delayedOnly": {"true"}, "injected": {"1"}}
		records, err := c.ListFlights(context.Background(), query, "tok-1")
		require.NoError(t, err)
		require.Len(t, records, 1)
		require.Equal(t, "5", records[0].ID)
		require.Equal(t, "2025-06-01T10:00:00", *records[0].DepartureDateTime)
	})

	t.Run("anonymous request carries no auth header", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Empty(t, r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `[]`)
		})
		records, err := c.ListFlights(context.Background(), nil, "")
		require.NoError(t, err)
		require.Empty(t, records)
	})

	t.Run("non-success keeps status and text", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = io.WriteString(w, "maintenance")
		})
		_, err := c.ListFlights(context.Background(), nil, "")
		var upstream *backend.UpstreamError
		require.True(t, apperrors.As(err, &upstream))
		require.Equal(t, http.StatusServiceUnavailable, upstream.StatusCode)
		require.Equal(t, "maintenance", upstream.Message)
		require.ErrorIs(t, err, apperrors.ErrUpstream)
	})
}

func TestClient_FlightStats(t *testing.T) {
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/FlightsApi/stats", r.URL.Path)
		require.Equal(t, "2025-06-01", r.URL.Query().Get("date"))
		_, _ = io.WriteString(w, `{"date":"2025-06-01","arrivalsToday":3,"departuresToday":4,"delayedToday":1,"next60Count":2,"activeGates":5}`)
	})
	stats, err := c.FlightStats(context.Background(), "2025-06-01", "")
	require.NoError(t, err)
	require.Equal(t, 7, stats.FlightsToday())
	require.Equal(t, 5, stats.ActiveGates)
}

func TestClient_Favorites(t *testing.T) {
	t.Run("requires a token", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("backend must not be called")
		})
		_, err := c.ListFavorites(context.Background(), "")
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		require.ErrorIs(t, c.AddFavorite(context.Background(), " ", "1"), apperrors.ErrUnauthorized)
	})

	t.Run("add and remove hit the per-flight path", func(t *testing.T) {
		var (
			mu    sync.Mutex
			calls []string
		)
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			calls = append(calls, r.Method+" "+r.URL.EscapedPath())
			mu.Unlock()
			require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		})
		require.NoError(t, c.AddFavorite(context.Background(), "tok", "42"))
		require.NoError(t, c.RemoveFavorite(context.Background(), "tok", "a/b"))
		mu.Lock()
		defer mu.Unlock()
		require.Equal(t, []string{"POST /api/flightsApi/42/favorite", "DELETE /api/flightsApi/a%2Fb/favorite"}, calls)
	})

	t.Run("backend 401 matches unauthorized", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		})
		_, err := c.ListFavorites(context.Background(), "expired")
		require.ErrorIs(t, err, apperrors.ErrUnauthorized)
		require.ErrorIs(t, err, apperrors.ErrUpstream)
	})
}
