package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
)

const (
	messageFavoritesFailed = "Failed to load favorites"
	messageSaveFailed      = "Failed to save favorite"
	messageRemoveFailed    = "Failed to remove favorite"
	messageMissingFlightID = "Missing flightId"
	messageMissingID       = "Missing id"
)

// FavoritesListHandler returns the user's favorites, normalised (GET /api/favorites)
func (s *Server) FavoritesListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if sess == nil {
			writeMessage(w, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		client, err := s.backendClient()
		if err != nil {
			writeBackendError(w, r, err, messageFavoritesFailed)
			return
		}
		records, err := client.ListFavorites(r.Context(), sess.BearerToken)
		if err != nil {
			writeBackendError(w, r, err, messageFavoritesFailed)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// flightIDFromBody reads {flightId} where the id may be a string or a number.
func flightIDFromBody(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxRequestBody))
	if err != nil {
		return ""
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return ""
	}
	id, _ := utils.ScalarString(payload["flightId"])
	return strings.TrimSpace(id)
}

// FavoriteAddHandler marks a flight as favorite (POST /api/favorites)
func (s *Server) FavoriteAddHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flightID := flightIDFromBody(r.Body)
		if flightID == "" {
			writeMessage(w, http.StatusBadRequest, messageMissingFlightID)
			return
		}

		sess := currentSession(r)
		if sess == nil {
			writeMessage(w, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		client, err := s.backendClient()
		if err != nil {
			writeBackendError(w, r, err, messageSaveFailed)
			return
		}
		if err := client.AddFavorite(r.Context(), sess.BearerToken, flightID); err != nil {
			writeBackendError(w, r, err, messageSaveFailed)
			return
		}
		writeOK(w)
	}
}

// FavoriteRemoveHandler removes a favorite (DELETE /api/favorites/{id})
func (s *Server) FavoriteRemoveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.PathValue("id"))
		if id == "" {
			writeMessage(w, http.StatusBadRequest, messageMissingID)
			return
		}

		sess := currentSession(r)
		if sess == nil {
			writeMessage(w, http.StatusUnauthorized, MessageUnauthorized)
			return
		}

		client, err := s.backendClient()
		if err != nil {
			writeBackendError(w, r, err, messageRemoveFailed)
			return
		}
		if err := client.RemoveFavorite(r.Context(), sess.BearerToken, id); err != nil {
			writeBackendError(w, r, err, messageRemoveFailed)
			return
		}
		writeOK(w)
	}
}
