package server

import (
	"encoding/json"
	"net/http"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/rs/zerolog/log"
)

const (
	contentTypeJSON = "application/json"
	contentTypeHTML = "text/html; charset=utf-8"

	MessageUnauthorized    = "Unauthorized"
	MessageMissingBaseURL  = "Missing API_BASE_URL"
	MessageBackendNetwork  = "Failed to reach backend"
	MessageInternalError   = "Internal server error"
	MessageTooManyAttempts = "Too many attempts. Try again later."
)

type messageResponse struct {
	Message string `json:"message"`
}

type okResponse struct {
	OK bool `json:"ok"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode response")
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, messageResponse{Message: message})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, okResponse{OK: true})
}

// writeBackendError translates a backend client error into the proxy error
// contract. fallback is used when the backend sent no text.
func writeBackendError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var upstream *backend.UpstreamError
	switch {
	case apperrors.As(err, &upstream):
		writeMessage(w, upstream.StatusCode, utils.FirstNonBlank(upstream.Message, fallback))
	case apperrors.Is(err, apperrors.ErrMissingConfig):
		writeMessage(w, http.StatusInternalServerError, MessageMissingBaseURL)
	case apperrors.Is(err, apperrors.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, MessageUnauthorized)
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		writeMessage(w, http.StatusBadRequest, fallback)
	case apperrors.Is(err, apperrors.ErrNetwork):
		writeMessage(w, http.StatusBadGateway, MessageBackendNetwork)
	default:
		writeMessage(w, http.StatusInternalServerError, fallback)
	}
	log.Err(err).Str("request_id", requestIDFrom(r.Context())).Str("path", r.URL.Path).Msg("backend request failed")
}
