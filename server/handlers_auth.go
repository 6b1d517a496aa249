package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/BrikenaAhmeti/WP25G10-frontend/server/loginlimit"
	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
	"github.com/rs/zerolog/log"
)

const maxRequestBody = 1 << 20

type loginPayload struct {
	UserNameOrEmail string `json:"userNameOrEmail"`
	Email           string `json:"email"`
	Password        string `json:"password"`
}

type sessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type sessionResponse struct {
	User    *sessionUser `json:"user,omitempty"`
	Expires string       `json:"expires,omitempty"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	if sess == nil {
		return sessionResponse{}
	}
	return sessionResponse{
		User:    &sessionUser{Name: sess.Name, Email: sess.Email},
		Expires: sess.ExpiresAt.UTC().Format(time.RFC3339),
	}
}

// login runs the credential exchange and stores the resulting session. It
// returns ErrRateLimited, ErrInvalidCredentials, ErrMissingConfig or ErrNetwork.
func (s *Server) login(w http.ResponseWriter, r *http.Request, identifier, password string) (session.Session, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return session.Session{}, apperrors.ErrInvalidCredentials
	}

	key := loginlimit.Key(clientIP(r, s.config.GetTrustedProxies()), identifier)
	allowed, err := s.limiter.Allow(r.Context(), key)
	if err != nil {
		log.Err(err).Msg("login limiter unavailable")
	} else if !allowed {
		return session.Session{}, apperrors.ErrRateLimited
	}

	client, err := s.backendClient()
	if err != nil {
		return session.Session{}, err
	}
	result, err := client.Login(r.Context(), identifier, password)
	if err != nil {
		return session.Session{}, err
	}

	if err := s.limiter.Reset(r.Context(), key); err != nil {
		log.Err(err).Msg("login limiter reset failed")
	}

	return s.sessions.Save(w, r, session.Session{
		Subject:     utils.FirstNonBlank(result.Email, result.UserName),
		Name:        result.UserName,
		Email:       result.Email,
		BearerToken: result.Token,
		TokenExpiry: result.Expiry(),
	})
}

// writeLoginError maps login failures to the API contract. Credential
// failures always read "Invalid credentials.".
func writeLoginError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case apperrors.Is(err, apperrors.ErrRateLimited):
		writeMessage(w, http.StatusTooManyRequests, MessageTooManyAttempts)
	case apperrors.Is(err, apperrors.ErrMissingConfig), apperrors.Is(err, apperrors.ErrNetwork):
		writeBackendError(w, r, err, backend.InvalidCredentialsMessage)
	default:
		writeMessage(w, http.StatusUnauthorized, backend.InvalidCredentialsMessage)
	}
}

// LoginHandler exchanges JSON credentials for a session cookie (POST /api/auth/login)
func (s *Server) LoginHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginPayload
		if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&payload); err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		sess, err := s.login(w, r, utils.FirstNonBlank(payload.UserNameOrEmail, payload.Email), payload.Password)
		if err != nil {
			writeLoginError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, newSessionResponse(&sess))
	}
}

// LogoutHandler clears every session cookie (POST /api/auth/logout)
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Clear(w, r)
		writeOK(w)
	}
}

// SessionHandler reports the current session, or {} when signed out (GET /api/auth/session)
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, newSessionResponse(currentSession(r)))
	}
}

// RegisterHandler forwards a registration and mirrors the backend response (POST /api/auth/register)
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
		if err != nil {
			writeMessage(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		client, err := s.backendClient()
		if err != nil {
			writeBackendError(w, r, err, backend.RegistrationFallbackMessage)
			return
		}
		resp, err := client.RegisterRaw(r.Context(), body)
		if err != nil {
			writeBackendError(w, r, err, backend.RegistrationFallbackMessage)
			return
		}

		contentType := resp.ContentType
		if contentType == "" {
			contentType = contentTypeJSON
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(resp.StatusCode)
		if _, err := w.Write(resp.Body); err != nil {
			log.Err(err).Msg("Failed to write register response")
		}
	}
}
