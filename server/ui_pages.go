package server

import (
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
	"github.com/rs/zerolog/log"
)

const (
	bannerFlightsFailed   = "Failed to load flights."
	bannerFavoritesFailed = "Failed to load favorites."
	messageSignInRequired = "Sign in to save favorites."
	messageSignInDown     = "Sign-in is unavailable right now. Try again shortly."
	messageSaveError      = "Couldn't save"
	messageRemoveError    = "Couldn't remove"
	messageRemoved        = "Removed from favorites"
	messageAccountCreated = "Account created. Sign in to continue."
)

// PageData is shared by every page rendered through the layout.
type PageData struct {
	Title   string
	Session *session.Session
	Error   string
	Notice  string
}

func newPageData(r *http.Request, title string) PageData {
	q := r.URL.Query()
	return PageData{
		Title:   title,
		Session: currentSession(r),
		Error:   q.Get("error"),
		Notice:  q.Get("notice"),
	}
}

type BoardPageData struct {
	PageData
	Filter    flights.FilterState
	Flights   []flights.FlightRecord
	Total     int
	Stats     *flights.Stats
	LoadError string
}

type FavoritesPageData struct {
	PageData
	Query     string
	Flights   []flights.FlightRecord
	Total     int
	LoadError string
}

type AuthPageData struct {
	PageData
	CallbackURL string
	Email       string
	UserName    string
}

func render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", contentTypeHTML)
	if err := tmpl.Execute(w, data); err != nil {
		log.Err(err).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func filterFromQuery(q url.Values) flights.FilterState {
	delayed := q.Get("delayed")
	return flights.FilterState{
		Board:       flights.ParseBoard(q.Get("board")),
		Search:      q.Get("search"),
		Date:        strings.TrimSpace(q.Get("date")),
		DelayedOnly: delayed == "true" || delayed == "on" || delayed == "1",
		Focus:       flights.ParseFocus(q.Get("focus")),
	}
}

// IndexHandler renders the flight board (GET /)
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := BoardPageData{
			PageData: newPageData(r, "Flight board"),
			Filter:   filterFromQuery(r.URL.Query()),
		}

		client, err := s.backendClient()
		if err != nil {
			log.Err(err).Msg("flight board unavailable")
			data.LoadError = bannerFlightsFailed
			render(w, s.pages.index, data)
			return
		}

		token := bearerToken(r)
		records, err := client.ListFlights(r.Context(), url.Values{"board": {string(data.Filter.Board)}}, token)
		if err != nil {
			log.Err(err).Msg("flight board fetch failed")
			data.LoadError = bannerFlightsFailed
		} else {
			data.Total = len(records)
			data.Flights = data.Filter.Apply(records, time.Now())
		}

		if stats, err := client.FlightStats(r.Context(), "", token); err != nil {
			log.Err(err).Msg("flight stats fetch failed")
		} else {
			data.Stats = &stats
		}

		render(w, s.pages.index, data)
	}
}

// BoardFavoriteHandler saves a favorite from the board form (POST /board/favorite)
func (s *Server) BoardFavoriteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		board := flights.ParseBoard(r.FormValue("board"))
		back := func(params url.Values) {
			params.Set("board", string(board))
			redirectWithParams(w, r, RouteIndex+"#flights", params)
		}

		sess := currentSession(r)
		if sess == nil {
			redirectWithParams(w, r, RouteSignIn, url.Values{"callbackUrl": {BoardAnchor}, "notice": {messageSignInRequired}})
			return
		}

		flightID := strings.TrimSpace(r.FormValue("flightId"))
		if flightID == "" {
			back(url.Values{"error": {messageMissingFlightID}})
			return
		}

		client, err := s.backendClient()
		if err == nil {
			err = client.AddFavorite(r.Context(), sess.BearerToken, flightID)
		}
		switch {
		case err == nil:
			back(url.Values{"notice": {strings.TrimSpace("Saved to favorites " + r.FormValue("flightNumber"))}})
		case apperrors.Is(err, apperrors.ErrUnauthorized):
			s.sessions.Clear(w, r)
			redirectWithParams(w, r, RouteSignIn, url.Values{"callbackUrl": {BoardAnchor}, "notice": {messageSignInRequired}})
		default:
			log.Err(err).Str("flight_id", flightID).Msg("save favorite failed")
			back(url.Values{"error": {messageSaveError}})
		}
	}
}

// FavoritesPageHandler renders the signed-in user's favorites (GET /favorites)
func (s *Server) FavoritesPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if sess == nil {
			http.Redirect(w, r, SignInURL(RouteFavorites), http.StatusFound)
			return
		}

		data := FavoritesPageData{
			PageData: newPageData(r, "Favorites"),
			Query:    r.URL.Query().Get("q"),
		}

		client, err := s.backendClient()
		if err != nil {
			log.Err(err).Msg("favorites unavailable")
			data.LoadError = bannerFavoritesFailed
			render(w, s.pages.favorites, data)
			return
		}

		records, err := client.ListFavorites(r.Context(), sess.BearerToken)
		switch {
		case apperrors.Is(err, apperrors.ErrUnauthorized):
			http.Redirect(w, r, SignInURL(RouteFavorites), http.StatusFound)
			return
		case err != nil:
			log.Err(err).Msg("favorites fetch failed")
			data.LoadError = bannerFavoritesFailed
		default:
			data.Total = len(records)
			data.Flights = flights.Search(records, data.Query)
		}
		render(w, s.pages.favorites, data)
	}
}

// FavoriteRemovePageHandler removes a favorite from the favorites page (POST /favorites/{id}/remove)
func (s *Server) FavoriteRemovePageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess := currentSession(r)
		if sess == nil {
			http.Redirect(w, r, SignInURL(RouteFavorites), http.StatusFound)
			return
		}

		client, err := s.backendClient()
		if err == nil {
			err = client.RemoveFavorite(r.Context(), sess.BearerToken, r.PathValue("id"))
		}

		var upstream *backend.UpstreamError
		switch {
		case err == nil, apperrors.As(err, &upstream) && upstream.StatusCode == http.StatusNotFound:
			redirectWithParams(w, r, RouteFavorites, url.Values{"notice": {messageRemoved}})
		case apperrors.Is(err, apperrors.ErrUnauthorized):
			http.Redirect(w, r, SignInURL(RouteFavorites), http.StatusFound)
		default:
			log.Err(err).Msg("remove favorite failed")
			redirectWithParams(w, r, RouteFavorites, url.Values{"error": {messageRemoveError}})
		}
	}
}

// SignInPageHandler renders the sign-in form (GET /auth/signin)
func (s *Server) SignInPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callback := SafeCallbackURL(r.URL.Query().Get("callbackUrl"))
		if currentSession(r) != nil {
			http.Redirect(w, r, callback, http.StatusSeeOther)
			return
		}
		render(w, s.pages.signIn, AuthPageData{
			PageData:    newPageData(r, "Sign in"),
			CallbackURL: callback,
			Email:       r.URL.Query().Get("email"),
		})
	}
}

// SignInSubmitHandler processes the sign-in form (POST /auth/signin)
func (s *Server) SignInSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		callback := SafeCallbackURL(r.FormValue("callbackUrl"))
		email := strings.TrimSpace(r.FormValue("email"))

		if _, err := s.login(w, r, email, r.FormValue("password")); err != nil {
			message := backend.InvalidCredentialsMessage
			switch {
			case apperrors.Is(err, apperrors.ErrRateLimited):
				message = MessageTooManyAttempts
			case apperrors.Is(err, apperrors.ErrMissingConfig), apperrors.Is(err, apperrors.ErrNetwork):
				log.Err(err).Msg("sign-in unavailable")
				message = messageSignInDown
			}
			redirectWithParams(w, r, RouteSignIn, url.Values{"callbackUrl": {callback}, "email": {email}, "error": {message}})
			return
		}
		redirectSuccess(w, r, callback)
	}
}

// RegisterPageHandler renders the registration form (GET /auth/register)
func (s *Server) RegisterPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callback := SafeCallbackURL(r.URL.Query().Get("callbackUrl"))
		if currentSession(r) != nil {
			http.Redirect(w, r, callback, http.StatusSeeOther)
			return
		}
		q := r.URL.Query()
		render(w, s.pages.register, AuthPageData{
			PageData:    newPageData(r, "Register"),
			CallbackURL: callback,
			Email:       q.Get("email"),
			UserName:    q.Get("userName"),
		})
	}
}

// RegisterSubmitHandler processes the registration form (POST /auth/register)
func (s *Server) RegisterSubmitHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		callback := SafeCallbackURL(r.FormValue("callbackUrl"))
		req := backend.RegisterRequest{
			UserName: strings.TrimSpace(r.FormValue("userName")),
			Email:    strings.TrimSpace(r.FormValue("email")),
			Password: r.FormValue("password"),
		}
		fail := func(message string) {
			redirectWithParams(w, r, RouteRegister, url.Values{
				"callbackUrl": {callback},
				"email":       {req.Email},
				"userName":    {req.UserName},
				"error":       {message},
			})
		}

		if err := backend.ValidateRegistration(req); err != nil {
			fail(err.Error())
			return
		}

		client, err := s.backendClient()
		if err != nil {
			log.Err(err).Msg("registration unavailable")
			fail(backend.RegistrationFallbackMessage)
			return
		}
		resp, err := client.Register(r.Context(), req)
		if err != nil {
			log.Err(err).Msg("registration request failed")
			fail(backend.RegistrationFallbackMessage)
			return
		}
		if !resp.OK() {
			fail(backend.RegistrationErrorMessage(resp.Body, utils.FirstNonBlank(resp.Text(), backend.RegistrationFallbackMessage)))
			return
		}

		redirectWithParams(w, r, RouteSignIn, url.Values{
			"callbackUrl": {callback},
			"email":       {req.Email},
			"notice":      {messageAccountCreated},
		})
	}
}

// SignOutHandler clears the session and returns to the board (GET /auth/signout)
func (s *Server) SignOutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Clear(w, r)
		redirectSuccess(w, r, RouteIndex)
	}
}

// HealthHandler reports liveness (GET /healthz)
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
