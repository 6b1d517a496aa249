package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/config"
	"github.com/BrikenaAhmeti/WP25G10-frontend/server/loginlimit"
	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
	"github.com/rs/zerolog/log"
)

// SessionStore is the part of session.Store the handlers use.
type SessionStore interface {
	session.Resolver
	Save(w http.ResponseWriter, r *http.Request, sess session.Session) (session.Session, error)
	Clear(w http.ResponseWriter, r *http.Request)
	Renew(w http.ResponseWriter, r *http.Request, sess *session.Session) bool
}

// Deps are the collaborators the server needs. Nil fields get defaults.
type Deps struct {
	Sessions   SessionStore
	Limiter    loginlimit.Limiter
	HTTPClient *http.Client
}

type Server struct {
	env        string // Environment (e.g. "DEV", "PROD")
	mux        *http.ServeMux
	handler    http.Handler
	routes     []string
	config     config.Config
	sessions   SessionStore
	limiter    loginlimit.Limiter
	httpClient *http.Client
	pages      *pageTemplates
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.Sessions == nil {
		store, err := session.NewStore(cfg)
		if err != nil {
			return nil, fmt.Errorf("[Server New] failed to create session store: %w", err)
		}
		deps.Sessions = store
	}
	if deps.Limiter == nil {
		deps.Limiter = loginlimit.NewInMemoryLimiter(loginlimit.Config{
			MaxAttempts: cfg.GetLoginMaxAttempts(),
			Window:      cfg.GetLoginWindow(),
		})
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = backend.NewHTTPClient()
	}

	pages, err := parsePageTemplates()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:        cfg.GetEnv(),
		mux:        http.NewServeMux(),
		config:     cfg,
		sessions:   deps.Sessions,
		limiter:    deps.Limiter,
		httpClient: deps.HTTPClient,
		pages:      pages,
	}

	s.initRoutes()
	s.handler = s.RouteGuard(s.mux)
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// backendClient builds a client from the current configuration. The base URL
// is read per call so a missing value fails the request that needs it.
func (s *Server) backendClient() (*backend.Client, error) {
	return backend.New(
		s.config.GetAPIBaseURL(),
		backend.WithHTTPClient(s.httpClient),
		backend.WithTimeout(s.config.GetBackendTimeout()),
	)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
