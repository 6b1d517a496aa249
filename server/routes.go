package server

import "net/http"

func (s *Server) initRoutes() {
	// Pages
	s.RegisterRouteHandler("GET /{$}", ChainMiddleware(s.IndexHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteBoardFavorite, ChainMiddleware(s.BoardFavoriteHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteFavorites, ChainMiddleware(s.FavoritesPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteFavoritesRemove, ChainMiddleware(s.FavoriteRemovePageHandler(), s.HTMLMiddleWare()...))

	// Auth pages
	s.RegisterRouteHandler("GET "+RouteSignIn, ChainMiddleware(s.SignInPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteSignIn, ChainMiddleware(s.SignInSubmitHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteRegister, ChainMiddleware(s.RegisterPageHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("POST "+RouteRegister, ChainMiddleware(s.RegisterSubmitHandler(), s.HTMLMiddleWare()...))
	s.RegisterRouteHandler("GET "+RouteSignOut, ChainMiddleware(s.SignOutHandler(), s.HTMLMiddleWare()...))

	// Auth API
	s.RegisterRouteHandler("POST "+RouteAPIAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIAuthLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIAuthLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIAuthSession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))

	// Flights API
	s.RegisterRouteHandler("GET "+RouteAPIFlights, ChainMiddleware(s.FlightsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteAPIFlightStats, ChainMiddleware(s.FlightStatsHandler(), s.APIMiddleware()...))

	// Favorites API
	s.RegisterRouteHandler("GET "+RouteAPIFavorites, ChainMiddleware(s.FavoritesListHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPIFavorites, ChainMiddleware(s.FavoriteAddHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteAPIFavorite, ChainMiddleware(s.FavoriteRemoveHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("DELETE "+RouteAPIFavoriteMissing, ChainMiddleware(s.FavoriteRemoveHandler(), s.APIMiddleware()...))

	// CORS preflight for every API route
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(preflightHandler, s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteStatic, ChainMiddleware(StaticHandler().ServeHTTP, s.RequestIDMiddleware, s.LoggingMiddleware, s.RecoverMiddleware))
}

// preflightHandler only runs for same-origin OPTIONS; CorsMiddleware answers cross-origin ones.
func preflightHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}
