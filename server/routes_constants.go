package server

// Route path constants
const (
	// Pages
	RouteIndex           = "/"
	RouteFavorites       = "/favorites"
	RouteFavoritesRemove = "/favorites/{id}/remove"
	RouteBoardFavorite   = "/board/favorite"

	// Auth pages
	RouteSignIn   = "/auth/signin"
	RouteRegister = "/auth/register"
	RouteSignOut  = "/auth/signout"

	// Auth API
	RouteAPIAuthRegister = "/api/auth/register"
	RouteAPIAuthLogin    = "/api/auth/login"
	RouteAPIAuthLogout   = "/api/auth/logout"
	RouteAPIAuthSession  = "/api/auth/session"

	// Data API
	RouteAPIFlights         = "/api/flights"
	RouteAPIFlightStats     = "/api/flights/stats"
	RouteAPIFavorites       = "/api/favorites"
	RouteAPIFavorite        = "/api/favorites/{id}"
	RouteAPIFavoriteMissing = "/api/favorites/{$}"

	RouteHealth = "/healthz"
	RouteStatic = "/static/"

	// Board anchor the sign-in flow returns to after an unauthenticated save.
	BoardAnchor = "/#flights"
)

// ProtectedPrefixes are the only paths the route guard acts on.
var ProtectedPrefixes = []string{RouteFavorites}
