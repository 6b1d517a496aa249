package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
)

// RouteGuard redirects requests for protected paths to sign-in unless a
// session cookie is present. Presence is enough here; handlers behind the
// guard still validate the artifact. Other paths pass through untouched.
func (s *Server) RouteGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !isProtectedPath(r.URL.Path) || session.HasCookie(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, SignInURL(r.URL.RequestURI()), http.StatusFound)
	})
}

func isProtectedPath(path string) bool {
	for _, prefix := range ProtectedPrefixes {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return true
		}
	}
	return false
}

// SignInURL is the sign-in page with callbackUrl set to callback, URL-encoded.
func SignInURL(callback string) string {
	return RouteSignIn + "?" + url.Values{"callbackUrl": {callback}}.Encode()
}

// SafeCallbackURL accepts only same-site paths outside the auth flow and
// falls back to "/" for anything else.
func SafeCallbackURL(raw string) string {
	callback := strings.TrimSpace(raw)
	switch {
	case callback == "":
		return RouteIndex
	case !strings.HasPrefix(callback, "/"):
		return RouteIndex
	case strings.HasPrefix(callback, "//"), strings.HasPrefix(callback, "/\\"):
		return RouteIndex
	case strings.HasPrefix(callback, RouteSignIn), strings.HasPrefix(callback, RouteRegister):
		return RouteIndex
	case hasControlChar(callback):
		// Browsers drop tab/CR/LF, so "/\t/host" would resolve off-site.
		return RouteIndex
	}
	u, err := url.Parse(callback)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return RouteIndex
	}
	return callback
}

func hasControlChar(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 || s[i] == 0x7f {
			return true
		}
	}
	return false
}
