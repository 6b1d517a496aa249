package server

import (
	"context"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/config"
	"github.com/BrikenaAhmeti/WP25G10-frontend/session"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	// ContextKeySession stores the resolved *session.Session
	ContextKeySession ContextKey = "session"
	// ContextKeyRequestID stores the request id echoed in X-Request-ID
	ContextKeyRequestID ContextKey = "request_id"
)

// currentSession returns the session resolved by SessionMiddleware, or nil.
func currentSession(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ContextKeySession).(*session.Session)
	if !sess.Authenticated() {
		return nil
	}
	return sess
}

func bearerToken(r *http.Request) string {
	if sess := currentSession(r); sess != nil {
		return sess.BearerToken
	}
	return ""
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyRequestID).(string)
	return id
}

// clientIP is the socket address unless it is a trusted proxy. Then the
// X-Forwarded-For chain is walked from the right and the first untrusted hop wins.
func clientIP(r *http.Request, trusted config.TrustedProxies) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if !trusted.Trusts(host) {
		return host
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		if !trusted.Trusts(hop) {
			return hop
		}
		host = hop
	}
	return host
}

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithParams helper for htmx-aware redirects carrying query values such as error or notice
func redirectWithParams(w http.ResponseWriter, r *http.Request, path string, params url.Values) {
	target := path
	if encoded := params.Encode(); encoded != "" {
		fragment := ""
		if i := strings.Index(target, "#"); i >= 0 {
			target, fragment = target[:i], target[i:]
		}
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + encoded + fragment
	}
	redirectSuccess(w, r, target)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
