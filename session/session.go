package session

import (
	"net/http"
	"strings"
	"time"
)

// Cookie names recognised as carrying a session artifact. New artifacts are
// written under CookieName, or SecureCookieName over HTTPS.
const (
	CookieName             = "authjs.session-token"
	SecureCookieName       = "__Secure-authjs.session-token"
	LegacyCookieName       = "next-auth.session-token"
	LegacySecureCookieName = "__Secure-next-auth.session-token"
)

var CookieNames = []string{LegacyCookieName, LegacySecureCookieName, CookieName, SecureCookieName}

// Session is the authenticated state carried between requests. It lives
// entirely inside the signed cookie; nothing is stored server side.
type Session struct {
	ID          string    // Unique artifact identifier (UUID)
	Subject     string    // Email, or username when the backend sent no email
	Name        string    // Display name
	Email       string    // May be empty
	BearerToken string    // Backend access token
	TokenExpiry time.Time // Backend token expiry, zero when unknown
	IssuedAt    time.Time // When this artifact was signed
	ExpiresAt   time.Time // When this artifact stops being accepted
}

// Authenticated reports whether the session can make authenticated backend calls.
func (s *Session) Authenticated() bool {
	return s != nil && strings.TrimSpace(s.BearerToken) != ""
}

// Resolver resolves the session attached to a request.
type Resolver interface {
	Current(r *http.Request) (*Session, bool)
}

// HasCookie reports whether any recognised session cookie is present and non-empty.
// It does not validate the artifact.
func HasCookie(r *http.Request) bool {
	for _, name := range CookieNames {
		if c, err := r.Cookie(name); err == nil && strings.TrimSpace(c.Value) != "" {
			return true
		}
	}
	return false
}

// IsSecureRequest reports whether the request reached us over HTTPS, directly or through a proxy.
func IsSecureRequest(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	return strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
