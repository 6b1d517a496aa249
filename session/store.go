package session

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/config"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

const (
	issuer          = "aeroboard"
	signingKeyInfo  = "aeroboard session signing"
	sealingKeyInfo  = "aeroboard session token sealing"
	generatedSecret = 32
)

type claims struct {
	jwt.RegisteredClaims
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Token       string `json:"tok"`
	TokenExpiry int64  `json:"tokExp,omitempty"`
}

// Store issues and reads session artifacts: HS256 JWTs whose bearer token
// claim is sealed with XChaCha20-Poly1305.
type Store struct {
	signer    *hmacSigner
	aead      cipher.AEAD
	maxAge    time.Duration
	updateAge time.Duration
	now       func() time.Time
}

type Option func(*Store)

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore derives its keys from the configured secret. Without a secret a
// random one is generated, so sessions do not survive a restart.
func NewStore(cfg config.SecurityConfig, opts ...Option) (*Store, error) {
	secret := []byte(cfg.GetSessionSecret())
	if len(secret) == 0 {
		log.Warn().Msg("SESSION_SECRET not set, generating an ephemeral session secret")
		secret = make([]byte, generatedSecret)
		if _, err := rand.Read(secret); err != nil {
			return nil, fmt.Errorf("generate session secret: %w", err)
		}
	}

	signingKey, err := deriveKey(secret, signingKeyInfo, 32)
	if err != nil {
		return nil, err
	}
	sealingKey, err := deriveKey(secret, sealingKeyInfo, chacha20poly1305.KeySize)
	if err != nil {
		return nil, err
	}
	aead, err := chacha20poly1305.NewX(sealingKey)
	if err != nil {
		return nil, fmt.Errorf("session cipher: %w", err)
	}

	s := &Store{
		signer:    newHMACSigner(signingKey),
		aead:      aead,
		maxAge:    cfg.GetMaxSessionAge(),
		updateAge: cfg.GetSessionUpdateAge(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func deriveKey(secret []byte, info string, size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("derive %q key: %w", info, err)
	}
	return key, nil
}

// Issue signs sess. The artifact never outlives the backend token.
func (s *Store) Issue(sess Session) (string, Session, error) {
	if !sess.Authenticated() {
		return "", Session{}, apperrors.Wrapf(apperrors.ErrInvalidSession, "missing bearer token")
	}

	now := s.now().Truncate(time.Second)
	if sess.ID == "" {
		sess.ID = uuid.NewString()
	}
	if sess.Subject == "" {
		sess.Subject = strings.TrimSpace(sess.Email)
	}
	sess.IssuedAt = now
	sess.ExpiresAt = now.Add(s.maxAge)
	if !sess.TokenExpiry.IsZero() && sess.TokenExpiry.Before(sess.ExpiresAt) {
		sess.ExpiresAt = sess.TokenExpiry.Truncate(time.Second)
	}
	if !sess.ExpiresAt.After(now) {
		return "", Session{}, apperrors.ErrSessionExpired
	}

	sealed, err := s.seal(sess.BearerToken, sess.Subject)
	if err != nil {
		return "", Session{}, err
	}

	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sess.ID,
			Issuer:    issuer,
			Subject:   sess.Subject,
			IssuedAt:  jwt.NewNumericDate(sess.IssuedAt),
			ExpiresAt: jwt.NewNumericDate(sess.ExpiresAt),
		},
		Name:  sess.Name,
		Email: sess.Email,
		Token: sealed,
	}
	if !sess.TokenExpiry.IsZero() {
		c.TokenExpiry = sess.TokenExpiry.Unix()
	}

	signed, err := s.signer.Sign(c)
	if err != nil {
		return "", Session{}, err
	}
	return signed, sess, nil
}

// Parse verifies an artifact and opens its bearer token.
func (s *Store) Parse(raw string) (*Session, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, s.signer.GetVerificationKey,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if apperrors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrSessionExpired
		}
		return nil, apperrors.Wrapf(apperrors.ErrInvalidSession, "parse session: %v", err)
	}

	token, err := s.open(c.Token, c.Subject)
	if err != nil {
		return nil, err
	}

	sess := &Session{
		ID:          c.ID,
		Subject:     c.Subject,
		Name:        c.Name,
		Email:       c.Email,
		BearerToken: token,
	}
	if c.IssuedAt != nil {
		sess.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		sess.ExpiresAt = c.ExpiresAt.Time
	}
	if c.TokenExpiry > 0 {
		sess.TokenExpiry = time.Unix(c.TokenExpiry, 0)
	}
	return sess, nil
}

func (s *Store) seal(token, subject string) (string, error) {
	nonce := make([]byte, s.aead.NonceSize(), s.aead.NonceSize()+len(token)+s.aead.Overhead())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("session nonce: %w", err)
	}
	sealed := s.aead.Seal(nonce, nonce, []byte(token), []byte(subject))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (s *Store) open(sealed, subject string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(sealed)
	if err != nil || len(data) < s.aead.NonceSize() {
		return "", apperrors.Wrapf(apperrors.ErrInvalidSession, "malformed token claim")
	}
	nonce, ciphertext := data[:s.aead.NonceSize()], data[s.aead.NonceSize():]
	plain, err := s.aead.Open(nil, nonce, ciphertext, []byte(subject))
	if err != nil {
		return "", apperrors.Wrapf(apperrors.ErrInvalidSession, "open token claim")
	}
	return string(plain), nil
}

// Save issues sess and writes it as the session cookie.
func (s *Store) Save(w http.ResponseWriter, r *http.Request, sess Session) (Session, error) {
	signed, issued, err := s.Issue(sess)
	if err != nil {
		return Session{}, err
	}

	secure := IsSecureRequest(r)
	name := CookieName
	if secure {
		name = SecureCookieName
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    signed,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  issued.ExpiresAt,
		MaxAge:   int(issued.ExpiresAt.Sub(s.now()).Seconds()),
	})
	return issued, nil
}

// Current returns the first valid session found under a recognised cookie name.
func (s *Store) Current(r *http.Request) (*Session, bool) {
	for _, name := range CookieNames {
		c, err := r.Cookie(name)
		if err != nil || strings.TrimSpace(c.Value) == "" {
			continue
		}
		sess, err := s.Parse(c.Value)
		if err != nil {
			log.Debug().Err(err).Str("cookie", name).Msg("rejected session cookie")
			continue
		}
		if sess.Authenticated() {
			return sess, true
		}
	}
	return nil, false
}

// Clear expires every recognised session cookie.
func (s *Store) Clear(w http.ResponseWriter, r *http.Request) {
	for _, name := range CookieNames {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			HttpOnly: true,
			Secure:   strings.HasPrefix(name, "__Secure-") || IsSecureRequest(r),
			SameSite: http.SameSiteLaxMode,
			MaxAge:   -1,
		})
	}
}

// Renew re-issues sess when it is older than the update age. No backend call
// is made; the backend token is carried over as is.
func (s *Store) Renew(w http.ResponseWriter, r *http.Request, sess *Session) bool {
	if !sess.Authenticated() || s.now().Sub(sess.IssuedAt) < s.updateAge {
		return false
	}
	if _, err := s.Save(w, r, *sess); err != nil {
		log.Debug().Err(err).Msg("session renewal skipped")
		return false
	}
	return true
}

var _ Resolver = (*Store)(nil)
