package session

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// hmacSigner signs session artifacts with HMAC-SHA256.
type hmacSigner struct {
	secret []byte
}

func newHMACSigner(secret []byte) *hmacSigner {
	return &hmacSigner{secret: secret}
}

func (h *hmacSigner) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}
	return signed, nil
}

func (h *hmacSigner) GetVerificationKey(token *jwt.Token) (any, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return h.secret, nil
}
