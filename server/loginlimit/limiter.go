package loginlimit

import (
	"context"
	"strings"
	"time"
)

// Limiter counts login attempts per key inside a fixed window.
type Limiter interface {
	// Allow records an attempt and reports whether it is within the limit.
	Allow(ctx context.Context, key string) (bool, error)
	// Reset forgets the attempts for key, after a successful login.
	Reset(ctx context.Context, key string) error
}

type Config struct {
	MaxAttempts int
	Window      time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = 5
	}
	if c.Window <= 0 {
		c.Window = 15 * time.Minute
	}
	return c
}

// Key scopes attempts to the client address and the identifier being tried.
func Key(remoteIP, identifier string) string {
	return "login:" + remoteIP + ":" + strings.ToLower(strings.TrimSpace(identifier))
}
