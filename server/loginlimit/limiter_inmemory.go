package loginlimit

import (
	"context"
	"sync"
	"time"
)

type window struct {
	count   int
	resetAt time.Time
}

// InMemoryLimiter keeps counters in process memory. Counters are not shared
// between gateway instances.
type InMemoryLimiter struct {
	mu      sync.Mutex
	cfg     Config
	windows map[string]window
	now     func() time.Time
}

func NewInMemoryLimiter(cfg Config) *InMemoryLimiter {
	return &InMemoryLimiter{
		cfg:     cfg.withDefaults(),
		windows: make(map[string]window),
		now:     time.Now,
	}
}

func (l *InMemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	w, ok := l.windows[key]
	if !ok || !now.Before(w.resetAt) {
		w = window{resetAt: now.Add(l.cfg.Window)}
	}
	w.count++
	l.windows[key] = w
	l.evict(now)

	return w.count <= l.cfg.MaxAttempts, nil
}

func (l *InMemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
	return nil
}

// evict drops expired windows once the map grows.
func (l *InMemoryLimiter) evict(now time.Time) {
	if len(l.windows) < 1024 {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.resetAt) {
			delete(l.windows, k)
		}
	}
}

var _ Limiter = (*InMemoryLimiter)(nil)
