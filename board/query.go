package board

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned by Refetch when the key changed while the fetch
// was in flight. The result was dropped.
var ErrSuperseded = errors.New("query superseded")

// Fetcher loads the value for key.
type Fetcher[T any] func(ctx context.Context, key string) (T, error)

type QueryOptions struct {
	// StaleTime is how long a successful result is served without refetching.
	StaleTime time.Duration
	// RefetchInterval drives Run. Zero disables polling.
	RefetchInterval time.Duration
}

// Snapshot is the cached state of a query.
type Snapshot[T any] struct {
	Key       string
	Data      T
	HasData   bool
	UpdatedAt time.Time
	Err       error
}

// Query caches the last successful result of a keyed fetch. Failed fetches
// keep the previous data and record the error.
type Query[T any] struct {
	fetch Fetcher[T]
	opts  QueryOptions
	now   func() time.Time

	mu         sync.Mutex
	key        string
	generation uint64
	issued     uint64 // sequence of the last fetch started
	applied    uint64 // sequence of the last fetch stored
	data       T
	hasData    bool
	updatedAt  time.Time
	err        error
}

func NewQuery[T any](key string, fetch Fetcher[T], opts QueryOptions) *Query[T] {
	return &Query[T]{
		fetch: fetch,
		opts:  opts,
		now:   time.Now,
		key:   key,
	}
}

func (q *Query[T]) Key() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key
}

// SetKey switches the query to key. Cached data for the old key is dropped
// and any fetch still in flight for it will be ignored. Reports whether the
// key changed.
func (q *Query[T]) SetKey(key string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if key == q.key {
		return false
	}
	var zero T
	q.key = key
	q.generation++
	q.data, q.hasData, q.updatedAt, q.err = zero, false, time.Time{}, nil
	return true
}

func (q *Query[T]) Snapshot() Snapshot[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot[T]{Key: q.key, Data: q.data, HasData: q.hasData, UpdatedAt: q.updatedAt, Err: q.err}
}

func (q *Query[T]) fresh() bool {
	return q.hasData && q.err == nil && q.now().Sub(q.updatedAt) < q.opts.StaleTime
}

// Get serves cached data while it is fresh and fetches otherwise.
func (q *Query[T]) Get(ctx context.Context) (T, error) {
	q.mu.Lock()
	if q.fresh() {
		data := q.data
		q.mu.Unlock()
		return data, nil
	}
	q.mu.Unlock()
	return q.Refetch(ctx)
}

// Refetch always fetches. On failure the previous data stays cached. When
// fetches overlap, a result older than the one already stored is discarded
// and the cached state is returned instead.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	q.mu.Lock()
	key, generation := q.key, q.generation
	q.issued++
	seq := q.issued
	q.mu.Unlock()

	data, err := q.fetch(ctx, key)

	q.mu.Lock()
	defer q.mu.Unlock()
	if generation != q.generation {
		var zero T
		return zero, ErrSuperseded
	}
	if seq < q.applied {
		return q.data, q.err
	}
	q.applied = seq
	if err != nil {
		q.err = err
		return q.data, err
	}
	q.data, q.hasData, q.updatedAt, q.err = data, true, q.now(), nil
	return data, nil
}

// Run refetches every RefetchInterval until ctx ends, calling onUpdate after
// each completed fetch. Superseded results are not reported.
func (q *Query[T]) Run(ctx context.Context, onUpdate func(Snapshot[T])) {
	if q.opts.RefetchInterval <= 0 {
		return
	}
	ticker := time.NewTicker(q.opts.RefetchInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, err := q.Refetch(ctx)
			if errors.Is(err, ErrSuperseded) || ctx.Err() != nil {
				continue
			}
			if err != nil {
				log.Debug().Err(err).Str("key", q.Key()).Msg("background refetch failed")
			}
			if onUpdate != nil {
				onUpdate(q.Snapshot())
			}
		}
	}
}
