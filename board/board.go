package board

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
)

const (
	FlightsStaleTime       = 10 * time.Second
	FlightsRefetchInterval = 30 * time.Second
	StatsStaleTime         = 15 * time.Second
	StatsRefetchInterval   = 30 * time.Second
)

// Source is what the board reads from. *API satisfies it.
type Source interface {
	Flights(ctx context.Context, board flights.Board, query url.Values) ([]flights.FlightRecord, error)
	Stats(ctx context.Context, date string) (flights.Stats, error)
}

// View is the board as shown to the user.
type View struct {
	Filter    flights.FilterState
	Flights   []flights.FlightRecord
	Total     int
	Next60    int
	Stats     *flights.Stats
	UpdatedAt time.Time
	// Err is the latest fetch failure. Flights may still hold older data.
	Err error
}

// Board keeps the flight list and stats fresh and filters locally. Only the
// board kind is sent to the gateway; search, date and focus never refetch.
type Board struct {
	flights *Query[[]flights.FlightRecord]
	stats   *Query[flights.Stats]
	now     func() time.Time

	mu     sync.RWMutex
	filter flights.FilterState
}

type BoardOption func(*Board)

// WithBoardClock replaces time.Now for filtering.
func WithBoardClock(now func() time.Time) BoardOption {
	return func(b *Board) {
		b.now = now
	}
}

func NewBoard(src Source, filter flights.FilterState, opts ...BoardOption) *Board {
	if filter.Board == "" {
		filter.Board = flights.BoardArrivals
	}
	if filter.Focus == "" {
		filter.Focus = flights.FocusAll
	}

	b := &Board{filter: filter, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}

	b.flights = NewQuery(string(filter.Board), func(ctx context.Context, key string) ([]flights.FlightRecord, error) {
		return src.Flights(ctx, flights.ParseBoard(key), nil)
	}, QueryOptions{StaleTime: FlightsStaleTime, RefetchInterval: FlightsRefetchInterval})

	b.stats = NewQuery("stats", func(ctx context.Context, _ string) (flights.Stats, error) {
		return src.Stats(ctx, "")
	}, QueryOptions{StaleTime: StatsStaleTime, RefetchInterval: StatsRefetchInterval})

	return b
}

func (b *Board) Filter() flights.FilterState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.filter
}

// SetFilter replaces the filter. It reports whether the flight list must be
// refetched, which happens only when the board kind changed.
func (b *Board) SetFilter(filter flights.FilterState) bool {
	if filter.Board == "" {
		filter.Board = flights.BoardArrivals
	}
	if filter.Focus == "" {
		filter.Focus = flights.FocusAll
	}
	b.mu.Lock()
	b.filter = filter
	b.mu.Unlock()
	return b.flights.SetKey(string(filter.Board))
}

// ClearFilters resets everything but the board kind.
func (b *Board) ClearFilters() {
	b.SetFilter(b.Filter().Clear())
}

// View returns the filtered board, fetching only when cached data is stale.
// An error is returned only when there is nothing cached to show.
func (b *Board) View(ctx context.Context) (View, error) {
	_, flightsErr := b.flights.Get(ctx)
	_, statsErr := b.stats.Get(ctx)
	if flightsErr != nil && !b.flights.Snapshot().HasData {
		return View{Filter: b.Filter(), Err: flightsErr}, flightsErr
	}
	v := b.build()
	if v.Err == nil && statsErr != nil {
		v.Err = statsErr
	}
	return v, nil
}

// Refresh refetches flights and stats regardless of staleness.
func (b *Board) Refresh(ctx context.Context) (View, error) {
	_, flightsErr := b.flights.Refetch(ctx)
	_, _ = b.stats.Refetch(ctx)
	if flightsErr != nil && !b.flights.Snapshot().HasData {
		return View{Filter: b.Filter(), Err: flightsErr}, flightsErr
	}
	return b.build(), nil
}

func (b *Board) build() View {
	filter := b.Filter()
	snap := b.flights.Snapshot()
	now := b.now()

	v := View{
		Filter:    filter,
		Flights:   filter.Apply(snap.Data, now),
		Total:     len(snap.Data),
		Next60:    flights.CountNext60(snap.Data, filter.Board, now),
		UpdatedAt: snap.UpdatedAt,
		Err:       snap.Err,
	}
	if stats := b.stats.Snapshot(); stats.HasData {
		s := stats.Data
		v.Stats = &s
	}
	return v
}

// Run polls both queries on their intervals and calls onUpdate with a fresh
// View after each poll. It blocks until ctx ends.
func (b *Board) Run(ctx context.Context, onUpdate func(View)) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		b.flights.Run(ctx, func(Snapshot[[]flights.FlightRecord]) {
			if onUpdate != nil {
				onUpdate(b.build())
			}
		})
	}()
	go func() {
		defer wg.Done()
		b.stats.Run(ctx, func(Snapshot[flights.Stats]) {
			if onUpdate != nil {
				onUpdate(b.build())
			}
		})
	}()
	wg.Wait()
}
