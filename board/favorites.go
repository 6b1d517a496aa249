package board

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	"github.com/rs/zerolog/log"
)

const (
	// SignInRedirect is where the board sends a user who must sign in to save.
	SignInRedirect = "/auth/signin?callbackUrl=%2F%23flights"
	// FavoritesSignInRedirect is the same for the favorites page.
	FavoritesSignInRedirect = "/auth/signin?callbackUrl=%2Ffavorites"
)

type MutationState int

const (
	Pending MutationState = iota
	Confirmed
	RolledBack
)

func (s MutationState) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case RolledBack:
		return "rolled back"
	default:
		return "unknown"
	}
}

// Mutation is the outcome of an optimistic favorite change.
type Mutation struct {
	FlightID string
	State    MutationState
	Err      error
	// Redirect is set when the user has to sign in first.
	Redirect string
}

// FavoritesSource is the gateway surface favorites need. *API satisfies it.
type FavoritesSource interface {
	Favorites(ctx context.Context) ([]flights.FlightRecord, error)
	AddFavorite(ctx context.Context, flightID string) error
	RemoveFavorite(ctx context.Context, flightID string) error
}

// Favorites is the local favorite list. Add and Remove apply immediately and
// undo the change if the gateway rejects it.
type Favorites struct {
	src     FavoritesSource
	toaster Toaster

	mu      sync.Mutex
	items   []flights.FlightRecord
	pending map[string]MutationState
}

func NewFavorites(src FavoritesSource, toaster Toaster) *Favorites {
	if toaster == nil {
		toaster = discardToaster{}
	}
	return &Favorites{src: src, toaster: toaster, pending: make(map[string]MutationState)}
}

// Load replaces the local list with the gateway's.
func (f *Favorites) Load(ctx context.Context) error {
	items, err := f.src.Favorites(ctx)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = items
	return nil
}

func (f *Favorites) Items() []flights.FlightRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]flights.FlightRecord(nil), f.items...)
}

func (f *Favorites) Contains(flightID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return indexOf(f.items, flightID) >= 0
}

// State is the state of the last mutation for flightID.
func (f *Favorites) State(flightID string) (MutationState, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	state, ok := f.pending[flightID]
	return state, ok
}

func indexOf(items []flights.FlightRecord, flightID string) int {
	for i, item := range items {
		if item.ID == flightID {
			return i
		}
	}
	return -1
}

// begin captures a snapshot, applies change and marks flightID pending.
func (f *Favorites) begin(flightID string, change func([]flights.FlightRecord) []flights.FlightRecord) []flights.FlightRecord {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := append([]flights.FlightRecord(nil), f.items...)
	f.items = change(append([]flights.FlightRecord(nil), f.items...))
	f.pending[flightID] = Pending
	return snapshot
}

func (f *Favorites) confirm(flightID string) Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pending[flightID] = Confirmed
	return Mutation{FlightID: flightID, State: Confirmed}
}

// rollback restores snapshot. It is the only way a failed mutation is undone.
func (f *Favorites) rollback(flightID string, snapshot []flights.FlightRecord, err error) Mutation {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items = snapshot
	f.pending[flightID] = RolledBack
	return Mutation{FlightID: flightID, State: RolledBack, Err: err}
}

// Add saves flight as a favorite. The success toast is shown before the
// gateway answers.
func (f *Favorites) Add(ctx context.Context, flight flights.FlightRecord) Mutation {
	flightID := strings.TrimSpace(flight.ID)
	snapshot := f.begin(flightID, func(items []flights.FlightRecord) []flights.FlightRecord {
		if indexOf(items, flightID) >= 0 {
			return items
		}
		return append(items, flight)
	})
	f.toaster.Push(NewToast(ToastSuccess, "Saved to favorites", flight.FlightNumber))

	err := f.src.AddFavorite(ctx, flightID)
	switch {
	case err == nil:
		return f.confirm(flightID)
	case errors.Is(err, ErrLoginRequired):
		m := f.rollback(flightID, snapshot, err)
		f.toaster.Push(NewToast(ToastInfo, "Login required", "Sign in to save favorites."))
		m.Redirect = SignInRedirect
		return m
	default:
		log.Err(err).Str("flight_id", flightID).Msg("save favorite failed")
		f.toaster.Push(NewToast(ToastError, "Couldn't save", err.Error()))
		return f.rollback(flightID, snapshot, err)
	}
}

// Remove drops a favorite. A flight the gateway no longer knows (404) counts
// as removed.
func (f *Favorites) Remove(ctx context.Context, flightID string) Mutation {
	flightID = strings.TrimSpace(flightID)
	snapshot := f.begin(flightID, func(items []flights.FlightRecord) []flights.FlightRecord {
		if i := indexOf(items, flightID); i >= 0 {
			return append(items[:i], items[i+1:]...)
		}
		return items
	})

	err := f.src.RemoveFavorite(ctx, flightID)
	switch {
	case err == nil, IsStatus(err, http.StatusNotFound):
		f.toaster.Push(NewToast(ToastSuccess, "Removed from favorites", ""))
		return f.confirm(flightID)
	case errors.Is(err, ErrLoginRequired):
		m := f.rollback(flightID, snapshot, err)
		f.toaster.Push(NewToast(ToastInfo, "Login required", "Sign in to manage favorites."))
		m.Redirect = FavoritesSignInRedirect
		return m
	default:
		log.Err(err).Str("flight_id", flightID).Msg("remove favorite failed")
		f.toaster.Push(NewToast(ToastError, "Couldn't remove", err.Error()))
		return f.rollback(flightID, snapshot, err)
	}
}
