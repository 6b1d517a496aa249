package flights

import (
	"strings"
	"time"
)

// Focus narrows the board beyond the regular filters.
type Focus string

const (
	FocusAll     Focus = "all"
	FocusNext60  Focus = "next60"
	FocusDelayed Focus = "delayed"
)

const focusWindow = 60 * time.Minute

func ParseFocus(s string) Focus {
	switch Focus(strings.ToLower(strings.TrimSpace(s))) {
	case FocusNext60:
		return FocusNext60
	case FocusDelayed:
		return FocusDelayed
	default:
		return FocusAll
	}
}

// FilterState is the client-side view state of the flight board.
type FilterState struct {
	Board       Board
	Search      string
	Date        string // YYYY-MM-DD, empty for any day
	DelayedOnly bool
	Focus       Focus
}

// DelayedActive reports whether only delayed flights should be shown.
func (f FilterState) DelayedActive() bool {
	return f.DelayedOnly || f.Focus == FocusDelayed
}

func (f FilterState) HasAnyFilter() bool {
	return strings.TrimSpace(f.Search) != "" || f.Date != "" || f.DelayedOnly
}

// Clear resets every filter but keeps the board selection.
func (f FilterState) Clear() FilterState {
	return FilterState{Board: f.Board, Focus: FocusAll}
}

// Apply filters an already fetched list. It never touches the network and
// returns a new slice, leaving records untouched.
func (f FilterState) Apply(records []FlightRecord, now time.Time) []FlightRecord {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	date := strings.TrimSpace(f.Date)
	delayed := f.DelayedActive()

	out := make([]FlightRecord, 0, len(records))
	for _, r := range records {
		if search != "" && !Matches(r, search) {
			continue
		}
		if date != "" && !onDate(r.BoardTime(f.Board), date, now.Location()) {
			continue
		}
		if delayed && !r.IsDelayed() {
			continue
		}
		if f.Focus == FocusNext60 && !withinNext60(r.BoardTime(f.Board), now) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Search keeps the records matching text, ignoring case. Blank text keeps everything.
func Search(records []FlightRecord, text string) []FlightRecord {
	return FilterState{Search: text}.Apply(records, time.Now())
}

// Matches reports whether the lower-cased needle occurs in any searchable field.
func Matches(r FlightRecord, needle string) bool {
	needle = strings.ToLower(needle)
	for _, field := range []string{r.FlightNumber, r.FlightCode, r.AirlineName, r.AirlineCode, r.Route(), r.Status} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func onDate(ts, date string, loc *time.Location) bool {
	if t, ok := ParseTime(ts, loc); ok {
		return t.In(loc).Format(time.DateOnly) == date
	}
	return len(ts) >= len(time.DateOnly) && ts[:len(time.DateOnly)] == date
}

func withinNext60(ts string, now time.Time) bool {
	t, ok := ParseTime(ts, now.Location())
	if !ok {
		return false
	}
	return !t.Before(now) && !t.After(now.Add(focusWindow))
}

// CountNext60 counts flights whose board time falls in the coming hour.
func CountNext60(records []FlightRecord, board Board, now time.Time) int {
	count := 0
	for _, r := range records {
		if withinNext60(r.BoardTime(board), now) {
			count++
		}
	}
	return count
}
