package flights_test

import (
	"testing"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/stretchr/testify/require"
)

func flight(id, number, status, dep, arr string) flights.FlightRecord {
	r := flights.FlightRecord{
		ID:                 id,
		FlightNumber:       number,
		FlightCode:         number,
		AirlineName:        "Air Prishtina",
		AirlineCode:        "AP",
		OriginAirport:      "PRN",
		DestinationAirport: "IST",
		Status:             status,
	}
	if dep != "" {
		r.DepartureDateTime, r.DepartureTime = utils.Ptr(dep), utils.Ptr(dep)
	}
	if arr != "" {
		r.ArrivalDateTime, r.ArrivalTime = utils.Ptr(arr), utils.Ptr(arr)
	}
	return r
}

func ids(records []flights.FlightRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterState_Apply(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	records := []flights.FlightRecord{
		flight("1", "AP100", "Scheduled", "2025-06-01T10:30:00Z", "2025-06-01T13:00:00Z"),
		flight("2", "AP200", "Delayed", "2025-06-01T12:00:00Z", "2025-06-01T10:45:00Z"),
		flight("3", "TK300", "Landed", "2025-06-02T09:00:00Z", "2025-06-02T11:00:00Z"),
		flight("4", "TK400", "Scheduled", "", ""),
	}

	t.Run("no filters keeps everything", func(t *testing.T) {
		require.Equal(t, []string{"1", "2", "3", "4"}, ids(flights.FilterState{Board: flights.BoardArrivals}.Apply(records, now)))
	})

	t.Run("search is case insensitive across fields", func(t *testing.T) {
		f := flights.FilterState{Search: "tk"}
		require.Equal(t, []string{"3", "4"}, ids(f.Apply(records, now)))

		f.Search = "prn ist"
		require.Len(t, f.Apply(records, now), 4)

		f.Search = "delayed"
		require.Equal(t, []string{"2"}, ids(f.Apply(records, now)))
	})

	t.Run("date uses the board timestamp", func(t *testing.T) {
		f := flights.FilterState{Board: flights.BoardDepartures, Date: "2025-06-02"}
		require.Equal(t, []string{"3"}, ids(f.Apply(records, now)))
	})

	t.Run("delayed only", func(t *testing.T) {
		f := flights.FilterState{DelayedOnly: true}
		require.Equal(t, []string{"2"}, ids(f.Apply(records, now)))

		f = flights.FilterState{Focus: flights.FocusDelayed}
		require.Equal(t, []string{"2"}, ids(f.Apply(records, now)))
	})

	t.Run("next60 on arrivals uses arrival time", func(t *testing.T) {
		f := flights.FilterState{Board: flights.BoardArrivals, Focus: flights.FocusNext60}
		require.Equal(t, []string{"2"}, ids(f.Apply(records, now)))
	})

	t.Run("next60 on departures uses departure time", func(t *testing.T) {
		f := flights.FilterState{Board: flights.BoardDepartures, Focus: flights.FocusNext60}
		require.Equal(t, []string{"1"}, ids(f.Apply(records, now)))
		require.Equal(t, 1, flights.CountNext60(records, flights.BoardDepartures, now))
	})

	t.Run("input is not modified", func(t *testing.T) {
		_ = flights.FilterState{Search: "zzz"}.Apply(records, now)
		require.Len(t, records, 4)
		require.Equal(t, "1", records[0].ID)
	})
}

func TestFilterState_Helpers(t *testing.T) {
	f := flights.FilterState{Board: flights.BoardDepartures, Search: "x", Date: "2025-06-01", DelayedOnly: true, Focus: flights.FocusNext60}
	require.True(t, f.HasAnyFilter())
	cleared := f.Clear()
	require.Equal(t, flights.BoardDepartures, cleared.Board)
	require.False(t, cleared.HasAnyFilter())
	require.Equal(t, flights.FocusAll, cleared.Focus)

	require.Equal(t, flights.BoardArrivals, flights.ParseBoard(""))
	require.Equal(t, flights.BoardDepartures, flights.ParseBoard("Departures"))
	require.Equal(t, flights.FocusNext60, flights.ParseFocus("next60"))
	require.Equal(t, flights.FocusAll, flights.ParseFocus("bogus"))
}

func TestFlightRecord_Display(t *testing.T) {
	r := flight("1", "W6 4301", "Scheduled", "", "")
	require.Equal(t, "—", r.GateLabel())
	r.GateTerminal = utils.Ptr("T1")
	require.Equal(t, "T1", r.GateLabel())
	require.Equal(t, "https://www.flightaware.com/live/flight/W64301", r.FlightAwareURL())
	require.Equal(t, "PRN IST", r.Route())
}

func TestFlightRecord_Times(t *testing.T) {
	var r flights.FlightRecord
	require.Empty(t, r.Departure())
	require.Empty(t, r.Arrival())

	r.DepartureTime = utils.Ptr("08:00")
	r.ArrivalTime = utils.Ptr("10:00")
	require.Equal(t, "08:00", r.Departure())
	require.Equal(t, "10:00", r.Arrival())

	r.DepartureDateTime = utils.Ptr("2025-06-01T08:05:00Z")
	r.ArrivalDateTime = utils.Ptr("2025-06-01T10:05:00Z")
	require.Equal(t, "2025-06-01T08:05:00Z", r.Departure())
	require.Equal(t, "2025-06-01T10:05:00Z", r.Arrival())
}

func TestSearch(t *testing.T) {
	records := []flights.FlightRecord{flight("1", "AP100", "Scheduled", "", ""), flight("2", "TK1", "Boarding", "", "")}
	require.Len(t, flights.Search(records, ""), 2)
	require.Equal(t, []string{"2"}, ids(flights.Search(records, "board")))
}
