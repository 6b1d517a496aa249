package flights_test

import (
	"encoding/json"
	"testing"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("camelCase payload", func(t *testing.T) {
		r := flights.Normalize(map[string]any{
			"id":                 json.Number("17"),
			"flightNumber":       "W6 4301",
			"flightCode":         "W64301",
			"airlineName":        "Wizz Air",
			"airlineCode":        "W6",
			"originAirport":      "PRN",
			"destinationAirport": "LTN",
			"departureDateTime":  "2025-06-01T10:30:00",
			"gateTerminal":       "T1",
			"gateCode":           "A4",
			"status":             "Scheduled",
		})
		require.Equal(t, "17", r.ID)
		require.Equal(t, "W64301", r.FlightCode)
		require.Equal(t, "Wizz Air", r.AirlineName)
		require.Equal(t, "2025-06-01T10:30:00", utils.Value(r.DepartureDateTime))
		require.Equal(t, "2025-06-01T10:30:00", utils.Value(r.DepartureTime))
		require.Nil(t, r.ArrivalDateTime)
		require.Nil(t, r.ArrivalTime)
		require.Equal(t, "T1", utils.Value(r.GateTerminal))
		require.Equal(t, "A4", utils.Value(r.GateCode))
	})

	t.Run("PascalCase with legacy time aliases", func(t *testing.T) {
		r := flights.Normalize(map[string]any{
			"Id":            json.Number("9"),
			"FlightNumber":  "LH1422",
			"AirlineCode":   "LH",
			"ArrivalTime":   "2025-06-01T12:00:00Z",
			"DepartureTime": "2025-06-01T09:00:00Z",
			"Status":        "Delayed",
		})
		require.Equal(t, "9", r.ID)
		require.Equal(t, "LH1422", r.FlightNumber)
		require.Equal(t, "LH1422", r.FlightCode)
		require.Equal(t, "LH", r.AirlineCode)
		require.Equal(t, "Delayed", r.Status)
		require.Equal(t, utils.Value(r.ArrivalDateTime), utils.Value(r.ArrivalTime))
		require.Equal(t, "2025-06-01T12:00:00Z", utils.Value(r.ArrivalDateTime))
		require.Equal(t, utils.Value(r.DepartureDateTime), utils.Value(r.DepartureTime))
	})

	t.Run("camelCase wins over PascalCase", func(t *testing.T) {
		r := flights.Normalize(map[string]any{"status": "Landed", "Status": "Scheduled"})
		require.Equal(t, "Landed", r.Status)
	})

	t.Run("null and missing required fields become empty strings", func(t *testing.T) {
		r := flights.Normalize(map[string]any{"id": "x", "airlineName": nil})
		require.Empty(t, r.AirlineName)
		require.Empty(t, r.FlightNumber)
		require.Empty(t, r.FlightCode)
		require.Empty(t, r.Status)
		require.Nil(t, r.GateTerminal)
		require.Nil(t, r.GateCode)
	})

	t.Run("empty date falls through to next alias", func(t *testing.T) {
		r := flights.Normalize(map[string]any{"departureDateTime": "", "departureTime": "2025-06-01T08:00:00"})
		require.Equal(t, "2025-06-01T08:00:00", utils.Value(r.DepartureDateTime))
		require.Equal(t, "2025-06-01T08:00:00", utils.Value(r.DepartureTime))
	})

	t.Run("empty date alone is absent", func(t *testing.T) {
		r := flights.Normalize(map[string]any{"arrivalDateTime": ""})
		require.Nil(t, r.ArrivalDateTime)
		require.Nil(t, r.ArrivalTime)
	})

	t.Run("scalars are coerced", func(t *testing.T) {
		r := flights.Normalize(map[string]any{"flightNumber": json.Number("1234"), "status": true})
		require.Equal(t, "1234", r.FlightNumber)
		require.Equal(t, "true", r.Status)
	})
}

func TestNormalizeList(t *testing.T) {
	t.Run("array", func(t *testing.T) {
		body := []byte(`[{"Id": 1, "FlightNumber": "A1"}, {"id": 12345678901234567890, "flightNumber": "B2", "gateCode": null}]`)
		records, ok := flights.NormalizeList(body)
		require.True(t, ok)
		require.Len(t, records, 2)
		require.Equal(t, "1", records[0].ID)
		require.Equal(t, "12345678901234567890", records[1].ID)
		require.Nil(t, records[1].GateCode)
	})

	t.Run("not an array", func(t *testing.T) {
		records, ok := flights.NormalizeList([]byte(`{"message":"nope"}`))
		require.False(t, ok)
		require.NotNil(t, records)
		require.Empty(t, records)
	})

	t.Run("optional fields are omitted from json", func(t *testing.T) {
		records, ok := flights.NormalizeList([]byte(`[{"id":"1"}]`))
		require.True(t, ok)
		b, err := json.Marshal(records[0])
		require.NoError(t, err)
		require.NotContains(t, string(b), "departureDateTime")
		require.NotContains(t, string(b), "gateCode")
		require.Contains(t, string(b), `"status":""`)
	})
}

func TestDecodeStats(t *testing.T) {
	s, err := flights.DecodeStats([]byte(`{"Date":"2025-06-01","arrivalsToday":10,"DeparturesToday":12,"delayedToday":3,"next60Count":4,"activeGates":7}`))
	require.NoError(t, err)
	require.Equal(t, flights.Stats{Date: "2025-06-01", ArrivalsToday: 10, DeparturesToday: 12, DelayedToday: 3, Next60Count: 4, ActiveGates: 7}, s)
	require.Equal(t, 22, s.FlightsToday())
	require.Equal(t, 86, s.OnTimeToday())

	_, err = flights.DecodeStats([]byte(`not json`))
	require.Error(t, err)

	t.Run("numeric strings and floats", func(t *testing.T) {
		s, err := flights.DecodeStats([]byte(`{"date":"2025-06-01","arrivalsToday":"12","DeparturesToday":3.0,"delayedToday":" 2 ","next60Count":"n/a","onTimeRate":0.9}`))
		require.NoError(t, err)
		require.Equal(t, flights.Stats{Date: "2025-06-01", ArrivalsToday: 12, DeparturesToday: 3, DelayedToday: 2}, s)
		require.Equal(t, 15, s.FlightsToday())
	})
}
