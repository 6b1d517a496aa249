package flights

import (
	"net/url"
	"strings"
	"time"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
)

// FlightRecord is the canonical flight shape served to clients. Required
// fields are never absent and default to "". Optional fields are nil when the
// backend did not send them.
type FlightRecord struct {
	ID                 string  `json:"id"`
	FlightNumber       string  `json:"flightNumber"`
	FlightCode         string  `json:"flightCode"`
	AirlineName        string  `json:"airlineName"`
	AirlineCode        string  `json:"airlineCode"`
	OriginAirport      string  `json:"originAirport"`
	DestinationAirport string  `json:"destinationAirport"`
	DepartureDateTime  *string `json:"departureDateTime,omitempty"`
	ArrivalDateTime    *string `json:"arrivalDateTime,omitempty"`
	DepartureTime      *string `json:"departureTime,omitempty"`
	ArrivalTime        *string `json:"arrivalTime,omitempty"`
	GateTerminal       *string `json:"gateTerminal,omitempty"`
	GateCode           *string `json:"gateCode,omitempty"`
	Status             string  `json:"status"`
}

// Board selects which timestamp is relevant for a flight list.
type Board string

const (
	BoardArrivals   Board = "arrivals"
	BoardDepartures Board = "departures"
	BoardAll        Board = "all"
)

// ParseBoard maps free text to a Board, defaulting to arrivals.
func ParseBoard(s string) Board {
	switch Board(strings.ToLower(strings.TrimSpace(s))) {
	case BoardDepartures:
		return BoardDepartures
	case BoardAll:
		return BoardAll
	default:
		return BoardArrivals
	}
}

func (f FlightRecord) Departure() string {
	return utils.Value(utils.FirstSet(f.DepartureDateTime, f.DepartureTime))
}

func (f FlightRecord) Arrival() string {
	return utils.Value(utils.FirstSet(f.ArrivalDateTime, f.ArrivalTime))
}

// BoardTime returns the timestamp that matters on the given board: arrival
// for the arrivals board, departure otherwise.
func (f FlightRecord) BoardTime(board Board) string {
	if board == BoardArrivals {
		return f.Arrival()
	}
	return f.Departure()
}

// Route is "origin destination", the text the search box matches against.
func (f FlightRecord) Route() string {
	return strings.TrimSpace(f.OriginAirport + " " + f.DestinationAirport)
}

func (f FlightRecord) IsDelayed() bool {
	return strings.Contains(strings.ToLower(f.Status), "delay")
}

func (f FlightRecord) GateLabel() string {
	var parts []string
	if f.GateTerminal != nil && *f.GateTerminal != "" {
		parts = append(parts, *f.GateTerminal)
	}
	if f.GateCode != nil && *f.GateCode != "" {
		parts = append(parts, *f.GateCode)
	}
	if len(parts) == 0 {
		return "—"
	}
	return strings.Join(parts, " ")
}

// FlightAwareURL links a flight to its public live tracking page.
func (f FlightRecord) FlightAwareURL() string {
	code := strings.ReplaceAll(strings.TrimSpace(f.FlightCode), " ", "")
	if code == "" {
		code = strings.ReplaceAll(strings.TrimSpace(f.FlightNumber), " ", "")
	}
	if code == "" {
		return ""
	}
	return "https://www.flightaware.com/live/flight/" + url.PathEscape(code)
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// ParseTime accepts the ISO-8601 variants the backend emits. Timestamps
// without a zone are read in loc.
func ParseTime(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
