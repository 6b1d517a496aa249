package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/flights"
	apperrors "github.com/BrikenaAhmeti/WP25G10-frontend/internal/errors"
)

const (
	flightsPath      = "/api/FlightsApi"
	flightStatsPath  = "/api/FlightsApi/stats"
	favoritesPath    = "/api/flightsApi/favorites"
	favoritePathTmpl = "/api/flightsApi/%s/favorite"
)

// FlightQueryParams are the only query parameters forwarded to the flight list.
var FlightQueryParams = []string{"board", "search", "date", "delayedOnly", "status", "terminal", "flightStatus", "airlineId", "gateId"}

// FlightQuery keeps the forwarded parameters of q, values unmodified.
func FlightQuery(q url.Values) url.Values {
	out := url.Values{}
	for _, key := range FlightQueryParams {
		if values, ok := q[key]; ok {
			out[key] = append([]string(nil), values...)
		}
	}
	return out
}

// ListFlights fetches and normalises the flight list. token may be empty.
func (c *Client) ListFlights(ctx context.Context, query url.Values, token string) ([]flights.FlightRecord, error) {
	resp, err := c.do(ctx, request{method: http.MethodGet, path: flightsPath, query: FlightQuery(query), token: token})
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, upstreamError(resp)
	}
	records, _ := flights.NormalizeList(resp.Body)
	return records, nil
}

// FlightStats fetches the operations summary for date, or today when blank.
func (c *Client) FlightStats(ctx context.Context, date, token string) (flights.Stats, error) {
	resp, err := c.FlightStatsRaw(ctx, date, token)
	if err != nil {
		return flights.Stats{}, err
	}
	if !resp.OK() {
		return flights.Stats{}, upstreamError(resp)
	}
	stats, err := flights.DecodeStats(resp.Body)
	if err != nil {
		return flights.Stats{}, apperrors.Wrapf(apperrors.ErrUpstream, "decode stats: %v", err)
	}
	return stats, nil
}

// FlightStatsRaw returns the backend stats response untouched, for proxying.
func (c *Client) FlightStatsRaw(ctx context.Context, date, token string) (*Response, error) {
	query := url.Values{}
	if date = strings.TrimSpace(date); date != "" {
		query.Set("date", date)
	}
	return c.do(ctx, request{method: http.MethodGet, path: flightStatsPath, query: query, token: token})
}
