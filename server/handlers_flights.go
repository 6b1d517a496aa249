package server

import (
	"net/http"

	"github.com/BrikenaAhmeti/WP25G10-frontend/backend"
	"github.com/rs/zerolog/log"
)

const (
	messageFlightsFailed = "Failed to load flights"
	messageStatsFailed   = "Failed to load flight stats"
)

// FlightsHandler proxies the flight list (GET /api/flights)
func (s *Server) FlightsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := s.backendClient()
		if err != nil {
			writeBackendError(w, r, err, messageFlightsFailed)
			return
		}

		records, err := client.ListFlights(r.Context(), r.URL.Query(), bearerToken(r))
		if err != nil {
			writeBackendError(w, r, err, messageFlightsFailed)
			return
		}
		writeJSON(w, http.StatusOK, records)
	}
}

// FlightStatsHandler proxies the operations summary (GET /api/flights/stats).
// A success body is passed through as sent so fields the board does not know survive.
func (s *Server) FlightStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		client, err := s.backendClient()
		if err != nil {
			writeBackendError(w, r, err, messageStatsFailed)
			return
		}

		resp, err := client.FlightStatsRaw(r.Context(), r.URL.Query().Get("date"), bearerToken(r))
		if err != nil {
			writeBackendError(w, r, err, messageStatsFailed)
			return
		}
		if !resp.OK() {
			writeBackendError(w, r, &backend.UpstreamError{StatusCode: resp.StatusCode, Message: resp.Text()}, messageStatsFailed)
			return
		}

		contentType := resp.ContentType
		if contentType == "" {
			contentType = contentTypeJSON
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(resp.StatusCode)
		if _, err := w.Write(resp.Body); err != nil {
			log.Err(err).Msg("Failed to write stats response")
		}
	}
}
