package flights

import (
	"bytes"
	"encoding/json"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
)

// Aliases accepted for each canonical field, in order of preference.
var (
	idKeys           = []string{"id", "Id", "ID"}
	flightNumberKeys = []string{"flightNumber", "FlightNumber"}
	flightCodeKeys   = []string{"flightCode", "FlightCode", "flightNumber", "FlightNumber"}
	airlineNameKeys  = []string{"airlineName", "AirlineName"}
	airlineCodeKeys  = []string{"airlineCode", "AirlineCode"}
	originKeys       = []string{"originAirport", "OriginAirport"}
	destinationKeys  = []string{"destinationAirport", "DestinationAirport"}
	departureKeys    = []string{"departureDateTime", "DepartureDateTime", "departureTime", "DepartureTime"}
	arrivalKeys      = []string{"arrivalDateTime", "ArrivalDateTime", "arrivalTime", "ArrivalTime"}
	gateTerminalKeys = []string{"gateTerminal", "GateTerminal"}
	gateCodeKeys     = []string{"gateCode", "GateCode"}
	statusKeys       = []string{"status", "Status"}
)

// Normalize maps one backend flight object onto FlightRecord. It never fails:
// unknown keys are ignored and missing required fields become "".
func Normalize(raw map[string]any) FlightRecord {
	departure := optionalField(raw, departureKeys, true)
	arrival := optionalField(raw, arrivalKeys, true)

	return FlightRecord{
		ID:                 requiredField(raw, idKeys),
		FlightNumber:       requiredField(raw, flightNumberKeys),
		FlightCode:         requiredField(raw, flightCodeKeys),
		AirlineName:        requiredField(raw, airlineNameKeys),
		AirlineCode:        requiredField(raw, airlineCodeKeys),
		OriginAirport:      requiredField(raw, originKeys),
		DestinationAirport: requiredField(raw, destinationKeys),
		DepartureDateTime:  departure,
		DepartureTime:      copyPtr(departure),
		ArrivalDateTime:    arrival,
		ArrivalTime:        copyPtr(arrival),
		GateTerminal:       optionalField(raw, gateTerminalKeys, false),
		GateCode:           optionalField(raw, gateCodeKeys, false),
		Status:             requiredField(raw, statusKeys),
	}
}

// NormalizeList decodes a backend list payload. The second result is false
// when the body is not a JSON array; callers then serve an empty list.
func NormalizeList(body []byte) ([]FlightRecord, bool) {
	var items []json.RawMessage
	if err := decode(body, &items); err != nil || items == nil {
		return []FlightRecord{}, false
	}

	records := make([]FlightRecord, 0, len(items))
	for _, item := range items {
		var raw map[string]any
		if err := decode(item, &raw); err != nil || raw == nil {
			continue
		}
		records = append(records, Normalize(raw))
	}
	return records, true
}

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

// lookup returns the first alias present with a non-null value.
func lookup(raw map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		if v, ok := raw[key]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

func requiredField(raw map[string]any, keys []string) string {
	v, ok := lookup(raw, keys)
	if !ok {
		return ""
	}
	s, _ := utils.ScalarString(v)
	return s
}

// optionalField returns nil when no alias is present. Date fields also treat an
// empty string as absent so the next alias gets a chance.
func optionalField(raw map[string]any, keys []string, skipEmpty bool) *string {
	for _, key := range keys {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		s, _ := utils.ScalarString(v)
		if skipEmpty && s == "" {
			continue
		}
		return utils.Ptr(s)
	}
	return nil
}

func copyPtr(p *string) *string {
	if p == nil {
		return nil
	}
	return utils.Ptr(*p)
}
