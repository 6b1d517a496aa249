package flights

import (
	"math"
	"strconv"
	"strings"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
)

// Stats is the operations summary shown above the board.
type Stats struct {
	Date            string `json:"date"`
	ArrivalsToday   int    `json:"arrivalsToday"`
	DeparturesToday int    `json:"departuresToday"`
	DelayedToday    int    `json:"delayedToday"`
	Next60Count     int    `json:"next60Count"`
	ActiveGates     int    `json:"activeGates"`
}

func (s Stats) FlightsToday() int {
	return s.ArrivalsToday + s.DeparturesToday
}

// OnTimeToday is the share of today's flights not delayed, 0..100.
func (s Stats) OnTimeToday() int {
	total := s.FlightsToday()
	if total == 0 {
		return 0
	}
	onTime := total - s.DelayedToday
	if onTime < 0 {
		onTime = 0
	}
	return onTime * 100 / total
}

// DecodeStats reads a backend stats payload, accepting camelCase or PascalCase keys.
func DecodeStats(body []byte) (Stats, error) {
	var raw map[string]any
	if err := decode(body, &raw); err != nil {
		return Stats{}, err
	}
	return Stats{
		Date:            requiredField(raw, []string{"date", "Date"}),
		ArrivalsToday:   intField(raw, "arrivalsToday", "ArrivalsToday"),
		DeparturesToday: intField(raw, "departuresToday", "DeparturesToday"),
		DelayedToday:    intField(raw, "delayedToday", "DelayedToday"),
		Next60Count:     intField(raw, "next60Count", "Next60Count"),
		ActiveGates:     intField(raw, "activeGates", "ActiveGates"),
	}, nil
}

// intField reads a count that may arrive as a number or a numeric string.
func intField(raw map[string]any, keys ...string) int {
	v, ok := lookup(raw, keys)
	if !ok {
		return 0
	}
	text, ok := utils.ScalarString(v)
	if !ok {
		return 0
	}
	text = strings.TrimSpace(text)
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return int(i)
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}
