package utils

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ScalarString renders a decoded JSON value as text. Numbers keep their literal
// form when decoded with UseNumber, booleans become "true"/"false" and nested
// values are re-encoded as compact JSON. The second result is false for nil.
func ScalarString(v any) (string, bool) {
	switch value := v.(type) {
	case nil:
		return "", false
	case string:
		return value, true
	case json.Number:
		return value.String(), true
	case bool:
		return strconv.FormatBool(value), true
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64), true
	case int:
		return strconv.Itoa(value), true
	case int64:
		return strconv.FormatInt(value, 10), true
	default:
		b, err := json.Marshal(value)
		if err != nil {
			return "", false
		}
		return string(b), true
	}
}

// FirstNonBlank returns the first value that is not empty after trimming.
func FirstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
