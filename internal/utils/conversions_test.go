package utils_test

import (
	"encoding/json"
	"testing"

	"github.com/BrikenaAhmeti/WP25G10-frontend/internal/utils"
	"github.com/stretchr/testify/require"
)

func TestScalarString(t *testing.T) {
	tests := []struct {
		name  string
		in    any
		want  string
		found bool
	}{
		{"nil", nil, "", false},
		{"string", "AB123", "AB123", true},
		{"json number", json.Number("42"), "42", true},
		{"float", float64(7), "7", true},
		{"bool", true, "true", true},
		{"object", map[string]any{"a": "b"}, `{"a":"b"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := utils.ScalarString(tt.in)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.found, found)
		})
	}
}

func TestFirstNonBlank(t *testing.T) {
	require.Equal(t, "b", utils.FirstNonBlank("", "  ", "b", "c"))
	require.Empty(t, utils.FirstNonBlank("", " "))
}

func TestPointerHelpers(t *testing.T) {
	require.Equal(t, "", utils.Value[string](nil))
	require.Equal(t, "x", utils.Value(utils.Ptr("x")))

	require.Nil(t, utils.FirstSet[string](nil, nil))
	require.Equal(t, "b", *utils.FirstSet[string](nil, utils.Ptr("b"), utils.Ptr("c")))
	require.Equal(t, 0, utils.Value(utils.FirstSet[int]()))
}
