package schema

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeNumber(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		min, max float64
		fallback float64
		want     float64
	}{
		{"in range", 420.5, 0, 3000, 0, 420.5},
		{"clamped low", -5.0, 0, 100, 50, 0},
		{"clamped high", 250.0, 0, 100, 50, 100},
		{"numeric string", "385.2", 0, 3000, 0, 385.2},
		{"nil is missing", nil, 0, 100, 42, 42},
		{"empty string is missing", "", 0, 100, 42, 42},
		{"UNK sentinel", "UNK", 0, 100, 42, 42},
		{"null string sentinel", "null", 0, 100, 42, 42},
		{"non-numeric text", "high", 0, 100, 42, 42},
		{"NaN", math.NaN(), 0, 100, 42, 42},
		{"positive infinity", math.Inf(1), 0, 100, 42, 42},
		{"json.Number", json.Number("3.14"), 0, 100, 0, 3.14},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeNumber(tt.value, tt.min, tt.max, tt.fallback)
			assert.Equal(t, tt.want, got)
			assert.False(t, math.IsNaN(got) || math.IsInf(got, 0), "result must be finite")
		})
	}
}

func TestCompleteness(t *testing.T) {
	assert.Equal(t, float64(0), Completeness(nil))
	assert.Equal(t, float64(0), Completeness(map[string]any{}))
	assert.Equal(t, float64(100), Completeness(map[string]any{"a": 1.0, "b": "x"}))
	assert.Equal(t, float64(50), Completeness(map[string]any{"a": 1.0, "b": nil}))
	assert.Equal(t, float64(25), Completeness(map[string]any{
		"a": 1.0, "b": nil, "c": "", "d": "UNK",
	}))
}

func TestParseNumber_Sentinels(t *testing.T) {
	for _, v := range []any{nil, "", "  ", "UNK", "unk", "null", true, []any{}} {
		_, ok := parseNumber(v)
		assert.False(t, ok, "value %#v should not parse", v)
	}
	n, ok := parseNumber(" 42.5 ")
	assert.True(t, ok)
	assert.Equal(t, 42.5, n)
}
