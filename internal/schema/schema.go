// Package schema validates and repairs upstream space-weather payloads
// before they reach the quality pipeline's consumers.
//
// Each upstream feed format has a dedicated validator that parses the raw
// payload into its known normalized shape or fails with explicit path
// errors. Sentinel values the feeds use for "no data" (null, "", "UNK",
// -9999-style magic numbers) and physically implausible readings are
// repaired or dropped rather than propagated; only structural violations
// (wrong JSON shape, non-numeric text where a number belongs, missing
// columns) count against validity.
package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ValidationResult is the outcome of validating one raw payload.
// Data holds the normalized payload when the input was at least partially
// parseable, even if Valid is false. Errors are "path: message" strings.
type ValidationResult struct {
	Valid        bool
	Data         json.RawMessage
	Quality      float64 // 100 when valid, 0 otherwise
	Completeness float64 // 0-100
	Errors       []string
}

// Validator parses a raw upstream payload against one known feed format.
// Implementations never panic; every problem is reported in the result.
type Validator interface {
	Validate(raw []byte) ValidationResult
}

// valid builds a passing result around normalized data.
func valid(data json.RawMessage, completeness float64) ValidationResult {
	return ValidationResult{Valid: true, Data: data, Quality: 100, Completeness: completeness}
}

// invalid builds a failing result. Normalized data may still be attached by
// the caller when a subset of the payload was usable.
func invalid(errs []string) ValidationResult {
	return ValidationResult{Valid: false, Quality: 0, Errors: errs}
}

// SanitizeNumber coerces an arbitrary JSON value to a number within
// [min, max]. Missing values, non-numeric values, NaN, and infinities
// yield fallback; finite values outside the range are clamped. The result
// is always finite.
func SanitizeNumber(v any, min, max, fallback float64) float64 {
	n, ok := parseNumber(v)
	if !ok || math.IsNaN(n) || math.IsInf(n, 0) {
		return fallback
	}
	if n < min {
		return min
	}
	if n > max {
		return max
	}
	return n
}

// parseNumber extracts a float64 from the value shapes JSON decoding can
// produce. Empty strings and the NOAA "UNK" sentinel are treated as
// missing, not as parse errors.
func parseNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" || strings.EqualFold(s, "UNK") || strings.EqualFold(s, "null") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// missing reports whether a JSON value represents "no data": null, empty
// string, or the UNK sentinel.
func missing(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		return s == "" || strings.EqualFold(s, "UNK") || strings.EqualFold(s, "null")
	}
	return false
}

// Completeness returns the percentage of top-level fields in a record that
// carry data (non-null, non-empty). An empty record is 0% complete.
func Completeness(record map[string]any) float64 {
	if len(record) == 0 {
		return 0
	}
	present := 0
	for _, v := range record {
		if !missing(v) {
			present++
		}
	}
	return float64(present) / float64(len(record)) * 100
}
