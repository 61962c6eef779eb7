// Package validation provides parameter validation for MCP operations.
// Every range and enum check the endpoint families share lives here so
// handlers stay mechanical.
package validation

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// DefaultLimit is applied when a pagination limit is omitted
	DefaultLimit = 20
	// MaxLimit is the inclusive upper bound for pagination limits
	MaxLimit = 100
)

// SortDirections are the accepted values for sort parameters
var SortDirections = []string{"asc", "desc"}

// CandleIntervals are the accepted kline intervals
var CandleIntervals = []string{"1m", "5m", "15m", "1h", "4h", "1d"}

// TimeWindows are the accepted aggregation windows for ranking queries
var TimeWindows = []string{"1h", "6h", "24h", "7d"}

// Limit validates a pagination limit. A nil value yields DefaultLimit;
// out-of-range values are rejected, not clamped.
func Limit(value *int) (int, error) {
	if value == nil {
		return DefaultLimit, nil
	}
	if *value < 1 || *value > MaxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d, got %d", MaxLimit, *value)
	}
	return *value, nil
}

// SortDirection validates a sort direction, defaulting to desc
func SortDirection(value string) (string, error) {
	if value == "" {
		return "desc", nil
	}
	return Enum("sort", value, SortDirections)
}

// CandleInterval validates a kline interval, defaulting to 1h
func CandleInterval(value string) (string, error) {
	if value == "" {
		return "1h", nil
	}
	return Enum("interval", value, CandleIntervals)
}

// TimeWindow validates an aggregation window, defaulting to 24h
func TimeWindow(value string) (string, error) {
	if value == "" {
		return "24h", nil
	}
	return Enum("window", value, TimeWindows)
}

// Enum checks membership in a fixed value list, case-insensitively
func Enum(field, value string, allowed []string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range allowed {
		if normalized == candidate {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid %s %q, allowed values: %s", field, value, strings.Join(allowed, ", "))
}

// Cursor validates an opaque pagination cursor. Cursors are forwarded
// to the SDK untouched; only emptiness after trimming is rejected.
func Cursor(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if value != "" && trimmed == "" {
		return "", fmt.Errorf("cursor must not be blank")
	}
	return trimmed, nil
}

// PositiveDecimal validates an amount expressed as a decimal string.
// Amounts ride as strings end to end so precision is never lost to
// float conversion.
func PositiveDecimal(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return "", fmt.Errorf("%s must be a decimal number, got %q", field, value)
	}
	if parsed <= 0 {
		return "", fmt.Errorf("%s must be positive, got %q", field, value)
	}
	return trimmed, nil
}

// Slippage validates a swap slippage fraction in (0, 0.5]
func Slippage(value float64) (float64, error) {
	if value == 0 {
		return 0.01, nil
	}
	if value < 0 || value > 0.5 {
		return 0, fmt.Errorf("slippage must be between 0 and 0.5, got %v", value)
	}
	return value, nil
}

// RequiredString rejects empty or blank required fields
func RequiredString(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", field)
	}
	return trimmed, nil
}
