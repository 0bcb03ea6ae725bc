// normalize.go - Numeric and quantity normalization for AI output

package processor

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// SafeNum coerces an arbitrary decoded JSON value to a finite number rounded
// to the nearest integer. Anything non-numeric (nil, bools, objects, unparsable
// strings, NaN, Inf) becomes 0. Total: never panics, never returns non-finite.
func SafeNum(v interface{}) float64 {
	return math.Round(ToNumber(v, 0))
}

// ToNumber coerces an arbitrary decoded JSON value to a finite float64,
// returning fallback when no finite number can be recovered. No rounding.
func ToNumber(v interface{}, fallback float64) float64 {
	switch n := v.(type) {
	case nil:
		return fallback
	case float64:
		if !isFinite(n) {
			return fallback
		}
		return n
	case float32:
		return ToNumber(float64(n), fallback)
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil && isFinite(f) {
			return f
		}
		return fallback
	case string:
		return parseNumericString(n, fallback)
	default:
		return fallback
	}
}

func parseNumericString(s string, fallback float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}

	// Models sometimes emit "1,5" or "120 g" or "~250"
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimLeft(s, "~≈")

	if f, err := strconv.ParseFloat(s, 64); err == nil && isFinite(f) {
		return f
	}

	// Fall back to the leading numeric run ("120 g" -> 120)
	if m := leadingNumberPattern.FindString(s); m != "" {
		if f, err := strconv.ParseFloat(m, 64); err == nil && isFinite(f) {
			return f
		}
	}

	return fallback
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var leadingNumberPattern = regexp.MustCompile(`^-?\d+(?:\.\d+)?`)

// quantityPattern matches a numeric quantity followed by a known unit.
// Volume units come first so "330 ml" is never re-read as a mass.
var quantityPattern = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(ml|milliliters?|l|liters?|fl\s*oz|cups?|tbsp|tsp|kg|kilograms?|g|grams?|mg|oz|ounces?|lbs?|pounds?|pieces?|pcs|slices?|servings?|scoops?|cans?|bottles?|packs?|bars?|eggs?)\b`)

// ExtractQuantityFromText scans free text for the first explicit quantity
// ("330 ml", "2 slices", "1.5 cups") and returns it as "<value> <unit>".
// Returns "" when no quantity is found.
func ExtractQuantityFromText(text string) string {
	if text == "" {
		return ""
	}

	m := quantityPattern.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	value := strings.ReplaceAll(m[1], ",", ".")
	unit := strings.ToLower(strings.Join(strings.Fields(m[2]), " "))
	return fmt.Sprintf("%s %s", value, unit)
}
