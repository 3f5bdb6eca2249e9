// Package valueobject contains domain value objects for the clinic finance backend.
package valueobject

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawRecord is an untyped row as read from a source store, keyed by column name.
type RawRecord map[string]any

// Lookup returns the value stored under key. Missing keys, nil values and blank
// strings are reported as absent.
func (r RawRecord) Lookup(key string) (any, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	switch val := v.(type) {
	case string:
		if strings.TrimSpace(val) == "" {
			return nil, false
		}
	case []byte:
		if strings.TrimSpace(string(val)) == "" {
			return nil, false
		}
	case *string:
		if val == nil || strings.TrimSpace(*val) == "" {
			return nil, false
		}
		return *val, true
	}
	return v, true
}

// FieldChain is an ordered list of candidate column names for one canonical field.
// The first present candidate wins.
type FieldChain []string

// Resolve returns the first present value of the chain.
func (c FieldChain) Resolve(r RawRecord) (any, bool) {
	for _, key := range c {
		if v, ok := r.Lookup(key); ok {
			return v, true
		}
	}
	return nil, false
}

// String resolves the chain as a trimmed string, or returns fallback.
func (c FieldChain) String(r RawRecord, fallback string) string {
	v, ok := c.Resolve(r)
	if !ok {
		return fallback
	}
	if s := ToString(v); s != "" {
		return s
	}
	return fallback
}

// Float resolves the chain as a finite number. Absent or non-numeric values yield 0.
func (c FieldChain) Float(r RawRecord) float64 {
	v, ok := c.Resolve(r)
	if !ok {
		return 0
	}
	return ToFloat(v)
}

// Int resolves the chain as an integer, or returns fallback when absent or non-numeric.
func (c FieldChain) Int(r RawRecord, fallback int) int {
	v, ok := c.Resolve(r)
	if !ok {
		return fallback
	}
	f, ok := parseFloat(v)
	if !ok {
		return fallback
	}
	return int(math.Round(f))
}

// ToString converts a raw value to its trimmed textual form.
func ToString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case *string:
		if val == nil {
			return ""
		}
		return strings.TrimSpace(*val)
	case []byte:
		return strings.TrimSpace(string(val))
	case time.Time:
		return val.Format(time.RFC3339)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// ToFloat coerces a raw value to a finite number. Non-numeric values yield 0.
func ToFloat(v any) float64 {
	f, ok := parseFloat(v)
	if !ok {
		return 0
	}
	return f
}

// ParseAmount parses a raw amount, reporting whether it held a finite number.
func ParseAmount(v any) (float64, bool) {
	return parseFloat(v)
}

func parseFloat(v any) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case float64:
		f = val
	case float32:
		f = float64(val)
	case int:
		f = float64(val)
	case int32:
		f = float64(val)
	case int64:
		f = float64(val)
	case uint:
		f = float64(val)
	case uint32:
		f = float64(val)
	case uint64:
		f = float64(val)
	case json.Number:
		parsed, err := val.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case decimal.Decimal:
		f = val.InexactFloat64()
	case bool:
		return 0, false
	default:
		s := ToString(val)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(normalizeNumber(s), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// normalizeNumber strips currency symbols and resolves commas. A single comma
// followed by one or two digits is a decimal separator ("S/ 19,35" -> "19.35");
// comma-grouped thousands are ungrouped ("2,350" -> "2350"). Any other comma
// leaves the string unparseable.
func normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "S/")
	s = strings.TrimPrefix(s, "$")
	s = strings.TrimSpace(s)
	if !strings.Contains(s, ",") {
		return s
	}

	integer, fraction, hasDot := strings.Cut(s, ".")
	if !hasDot && strings.Count(s, ",") == 1 {
		whole, decimals, _ := strings.Cut(s, ",")
		if len(decimals) >= 1 && len(decimals) <= 2 && isDigits(decimals) {
			return whole + "." + decimals
		}
	}
	if !isThousandsGrouped(integer) {
		return s
	}
	ungrouped := strings.ReplaceAll(integer, ",", "")
	if hasDot {
		return ungrouped + "." + fraction
	}
	return ungrouped
}

// isThousandsGrouped reports whether s looks like "1,234" or "-12,345,678".
func isThousandsGrouped(s string) bool {
	s = strings.TrimPrefix(s, "-")
	groups := strings.Split(s, ",")
	if len(groups) < 2 || len(groups[0]) == 0 || len(groups[0]) > 3 || !isDigits(groups[0]) {
		return false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 || !isDigits(g) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
