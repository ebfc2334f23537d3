// Package jsvalue implements the loose value coercions the rule engine relies
// on: best-effort number conversion, truthiness and string forms. Form values
// arrive from widgets as strings, booleans, numbers or lists, and every rule is
// evaluated against those raw values without a typed schema in between.
package jsvalue

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
)

// Number converts value to a float64. Values that do not describe a number
// yield NaN; the empty string and empty lists yield 0.
func Number(value any) float64 {
	switch v := value.(type) {
	case nil:
		return math.NaN()
	case bool:
		if v {
			return 1
		}
		return 0
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int8:
		return float64(v)
	case int16:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint:
		return float64(v)
	case uint8:
		return float64(v)
	case uint16:
		return float64(v)
	case uint32:
		return float64(v)
	case uint64:
		return float64(v)
	case string:
		return parseNumber(v)
	case []byte:
		return parseNumber(string(v))
	case []any:
		switch len(v) {
		case 0:
			return 0
		case 1:
			return parseNumber(String(v[0]))
		default:
			return math.NaN()
		}
	case []string:
		switch len(v) {
		case 0:
			return 0
		case 1:
			return parseNumber(v[0])
		default:
			return math.NaN()
		}
	default:
		return math.NaN()
	}
}

// IsNumeric reports whether value is a Go numeric value (including NaN and
// infinities). Numeric strings are not numeric values.
func IsNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}

// Truthy reports whether value counts as true in a boolean context. nil,
// false, 0, NaN and the empty string are falsy; everything else, including
// empty lists and maps, is truthy.
func Truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case []byte:
		return len(v) > 0
	}
	if IsNumeric(value) {
		n := Number(value)
		return n != 0 && !math.IsNaN(n)
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return !rv.IsNil()
	}
	return true
}

// Empty reports whether value is falsy or a zero-length string, list or map.
func Empty(value any) bool {
	if !Truthy(value) {
		return true
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

// Or returns value when it is truthy and fallback otherwise.
func Or(value, fallback any) any {
	if Truthy(value) {
		return value
	}
	return fallback
}

// String returns the string form of value. Numbers use FormatNumber, lists
// join their elements with commas and nil becomes the empty string.
func String(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case bool:
		return strconv.FormatBool(v)
	case fmt.Stringer:
		return v.String()
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = String(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(v, ",")
	case map[string]any:
		return "[object Object]"
	}
	if reflect.ValueOf(value).Kind() == reflect.Map {
		return "[object Object]"
	}
	if IsNumeric(value) {
		return FormatNumber(Number(value))
	}
	return fmt.Sprint(value)
}

// FormatNumber renders f using the shortest representation that round-trips.
// Magnitudes of 1e21 and above or below 1e-6 use exponent notation.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e21 || abs < 1e-6 {
		out := strconv.FormatFloat(f, 'e', -1, 64)
		mantissa, exponent, _ := strings.Cut(out, "e")
		sign := exponent[:1]
		digits := strings.TrimLeft(exponent[1:], "0")
		if digits == "" {
			digits = "0"
		}
		return mantissa + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseNumber(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	switch s {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(s[2:], base, 64)
			if err != nil || strings.Contains(s, "_") {
				return math.NaN()
			}
			return float64(n)
		}
	}

	if !isDecimalLiteral(s) {
		return math.NaN()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f
		}
		return math.NaN()
	}
	return f
}

// isDecimalLiteral accepts [sign] digits [. digits] [e [sign] digits] where
// either the integer or fraction part may be empty, but not both.
func isDecimalLiteral(s string) bool {
	i := 0
	if s[i] == '+' || s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
