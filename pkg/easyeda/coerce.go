package easyeda

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Tolerant scalar conversion used by every field extractor. Each helper
// returns the supplied default for missing, empty or unparsable input.

// ToFloat converts v to a float64. Strings are trimmed before parsing.
func ToFloat(v any, def float64) float64 {
	f, ok := asFloat(v)
	if !ok {
		return def
	}
	return f
}

// ToInt converts v to an int. Float strings such as "1.0" or "-2.7" are
// accepted and truncated toward zero. Values outside the int range yield def.
func ToInt(v any, def int) int {
	f, ok := asFloat(v)
	if !ok || math.IsNaN(f) || f >= math.MaxInt || f < math.MinInt {
		return def
	}
	return int(math.Trunc(f))
}

// ToBool converts v to a bool. The strings "true", "1", "yes" and "on" are
// true (case-insensitive); any other string is interpreted by the truthiness
// of its integer value, falling back to def when it is not an integer.
func ToBool(v any, def bool) bool {
	switch t := v.(type) {
	case nil:
		return def
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		if s == "" {
			return def
		}
		switch s {
		case "true", "1", "yes", "on":
			return true
		}
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return def
		}
		return n != 0
	}

	f, ok := asFloat(v)
	if !ok {
		return def
	}
	return math.Trunc(f) != 0
}

// ToString renders v as a string. JSON numbers are formatted without a
// trailing ".0" so that header values survive the round trip unchanged.
func ToString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

// asFloat is the shared numeric path for ToFloat and ToInt.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case nil:
		return 0, false
	case string:
		return parseFloat(t)
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int32:
		return float64(t), true
	case int64:
		return float64(t), true
	case uint:
		return float64(t), true
	case uint64:
		return float64(t), true
	case bool:
		if t {
			return 1, true
		}
		return 0, true
	case fmt.Stringer:
		// json.Number and friends
		return parseFloat(t.String())
	default:
		return 0, false
	}
}

func parseFloat(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
