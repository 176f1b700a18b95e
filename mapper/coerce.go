package mapper

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"
)

// Amounts beyond this are treated as garbage input.
const maxCoerced = 1e15

// Coerce converts an arbitrary input value to an integer the way the admin
// forms always have: anything that does not read as a finite number becomes 0.
// Fractions truncate toward zero.
func Coerce(v any) int {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if math.Abs(f) > maxCoerced {
		return 0
	}
	return int(f)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case nil:
		return 0, true
	case bool:
		if n {
			return 1, true
		}
		return 0, true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, true
		}
		if base, ok := radixPrefix(s); ok {
			u, err := strconv.ParseUint(s[2:], base, 64)
			return float64(u), err == nil
		}
		// Digit separators and hex floats are Go syntax, not number input.
		if strings.ContainsAny(s, "_xXpP") {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// radixPrefix reports the base of an unsigned 0x, 0o or 0b literal.
func radixPrefix(s string) (int, bool) {
	if len(s) < 3 || s[0] != '0' {
		return 0, false
	}
	switch s[1] {
	case 'x', 'X':
		return 16, true
	case 'o', 'O':
		return 8, true
	case 'b', 'B':
		return 2, true
	}
	return 0, false
}

func coerceString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32)
	case int:
		return strconv.Itoa(s)
	case int32:
		return strconv.FormatInt(int64(s), 10)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// minEpochDigits is the shortest digit string read as epoch milliseconds.
const minEpochDigits = 10

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
}

// ParseTime accepts the timestamp shapes the backend has emitted over time:
// RFC 3339 strings, a couple of zone-less layouts (read as UTC), epoch
// milliseconds, or an already parsed time. A digit string counts as epoch
// milliseconds only when it has at least minEpochDigits digits.
func ParseTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		// Short digit runs such as a bare year are not epoch milliseconds.
		if len(s) < minEpochDigits {
			return time.Time{}, false
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil && ms > 0 {
			return time.UnixMilli(ms).UTC(), true
		}
	case float64, int, int64, json.Number:
		f, ok := toFloat(t)
		if ok && f > 0 && !math.IsInf(f, 0) {
			return time.UnixMilli(int64(f)).UTC(), true
		}
	}
	return time.Time{}, false
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
