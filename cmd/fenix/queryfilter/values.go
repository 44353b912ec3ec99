package queryfilter

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

// isFalsy mirrors what request frameworks treat as "no argument": nil, empty
// strings, "0", false, zero numbers and empty lists.
func isFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == "" || val == "0"
	case bool:
		return !val
	case int:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case []string:
		return len(val) == 0
	case []interface{}:
		return len(val) == 0
	}
	return false
}

func stringValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func toInt(v interface{}) (int, bool) {
	switch val := v.(type) {
	case int:
		return val, true
	case int32:
		return int(val), true
	case int64:
		return int(val), true
	case float64:
		if val != math.Trunc(val) {
			return 0, false
		}
		return int(val), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}

// listValue returns the elements of a list value.
func listValue(v interface{}) ([]interface{}, bool) {
	switch val := v.(type) {
	case []string:
		items := make([]interface{}, len(val))
		for i, s := range val {
			items[i] = s
		}
		return items, true
	case []interface{}:
		return val, true
	}
	return nil, false
}

// coerce converts a raw filter value to the Go type matching cast. A value
// that cannot be converted reports false so the filter is dropped instead of
// failing the query. Date values keep their textual form.
func coerce(cast string, v interface{}) (interface{}, bool) {
	switch cast {
	case types.CastInteger:
		switch val := v.(type) {
		case int, int32, int64:
			return val, true
		}
		n, err := strconv.ParseInt(strings.TrimSpace(stringValue(v)), 10, 64)
		if err != nil {
			return nil, false
		}
		return n, true
	case types.CastFloat:
		switch val := v.(type) {
		case float64, float32, int, int64:
			return val, true
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(stringValue(v)), 64)
		if err != nil {
			return nil, false
		}
		return f, true
	case types.CastBoolean:
		if b, ok := v.(bool); ok {
			return b, true
		}
		b, err := strconv.ParseBool(strings.TrimSpace(stringValue(v)))
		if err != nil {
			return nil, false
		}
		return b, true
	case types.CastDate, types.CastDateTime:
		// Validated only: the backing store interprets date literals itself,
		// so partial dates such as "2024" are refused.
		if t, ok := v.(time.Time); ok {
			return t, true
		}
		s := strings.TrimSpace(stringValue(v))
		if _, err := types.ParseLiteral(s); err != nil {
			return nil, false
		}
		return s, true
	}
	return v, true
}
