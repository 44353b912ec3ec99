package types

import (
	"fmt"
	"reflect"
	"strings"
	"time"
)

// Casts reported by schema inspectors. An empty cast means the column has no
// declared type and is treated like a string.
const (
	CastString   = "string"
	CastInteger  = "integer"
	CastFloat    = "float"
	CastBoolean  = "boolean"
	CastDate     = "date"
	CastDateTime = "datetime"
	CastJSON     = "json"
	// CastOpaque marks a typed column without a text form the store can
	// pattern match (uuid, inet, enums, arrays, bytea). It is only compared
	// as a whole value.
	CastOpaque = "opaque"
)

var integerTypes = map[string]bool{
	"int": true, "int2": true, "int4": true, "int8": true,
	"tinyint": true, "smallint": true, "mediumint": true, "bigint": true,
	"serial": true, "smallserial": true, "bigserial": true,
}

// IsTextCast reports whether a cast belongs to the text class, which is
// filtered with substring matching by default.
func IsTextCast(cast string) bool {
	return cast == "" || cast == CastString
}

// CastFromSQLType maps a database type name (information_schema data_type,
// SQLite declared type) onto a cast.
func CastFromSQLType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	switch {
	case t == "":
		return ""
	case t == CastString || t == "name" || t == "citext":
		return CastString
	case t == CastOpaque || t == "uuid" || t == "interval":
		return CastOpaque
	case integerTypes[t] || strings.Contains(t, "integer"):
		return CastInteger
	case strings.Contains(t, "char") || strings.Contains(t, "text") || strings.Contains(t, "clob"):
		return CastString
	case strings.Contains(t, "real") || strings.Contains(t, "floa") || strings.Contains(t, "doub") ||
		strings.Contains(t, "numeric") || strings.Contains(t, "decimal"):
		return CastFloat
	case strings.HasPrefix(t, "bool"):
		return CastBoolean
	case t == "date":
		return CastDate
	case strings.HasPrefix(t, "timestamp") || t == "datetime" || strings.HasPrefix(t, "time"):
		return CastDateTime
	case strings.HasPrefix(t, "json"):
		return CastJSON
	}
	return CastOpaque
}

// timeLayouts are tried in order when a value is compared against a date or
// datetime column.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02", // YYYY-MM-DD
	"2006-01",    // YYYY-MM
	"2006",       // YYYY
}

// literalLayouts is the prefix of timeLayouts a database reads as a date or
// timestamp literal.
var literalLayouts = timeLayouts[:6]

// ParseTime parses s using the date and datetime layouts accepted in filters.
func ParseTime(s string) (time.Time, error) {
	return parseTime(s, timeLayouts)
}

// ParseLiteral parses s only when it is a complete date or timestamp, so it
// can be bound unchanged against a date column.
func ParseLiteral(s string) (time.Time, error) {
	return parseTime(s, literalLayouts)
}

func parseTime(s string, layouts []string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %s", s)
}

var timeType = reflect.TypeOf(time.Time{})

// CastFromGoType maps a Go field or value type onto a cast.
func CastFromGoType(t reflect.Type) string {
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil {
		return ""
	}
	if t == timeType {
		return CastDateTime
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return CastInteger
	case reflect.Float32, reflect.Float64:
		return CastFloat
	case reflect.Bool:
		return CastBoolean
	case reflect.String:
		return CastString
	case reflect.Map, reflect.Slice, reflect.Struct:
		return CastJSON
	}
	return ""
}
