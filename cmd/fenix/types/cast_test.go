package types

import (
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCastFromSQLType(t *testing.T) {
	tests := []struct {
		sqlType string
		want    string
	}{
		{"integer", CastInteger},
		{"INTEGER", CastInteger},
		{"bigint", CastInteger},
		{"int4", CastInteger},
		{"character varying", CastString},
		{"VARCHAR(255)", CastString},
		{"text", CastString},
		{"uuid", CastOpaque},
		{"inet", CastOpaque},
		{"USER-DEFINED", CastOpaque},
		{"ARRAY", CastOpaque},
		{"bytea", CastOpaque},
		{"BLOB", CastOpaque},
		{"string", CastString},
		{"opaque", CastOpaque},
		{"citext", CastString},
		{"numeric(10,2)", CastFloat},
		{"double precision", CastFloat},
		{"REAL", CastFloat},
		{"boolean", CastBoolean},
		{"date", CastDate},
		{"timestamp without time zone", CastDateTime},
		{"datetime", CastDateTime},
		{"jsonb", CastJSON},
		{"interval", CastOpaque},
		{"point", CastOpaque},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.sqlType, func(t *testing.T) {
			assert.Equal(t, tt.want, CastFromSQLType(tt.sqlType))
		})
	}
}

func TestCastFromGoType(t *testing.T) {
	var name *string
	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"int", 1, CastInteger},
		{"uint", uint(1), CastInteger},
		{"int64", int64(1), CastInteger},
		{"float", 1.5, CastFloat},
		{"bool", true, CastBoolean},
		{"string", "x", CastString},
		{"string pointer", name, CastString},
		{"time", time.Now(), CastDateTime},
		{"map", map[string]interface{}{}, CastJSON},
		{"slice", []string{}, CastJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CastFromGoType(reflect.TypeOf(tt.value)))
		})
	}

	assert.Equal(t, "", CastFromGoType(nil))
}

func TestIsTextCast(t *testing.T) {
	assert.True(t, IsTextCast(""))
	assert.True(t, IsTextCast(CastString))
	assert.False(t, IsTextCast(CastInteger))
	assert.False(t, IsTextCast(CastDate))
	assert.False(t, IsTextCast(CastOpaque))
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		input string
		want  time.Time
	}{
		{"2024", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTime(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTime("yesterday")
	assert.Error(t, err)
}

func TestParseLiteral(t *testing.T) {
	for _, input := range []string{"2024-03-15", "2024-03-15 10:30:00", "2024-03-15T10:30:00", "2024-03-15T10:30:00+02:00"} {
		_, err := ParseLiteral(input)
		assert.NoError(t, err, input)
	}
	for _, input := range []string{"2024", "2024-03", "15-03-2024", ""} {
		_, err := ParseLiteral(input)
		assert.Error(t, err, input)
	}
}
