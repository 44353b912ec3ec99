package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookup(env map[string]string) func(string) string {
	return func(key string) string { return env[key] }
}

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv(lookup(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, BackendSQL, cfg.Backend)
	assert.Equal(t, 10, cfg.PerPage)
	assert.False(t, cfg.Negation)
	assert.False(t, cfg.Seed)
	assert.Empty(t, cfg.Tables)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
}

func TestFromEnv(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{
		"FENIX_ADDR":         ":9000",
		"DATABASE_DRIVER":    "sqlite",
		"DATABASE_URL":       "file:test.db",
		"FENIX_TABLES":       "patients, visits,,",
		"FENIX_BACKEND":      "gorm",
		"FENIX_SEED":         "true",
		"FILTER_PREFIX":      "qf-",
		"FILTER_PER_PAGE":    "25",
		"FILTER_NEGATION":    "1",
		"FILTER_IGNORE":      "secret,qf-token",
		"SCHEMA_FILE":        "/etc/fenix/schema.json",
		"SCHEMA_API_URL":     "http://schema:8080",
		"SCHEMA_API_RETRIES": "3",
		"LOG_LEVEL":          "debug",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "file:test.db", cfg.DatabaseURL)
	assert.Equal(t, []string{"patients", "visits"}, cfg.Tables)
	assert.Equal(t, BackendGorm, cfg.Backend)
	assert.True(t, cfg.Seed)
	assert.Equal(t, "qf-", cfg.Prefix)
	assert.Equal(t, 25, cfg.PerPage)
	assert.True(t, cfg.Negation)
	assert.Equal(t, []string{"secret", "qf-token"}, cfg.Ignore)
	assert.Equal(t, "/etc/fenix/schema.json", cfg.SchemaFile)
	assert.Equal(t, "http://schema:8080", cfg.SchemaAPIURL)
	assert.Equal(t, 3, cfg.SchemaAPIRetries)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}

func TestFromEnvRelativeSchemaFile(t *testing.T) {
	cfg, err := FromEnv(lookup(map[string]string{"SCHEMA_FILE": "schema.json"}))
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(wd, "schema.json"), cfg.SchemaFile)
}

func TestFromEnvInvalid(t *testing.T) {
	tests := map[string]string{
		"FILTER_PER_PAGE":    "ten",
		"FILTER_NEGATION":    "perhaps",
		"SCHEMA_API_RETRIES": "-1",
		"FENIX_BACKEND":      "mongo",
		"FENIX_SEED":         "sure",
		"LOG_LEVEL":          "loud",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			_, err := FromEnv(lookup(map[string]string{key: value}))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FENIX_TABLES=from_file\nFILTER_PREFIX=f-\n"), 0o600))
	t.Setenv("FILTER_PREFIX", "env-")
	t.Setenv("FENIX_TABLES", "")
	os.Unsetenv("FENIX_TABLES")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"from_file"}, cfg.Tables)
	assert.Equal(t, "env-", cfg.Prefix)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestFilterConfig(t *testing.T) {
	cfg := &Config{Prefix: "qf-", PerPage: 5, Negation: true, Ignore: []string{"secret"}}

	fc := cfg.FilterConfig(zerolog.Nop())

	assert.Equal(t, "qf-", fc.Prefix)
	assert.Equal(t, 5, fc.PerPage)
	assert.True(t, fc.Negation)
	assert.Equal(t, []string{"secret"}, fc.Ignore)
	assert.True(t, fc.Pagination)
	assert.Equal(t, types.OpLike, fc.TextOperator)
}

func TestAllowsTable(t *testing.T) {
	cfg := &Config{Tables: []string{"patients"}}

	assert.True(t, cfg.AllowsTable("patients"))
	assert.False(t, cfg.AllowsTable("users"))
	assert.False(t, (&Config{}).AllowsTable("patients"))
}
