package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/util"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Backends building the per-request target.
const (
	BackendSQL  = "sql"
	BackendGorm = "gorm"
)

// Config is the server configuration.
type Config struct {
	Addr           string
	DatabaseDriver string
	DatabaseURL    string
	Tables         []string
	Backend        string
	Seed           bool

	Prefix   string
	PerPage  int
	Negation bool
	Ignore   []string

	SchemaFile       string
	SchemaAPIURL     string
	SchemaAPIRetries int

	LogLevel zerolog.Level
}

// Default returns the configuration used for unset variables.
func Default() *Config {
	return &Config{
		Addr:           ":8080",
		DatabaseDriver: "postgres",
		Backend:        BackendSQL,
		PerPage:        10,
		LogLevel:       zerolog.InfoLevel,
	}
}

// Load reads envPath with godotenv when it exists and then the environment.
// Variables already set in the environment win over the file.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envPath, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds the configuration from a variable lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := Default()

	if v := getenv("FENIX_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := getenv("DATABASE_DRIVER"); v != "" {
		cfg.DatabaseDriver = v
	}
	cfg.DatabaseURL = getenv("DATABASE_URL")
	cfg.Tables = splitList(getenv("FENIX_TABLES"))
	cfg.Prefix = getenv("FILTER_PREFIX")
	cfg.Ignore = splitList(getenv("FILTER_IGNORE"))
	cfg.SchemaAPIURL = getenv("SCHEMA_API_URL")

	if v := getenv("FENIX_BACKEND"); v != "" {
		if v != BackendSQL && v != BackendGorm {
			return nil, fmt.Errorf("invalid FENIX_BACKEND %q", v)
		}
		cfg.Backend = v
	}
	if v := getenv("FENIX_SEED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FENIX_SEED %q: %w", v, err)
		}
		cfg.Seed = b
	}
	if v := getenv("FILTER_PER_PAGE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid FILTER_PER_PAGE %q", v)
		}
		cfg.PerPage = n
	}
	if v := getenv("FILTER_NEGATION"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid FILTER_NEGATION %q: %w", v, err)
		}
		cfg.Negation = b
	}
	if v := getenv("SCHEMA_API_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid SCHEMA_API_RETRIES %q", v)
		}
		cfg.SchemaAPIRetries = n
	}
	if v := getenv("SCHEMA_FILE"); v != "" {
		path, err := util.GetAbsolutePath(v)
		if err != nil {
			return nil, err
		}
		cfg.SchemaFile = path
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		level, err := zerolog.ParseLevel(v)
		if err != nil {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: %w", v, err)
		}
		cfg.LogLevel = level
	}

	return cfg, nil
}

// FilterConfig returns the engine configuration for one request.
func (c *Config) FilterConfig(log zerolog.Logger) queryfilter.Config {
	fc := queryfilter.DefaultConfig()
	fc.Prefix = c.Prefix
	fc.PerPage = c.PerPage
	fc.Negation = c.Negation
	fc.Ignore = c.Ignore
	fc.Log = log
	return fc
}

// AllowsTable reports whether table may be served. An empty table list
// allows nothing.
func (c *Config) AllowsTable(table string) bool {
	for _, t := range c.Tables {
		if t == table {
			return true
		}
	}
	return false
}

func splitList(s string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
