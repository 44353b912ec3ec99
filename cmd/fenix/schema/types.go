package schema

import (
	"sync"

	"github.com/rs/zerolog"
)

// Document is the on-disk schema declaration: table name to column name to
// cast.
type Document struct {
	Tables map[string]map[string]string `json:"tables"`
}

// ColumnInfo is the answer of the schema endpoint for one column.
type ColumnInfo struct {
	Table  string `json:"table"`
	Column string `json:"column"`
	Exists bool   `json:"exists"`
	Cast   string `json:"cast,omitempty"`
}

// Repository holds declared table schemas in memory.
type Repository struct {
	tables map[string]map[string]string // table -> column -> cast
	mu     sync.RWMutex
	log    zerolog.Logger
}
