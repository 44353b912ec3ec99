package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

func NewRepository(log zerolog.Logger) *Repository {
	return &Repository{
		tables: make(map[string]map[string]string),
		log:    log,
	}
}

// LoadFromFile loads a schema document from a file path
func (repo *Repository) LoadFromFile(filePath string) error {
	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	if err := repo.LoadFromBytes(data); err != nil {
		return fmt.Errorf("failed to load %s: %w", filePath, err)
	}

	repo.log.Info().
		Str("file", filePath).
		Int("tables", len(repo.Tables())).
		Msg("Loaded schema")
	return nil
}

// LoadFromBytes merges a JSON schema document into the repository. Tables
// already present are replaced.
func (repo *Repository) LoadFromBytes(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to unmarshal schema document: %w", err)
	}
	if len(doc.Tables) == 0 {
		return fmt.Errorf("invalid schema document: no tables")
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	for table, columns := range doc.Tables {
		if table == "" {
			repo.log.Warn().Msg("Skipping table with missing name")
			continue
		}
		normalized := make(map[string]string, len(columns))
		for column, cast := range columns {
			normalized[column] = types.CastFromSQLType(cast)
		}
		repo.tables[table] = normalized
	}
	return nil
}

// Declare adds or replaces a single column.
func (repo *Repository) Declare(table, column, cast string) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.tables[table] == nil {
		repo.tables[table] = make(map[string]string)
	}
	repo.tables[table][column] = types.CastFromSQLType(cast)
}

// Tables returns the declared table names, sorted.
func (repo *Repository) Tables() []string {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	names := make([]string, 0, len(repo.tables))
	for name := range repo.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (repo *Repository) HasColumn(_ context.Context, table, column string) (bool, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	_, exists := repo.tables[table][column]
	return exists, nil
}

func (repo *Repository) ColumnCast(_ context.Context, table, column string) (string, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return repo.tables[table][column], nil
}

func (repo *Repository) DescribeColumn(_ context.Context, table, column string) (bool, string, error) {
	repo.mu.RLock()
	defer repo.mu.RUnlock()

	cast, exists := repo.tables[table][column]
	return exists, cast, nil
}
