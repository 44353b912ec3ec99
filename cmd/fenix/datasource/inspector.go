package datasource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// PostgresInspector reads column metadata from information_schema.
type PostgresInspector struct {
	db     *sqlx.DB
	schema string
	log    zerolog.Logger
}

// NewPostgresInspector inspects tables of schema, "public" when empty.
func NewPostgresInspector(db *sqlx.DB, schema string, log zerolog.Logger) *PostgresInspector {
	if schema == "" {
		schema = "public"
	}
	return &PostgresInspector{db: db, schema: schema, log: log}
}

func (i *PostgresInspector) dataType(ctx context.Context, table, column string) (string, bool, error) {
	query := i.db.Rebind(`SELECT data_type FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ? AND column_name = ?`)

	schema, name := splitTable(i.schema, table)
	var dataType string
	err := i.db.GetContext(ctx, &dataType, query, schema, name, column)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading information_schema: %w", err)
	}
	return dataType, true, nil
}

func (i *PostgresInspector) HasColumn(ctx context.Context, table, column string) (bool, error) {
	_, exists, err := i.dataType(ctx, table, column)
	return exists, err
}

func (i *PostgresInspector) ColumnCast(ctx context.Context, table, column string) (string, error) {
	dataType, _, err := i.dataType(ctx, table, column)
	if err != nil {
		return "", err
	}
	i.log.Debug().
		Str("table", table).
		Str("column", column).
		Str("data_type", dataType).
		Msg("Resolved column type")
	return types.CastFromSQLType(dataType), nil
}

func (i *PostgresInspector) DescribeColumn(ctx context.Context, table, column string) (bool, string, error) {
	dataType, exists, err := i.dataType(ctx, table, column)
	if err != nil || !exists {
		return false, "", err
	}
	return true, types.CastFromSQLType(dataType), nil
}

// SQLiteInspector reads column metadata through pragma_table_info.
type SQLiteInspector struct {
	db  *sqlx.DB
	log zerolog.Logger
}

func NewSQLiteInspector(db *sqlx.DB, log zerolog.Logger) *SQLiteInspector {
	return &SQLiteInspector{db: db, log: log}
}

func (i *SQLiteInspector) declaredType(ctx context.Context, table, column string) (string, bool, error) {
	schema, name := splitTable("main", table)
	var declared string
	err := i.db.GetContext(ctx, &declared, `SELECT type FROM pragma_table_info(?, ?) WHERE name = ?`, name, schema, column)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("error reading table info of %s: %w", table, err)
	}
	return declared, true, nil
}

func (i *SQLiteInspector) HasColumn(ctx context.Context, table, column string) (bool, error) {
	_, exists, err := i.declaredType(ctx, table, column)
	return exists, err
}

func (i *SQLiteInspector) ColumnCast(ctx context.Context, table, column string) (string, error) {
	declared, _, err := i.declaredType(ctx, table, column)
	if err != nil {
		return "", err
	}
	return types.CastFromSQLType(declared), nil
}

func (i *SQLiteInspector) DescribeColumn(ctx context.Context, table, column string) (bool, string, error) {
	declared, exists, err := i.declaredType(ctx, table, column)
	if err != nil || !exists {
		return false, "", err
	}
	return true, types.CastFromSQLType(declared), nil
}

// splitTable separates a "schema.table" name, using schema when unqualified.
func splitTable(schema, table string) (string, string) {
	if qualifier, name, ok := strings.Cut(table, "."); ok {
		return qualifier, name
	}
	return schema, table
}

// NewInspector picks the inspector matching the driver of db.
func NewInspector(db *sqlx.DB, log zerolog.Logger) (queryfilter.SchemaInspector, error) {
	switch db.DriverName() {
	case "postgres", "pgx", "cloudsqlpostgres":
		return NewPostgresInspector(db, "", log), nil
	case "sqlite", "sqlite3":
		return NewSQLiteInspector(db, log), nil
	}
	return nil, fmt.Errorf("no schema inspector for driver %s", db.DriverName())
}
