package datasource

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/queryfilter"
	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/jinzhu/gorm"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// GormQuery filters a table through a GORM scope. Like Query it defers every
// predicate to the database.
type GormQuery struct {
	db    *gorm.DB
	table string
	log   zerolog.Logger
}

// OpenGorm opens GORM on the connection pool of db. The dialect follows the
// driver of db.
func OpenGorm(db *sqlx.DB) (*gorm.DB, error) {
	var dialect string
	switch db.DriverName() {
	case "postgres", "cloudsqlpostgres":
		dialect = "postgres"
	case "sqlite", "sqlite3":
		dialect = "sqlite3"
	default:
		return nil, fmt.Errorf("no gorm dialect for driver %s", db.DriverName())
	}

	gdb, err := gorm.Open(dialect, db.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open gorm: %w", err)
	}
	gdb.LogMode(false)
	return gdb, nil
}

func NewGormQuery(db *gorm.DB, table string, log zerolog.Logger) *GormQuery {
	return &GormQuery{
		db:    db.Table(table),
		table: table,
		log:   log,
	}
}

func (q *GormQuery) Table() string {
	return q.table
}

func (q *GormQuery) Where(field string, op types.Operator, value interface{}) {
	column := q.db.Dialect().Quote(field)

	switch op {
	case types.OpIn, types.OpNotIn:
		items := toSlice(value)
		if len(items) == 0 {
			return
		}
		q.db = q.db.Where(fmt.Sprintf("%s %s (?)", column, op), items)
	default:
		if !op.Valid() {
			q.log.Warn().Str("field", field).Str("operator", op.String()).Msg("Unknown operator skipped")
			return
		}
		q.db = q.db.Where(fmt.Sprintf("%s %s ?", column, op), value)
	}
}

func (q *GormQuery) OrderBy(field string, dir types.Direction) {
	q.db = q.db.Order(q.db.Dialect().Quote(field) + " " + strings.ToUpper(string(dir)))
}

// Get reads every matching row. GORM v1 has no context support, ctx is unused.
func (q *GormQuery) Get(_ context.Context) ([]types.Row, error) {
	rows, err := q.db.Rows()
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return scanRows(rows)
}

func (q *GormQuery) Paginate(_ context.Context, perPage, page int) (*types.Page, error) {
	if page < 1 {
		page = 1
	}

	var total int
	if err := q.db.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("error counting rows: %w", err)
	}

	rows, err := q.db.Limit(perPage).Offset(types.Offset(page, perPage)).Rows()
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	items, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return types.NewPage(items, total, perPage, page), nil
}

func scanRows(rows *sql.Rows) ([]types.Row, error) {
	defer rows.Close()

	results := []types.Row{}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := sqlx.MapScan(rows, row); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		results = append(results, normalizeRow(row))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}
	return results, nil
}

// GormInspector answers schema questions from registered GORM models. The
// cast of a column follows the Go type of its model field. Tables without a
// model are looked up in the database through the inspector of its dialect.
type GormInspector struct {
	db       *gorm.DB
	models   map[string]*gorm.ModelStruct
	fallback queryfilter.SchemaInspector
	log      zerolog.Logger
}

func NewGormInspector(db *gorm.DB, log zerolog.Logger, models ...interface{}) *GormInspector {
	i := &GormInspector{
		db:     db,
		models: make(map[string]*gorm.ModelStruct),
		log:    log,
	}
	for _, model := range models {
		scope := db.NewScope(model)
		i.models[scope.TableName()] = scope.GetModelStruct()
	}

	fallback, err := NewInspector(sqlx.NewDb(db.DB(), db.Dialect().GetName()), log)
	if err != nil {
		log.Warn().Err(err).Msg("Only modelled tables can be inspected")
	} else {
		i.fallback = fallback
	}
	return i
}

func (i *GormInspector) field(table, column string) (*gorm.StructField, bool) {
	model, ok := i.models[table]
	if !ok {
		return nil, false
	}
	for _, f := range model.StructFields {
		if f.DBName == column && f.IsNormal && !f.IsIgnored {
			return f, true
		}
	}
	return nil, true
}

func (i *GormInspector) unmodelled(table string) (queryfilter.SchemaInspector, error) {
	if i.fallback == nil {
		return nil, fmt.Errorf("table %s has no model and dialect %s cannot be inspected", table, i.db.Dialect().GetName())
	}
	return i.fallback, nil
}

func (i *GormInspector) HasColumn(ctx context.Context, table, column string) (bool, error) {
	exists, _, err := i.DescribeColumn(ctx, table, column)
	return exists, err
}

func (i *GormInspector) ColumnCast(ctx context.Context, table, column string) (string, error) {
	_, cast, err := i.DescribeColumn(ctx, table, column)
	return cast, err
}

func (i *GormInspector) DescribeColumn(ctx context.Context, table, column string) (bool, string, error) {
	f, modelled := i.field(table, column)
	if modelled {
		if f == nil {
			return false, "", nil
		}
		return true, types.CastFromGoType(f.Struct.Type), nil
	}

	fallback, err := i.unmodelled(table)
	if err != nil {
		return false, "", err
	}
	exists, err := fallback.HasColumn(ctx, table, column)
	if err != nil || !exists {
		return false, "", err
	}
	cast, err := fallback.ColumnCast(ctx, table, column)
	if err != nil {
		return false, "", err
	}
	return true, cast, nil
}
