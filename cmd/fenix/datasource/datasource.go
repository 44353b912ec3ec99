package datasource

import (
	"context"
	"fmt"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog"
)

type clause struct {
	sql  string
	args []interface{}
}

// Query is a SELECT over one table. Predicates and orderings are collected
// and only sent to the database by Get and Paginate.
type Query struct {
	db      *sqlx.DB
	table   string
	clauses []clause
	orders  []string
	log     zerolog.Logger
}

// NewQuery creates a Query selecting every column of table.
func NewQuery(db *sqlx.DB, table string, log zerolog.Logger) *Query {
	return &Query{
		db:    db,
		table: table,
		log:   log,
	}
}

func (q *Query) Table() string {
	return q.table
}

// Where adds a predicate. IN and NOT IN expect a slice value.
func (q *Query) Where(field string, op types.Operator, value interface{}) {
	column := pq.QuoteIdentifier(field)

	switch op {
	case types.OpIn, types.OpNotIn:
		items := toSlice(value)
		if len(items) == 0 {
			q.log.Warn().Str("field", field).Msg("Empty list predicate skipped")
			return
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(items)), ", ")
		q.clauses = append(q.clauses, clause{
			sql:  fmt.Sprintf("%s %s (%s)", column, op, placeholders),
			args: items,
		})
	default:
		if !op.Valid() {
			q.log.Warn().Str("field", field).Str("operator", op.String()).Msg("Unknown operator skipped")
			return
		}
		q.clauses = append(q.clauses, clause{
			sql:  fmt.Sprintf("%s %s ?", column, op),
			args: []interface{}{value},
		})
	}
}

func (q *Query) OrderBy(field string, dir types.Direction) {
	q.orders = append(q.orders, fmt.Sprintf("%s %s", pq.QuoteIdentifier(field), strings.ToUpper(string(dir))))
}

func (q *Query) where() (string, []interface{}) {
	if len(q.clauses) == 0 {
		return "", nil
	}
	parts := make([]string, 0, len(q.clauses))
	var args []interface{}
	for _, c := range q.clauses {
		parts = append(parts, c.sql)
		args = append(args, c.args...)
	}
	return " WHERE " + strings.Join(parts, " AND "), args
}

func (q *Query) selectSQL() (string, []interface{}) {
	where, args := q.where()
	query := "SELECT * FROM " + quoteTable(q.table) + where
	if len(q.orders) > 0 {
		query += " ORDER BY " + strings.Join(q.orders, ", ")
	}
	return query, args
}

// ToSQL returns the SELECT statement in the bind style of the driver.
func (q *Query) ToSQL() (string, []interface{}) {
	query, args := q.selectSQL()
	return q.db.Rebind(query), args
}

// CountSQL returns the statement counting the matching rows.
func (q *Query) CountSQL() (string, []interface{}) {
	where, args := q.where()
	return q.db.Rebind("SELECT COUNT(*) FROM " + quoteTable(q.table) + where), args
}

// Get reads every matching row.
func (q *Query) Get(ctx context.Context) ([]types.Row, error) {
	query, args := q.ToSQL()
	return q.read(ctx, query, args)
}

// Paginate reads one page of perPage rows and counts the total.
func (q *Query) Paginate(ctx context.Context, perPage, page int) (*types.Page, error) {
	if page < 1 {
		page = 1
	}

	countQuery, countArgs := q.CountSQL()
	var total int
	if err := q.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, fmt.Errorf("error counting rows: %w", err)
	}

	query, args := q.selectSQL()
	args = append(args, perPage, types.Offset(page, perPage))

	rows, err := q.read(ctx, q.db.Rebind(query+" LIMIT ? OFFSET ?"), args)
	if err != nil {
		return nil, err
	}
	return types.NewPage(rows, total, perPage, page), nil
}

func (q *Query) read(ctx context.Context, query string, args []interface{}) ([]types.Row, error) {
	q.log.Debug().
		Str("query", query).
		Int("args", len(args)).
		Msg("Executing query")

	rows, err := q.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	results := []types.Row{}
	for rows.Next() {
		row := make(map[string]interface{})
		if err := rows.MapScan(row); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		results = append(results, normalizeRow(row))
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over rows: %w", err)
	}

	return results, nil
}

// normalizeRow turns driver byte slices into strings.
func normalizeRow(row map[string]interface{}) types.Row {
	for key, value := range row {
		if b, ok := value.([]byte); ok {
			row[key] = string(b)
		}
	}
	return types.Row(row)
}

// quoteTable quotes a possibly schema-qualified table name.
func quoteTable(table string) string {
	parts := strings.Split(table, ".")
	for i, part := range parts {
		parts[i] = pq.QuoteIdentifier(part)
	}
	return strings.Join(parts, ".")
}

func toSlice(value interface{}) []interface{} {
	switch v := value.(type) {
	case []interface{}:
		return v
	case []string:
		items := make([]interface{}, len(v))
		for i, s := range v {
			items[i] = s
		}
		return items
	case nil:
		return nil
	}
	return []interface{}{value}
}
