package queryfilter

import (
	"context"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

// Target is the query or collection filters are applied to. Implementations
// mutate themselves in place: a query builder defers the predicates to its
// backing store, an in-memory collection evaluates them immediately.
type Target interface {
	// Table names the entity being filtered, used for schema lookups.
	Table() string
	Where(field string, op types.Operator, value interface{})
	OrderBy(field string, dir types.Direction)
	Get(ctx context.Context) ([]types.Row, error)
	Paginate(ctx context.Context, perPage, page int) (*types.Page, error)
}

// SchemaInspector answers column existence and type questions for a table.
// ColumnCast returns "" when the column has no declared cast.
type SchemaInspector interface {
	HasColumn(ctx context.Context, table, column string) (bool, error)
	ColumnCast(ctx context.Context, table, column string) (string, error)
}

// ColumnDescriber is implemented by inspectors that answer existence and cast
// in a single lookup. The filters prefer it over two SchemaInspector calls.
type ColumnDescriber interface {
	DescribeColumn(ctx context.Context, table, column string) (exists bool, cast string, err error)
}
