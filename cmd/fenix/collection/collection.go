package collection

import (
	"context"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

type predicate struct {
	field string
	op    types.Operator
	value interface{}
}

type order struct {
	field string
	dir   types.Direction
}

// Collection is an in-memory table. It filters, sorts and pages a slice of
// rows and describes its own columns, so it can be filtered without a
// separate schema inspector.
type Collection struct {
	name       string
	rows       []types.Row
	casts      map[string]string
	predicates []predicate
	orders     []order
	log        zerolog.Logger
}

// New creates a collection over rows. Column casts are inferred from the
// first non-nil value of every column.
func New(name string, rows []types.Row, log zerolog.Logger) *Collection {
	c := &Collection{
		name:  name,
		rows:  rows,
		casts: make(map[string]string),
		log:   log,
	}
	for _, row := range rows {
		for key, value := range row {
			if cast, ok := c.casts[key]; ok && cast != "" {
				continue
			}
			if value == nil {
				c.casts[key] = ""
				continue
			}
			c.casts[key] = types.CastFromGoType(reflect.TypeOf(value))
		}
	}
	return c
}

// WithCast declares the cast of a column, overriding the inferred one.
func (c *Collection) WithCast(column, cast string) *Collection {
	c.casts[column] = cast
	return c
}

func (c *Collection) Table() string {
	return c.name
}

func (c *Collection) HasColumn(_ context.Context, table, column string) (bool, error) {
	if table != c.name {
		return false, nil
	}
	_, ok := c.casts[column]
	return ok, nil
}

func (c *Collection) ColumnCast(_ context.Context, table, column string) (string, error) {
	if table != c.name {
		return "", fmt.Errorf("collection %s does not hold table %s", c.name, table)
	}
	return c.casts[column], nil
}

func (c *Collection) Where(field string, op types.Operator, value interface{}) {
	if !op.Valid() {
		c.log.Warn().Str("field", field).Str("operator", op.String()).Msg("Unknown operator skipped")
		return
	}
	c.predicates = append(c.predicates, predicate{field: field, op: op, value: value})
}

func (c *Collection) OrderBy(field string, dir types.Direction) {
	c.orders = append(c.orders, order{field: field, dir: dir})
}

// Get returns the matching rows, sorted.
func (c *Collection) Get(_ context.Context) ([]types.Row, error) {
	rows, err := c.filter()
	if err != nil {
		return nil, err
	}
	c.sort(rows)
	return rows, nil
}

func (c *Collection) Paginate(ctx context.Context, perPage, page int) (*types.Page, error) {
	rows, err := c.Get(ctx)
	if err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}

	total := len(rows)
	start := types.Offset(page, perPage)
	if start < 0 || start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	return types.NewPage(rows[start:end], total, perPage, page), nil
}

func (c *Collection) filter() ([]types.Row, error) {
	matchers := make([]func(types.Row) bool, 0, len(c.predicates))
	for _, p := range c.predicates {
		m, err := c.matcher(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}

	result := []types.Row{}
	for _, row := range c.rows {
		keep := true
		for _, m := range matchers {
			if !m(row) {
				keep = false
				break
			}
		}
		if keep {
			result = append(result, row)
		}
	}
	return result, nil
}

func (c *Collection) matcher(p predicate) (func(types.Row) bool, error) {
	cast := c.casts[p.field]

	switch p.op {
	case types.OpLike, types.OpNotLike:
		re, err := likePattern(toString(p.value))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern for %s: %w", p.field, err)
		}
		negate := p.op == types.OpNotLike
		return func(row types.Row) bool {
			v, ok := row[p.field]
			if !ok || v == nil {
				return false
			}
			return re.MatchString(toString(v)) != negate
		}, nil
	case types.OpIn, types.OpNotIn:
		items, ok := p.value.([]interface{})
		if !ok {
			items = []interface{}{p.value}
		}
		negate := p.op == types.OpNotIn
		return func(row types.Row) bool {
			v, ok := row[p.field]
			if !ok || v == nil {
				return false
			}
			for _, item := range items {
				if cmp, ok := compare(cast, v, item); ok && cmp == 0 {
					return !negate
				}
			}
			return negate
		}, nil
	}

	return func(row types.Row) bool {
		v, ok := row[p.field]
		if !ok || v == nil {
			return false
		}
		cmp, ok := compare(cast, v, p.value)
		if !ok {
			return false
		}
		switch p.op {
		case types.OpEqual:
			return cmp == 0
		case types.OpNotEqual:
			return cmp != 0
		case types.OpGreater:
			return cmp > 0
		case types.OpGreaterOrEqual:
			return cmp >= 0
		case types.OpLess:
			return cmp < 0
		case types.OpLessOrEqual:
			return cmp <= 0
		}
		return false
	}, nil
}

func (c *Collection) sort(rows []types.Row) {
	if len(c.orders) == 0 {
		return
	}
	slices.SortStableFunc(rows, func(a, b types.Row) int {
		for _, o := range c.orders {
			cmp := compareNullable(c.casts[o.field], a[o.field], b[o.field])
			if o.dir == types.Desc {
				cmp = -cmp
			}
			if cmp != 0 {
				return cmp
			}
		}
		return 0
	})
}

// compareNullable orders nil before any value.
func compareNullable(cast string, a, b interface{}) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	cmp, ok := compare(cast, a, b)
	if !ok {
		return strings.Compare(toString(a), toString(b))
	}
	return cmp
}

// compare orders a against b under cast. The second result is false when
// either side cannot be read as that cast.
func compare(cast string, a, b interface{}) (int, bool) {
	switch cast {
	case types.CastInteger, types.CastFloat:
		x, okA := toFloat(a)
		y, okB := toFloat(b)
		if !okA || !okB {
			return 0, false
		}
		switch {
		case x < y:
			return -1, true
		case x > y:
			return 1, true
		}
		return 0, true
	case types.CastBoolean:
		x, okA := toBool(a)
		y, okB := toBool(b)
		if !okA || !okB {
			return 0, false
		}
		switch {
		case x == y:
			return 0, true
		case !x:
			return -1, true
		}
		return 1, true
	case types.CastDate, types.CastDateTime:
		x, okA := toTime(a)
		y, okB := toTime(b)
		if !okA || !okB {
			return 0, false
		}
		return x.Compare(y), true
	}
	return strings.Compare(toString(a), toString(b)), true
}

// likePattern compiles a SQL LIKE pattern into a case-insensitive regular
// expression.
func likePattern(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder
	b.WriteString("(?is)^")
	for _, r := range pattern {
		switch r {
		case '%':
			b.WriteString(".*")
		case '_':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteString("$")
	return regexp.Compile(b.String())
}

func toString(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case time.Time:
		return val.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}

func toFloat(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(toString(v)), 64)
	return f, err == nil
}

func toBool(v interface{}) (bool, bool) {
	if b, ok := v.(bool); ok {
		return b, true
	}
	b, err := strconv.ParseBool(strings.TrimSpace(toString(v)))
	return b, err == nil
}

func toTime(v interface{}) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	t, err := types.ParseTime(strings.TrimSpace(toString(v)))
	return t, err == nil
}
