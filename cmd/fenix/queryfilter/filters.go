package queryfilter

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
	"github.com/rs/zerolog"
	"golang.org/x/exp/slices"
)

var (
	ErrNoInspector    = errors.New("no schema inspector configured and target does not inspect itself")
	ErrAlreadyApplied = errors.New("filters already applied")
	ErrNotApplied     = errors.New("filters not applied yet")
)

// Handler applies a named filter. value is nil when the parameter was empty,
// in which case the handler applies its own default or does nothing.
type Handler func(ctx context.Context, f *Filters, value interface{}) error

// skipError is returned by a handler that left the target untouched.
type skipError struct {
	reason string
}

func (e *skipError) Error() string {
	return "filter skipped: " + e.reason
}

// Skip reports from a Handler that the filter had no effect. The dispatcher
// forwards reason to the observers instead of failing.
func Skip(reason string) error {
	return &skipError{reason: reason}
}

type column struct {
	exists bool
	cast   string
}

// Filters applies one set of request parameters to one target. It is built
// per request and is not safe for concurrent use.
type Filters struct {
	cfg       Config
	filters   *types.FilterSet
	handlers  map[string]Handler
	ignore    []string
	observers []Observer
	log       zerolog.Logger

	target    Target
	inspector SchemaInspector
	columns   map[string]column

	consumed  []types.Param
	effective map[string]bool

	pagination int
	page       int
	filtered   bool

	materialized bool
	results      *ResultSet
	resultsErr   error
}

// New extracts the filters matching cfg.Prefix from params.
func New(params []types.Param, cfg Config) *Filters {
	f := &Filters{
		cfg:        cfg,
		filters:    Extract(params, cfg.Prefix),
		handlers:   make(map[string]Handler),
		observers:  cfg.Observers,
		log:        cfg.Log,
		columns:    make(map[string]column),
		effective:  make(map[string]bool),
		pagination: cfg.PerPage,
		page:       1,
	}
	if !cfg.Pagination {
		f.pagination = 0
	}

	f.handlers["order_desc"] = orderDesc
	f.handlers["order_asc"] = orderAsc
	f.handlers["order_by"] = orderAsc
	if cfg.Pagination {
		f.handlers["paginate"] = paginate
		f.handlers["page"] = currentPage
	} else {
		f.handlers["paginate"] = paginationDisabled
		f.handlers["page"] = paginationDisabled
	}
	for name, h := range cfg.Handlers {
		f.handlers[name] = h
	}

	f.Ignore(cfg.Ignore...)
	return f
}

// FromQuery builds Filters from a raw query string. Malformed pairs are
// dropped and logged.
func FromQuery(rawQuery string, cfg Config) *Filters {
	params, err := ParseQuery(rawQuery)
	if err != nil {
		cfg.Log.Warn().Err(err).Msg("Skipped malformed query parameters")
	}
	return New(params, cfg)
}

// Register adds or replaces the handler for a filter name.
func (f *Filters) Register(name string, h Handler) {
	f.handlers[name] = h
}

// Ignore adds names to the ignore list. A leading prefix is removed.
func (f *Filters) Ignore(names ...string) {
	for _, name := range names {
		name = f.clearPrefix(name)
		if !slices.Contains(f.ignore, name) {
			f.ignore = append(f.ignore, name)
		}
	}
}

// Apply runs every extracted filter against target, in extraction order.
// Malformed filters are skipped; schema lookup failures abort and are returned.
func (f *Filters) Apply(ctx context.Context, target Target) error {
	if f.filtered {
		return ErrAlreadyApplied
	}

	inspector := f.cfg.Inspector
	if inspector == nil {
		si, ok := target.(SchemaInspector)
		if !ok {
			return ErrNoInspector
		}
		inspector = si
	}

	f.filtered = true
	f.target = target
	f.inspector = inspector

	f.log.Debug().
		Str("table", target.Table()).
		Int("filters", f.filters.Len()).
		Msg("Applying filters")

	for _, p := range f.filters.Params() {
		if types.IsOperatorKey(p.Key) {
			f.consumed = append(f.consumed, p)
			continue
		}
		if f.shouldBeIgnored(p.Key) {
			f.notifyIgnored(p.Key, ReasonIgnoreList)
			continue
		}
		f.consumed = append(f.consumed, p)

		if err := f.dispatch(ctx, p.Key, p.Value); err != nil {
			return fmt.Errorf("failed to apply filter %s: %w", p.Key, err)
		}
	}

	return nil
}

func (f *Filters) dispatch(ctx context.Context, field string, value interface{}) error {
	h, ok := f.handlers[field]
	if !ok {
		return f.defaultFilter(ctx, field, value)
	}

	var arg interface{}
	if !isFalsy(value) {
		arg = value
	}

	f.log.Debug().Str("filter", field).Msg("Dispatching to filter handler")

	err := h(ctx, f, arg)
	var skip *skipError
	switch {
	case errors.As(err, &skip):
		f.notifyIgnored(field, skip.reason)
		return nil
	case err != nil:
		return err
	}

	f.effective[field] = true
	f.notifyApplied(field, ResolveOperator(f.filters, field, ""), arg, field)
	return nil
}

// column looks up field once per Filters instance.
func (f *Filters) column(ctx context.Context, field string) (column, error) {
	if c, ok := f.columns[field]; ok {
		return c, nil
	}

	table := f.target.Table()
	if d, ok := f.inspector.(ColumnDescriber); ok {
		exists, cast, err := d.DescribeColumn(ctx, table, field)
		if err != nil {
			return column{}, fmt.Errorf("failed to inspect column %s.%s: %w", table, field, err)
		}
		c := column{exists: exists}
		if exists {
			c.cast = cast
		}
		f.columns[field] = c
		return c, nil
	}

	exists, err := f.inspector.HasColumn(ctx, table, field)
	if err != nil {
		return column{}, fmt.Errorf("failed to inspect column %s.%s: %w", table, field, err)
	}

	c := column{exists: exists}
	if exists {
		c.cast, err = f.inspector.ColumnCast(ctx, table, field)
		if err != nil {
			return column{}, fmt.Errorf("failed to read cast of %s.%s: %w", table, field, err)
		}
	}

	f.columns[field] = c
	return c, nil
}

func (f *Filters) shouldBeIgnored(field string) bool {
	return slices.Contains(f.ignore, field)
}

func (f *Filters) clearPrefix(name string) string {
	return strings.TrimPrefix(name, f.cfg.Prefix)
}

func (f *Filters) notifyApplied(field string, op types.Operator, value interface{}, handler string) {
	for _, o := range f.observers {
		o.FilterApplied(field, op, value, handler)
	}
}

func (f *Filters) notifyIgnored(field, reason string) {
	for _, o := range f.observers {
		o.FilterIgnored(field, reason)
	}
}

// Lookup returns the extracted value of field, applied or not.
func (f *Filters) Lookup(field string) (interface{}, bool) {
	return f.filters.Lookup(field)
}

// FilterSet returns the extracted filters.
func (f *Filters) FilterSet() *types.FilterSet {
	return f.filters
}

// Operator returns the operator requested for field, or def.
func (f *Filters) Operator(field string, def types.Operator) types.Operator {
	return ResolveOperator(f.filters, field, def)
}

// Target returns the target passed to Apply.
func (f *Filters) Target() Target {
	return f.target
}

// HasColumn reports whether field is a column of the target's table.
func (f *Filters) HasColumn(ctx context.Context, field string) (bool, error) {
	c, err := f.column(ctx, field)
	return c.exists, err
}

// Applied reports whether the filter named field took effect.
func (f *Filters) Applied(field string) bool {
	return f.effective[field]
}

// Value returns the value field was consumed with.
func (f *Filters) Value(field string) (interface{}, bool) {
	for _, p := range f.consumed {
		if p.Key == field {
			return p.Value, true
		}
	}
	return nil, false
}

// Prefix returns the configured prefix.
func (f *Filters) Prefix() string {
	return f.cfg.Prefix
}

// IsFiltered reports whether Apply has been called.
func (f *Filters) IsFiltered() bool {
	return f.filtered
}

// Pagination returns the page size; 0 means no pagination.
func (f *Filters) Pagination() int {
	return f.pagination
}

// SetPagination changes the page size. Negative sizes are rejected.
func (f *Filters) SetPagination(perPage int) bool {
	if perPage < 0 || !f.cfg.Pagination {
		return false
	}
	f.pagination = perPage
	return true
}

// IsPaginated reports whether results are fetched one page at a time.
func (f *Filters) IsPaginated() bool {
	return f.pagination > 0
}

// CurrentPage returns the page fetched when paginated.
func (f *Filters) CurrentPage() int {
	return f.page
}
