package queryfilter

import (
	"context"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

func orderDesc(ctx context.Context, f *Filters, value interface{}) error {
	return f.OrderBy(ctx, value, types.Desc)
}

func orderAsc(ctx context.Context, f *Filters, value interface{}) error {
	return f.OrderBy(ctx, value, types.Asc)
}

// OrderBy orders the target by attribute when it is a column of the table.
// Unknown attributes leave the target untouched.
func (f *Filters) OrderBy(ctx context.Context, attribute interface{}, dir types.Direction) error {
	name, ok := attribute.(string)
	if !ok || name == "" {
		return Skip(ReasonNoValue)
	}

	exists, err := f.HasColumn(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return Skip(ReasonUnknownColumn)
	}

	f.target.OrderBy(name, dir)
	return nil
}

// paginate sets the page size. Without a value pagination is switched off.
func paginate(_ context.Context, f *Filters, value interface{}) error {
	if value == nil {
		f.pagination = 0
		return nil
	}
	n, ok := toInt(value)
	if !ok || !f.SetPagination(n) {
		return Skip(ReasonInvalidValue)
	}
	return nil
}

// currentPage selects the page fetched by a paginated result.
func currentPage(_ context.Context, f *Filters, value interface{}) error {
	if value == nil {
		f.page = 1
		return nil
	}
	n, ok := toInt(value)
	if !ok || n < 1 {
		return Skip(ReasonInvalidValue)
	}
	f.page = n
	return nil
}

// paginationDisabled keeps the reserved pagination names away from the
// default predicate builder when the capability is off.
func paginationDisabled(context.Context, *Filters, interface{}) error {
	return Skip(ReasonPaginationDisabled)
}
