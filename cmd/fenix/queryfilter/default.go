package queryfilter

import (
	"context"
	"strings"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

const negationPrefix = "!"

// defaultFilter runs for every field without a handler. Columns with a
// non-string cast get an equality-class predicate, the others a substring
// match. Fields that are not columns of the table are ignored.
func (f *Filters) defaultFilter(ctx context.Context, field string, value interface{}) error {
	c, err := f.column(ctx, field)
	if err != nil {
		return err
	}
	if !c.exists {
		f.log.Debug().Str("filter", field).Msg("No such column, filter ignored")
		f.notifyIgnored(field, ReasonUnknownColumn)
		return nil
	}

	op, arg, ok := f.predicate(field, c.cast, value)
	if !ok {
		f.notifyIgnored(field, ReasonInvalidValue)
		return nil
	}

	f.target.Where(field, op, arg)
	f.effective[field] = true
	f.notifyApplied(field, op, arg, HandlerDefault)
	return nil
}

// predicate resolves the operator and bound value for a field.
func (f *Filters) predicate(field, cast string, value interface{}) (types.Operator, interface{}, bool) {
	if items, isList := listValue(value); isList {
		return f.listPredicate(field, cast, items)
	}

	if !types.IsTextCast(cast) {
		arg, ok := coerce(cast, value)
		if !ok {
			return "", nil, false
		}
		return ResolveOperator(f.filters, field, f.cfg.TypedOperator), arg, true
	}

	if op, explicit := explicitOperator(f.filters, field); explicit && f.cfg.TextOverride {
		return op, stringValue(value), true
	}

	op := f.cfg.TextOperator
	s := stringValue(value)
	if op != types.OpLike {
		return op, s, true
	}
	if f.cfg.Negation && strings.HasPrefix(s, negationPrefix) {
		op = types.OpNotLike
		s = strings.TrimPrefix(s, negationPrefix)
	}
	return op, "%" + s + "%", true
}

// listPredicate turns a list value into IN / NOT IN. Other operators have no
// list form and drop the filter.
func (f *Filters) listPredicate(field, cast string, items []interface{}) (types.Operator, interface{}, bool) {
	if len(items) == 0 {
		return "", nil, false
	}

	values := make([]interface{}, 0, len(items))
	for _, item := range items {
		v, ok := coerce(cast, item)
		if !ok {
			return "", nil, false
		}
		values = append(values, v)
	}

	switch ResolveOperator(f.filters, field, types.OpEqual) {
	case types.OpEqual:
		return types.OpIn, values, true
	case types.OpNotEqual:
		return types.OpNotIn, values, true
	}
	return "", nil, false
}
