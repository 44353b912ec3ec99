package queryfilter

import (
	"context"
	"fmt"

	"github.com/SanteonNL/queryfilter/cmd/fenix/types"
)

type predicateCall struct {
	field string
	op    types.Operator
	value interface{}
}

type orderCall struct {
	field string
	dir   types.Direction
}

// fakeTarget records every call and serves rows without filtering them.
type fakeTarget struct {
	table  string
	rows   []types.Row
	err    error
	wheres []predicateCall
	orders []orderCall

	gets      int
	paginates int
	perPage   int
	page      int
}

func newFakeTarget(table string, n int) *fakeTarget {
	rows := make([]types.Row, 0, n)
	for i := 1; i <= n; i++ {
		rows = append(rows, types.Row{"id": int64(i), "name": fmt.Sprintf("row %d", i)})
	}
	return &fakeTarget{table: table, rows: rows}
}

func (t *fakeTarget) Table() string {
	return t.table
}

func (t *fakeTarget) Where(field string, op types.Operator, value interface{}) {
	t.wheres = append(t.wheres, predicateCall{field: field, op: op, value: value})
}

func (t *fakeTarget) OrderBy(field string, dir types.Direction) {
	t.orders = append(t.orders, orderCall{field: field, dir: dir})
}

func (t *fakeTarget) Get(_ context.Context) ([]types.Row, error) {
	t.gets++
	if t.err != nil {
		return nil, t.err
	}
	return t.rows, nil
}

func (t *fakeTarget) Paginate(_ context.Context, perPage, page int) (*types.Page, error) {
	t.paginates++
	t.perPage = perPage
	t.page = page
	if t.err != nil {
		return nil, t.err
	}
	start := types.Offset(page, perPage)
	if start > len(t.rows) {
		start = len(t.rows)
	}
	end := start + perPage
	if end > len(t.rows) {
		end = len(t.rows)
	}
	return types.NewPage(t.rows[start:end], len(t.rows), perPage, page), nil
}

// fakeInspector serves a fixed column -> cast map for every table.
type fakeInspector struct {
	columns   map[string]string
	err       error
	hasCalls  int
	castCalls int
}

func (i *fakeInspector) HasColumn(_ context.Context, _, column string) (bool, error) {
	i.hasCalls++
	if i.err != nil {
		return false, i.err
	}
	_, ok := i.columns[column]
	return ok, nil
}

func (i *fakeInspector) ColumnCast(_ context.Context, _, column string) (string, error) {
	i.castCalls++
	if i.err != nil {
		return "", i.err
	}
	return i.columns[column], nil
}

// describingInspector answers existence and cast in one lookup.
type describingInspector struct {
	*fakeInspector
	describeCalls int
}

func (i *describingInspector) DescribeColumn(_ context.Context, _, column string) (bool, string, error) {
	i.describeCalls++
	if i.err != nil {
		return false, "", i.err
	}
	cast, ok := i.columns[column]
	return ok, cast, nil
}

// inspectingTarget describes its own columns.
type inspectingTarget struct {
	*fakeTarget
	*fakeInspector
}

type event struct {
	kind    string
	field   string
	op      types.Operator
	value   interface{}
	handler string
	reason  string
}

type recorder struct {
	events []event
}

func (r *recorder) observer() Observer {
	return ObserverFuncs{
		Applied: func(field string, op types.Operator, value interface{}, handler string) {
			r.events = append(r.events, event{kind: "applied", field: field, op: op, value: value, handler: handler})
		},
		Ignored: func(field, reason string) {
			r.events = append(r.events, event{kind: "ignored", field: field, reason: reason})
		},
	}
}

func (r *recorder) ignored() map[string]string {
	m := make(map[string]string)
	for _, e := range r.events {
		if e.kind == "ignored" {
			m[e.field] = e.reason
		}
	}
	return m
}

func patientColumns() *fakeInspector {
	return &fakeInspector{columns: map[string]string{
		"id":         types.CastInteger,
		"age":        types.CastInteger,
		"name":       types.CastString,
		"email":      "",
		"weight":     types.CastFloat,
		"active":     types.CastBoolean,
		"birth_date": types.CastDate,
		"status":     types.CastString,
		"token":      types.CastOpaque,
	}}
}

func testConfig(inspector SchemaInspector, observers ...Observer) Config {
	cfg := DefaultConfig()
	cfg.Inspector = inspector
	cfg.Observers = observers
	return cfg
}
